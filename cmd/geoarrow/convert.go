package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/flatgeobuf"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in> <out>",
	Short: "Convert between FlatGeobuf, GeoJSON, hex WKB and Arrow IPC",
	Long: `Reads the geometry column of <in> into a native array and writes it to
<out>. Formats are chosen by extension: .fgb, .geojson/.json, .wkb/.hex
(one hex-encoded geometry per line, blank for null) and .arrow/.ipc.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := buildOptions()
		if err != nil {
			return err
		}

		start := time.Now()
		arr, err := readArray(cmd.Context(), args[0], opts)
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}
		logger.Info("read array",
			zap.String("path", args[0]),
			zap.String("type", arr.ExtensionName()),
			zap.Int("rows", arr.Len()),
			zap.Duration("took", time.Since(start)))

		if k := conf.GetString("convert.kind"); k != "" {
			kind, err := geoarrow.ParseArrayKind(k)
			if err != nil {
				return err
			}
			if arr, err = geoarrow.Cast(arr, kind, opts); err != nil {
				return fmt.Errorf("casting to %s: %w", kind, err)
			}
		}

		fgbOpts := flatgeobuf.DefaultOptions()
		fgbOpts.Name = conf.GetString("convert.name")
		fgbOpts.IncludeIndex = !conf.GetBool("convert.no_index")

		start = time.Now()
		if err := writeArray(args[1], arr, fgbOpts); err != nil {
			return fmt.Errorf("writing %s: %w", args[1], err)
		}
		logger.Info("wrote array",
			zap.String("path", args[1]),
			zap.Duration("took", time.Since(start)))
		return nil
	},
}

func init() {
	flag := convertCmd.Flags()
	flag.String("kind", "", "Cast to this GeoArrow type before writing, e.g. multipolygon")
	flag.String("name", "", "Layer name written to FlatGeobuf headers")
	flag.Bool("no_index", false, "Skip the FlatGeobuf spatial index")
	for _, name := range []string{"kind", "name", "no_index"} {
		if err := conf.BindPFlag("convert."+name, flag.Lookup(name)); err != nil {
			panic(err)
		}
	}
}
