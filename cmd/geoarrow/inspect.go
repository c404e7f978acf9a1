package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	geoarrow "github.com/tingold/orb-geoarrow"
	"github.com/tingold/orb-geoarrow/geometry"
)

var mixedKinds = []geometry.Kind{
	geometry.KindPoint,
	geometry.KindLineString,
	geometry.KindPolygon,
	geometry.KindMultiPoint,
	geometry.KindMultiLineString,
	geometry.KindMultiPolygon,
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Print the layout and metadata of a geometry file",
	Args:  cobra.ExactArgs(1),
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
		logger.Debug("read array",
			zap.String("path", args[0]),
			zap.Int("rows", arr.Len()),
			zap.Duration("took", time.Since(start)))
		return describe(cmd.OutOrStdout(), arr, conf.GetInt("inspect.sample"))
	},
}

func init() {
	inspectCmd.Flags().Int("sample", 5, "Number of leading rows to print")
	if err := conf.BindPFlag("inspect.sample", inspectCmd.Flags().Lookup("sample")); err != nil {
		panic(err)
	}
}

// summary is the description of an array shared by inspect and the /info
// endpoint of serve.
type summary struct {
	Extension string         `json:"extension"`
	Kind      string         `json:"kind"`
	Rows      int            `json:"rows"`
	Nulls     int            `json:"nulls"`
	Dimension string         `json:"dimension"`
	CoordType string         `json:"coord_type"`
	CRS       string         `json:"crs,omitempty"`
	Edges     string         `json:"edges"`
	Children  map[string]int `json:"children,omitempty"`
}

func summarize(arr geoarrow.Array) summary {
	s := summary{
		Extension: arr.ExtensionName(),
		Kind:      arr.Kind().String(),
		Rows:      arr.Len(),
		Nulls:     arr.NullN(),
		Dimension: arr.Dim().String(),
		CoordType: arr.CoordType().String(),
		Edges:     arr.Metadata().Edges.String(),
	}
	if crs := arr.Metadata().CRS; crs != nil {
		switch {
		case crs.Code > 0:
			s.CRS = fmt.Sprintf("EPSG:%d", crs.Code)
		case crs.Name != "":
			s.CRS = crs.Name
		default:
			s.CRS = "wkt"
		}
	}
	if m, ok := arr.(*geoarrow.MixedArray); ok {
		s.Children = make(map[string]int)
		for i := 0; i < m.Len(); i++ {
			s.Children[m.KindOf(i).String()]++
		}
	}
	return s
}

func describe(w io.Writer, arr geoarrow.Array, sample int) error {
	s := summarize(arr)
	fmt.Fprintf(w, "extension:  %s\n", s.Extension)
	fmt.Fprintf(w, "rows:       %d (%d null)\n", s.Rows, s.Nulls)
	fmt.Fprintf(w, "dimension:  %s\n", s.Dimension)
	fmt.Fprintf(w, "coord type: %s\n", s.CoordType)
	fmt.Fprintf(w, "edges:      %s\n", s.Edges)
	if s.CRS != "" {
		fmt.Fprintf(w, "crs:        %s\n", s.CRS)
	}
	if s.Children != nil {
		fmt.Fprint(w, "children:  ")
		for _, k := range mixedKinds {
			if n := s.Children[k.String()]; n > 0 {
				fmt.Fprintf(w, " %s=%d", k, n)
			}
		}
		fmt.Fprintln(w)
	}

	if sample > arr.Len() {
		sample = arr.Len()
	}
	if sample <= 0 {
		return nil
	}
	head, err := geoarrow.ToWKB(arr.Slice(0, sample), nil)
	if err != nil {
		return err
	}
	for i := 0; i < sample; i++ {
		g := arr.Get(i)
		if g == nil {
			fmt.Fprintf(w, "  [%d] null\n", i)
			continue
		}
		fmt.Fprintf(w, "  [%d] %s %d bytes wkb\n", i, g.Kind(), len(head.Value(i)))
	}
	return nil
}
