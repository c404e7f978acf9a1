package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	geoarrow "github.com/tingold/orb-geoarrow"
)

const envPrefix = "GEOARROW"

var (
	conf   = viper.New()
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:          "geoarrow",
	Short:        "Columnar geometry toolkit",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfg := conf.GetString("config"); cfg != "" {
			conf.SetConfigFile(cfg)
			if err := conf.ReadInConfig(); err != nil {
				return fmt.Errorf("reading config: %w", err)
			}
		}
		l, err := newLogger(conf.GetBool("verbose"))
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	flag := rootCmd.PersistentFlags()
	flag.String("config", "", "Configuration file (yaml, json or toml)")
	flag.BoolP("verbose", "v", false, "Human readable debug logging")
	flag.String("coord_type", "interleaved", "Coordinate layout of built arrays: interleaved or separated")
	flag.Bool("prefer_multi", false, "Store singular geometries in the multi children of mixed arrays")
	flag.Int("epsg", 0, "EPSG code attached to built arrays, replacing any source CRS")

	rootCmd.AddCommand(inspectCmd, convertCmd, serveCmd)

	if err := conf.BindPFlags(flag); err != nil {
		panic(err)
	}
	conf.SetEnvPrefix(envPrefix)
	conf.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))
	conf.AutomaticEnv()
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "json"
	return cfg.Build()
}

// buildOptions returns the array options selected by flags, environment
// and config file.
func buildOptions() (*geoarrow.Options, error) {
	opts := geoarrow.DefaultOptions()
	switch strings.ToLower(conf.GetString("coord_type")) {
	case "", "interleaved":
		opts.CoordType = geoarrow.Interleaved
	case "separated":
		opts.CoordType = geoarrow.Separated
	default:
		return nil, fmt.Errorf("unknown coordinate type %q", conf.GetString("coord_type"))
	}
	opts.PreferMulti = conf.GetBool("prefer_multi")
	if code := conf.GetInt("epsg"); code == 4326 {
		opts.Metadata.CRS = geoarrow.WGS84()
	} else if code > 0 {
		opts.Metadata.CRS = &geoarrow.CRS{Code: code}
	}
	return opts, nil
}
