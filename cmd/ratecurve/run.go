package main

import (
	"github.com/YuminosukeSato/ratecurve/config"
	"github.com/YuminosukeSato/ratecurve/pipeline"
	"github.com/YuminosukeSato/ratecurve/pkg/log"
	"github.com/YuminosukeSato/ratecurve/report"
	"github.com/spf13/cobra"
)

type runFlags struct {
	configPath string
	data       string
	selector   string
	testSize   float64
	seed       int64
	chart      string
	logLevel   string
	logFormat  string
	noBaseline bool
}

func newRunCmd() *cobra.Command {
	var f runFlags
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the full pipeline and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, &f)
			if err != nil {
				return err
			}
			if err := log.SetupLogger(cfg.Log.Level, cfg.Log.Format); err != nil {
				return err
			}
			logger := log.GetLogger()

			res, err := pipeline.Run(cfg, logger)
			if err != nil {
				return err
			}
			return report.WriteSummary(cmd.OutOrStdout(), res.Summary())
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.configPath, "config", "ratecurve.yaml", "path to the YAML configuration")
	fl.StringVar(&f.data, "data", "", "CSV file with the records")
	fl.StringVar(&f.selector, "selector", "", "feature set: 1-4 or smallest, small, new, large")
	fl.Float64Var(&f.testSize, "test-size", 0, "held-out fraction in (0, 1)")
	fl.Int64Var(&f.seed, "seed", 0, "seed for the split and the model")
	fl.StringVar(&f.chart, "chart", "", "chart output path (.png, .svg, .pdf, ...)")
	fl.StringVar(&f.logLevel, "log-level", "", "debug, info, warn or error")
	fl.StringVar(&f.logFormat, "log-format", "", "json or console")
	fl.BoolVar(&f.noBaseline, "no-baseline", false, "skip the ridge baseline")
	return cmd
}

// loadConfig reads the file configuration and applies the flags the user set.
func loadConfig(cmd *cobra.Command, f *runFlags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return nil, err
	}

	fl := cmd.Flags()
	if fl.Changed("data") {
		cfg.Data = f.data
	}
	if fl.Changed("selector") {
		cfg.Selector = f.selector
	}
	if fl.Changed("test-size") {
		cfg.TestSize = f.testSize
	}
	if fl.Changed("seed") {
		cfg.Seed = f.seed
	}
	if fl.Changed("chart") {
		cfg.Output.Chart = f.chart
	}
	if fl.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if fl.Changed("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if f.noBaseline {
		cfg.Baseline = false
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
