package main

import (
	"github.com/YuminosukeSato/ratecurve/config"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	var (
		path   string
		output string
	)
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration, or write it with --output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}
			if output != "" {
				return cfg.Save(output)
			}
			return cfg.Encode(cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVar(&path, "config", "ratecurve.yaml", "path to the YAML configuration")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the configuration to this file")
	return cmd
}
