package main

import (
	"fmt"
	"strings"

	"github.com/YuminosukeSato/ratecurve/dataset"
	"github.com/spf13/cobra"
)

func newFeaturesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "features [selector]",
		Short: "List the columns of one or all feature sets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selectors := dataset.Selectors()
			if len(args) == 1 {
				sel, err := dataset.ParseSelector(args[0])
				if err != nil {
					return err
				}
				selectors = []dataset.Selector{sel}
			}

			out := cmd.OutOrStdout()
			for _, sel := range selectors {
				fs, err := dataset.Lookup(sel)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%d %s (%d columns): %s\n",
					int(sel), fs.Name, fs.Width(), strings.Join(fs.Names(), ", "))
			}
			return nil
		},
	}
}
