package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nickng/loopperf/perforate"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover [files.go... | packages...]",
	Short: "Record perforable loops in the info manifest",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := buildSSA(args)
		if err != nil {
			return err
		}
		d := perforate.NewDiscovery(cfg, logger)
		perforate.Run(info, d)
		if err := d.Finalize(); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s %d perforable loop(s) written to %s\n",
			color.GreenString("Discovered"), d.Count(), cfg.InfoFile)
		return nil
	},
}
