package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/nickng/loopperf/manifest"
	"github.com/nickng/loopperf/perforate"
	"github.com/spf13/cobra"
)

var perforateOut string

var perforateCmd = &cobra.Command{
	Use:   "perforate [files.go... | packages...]",
	Short: "Apply the rates manifest and print the perforated SSA",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rates, err := manifest.Load(cfg.RatesFile)
		if err != nil {
			return err
		}
		info, err := buildSSA(args)
		if err != nil {
			return err
		}
		p := perforate.NewPerforator(cfg, rates, logger)
		modified := perforate.Run(info, p)
		for _, key := range p.Unmatched() {
			logger.Warnf("No loop matches %s", key)
		}

		out, err := output(perforateOut)
		if err != nil {
			return err
		}
		defer out.Close()
		if _, err := info.WriteTo(out); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "%s %d loop(s) using %s\n",
			color.YellowString("Perforated"), modified, cfg.RatesFile)
		return nil
	},
}

func init() {
	perforateCmd.Flags().StringVarP(&perforateOut, "out", "o", "", "Output file for SSA (default: stdout)")
}
