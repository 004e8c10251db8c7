package main

import (
	"github.com/spf13/cobra"
)

var (
	ssaOut  string
	ssaFunc string
)

var ssaCmd = &cobra.Command{
	Use:   "ssa [files.go... | packages...]",
	Short: "Print the SSA IR seen by the loop passes",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := buildSSA(args)
		if err != nil {
			return err
		}
		out, err := output(ssaOut)
		if err != nil {
			return err
		}
		defer out.Close()
		if ssaFunc != "" {
			_, err = info.WriteFunc(out, ssaFunc)
			return err
		}
		_, err = info.WriteTo(out)
		return err
	},
}

func init() {
	ssaCmd.Flags().StringVarP(&ssaOut, "out", "o", "", "Output file (default: stdout)")
	ssaCmd.Flags().StringVar(&ssaFunc, "func", "", `Function to print (format: "import/path".FuncName or pkg.FuncName), all if empty`)
}
