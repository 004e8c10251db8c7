// Command loopperf discovers and perforates loops in Go programs.
//
// Loop perforation runs in two passes over the SSA IR. The discover pass
// writes every loop that can be perforated to a manifest (loop-info.json by
// default). After rates are assigned to the loops, the perforate pass reads
// the rates manifest (loop-rates.json by default) and replaces the step of
// each loop's induction variable with its rate.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
