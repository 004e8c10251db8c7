package main

import (
	"io"
	"log"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/nickng/loopperf/perforate"
	"github.com/nickng/loopperf/ssa"
	"github.com/nickng/loopperf/ssa/build"
	"github.com/spf13/cobra"
)

var (
	cfgFile      string
	infoFile     string
	ratesFile    string
	exclude      string
	logLevel     string
	logFiles     []string
	buildlogPath string
	noColor      bool

	cfg    perforate.Config
	logger *perforate.Logger
)

var rootCmd = &cobra.Command{
	Use:          "loopperf",
	Short:        "loopperf - loop perforation for Go SSA IR",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if noColor {
			color.NoColor = true
		}
		var err error
		if cfg, err = perforate.LoadConfig(cfgFile); err != nil {
			return err
		}
		applyFlagOverrides(cmd, &cfg)
		logger, err = perforate.NewLogger(cfg)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		// Sync error ignored. See https://github.com/uber-go/zap/issues/328
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Configuration file (TOML)")
	flags.StringVar(&infoFile, "info", "", "Discovered loops manifest (default loop-info.json)")
	flags.StringVar(&ratesFile, "rates", "", "Loop rates manifest (default loop-rates.json)")
	flags.StringVar(&exclude, "exclude", "", "Marker excluding functions by name (default NO_PERF)")
	flags.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringSliceVar(&logFiles, "log", nil, "Also write log to file")
	flags.StringVar(&buildlogPath, "buildlog", "", "Specify build log file (use '-' for stdout)")
	flags.BoolVar(&noColor, "no-color", false, "Disable colour output")

	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(perforateCmd)
	rootCmd.AddCommand(ssaCmd)
}

// applyFlagOverrides applies flags set on the command line over cfg.
func applyFlagOverrides(cmd *cobra.Command, cfg *perforate.Config) {
	flags := cmd.Flags()
	if flags.Changed("info") {
		cfg.InfoFile = infoFile
	}
	if flags.Changed("rates") {
		cfg.RatesFile = ratesFile
	}
	if flags.Changed("exclude") {
		cfg.ExcludeMarker = exclude
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	cfg.LogFiles = append(cfg.LogFiles, logFiles...)
}

// buildSSA builds SSA IR from Go files, or from package patterns if any
// argument is not a .go file.
func buildSSA(args []string) (*ssa.Info, error) {
	var conf build.Configurer
	if allGoFiles(args) {
		conf = build.FromFiles(args)
	} else {
		conf = build.FromPackages(args...)
	}
	conf = conf.Default()

	switch buildlogPath {
	case "":
	case "-":
		conf = conf.WithBuildLog(os.Stdout, log.LstdFlags)
	default:
		f, err := os.Create(buildlogPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		conf = conf.WithBuildLog(f, log.LstdFlags)
	}
	return conf.Build()
}

func allGoFiles(args []string) bool {
	for _, arg := range args {
		if !strings.HasSuffix(arg, ".go") {
			return false
		}
	}
	return len(args) > 0
}

// output returns the writer for path, stdout if path is empty.
func output(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }
