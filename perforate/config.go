package perforate

import (
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap/zapcore"
)

// Config is the configuration shared by loop discovery and loop perforation.
type Config struct {
	InfoFile      string   `toml:"info"`      // Manifest written by discovery.
	RatesFile     string   `toml:"rates"`     // Manifest read by perforation.
	ExcludeMarker string   `toml:"exclude"`   // Functions with this in their name are never perforated.
	LogLevel      string   `toml:"log_level"` // "debug", "info", "warn" or "error".
	LogFiles      []string `toml:"log_files"` // Extra log outputs.
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		InfoFile:      "loop-info.json",
		RatesFile:     "loop-rates.json",
		ExcludeMarker: "NO_PERF",
		LogLevel:      "info",
	}
}

// LoadConfig loads configuration with priority: defaults -> file -> env.
// An empty path skips the file. Command line flags are applied by the caller.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, errors.Wrapf(err, "failed to read config file %s", path)
		}
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, errors.Wrapf(err, "failed to parse config file %s", path)
		}
	}
	applyEnvOverrides(&cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if info := os.Getenv("LOOPPERF_INFO"); info != "" {
		cfg.InfoFile = info
	}
	if rates := os.Getenv("LOOPPERF_RATES"); rates != "" {
		cfg.RatesFile = rates
	}
	if marker, ok := os.LookupEnv("LOOPPERF_EXCLUDE"); ok {
		cfg.ExcludeMarker = marker
	}
	if level := os.Getenv("LOOPPERF_LOG_LEVEL"); level != "" {
		cfg.LogLevel = strings.ToLower(level)
	}
}

// Level returns the zap level of LogLevel, info if unset.
func (c Config) Level() (zapcore.Level, error) {
	if c.LogLevel == "" {
		return zapcore.InfoLevel, nil
	}
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return lvl, errors.Wrapf(err, "invalid log level %q", c.LogLevel)
	}
	return lvl, nil
}
