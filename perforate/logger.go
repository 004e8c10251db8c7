package perforate

import (
	"go.uber.org/zap"
)

// Logger encapsulates a Logger and module which it belongs to.
type Logger struct {
	*zap.SugaredLogger
	module string
}

// NewLogger returns a new logger for cfg, also writing to cfg.LogFiles.
func NewLogger(cfg Config) (*Logger, error) {
	lvl, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	zcfg := loggerConfig()
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.OutputPaths = append(zcfg.OutputPaths, cfg.LogFiles...)
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{SugaredLogger: l.Sugar()}, nil
}

// NopLogger returns a logger which discards everything.
func NopLogger() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// Module returns (stylised) module name.
func (l *Logger) Module() string {
	return l.module
}

// withModule returns a copy of l logging for module.
func (l *Logger) withModule(module string) *Logger {
	if l == nil {
		l = NopLogger()
	}
	return &Logger{SugaredLogger: l.SugaredLogger, module: module}
}
