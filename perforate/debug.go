//go:build debug

package perforate

import (
	"github.com/fatih/color"
	"go.uber.org/zap"
)

func loggerConfig() zap.Config {
	return zap.NewDevelopmentConfig()
}

func discoveryTag() string  { return color.GreenString("discover") }
func perforatorTag() string { return color.RedString("perforate") }
