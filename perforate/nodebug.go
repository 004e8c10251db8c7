//go:build !debug

package perforate

import "go.uber.org/zap"

func loggerConfig() zap.Config {
	return zap.NewProductionConfig()
}

func discoveryTag() string  { return "discover" }
func perforatorTag() string { return "perforate" }
