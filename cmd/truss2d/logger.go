package main

import (
	"fmt"

	"go.uber.org/zap"
)

// newLogger builds a zap logger. console format uses the development
// encoder, json the production one.
func newLogger(level, format string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var cfg zap.Config
	switch format {
	case "console", "":
		cfg = zap.NewDevelopmentConfig()
		cfg.DisableStacktrace = true
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format %q (console, json)", format)
	}
	cfg.Level = lvl
	return cfg.Build()
}
