// Package logger builds the zap logger from the log section of the configuration.
package logger

import (
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pynezz/cybermap/pkg/model"
)

// New returns a logger for cfg. Empty fields fall back to info level,
// console encoding and stdout.
func New(cfg model.LogConfig) (*zap.Logger, error) {
	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(cfg.Level)),
		Encoding:         "console",
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
	}
	if cfg.Encoding == "json" {
		zcfg.Encoding = "json"
		zcfg.EncoderConfig = zap.NewProductionEncoderConfig()
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if len(cfg.Output) > 0 {
		zcfg.OutputPaths = cfg.Output
	}

	log, err := zcfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	return log, nil
}

// ToFile returns a copy of cfg writing only to path. The TUI owns the
// terminal, so it logs to a file instead.
func ToFile(cfg model.LogConfig, path string) model.LogConfig {
	cfg.Output = []string{path}
	return cfg
}

func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug", "trace":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
