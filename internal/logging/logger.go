// Package logging provides zap logger helpers.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/JakeFAU/oja-awards-crawler/internal/config"
)

// New builds a zap.Logger that writes "timestamp LEVEL: message" lines to the
// configured log file, teeing to stderr in development.
func New(cfg config.LoggingConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if cfg.Level != "" {
		if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, fmt.Errorf("parse log level %q: %w", cfg.Level, err)
		}
	} else {
		level.SetLevel(zapcore.DebugLevel)
	}

	var outputs []string
	if cfg.File != "" {
		if err := prepareFile(cfg.File, cfg.Truncate); err != nil {
			return nil, err
		}
		outputs = append(outputs, cfg.File)
	}
	if cfg.Development || len(outputs) == 0 {
		outputs = append(outputs, "stderr")
	}

	zcfg := zap.Config{
		Level:             level,
		Development:       cfg.Development,
		DisableCaller:     true,
		DisableStacktrace: !cfg.Development,
		Encoding:          "console",
		EncoderConfig:     encoderConfig(),
		OutputPaths:       outputs,
		ErrorOutputPaths:  []string{"stderr"},
	}
	logger, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:          "ts",
		LevelKey:         "level",
		MessageKey:       "msg",
		NameKey:          "logger",
		StacktraceKey:    "stacktrace",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeLevel:      levelWithColon,
		EncodeDuration:   zapcore.StringDurationEncoder,
		EncodeName:       zapcore.FullNameEncoder,
		ConsoleSeparator: " ",
	}
}

func levelWithColon(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(l.CapitalString() + ":")
}

// prepareFile makes sure the parent directory exists and, when truncate is
// set, empties any log left by a previous run.
func prepareFile(path string, truncate bool) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	if !truncate {
		return nil
	}
	// #nosec G304 -- path comes from operator configuration.
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o640)
	if err != nil {
		return fmt.Errorf("truncate log file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close log file: %w", err)
	}
	return nil
}
