// Package logging builds the zap loggers of the command line tool.
package logging

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options configures New.
type Options struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level" toml:"level" validate:"omitempty,oneof=debug info warn error"`
	// Development selects a colored console encoder on stderr; otherwise
	// JSON is written.
	Development bool `yaml:"development" toml:"development"`
	// File, when set, receives a copy of every entry through a rotating
	// writer.
	File       string `yaml:"file" toml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb" toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `yaml:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `yaml:"max_age_days" toml:"max_age_days" validate:"gte=0"`
	Compress   bool   `yaml:"compress" toml:"compress"`
}

// DefaultOptions logs info as JSON to stderr with no file.
func DefaultOptions() Options {
	return Options{Level: "info", MaxSizeMB: 50, MaxBackups: 5, MaxAgeDays: 14, Compress: true}
}

// ParseLevel maps a level name to its zap level; "" is info.
func ParseLevel(s string) (zapcore.Level, error) {
	if s == "" {
		return zapcore.InfoLevel, nil
	}
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(strings.ToLower(s))); err != nil {
		return l, errors.Wrapf(err, "log level %q", s)
	}

	return l, nil
}

// New returns a logger writing to stderr and, with File set, to a
// rotating file. The closer flushes and closes the file; it is a no-op
// without one.
func New(o Options) (*zap.Logger, io.Closer, error) {
	return build(o, zapcore.Lock(os.Stderr))
}

func build(o Options, console zapcore.WriteSyncer) (*zap.Logger, io.Closer, error) {
	level, err := ParseLevel(o.Level)
	if err != nil {
		return nil, nil, err
	}

	encCfg := zap.NewProductionEncoderConfig()
	if o.Development {
		encCfg = zap.NewDevelopmentEncoderConfig()
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)

	var enc zapcore.Encoder = zapcore.NewJSONEncoder(encCfg)
	if o.Development {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}
	cores := []zapcore.Core{zapcore.NewCore(enc, console, level)}

	var closer io.Closer = nopCloser{}
	if o.File != "" {
		if err := os.MkdirAll(filepath.Dir(o.File), 0o755); err != nil {
			return nil, nil, errors.Wrap(err, "create log directory")
		}
		rot := &lumberjack.Logger{
			Filename:   o.File,
			MaxSize:    o.MaxSizeMB,
			MaxBackups: o.MaxBackups,
			MaxAge:     o.MaxAgeDays,
			Compress:   o.Compress,
		}
		fileCfg := zap.NewProductionEncoderConfig()
		fileCfg.TimeKey = "ts"
		fileCfg.EncodeTime = zapcore.TimeEncoderOfLayout(time.RFC3339)
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(fileCfg), zapcore.AddSync(rot), level))
		closer = rot
	}

	opts := []zap.Option{zap.AddCaller()}
	if o.Development {
		opts = append(opts, zap.Development())
	}

	return zap.New(zapcore.NewTee(cores...), opts...), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
