// Package logging builds the zap logger used across the generator.
// Records go as JSON to a rotating file; verbose runs also mirror them to stderr.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/areibman/vibeshift/config"
)

// New returns a logger for cfg and a func that flushes and closes the file.
func New(cfg config.LogConfig) (*zap.Logger, func() error, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, nil, err
	}
	file := &lumberjack.Logger{
		Filename:   cfg.File,
		MaxSize:    cfg.MaxSizeMB,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAgeDays,
		Compress:   true,
	}
	level := zapcore.InfoLevel
	if cfg.Verbose {
		level = zapcore.DebugLevel
	}
	logger := zap.New(newCore(file, os.Stderr, level, cfg.Verbose), zap.AddCaller())
	closer := func() error {
		_ = logger.Sync()
		return file.Close()
	}
	return logger, closer, nil
}

func newCore(file io.Writer, console io.Writer, level zapcore.Level, verbose bool) zapcore.Core {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(file), level)
	if !verbose {
		return fileCore
	}
	consoleCfg := zap.NewDevelopmentEncoderConfig()
	consoleCore := zapcore.NewCore(zapcore.NewConsoleEncoder(consoleCfg), zapcore.Lock(zapcore.AddSync(console)), level)
	return zapcore.NewTee(fileCore, consoleCore)
}
