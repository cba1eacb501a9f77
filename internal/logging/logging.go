// Package logging builds the application logger.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/verte-zerg/vocquiz/internal/config"
)

// Options select the logger level, format and destination.
type Options struct {
	Level  string
	Format string
	// File is used when ToFile is set. Empty means the default log path.
	File   string
	ToFile bool
}

// OptionsFrom resolves logging options from the config file.
func OptionsFrom(cfg config.LogConfig, toFile bool) Options {
	opts := Options{Level: config.DefaultLogLevel, Format: config.DefaultLogFormat, ToFile: toFile}
	if cfg.Level != nil {
		opts.Level = *cfg.Level
	}
	if cfg.Format != nil {
		opts.Format = *cfg.Format
	}
	if cfg.File != nil {
		opts.File = *cfg.File
	}
	return opts
}

// New builds a configured logrus logger. The returned closer releases the
// log file, if any.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	logger := logrus.New()
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, fmt.Errorf("parse log level: %w", err)
	}
	logger.SetLevel(level)
	switch opts.Format {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	default:
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if !opts.ToFile {
		logger.SetOutput(os.Stderr)
		return logger, nopCloser{}, nil
	}
	path := opts.File
	if path == "" {
		path = config.DefaultLogPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(file)
	return logger, file, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
