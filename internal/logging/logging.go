// Package logging configures the process-wide logrus logger.
//
// The terminal belongs to the UI while podcastr runs, so log output goes to
// a file. Callers log through logrus directly once Setup has run.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
)

// Options configure Setup.
type Options struct {
	File  string // empty discards all output
	Level string // logrus level name; invalid names fall back to info
	JSON  bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup points logrus at opts.File and applies the level and formatter.
// The returned closer releases the file handle.
func Setup(opts Options) (io.Closer, error) {
	logger := logrus.StandardLogger()
	return configure(logger, opts)
}

func configure(logger *logrus.Logger, opts Options) (io.Closer, error) {
	if opts.JSON {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	}
	logger.SetLevel(ParseLevel(opts.Level))

	path := strings.TrimSpace(opts.File)
	if path == "" {
		logger.SetOutput(io.Discard)
		return nopCloser{}, nil
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logger.SetOutput(f)
	return f, nil
}

// ParseLevel maps a level name to a logrus level, defaulting to info.
func ParseLevel(name string) logrus.Level {
	parsed, err := logrus.ParseLevel(strings.TrimSpace(name))
	if err != nil {
		return logrus.InfoLevel
	}
	return parsed
}
