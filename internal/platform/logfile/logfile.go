// Package logfile mirrors the standard logger into a size-rotated file.
package logfile

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Rotation defaults for command log files.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Setup sends log output to stderr and to a rotated file at path. An empty
// path leaves the standard logger untouched. The returned function restores
// the previous output and closes the file.
func Setup(path string) (func() error, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return func() error { return nil }, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    DefaultMaxSizeMB,
		MaxBackups: DefaultMaxBackups,
		MaxAge:     DefaultMaxAgeDays,
	}
	previous := log.Writer()
	log.SetOutput(io.MultiWriter(previous, file))

	return func() error {
		log.SetOutput(previous)
		return file.Close()
	}, nil
}
