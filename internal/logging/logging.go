// Package logging builds the zerolog logger shared by the console and the
// mock API. The TUI owns the terminal, so console logs go to a file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// Options configure New.
type Options struct {
	Level   string `validate:"oneof=debug info warn error disabled"`
	File    string // empty with a nil Writer disables logging
	Service string `validate:"required"`
	Version string
	// Console writes human-readable lines instead of JSON.
	Console bool
	// Writer overrides File; tests use it.
	Writer io.Writer
}

func (o *Options) setDefaults() {
	if o.Level == "" {
		o.Level = "info"
	}
	if o.Service == "" {
		o.Service = "healthdesk"
	}
	if o.Version == "" {
		o.Version = "dev"
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger and the closer for its output. With logging disabled
// the logger is zerolog.Nop.
func New(opts Options) (zerolog.Logger, io.Closer, error) {
	opts.setDefaults()
	if err := validator.New().Struct(opts); err != nil {
		return zerolog.Nop(), nopCloser{}, fmt.Errorf("logger config validation error: %w", err)
	}
	if opts.Level == "disabled" || (opts.File == "" && opts.Writer == nil) {
		return zerolog.Nop(), nopCloser{}, nil
	}

	var out io.Writer = opts.Writer
	var closer io.Closer = nopCloser{}
	if out == nil {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
		}
		file, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		out, closer = file, file
	}
	if opts.Console {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
	}

	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil {
		_ = closer.Close()
		return zerolog.Nop(), nopCloser{}, err
	}

	logger := zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("service", opts.Service).
		Str("version", opts.Version).
		Logger()
	return logger, closer, nil
}
