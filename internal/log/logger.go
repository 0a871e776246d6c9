package log

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	charmlog "github.com/charmbracelet/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file rotation defaults.
const (
	DefaultMaxSizeMB  = 10
	DefaultMaxBackups = 3
	DefaultMaxAgeDays = 28
)

// Options configure the application logger.
type Options struct {
	// Console receives human-readable logs. Defaults to os.Stderr.
	Console io.Writer

	// Verbose lowers the console level from Warn to Debug.
	Verbose bool

	// File, when set, additionally receives JSON logs at Info level or,
	// when verbose, Debug level. The file is rotated.
	File string

	// MaxSizeMB, MaxBackups and MaxAgeDays control rotation. Zero values
	// use the defaults.
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// Logger is a sanitizing slog.Logger with an optional rotated log file.
type Logger struct {
	*slog.Logger
	file io.Closer
}

// New builds the application logger: a charmbracelet console handler and,
// when Options.File is set, a JSON file handler, both behind a
// SecureHandler.
func New(opts Options) (*Logger, error) {
	console := opts.Console
	if console == nil {
		console = os.Stderr
	}

	level := charmlog.WarnLevel
	if opts.Verbose {
		level = charmlog.DebugLevel
	}
	consoleHandler := charmlog.NewWithOptions(console, charmlog.Options{
		Level:           level,
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})

	handlers := []slog.Handler{consoleHandler}
	l := &Logger{}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0750); err != nil {
			return nil, err
		}
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    valueOr(opts.MaxSizeMB, DefaultMaxSizeMB),
			MaxBackups: valueOr(opts.MaxBackups, DefaultMaxBackups),
			MaxAge:     valueOr(opts.MaxAgeDays, DefaultMaxAgeDays),
			Compress:   true,
		}
		fileLevel := slog.LevelInfo
		if opts.Verbose {
			fileLevel = slog.LevelDebug
		}
		handlers = append(handlers, slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: fileLevel}))
		l.file = rotator
	}

	var handler slog.Handler = consoleHandler
	if len(handlers) > 1 {
		handler = &fanoutHandler{handlers: handlers}
	}
	l.Logger = slog.New(NewSecureHandler(handler))

	return l, nil
}

// Close closes the log file, if any.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}

// Discard returns a logger that drops everything. Components use it when
// no logger is configured.
func Discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func valueOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// fanoutHandler sends every record to each handler that accepts its level.
type fanoutHandler struct {
	handlers []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, handler := range h.handlers {
		if !handler.Enabled(ctx, r.Level) {
			continue
		}
		if err := handler.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithAttrs(attrs)
	}
	return &fanoutHandler{handlers: next}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	next := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		next[i] = handler.WithGroup(name)
	}
	return &fanoutHandler{handlers: next}
}
