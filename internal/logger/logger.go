package logger

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"sync"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls the console and rotating-file sinks.
type Config struct {
	Level          string `yaml:"level"`
	ConsoleEnabled bool   `yaml:"console_enabled"`
	FileEnabled    bool   `yaml:"file_enabled"`
	FilePath       string `yaml:"file_path"`
	FileMaxSizeMB  int    `yaml:"file_max_size_mb"`
	FileMaxBackups int    `yaml:"file_max_backups"`
}

// DefaultConfig logs info and above to stderr only.
func DefaultConfig() Config {
	return Config{
		Level:          "INFO",
		ConsoleEnabled: true,
		FilePath:       "logs/digsim.log",
		FileMaxSizeMB:  10,
		FileMaxBackups: 3,
	}
}

var (
	mu  sync.RWMutex
	log *slog.Logger
)

// Initialize sets up the process logger. Safe to call more than once; the
// last call wins.
func Initialize(cfg Config) {
	level := parseLevel(cfg.Level)
	var handlers []slog.Handler
	if cfg.ConsoleEnabled {
		handlers = append(handlers, slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	if cfg.FileEnabled && cfg.FilePath != "" {
		sink := &lumberjack.Logger{
			Filename:   cfg.FilePath,
			MaxSize:    cfg.FileMaxSizeMB,
			MaxBackups: cfg.FileMaxBackups,
		}
		handlers = append(handlers, slog.NewJSONHandler(sink, &slog.HandlerOptions{Level: level}))
	}
	mu.Lock()
	defer mu.Unlock()
	switch len(handlers) {
	case 0:
		log = nil
	case 1:
		log = slog.New(handlers[0])
	default:
		log = slog.New(multiHandler{handlers: handlers})
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// Debug logs a debug message.
func Debug(msg string, args ...any) {
	if l := current(); l != nil {
		l.Debug(msg, args...)
	}
}

// Info logs an info message.
func Info(msg string, args ...any) {
	if l := current(); l != nil {
		l.Info(msg, args...)
	}
}

// Warn logs a warning message.
func Warn(msg string, args ...any) {
	if l := current(); l != nil {
		l.Warn(msg, args...)
	}
}

// Error logs an error message.
func Error(msg string, args ...any) {
	if l := current(); l != nil {
		l.Error(msg, args...)
	}
}

// multiHandler fans a record out to every underlying handler.
type multiHandler struct {
	handlers []slog.Handler
}

func (h multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, handler := range h.handlers {
		if handler.Enabled(ctx, r.Level) {
			if err := handler.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (h multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithAttrs(attrs)
	}
	return multiHandler{handlers: handlers}
}

func (h multiHandler) WithGroup(name string) slog.Handler {
	handlers := make([]slog.Handler, len(h.handlers))
	for i, handler := range h.handlers {
		handlers[i] = handler.WithGroup(name)
	}
	return multiHandler{handlers: handlers}
}
