package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config selects where and how log records are written.
type Config struct {
	Level  string
	Format string
	// File enables a rotated log file next to stderr when set.
	File       string
	MaxSizeMB  int
	MaxBackups int
}

// New builds a logger from cfg. The returned closer flushes the log file, if any.
func New(cfg Config) (*slog.Logger, func(), error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, nil, err
	}

	var w io.Writer = os.Stderr
	closer := func() {}
	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return nil, nil, goerr.Wrap(err, "create log directory", goerr.V("path", cfg.File))
		}
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			Compress:   true,
		}
		w = io.MultiWriter(os.Stderr, file)
		closer = func() { _ = file.Close() }
	}

	handler, err := newHandler(w, cfg.Format, level)
	if err != nil {
		closer()
		return nil, nil, err
	}
	return slog.New(handler), closer, nil
}

// ParseLevel maps a level name onto slog.Level. An empty name means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return 0, goerr.New("unknown log level", goerr.V("level", name))
}

func newHandler(w io.Writer, format string, level slog.Level) (slog.Handler, error) {
	opts := &slog.HandlerOptions{Level: level}
	switch strings.ToLower(format) {
	case "text", "":
		return slog.NewTextHandler(w, opts), nil
	case "json":
		return slog.NewJSONHandler(w, opts), nil
	}
	return nil, goerr.New("unknown log format", goerr.V("format", format))
}
