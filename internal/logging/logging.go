package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Options selects the log output.
type Options struct {
	// Format is "json" or "text" (default).
	Format string
	// Level is debug, info, warn or error. Defaults to debug.
	Level string
	// File, when set, receives a copy of every record and is rotated by size.
	File string
}

// New initializes a new slog logger and sets it as the default. The returned
// closer flushes the log file, if any.
func New(opts Options) io.Closer {
	var (
		out    io.Writer = os.Stdout
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   false,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		closer = rotator
	}

	slog.SetDefault(slog.New(NewHandler(out, opts)))
	return closer
}

// NewHandler builds the handler New installs, writing to w.
func NewHandler(w io.Writer, opts Options) slog.Handler {
	level := ParseLevel(opts.Level)
	switch opts.Format {
	case "json":
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level})
	default:
		return slog.NewTextHandler(w, &slog.HandlerOptions{
			Level:     level,
			AddSource: true,
		})
	}
}

// ParseLevel maps a level name to a slog level, defaulting to debug.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
