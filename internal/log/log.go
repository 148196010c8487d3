// Package log provides slog-based logging for the tool. Output goes to
// stderr as text or JSON; setting SCRIPTVID_LOG_FILE additionally writes
// JSON records to a rotated file.
package log

import (
	"log/slog"
	"os"
	"strings"
	"sync"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger initialization. Values can come from flags or
// from the environment:
//   - SCRIPTVID_LOG_LEVEL=debug|info|warn|error
//   - SCRIPTVID_LOG_FORMAT=text|json
//   - SCRIPTVID_LOG_FILE=<path> (enables rotated file logging)
type Options struct {
	Level  string
	Format string
	File   string
}

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

// L returns the process logger, initializing from the environment if
// Init has not been called.
func L() *slog.Logger {
	mu.RLock()
	l := logger
	mu.RUnlock()
	if l != nil {
		return l
	}
	Init(FromEnv())
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Init configures the process logger and slog's default.
func Init(opts Options) {
	lvl := parseLevel(opts.Level)

	var h slog.Handler
	if strings.EqualFold(opts.Format, "json") {
		h = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	}

	if strings.TrimSpace(opts.File) != "" {
		w := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
		fh := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
		h = tee{console: h, file: fh}
	}

	l := slog.New(h)

	mu.Lock()
	logger = l
	mu.Unlock()
	slog.SetDefault(l)
}

// FromEnv builds Options from environment variables.
func FromEnv() Options {
	return Options{
		Level:  getenv("SCRIPTVID_LOG_LEVEL", "info"),
		Format: getenv("SCRIPTVID_LOG_FORMAT", "text"),
		File:   os.Getenv("SCRIPTVID_LOG_FILE"),
	}
}

// WithComponent returns a logger with the component attribute pre-set.
func WithComponent(name string) *slog.Logger {
	return L().With(slog.String("component", name))
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
