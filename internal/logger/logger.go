package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"noteful/internal/config"
)

var (
	singleton atomic.Pointer[slog.Logger]
	once      sync.Once

	discard = slog.New(slog.NewTextHandler(io.Discard, nil))
)

// Init initializes the process logger from cfg. The first call wins;
// later calls return the same instance regardless of their config.
func Init(cfg config.Config) (*slog.Logger, error) {
	once.Do(func() {
		singleton.Store(New(os.Stdout, cfg.LogLevel, cfg.LogFormat))
	})
	return singleton.Load(), nil
}

// New builds a standalone logger writing to w.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = slog.NewTextHandler(w, opts)
	default:
		handler = slog.NewJSONHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

// L returns the process logger. Before Init it returns a logger that
// discards everything, so packages can log unconditionally.
func L() *slog.Logger {
	if l := singleton.Load(); l != nil {
		return l
	}
	return discard
}
