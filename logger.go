package flatdex

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/flatdex/flatdex/index"
)

// Logger wraps slog.Logger with flatdex-specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

// WithSource adds a source file field to the logger.
func (l *Logger) WithSource(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("source", name),
	}
}

// WithEncoding adds an encoding field to the logger.
func (l *Logger) WithEncoding(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("encoding", name),
	}
}

// LogImport logs an import operation.
func (l *Logger) LogImport(ctx context.Context, source string, stats index.Stats, err error) {
	if err != nil {
		l.ErrorContext(ctx, "import failed",
			"source", source,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "import completed",
			"source", source,
			"records", stats.Records,
			"tokens", stats.Tokens,
			"occurrences", stats.Occurrences,
		)
	}
}

// LogSearch logs a search operation.
func (l *Logger) LogSearch(ctx context.Context, term string, resultsFound int, err error) {
	if err != nil {
		l.ErrorContext(ctx, "search failed",
			"term", term,
			"error", err,
		)
	} else {
		l.DebugContext(ctx, "search completed",
			"term", term,
			"results", resultsFound,
		)
	}
}

// LogPrune logs a frequency pruning pass.
func (l *Logger) LogPrune(ctx context.Context, minCount, removed int, elapsed time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "prune failed",
			"min_count", minCount,
			"error", err,
		)
	} else {
		l.InfoContext(ctx, "prune completed",
			"min_count", minCount,
			"tokens_removed", removed,
			"elapsed", elapsed,
		)
	}
}
