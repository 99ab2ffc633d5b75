package ndsort

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with ndsort-specific context.
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
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithName adds the configuration name of a sorter.
func (l *Logger) WithName(name string) *Logger {
	return &Logger{
		Logger: l.Logger.With("sorter", name),
	}
}

// LogCreated logs the construction of a sorter.
func (l *Logger) LogCreated(ctx context.Context, maxPoints, maxDimension, threads int) {
	l.DebugContext(ctx, "sorter created",
		"max_points", maxPoints,
		"max_dimension", maxDimension,
		"threads", threads,
	)
}

// LogSort logs a sort call. Rejected calls carry the validation error.
func (l *Logger) LogSort(ctx context.Context, stats SortStats, err error) {
	if err != nil {
		l.WarnContext(ctx, "sort rejected",
			"points", stats.Points,
			"dimension", stats.Dimension,
			"max_rank", stats.MaxRank,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "sort completed",
		"points", stats.Points,
		"unique", stats.Unique,
		"dimension", stats.Dimension,
		"max_rank", stats.MaxRank,
		"saturated", stats.Saturated,
		"duration", stats.Duration.Round(time.Microsecond),
	)
}
