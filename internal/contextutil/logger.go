// Package contextutil carries request-scoped values shared across layers.
package contextutil

import (
	"context"
	"log/slog"
)

type contextKey string

const loggerKey contextKey = "logger"

// LoggerFromContext extracts a logger from context if available, otherwise returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctxLogger := ctx.Value(loggerKey); ctxLogger != nil {
		if l, ok := ctxLogger.(*slog.Logger); ok {
			return l
		}
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx that carries logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}
