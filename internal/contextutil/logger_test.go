package contextutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Error("LoggerFromContext() should fall back to slog.Default()")
	}

	custom := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := WithLogger(context.Background(), custom)
	if got := LoggerFromContext(ctx); got != custom {
		t.Error("LoggerFromContext() should return the logger stored by WithLogger")
	}
}

func TestLoggerFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), loggerKey, "not a logger")
	if got := LoggerFromContext(ctx); got != slog.Default() {
		t.Error("LoggerFromContext() should ignore values of the wrong type")
	}
}
