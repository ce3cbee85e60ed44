package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"docqa/internal/contextutil"
	"docqa/internal/document"
	"docqa/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeJSON writes v as a JSON response with the given status.
func writeJSON(ctx context.Context, w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error: message,
	})
}

// handleServiceError maps service errors to appropriate HTTP status codes and responses.
func handleServiceError(w http.ResponseWriter, ctx context.Context, err error, defaultMsg string) {
	logger := contextutil.LoggerFromContext(ctx)

	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		logger.WarnContext(ctx, "validation error", "error", err)
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Validation error: %s", validationErr.Error()))
		return
	}

	// Bad uploads surface their own message
	if errors.Is(err, document.ErrUnsupportedFormat) ||
		errors.Is(err, document.ErrInvalidFormat) ||
		errors.Is(err, service.ErrEmptyInput) ||
		errors.Is(err, service.ErrInvalidInput) {
		logger.WarnContext(ctx, "invalid input", "error", err)
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if errors.Is(err, service.ErrNotFound) {
		logger.InfoContext(ctx, "resource not found", "error", err)
		writeError(w, http.StatusNotFound, "Resource not found")
		return
	}

	logger.ErrorContext(ctx, "service error", "error", err)

	if errors.Is(err, service.ErrExternalService) {
		writeError(w, http.StatusBadGateway, "External service error")
		return
	}

	// Default to internal server error
	writeError(w, http.StatusInternalServerError, defaultMsg)
}
