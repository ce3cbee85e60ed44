package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthHandler_ServeHTTP(t *testing.T) {
	ok := CheckFunc(func(context.Context) error { return nil })
	failing := CheckFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name       string
		checks     map[string]Checker
		wantStatus int
		wantBody   HealthResponse
	}{
		{
			name:       "all healthy",
			checks:     map[string]Checker{"database": ok, "vector_store": ok},
			wantStatus: http.StatusOK,
			wantBody: HealthResponse{
				Status: "healthy",
				Checks: map[string]string{"database": "ok", "vector_store": "ok"},
			},
		},
		{
			name:       "no checks configured",
			checks:     nil,
			wantStatus: http.StatusOK,
			wantBody:   HealthResponse{Status: "healthy", Checks: map[string]string{}},
		},
		{
			name:       "database down",
			checks:     map[string]Checker{"database": failing, "vector_store": ok},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{
				Status: "unhealthy",
				Checks: map[string]string{"database": "error", "vector_store": "ok"},
				Issues: []string{"database_unavailable"},
			},
		},
		{
			name:       "everything down",
			checks:     map[string]Checker{"vector_store": failing, "database": failing},
			wantStatus: http.StatusServiceUnavailable,
			wantBody: HealthResponse{
				Status: "unhealthy",
				Checks: map[string]string{"database": "error", "vector_store": "error"},
				Issues: []string{"database_unavailable", "vector_store_unavailable"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(tt.checks)

			req := httptest.NewRequest(http.MethodGet, "/health", nil)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)

			var got HealthResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
			assert.Equal(t, tt.wantBody.Status, got.Status)
			if len(tt.wantBody.Checks) == 0 {
				assert.Empty(t, got.Checks)
			} else {
				assert.Equal(t, tt.wantBody.Checks, got.Checks)
			}
			assert.Equal(t, tt.wantBody.Issues, got.Issues)
			_, err := time.Parse(time.RFC3339, got.Timestamp)
			assert.NoError(t, err, "timestamp %q is not RFC3339", got.Timestamp)
		})
	}
}

func TestHealthHandler_ChecksShareDeadline(t *testing.T) {
	var hadDeadline bool
	handler := NewHealthHandler(map[string]Checker{
		"database": CheckFunc(func(ctx context.Context) error {
			_, hadDeadline = ctx.Deadline()
			return nil
		}),
	})

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.True(t, hadDeadline, "health check context has no deadline")
}
