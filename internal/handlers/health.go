package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"docqa/internal/contextutil"
)

// Checker reports whether one dependency is usable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckFunc adapts a function to Checker.
type CheckFunc func(ctx context.Context) error

// Check calls f.
func (f CheckFunc) Check(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler handles HTTP requests for health checks.
type HealthHandler struct {
	checks             map[string]Checker
	healthCheckTimeout time.Duration
}

// NewHealthHandler creates a new HealthHandler running the named checks.
func NewHealthHandler(checks map[string]Checker) *HealthHandler {
	return &HealthHandler{
		checks:             checks,
		healthCheckTimeout: 5 * time.Second,
	}
}

// HealthResponse represents the health check response.
type HealthResponse struct {
	// Overall health status: "healthy" or "unhealthy"
	Status string `json:"status"`

	// Timestamp of the health check
	Timestamp string `json:"timestamp"`

	// Individual check results
	Checks map[string]string `json:"checks"`

	// List of issues (only present if status is unhealthy)
	Issues []string `json:"issues,omitempty"`
}

// ServeHTTP handles GET /health.
// Returns 200 OK if every check passes, 503 Service Unavailable otherwise.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	// Create context with timeout for health checks
	checkCtx, cancel := context.WithTimeout(ctx, h.healthCheckTimeout)
	defer cancel()

	checks := make(map[string]string, len(h.checks))
	var issues []string
	for name, checker := range h.checks {
		if err := checker.Check(checkCtx); err != nil {
			logger.WarnContext(ctx, "health check failed", "check", name, "error", err)
			checks[name] = "error"
			issues = append(issues, name+"_unavailable")
			continue
		}
		checks[name] = "ok"
	}

	sort.Strings(issues)

	status := "healthy"
	httpStatus := http.StatusOK
	if len(issues) > 0 {
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(ctx, w, httpStatus, HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Issues:    issues,
	})
}
