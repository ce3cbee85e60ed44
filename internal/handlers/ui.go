package handlers

import (
	"net/http"

	"docqa/internal/contextutil"
)

// UIHandler serves a minimal upload form for manual testing.
type UIHandler struct {
	renderer *AnswerRenderer
}

// NewUIHandler creates a new UIHandler.
func NewUIHandler(renderer *AnswerRenderer) *UIHandler {
	return &UIHandler{renderer: renderer}
}

// ServeHTTP handles GET /ui.
func (h *UIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.renderer.RenderUploadForm(w); err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to render upload form", "error", err)
		http.Error(w, "failed to render page", http.StatusInternalServerError)
	}
}
