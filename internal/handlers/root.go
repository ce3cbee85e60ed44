package handlers

import "net/http"

// RootMessage is the liveness message returned by GET /.
const RootMessage = "Document Q&A API is running"

// RootHandler reports that the service is up.
type RootHandler struct{}

// NewRootHandler creates a new RootHandler.
func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

// ServeHTTP handles GET /.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"message": RootMessage})
}
