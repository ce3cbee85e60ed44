package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"docqa/internal/handlers"
	"docqa/internal/service"
)

// DefaultMaxUploadBytes bounds a /qa request body when Deps leaves it unset.
const DefaultMaxUploadBytes = 32 << 20

// Deps holds dependencies for the HTTP router.
type Deps struct {
	ChatService    service.ChatService
	QAService      service.QAService
	HealthChecks   map[string]handlers.Checker
	MaxUploadBytes int64
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(CORS)

	maxUpload := deps.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}

	renderer := handlers.NewAnswerRenderer()
	chatHandler := handlers.NewChatHandler(deps.ChatService)

	r.Method(http.MethodGet, "/", handlers.NewRootHandler())
	r.Method(http.MethodPost, "/qa", handlers.NewQAHandler(deps.QAService, renderer, maxUpload))
	r.Method(http.MethodPost, "/chat", chatHandler)
	r.Get("/chat/{session_id}", chatHandler.History)
	r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.HealthChecks))
	r.Method(http.MethodGet, "/ui", handlers.NewUIHandler(renderer))

	return r
}
