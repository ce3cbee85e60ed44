package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"docqa/internal/contextutil"
	"docqa/internal/service"
)

// ChatHandler handles HTTP requests for chat.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
	}
}

// ChatRequest represents the HTTP request payload for chat.
type ChatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id,omitempty"`
}

// ChatResponse represents the HTTP response payload for chat.
type ChatResponse struct {
	SessionID string `json:"session_id" yaml:"session_id"`
	Response  string `json:"response" yaml:"response"`
}

// MessageOut is one message in a history response.
type MessageOut struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryResponse represents the HTTP response payload for a session history.
type HistoryResponse struct {
	SessionID string       `json:"session_id"`
	Messages  []MessageOut `json:"messages"`
}

// ServeHTTP handles POST /chat.
func (h *ChatHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	var req ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnContext(ctx, "invalid request body", "error", err)
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	// Call service layer
	svcResp, err := h.chatService.ProcessChat(ctx, service.ChatRequest{
		Message:   req.Message,
		SessionID: req.SessionID,
	})
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to process chat request")
		return
	}

	writeJSON(ctx, w, http.StatusOK, ChatResponse{
		SessionID: svcResp.SessionID,
		Response:  svcResp.Response,
	})
}

// History handles GET /chat/{session_id}.
func (h *ChatHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "session_id")

	svcResp, err := h.chatService.GetHistory(ctx, sessionID)
	if err != nil {
		handleServiceError(w, ctx, err, "Failed to load chat history")
		return
	}

	messages := make([]MessageOut, len(svcResp.Messages))
	for i, m := range svcResp.Messages {
		messages[i] = MessageOut{Role: m.Role, Content: m.Content}
	}

	writeJSON(ctx, w, http.StatusOK, HistoryResponse{
		SessionID: svcResp.SessionID,
		Messages:  messages,
	})
}
