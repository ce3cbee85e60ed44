package service

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_chat_service.go -package=mocks -mock_names=ChatService=MockChatService docqa/internal/service ChatService

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/storage"
)

// ChatRequest represents a chat request in the domain layer.
type ChatRequest struct {
	Message   string
	SessionID string
}

// ChatResponse represents a chat response in the domain layer.
type ChatResponse struct {
	SessionID string
	Response  string
}

// ChatMessage is one stored message of a session.
type ChatMessage struct {
	Role    string
	Content string
}

// HistoryResponse holds the ordered messages of a session.
type HistoryResponse struct {
	SessionID string
	Messages  []ChatMessage
}

// ChatService provides chat functionality.
type ChatService interface {
	// ProcessChat records one user turn and the assistant reply.
	ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error)
	// GetHistory returns the messages of a session, or ErrNotFound if it has none.
	GetHistory(ctx context.Context, sessionID string) (HistoryResponse, error)
}

// chatService implements ChatService.
type chatService struct {
	store storage.MessageStore
}

// NewChatService creates a new ChatService.
func NewChatService(store storage.MessageStore) ChatService {
	return &chatService{
		store: store,
	}
}

// ProcessChat processes a chat request. The reply is a placeholder echo of the message.
func (s *chatService) ProcessChat(ctx context.Context, req ChatRequest) (ChatResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	// Business validation
	if strings.TrimSpace(req.Message) == "" {
		logger.WarnContext(ctx, "empty message in chat request")
		return ChatResponse{}, &ValidationError{
			Field:   "message",
			Message: "cannot be empty",
		}
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	reply := "Echo: " + req.Message

	if err := s.store.AppendTurn(ctx, sessionID, req.Message, reply); err != nil {
		logger.ErrorContext(ctx, "failed to save chat turn", "session_id", sessionID, "error", err)
		return ChatResponse{}, WrapError(err, "failed to save chat turn")
	}

	logger.InfoContext(ctx, "chat request processed successfully", "session_id", sessionID, "message_length", len(req.Message))
	return ChatResponse{
		SessionID: sessionID,
		Response:  reply,
	}, nil
}

// GetHistory loads the stored messages of a session.
func (s *chatService) GetHistory(ctx context.Context, sessionID string) (HistoryResponse, error) {
	logger := contextutil.LoggerFromContext(ctx)

	rows, err := s.store.ListBySession(ctx, sessionID)
	if err != nil {
		logger.ErrorContext(ctx, "failed to load chat history", "session_id", sessionID, "error", err)
		return HistoryResponse{}, WrapError(err, "failed to load chat history")
	}
	if len(rows) == 0 {
		return HistoryResponse{}, ErrNotFound
	}

	messages := make([]ChatMessage, len(rows))
	for i, row := range rows {
		messages[i] = ChatMessage{Role: row.Role, Content: row.Content}
	}

	return HistoryResponse{
		SessionID: sessionID,
		Messages:  messages,
	}, nil
}
