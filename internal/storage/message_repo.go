package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_message_store.go -package=mocks docqa/internal/storage MessageStore

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// MessageStore defines the interface for chat history storage operations.
type MessageStore interface {
	// Append inserts one message at the end of a session.
	Append(ctx context.Context, sessionID, role, content string) error
	// AppendTurn inserts a user message followed by an assistant message atomically.
	AppendTurn(ctx context.Context, sessionID, userContent, assistantContent string) error
	// ListBySession returns the messages of a session in insertion order.
	// An unknown session yields an empty slice.
	ListBySession(ctx context.Context, sessionID string) ([]Message, error)
}

// MessageRepo provides methods for chat message operations.
// It implements the MessageStore interface. Every call checks out its own
// connection from the pool and returns it before the call completes.
type MessageRepo struct {
	db *sql.DB
}

// NewMessageRepo creates a new MessageRepo.
func NewMessageRepo(db *sql.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const insertMessageSQL = "INSERT INTO chat_messages (session_id, role, content) VALUES (?, ?, ?)"

// Append inserts one message.
func (r *MessageRepo) Append(ctx context.Context, sessionID, role, content string) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	if _, err := conn.ExecContext(ctx, insertMessageSQL, sessionID, role, content); err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// AppendTurn inserts the user message and then the assistant message in one transaction.
func (r *MessageRepo) AppendTurn(ctx context.Context, sessionID, userContent, assistantContent string) error {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, insertMessageSQL, sessionID, RoleUser, userContent); err != nil {
		return fmt.Errorf("failed to insert user message: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertMessageSQL, sessionID, RoleAssistant, assistantContent); err != nil {
		return fmt.Errorf("failed to insert assistant message: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListBySession returns all messages for a session ordered by insertion.
func (r *MessageRepo) ListBySession(ctx context.Context, sessionID string) ([]Message, error) {
	conn, err := r.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer func() {
		_ = conn.Close()
	}()

	rows, err := conn.QueryContext(ctx,
		"SELECT id, session_id, role, content, created_at FROM chat_messages WHERE session_id = ? ORDER BY id",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query messages: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	messages := []Message{}
	for rows.Next() {
		var msg Message
		var createdAt sql.NullString
		if err := rows.Scan(&msg.ID, &msg.SessionID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		msg.CreatedAt = parseTimestamp(createdAt.String)
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}

// parseTimestamp parses a SQLite DATETIME value, returning the zero time when
// the value is empty or in an unknown layout.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{"2006-01-02 15:04:05", time.RFC3339, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
