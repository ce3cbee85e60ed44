package storage

import "time"

// Message roles stored in chat_messages.role.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message represents one chat message in the database.
type Message struct {
	ID        int64
	SessionID string
	Role      string // RoleUser or RoleAssistant
	Content   string
	CreatedAt time.Time
}
