package storage

import (
	"database/sql"
	"strconv"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// busyTimeoutMillis bounds how long a writer waits on a locked database.
const busyTimeoutMillis = 5000

// New opens a SQLite database connection at the given path or DSN.
// It sets a busy timeout and connection pool settings. In-memory databases are
// pinned to a single connection so every caller sees the same data.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", withBusyTimeout(path))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	if isMemory(path) {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS chat_messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_chat_messages_session_id ON chat_messages(session_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return err
		}
	}

	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

func withBusyTimeout(path string) string {
	if strings.Contains(path, "_busy_timeout") {
		return path
	}
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_busy_timeout=" + strconv.Itoa(busyTimeoutMillis)
}
