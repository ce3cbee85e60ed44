package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Vector store backends accepted by VECTOR_STORE.
const (
	VectorStoreMemory = "memory"
	VectorStoreQdrant = "qdrant"
)

// Config holds all configuration for the application.
type Config struct {
	LLMBaseURL          string
	LLMModelName        string
	LLMAPIKey           string
	EmbeddingBaseURL    string
	EmbeddingModelName  string
	EmbeddingVectorSize int // 0 disables vector size validation
	EmbeddingBatchSize  int
	DatabaseURL         string
	VectorStore         string
	QdrantURL           string
	ChunkSize           int
	ChunkOverlap        int
	RetrievalK          int
	QAConcurrency       int
	MaxUploadMB         int
	APIPort             string
	LogLevel            slog.Level
	LogFormat           string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates required fields.
// If a .env file exists in the current directory or project root, it will be loaded automatically.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	// Walk up to find a .env next to the project root
	wd, err := os.Getwd()
	if err == nil {
		dir := wd
		for i := 0; i < 5; i++ {
			envPath := filepath.Join(dir, ".env")
			if _, err := os.Stat(envPath); err == nil {
				_ = godotenv.Load(envPath)
				break
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}

	llmBaseURL := strings.TrimRight(getEnv("LLM_BASE_URL", "https://api.openai.com"), "/")

	cfg := &Config{
		LLMBaseURL:         llmBaseURL,
		LLMModelName:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMAPIKey:          getEnv("OPENAI_API_KEY", getEnv("LLM_API_KEY", "")),
		EmbeddingBaseURL:   strings.TrimRight(getEnv("EMBEDDING_BASE_URL", llmBaseURL), "/"),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
		DatabaseURL:        getEnv("DATABASE_URL", "./data/docqa.db"),
		VectorStore:        strings.ToLower(getEnv("VECTOR_STORE", VectorStoreMemory)),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		APIPort:            getEnv("API_PORT", "8008"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
	}

	ints := []struct {
		key string
		def int
		min int
		dst *int
	}{
		{"EMBEDDING_VECTOR_SIZE", 0, 0, &cfg.EmbeddingVectorSize},
		{"EMBEDDING_BATCH_SIZE", 64, 1, &cfg.EmbeddingBatchSize},
		{"CHUNK_SIZE", 1000, 1, &cfg.ChunkSize},
		{"CHUNK_OVERLAP", 200, 0, &cfg.ChunkOverlap},
		{"RETRIEVAL_K", 6, 1, &cfg.RetrievalK},
		{"QA_CONCURRENCY", 1, 1, &cfg.QAConcurrency},
		{"MAX_UPLOAD_MB", 32, 1, &cfg.MaxUploadMB},
	}
	for _, spec := range ints {
		v, err := getEnvInt(spec.key, spec.def)
		if err != nil {
			return nil, err
		}
		if v < spec.min {
			return nil, fmt.Errorf("%s must be at least %d", spec.key, spec.min)
		}
		*spec.dst = v
	}

	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return nil, fmt.Errorf("CHUNK_OVERLAP (%d) must be smaller than CHUNK_SIZE (%d)", cfg.ChunkOverlap, cfg.ChunkSize)
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	// Validate required fields
	if cfg.LLMAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	switch cfg.VectorStore {
	case VectorStoreMemory, VectorStoreQdrant:
	default:
		return nil, fmt.Errorf("VECTOR_STORE must be %q or %q, got %q", VectorStoreMemory, VectorStoreQdrant, cfg.VectorStore)
	}
	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// Create the database directory for file-backed SQLite paths
	if path := sqlitePath(cfg.DatabaseURL); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}

// sqlitePath returns the filesystem path of a SQLite DSN, or "" for in-memory databases.
func sqlitePath(dsn string) string {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}
