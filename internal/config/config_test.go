package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

var envVars = []string{
	"OPENAI_API_KEY", "LLM_API_KEY", "LLM_BASE_URL", "LLM_MODEL",
	"EMBEDDING_BASE_URL", "EMBEDDING_MODEL_NAME", "EMBEDDING_VECTOR_SIZE", "EMBEDDING_BATCH_SIZE",
	"DATABASE_URL", "VECTOR_STORE", "QDRANT_URL", "CHUNK_SIZE", "CHUNK_OVERLAP",
	"RETRIEVAL_K", "QA_CONCURRENCY", "MAX_UPLOAD_MB", "API_PORT", "LOG_LEVEL", "LOG_FORMAT",
}

// clearEnv blanks every variable Load reads. Empty values fall back to defaults,
// so a stray .env file on disk cannot leak into the table cases.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range envVars {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		setupEnv    func(*testing.T)
		wantErr     bool
		checkConfig func(*Config) bool
	}{
		{
			name: "defaults with API key",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("DATABASE_URL", filepath.Join(t.TempDir(), "data", "test.db"))
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMAPIKey == "sk-test" &&
					cfg.LLMModelName == "gpt-4o-mini" &&
					cfg.EmbeddingModelName == "text-embedding-3-small" &&
					cfg.EmbeddingBaseURL == cfg.LLMBaseURL &&
					cfg.ChunkSize == 1000 &&
					cfg.ChunkOverlap == 200 &&
					cfg.RetrievalK == 6 &&
					cfg.QAConcurrency == 1 &&
					cfg.VectorStore == VectorStoreMemory &&
					cfg.APIPort == "8008" &&
					cfg.LogLevel == slog.LevelInfo
			},
		},
		{
			name: "LLM_API_KEY alias",
			setupEnv: func(t *testing.T) {
				t.Setenv("LLM_API_KEY", "alias-key")
				t.Setenv("DATABASE_URL", ":memory:")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMAPIKey == "alias-key"
			},
		},
		{
			name:     "missing API key",
			setupEnv: func(t *testing.T) {},
			wantErr:  true,
		},
		{
			name: "overrides",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("DATABASE_URL", ":memory:")
				t.Setenv("LLM_BASE_URL", "http://localhost:8080/")
				t.Setenv("EMBEDDING_BASE_URL", "http://localhost:8081")
				t.Setenv("VECTOR_STORE", "QDRANT")
				t.Setenv("CHUNK_SIZE", "500")
				t.Setenv("CHUNK_OVERLAP", "50")
				t.Setenv("QA_CONCURRENCY", "4")
				t.Setenv("LOG_LEVEL", "debug")
				t.Setenv("LOG_FORMAT", "json")
			},
			checkConfig: func(cfg *Config) bool {
				return cfg.LLMBaseURL == "http://localhost:8080" &&
					cfg.EmbeddingBaseURL == "http://localhost:8081" &&
					cfg.VectorStore == VectorStoreQdrant &&
					cfg.ChunkSize == 500 &&
					cfg.ChunkOverlap == 50 &&
					cfg.QAConcurrency == 4 &&
					cfg.LogLevel == slog.LevelDebug &&
					cfg.LogFormat == "json"
			},
		},
		{
			name: "invalid chunk size",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("CHUNK_SIZE", "abc")
			},
			wantErr: true,
		},
		{
			name: "overlap not smaller than size",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("CHUNK_SIZE", "100")
				t.Setenv("CHUNK_OVERLAP", "100")
			},
			wantErr: true,
		},
		{
			name: "unknown vector store",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("VECTOR_STORE", "chroma")
			},
			wantErr: true,
		},
		{
			name: "invalid log level",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("LOG_LEVEL", "verbose")
			},
			wantErr: true,
		},
		{
			name: "zero retrieval k",
			setupEnv: func(t *testing.T) {
				t.Setenv("OPENAI_API_KEY", "sk-test")
				t.Setenv("RETRIEVAL_K", "0")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Chdir(t.TempDir())
			tt.setupEnv(t)

			cfg, err := Load()
			if tt.wantErr {
				if err == nil {
					t.Errorf("Load() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tt.checkConfig != nil && !tt.checkConfig(cfg) {
				t.Errorf("Load() config validation failed: %+v", cfg)
			}
		})
	}
}

func TestLoad_CreatesDataDirectory(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "chat.db")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DATABASE_URL", "file:"+dbPath+"?_busy_timeout=5000")

	if _, err := Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if _, err := os.Stat(filepath.Dir(dbPath)); err != nil {
		t.Errorf("Load() should create data directory: %v", err)
	}
}

func TestSqlitePath(t *testing.T) {
	tests := []struct {
		dsn  string
		want string
	}{
		{"./data/docqa.db", "./data/docqa.db"},
		{"file:/tmp/x.db?cache=shared", "/tmp/x.db"},
		{":memory:", ""},
		{"file::memory:?cache=shared", ""},
	}
	for _, tt := range tests {
		if got := sqlitePath(tt.dsn); got != tt.want {
			t.Errorf("sqlitePath(%q) = %q, want %q", tt.dsn, got, tt.want)
		}
	}
}
