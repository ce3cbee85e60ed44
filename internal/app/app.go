// Package app assembles the service from configuration.
package app

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"docqa/internal/config"
	"docqa/internal/handlers"
	apihttp "docqa/internal/http"
	"docqa/internal/indexer"
	"docqa/internal/llm"
	"docqa/internal/rag"
	"docqa/internal/service"
	"docqa/internal/storage"
	"docqa/internal/vectorstore"
)

// App owns the long-lived resources behind the HTTP handler.
type App struct {
	Handler http.Handler

	db     *sql.DB
	qdrant *vectorstore.QdrantStore
}

// New opens the chat database, selects the vector backend and builds the router.
func New(cfg *config.Config) (*App, error) {
	db, err := storage.New(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := storage.Migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	slog.Info("Database initialized", "path", cfg.DatabaseURL)

	a := &App{db: db}
	checks := map[string]handlers.Checker{
		"database": handlers.CheckFunc(db.PingContext),
	}

	factory, qdrantStore, err := OpenVectorStore(cfg)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if qdrantStore != nil {
		a.qdrant = qdrantStore
		checks["vector_store"] = handlers.CheckFunc(qdrantStore.HealthCheck)
	}

	qaService, err := NewQAService(cfg, factory)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	a.Handler = apihttp.NewRouter(&apihttp.Deps{
		ChatService:    service.NewChatService(storage.NewMessageRepo(db)),
		QAService:      qaService,
		HealthChecks:   checks,
		MaxUploadBytes: int64(cfg.MaxUploadMB) << 20,
	})

	return a, nil
}

// Close releases the database and vector store connections.
func (a *App) Close() error {
	var errs []error
	if a.qdrant != nil {
		errs = append(errs, a.qdrant.Close())
	}
	errs = append(errs, a.db.Close())
	return errors.Join(errs...)
}

// OpenVectorStore returns the index factory selected by cfg.VectorStore. The
// Qdrant store is also returned when selected so the caller can health-check
// and close it; it is nil for the in-memory backend.
func OpenVectorStore(cfg *config.Config) (vectorstore.Factory, *vectorstore.QdrantStore, error) {
	if cfg.VectorStore != config.VectorStoreQdrant {
		slog.Info("Vector store selected", "backend", config.VectorStoreMemory)
		return vectorstore.NewMemoryFactory(), nil, nil
	}

	store, err := vectorstore.NewQdrantStore(cfg.QdrantURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create Qdrant client: %w", err)
	}
	slog.Info("Vector store selected", "backend", config.VectorStoreQdrant, "url", cfg.QdrantURL)
	return store, store, nil
}

// NewQAService wires the chunker, embedding pipeline and answering engine.
func NewQAService(cfg *config.Config, factory vectorstore.Factory) (service.QAService, error) {
	splitter, err := indexer.NewRecursiveSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to create splitter: %w", err)
	}

	embedder := llm.NewEmbeddingsClient(cfg.EmbeddingBaseURL, cfg.LLMAPIKey, cfg.EmbeddingModelName, cfg.EmbeddingVectorSize)
	llmClient := llm.NewClient(cfg.LLMBaseURL, cfg.LLMAPIKey, cfg.LLMModelName)

	pipeline := indexer.NewPipeline(embedder, factory, cfg.EmbeddingBatchSize)
	engine := rag.NewEngine(embedder, llmClient, cfg.RetrievalK, cfg.QAConcurrency)
	slog.Debug("RAG engine initialized", "k", cfg.RetrievalK, "concurrency", cfg.QAConcurrency, "model", cfg.LLMModelName)

	return service.NewQAService(splitter, pipeline, engine), nil
}
