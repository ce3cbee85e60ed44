package indexer

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_embedder.go -package=mocks docqa/internal/indexer Embedder

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"docqa/internal/contextutil"
	"docqa/internal/vectorstore"
)

// DefaultBatchSize is the number of chunk texts sent per embeddings request.
const DefaultBatchSize = 64

// ErrNoChunks is returned when BuildIndex is called without chunks.
var ErrNoChunks = errors.New("no chunks to index")

// Embedder turns texts into vectors, one per input.
type Embedder interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline embeds chunks and loads them into a fresh vector index.
type Pipeline struct {
	embedder  Embedder
	factory   vectorstore.Factory
	batchSize int
}

// NewPipeline creates a new indexing pipeline.
// A non-positive batchSize falls back to DefaultBatchSize.
func NewPipeline(embedder Embedder, factory vectorstore.Factory, batchSize int) *Pipeline {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Pipeline{
		embedder:  embedder,
		factory:   factory,
		batchSize: batchSize,
	}
}

// BuildIndex embeds every chunk and returns an index holding all of them.
// The index dimension is taken from the first embedding. If any step fails
// after the index is created, the index is closed before returning.
func (p *Pipeline) BuildIndex(ctx context.Context, chunks []Chunk) (vectorstore.Index, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if len(chunks) == 0 {
		return nil, ErrNoChunks
	}

	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += p.batchSize {
		// Check for context cancellation
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		end := min(start+p.batchSize, len(chunks))
		texts := make([]string, 0, end-start)
		for _, chunk := range chunks[start:end] {
			texts = append(texts, chunk.Content)
		}

		vectors, err := p.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("failed to generate embeddings: %w", err)
		}
		if len(vectors) != len(texts) {
			return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(texts), len(vectors))
		}
		embeddings = append(embeddings, vectors...)

		logger.DebugContext(ctx, "embedded batch", "start", start, "size", len(texts))
	}

	idx, err := p.factory.NewIndex(ctx, len(embeddings[0]))
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	points := make([]vectorstore.Point, len(chunks))
	for i, chunk := range chunks {
		points[i] = vectorstore.Point{
			ID:      uuid.New().String(),
			Vec:     embeddings[i],
			Content: chunk.Content,
			Meta:    chunk.Metadata,
		}
	}

	if err := idx.Add(ctx, points); err != nil {
		if closeErr := idx.Close(ctx); closeErr != nil {
			logger.WarnContext(ctx, "failed to close index after add error", "error", closeErr)
		}
		return nil, fmt.Errorf("failed to add points: %w", err)
	}

	logger.InfoContext(ctx, "index built", "chunks", len(chunks), "dimension", len(embeddings[0]))
	return idx, nil
}
