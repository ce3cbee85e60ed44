package vectorstore

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_vector_store.go -package=mocks docqa/internal/vectorstore Index,Factory

import (
	"context"
	"errors"
)

// ErrClosed is returned by operations on an index that has been closed.
var ErrClosed = errors.New("vector index closed")

// Point represents a vector point with its chunk content and metadata.
type Point struct {
	ID      string
	Vec     []float32
	Content string
	Meta    map[string]any
}

// SearchResult represents a search result from vector search.
type SearchResult struct {
	PointID string
	Score   float32
	Content string
	Meta    map[string]any
}

// Index is an ephemeral similarity index scoped to one request.
// It is written once, read many times, and released with Close.
type Index interface {
	// Add inserts points into the index.
	Add(ctx context.Context, points []Point) error

	// Search returns up to k points ordered by descending similarity to query.
	Search(ctx context.Context, query []float32, k int) ([]SearchResult, error)

	// Close releases any resources held by the index. It is safe to call more than once.
	Close(ctx context.Context) error
}

// Factory creates fresh indexes for a fixed vector dimension.
type Factory interface {
	NewIndex(ctx context.Context, dimension int) (Index, error)
}
