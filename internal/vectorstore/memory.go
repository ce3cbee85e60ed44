package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
)

// MemoryFactory creates in-process indexes that scan every point on search.
type MemoryFactory struct{}

// NewMemoryFactory creates a new MemoryFactory.
func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{}
}

// NewIndex creates an empty in-memory index.
func (f *MemoryFactory) NewIndex(ctx context.Context, dimension int) (Index, error) {
	if dimension <= 0 {
		return nil, fmt.Errorf("invalid dimension %d", dimension)
	}
	return &MemoryIndex{dimension: dimension}, nil
}

// MemoryIndex is a brute-force cosine similarity index.
type MemoryIndex struct {
	mu        sync.RWMutex
	dimension int
	points    []Point
	norms     []float64
	closed    bool
}

// Add inserts points into the index.
func (idx *MemoryIndex) Add(ctx context.Context, points []Point) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if idx.closed {
		return ErrClosed
	}
	for i, p := range points {
		if len(p.Vec) != idx.dimension {
			return fmt.Errorf("point %d has dimension %d, expected %d", i, len(p.Vec), idx.dimension)
		}
	}
	for _, p := range points {
		idx.points = append(idx.points, p)
		idx.norms = append(idx.norms, norm(p.Vec))
	}
	return nil
}

// Search returns the k points with the highest cosine similarity to query.
// Ties keep insertion order.
func (idx *MemoryIndex) Search(ctx context.Context, query []float32, k int) ([]SearchResult, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be greater than 0")
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if idx.closed {
		return nil, ErrClosed
	}
	if len(query) != idx.dimension {
		return nil, fmt.Errorf("query has dimension %d, expected %d", len(query), idx.dimension)
	}

	queryNorm := norm(query)
	results := make([]SearchResult, len(idx.points))
	for i, p := range idx.points {
		results[i] = SearchResult{
			PointID: p.ID,
			Score:   cosine(query, p.Vec, queryNorm, idx.norms[i]),
			Content: p.Content,
			Meta:    p.Meta,
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

// Close drops all points.
func (idx *MemoryIndex) Close(ctx context.Context) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.closed = true
	idx.points = nil
	idx.norms = nil
	return nil
}

// Len returns the number of points in the index.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.points)
}

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func cosine(a, b []float32, normA, normB float64) float32 {
	if normA == 0 || normB == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return float32(dot / (normA * normB))
}
