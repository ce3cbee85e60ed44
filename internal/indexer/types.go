package indexer

// Chunk is a bounded-length slice of a text unit, the atomic unit of embedding and retrieval.
type Chunk struct {
	Content  string         // Chunk text content
	Metadata map[string]any // Parent unit metadata plus "chunk_index"
}
