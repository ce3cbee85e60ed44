package indexer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeChunkStats_Empty(t *testing.T) {
	assert.Equal(t, ChunkStats{}, ComputeChunkStats(nil))
}

func TestComputeChunkStats(t *testing.T) {
	var chunks []Chunk
	for i := 1; i <= 20; i++ {
		chunks = append(chunks, Chunk{Content: strings.Repeat("a", i*10)})
	}

	stats := ComputeChunkStats(chunks)

	assert.Equal(t, 20, stats.Count)
	assert.Equal(t, 10, stats.MinChars)
	assert.Equal(t, 200, stats.MaxChars)
	assert.Equal(t, 190, stats.P95Chars)
	assert.Equal(t, 2100, stats.TotalChars)
	assert.InDelta(t, 105, stats.MeanChars, 1e-9)
	assert.Equal(t, 525, stats.ApproxTokens)
}

func TestComputeChunkStats_CountsRunes(t *testing.T) {
	stats := ComputeChunkStats([]Chunk{{Content: "héllo"}})

	assert.Equal(t, 5, stats.MaxChars, "runes, not bytes")
	assert.Equal(t, 5, stats.P95Chars)
}
