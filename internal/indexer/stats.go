package indexer

import (
	"math"
	"sort"
	"unicode/utf8"
)

// CharsPerToken approximates token counts from character counts.
const CharsPerToken = 4.0

// ChunkStats summarizes chunk lengths for one indexing run.
type ChunkStats struct {
	Count      int     `json:"count"`
	MinChars   int     `json:"min_chars"`
	MaxChars   int     `json:"max_chars"`
	MeanChars  float64 `json:"mean_chars"`
	P95Chars   int     `json:"p95_chars"`
	TotalChars int     `json:"total_chars"`
	// ApproxTokens is TotalChars divided by CharsPerToken, rounded up.
	ApproxTokens int `json:"approx_tokens"`
}

// ComputeChunkStats returns length statistics for chunks. An empty input yields a zero value.
func ComputeChunkStats(chunks []Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	lengths := make([]int, len(chunks))
	total := 0
	for i, c := range chunks {
		lengths[i] = utf8.RuneCountInString(c.Content)
		total += lengths[i]
	}
	sort.Ints(lengths)

	// Nearest-rank percentile
	p95Index := int(math.Ceil(0.95*float64(len(lengths)))) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	return ChunkStats{
		Count:        len(chunks),
		MinChars:     lengths[0],
		MaxChars:     lengths[len(lengths)-1],
		MeanChars:    float64(total) / float64(len(lengths)),
		P95Chars:     lengths[p95Index],
		TotalChars:   total,
		ApproxTokens: int(math.Ceil(float64(total) / CharsPerToken)),
	}
}
