package indexer

import (
	"fmt"
	"maps"
	"strings"
	"unicode/utf8"

	"docqa/internal/document"
)

const (
	// DefaultChunkSize is the maximum chunk length in characters.
	DefaultChunkSize = 1000
	// DefaultChunkOverlap is the number of characters shared by adjacent chunks.
	DefaultChunkOverlap = 200
)

// DefaultSeparators are tried in order: paragraph break, line break, space, then single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter splits text on the coarsest separator that occurs in it and
// only recurses into finer separators for pieces that are still too long.
// Lengths are measured in runes.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

// NewRecursiveSplitter creates a splitter with the given chunk size and overlap.
func NewRecursiveSplitter(chunkSize, chunkOverlap int) (*RecursiveSplitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("chunk size must be greater than 0, got %d", chunkSize)
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		return nil, fmt.Errorf("chunk overlap must be in [0, %d), got %d", chunkSize, chunkOverlap)
	}
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   DefaultSeparators,
	}, nil
}

// ChunkSize returns the configured maximum chunk length.
func (s *RecursiveSplitter) ChunkSize() int { return s.chunkSize }

// ChunkOverlap returns the configured overlap.
func (s *RecursiveSplitter) ChunkOverlap() int { return s.chunkOverlap }

// SplitUnits splits every unit and returns the chunks in unit order.
// Each chunk gets a copy of its unit's metadata plus "chunk_index".
func (s *RecursiveSplitter) SplitUnits(units []document.TextUnit) []Chunk {
	var chunks []Chunk
	for _, unit := range units {
		for i, text := range s.SplitText(unit.Content) {
			meta := make(map[string]any, len(unit.Metadata)+1)
			maps.Copy(meta, unit.Metadata)
			meta["chunk_index"] = i
			chunks = append(chunks, Chunk{Content: text, Metadata: meta})
		}
	}
	return chunks
}

// SplitText splits text into chunks of at most chunkSize runes where possible.
// Text that already fits is returned unchanged as a single chunk.
// Whitespace-only text yields no chunks.
func (s *RecursiveSplitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	if runeLen(text) <= s.chunkSize {
		return []string{text}
	}
	return s.split(text, s.separators)
}

func (s *RecursiveSplitter) split(text string, separators []string) []string {
	separator := separators[len(separators)-1]
	var finer []string
	for i, sep := range separators {
		if sep == "" {
			separator = sep
			break
		}
		if strings.Contains(text, sep) {
			separator = sep
			finer = separators[i+1:]
			break
		}
	}

	var chunks, fitting []string
	for _, piece := range splitKeepSeparator(text, separator) {
		if runeLen(piece) < s.chunkSize {
			fitting = append(fitting, piece)
			continue
		}
		if len(fitting) > 0 {
			chunks = append(chunks, s.merge(fitting)...)
			fitting = nil
		}
		if len(finer) == 0 {
			chunks = append(chunks, piece)
		} else {
			chunks = append(chunks, s.split(piece, finer)...)
		}
	}
	if len(fitting) > 0 {
		chunks = append(chunks, s.merge(fitting)...)
	}
	return chunks
}

// merge greedily joins pieces into chunks no longer than chunkSize, carrying up to
// chunkOverlap trailing runes of each chunk into the next one.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		n := runeLen(piece)
		if total+n > s.chunkSize && len(window) > 0 {
			if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
				chunks = append(chunks, chunk)
			}
			for total > s.chunkOverlap || (total+n > s.chunkSize && total > 0) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}
		window = append(window, piece)
		total += n
	}

	if chunk := strings.TrimSpace(strings.Join(window, "")); chunk != "" {
		chunks = append(chunks, chunk)
	}
	return chunks
}

// splitKeepSeparator splits text on sep and prefixes every piece after the first
// with the separator. An empty separator splits into runes. Empty pieces are dropped.
func splitKeepSeparator(text, sep string) []string {
	if sep == "" {
		pieces := make([]string, 0, utf8.RuneCountInString(text))
		for _, r := range text {
			pieces = append(pieces, string(r))
		}
		return pieces
	}

	parts := strings.Split(text, sep)
	pieces := make([]string, 0, len(parts))
	for i, part := range parts {
		if i > 0 {
			part = sep + part
		}
		if part != "" {
			pieces = append(pieces, part)
		}
	}
	return pieces
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
