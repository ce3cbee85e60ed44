// Package document turns uploaded files into text units and question lists.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextUnit is one logical page or record extracted from a document.
type TextUnit struct {
	Content  string
	Metadata map[string]any
}

// Load reads the file at path and returns its text units.
// The loader is chosen by file extension: .pdf yields one unit per page,
// .json yields a single unit. Any other extension returns *UnsupportedFormatError.
func Load(path string) ([]TextUnit, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".pdf":
		return LoadPDF(path)
	case ".json":
		return LoadJSON(path)
	default:
		return nil, &UnsupportedFormatError{Ext: ext}
	}
}

// LoadJSON loads a JSON file as a single text unit.
//
// A top-level array is rendered element by element and joined with blank lines:
// objects are pretty-printed, strings are used verbatim and every other value is
// written as compact JSON. A top-level object is pretty-printed. Scalars are
// stringified. Key order and number literals are preserved from the source.
func LoadJSON(path string) ([]TextUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read json document: %w", err)
	}

	var raw json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s is not valid JSON: %v", ErrInvalidFormat, filepath.Base(path), err)
	}

	var content string
	switch firstByte(raw) {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			s, err := renderItem(item)
			if err != nil {
				return nil, err
			}
			parts = append(parts, s)
		}
		content = strings.Join(parts, "\n\n")
	default:
		s, err := renderItem(raw)
		if err != nil {
			return nil, err
		}
		content = s
	}

	return []TextUnit{{
		Content:  content,
		Metadata: map[string]any{"source": path},
	}}, nil
}

// renderItem renders one JSON value: objects indented by two spaces,
// strings unquoted, everything else compact.
func renderItem(raw json.RawMessage) (string, error) {
	var buf bytes.Buffer
	switch firstByte(raw) {
	case '{':
		if err := json.Indent(&buf, raw, "", "  "); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		return s, nil
	default:
		if err := json.Compact(&buf, raw); err != nil {
			return "", fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
	}
	return buf.String(), nil
}

func firstByte(raw json.RawMessage) byte {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return 0
	}
	return trimmed[0]
}
