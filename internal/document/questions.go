package document

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LoadQuestions reads an ordered list of questions from a .json file.
//
// The file must hold either an array of strings or an array of objects with a
// "question" string field; elements of any other shape are skipped. A file whose
// top-level value is not an array yields an empty list, which callers must treat
// as an input error.
func LoadQuestions(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".json" {
		if ext == "" {
			ext = "(none)"
		}
		return nil, fmt.Errorf("%w: questions file must be JSON, got: %s", ErrInvalidFormat, ext)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read questions file: %w", err)
	}

	var parsed any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: questions file is not valid JSON: %v", ErrInvalidFormat, err)
	}

	items, ok := parsed.([]any)
	if !ok {
		return []string{}, nil
	}

	questions := make([]string, 0, len(items))
	for _, item := range items {
		switch v := item.(type) {
		case string:
			questions = append(questions, v)
		case map[string]any:
			if q, ok := v["question"].(string); ok {
				questions = append(questions, q)
			}
		}
	}
	return questions, nil
}
