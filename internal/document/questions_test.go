package document

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadQuestions(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    []string
		wantErr error
	}{
		{
			name:    "list of strings keeps order",
			file:    "q.json",
			content: `["What is X?", "Who is Y?", "What is X?"]`,
			want:    []string{"What is X?", "Who is Y?", "What is X?"},
		},
		{
			name:    "list of objects",
			file:    "q.json",
			content: `[{"question": "First?"}, {"other": "skip"}, {"question": "Second?"}]`,
			want:    []string{"First?", "Second?"},
		},
		{
			name:    "mixed list skips other shapes",
			file:    "q.json",
			content: `["A?", 7, null, {"question": "B?"}, {"question": 3}, ["nested"]]`,
			want:    []string{"A?", "B?"},
		},
		{
			name:    "object yields empty",
			file:    "q.json",
			content: `{"question": "not a list"}`,
			want:    []string{},
		},
		{
			name:    "empty list",
			file:    "q.json",
			content: `[]`,
			want:    []string{},
		},
		{
			name:    "uppercase extension",
			file:    "Q.JSON",
			content: `["Upper?"]`,
			want:    []string{"Upper?"},
		},
		{
			name:    "non-json extension",
			file:    "q.txt",
			content: `["What?"]`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "no extension",
			file:    "questions",
			content: `["What?"]`,
			wantErr: ErrInvalidFormat,
		},
		{
			name:    "malformed json",
			file:    "q.json",
			content: `["What?"`,
			wantErr: ErrInvalidFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			got, err := LoadQuestions(path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
