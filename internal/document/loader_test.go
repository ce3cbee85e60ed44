package document

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Dispatch(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr error
		wantExt string
	}{
		{name: "json", file: "doc.json", content: `{"a":1}`},
		{name: "uppercase json", file: "DOC.JSON", content: `{"a":1}`},
		{name: "text", file: "doc.txt", content: "hello", wantErr: ErrUnsupportedFormat, wantExt: ".txt"},
		{name: "csv", file: "doc.csv", content: "a,b", wantErr: ErrUnsupportedFormat, wantExt: ".csv"},
		{name: "no extension", file: "doc", content: "x", wantErr: ErrUnsupportedFormat, wantExt: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, tt.file, tt.content)
			units, err := Load(path)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				var formatErr *UnsupportedFormatError
				require.True(t, errors.As(err, &formatErr))
				assert.Equal(t, tt.wantExt, formatErr.Ext)
				return
			}
			require.NoError(t, err)
			assert.Len(t, units, 1)
		})
	}
}

func TestLoadJSON_Object(t *testing.T) {
	path := writeFile(t, "doc.json", `{"key": "value", "nested": {"inner": "data"}}`)

	units, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, units, 1)

	assert.Equal(t, "{\n  \"key\": \"value\",\n  \"nested\": {\n    \"inner\": \"data\"\n  }\n}", units[0].Content)
	assert.Equal(t, path, units[0].Metadata["source"])
}

func TestLoadJSON_RoundTrip(t *testing.T) {
	path := writeFile(t, "doc.json", `{"a":1}`)

	units, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, units, 1)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(units[0].Content), &got))
	assert.Equal(t, map[string]any{"a": float64(1)}, got)
}

func TestLoadJSON_List(t *testing.T) {
	path := writeFile(t, "doc.json", `[{"q": "x"}, "plain text", 42, [1, 2], null]`)

	units, err := LoadJSON(path)
	require.NoError(t, err)
	require.Len(t, units, 1)

	want := "{\n  \"q\": \"x\"\n}\n\nplain text\n\n42\n\n[1,2]\n\nnull"
	assert.Equal(t, want, units[0].Content)
}

func TestLoadJSON_PreservesKeyOrderAndNumbers(t *testing.T) {
	path := writeFile(t, "doc.json", `{"zeta": 1.50, "alpha": 10000000000000001}`)

	units, err := LoadJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"zeta\": 1.50,\n  \"alpha\": 10000000000000001\n}", units[0].Content)
}

func TestLoadJSON_Scalar(t *testing.T) {
	tests := []struct {
		content string
		want    string
	}{
		{`"just a string"`, "just a string"},
		{`3.14`, "3.14"},
		{`true`, "true"},
	}
	for _, tt := range tests {
		path := writeFile(t, "doc.json", tt.content)
		units, err := LoadJSON(path)
		require.NoError(t, err)
		require.Len(t, units, 1)
		assert.Equal(t, tt.want, units[0].Content)
	}
}

func TestLoadJSON_Invalid(t *testing.T) {
	for _, content := range []string{``, `{"a":`, `{"a":1} trailing`} {
		path := writeFile(t, "doc.json", content)
		_, err := LoadJSON(path)
		assert.ErrorIs(t, err, ErrInvalidFormat, "content %q", content)
	}
}

func TestLoadJSON_MissingFile(t *testing.T) {
	_, err := LoadJSON(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidFormat)
}

func TestLoadPDF_Errors(t *testing.T) {
	_, err := LoadPDF(filepath.Join(t.TempDir(), "missing.pdf"))
	assert.Error(t, err)

	path := writeFile(t, "fake.pdf", "this is not a pdf")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestUnsupportedFormatError_Message(t *testing.T) {
	assert.Equal(t, "unsupported document type: .docx", (&UnsupportedFormatError{Ext: ".docx"}).Error())
	assert.Equal(t, "unsupported document type: (none)", (&UnsupportedFormatError{}).Error())
}
