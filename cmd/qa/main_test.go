package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/internal/handlers"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /qa", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{
			"Who wrote it?": "Ada Lovelace",
			"When?":         "1843",
		})
	})
	mux.HandleFunc("POST /chat", func(w http.ResponseWriter, r *http.Request) {
		var req handlers.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		_ = json.NewEncoder(w).Encode(handlers.ChatResponse{SessionID: "s-1", Response: "Echo: " + req.Message})
	})
	mux.HandleFunc("GET /chat/{id}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("id") != "s-1" {
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(handlers.ErrorResponse{Error: "Resource not found"})
			return
		}
		_ = json.NewEncoder(w).Encode(handlers.HistoryResponse{
			SessionID: "s-1",
			Messages: []handlers.MessageOut{
				{Role: "user", Content: "hi"},
				{Role: "assistant", Content: "Echo: hi"},
			},
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestAnswerCmd_Remote(t *testing.T) {
	server := fakeServer(t)
	questions := writeFile(t, "questions.json", `["Who wrote it?", "When?"]`)
	document := writeFile(t, "doc.json", `{"author": "Ada"}`)

	tests := []struct {
		name   string
		format string
		want   string
	}{
		{
			name:   "json",
			format: "json",
			want:   "{\n  \"When?\": \"1843\",\n  \"Who wrote it?\": \"Ada Lovelace\"\n}\n",
		},
		{
			name:   "yaml",
			format: "yaml",
			want:   "When?: \"1843\"\nWho wrote it?: Ada Lovelace\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := runCLI(t, "answer",
				"--questions", questions,
				"--document", document,
				"--server", server.URL,
				"--output", tt.format,
			)
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestAnswerCmd_Validation(t *testing.T) {
	_, err := runCLI(t, "answer", "--questions", "q.json", "--document", "d.pdf", "--output", "xml")
	assert.ErrorContains(t, err, "--output must be json or yaml")

	_, err = runCLI(t, "answer", "--questions", "q.json")
	assert.ErrorContains(t, err, `required flag(s) "document" not set`)
}

func TestChatCmd(t *testing.T) {
	server := fakeServer(t)

	out, err := runCLI(t, "chat", "hi", "--server", server.URL)
	require.NoError(t, err)
	assert.JSONEq(t, `{"session_id":"s-1","response":"Echo: hi"}`, out)

	out, err = runCLI(t, "chat", "hi", "--server", server.URL, "-o", "yaml")
	require.NoError(t, err)
	assert.Equal(t, "session_id: s-1\nresponse: 'Echo: hi'\n", out)

	_, err = runCLI(t, "chat", "hi")
	assert.ErrorContains(t, err, "--server is required")
}

func TestHistoryCmd(t *testing.T) {
	server := fakeServer(t)

	out, err := runCLI(t, "history", "s-1", "--server", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "Session s-1\nuser: hi\nassistant: Echo: hi\n", out)

	_, err = runCLI(t, "history", "other", "--server", server.URL)
	assert.ErrorContains(t, err, "Resource not found")
}
