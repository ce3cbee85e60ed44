package client

import (
	"context"
	"encoding/json"
	"errors"
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

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestClient_Answer(t *testing.T) {
	questions := writeFile(t, "questions.json", `["Who?"]`)
	document := writeFile(t, "doc.json", `{"author":"Ada"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.Equal(t, http.MethodPost, r.Method) || !assert.Equal(t, "/qa", r.URL.Path) {
			return
		}
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}

		for field, want := range map[string]string{
			handlers.QuestionsField: `["Who?"]`,
			handlers.DocumentField:  `{"author":"Ada"}`,
		} {
			f, header, err := r.FormFile(field)
			if !assert.NoError(t, err, "FormFile(%s)", field) {
				return
			}
			data, _ := io.ReadAll(f)
			_ = f.Close()
			assert.Equal(t, want, string(data))
			assert.NotEmpty(t, filepath.Ext(header.Filename))
		}

		_ = json.NewEncoder(w).Encode(map[string]string{"Who?": "Ada"})
	}))
	defer server.Close()

	answers, err := New(server.URL+"/").Answer(context.Background(), questions, document)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"Who?": "Ada"}, answers)
}

func TestClient_Answer_MissingFile(t *testing.T) {
	_, err := New("http://127.0.0.1:0").Answer(context.Background(), filepath.Join(t.TempDir(), "nope.json"), "doc.pdf")
	assert.ErrorContains(t, err, "failed to open questions_file")
}

func TestClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req handlers.ChatRequest
		if !assert.NoError(t, json.NewDecoder(r.Body).Decode(&req)) {
			return
		}
		sessionID := req.SessionID
		if sessionID == "" {
			sessionID = "new-session"
		}
		_ = json.NewEncoder(w).Encode(handlers.ChatResponse{SessionID: sessionID, Response: "Echo: " + req.Message})
	}))
	defer server.Close()

	c := New(server.URL)

	resp, err := c.Chat(context.Background(), "hi", "")
	require.NoError(t, err)
	assert.Equal(t, handlers.ChatResponse{SessionID: "new-session", Response: "Echo: hi"}, resp)

	resp, err = c.Chat(context.Background(), "again", "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.SessionID)
}

func TestClient_History(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/chat/abc":
			_ = json.NewEncoder(w).Encode(handlers.HistoryResponse{
				SessionID: "abc",
				Messages: []handlers.MessageOut{
					{Role: "user", Content: "hi"},
					{Role: "assistant", Content: "Echo: hi"},
				},
			})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(handlers.ErrorResponse{Error: "Resource not found"})
		}
	}))
	defer server.Close()

	c := New(server.URL)

	history, err := c.History(context.Background(), "abc")
	require.NoError(t, err)
	require.Len(t, history.Messages, 2)
	assert.Equal(t, "user", history.Messages[0].Role)
	assert.Equal(t, "assistant", history.Messages[1].Role)

	_, err = c.History(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Resource not found", apiErr.Message)
}

func TestClient_ErrorBodies(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "json error", status: http.StatusBadGateway, body: `{"error":"External service error"}`, wantMsg: "External service error"},
		{name: "plain text", status: http.StatusInternalServerError, body: "boom\n", wantMsg: "boom"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer server.Close()

			_, err := New(server.URL).Chat(context.Background(), "hi", "")
			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.NotErrorIs(t, err, ErrNotFound)
		})
	}
}
