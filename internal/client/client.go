// Package client calls a running document Q&A server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/handlers"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match a 404 APIError against ErrNotFound.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// Client is a thin HTTP client for the Q&A API.
type Client struct {
	BaseURL string
	client  *http.Client
}

// New creates a client for the server at baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		client:  http.DefaultClient,
	}
}

// Answer uploads a questions file and a document to POST /qa and returns the
// answers keyed by question.
func (c *Client) Answer(ctx context.Context, questionsPath, documentPath string) (map[string]string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if err := attachFile(mw, handlers.QuestionsField, questionsPath); err != nil {
		return nil, err
	}
	if err := attachFile(mw, handlers.DocumentField, documentPath); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/qa", &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var answers map[string]string
	if err := c.do(req, &answers); err != nil {
		return nil, err
	}
	return answers, nil
}

// Chat sends one message. An empty sessionID starts a new session.
func (c *Client) Chat(ctx context.Context, message, sessionID string) (handlers.ChatResponse, error) {
	payload, err := json.Marshal(handlers.ChatRequest{Message: message, SessionID: sessionID})
	if err != nil {
		return handlers.ChatResponse{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat", bytes.NewReader(payload))
	if err != nil {
		return handlers.ChatResponse{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var resp handlers.ChatResponse
	if err := c.do(req, &resp); err != nil {
		return handlers.ChatResponse{}, err
	}
	return resp, nil
}

// History fetches the ordered messages of a session.
func (c *Client) History(ctx context.Context, sessionID string) (handlers.HistoryResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/chat/"+url.PathEscape(sessionID), nil)
	if err != nil {
		return handlers.HistoryResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	var resp handlers.HistoryResponse
	if err := c.do(req, &resp); err != nil {
		return handlers.HistoryResponse{}, err
	}
	return resp, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		var errResp handlers.ErrorResponse
		msg := strings.TrimSpace(string(body))
		if json.Unmarshal(body, &errResp) == nil && errResp.Error != "" {
			msg = errResp.Error
		}
		return &APIError{StatusCode: resp.StatusCode, Message: msg}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func attachFile(mw *multipart.Writer, field, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", field, err)
	}
	defer func() {
		_ = f.Close()
	}()

	part, err := mw.CreateFormFile(field, filepath.Base(path))
	if err != nil {
		return fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("failed to copy %s: %w", field, err)
	}
	return nil
}
