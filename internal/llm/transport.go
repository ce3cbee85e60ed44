package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxErrorBody caps how much of an error response is kept in the returned error.
const maxErrorBody = 4 << 10

// postJSON sends payload to url and decodes a 200 response into out.
// The bearer token is omitted when apiKey is empty.
func postJSON(ctx context.Context, client *http.Client, url, apiKey string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// statusError builds an error from a non-200 response, recognising context-length rejections.
func statusError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	msg := strings.TrimSpace(string(raw))
	if strings.Contains(msg, "context_length_exceeded") {
		return fmt.Errorf("%w: bad status %d: %s", ErrContextTooLarge, resp.StatusCode, msg)
	}
	return fmt.Errorf("bad status %d: %s", resp.StatusCode, msg)
}
