package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrEmptyInput is returned when EmbedTexts is called without texts.
var ErrEmptyInput = errors.New("empty input array")

// EmbeddingsClient is a client for an OpenAI-compatible embeddings API.
type EmbeddingsClient struct {
	BaseURL      string
	APIKey       string
	Model        string
	ExpectedSize int // Expected vector size for validation, 0 disables the check
	client       *http.Client
}

// NewEmbeddingsClient creates a new embeddings client.
// When expectedSize is positive every returned vector must have that length.
func NewEmbeddingsClient(baseURL, apiKey, model string, expectedSize int) *EmbeddingsClient {
	return &EmbeddingsClient{
		BaseURL:      strings.TrimRight(baseURL, "/"),
		APIKey:       apiKey,
		Model:        model,
		ExpectedSize: expectedSize,
		client:       http.DefaultClient,
	}
}

// EmbeddingsRequest represents the request payload for embeddings API.
type EmbeddingsRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

// EmbeddingData represents a single embedding in the response.
type EmbeddingData struct {
	Index     int       `json:"index"`
	Embedding []float64 `json:"embedding"`
}

// EmbeddingsResponse represents the response from the embeddings API.
type EmbeddingsResponse struct {
	Data []EmbeddingData `json:"data"`
}

// EmbedTexts returns one float32 vector per input text, in input order.
func (c *EmbeddingsClient) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, ErrEmptyInput
	}

	var embeddingsResp EmbeddingsResponse
	payload := EmbeddingsRequest{Model: c.Model, Input: texts}
	if err := postJSON(ctx, c.client, c.BaseURL+"/v1/embeddings", c.APIKey, payload, &embeddingsResp); err != nil {
		return nil, err
	}

	if len(embeddingsResp.Data) != len(texts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(texts), len(embeddingsResp.Data))
	}

	result := make([][]float32, len(texts))
	for i, data := range inputOrder(embeddingsResp.Data) {
		if c.ExpectedSize > 0 && len(data.Embedding) != c.ExpectedSize {
			return nil, fmt.Errorf("embedding %d has size %d, expected %d", i, len(data.Embedding), c.ExpectedSize)
		}

		vec := make([]float32, len(data.Embedding))
		for j, v := range data.Embedding {
			vec[j] = float32(v)
		}
		result[i] = vec
	}

	return result, nil
}

// inputOrder sorts data by its index field when the indexes form a permutation
// of 0..n-1. Servers that leave index unset keep their response order.
func inputOrder(data []EmbeddingData) []EmbeddingData {
	ordered := make([]EmbeddingData, len(data))
	seen := make([]bool, len(data))
	for _, d := range data {
		if d.Index < 0 || d.Index >= len(data) || seen[d.Index] {
			return data
		}
		seen[d.Index] = true
		ordered[d.Index] = d
	}
	return ordered
}
