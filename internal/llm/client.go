package llm

import (
	"context"
	"errors"
	"net/http"
	"strings"
)

var (
	// ErrNoChoices is returned when a completion response carries no choices.
	ErrNoChoices = errors.New("no choices returned")

	// ErrContextTooLarge is returned when the model rejects a prompt for exceeding its context window.
	ErrContextTooLarge = errors.New("prompt exceeds model context length")
)

// Client is a client for an OpenAI-compatible chat completions API.
type Client struct {
	BaseURL string
	APIKey  string
	Model   string
	client  *http.Client
}

// NewClient creates a new LLM client.
func NewClient(baseURL, apiKey, model string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Model:   model,
		client:  http.DefaultClient,
	}
}

// ChatMessage represents a single message in a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents the request payload for chat completions.
type ChatRequest struct {
	Model       string        `json:"model"`
	Messages    []ChatMessage `json:"messages"`
	Temperature *float32      `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

// ChatChoiceMessage represents the message in a chat choice.
type ChatChoiceMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatChoice represents a single choice in the chat response.
type ChatChoice struct {
	Index        int               `json:"index"`
	Message      ChatChoiceMessage `json:"message"`
	FinishReason string            `json:"finish_reason"`
}

// ChatResponse represents the response from the chat completions API.
type ChatResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Choices []ChatChoice `json:"choices"`
}

// Chat sends a single user message and returns the first reply.
func (c *Client) Chat(ctx context.Context, message string) (string, error) {
	return c.complete(ctx, ChatRequest{
		Model: c.Model,
		Messages: []ChatMessage{
			{
				Role:    "user",
				Content: message,
			},
		},
	})
}

// ChatWithMessages sends a structured conversation. The temperature in params is
// always sent, so a zero value requests deterministic sampling.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	model := params.Model
	if model == "" {
		model = c.Model
	}

	chatMessages := make([]ChatMessage, len(messages))
	for i, m := range messages {
		chatMessages[i] = ChatMessage(m)
	}

	temperature := params.Temperature
	return c.complete(ctx, ChatRequest{
		Model:       model,
		Messages:    chatMessages,
		Temperature: &temperature,
		MaxTokens:   params.MaxTokens,
	})
}

func (c *Client) complete(ctx context.Context, payload ChatRequest) (string, error) {
	var chatResp ChatResponse
	if err := postJSON(ctx, c.client, c.BaseURL+"/v1/chat/completions", c.APIKey, payload, &chatResp); err != nil {
		return "", err
	}

	if len(chatResp.Choices) == 0 {
		return "", ErrNoChoices
	}

	return chatResp.Choices[0].Message.Content, nil
}
