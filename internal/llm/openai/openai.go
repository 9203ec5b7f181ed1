package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"policyqa/internal/domain"
)

// Client is an OpenAI-compatible chat-completions client. Unlike the
// embeddings path it does not retry: an answer request is interactive and
// the caller surfaces the failure to the user instead.
type Client struct {
	baseURL string
	apiKey  string
	model   string
	client  *http.Client
}

// Config configures the chat client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL   string
	APIKeyEnv string
	Model     string
	Timeout   time.Duration
}

func NewClient(cfg Config) (*Client, error) {
	key := os.Getenv(cfg.APIKeyEnv)
	if key == "" {
		return nil, fmt.Errorf("missing API key in env %s", cfg.APIKeyEnv)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 60 * time.Second
	}
	return &Client{
		baseURL: cfg.BaseURL,
		apiKey:  key,
		model:   cfg.Model,
		client:  &http.Client{Timeout: t},
	}, nil
}

// Name returns the identifier of this chat model implementation.
func (c *Client) Name() string { return "openai" }

// Complete sends a system instruction and a user turn and returns the
// model's reply text verbatim.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	type message struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}
	type reqBody struct {
		Model    string    `json:"model"`
		Messages []message `json:"messages"`
	}
	body := reqBody{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
	}
	data, _ := json.Marshal(body)
	url := fmt.Sprintf("%s/chat/completions", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrChatService, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrChatService, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: chat completion request: %s", domain.ErrChatService, resp.Status)
	}

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrChatService, err)
	}
	var out struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(payload, &out); err != nil {
		return "", fmt.Errorf("%w: parse chat response: %v", domain.ErrChatService, err)
	}
	if len(out.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", domain.ErrChatService)
	}
	return out.Choices[0].Message.Content, nil
}
