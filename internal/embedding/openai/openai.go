package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"policyqa/internal/domain"
)

// Client is an OpenAI-compatible embeddings client. Transient failures
// (timeouts, 429, 5xx) are retried with exponential backoff; authentication
// and other 4xx responses fail immediately.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	dimension  int
	client     *http.Client
	maxRetries int
}

// Config configures the embeddings client. The API key is read from the
// environment variable named by APIKeyEnv.
type Config struct {
	BaseURL    string
	APIKeyEnv  string
	Model      string
	Timeout    time.Duration
	MaxRetries int
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
		cfg.Model = "text-embedding-3-small"
	}
	t := cfg.Timeout
	if t == 0 {
		t = 30 * time.Second
	}
	retries := cfg.MaxRetries
	if retries <= 0 {
		retries = 3
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     key,
		model:      cfg.Model,
		client:     &http.Client{Timeout: t},
		maxRetries: retries,
	}, nil
}

// Name returns the identifier of this embedder implementation.
func (c *Client) Name() string { return "openai" }

// Dimension returns the dimensionality of the produced vectors. It is 0
// until the first successful Embed sets it from the model's response.
func (c *Client) Dimension() int { return c.dimension }

// Embed returns an embedding vector for the given text.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	type reqBody struct {
		Input string `json:"input"`
		Model string `json:"model"`
	}
	data, _ := json.Marshal(reqBody{Input: text, Model: c.model})
	url := fmt.Sprintf("%s/embeddings", c.baseURL)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, ctx.Err())
			case <-time.After(retryDelay(attempt - 1)):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			lastErr = err
			continue
		}

		if retryable(resp.StatusCode) {
			lastErr = fmt.Errorf("embeddings request: %s", resp.Status)
			if ra := retryAfter(resp); ra > 0 {
				resp.Body.Close()
				select {
				case <-ctx.Done():
					return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, ctx.Err())
				case <-time.After(ra):
				}
				continue
			}
			resp.Body.Close()
			continue
		}
		if resp.StatusCode >= 300 {
			resp.Body.Close()
			return nil, fmt.Errorf("%w: embeddings request: %s", domain.ErrEmbedding, resp.Status)
		}

		payload, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		var out struct {
			Data []struct {
				Embedding []float64 `json:"embedding"`
			} `json:"data"`
		}
		if err := json.Unmarshal(payload, &out); err != nil {
			lastErr = fmt.Errorf("parse embeddings response: %w", err)
			continue
		}
		if len(out.Data) == 0 || len(out.Data[0].Embedding) == 0 {
			lastErr = fmt.Errorf("no embedding returned")
			continue
		}
		v := out.Data[0].Embedding
		if c.dimension == 0 {
			c.dimension = len(v)
		}
		return v, nil
	}
	return nil, fmt.Errorf("%w: after %d retries: %v", domain.ErrEmbedding, c.maxRetries, lastErr)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func retryAfter(resp *http.Response) time.Duration {
	ra := resp.Header.Get("Retry-After")
	if ra == "" {
		return 0
	}
	secs, err := strconv.Atoi(ra)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

func retryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	base := 200 * time.Millisecond
	// exponential backoff capped at 5s
	d := base << attempt
	if d > 5*time.Second {
		d = 5 * time.Second
	}
	return d
}
