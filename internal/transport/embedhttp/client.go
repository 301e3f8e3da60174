// Package embedhttp is an embedding provider speaking the sentence
// transformer service's small HTTP contract: POST /embed with a sentence,
// a nested list of vectors back.
package embedhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/openwebindex/searchd/internal/domain"
	"github.com/openwebindex/searchd/internal/metrics"
)

const providerName = "sentence"

// Client is an embedding provider backed by a sentence transformer HTTP service.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the embedding service settings.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Logger  *zap.Logger
}

// NewClient creates a sentence transformer embedding provider.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}
}

type embedRequest struct {
	Sentence string `json:"sentence"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Embed implements domain.Embedder. The service embeds one sentence per
// request and responds with a list of vectors; only the first is used.
func (c *Client) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	body, err := json.Marshal(embedRequest{Sentence: text})
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("marshal embed request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/embed", bytes.NewReader(body))
	if err != nil {
		return domain.EmbeddingResult{}, fmt.Errorf("build embed request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()

	resp, err := c.http.Do(req)

	duration := time.Since(start)

	if err != nil {
		c.incError("transport_error")
		c.logger.Warn("Embedding request failed", zap.Error(err))
		return domain.EmbeddingResult{}, fmt.Errorf("embedding request failed: %w", domain.ErrEmbeddingProviderError)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.incError("http_status")
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.EmbeddingResult{}, fmt.Errorf("embedding API error %d: %s: %w",
			resp.StatusCode, string(snippet), domain.ErrEmbeddingProviderError)
	}

	var parsed embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		c.incError("malformed_response")
		return domain.EmbeddingResult{}, fmt.Errorf("decode embedding response: %w", domain.ErrEmbeddingProviderError)
	}
	if len(parsed.Embeddings) == 0 || len(parsed.Embeddings[0]) == 0 {
		c.incError("empty_response")
		return domain.EmbeddingResult{}, fmt.Errorf("empty embedding response: %w", domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "", "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, "").Observe(duration.Seconds())

	return domain.EmbeddingResult{Embedding: parsed.Embeddings[0]}, nil
}

// HealthCheck verifies the service answers an embed round trip.
func (c *Client) HealthCheck(ctx context.Context) error {
	if _, err := c.Embed(ctx, "ping"); err != nil {
		return fmt.Errorf("embed ping: %w", err)
	}
	return nil
}

func (c *Client) incError(errorType string) {
	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, "", "error").Inc()
	metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, "", errorType).Inc()
}
