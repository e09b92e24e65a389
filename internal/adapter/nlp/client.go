package nlp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"hearing/internal/domain"
)

const maxResponseBytes = 32 << 20

// Client tokenizes paragraphs with an external NLP service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	maxRetries int
	backoff    func(attempt int) time.Duration
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		maxRetries: 2,
		backoff:    Backoff,
	}
}

func (c *Client) Name() string { return "remote" }

type tokenizeRequest struct {
	Text string `json:"text"`
}

type tokenizeResponse struct {
	Tokens []domain.Token `json:"tokens"`
}

// Tokenize posts text to {baseURL}/tokenize. Transient failures are retried
// with backoff.
func (c *Client) Tokenize(ctx context.Context, text string) ([]domain.Token, error) {
	var err error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.backoff(attempt - 1)):
			}
		}
		var tokens []domain.Token
		tokens, err = c.tokenize(ctx, text)
		if err == nil {
			return tokens, nil
		}
		if !IsRetryable(err) {
			break
		}
	}
	return nil, err
}

func (c *Client) tokenize(ctx context.Context, text string) ([]domain.Token, error) {
	payload, err := json.Marshal(tokenizeRequest{Text: text})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/tokenize", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nlp service: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Message: string(body)}
	}

	var out tokenizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out.Tokens, nil
}

// Close releases idle connections.
func (c *Client) Close() {
	c.httpClient.CloseIdleConnections()
}

// StatusError is a non-200 response from the NLP service.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("nlp service status %d: %s", e.StatusCode, truncate(strings.TrimSpace(e.Message), 200))
}

// Temporary reports whether the request may succeed if retried.
func (e *StatusError) Temporary() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Temporary()
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * 500 * time.Millisecond
	if base > 10*time.Second {
		base = 10 * time.Second
	}
	jitter := time.Duration(rand.Int64N(int64(base) / 2))
	return base + jitter
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
