package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"cutout/internal/config"
)

const defaultHTTPTimeout = 60 * time.Second

// Client wraps an image-to-text inference endpoint speaking the HuggingFace
// pipeline protocol: POST the raw media bytes, receive a JSON array whose
// first entry carries generated_text.
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// Option customizes the vision client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs a vision client from configuration. An empty endpoint
// yields a client that reports itself unavailable.
func NewClient(cfg config.Vision, opts ...Option) *Client {
	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		endpoint:   strings.TrimSpace(cfg.Endpoint),
		apiKey:     strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	if client.httpClient == nil {
		client.httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return client
}

// Available reports whether the inference capability is configured.
func (c *Client) Available() bool {
	return c != nil && c.endpoint != ""
}

type captionResult struct {
	GeneratedText string `json:"generated_text"`
}

// Caption sends the media payload to the inference endpoint and returns the
// generated text of the first result entry.
func (c *Client) Caption(ctx context.Context, payload []byte, mediaType string) (string, error) {
	if !c.Available() {
		return "", errors.New("vision caption: endpoint not configured")
	}
	if len(payload) == 0 {
		return "", errors.New("vision caption: payload required")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("vision caption: request: %w", err)
	}
	mediaType = strings.TrimSpace(mediaType)
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	req.Header.Set("Content-Type", mediaType)
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("vision caption: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("vision caption: read body: %w", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("vision caption: http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var results []captionResult
	if err := json.Unmarshal(body, &results); err != nil {
		return "", fmt.Errorf("vision caption: decode response: %w", err)
	}
	if len(results) == 0 {
		return "", errors.New("vision caption: empty results")
	}
	caption := strings.TrimSpace(results[0].GeneratedText)
	if caption == "" {
		return "", errors.New("vision caption: empty generated text")
	}
	return caption, nil
}
