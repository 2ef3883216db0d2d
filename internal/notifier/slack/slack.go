// Package slack posts plain-text messages to a Slack incoming webhook.
package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 10 * time.Second

// Response is what the webhook answered. Slack replies "ok" on success and a
// short error string otherwise.
type Response struct {
	StatusCode int
	Body       string
}

// OK reports whether the webhook accepted the message.
func (r Response) OK() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// Client represents a Slack incoming webhook.
type Client struct {
	webhookURL string
	httpClient *http.Client
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// NewClient creates a webhook client.
func NewClient(webhookURL string, opts ...Option) (*Client, error) {
	if strings.TrimSpace(webhookURL) == "" {
		return nil, fmt.Errorf("webhook url is required")
	}
	c := &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Notify posts {"text": text}. Transport failures are returned as errors; a
// non-2xx answer is not, the caller inspects the Response.
func (c *Client) Notify(ctx context.Context, text string) (Response, error) {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return Response{}, fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("sending request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{StatusCode: resp.StatusCode}, fmt.Errorf("reading response: %w", err)
	}
	return Response{StatusCode: resp.StatusCode, Body: string(body)}, nil
}
