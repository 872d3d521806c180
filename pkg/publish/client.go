package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a remote write when no timeout is configured.
const DefaultTimeout = 10 * time.Second

const maxErrorBody = 4 << 10

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient overrides the transport.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout bounds each Publish call.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// Client posts documents to a remote durable write endpoint.
type Client struct {
	endpoint string
	http     *http.Client
	timeout  time.Duration
}

func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{endpoint: endpoint, http: http.DefaultClient, timeout: DefaultTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Endpoint returns the configured URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Publish POSTs payload as JSON. Any non-2xx response becomes a *RemoteError;
// guarded rejections also match ErrEnvironmentGuard.
func (c *Client) Publish(ctx context.Context, payload []byte) error {
	if c.endpoint == "" {
		return fmt.Errorf("publish: endpoint is required")
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("publish: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &RemoteError{Err: err}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	remote := &RemoteError{Status: resp.StatusCode, Body: string(body)}
	var reply response
	if err := json.Unmarshal(body, &reply); err == nil {
		remote.Code = reply.Error
	}
	return remote
}

// response is the JSON body exchanged with the durable write endpoint.
type response struct {
	OK      bool   `json:"ok"`
	Bytes   int    `json:"bytes,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}
