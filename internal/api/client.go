package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client is the single gateway to the Pepesbook REST API. Every store issues
// its requests through Do; nothing else in the client touches the network.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway for the given base URL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// BaseURL returns the configured base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do issues a request against the configured base URL and decodes the
// response into out (ignored when out is nil).
//
// body selects the content type: nil sends no body, *Form is encoded as
// multipart/form-data, anything else is serialized as JSON. A 2xx response
// with an absent or unparseable body counts as an empty payload, not an
// error. Transport failures come back as *NetworkError, non-2xx responses as
// *HTTPError.
func (c *Client) Do(ctx context.Context, method, endpoint string, body, out any) error {
	startTime := time.Now()

	var reader io.Reader
	contentType := ""

	switch b := body.(type) {
	case nil:
	case *Form:
		ct, buf, err := b.encode()
		if err != nil {
			return fmt.Errorf("encode multipart body: %w", err)
		}
		contentType = ct
		reader = buf
	default:
		payload, err := json.Marshal(b)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		contentType = "application/json"
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Printf("[API] %s %s FAILED: err=%v duration=%v", method, endpoint, err, time.Since(startTime))
		return &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Printf("[API] %s %s FAILED: read body err=%v", method, endpoint, err)
		return &NetworkError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		payload := map[string]any{}
		if len(respBody) > 0 {
			// Best effort: a non-JSON error body still yields a usable error.
			_ = json.Unmarshal(respBody, &payload)
		}
		log.Printf("[API] %s %s -> %d duration=%v", method, endpoint, resp.StatusCode, time.Since(startTime))
		return &HTTPError{
			Status:  resp.StatusCode,
			Message: errorMessage(resp.StatusCode, payload),
			Payload: payload,
		}
	}

	log.Printf("[API] %s %s OK: status=%d duration=%v", method, endpoint, resp.StatusCode, time.Since(startTime))

	if out == nil || len(respBody) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		// An unparseable 2xx body is treated as an empty payload.
		log.Printf("[API] %s %s: ignoring unparseable response body: %v", method, endpoint, err)
	}
	return nil
}

// ResolveImageURL turns a server-relative image URL into an absolute one.
// URLs that already carry a scheme pass through untouched.
func (c *Client) ResolveImageURL(raw string) string {
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.IsAbs() {
		return raw
	}
	if !strings.HasPrefix(raw, "/") {
		raw = "/" + raw
	}
	return c.baseURL + raw
}
