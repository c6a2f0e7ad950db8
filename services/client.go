// ABOUTME: HTTP client for the upstream Tranquil REST API
// ABOUTME: Envelope decoding, bearer auth, and response forwarding for proxies

package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/DarknessMonarch/tranquil-dashnoard-sub000/models"
)

// APIClient talks to the upstream Tranquil API. Every endpoint wraps its
// payload in the {status, message, data} envelope; call decodes it once and
// callers only see the data or an error.
type APIClient struct {
	baseURL string
	client  *http.Client
}

// NewAPIClient creates a client for the given base URL. The timeout bounds
// every upstream call, including token refreshes fired from timers.
func NewAPIClient(baseURL string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &APIClient{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// UpstreamError is a backend response with status "error". The message is
// surfaced verbatim; the gateway never retries on it.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned status %d", e.StatusCode)
	}
	return e.Message
}

// call performs one upstream request and decodes the envelope. A non-success
// envelope becomes an *UpstreamError. When out is non-nil the envelope's data
// payload is unmarshalled into it.
func (c *APIClient) call(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env models.Envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}

	if !env.OK() {
		return &UpstreamError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("response from %s has no data", path)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("decode data from %s: %w", path, err)
		}
	}
	return nil
}

func (c *APIClient) get(ctx context.Context, path, token string, out any) error {
	return c.call(ctx, http.MethodGet, path, token, nil, out)
}

// Forward proxies the incoming request to the upstream path verbatim: same
// method, query string, and body, with the session's bearer token attached.
// The upstream response is streamed back untouched so the envelope reaches
// the browser exactly as the backend produced it.
func (c *APIClient) Forward(w http.ResponseWriter, r *http.Request, upstreamPath, token string) {
	target := c.baseURL + upstreamPath
	if r.URL.RawQuery != "" {
		target += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, target, r.Body)
	if err != nil {
		slog.Error("Proxy: failed to create request", "path", upstreamPath, "error", err)
		http.Error(w, "Internal error", http.StatusInternalServerError)
		return
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		req.Header.Set("Content-Type", ct)
	} else {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		slog.Error("Proxy: upstream request failed", "path", upstreamPath, "error", err)
		http.Error(w, "Upstream request failed", http.StatusBadGateway)
		return
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)
	io.Copy(w, resp.Body)
}
