package httputil

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	defaultTimeout             = 5 * time.Second
	maxResponseSizeBytes       = 10 * 1024 * 1024 // 10MB limit for health and JSON responses
	defaultMaxIdleConns        = 100
	defaultMaxIdleConnsPerHost = 10
	defaultIdleConnTimeout     = 90 * time.Second
)

// Client is the outbound HTTP interface. Every caller receives one by
// injection, so the resolver and header defaults can be layered on top
// of a plain *http.Client.
type Client interface {
	Do(req *http.Request) (*http.Response, error)
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(req *http.Request) (*http.Response, error)

func (f ClientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// HTTPClientConfig holds configuration for HTTP client creation
type HTTPClientConfig struct {
	Timeout             time.Duration
	MaxIdleConns        int
	MaxIdleConnsPerHost int
	IdleConnTimeout     time.Duration
}

// DefaultHTTPClientConfig returns HTTP client configuration with sensible defaults
func DefaultHTTPClientConfig() *HTTPClientConfig {
	return &HTTPClientConfig{
		Timeout:             defaultTimeout,
		MaxIdleConns:        defaultMaxIdleConns,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}
}

// NewHTTPClient creates a new HTTP client with the given configuration
// This centralized factory ensures consistent HTTP client behavior throughout the application
func NewHTTPClient(cfg *HTTPClientConfig) *http.Client {
	if cfg == nil {
		cfg = DefaultHTTPClientConfig()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = defaultMaxIdleConns
	}

	maxIdleConnsPerHost := cfg.MaxIdleConnsPerHost
	if maxIdleConnsPerHost == 0 {
		maxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = defaultIdleConnTimeout
	}

	return &http.Client{
		// No global timeout: image analysis on a cold backend can take minutes.
		// ResponseHeaderTimeout on Transport protects the connect + header phase.
		Timeout: 0,
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment, // Support HTTP_PROXY, HTTPS_PROXY, NO_PROXY
			ResponseHeaderTimeout: timeout,
			MaxIdleConns:          maxIdleConns,
			MaxIdleConnsPerHost:   maxIdleConnsPerHost,
			IdleConnTimeout:       idleConnTimeout,
			DisableKeepAlives:     false,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// StatusError is returned by FetchHealth when the remote answers with a
// non-200 status.
type StatusError struct {
	StatusCode int
	Preview    string
}

func (e *StatusError) Error() string {
	if e.Preview == "" {
		return fmt.Sprintf("remote returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote returned status %d: %s", e.StatusCode, e.Preview)
}

// FetchHealth issues a GET to url and decodes the health document.
// A 200 with a body that is not JSON still counts as healthy; the
// returned HealthResponse is then empty.
// Note: caller should provide ctx with timeout if defaultTimeout is insufficient
func FetchHealth(ctx context.Context, client Client, url string) (*HealthResponse, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch: %w", err)
	}
	defer DrainAndClose(resp)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSizeBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, Preview: SafeStringPreview(body, 200)}
	}

	var health HealthResponse
	if err := json.Unmarshal(body, &health); err != nil {
		return &HealthResponse{}, nil
	}
	return &health, nil
}

// DrainAndClose discards what is left of a response body so the
// connection can be reused, then closes it.
func DrainAndClose(resp *http.Response) {
	if resp == nil || resp.Body == nil {
		return
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseSizeBytes))
	_ = resp.Body.Close()
}

// SafeStringPreview safely converts bytes to string, handling non-UTF-8 data
// Returns a safe preview of the data, replacing invalid UTF-8 sequences
func SafeStringPreview(data []byte, maxLen int) string {
	if len(data) == 0 {
		return ""
	}

	if len(data) > maxLen {
		data = data[:maxLen]
	}

	// Use fmt.Sprintf with %q to safely escape invalid UTF-8 sequences
	// Then remove the surrounding quotes
	escaped := fmt.Sprintf("%q", data)
	if len(escaped) > 2 {
		return escaped[1 : len(escaped)-1]
	}
	return escaped
}
