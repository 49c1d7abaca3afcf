package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/promodeck/internal/logging"
	"github.com/muurk/promodeck/internal/version"
	"github.com/muurk/promodeck/internal/view"
)

const (
	// DefaultTimeout is the default HTTP request timeout
	DefaultTimeout = 10 * time.Second

	// DefaultMaxRetries is the default number of retry attempts for failed requests
	DefaultMaxRetries = 3

	// DefaultRetryDelay is the default delay between retry attempts
	DefaultRetryDelay = 500 * time.Millisecond

	// DefaultMaxRetryDelay is the maximum delay for exponential backoff
	DefaultMaxRetryDelay = 5 * time.Second

	// DefaultCacheDuration is how long a fetched page is reused
	DefaultCacheDuration = 30 * time.Second
)

// Paths served by 'promodeck serve'
const (
	CatalogPath = "/api/catalog"
	HealthPath  = "/healthz"
)

// Health is the body of the health endpoint
type Health struct {
	Status   string          `json:"status"`
	Version  version.Details `json:"version"`
	Sessions int             `json:"sessions"`
}

// Client reads a page served by another promodeck instance
type Client struct {
	// BaseURL is the page root, e.g. "http://192.168.1.20:8080"
	BaseURL string

	HTTPClient *http.Client

	// MaxRetries is the maximum number of retry attempts for failed requests
	MaxRetries int

	// RetryDelay is the initial delay between retry attempts
	RetryDelay time.Duration

	// MaxRetryDelay caps the exponential backoff
	MaxRetryDelay time.Duration

	// CacheDuration is how long to reuse a fetched page (0 = no cache)
	CacheDuration time.Duration

	cacheMutex sync.RWMutex
	cachedPage *view.Page
	cacheTime  time.Time
}

// NewClient creates a client for the page at baseURL. A bare host:port is
// given the http scheme.
func NewClient(baseURL string) *Client {
	if !strings.Contains(baseURL, "://") {
		baseURL = "http://" + baseURL
	}
	return &Client{
		BaseURL:       strings.TrimRight(baseURL, "/"),
		HTTPClient:    &http.Client{Timeout: DefaultTimeout},
		MaxRetries:    DefaultMaxRetries,
		RetryDelay:    DefaultRetryDelay,
		MaxRetryDelay: DefaultMaxRetryDelay,
		CacheDuration: DefaultCacheDuration,
	}
}

// SetTimeout sets the HTTP request timeout
func (c *Client) SetTimeout(timeout time.Duration) {
	c.HTTPClient.Timeout = timeout
}

// SetRetry configures retry behavior
func (c *Client) SetRetry(maxRetries int, retryDelay time.Duration) {
	c.MaxRetries = maxRetries
	c.RetryDelay = retryDelay
}

// Ping checks the health endpoint once, without retrying
func (c *Client) Ping(ctx context.Context) (*Health, error) {
	var health Health
	if err := c.getJSON(ctx, HealthPath, &health); err != nil {
		return nil, err
	}
	if health.Status != "ok" {
		return &health, newHTTPError(http.StatusServiceUnavailable, fmt.Sprintf("page reports status %q", health.Status))
	}
	return &health, nil
}

// GetPage returns the page header and its locked cards, using the cache
// when it is fresh
func (c *Client) GetPage(ctx context.Context) (*view.Page, error) {
	if cached := c.CachedPage(); cached != nil {
		return cached, nil
	}

	var page view.Page
	err := c.retry(ctx, func() error {
		return c.getJSON(ctx, CatalogPath, &page)
	})
	if err != nil {
		return nil, err
	}
	if page.Header.Name == "" {
		return nil, newParseError("catalog response has no game name", nil)
	}

	if c.CacheDuration > 0 {
		c.cacheMutex.Lock()
		c.cachedPage = &page
		c.cacheTime = time.Now()
		c.cacheMutex.Unlock()
	}
	result := page
	return &result, nil
}

// CachedPage returns the cached page without a network request, or nil
func (c *Client) CachedPage() *view.Page {
	c.cacheMutex.RLock()
	defer c.cacheMutex.RUnlock()

	if c.cachedPage != nil && c.CacheDuration > 0 && time.Since(c.cacheTime) < c.CacheDuration {
		cached := *c.cachedPage
		return &cached
	}
	return nil
}

// InvalidateCache forces the next GetPage to fetch
func (c *Client) InvalidateCache() {
	c.cacheMutex.Lock()
	defer c.cacheMutex.Unlock()
	c.cachedPage = nil
	c.cacheTime = time.Time{}
}

// retry runs attempt until it succeeds, fails with a non-retryable error, or
// runs out of attempts. The delay doubles up to MaxRetryDelay.
func (c *Client) retry(ctx context.Context, attempt func() error) error {
	var lastErr error
	delay := c.RetryDelay

	for i := 0; i <= c.MaxRetries; i++ {
		if i > 0 {
			logging.Debug("Retrying page request",
				zap.String("url", c.BaseURL),
				zap.Int("attempt", i),
				zap.Duration("delay", delay),
			)
			select {
			case <-ctx.Done():
				return classify("request cancelled", ctx.Err())
			case <-time.After(delay):
			}
			delay *= 2
			if delay > c.MaxRetryDelay {
				delay = c.MaxRetryDelay
			}
		}

		lastErr = attempt()
		if lastErr == nil {
			return nil
		}
		if !IsRetryable(lastErr) {
			return lastErr
		}
	}
	return lastErr
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+path, nil)
	if err != nil {
		return newParseError("invalid page URL", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return classify("GET "+path+" failed", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return newHTTPError(resp.StatusCode, fmt.Sprintf("unexpected status code: %d", resp.StatusCode))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return classify("failed to read response body", err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return newParseError("failed to parse JSON response", err)
	}
	return nil
}
