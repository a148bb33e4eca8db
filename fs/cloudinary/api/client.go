package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// DefaultBaseURL is the platform API root; the cloud name is appended.
const DefaultBaseURL = "https://api.cloudinary.com/v1_1"

// RetryPolicy controls transport-level retries of transient failures.
type RetryPolicy struct {
	MaxRetries int           `mapstructure:"max_retries"`
	WaitMin    time.Duration `mapstructure:"wait_min"`
	WaitMax    time.Duration `mapstructure:"wait_max"`
}

// DefaultRetryPolicy is a conservative retry strategy.
var DefaultRetryPolicy = RetryPolicy{
	MaxRetries: 3,
	WaitMin:    250 * time.Millisecond,
	WaitMax:    5 * time.Second,
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API root. Used to point the client at a test server.
func WithBaseURL(base string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient overrides the HTTP client used for every request.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http.HTTPClient = h
		}
	}
}

// WithRetryPolicy overrides the default retry configuration.
func WithRetryPolicy(policy RetryPolicy) Option {
	return func(c *Client) {
		c.retry = policy
	}
}

// WithLogger sets the logger for transport diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock overrides the time source used for request timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// Client is the REST implementation of Uploader, Admin, Searcher and Fetcher.
// It is safe for concurrent use.
type Client struct {
	creds   Credentials
	baseURL string
	http    *retryablehttp.Client
	retry   RetryPolicy
	logger  *slog.Logger
	now     func() time.Time
}

// NewClient creates a Client for the given product environment.
func NewClient(creds Credentials, opts ...Option) (*Client, error) {
	if err := creds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid credentials: %w", err)
	}

	c := &Client{
		creds:   creds,
		baseURL: DefaultBaseURL,
		http:    retryablehttp.NewClient(),
		retry:   DefaultRetryPolicy,
		logger:  slog.New(slog.DiscardHandler),
		now:     time.Now,
	}
	c.http.HTTPClient = &http.Client{Timeout: 60 * time.Second}

	for _, opt := range opts {
		opt(c)
	}

	if c.retry.MaxRetries < 0 {
		c.retry.MaxRetries = 0
	}
	if c.retry.WaitMin <= 0 {
		c.retry.WaitMin = DefaultRetryPolicy.WaitMin
	}
	if c.retry.WaitMax < c.retry.WaitMin {
		c.retry.WaitMax = c.retry.WaitMin
	}

	c.http.RetryMax = c.retry.MaxRetries
	c.http.RetryWaitMin = c.retry.WaitMin
	c.http.RetryWaitMax = c.retry.WaitMax
	c.http.CheckRetry = checkRetry
	// Hand the final response back instead of a "giving up" error so the
	// platform's error message survives.
	c.http.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.http.Logger = c.logger

	return c, nil
}

// checkRetry extends the default policy with 420, which the platform
// uses for rate limiting.
func checkRetry(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if err == nil && resp != nil && resp.StatusCode == 420 {
		return true, nil
	}
	return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
}

// endpoint builds an absolute API URL from path segments under the cloud root.
func (c *Client) endpoint(path string, query url.Values) string {
	u := c.baseURL + "/" + url.PathEscape(c.creds.CloudName) + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do sends a request and decodes a 2xx JSON body into out (if non-nil).
func (c *Client) do(ctx context.Context, method, target, contentType string, body []byte, basicAuth bool, out any) error {
	var raw any
	if body != nil {
		raw = body
	}
	req, err := retryablehttp.NewRequestWithContext(ctx, method, target, raw)
	if err != nil {
		return fmt.Errorf("building %s request: %w", method, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if basicAuth {
		req.SetBasicAuth(c.creds.APIKey, c.creds.APISecret)
	}

	c.logger.DebugContext(ctx, "cloudinary request", "method", method, "url", redact(target))

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newError(resp.StatusCode, data)
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}

// redact strips the query string, which may carry identifiers, from logged URLs.
func redact(target string) string {
	if i := strings.IndexByte(target, '?'); i >= 0 {
		return target[:i]
	}
	return target
}

// Compile-time interface checks.
var (
	_ Uploader = (*Client)(nil)
	_ Admin    = (*Client)(nil)
	_ Searcher = (*Client)(nil)
	_ Fetcher  = (*Client)(nil)
)
