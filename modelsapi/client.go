package modelsapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const defaultTimeout = 30 * time.Second

// Client talks to the Lukrum FX Models API. A Client is configured once at
// construction and holds no other state between calls; the underlying HTTP
// connection pool is released by Close. It is not safe for concurrent use
// without external synchronization.
type Client struct {
	baseURL string
	apiKey  string
	http    *resty.Client
	logger  zerolog.Logger
}

// Option customizes a Client at construction time
type Option func(*clientOptions)

type clientOptions struct {
	timeout    time.Duration
	httpClient *http.Client
}

// WithTimeout overrides the default 30s request timeout
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		o.timeout = timeout
	}
}

// WithHTTPClient supplies a custom underlying http.Client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = httpClient
	}
}

// NewClient creates a new Models API client. It performs no network I/O;
// use Ping to verify connectivity and the API key.
func NewClient(baseURL, apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("models API base URL is required")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("models API key is required")
	}
	baseURL = strings.TrimRight(baseURL, "/")

	options := clientOptions{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(&options)
	}

	var rc *resty.Client
	if options.httpClient != nil {
		rc = resty.NewWithClient(options.httpClient)
	} else {
		rc = resty.New()
	}
	rc.SetBaseURL(baseURL).
		SetTimeout(options.timeout).
		SetHeader("X-API-Key", apiKey).
		SetHeader("Accept", "application/json")

	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    rc,
		logger:  logger,
	}, nil
}

// BaseURL returns the configured base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Ping verifies connectivity and the API key against a cheap read endpoint
func (c *Client) Ping(ctx context.Context) error {
	var out granularitiesResponse
	return c.do(ctx, http.MethodGet, "/models/entry_granularities", nil, nil, &out)
}

// Close releases idle connections held by the client. It is safe to call
// more than once; a typical caller pairs NewClient with defer Close so the
// pool is released on every exit path.
func (c *Client) Close() {
	c.http.GetClient().CloseIdleConnections()
}

// do issues a single request and decodes a 2xx JSON response into result.
// Non-2xx statuses are mapped to the package's error types; no retries are
// performed.
func (c *Client) do(ctx context.Context, method, path string, params url.Values, body, result any) error {
	req := c.http.R().SetContext(ctx)
	if len(params) > 0 {
		req.SetQueryParamsFromValues(params)
	}
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("query", params.Encode()).
		Msg("Models API request")

	resp, err := req.Execute(method, path)
	if err != nil {
		return &APIError{Message: "request failed", Err: err}
	}

	if resp.IsError() {
		return statusError(resp.StatusCode(), resp.Body(), resp.Header().Get("Retry-After"))
	}
	return nil
}
