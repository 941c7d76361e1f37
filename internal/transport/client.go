// Package transport performs the HTTP requests carmap sends to the vehicle API.
// Requests are traced with OpenTelemetry and retried with exponential backoff
// when the failure is transient.
package transport

import (
	"context"
	"io"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
)

// DefaultHTTPTimeout is the default timeout for HTTP requests.
var DefaultHTTPTimeout = constants.DefaultHTTPTimeout

// Client provides HTTP GET with retries.
type Client struct {
	http       *http.Client
	timeout    time.Duration
	source     string
	userAgent  string
	retries    int
	backoff    time.Duration
	maxBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its transport is used as is.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithTimeout sets the per-request timeout. It applies on top of any
// WithHTTPClient, which is copied rather than changed.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithRetries sets how many times a transient failure is retried and the initial backoff.
func WithRetries(n int, backoff time.Duration) Option {
	return func(c *Client) {
		if n < 0 {
			n = 0
		}
		c.retries = n
		c.backoff = backoff
	}
}

// WithSource names the remote service in APIErrors.
func WithSource(name string) Option {
	return func(c *Client) {
		c.source = name
	}
}

// New creates a transport client.
func New(opts ...Option) *Client {
	c := &Client{
		http: &http.Client{
			Timeout:   DefaultHTTPTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		source:     "http",
		userAgent:  constants.UserAgent,
		retries:    constants.MaxRetries,
		backoff:    constants.RetryBackoff,
		maxBackoff: constants.MaxRetryBackoff,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.timeout > 0 {
		hc := *c.http
		hc.Timeout = c.timeout
		c.http = &hc
	}
	return c
}

// Get performs a GET request. Transport errors, 429 and 5xx responses are
// retried. When retries run out the last response is returned so the caller
// can turn it into an APIError.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	logger := logging.FromContext(ctx)
	backoff := c.backoff

	for attempt := 0; ; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, errors.WrapResource("create", "request", "GET "+url, err)
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", c.userAgent)

		resp, err := c.http.Do(req)
		final := attempt >= c.retries
		switch {
		case err != nil:
			if ctx.Err() != nil {
				return nil, &errors.ResourceError{Operation: "get", Resource: "url", ID: url, Err: errors.ErrCanceled}
			}
			if final {
				return nil, &errors.APIError{Source: c.source, Endpoint: url, Message: "request failed", Err: err}
			}
			logger.Debug().Err(err).Str("url", url).Int("attempt", attempt+1).Msg("Request failed, retrying")
		case retryable(resp.StatusCode) && !final:
			logger.Debug().Int("status", resp.StatusCode).Str("url", url).Int("attempt", attempt+1).Msg("Transient response, retrying")
			_, _ = io.Copy(io.Discard, resp.Body)
			_ = resp.Body.Close()
		default:
			return resp, nil
		}

		select {
		case <-ctx.Done():
			return nil, &errors.ResourceError{Operation: "get", Resource: "url", ID: url, Err: errors.ErrCanceled}
		case <-time.After(backoff):
		}
		backoff *= 2
		if backoff > c.maxBackoff {
			backoff = c.maxBackoff
		}
	}
}

// GetJSON performs a GET request and decodes the JSON body into target.
func (c *Client) GetJSON(ctx context.Context, url string, target any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return c.DecodeResponse(resp, url, target)
}

func retryable(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
