// Package httpclient is the outbound HTTP client shared by the weather
// provider and the classifier. It applies a default deadline, fixed headers
// and observation hooks to every request.
package httpclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"
)

const (
	// DefaultTimeout bounds requests whose context carries no deadline.
	DefaultTimeout = 30 * time.Second

	defaultUserAgent           = "WeatherCloset/1.0"
	defaultMaxIdleConnsPerHost = 10
)

// BeforeRequestHook runs after headers are applied and before the request is sent.
type BeforeRequestHook func(req *http.Request)

// AfterResponseHook runs once the transport returns. resp is nil when err is not.
type AfterResponseHook func(req *http.Request, resp *http.Response, err error, elapsed time.Duration)

// Config configures a Client. Zero fields take defaults.
type Config struct {
	DefaultTimeout      time.Duration
	UserAgent           string
	MaxIdleConnsPerHost int

	// Headers are set on every request that does not carry them already,
	// e.g. the inference endpoint's Authorization bearer token.
	Headers map[string]string
}

// Client is safe for concurrent use. Hooks may be swapped while requests
// are in flight.
type Client struct {
	http      *http.Client
	timeout   time.Duration
	userAgent string
	headers   http.Header

	before atomic.Pointer[BeforeRequestHook]
	after  atomic.Pointer[AfterResponseHook]
}

// New builds a Client. A nil cfg uses the defaults.
func New(cfg *Config) *Client {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.DefaultTimeout <= 0 {
		c.DefaultTimeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = defaultUserAgent
	}
	if c.MaxIdleConnsPerHost <= 0 {
		c.MaxIdleConnsPerHost = defaultMaxIdleConnsPerHost
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.MaxIdleConnsPerHost = c.MaxIdleConnsPerHost

	headers := make(http.Header, len(c.Headers))
	for k, v := range c.Headers {
		headers.Set(k, v)
	}

	return &Client{
		http:      &http.Client{Transport: transport},
		timeout:   c.DefaultTimeout,
		userAgent: c.UserAgent,
		headers:   headers,
	}
}

// HTTPClient exposes the underlying client so tests can install mock transports.
func (c *Client) HTTPClient() *http.Client {
	return c.http
}

// SetBeforeRequestHook installs fn, replacing any previous hook. nil clears it.
func (c *Client) SetBeforeRequestHook(fn BeforeRequestHook) {
	if fn == nil {
		c.before.Store(nil)
		return
	}
	c.before.Store(&fn)
}

// SetAfterResponseHook installs fn, replacing any previous hook. nil clears it.
func (c *Client) SetAfterResponseHook(fn AfterResponseHook) {
	if fn == nil {
		c.after.Store(nil)
		return
	}
	c.after.Store(&fn)
}

// Do sends req under ctx. When ctx has no deadline the client's default
// timeout applies. The caller closes the response body when err is nil.
func (c *Client) Do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("nil request")
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	req = req.WithContext(ctx)

	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	for k := range c.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, c.headers.Get(k))
		}
	}

	if hook := c.before.Load(); hook != nil {
		(*hook)(req)
	}

	start := time.Now()
	resp, err := c.http.Do(req)

	if hook := c.after.Load(); hook != nil {
		(*hook)(req, resp, err, time.Since(start))
	}
	return resp, err
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create GET request: %w", err)
	}
	return c.Do(ctx, req)
}

// Post sends body with the given content type.
func (c *Client) Post(ctx context.Context, url, contentType string, body io.Reader) (*http.Response, error) {
	if body == nil {
		body = http.NoBody
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create POST request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.Do(ctx, req)
}

// StatusLabel renders a request outcome as a metric label: the response
// status code, or transport_error when no response arrived.
func StatusLabel(resp *http.Response, err error) string {
	if err != nil || resp == nil {
		return "transport_error"
	}
	return strconv.Itoa(resp.StatusCode)
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}
