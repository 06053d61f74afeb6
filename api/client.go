// Package api is the rentdesk REST transport and resource client.
//
// Every call flows through an interceptor chain registered with Use before reaching a
// retrying HTTP client. The chain sees raw responses, including 401s, so session
// handling can live outside this package. Non-2xx responses become *Error once the
// chain has finished.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	retry "github.com/appleboy/go-httpretry"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultRequestTimeout = 10 * time.Second

// Request is the value object threaded through the interceptor chain.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	Header http.Header
	Body   []byte

	// Retried is set on a request re-issued after an authorization failure.
	// A retried request is never re-issued again.
	Retried bool
}

// NewRequest builds a request, encoding body as JSON when non-nil.
func NewRequest(method, path string, body any) (*Request, error) {
	req := &Request{
		Method: method,
		Path:   path,
		Query:  url.Values{},
		Header: http.Header{},
	}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		req.Body = data
	}
	return req, nil
}

// Clone returns a deep copy safe to mutate independently.
func (r *Request) Clone() *Request {
	c := *r
	c.Header = r.Header.Clone()
	if c.Header == nil {
		c.Header = http.Header{}
	}
	c.Query = url.Values{}
	for k, v := range r.Query {
		c.Query[k] = append([]string(nil), v...)
	}
	if r.Body != nil {
		c.Body = append([]byte(nil), r.Body...)
	}
	return &c
}

// Response is a fully read HTTP response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Cookie returns the value of the named Set-Cookie, or "".
func (r *Response) Cookie(name string) string {
	hr := http.Response{Header: r.Header}
	for _, c := range hr.Cookies() {
		if c.Name == name {
			return c.Value
		}
	}
	return ""
}

// Handler sends a request and returns the raw response.
type Handler func(ctx context.Context, req *Request) (*Response, error)

// Interceptor decorates a Handler.
type Interceptor func(next Handler) Handler

type registration struct {
	id          int
	interceptor Interceptor
}

// Client issues requests against one API base URL.
type Client struct {
	baseURL string
	http    *retry.Client
	timeout time.Duration
	logger  zerolog.Logger

	mu           sync.RWMutex
	interceptors []registration
	nextID       int
}

// Option configures a Client.
type Option func(*Client)

// WithRetryClient replaces the default retrying HTTP client.
func WithRetryClient(rc *retry.Client) Option {
	return func(c *Client) { c.http = rc }
}

// WithTimeout bounds each individual HTTP round trip.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// NewClient creates a client for baseURL.
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	c := &Client{
		baseURL: baseURL,
		timeout: defaultRequestTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.http == nil {
		baseHTTPClient := &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					MinVersion: tls.VersionTLS12,
				},
				MaxIdleConns:        10,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		}
		rc, err := retry.NewBackgroundClient(retry.WithHTTPClient(baseHTTPClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create retry client: %w", err)
		}
		c.http = rc
	}

	return c, nil
}

// BaseURL returns the API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Use registers an interceptor and returns a function that unregisters it.
// Interceptors run in registration order, the first registered being outermost.
func (c *Client) Use(ic Interceptor) (remove func()) {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	c.interceptors = append(c.interceptors, registration{id: id, interceptor: ic})
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			for i, r := range c.interceptors {
				if r.id == id {
					c.interceptors = append(c.interceptors[:i:i], c.interceptors[i+1:]...)
					return
				}
			}
		})
	}
}

// chain snapshots the current interceptors around the base sender.
func (c *Client) chain() Handler {
	c.mu.RLock()
	regs := append([]registration(nil), c.interceptors...)
	c.mu.RUnlock()

	h := Handler(c.send)
	for i := len(regs) - 1; i >= 0; i-- {
		h = regs[i].interceptor(h)
	}
	return h
}

// Do sends req through the interceptor chain. Non-2xx responses are returned
// together with an *Error.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	resp, err := c.chain()(ctx, req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, newError(resp)
	}
	return resp, nil
}

// send performs one HTTP round trip.
func (c *Client) send(ctx context.Context, req *Request) (*Response, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.baseURL + req.Path
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(reqCtx, req.Method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", uuid.NewString())
	for k, v := range req.Header {
		httpReq.Header[k] = append([]string(nil), v...)
	}

	start := time.Now()
	resp, err := c.http.DoWithContext(reqCtx, httpReq)
	if err != nil {
		return nil, fmt.Errorf("%s %s failed: %w", req.Method, req.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.logger.Debug().
		Str("method", req.Method).
		Str("path", req.Path).
		Int("status", resp.StatusCode).
		Bool("retried", req.Retried).
		Dur("elapsed", time.Since(start)).
		Msg("api request")

	return &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
	}, nil
}

// decode unmarshals a JSON response body into T.
func decode[T any](resp *Response) (T, error) {
	var out T
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return out, fmt.Errorf("failed to parse response: %w", err)
	}
	return out, nil
}

// call builds, sends and decodes a JSON request in one step.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T
	req, err := NewRequest(method, path, body)
	if err != nil {
		return zero, err
	}
	if query != nil {
		req.Query = query
	}
	resp, err := c.Do(ctx, req)
	if err != nil {
		return zero, err
	}
	return decode[T](resp)
}
