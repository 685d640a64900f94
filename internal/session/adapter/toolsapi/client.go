// Package toolsapi is the authenticated client for the /tools endpoints.
// Every call returns a Result holding either the decoded response body or
// the server's detail message, so callers branch on one shape instead of
// inspecting transport errors.
package toolsapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"corpsuite/internal/shared/logger"

	"github.com/valyala/fasthttp"
)

const defaultTimeout = 30 * time.Second

// TokenProvider supplies the current bearer token for outgoing requests.
// An empty string means the request goes out unauthenticated.
type TokenProvider func() string

// Result is the uniform outcome of a tools call: Data holds the raw
// response body on success, Err the human-readable failure message.
type Result struct {
	Data json.RawMessage
	Err  string
}

// OK reports whether the call succeeded.
func (r Result) OK() bool { return r.Err == "" }

// Decode unmarshals the result data into v. It fails on error results.
func (r Result) Decode(v interface{}) error {
	if !r.OK() {
		return fmt.Errorf("cannot decode failed result: %s", r.Err)
	}
	return json.Unmarshal(r.Data, v)
}

// Client issues authenticated requests against the tools API.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	token   TokenProvider
	timeout time.Duration
	log     logger.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout overrides the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger overrides the client logger.
func WithLogger(log logger.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a tools client rooted at baseURL. The token provider is
// consulted on every request so a refreshed session is picked up without
// rebuilding the client.
func New(baseURL string, token TokenProvider, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &fasthttp.Client{},
		token:   token,
		timeout: defaultTimeout,
		log:     logger.NewLogger().WithComponent("tools-client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET against path.
func (c *Client) Get(ctx context.Context, path string) Result {
	return c.call(ctx, fasthttp.MethodGet, path, nil)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, path string, payload interface{}) Result {
	return c.call(ctx, fasthttp.MethodPost, path, payload)
}

// Put issues a PUT with a JSON body.
func (c *Client) Put(ctx context.Context, path string, payload interface{}) Result {
	return c.call(ctx, fasthttp.MethodPut, path, payload)
}

// Delete issues a DELETE against path.
func (c *Client) Delete(ctx context.Context, path string) Result {
	return c.call(ctx, fasthttp.MethodDelete, path, nil)
}

// Download fetches a binary artifact (report exports, generated invoices)
// and returns the raw bytes with the response content type.
func (c *Client) Download(ctx context.Context, path string) ([]byte, string, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, fasthttp.MethodGet, path)

	if err := c.http.DoTimeout(req, resp, c.callTimeout(ctx)); err != nil {
		return nil, "", fmt.Errorf("download failed: %w", err)
	}
	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, "", fmt.Errorf("download failed: %s", failureMessage(status, resp.Body()))
	}

	body := append([]byte(nil), resp.Body()...)
	return body, string(resp.Header.ContentType()), nil
}

func (c *Client) call(ctx context.Context, method, path string, payload interface{}) Result {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	c.prepare(req, method, path)
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return Result{Err: fmt.Sprintf("failed to encode request: %v", err)}
		}
		req.SetBody(body)
	}

	if err := c.http.DoTimeout(req, resp, c.callTimeout(ctx)); err != nil {
		c.log.Debugf("Tools request %s %s failed: %v", method, path, err)
		return Result{Err: err.Error()}
	}

	status := resp.StatusCode()
	body := append([]byte(nil), resp.Body()...)
	if status < 200 || status > 299 {
		return Result{Err: failureMessage(status, body)}
	}
	return Result{Data: body}
}

func (c *Client) prepare(req *fasthttp.Request, method, path string) {
	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(method)
	req.Header.SetContentType("application/json")
	if token := c.token(); token != "" {
		req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
	}
}

func (c *Client) callTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

// failureMessage prefers the backend's detail field, falling back to a
// generic message with the status code.
func failureMessage(status int, body []byte) string {
	var envelope struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Detail != "" {
		return envelope.Detail
	}
	return fmt.Sprintf("request failed with status %d", status)
}
