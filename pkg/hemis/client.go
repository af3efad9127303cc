package hemis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/uzbridge/hemis-mcp/internal/logger"
)

// Client executes single HTTP requests against the HEMIS API. It performs
// no retries of its own: a request that reached the upstream is issued
// exactly once, so mutating endpoints are never duplicated here.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Request describes one upstream call, already fully serialized by the
// caller (path substituted, query assembled).
type Request struct {
	Op     string // operation name used in errors and logs
	Method string
	Path   string // relative to the base URL
	Query  url.Values
	Body   any    // JSON-encoded when non-nil
	Token  string // attached as "Authorization: Bearer <token>" when non-empty
}

// Response is returned whenever the upstream answered at all, regardless
// of status. No response means a transport failure.
type Response struct {
	Status int
	Body   []byte
}

// Doer executes one upstream request. *Client is the production
// implementation; tests substitute counting fakes.
type Doer interface {
	Do(ctx context.Context, r Request) (*Response, error)
}

// NewClient creates a client for the given base URL. The timeout bounds
// the entire request including body read; zero selects 30 seconds.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: logger.WithComponent("hemis"),
	}
}

// Do executes one request. The error return is reserved for transport
// failures (timeout, connection refused, DNS); an upstream answer with a
// non-2xx status is a valid *Response for the caller to classify.
func (c *Client) Do(ctx context.Context, r Request) (*Response, error) {
	u := c.baseURL + r.Path
	if len(r.Query) > 0 {
		u += "?" + r.Query.Encode()
	}

	var reqBody io.Reader
	if r.Body != nil {
		encoded, err := json.Marshal(r.Body)
		if err != nil {
			return nil, &Error{Sentinel: ErrTransport, Operation: r.Op, Err: fmt.Errorf("encode request body: %w", err)}
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, r.Method, u, reqBody)
	if err != nil {
		return nil, &Error{Sentinel: ErrTransport, Operation: r.Op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.Token)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("op", r.Op).Str("path", r.Path).Err(err).Msg("request failed")
		return nil, &Error{Sentinel: ErrTransport, Operation: r.Op, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Sentinel: ErrTransport, Operation: r.Op, Err: fmt.Errorf("read response body: %w", err)}
	}

	c.log.Debug().
		Str("op", r.Op).
		Str("path", r.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("upstream call")

	return &Response{Status: resp.StatusCode, Body: body}, nil
}

// Envelope decodes the response body as the standard {success, data}
// wrapper. Non-JSON bodies (proxy error pages and the like) fail here and
// the caller falls back to the raw body for its error message.
func (r *Response) Envelope() (*Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(r.Body, &env); err != nil {
		return nil, fmt.Errorf("decode response envelope: %w", err)
	}
	return &env, nil
}

// Snippet trims the response body for inclusion in error messages.
func (r *Response) Snippet() string {
	const max = 200
	s := string(bytes.TrimSpace(r.Body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}
