package httpx

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"github.com/google/uuid"
)

// TokenSource yields the bearer token to attach, "" for none.
type TokenSource interface {
	Token() string
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	log     logging.Logger
}

type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client (tests, proxies).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithJar sets the cookie jar used for the service's cookie credentials.
func WithJar(j http.CookieJar) Option {
	return func(c *Client) { c.http.Jar = j }
}

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client for the service rooted at baseURL. Endpoints are
// appended verbatim to baseURL, so baseURL may carry a path prefix such
// as "/api/v1".
func New(baseURL string, tokens TokenSource, log logging.Logger, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("base url %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		tokens: tokens,
		log:    log,
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// BaseURL returns the service root the client was built with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do sends req once. The current token from the TokenSource is attached
// as a bearer credential when non-empty. Transport failures wrap
// common.ErrUnavailable; HTTP error statuses are returned as a Response.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, c.baseURL+req.Path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	if req.ContentType != "" {
		httpReq.Header.Set("Content-Type", req.ContentType)
	}
	httpReq.Header.Set("Accept", contentTypeJSON)
	httpReq.Header.Set(common.RequestIDHeader, requestID)

	token := c.tokens.Token()
	if token != "" {
		httpReq.Header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	log := c.log.With("request_id", requestID, "method", req.Method, "path", req.Path)
	start := time.Now()

	resp, err := c.http.Do(httpReq)
	if err != nil {
		log.Warn(ctx, "request failed", "error", err)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("%s %s: %w", req.Method, req.Path, ctxErr)
		}
		return nil, fmt.Errorf("%s %s: %w: %w", req.Method, req.Path, common.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s %s: read body: %w: %w", req.Method, req.Path, common.ErrUnavailable, err)
	}

	log.Debug(ctx, "request done", "status", resp.StatusCode, "duration", time.Since(start), "authenticated", token != "")

	return &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: data, Token: token}, nil
}
