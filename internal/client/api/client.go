// Package api is the authenticated resource client for the travelmate
// service. Every call goes through a single send path that attaches the
// session's bearer token and, on a 401, refreshes the token once and
// replays the request once.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/session"
	"github.com/dmitrijs2005/travelmate/internal/logging"
)

// Refresher obtains a new access token and stores it in the session.
type Refresher interface {
	Refresh(ctx context.Context) (string, error)
}

type Client struct {
	http      *httpx.Client
	session   *session.Session
	refresher Refresher
	log       logging.Logger

	// refreshLeeway > 0 enables refreshing a JWT that is about to expire
	// before the request is sent.
	refreshLeeway time.Duration
	now           func() time.Time

	Users        Users
	TravelPlans  TravelPlans
	JoinRequests JoinRequests
	Reviews      Reviews
	Payments     Payments
	Account      Account
}

type Option func(*Client)

// WithProactiveRefresh refreshes the held token before a request when its
// exp claim is within leeway. Opaque tokens are sent as they are.
func WithProactiveRefresh(leeway time.Duration) Option {
	return func(c *Client) { c.refreshLeeway = leeway }
}

func New(h *httpx.Client, s *session.Session, r Refresher, log logging.Logger, opts ...Option) *Client {
	c := &Client{http: h, session: s, refresher: r, log: log, now: time.Now}
	for _, o := range opts {
		o(c)
	}

	c.Users = Users{c}
	c.TravelPlans = TravelPlans{c}
	c.JoinRequests = JoinRequests{c}
	c.Reviews = Reviews{c}
	c.Payments = Payments{c}
	c.Account = Account{c}
	return c
}

// Get decodes the response of GET endpoint into out. out may be nil.
func (c *Client) Get(ctx context.Context, endpoint string, out any) error {
	return c.call(ctx, httpx.NewRequest(http.MethodGet, endpoint), "", out)
}

func (c *Client) Post(ctx context.Context, endpoint string, in, out any) error {
	return c.callJSON(ctx, http.MethodPost, endpoint, in, out)
}

func (c *Client) Put(ctx context.Context, endpoint string, in, out any) error {
	return c.callJSON(ctx, http.MethodPut, endpoint, in, out)
}

func (c *Client) Delete(ctx context.Context, endpoint string, out any) error {
	return c.call(ctx, httpx.NewRequest(http.MethodDelete, endpoint), "", out)
}

// Upload posts form as multipart/form-data.
func (c *Client) Upload(ctx context.Context, endpoint string, form *httpx.Form, out any) error {
	return c.upload(ctx, endpoint, form, "", out)
}

func (c *Client) upload(ctx context.Context, endpoint string, form *httpx.Form, fallback string, out any) error {
	req, err := httpx.NewMultipartRequest(http.MethodPost, endpoint, form)
	if err != nil {
		return err
	}
	return c.call(ctx, req, fallback, out)
}

func (c *Client) callJSON(ctx context.Context, method, endpoint string, in, out any) error {
	req, err := httpx.NewJSONRequest(method, endpoint, in)
	if err != nil {
		return err
	}
	return c.call(ctx, req, "", out)
}

// call sends req and decodes a 2xx payload into out. Non-2xx answers
// become *httpx.APIError carrying the service's message or fallback
// ("<METHOD> <endpoint> failed" when fallback is empty).
func (c *Client) call(ctx context.Context, req *httpx.Request, fallback string, out any) error {
	resp, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	if !resp.OK() {
		if fallback == "" {
			fallback = httpx.FallbackMessage(req.Method, req.Path)
		}
		return resp.Err(req, fallback)
	}
	return resp.Decode(out)
}

// send performs req with at most one refresh and one replay.
//
// A 401 for a request that carried no token is returned as is. If the
// session's token changed while the request was in flight, another caller
// already refreshed and the replay uses the current token directly. A
// failed refresh returns the original 401 response; the session has been
// cleared by then.
func (c *Client) send(ctx context.Context, req *httpx.Request) (*httpx.Response, error) {
	c.refreshIfExpiring(ctx)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.Unauthorized() || resp.Token == "" {
		return resp, nil
	}

	if current := c.session.Token(); current != "" && current != resp.Token {
		c.log.Debug(ctx, "token replaced while request was in flight, replaying", "path", req.Path)
	} else if _, err := c.refresher.Refresh(ctx); err != nil {
		c.log.Warn(ctx, "token refresh failed", "path", req.Path, "error", err)
		return resp, nil
	}

	if !c.session.HasToken() {
		return resp, nil
	}
	return c.http.Do(ctx, req)
}

func (c *Client) refreshIfExpiring(ctx context.Context) {
	if c.refreshLeeway <= 0 || !c.session.HasToken() {
		return
	}
	claims, err := c.session.Claims()
	if err != nil || !claims.Expired(c.now(), c.refreshLeeway) {
		return
	}
	if _, err := c.refresher.Refresh(ctx); err != nil {
		c.log.Warn(ctx, "refreshing expiring token failed", "error", err)
	}
}

func list[T any](ctx context.Context, c *Client, endpoint string) ([]T, error) {
	var out []T
	if err := c.Get(ctx, endpoint, &out); err != nil {
		return nil, err
	}
	return out, nil
}
