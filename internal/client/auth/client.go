// Package auth talks to the service's /auth endpoints and keeps the
// Session's token in step with what the service issues.
package auth

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/client/session"
	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/logging"
)

const (
	pathRegister = "/auth/register"
	pathLogin    = "/auth/login"
	pathLogout   = "/auth/logout"
	pathMe       = "/auth/me"
	pathRefresh  = "/auth/refresh-token"
)

// CookieResetter forgets cookie credentials held in memory.
type CookieResetter interface {
	Reset()
}

type Client struct {
	http    *httpx.Client
	session *session.Session
	cookies CookieResetter
	log     logging.Logger
}

type Option func(*Client)

// WithCookies makes Logout also drop the in-memory cookie jar.
func WithCookies(j CookieResetter) Option {
	return func(c *Client) { c.cookies = j }
}

func New(h *httpx.Client, s *session.Session, log logging.Logger, opts ...Option) *Client {
	c := &Client{http: h, session: s, log: log}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) Session() *session.Session {
	return c.session
}

// Register creates an account and signs it in.
func (c *Client) Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error) {
	return c.authenticate(ctx, pathRegister, in, "Registration failed")
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error) {
	return c.authenticate(ctx, pathLogin, in, "Login failed")
}

func (c *Client) authenticate(ctx context.Context, path string, in any, fallback string) (*models.AuthResponse, error) {
	req, err := httpx.NewJSONRequest(http.MethodPost, path, in)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return nil, err
	}
	if !resp.OK() {
		return nil, resp.Err(req, fallback)
	}

	var result models.AuthResponse
	if err := resp.Decode(&result); err != nil {
		return nil, err
	}
	if result.AccessToken == "" {
		return nil, fmt.Errorf("%s: response carried no access token: %w", fallback, common.ErrInvalidToken)
	}

	// Set logs persistence failures; the in-memory token is already usable.
	_ = c.session.Set(ctx, result.AccessToken)
	return &result, nil
}

// Logout tells the service to end the session and then always clears the
// local token and cookies, even when the request itself fails. A transport
// error is returned after local state is gone.
func (c *Client) Logout(ctx context.Context) error {
	resp, reqErr := c.http.Do(ctx, httpx.NewRequest(http.MethodPost, pathLogout))
	if reqErr == nil && !resp.OK() {
		c.log.Warn(ctx, "logout rejected by service, clearing local session anyway", "status", resp.StatusCode)
	}

	if c.cookies != nil {
		c.cookies.Reset()
	}
	if err := c.session.Wipe(ctx); err != nil {
		c.log.Error(ctx, "wiping local session failed", "error", err)
		if reqErr == nil {
			return err
		}
	}
	return reqErr
}

// Me fetches the signed-in user. A 401 triggers one forced refresh and a
// single retry; anything after that is returned to the caller.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	user, resp, err := c.me(ctx)
	if err != nil || user != nil {
		return user, err
	}

	if resp.Unauthorized() {
		if _, err := c.Refresh(ctx); err != nil {
			return nil, err
		}
		user, resp, err = c.me(ctx)
		if err != nil || user != nil {
			return user, err
		}
	}

	return nil, resp.Err(httpx.NewRequest(http.MethodGet, pathMe), "Failed to get user")
}

// me performs one GET /auth/me. A nil user with a nil error means the
// response was not a success; inspect resp.
func (c *Client) me(ctx context.Context) (*models.User, *httpx.Response, error) {
	resp, err := c.http.Do(ctx, httpx.NewRequest(http.MethodGet, pathMe))
	if err != nil {
		return nil, nil, err
	}
	if !resp.OK() {
		return nil, resp, nil
	}

	var result struct {
		User *models.User `json:"user"`
	}
	if err := resp.Decode(&result); err != nil {
		return nil, resp, err
	}
	if result.User == nil {
		return nil, resp, fmt.Errorf("GET %s: response carried no user: %w", pathMe, common.ErrNotFound)
	}
	return result.User, resp, nil
}

// Refresh obtains a new access token from the service. Concurrent calls
// share one request. On failure the session is cleared and the error wraps
// common.ErrRefreshFailed.
func (c *Client) Refresh(ctx context.Context) (string, error) {
	token, err := c.session.Refresh(ctx, c.requestRefresh)
	if err != nil {
		c.log.Warn(ctx, "token refresh failed, treating user as signed out", "error", err)
		return "", err
	}
	c.log.Debug(ctx, "access token refreshed")
	return token, nil
}

func (c *Client) requestRefresh(ctx context.Context) (string, error) {
	req := httpx.NewRequest(http.MethodPost, pathRefresh)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", err
	}
	if !resp.OK() {
		return "", resp.Err(req, common.ErrRefreshFailed.Error())
	}

	var result struct {
		AccessToken string `json:"accessToken"`
	}
	if err := resp.Decode(&result); err != nil {
		return "", err
	}
	return result.AccessToken, nil
}

// HasToken reports whether the session currently holds an access token.
func (c *Client) HasToken() bool {
	return c.session.HasToken()
}
