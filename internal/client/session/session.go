package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"golang.org/x/sync/singleflight"
)

// RefreshFunc asks the service for a new access token.
type RefreshFunc func(ctx context.Context) (string, error)

type Session struct {
	mu    sync.RWMutex
	token string

	store Store
	log   logging.Logger
	group singleflight.Group
}

func New(store Store, log logging.Logger) *Session {
	return &Session{store: store, log: log}
}

// Load restores the persisted token into memory. A store error leaves the
// session signed out and is returned.
func (s *Session) Load(ctx context.Context) error {
	token, err := s.store.LoadToken(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
	return nil
}

// Token returns the held access token, or "" when signed out.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *Session) HasToken() bool {
	return s.Token() != ""
}

// Set replaces the held token and mirrors it to the store. The in-memory
// value is updated even if persisting fails.
func (s *Session) Set(ctx context.Context, token string) error {
	if token == "" {
		return common.ErrInvalidToken
	}

	s.mu.Lock()
	s.token = token
	s.mu.Unlock()

	if err := s.store.SaveToken(ctx, token); err != nil {
		s.log.Warn(ctx, "persisting access token failed", "error", err)
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Clear drops the held token from memory and from the store.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.DeleteToken(ctx); err != nil {
		s.log.Warn(ctx, "removing persisted access token failed", "error", err)
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

// Wipe signs out and removes every persisted trace of the session,
// including cookie jars.
func (s *Session) Wipe(ctx context.Context) error {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()

	if err := s.store.Wipe(ctx); err != nil {
		return fmt.Errorf("wipe session: %w", err)
	}
	return nil
}

// Refresh runs fn to obtain a new token, sharing a single in-flight call
// among concurrent callers. On success the new token is held and
// persisted; on failure the session is cleared and the returned error
// wraps common.ErrRefreshFailed.
//
// The shared call is detached from the first caller's cancellation so a
// cancelled caller does not fail everyone else.
func (s *Session) Refresh(ctx context.Context, fn RefreshFunc) (string, error) {
	v, err, shared := s.group.Do("refresh", func() (any, error) {
		rctx := context.WithoutCancel(ctx)

		token, err := fn(rctx)
		if err == nil && token == "" {
			err = common.ErrInvalidToken
		}
		if err != nil {
			_ = s.Clear(rctx)
			if errors.Is(err, common.ErrRefreshFailed) {
				return "", err
			}
			return "", fmt.Errorf("%w: %w", common.ErrRefreshFailed, err)
		}

		// Set logs persistence failures; the token is usable from memory.
		_ = s.Set(rctx, token)
		return token, nil
	})

	if shared {
		s.log.Debug(ctx, "joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
