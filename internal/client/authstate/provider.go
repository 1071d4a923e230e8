// Package authstate keeps the signed-in user and the loading flag that
// the rest of the client reads to decide what to show.
package authstate

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/logging"
)

// Authenticator is the part of auth.Client the provider drives.
type Authenticator interface {
	Register(ctx context.Context, in models.RegisterInput) (*models.AuthResponse, error)
	Login(ctx context.Context, in models.LoginInput) (*models.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (*models.User, error)
	HasToken() bool
}

// State is a snapshot. User is nil when signed out.
type State struct {
	User    *models.User
	Loading bool
}

func (s State) SignedIn() bool {
	return s.User != nil
}

type Provider struct {
	auth Authenticator
	log  logging.Logger

	mu          sync.RWMutex
	state       State
	initialized bool

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(State)
}

// New returns a provider in the loading state. Call Init once at start-up.
func New(a Authenticator, log logging.Logger) *Provider {
	return &Provider{
		auth:  a,
		log:   log,
		state: State{Loading: true},
		subs:  make(map[int]func(State)),
	}
}

func (p *Provider) State() State {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.state
}

// Subscribe registers fn to be called with the new state after every
// change. The returned func removes it.
func (p *Provider) Subscribe(fn func(State)) (unsubscribe func()) {
	p.subMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subs, id)
		p.subMu.Unlock()
	}
}

func (p *Provider) update(fn func(*State)) {
	p.mu.Lock()
	fn(&p.state)
	snapshot := p.state
	p.mu.Unlock()

	p.subMu.Lock()
	listeners := make([]func(State), 0, len(p.subs))
	for _, l := range p.subs {
		listeners = append(listeners, l)
	}
	p.subMu.Unlock()

	for _, l := range listeners {
		l(snapshot)
	}
}

// Init resolves the current user if a token is held. Failures are logged
// and leave the user signed out. Loading is false afterwards. Only the
// first call does anything.
func (p *Provider) Init(ctx context.Context) {
	p.mu.Lock()
	if p.initialized {
		p.mu.Unlock()
		return
	}
	p.initialized = true
	p.mu.Unlock()

	var user *models.User
	if p.auth.HasToken() {
		u, err := p.auth.Me(ctx)
		if err != nil {
			p.log.Error(ctx, "auth check failed", "error", err)
		} else {
			user = u
		}
	}

	p.update(func(s *State) {
		s.User = user
		s.Loading = false
	})
}

func (p *Provider) Login(ctx context.Context, email, password string) error {
	resp, err := p.auth.Login(ctx, models.LoginInput{Email: email, Password: password})
	if err != nil {
		return err
	}
	p.update(func(s *State) { s.User = resp.User })
	return nil
}

func (p *Provider) Register(ctx context.Context, name, email, password string) error {
	resp, err := p.auth.Register(ctx, models.RegisterInput{Name: name, Email: email, Password: password})
	if err != nil {
		return err
	}
	p.update(func(s *State) { s.User = resp.User })
	return nil
}

// Logout signs out. The user is cleared even when the service call fails,
// matching the client's local session which is always wiped.
func (p *Provider) Logout(ctx context.Context) error {
	err := p.auth.Logout(ctx)
	p.update(func(s *State) { s.User = nil })
	return err
}

// RefreshUser reloads the user. On failure the state is left as it was.
func (p *Provider) RefreshUser(ctx context.Context) {
	u, err := p.auth.Me(ctx)
	if err != nil {
		p.log.Error(ctx, "failed to refresh user", "error", err)
		return
	}
	p.update(func(s *State) { s.User = u })
}
