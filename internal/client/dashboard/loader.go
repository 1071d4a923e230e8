// Package dashboard gathers what the dashboard page shows: the caller's
// profile and, for regular users, their plans and join requests.
package dashboard

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/travelmate/internal/client/api"
	"github.com/dmitrijs2005/travelmate/internal/client/authstate"
	"github.com/dmitrijs2005/travelmate/internal/client/guard"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"golang.org/x/sync/errgroup"
)

// Path is the route the dashboard lives at.
const Path = "/dashboard"

type View int

const (
	UserView View = iota
	AdminView
)

func (v View) String() string {
	if v == AdminView {
		return "admin"
	}
	return "user"
}

// Data is a loaded dashboard. The section slices are never nil; in the
// admin view they are empty.
type Data struct {
	Profile      *models.User
	View         View
	Plans        []models.TravelPlan
	Requests     []models.JoinRequest // sent to the user's plans
	SentRequests []models.JoinRequest
}

// Page is the outcome of Load: either a guard decision other than Allow,
// or loaded Data.
type Page struct {
	Decision guard.Decision
	Data     *Data
}

type Loader struct {
	api *api.Client
	log logging.Logger
}

func NewLoader(c *api.Client, log logging.Logger) *Loader {
	return &Loader{api: c, log: log}
}

// Load checks st against the dashboard route and, when allowed, fetches
// the profile and the user sections in parallel. A section that fails is
// logged and left empty. A profile failure fails the load.
func (l *Loader) Load(ctx context.Context, st authstate.State) (*Page, error) {
	dec := guard.Check(Path, st)
	if dec.Action != guard.Allow {
		return &Page{Decision: dec}, nil
	}

	data := &Data{
		Plans:        []models.TravelPlan{},
		Requests:     []models.JoinRequest{},
		SentRequests: []models.JoinRequest{},
	}

	var (
		plans    []models.TravelPlan
		requests []models.JoinRequest
		sent     []models.JoinRequest
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		p, err := l.api.Users.Profile(gctx)
		if err != nil {
			return fmt.Errorf("load profile: %w", err)
		}
		data.Profile = p
		return nil
	})
	g.Go(func() error {
		plans = section(gctx, l.log, "plans", l.api.TravelPlans.Mine)
		return nil
	})
	g.Go(func() error {
		requests = section(gctx, l.log, "requests", l.api.JoinRequests.ForMyPlans)
		return nil
	})
	g.Go(func() error {
		sent = section(gctx, l.log, "sent_requests", l.api.JoinRequests.Mine)
		return nil
	})

	if err := g.Wait(); err != nil {
		l.log.Error(ctx, "failed to fetch profile", "error", err)
		return nil, err
	}

	if data.Profile.IsAdmin() {
		data.View = AdminView
		return &Page{Decision: dec, Data: data}, nil
	}

	if plans != nil {
		data.Plans = plans
	}
	if requests != nil {
		data.Requests = requests
	}
	if sent != nil {
		data.SentRequests = sent
	}
	return &Page{Decision: dec, Data: data}, nil
}

func section[T any](ctx context.Context, log logging.Logger, name string, fetch func(context.Context) ([]T, error)) []T {
	items, err := fetch(ctx)
	if err != nil {
		log.Warn(ctx, "dashboard section unavailable", "section", name, "error", err)
		return nil
	}
	return items
}
