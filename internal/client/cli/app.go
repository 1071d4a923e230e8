package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/url"
	"os"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/api"
	"github.com/dmitrijs2005/travelmate/internal/client/auth"
	"github.com/dmitrijs2005/travelmate/internal/client/authstate"
	"github.com/dmitrijs2005/travelmate/internal/client/config"
	"github.com/dmitrijs2005/travelmate/internal/client/dashboard"
	"github.com/dmitrijs2005/travelmate/internal/client/guard"
	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/session"
	"github.com/dmitrijs2005/travelmate/internal/client/storage"
	"github.com/dmitrijs2005/travelmate/internal/logging"
)

// refreshLeeway is how close to expiry a held token may get before
// commands refresh it ahead of the request.
const refreshLeeway = 30 * time.Second

type App struct {
	config *config.Config
	log    logging.Logger

	auth      *auth.Client
	api       *api.Client
	state     *authstate.Provider
	dashboard *dashboard.Loader

	db     *sql.DB
	reader *bufio.Reader
	out    io.Writer
}

// NewApp opens the state database at cfg.StateDBPath and builds an App on
// top of it.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := storage.InitDatabase(ctx, c.StateDBPath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	a, err := newApp(ctx, c, session.NewMetadataStore(db, c.TokenPassphrase), log)
	if err != nil {
		db.Close()
		return nil, err
	}
	a.db = db
	return a, nil
}

func newApp(ctx context.Context, c *config.Config, store session.Store, log logging.Logger) (*App, error) {
	sess := session.New(store, log)
	if err := sess.Load(ctx); err != nil {
		log.Warn(ctx, "saved session unavailable, starting signed out", "error", err)
	}

	origin, err := url.Parse(c.APIURL)
	if err != nil {
		return nil, fmt.Errorf("parse api url: %w", err)
	}
	jar, err := session.NewJar(ctx, origin, store, log)
	if err != nil {
		return nil, fmt.Errorf("load cookies: %w", err)
	}

	h, err := httpx.New(c.APIURL, sess, log, httpx.WithJar(jar), httpx.WithTimeout(c.RequestTimeout))
	if err != nil {
		return nil, err
	}

	authClient := auth.New(h, sess, log, auth.WithCookies(jar))
	apiClient := api.New(h, sess, authClient, log, api.WithProactiveRefresh(refreshLeeway))

	return &App{
		config:    c,
		log:       log,
		auth:      authClient,
		api:       apiClient,
		state:     authstate.New(authClient, log),
		dashboard: dashboard.NewLoader(apiClient, log),
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}, nil
}

// Run resolves the saved session and runs the REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to TravelMate CLI (type 'help' for commands)")
	a.state.Init(ctx)
	if st := a.state.State(); st.SignedIn() {
		fmt.Fprintf(a.out, "Signed in as %s\n", st.User.Name)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.log.Error(context.Background(), "closing state database", "error", err)
		}
	}
}

func (a *App) isLoggedIn() bool {
	return a.state.State().SignedIn()
}

func (a *App) getStatus() string {
	st := a.state.State()
	if !st.SignedIn() {
		return "(guest)"
	}
	return fmt.Sprintf("(%s)", st.User.Name)
}

// protect applies the route guard before a command runs. A signed-out
// user is redirected to the login prompt; the command proceeds only if
// that login succeeds.
func (a *App) protect(ctx context.Context, route string) bool {
	dec := guard.Check(route, a.state.State())
	if dec.Action == guard.Wait {
		a.state.Init(ctx)
		dec = guard.Check(route, a.state.State())
	}

	switch dec.Action {
	case guard.Allow:
		return true
	case guard.Redirect:
		fmt.Fprintf(a.out, "%s requires login, redirecting to %s\n", route, dec.Target)
		if err := a.Login(ctx); err != nil {
			return false
		}
		return guard.Check(route, a.state.State()).Action == guard.Allow
	}
	return false
}

// fail logs err, shows it to the user and returns it.
func (a *App) fail(ctx context.Context, what string, err error) error {
	a.log.Error(ctx, what, "error", err)
	fmt.Fprintf(a.out, "Error: %v\n", err)
	return err
}
