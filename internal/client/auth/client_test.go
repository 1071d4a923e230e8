package auth

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/apitest"
	"github.com/dmitrijs2005/travelmate/internal/client/httpx"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/client/session"
	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	api     *apitest.Server
	store   *session.MemoryStore
	session *session.Session
	client  *Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	log := logging.Discard()

	api := apitest.New(t)
	store := session.NewMemoryStore()
	sess := session.New(store, log)

	origin, err := url.Parse(api.URL())
	require.NoError(t, err)
	jar, err := session.NewJar(ctx, origin, store, log)
	require.NoError(t, err)

	h, err := httpx.New(api.URL(), sess, log, httpx.WithJar(jar))
	require.NoError(t, err)

	return &fixture{api: api, store: store, session: sess, client: New(h, sess, log, WithCookies(jar))}
}

func (f *fixture) login(t *testing.T) models.User {
	t.Helper()
	u := f.api.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	_, err := f.client.Login(context.Background(), models.LoginInput{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)
	return u
}

func TestLogin_StoresIssuedToken(t *testing.T) {
	f := newFixture(t)
	f.api.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)

	resp, err := f.client.Login(context.Background(), models.LoginInput{Email: "ana@example.com", Password: "secret"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	require.NotNil(t, resp.User)
	assert.Equal(t, "Ana", resp.User.Name)
	assert.Equal(t, resp.AccessToken, f.session.Token())

	persisted, err := f.store.LoadToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, resp.AccessToken, persisted)
}

func TestLogin_TokenClaimsIdentifyUser(t *testing.T) {
	f := newFixture(t)
	u := f.login(t)

	claims, err := f.session.Claims()
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.Subject)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.False(t, claims.Expired(time.Now(), 0))
}

func TestLogin_BadCredentialsUsesRemoteMessage(t *testing.T) {
	f := newFixture(t)
	f.api.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)

	_, err := f.client.Login(context.Background(), models.LoginInput{Email: "ana@example.com", Password: "nope"})
	require.Error(t, err)

	assert.EqualError(t, err, "Invalid email or password")
	assert.True(t, errors.Is(err, common.ErrUnauthorized))
	assert.False(t, f.session.HasToken())
}

func TestLogin_FallbackMessageWhenBodyHasNone(t *testing.T) {
	f := newFixture(t)
	f.api.Fail(http.MethodPost, "/auth/login", http.StatusBadGateway)

	_, err := f.client.Login(context.Background(), models.LoginInput{Email: "a@b.c", Password: "x"})
	require.Error(t, err)

	var apiErr *httpx.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.ErrorIs(t, err, common.ErrUnavailable)
}

func TestRegister_SetsTokenAndRejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	in := models.RegisterInput{Name: "Bo", Email: "bo@example.com", Password: "pw"}

	resp, err := f.client.Register(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, resp.AccessToken, f.session.Token())

	_, err = f.client.Register(ctx, in)
	require.Error(t, err)
	assert.EqualError(t, err, "User already exists")
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestLogout_ClearsTokenAndLaterRequestsAreAnonymous(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	ctx := context.Background()

	require.NoError(t, f.client.Logout(ctx))

	assert.False(t, f.session.HasToken())
	persisted, err := f.store.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, persisted)

	_, err = f.client.Me(ctx)
	require.Error(t, err)

	var me *apitest.Recorded
	for _, r := range f.api.Requests() {
		if r.Path == "/api/auth/me" {
			me = &r
		}
	}
	require.NotNil(t, me)
	assert.Empty(t, me.Authorization)
}

func TestLogout_ClearsLocalStateWhenServiceFails(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.Fail(http.MethodPost, "/auth/logout", http.StatusInternalServerError)

	require.NoError(t, f.client.Logout(context.Background()))
	assert.False(t, f.session.HasToken())
}

func TestMe_ReturnsUser(t *testing.T) {
	f := newFixture(t)
	u := f.login(t)

	got, err := f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, 0, f.api.Count(http.MethodPost, "/auth/refresh-token"))
}

func TestMe_RefreshesOnceAndRetries(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	old := f.session.Token()
	f.api.Expire(old)

	got, err := f.client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)

	assert.NotEqual(t, old, f.session.Token())
	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/auth/refresh-token"))
	assert.Equal(t, 2, f.api.Count(http.MethodGet, "/auth/me"))
}

func TestMe_SecondUnauthorizedIsSurfaced(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.RejectAlways(true)

	_, err := f.client.Me(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, common.ErrUnauthorized)
	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/auth/refresh-token"))
	assert.Equal(t, 2, f.api.Count(http.MethodGet, "/auth/me"))
}

func TestMe_RefreshFailureClearsSession(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.Expire(f.session.Token())
	f.api.FailRefresh(true)

	_, err := f.client.Me(context.Background())
	require.Error(t, err)

	assert.ErrorIs(t, err, common.ErrRefreshFailed)
	assert.False(t, f.session.HasToken())
	assert.Equal(t, 1, f.api.Count(http.MethodGet, "/auth/me"))
}

func TestRefresh_ConcurrentCallersShareOneRequest(t *testing.T) {
	f := newFixture(t)
	f.login(t)
	f.api.SlowRefresh(100 * time.Millisecond)

	const n = 8
	tokens := make([]string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tok, err := f.client.Refresh(context.Background())
			assert.NoError(t, err)
			tokens[i] = tok
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, f.api.Count(http.MethodPost, "/auth/refresh-token"))
	for _, tok := range tokens {
		assert.Equal(t, f.session.Token(), tok)
	}
}
