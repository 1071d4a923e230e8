package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/apitest"
	"github.com/dmitrijs2005/travelmate/internal/client/config"
	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/dmitrijs2005/travelmate/internal/client/session"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	*App
	fake  *apitest.Server
	store *session.MemoryStore
	out   *bytes.Buffer
}

func stubPassword(t *testing.T, passwords ...string) {
	t.Helper()
	orig := getPassword
	i := 0
	getPassword = func(_ io.Writer, _ string) ([]byte, error) {
		pw := passwords[i%len(passwords)]
		i++
		return []byte(pw), nil
	}
	t.Cleanup(func() { getPassword = orig })
}

func newTestApp(t *testing.T, fake *apitest.Server, store *session.MemoryStore) *testApp {
	t.Helper()
	if fake == nil {
		fake = apitest.New(t)
	}
	if store == nil {
		store = session.NewMemoryStore()
	}

	cfg := &config.Config{APIURL: fake.URL(), RequestTimeout: 5 * time.Second}
	a, err := newApp(context.Background(), cfg, store, logging.Discard())
	require.NoError(t, err)

	out := &bytes.Buffer{}
	a.out = out
	a.state.Init(context.Background())
	return &testApp{App: a, fake: fake, store: store, out: out}
}

// input replaces the app's reader with the given lines.
func (ta *testApp) input(lines ...string) {
	ta.reader = bufio.NewReader(strings.NewReader(strings.Join(lines, "\n") + "\n"))
}

func TestApp_LoginAndLogout(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	ctx := context.Background()

	assert.Equal(t, "(guest)", ta.getStatus())

	ta.input("ana@example.com")
	require.NoError(t, ta.Login(ctx))
	assert.Contains(t, ta.out.String(), "Welcome, Ana!")
	assert.Equal(t, "(Ana)", ta.getStatus())

	tok, err := ta.store.LoadToken(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tok)

	require.NoError(t, ta.Logout(ctx))
	assert.False(t, ta.isLoggedIn())
	tok, err = ta.store.LoadToken(ctx)
	require.NoError(t, err)
	assert.Empty(t, tok)
}

func TestApp_LoginFailureIsReported(t *testing.T) {
	stubPassword(t, "wrong")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)

	ta.input("ana@example.com")
	err := ta.Login(context.Background())

	require.Error(t, err)
	assert.Contains(t, ta.out.String(), "Error: Invalid email or password")
	assert.False(t, ta.isLoggedIn())
}

func TestApp_RestoresSavedSession(t *testing.T) {
	fake := apitest.New(t)
	u := fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	store := session.NewMemoryStore()
	require.NoError(t, store.SaveToken(context.Background(), fake.IssueToken(u.ID)))

	ta := newTestApp(t, fake, store)

	assert.True(t, ta.isLoggedIn())
	assert.Equal(t, "(Ana)", ta.getStatus())
}

func TestApp_DashboardRedirectsToLogin(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	u := ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	ta.fake.AddPlan(models.TravelPlan{UserID: u.ID, Destination: "Oslo", Status: models.PlanPlanned})

	ta.input("ana@example.com")
	require.NoError(t, ta.Dashboard(context.Background()))

	out := ta.out.String()
	assert.Contains(t, out, "/dashboard requires login, redirecting to /login")
	assert.Contains(t, out, "Welcome, Ana!")
	assert.Contains(t, out, "Oslo")
}

func TestApp_DashboardStaysClosedWhenLoginFails(t *testing.T) {
	stubPassword(t, "wrong")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)

	ta.input("ana@example.com")
	require.NoError(t, ta.Dashboard(context.Background()))

	assert.Equal(t, 0, ta.fake.Count(http.MethodGet, "/users/profile"))
}

func TestApp_NewPlanCompleteAndRespond(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	ctx := context.Background()

	img := filepath.Join(t.TempDir(), "fjord.jpg")
	require.NoError(t, os.WriteFile(img, []byte("jpeg"), 0o600))

	ta.input(
		"ana@example.com",
		"Bergen", "2026-06-01", "2026-06-10", "FRIENDS",
		"900",
		"Fjords and hiking", "",
		img,
	)
	require.NoError(t, ta.NewPlan(ctx))
	assert.Contains(t, ta.out.String(), "Created plan p-")

	plans := ta.fake.Count(http.MethodPost, "/travel-plans")
	assert.Equal(t, 1, plans)

	ta.out.Reset()
	require.NoError(t, ta.Plans(ctx))
	assert.Contains(t, ta.out.String(), "Bergen")

	ta.fake.AddJoinRequest(models.JoinRequest{ID: "j-7", Status: models.JoinPending})
	ta.out.Reset()
	require.NoError(t, ta.Respond(ctx, "j-7", "accepted"))
	assert.Contains(t, ta.out.String(), "Request j-7 is now ACCEPTED")

	ta.out.Reset()
	assert.Error(t, ta.Respond(ctx, "j-7", "maybe"))
}

func TestApp_NewPlanRejectsBadBudget(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)

	ta.input("ana@example.com", "Bergen", "", "", "", "lots")
	assert.Error(t, ta.NewPlan(context.Background()))
	assert.Equal(t, 0, ta.fake.Count(http.MethodPost, "/travel-plans"))
}

func TestApp_SubscribeAndVerifyPayment(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	ctx := context.Background()

	ta.input("ana@example.com")
	require.NoError(t, ta.Login(ctx))

	require.NoError(t, ta.Subscribe(ctx, "Monthly"))
	assert.Contains(t, ta.out.String(), "https://pay.travelmate.test/cs_monthly")

	require.NoError(t, ta.VerifyPayment(ctx, "cs_monthly"))
	assert.True(t, ta.state.State().User.HasActiveSubscription())

	assert.Error(t, ta.Subscribe(ctx, "weekly"))
}

func TestApp_ReviewAndSearch(t *testing.T) {
	stubPassword(t, "secret")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	bo := ta.fake.AddUser("Bo", "bo@example.com", "pw", models.RoleUser)
	ctx := context.Background()

	ta.input("ana@example.com", bo.ID, "", "4", "Great company", "")
	require.NoError(t, ta.Login(ctx))
	require.NoError(t, ta.Review(ctx))

	ta.out.Reset()
	require.NoError(t, ta.Reviews(ctx, bo.ID))
	assert.Contains(t, ta.out.String(), "**** ")
	assert.Contains(t, ta.out.String(), "Great company")

	ta.out.Reset()
	require.NoError(t, ta.Search(ctx, "bo #hiking"))
	assert.Contains(t, ta.out.String(), "Bo")
	reqs := ta.fake.Requests()
	assert.Contains(t, reqs[len(reqs)-1].Query, "interests=hiking")
}

func TestApp_AccountFlows(t *testing.T) {
	stubPassword(t, "secret", "secret2")
	ta := newTestApp(t, nil, nil)
	ta.fake.AddUser("Ana", "ana@example.com", "secret", models.RoleUser)
	ctx := context.Background()

	ta.input("ana@example.com", "ana@example.com", "123456")
	require.NoError(t, ta.SendOTP(ctx))
	require.NoError(t, ta.VerifyEmail(ctx))
	assert.Equal(t, []string{"ana@example.com"}, ta.fake.OTPsSent())
	assert.Contains(t, ta.out.String(), "Email verified.")

	ta.input("ana@example.com")
	require.NoError(t, ta.Login(ctx))
	require.NoError(t, ta.ChangePassword(ctx))
	assert.Contains(t, ta.out.String(), "Password changed.")
}
