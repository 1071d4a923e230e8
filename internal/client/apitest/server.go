// Package apitest runs an in-process fake of the travelmate REST service
// for tests of the client packages. It keeps just enough state (users,
// tokens, refresh cookies, plans, requests, reviews) to exercise the
// client's session handling, and exposes knobs to inject failures.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/client/models"
	"github.com/go-chi/chi/v5"
)

const (
	RefreshCookie = "refreshToken"
	prefix        = "/api"
)

// Recorded is one request the fake received.
type Recorded struct {
	Method        string
	Path          string // escaped
	Query         string
	Authorization string
}

type account struct {
	user     models.User
	password string
}

type Server struct {
	srv *httptest.Server

	mu        sync.Mutex
	seq       int
	accounts  map[string]*account // by email
	tokens    map[string]string   // access token -> user id
	refreshes map[string]string   // refresh cookie -> user id
	requests  []Recorded
	failures  map[string]int

	plans   []models.TravelPlan
	joins   []models.JoinRequest
	reviews []models.Review
	otpSent []string

	rejectNext   int
	rejectAlways bool
	failRefresh  bool
	refreshDelay time.Duration
	tokenTTL     time.Duration
}

// New starts the fake and registers its shutdown with t.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		accounts:  make(map[string]*account),
		tokens:    make(map[string]string),
		refreshes: make(map[string]string),
		failures:  make(map[string]int),
		tokenTTL:  DefaultTokenTTL,
	}
	s.srv = httptest.NewServer(s.routes())
	t.Cleanup(s.srv.Close)
	return s
}

// URL is the API base URL, including the /api prefix.
func (s *Server) URL() string {
	return s.srv.URL + prefix
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.record)

	r.Route(prefix, func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", s.register)
			r.Post("/login", s.login)
			r.Post("/logout", s.logout)
			r.Post("/refresh-token", s.refresh)
			r.Post("/send-otp", s.sendOTP)
			r.Post("/verify-email", s.verifyEmail)
			r.Post("/reset-password", s.ok)
			r.With(s.authenticated).Get("/me", s.me)
			r.With(s.authenticated).Post("/change-password", s.ok)
		})

		r.Group(func(r chi.Router) {
			r.Use(s.authenticated)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", s.listUsers)
				r.Get("/matches", s.listUsers)
				r.Get("/search", s.searchUsers)
				r.Get("/profile", s.me)
				r.Put("/profile", s.updateProfile)
				r.Post("/upload-image", s.uploadImage)
				r.Get("/{id}", s.getUser)
				r.Put("/{id}", s.updateProfile)
				r.Delete("/{id}", s.ok)
			})

			r.Route("/travel-plans", func(r chi.Router) {
				r.Get("/", s.listPlans(false))
				r.Get("/my", s.listPlans(true))
				r.Get("/search", s.listPlans(false))
				r.Post("/", s.createPlan)
				r.Get("/{id}", s.getPlan)
				r.Put("/{id}", s.getPlan)
				r.Put("/{id}/complete", s.completePlan)
				r.Delete("/{id}", s.ok)
			})

			r.Route("/join-requests", func(r chi.Router) {
				r.Get("/", s.listJoins)
				r.Get("/my", s.listJoins)
				r.Get("/for-my-plans", s.listJoins)
				r.Get("/plan/{id}", s.listJoins)
				r.Post("/", s.createJoin)
				r.Put("/{id}", s.respondJoin)
				r.Put("/{id}/respond", s.respondJoin)
				r.Delete("/{id}", s.ok)
			})

			r.Route("/reviews", func(r chi.Router) {
				r.Get("/", s.listReviews)
				r.Get("/user/{id}", s.listReviews)
				r.Post("/", s.createReview)
				r.Put("/{id}", s.createReview)
				r.Delete("/{id}", s.ok)
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/create-checkout-session", s.checkout)
				r.Post("/verify-session", s.verifyPayment)
			})
		})
	})
	return r
}

// ---- knobs and inspection ----

// AddUser creates an account directly and returns it.
func (s *Server) AddUser(name, email, password string, role models.Role) models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addUserLocked(name, email, password, role)
}

func (s *Server) addUserLocked(name, email, password string, role models.Role) models.User {
	s.seq++
	u := models.User{ID: fmt.Sprintf("u-%d", s.seq), Name: name, Email: email, Role: role, SubscriptionStatus: models.SubscriptionInactive}
	s.accounts[email] = &account{user: u, password: password}
	return u
}

// IssueToken mints a signed access token for userID without a login.
func (s *Server) IssueToken(userID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.issueLocked(userID)
}


// Expire revokes an access token as if it had timed out.
func (s *Server) Expire(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
}

// RejectNext makes the next n authenticated requests answer 401 even
// with a valid token.
func (s *Server) RejectNext(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectNext = n
}

func (s *Server) RejectAlways(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectAlways = v
}

// FailRefresh makes /auth/refresh-token answer 401.
func (s *Server) FailRefresh(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failRefresh = v
}

// SlowRefresh delays refresh answers so concurrent callers overlap.
func (s *Server) SlowRefresh(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshDelay = d
}

// Fail makes every request to method+path (path without the /api prefix)
// answer status with a body that carries no message.
func (s *Server) Fail(method, path string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[method+" "+prefix+path] = status
}

// Requests returns a copy of everything received so far.
func (s *Server) Requests() []Recorded {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Recorded(nil), s.requests...)
}

// Count returns how many requests hit method+path (without the /api prefix).
func (s *Server) Count(method, path string) int {
	n := 0
	for _, r := range s.Requests() {
		if r.Method == method && r.Path == prefix+path {
			n++
		}
	}
	return n
}

func (s *Server) OTPsSent() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.otpSent...)
}

func (s *Server) AddPlan(p models.TravelPlan) models.TravelPlan {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.ID == "" {
		s.seq++
		p.ID = fmt.Sprintf("p-%d", s.seq)
	}
	s.plans = append(s.plans, p)
	return p
}

func (s *Server) AddJoinRequest(j models.JoinRequest) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.joins = append(s.joins, j)
}

// ---- middleware ----

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Recorded{
			Method:        r.Method,
			Path:          r.URL.EscapedPath(),
			Query:         r.URL.RawQuery,
			Authorization: r.Header.Get("Authorization"),
		})
		status, fail := s.failures[r.Method+" "+r.URL.Path]
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]any{"success": false})
			return
		}
		next.ServeHTTP(w, r)
	})
}

type ctxUserKey struct{}

func (s *Server) authenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tok := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		userID, err := userIDFromToken(tok)

		s.mu.Lock()
		_, live := s.tokens[tok]
		ok := err == nil && live
		if s.rejectAlways {
			ok = false
		} else if ok && s.rejectNext > 0 {
			s.rejectNext--
			ok = false
		}
		s.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]any{"success": false, "message": "Unauthorized"})
			return
		}
		next.ServeHTTP(w, r.WithContext(withUser(r.Context(), userID)))
	})
}

// ---- helpers ----

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, map[string]any{"success": true, "data": data})
}

func (s *Server) userByIDLocked(id string) *account {
	for _, a := range s.accounts {
		if a.user.ID == id {
			return a
		}
	}
	return nil
}
