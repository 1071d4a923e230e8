package httpx

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dmitrijs2005/travelmate/internal/common"
	"github.com/dmitrijs2005/travelmate/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token() string { return string(s) }

type captured struct {
	method      string
	path        string
	auth        string
	contentType string
	requestID   string
	body        string
}

func newServer(t *testing.T, status int, respBody string, got *captured) *httptest.Server {
	t.Helper()
	r := chi.NewRouter()
	r.HandleFunc("/api/*", func(w http.ResponseWriter, req *http.Request) {
		b, _ := io.ReadAll(req.Body)
		*got = captured{
			method:      req.Method,
			path:        req.URL.RequestURI(),
			auth:        req.Header.Get("Authorization"),
			contentType: req.Header.Get("Content-Type"),
			requestID:   req.Header.Get("X-Request-ID"),
			body:        string(b),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, respBody)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Do_AttachesBearerAndHeaders(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{"ok":true}`, &got)

	c, err := New(srv.URL+"/api/", staticToken("tok-1"), logging.Discard())
	require.NoError(t, err)

	req, err := NewJSONRequest(http.MethodPost, "/reviews?x=1", map[string]int{"rating": 5})
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, resp.OK())
	assert.Equal(t, "tok-1", resp.Token)
	assert.Equal(t, http.MethodPost, got.method)
	assert.Equal(t, "/api/reviews?x=1", got.path)
	assert.Equal(t, "Bearer tok-1", got.auth)
	assert.Equal(t, "application/json", got.contentType)
	assert.NotEmpty(t, got.requestID)
	assert.JSONEq(t, `{"rating":5}`, got.body)
}

func TestClient_Do_NoTokenNoAuthorization(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{}`, &got)

	c, err := New(srv.URL+"/api", staticToken(""), logging.Discard())
	require.NoError(t, err)

	resp, err := c.Do(context.Background(), NewRequest(http.MethodGet, "/users"))
	require.NoError(t, err)
	assert.Empty(t, got.auth)
	assert.Empty(t, resp.Token)
}

func TestClient_Do_ReplayableBody(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{}`, &got)
	c, err := New(srv.URL+"/api", staticToken("t"), logging.Discard())
	require.NoError(t, err)

	req, err := NewJSONRequest(http.MethodPut, "/users/profile", map[string]string{"bio": "x"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.Do(context.Background(), req)
		require.NoError(t, err)
		assert.JSONEq(t, `{"bio":"x"}`, got.body)
	}
}

func TestClient_Do_TransportErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(url, staticToken(""), logging.Discard())
	require.NoError(t, err)

	_, err = c.Do(context.Background(), NewRequest(http.MethodGet, "/auth/me"))
	require.ErrorIs(t, err, common.ErrUnavailable)
}

func TestClient_Do_ContextCancelled(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusOK, `{}`, &got)
	c, err := New(srv.URL+"/api", staticToken(""), logging.Discard())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = c.Do(ctx, NewRequest(http.MethodGet, "/users"))
	require.ErrorIs(t, err, context.Canceled)
}

func TestNew_RejectsBadBaseURL(t *testing.T) {
	_, err := New("ftp://example.com", staticToken(""), logging.Discard())
	require.Error(t, err)

	_, err = New("://bad", staticToken(""), logging.Discard())
	require.Error(t, err)
}

func TestMultipartRequest_EncodesFieldsAndFiles(t *testing.T) {
	var got captured
	srv := newServer(t, http.StatusCreated, `{}`, &got)
	c, err := New(srv.URL+"/api", staticToken("t"), logging.Discard())
	require.NoError(t, err)

	form := &Form{}
	form.Add("destination", "Lisbon")
	form.AddFile("image", "pic.jpg", strings.NewReader("JPEGDATA"))

	req, err := NewMultipartRequest(http.MethodPost, "/travel-plans", form)
	require.NoError(t, err)

	_, err = c.Do(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(got.contentType, "multipart/form-data; boundary="))
	assert.Contains(t, got.body, `name="destination"`)
	assert.Contains(t, got.body, "Lisbon")
	assert.Contains(t, got.body, `filename="pic.jpg"`)
	assert.Contains(t, got.body, "JPEGDATA")
}

func TestResponse_Err(t *testing.T) {
	req := NewRequest(http.MethodPost, "/auth/login")

	tests := []struct {
		name     string
		status   int
		body     string
		wantMsg  string
		sentinel error
	}{
		{name: "remote message", status: 401, body: `{"message":"Invalid credentials"}`, wantMsg: "Invalid credentials", sentinel: common.ErrUnauthorized},
		{name: "error string field", status: 409, body: `{"error":"Email taken"}`, wantMsg: "Email taken", sentinel: common.ErrConflict},
		{name: "no message", status: 404, body: `{}`, wantMsg: "Login failed", sentinel: common.ErrNotFound},
		{name: "not json", status: 502, body: `<html>bad gateway</html>`, wantMsg: "Login failed", sentinel: common.ErrUnavailable},
		{name: "forbidden", status: 403, body: ``, wantMsg: "Login failed", sentinel: common.ErrForbidden},
		{name: "validation", status: 422, body: `{"message":"email required"}`, wantMsg: "email required", sentinel: common.ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &Response{StatusCode: tt.status, Body: []byte(tt.body)}
			err := resp.Err(req, "Login failed")

			assert.EqualError(t, err, tt.wantMsg)
			assert.ErrorIs(t, err, tt.sentinel)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.StatusCode)
			assert.Equal(t, "/auth/login", apiErr.Path)
		})
	}
}

func TestAPIError_UnknownStatusHasNoSentinel(t *testing.T) {
	err := &APIError{StatusCode: 418, Message: "teapot"}
	assert.Nil(t, err.Unwrap())
}

func TestResponse_Decode(t *testing.T) {
	type plan struct {
		ID string `json:"id"`
	}

	t.Run("bare object", func(t *testing.T) {
		var p plan
		require.NoError(t, (&Response{Body: []byte(`{"id":"p1"}`)}).Decode(&p))
		assert.Equal(t, "p1", p.ID)
	})

	t.Run("envelope", func(t *testing.T) {
		var ps []plan
		require.NoError(t, (&Response{Body: []byte(`{"success":true,"data":[{"id":"a"},{"id":"b"}]}`)}).Decode(&ps))
		assert.Len(t, ps, 2)
	})

	t.Run("bare array", func(t *testing.T) {
		var ps []plan
		require.NoError(t, (&Response{Body: []byte(`[{"id":"a"}]`)}).Decode(&ps))
		assert.Equal(t, []plan{{ID: "a"}}, ps)
	})

	t.Run("data field without envelope marker is kept", func(t *testing.T) {
		var v struct {
			Data string `json:"data"`
		}
		require.NoError(t, (&Response{Body: []byte(`{"data":"raw"}`)}).Decode(&v))
		assert.Equal(t, "raw", v.Data)
	})

	t.Run("empty body", func(t *testing.T) {
		var p plan
		require.NoError(t, (&Response{Body: nil}).Decode(&p))
	})

	t.Run("invalid json", func(t *testing.T) {
		var p plan
		require.Error(t, (&Response{Body: []byte(`{`)}).Decode(&p))
	})
}

func TestFallbackMessage(t *testing.T) {
	assert.Equal(t, "GET /users/matches failed", FallbackMessage(http.MethodGet, "/users/matches"))
}
