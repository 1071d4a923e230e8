package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"time"

	"github.com/dmitrijs2005/travelmate/internal/logging"
	"golang.org/x/net/publicsuffix"
)

const jarSaveTimeout = 3 * time.Second

type storedCookie struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Jar is an http.CookieJar for a single service origin whose contents
// survive restarts. Only name and value are kept; the service re-issues
// attributes on its next Set-Cookie.
type Jar struct {
	mu    sync.Mutex
	inner *cookiejar.Jar

	origin *url.URL
	store  Store
	log    logging.Logger
}

func newCookieJar() *cookiejar.Jar {
	// cookiejar.New never returns an error.
	j, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return j
}

// NewJar builds a jar for origin and seeds it from store.
func NewJar(ctx context.Context, origin *url.URL, store Store, log logging.Logger) (*Jar, error) {
	j := &Jar{inner: newCookieJar(), origin: origin, store: store, log: log}

	raw, err := store.LoadBlob(ctx, j.key())
	if err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return j, nil
	}

	var saved []storedCookie
	if err := json.Unmarshal(raw, &saved); err != nil {
		log.Warn(ctx, "ignoring unreadable cookie jar", "error", err)
		return j, nil
	}

	cookies := make([]*http.Cookie, 0, len(saved))
	for _, c := range saved {
		cookies = append(cookies, &http.Cookie{Name: c.Name, Value: c.Value, Path: "/"})
	}
	j.inner.SetCookies(origin, cookies)
	return j, nil
}

func (j *Jar) key() string {
	return "cookies:" + j.origin.Host
}

func (j *Jar) SetCookies(u *url.URL, cookies []*http.Cookie) {
	j.mu.Lock()
	j.inner.SetCookies(u, cookies)
	current := j.inner.Cookies(j.origin)
	j.mu.Unlock()

	saved := make([]storedCookie, 0, len(current))
	for _, c := range current {
		saved = append(saved, storedCookie{Name: c.Name, Value: c.Value})
	}
	raw, err := json.Marshal(saved)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), jarSaveTimeout)
	defer cancel()
	if err := j.store.SaveBlob(ctx, j.key(), raw); err != nil {
		j.log.Warn(ctx, "persisting cookies failed", "error", err)
	}
}

func (j *Jar) Cookies(u *url.URL) []*http.Cookie {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.inner.Cookies(u)
}

// Reset forgets every cookie in memory. Persisted cookies are removed by
// Session.Wipe.
func (j *Jar) Reset() {
	j.mu.Lock()
	j.inner = newCookieJar()
	j.mu.Unlock()
}
