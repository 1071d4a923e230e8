// Package guard decides whether a route may be shown for the current
// auth state.
package guard

import (
	"strings"

	"github.com/dmitrijs2005/travelmate/internal/client/authstate"
	"github.com/dmitrijs2005/travelmate/internal/common"
)

// ProtectedPrefixes are the route prefixes that need a signed-in user.
var ProtectedPrefixes = []string{"/dashboard", "/profile", "/travel-plans"}

type Action int

const (
	// Wait means the auth state is still loading.
	Wait Action = iota
	Allow
	Redirect
)

func (a Action) String() string {
	switch a {
	case Wait:
		return "wait"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	}
	return "unknown"
}

// Decision is the outcome of Check. Target is set for Redirect.
type Decision struct {
	Action Action
	Target string
}

// Protected reports whether path starts with one of ProtectedPrefixes.
func Protected(path string) bool {
	for _, p := range ProtectedPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func Check(path string, st authstate.State) Decision {
	switch {
	case st.Loading:
		return Decision{Action: Wait}
	case !st.SignedIn() && Protected(path):
		return Decision{Action: Redirect, Target: common.LoginPath}
	default:
		return Decision{Action: Allow}
	}
}
