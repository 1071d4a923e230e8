// Package common contains shared constants and sentinel errors used across
// travelmate client components.
package common

const (
	// AccessTokenKey is the fixed local-storage key the access token is
	// mirrored under.
	AccessTokenKey = "accessToken"

	// AuthorizationHeader carries the bearer access token on outbound requests.
	AuthorizationHeader = "Authorization"

	// BearerPrefix precedes the token in AuthorizationHeader.
	BearerPrefix = "Bearer "

	// RequestIDHeader correlates client logs with server logs.
	RequestIDHeader = "X-Request-ID"

	// LoginPath is where unauthenticated users are sent.
	LoginPath = "/login"
)
