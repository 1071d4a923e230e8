// Package session owns the client's authentication state.
//
// # Overview
//
// A Session holds exactly one bearer access token in memory and mirrors
// every change to a Store, so a restarted client resumes where it left off.
// It is created once at start-up and passed explicitly to the transport,
// auth and api layers; there is no package-level instance.
//
// Refresh coalesces concurrent refresh attempts: every caller that asks for
// a refresh while one is in flight waits for and shares its result. A failed
// refresh clears the token.
//
// Jar is the cookie jar used for the service's cookie credentials. It is
// persisted through the same Store, keyed by host.
//
// Claims decodes the token payload when the service issues JWTs. The
// signature is not verified; the client has no key and uses the claims only
// to learn the subject and expiry.
package session
