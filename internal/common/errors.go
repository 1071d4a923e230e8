// Package common defines shared constants and sentinel errors used across
// the session, transport and CLI layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable = errors.New("service unavailable")

	// Remote status errors, matched through httpx.APIError.
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrBadRequest   = errors.New("bad request")

	// Token lifecycle errors.
	ErrNoToken       = errors.New("no access token")
	ErrRefreshFailed = errors.New("token refresh failed")
	ErrInvalidToken  = errors.New("invalid token")

	// Local state errors.
	ErrLocalDataNotAvailable = errors.New("local data unavailable")
	ErrValidation            = errors.New("validation error")
)
