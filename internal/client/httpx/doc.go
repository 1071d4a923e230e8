// Package httpx is the request plumbing shared by the auth and api
// clients: base-URL resolution, bearer and cookie credentials, request
// ids, buffered bodies that can be replayed, and decoding of the service's
// JSON payloads and error messages.
//
// Client.Do performs exactly one round trip; retry policy lives in the
// callers.
package httpx
