package httpx

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/travelmate/internal/common"
)

// APIError is a non-2xx answer from the service. Message is the service's
// own message when it sent one, otherwise the caller's fallback text.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Unwrap maps the status code onto the common sentinels so callers can
// use errors.Is(err, common.ErrUnauthorized) and friends.
func (e *APIError) Unwrap() error {
	switch {
	case e.StatusCode == http.StatusUnauthorized:
		return common.ErrUnauthorized
	case e.StatusCode == http.StatusForbidden:
		return common.ErrForbidden
	case e.StatusCode == http.StatusNotFound:
		return common.ErrNotFound
	case e.StatusCode == http.StatusConflict:
		return common.ErrConflict
	case e.StatusCode == http.StatusBadRequest, e.StatusCode == http.StatusUnprocessableEntity:
		return common.ErrBadRequest
	case e.StatusCode >= 500:
		return common.ErrUnavailable
	}
	return nil
}

// remoteMessage extracts "message" (or "error") from a JSON error body.
func remoteMessage(body []byte) string {
	var payload struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	if m := strings.TrimSpace(payload.Message); m != "" {
		return m
	}
	if s, ok := payload.Error.(string); ok {
		return strings.TrimSpace(s)
	}
	return ""
}

// FallbackMessage is the text used when the service gives no message.
func FallbackMessage(method, path string) string {
	return fmt.Sprintf("%s %s failed", method, path)
}
