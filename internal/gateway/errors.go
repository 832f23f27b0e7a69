package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// FallbackMessage is shown when a failure carries no usable message.
const FallbackMessage = "unexpected server error"

// errorPayload is the error body produced by the backend. Security rejections
// (401/403) only carry Error.
type errorPayload struct {
	Status  int      `json:"status"`
	Message string   `json:"message"`
	Details []string `json:"details"`
	Error   string   `json:"error"`
}

// APIError is a response from the backend with a non-2xx status.
type APIError struct {
	StatusCode int
	Message    string
	Details    []string
}

// Error prefers the first detail, then the message, then the status line.
func (e *APIError) Error() string {
	if len(e.Details) > 0 && e.Details[0] != "" {
		return e.Details[0]
	}
	if e.Message != "" {
		return e.Message
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("request failed with status code %d", e.StatusCode)
	}
	return FallbackMessage
}

// IsBusiness reports whether the backend returned validation details.
func (e *APIError) IsBusiness() bool {
	return len(e.Details) > 0
}

// TransportError is a request that never produced a response.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

// IsNotFound reports whether err is a 404 from the backend.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// IsUnauthorized reports whether the backend rejected the credentials.
func IsUnauthorized(err error) bool {
	code := StatusCode(err)
	return code == http.StatusUnauthorized || code == http.StatusForbidden
}

// Message turns err into text suitable for a notification.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	var tErr *TransportError
	if errors.As(err, &tErr) {
		return "unable to reach the server"
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return FallbackMessage
}
