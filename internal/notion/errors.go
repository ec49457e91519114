package notion

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("notion API returned status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("notion API returned status %d (%s): %s", e.Status, e.Code, e.Message)
}

// TransportError is a failure below HTTP: dial, TLS, timeout or a broken
// response body.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransient reports whether retrying the same request may succeed.
// Transport failures are transient unless the caller cancelled; of the HTTP
// errors only rate limiting and gateway failures are.
func IsTransient(err error) bool {
	var te *TransportError
	if errors.As(err, &te) {
		return !errors.Is(err, context.Canceled)
	}
	var ae *APIError
	if errors.As(err, &ae) {
		switch ae.Status {
		case http.StatusTooManyRequests, http.StatusBadGateway,
			http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return true
		}
	}
	return false
}
