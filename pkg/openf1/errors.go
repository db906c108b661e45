package openf1

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnknownEndpoint    = errors.New("invalid API endpoint")
	ErrUnknownParameter   = errors.New("invalid parameter for the endpoint")
	ErrInvalidOperator    = errors.New("invalid filter operator")
	ErrUnexpectedResponse = errors.New("unexpected response body")
	ErrMissingDateRange   = errors.New("at least one of from or to is required")
)

// RemoteError is returned for every response with a non-2xx status code.
type RemoteError struct {
	Endpoint   string
	URL        string
	StatusCode int
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("error fetching %s: %s (%d)", e.Endpoint, statusText(e.StatusCode), e.StatusCode)
}

// Temporary reports whether another attempt may succeed.
func (e *RemoteError) Temporary() bool {
	switch e.StatusCode {
	case http.StatusRequestTimeout,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

func statusText(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "Bad request"
	case http.StatusUnauthorized:
		return "Unauthorized"
	case http.StatusForbidden:
		return "Forbidden"
	case http.StatusRequestTimeout:
		return "Request timeout"
	case http.StatusInternalServerError:
		return "Internal server error"
	case http.StatusBadGateway:
		return "Bad gateway"
	case http.StatusServiceUnavailable:
		return "Service unavailable"
	case http.StatusGatewayTimeout:
		return "Gateway timeout"
	case http.StatusNetworkAuthenticationRequired:
		return "Network authentication required"
	default:
		return "Unexpected status code"
	}
}
