package llm_service

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind classifies upstream failures so the caller can decide
// between failing fast and retrying.
type ErrorKind int

const (
	KindAuth ErrorKind = iota
	KindRateLimited
	KindBadRequest
	KindUpstreamServer
	KindMalformedResponse
)

func (k ErrorKind) String() string {
	switch k {
	case KindAuth:
		return "auth_error"
	case KindRateLimited:
		return "rate_limited"
	case KindBadRequest:
		return "bad_request"
	case KindUpstreamServer:
		return "upstream_server_error"
	case KindMalformedResponse:
		return "malformed_response"
	default:
		return "unknown"
	}
}

// APIError is the normalized error shape for provider failures. The
// message never includes credentials.
type APIError struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s API error (%s, HTTP %d): %s", e.Provider, e.Kind, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error (%s): %s", e.Provider, e.Kind, e.Message)
}

// Retryable reports whether the failure class is worth another attempt.
func (e *APIError) Retryable() bool {
	return e.Kind == KindRateLimited || e.Kind == KindUpstreamServer
}

func classifyStatus(code int) ErrorKind {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return KindAuth
	case code == http.StatusTooManyRequests:
		return KindRateLimited
	case code >= 500:
		return KindUpstreamServer
	default:
		return KindBadRequest
	}
}

// IsKind reports whether err is an APIError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind == kind
	}
	return false
}

func isRetryable(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Retryable()
	}
	// Transport-level failures (timeouts, refused connections) are
	// treated like upstream server trouble.
	return true
}
