package gateway

import "fmt"

// The gateway classifies every failed call into exactly one of four error
// types so callers can branch without string matching: TimeoutError (the
// absolute deadline fired), NetworkError (no usable connection), AuthError
// (the server rejected the credentials), HTTPError (any other failure
// status).

// TimeoutError reports a call that exceeded the absolute request deadline.
type TimeoutError struct {
	Operation string
}

// Error implements the error interface
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("gateway: %s timed out", e.Operation)
}

// NetworkError reports a call that never reached the server.
type NetworkError struct {
	Operation string
	Err       error
}

// Error implements the error interface
func (e *NetworkError) Error() string {
	return fmt.Sprintf("gateway: %s network failure: %v", e.Operation, e.Err)
}

// Unwrap returns the underlying transport error
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HTTPError reports a response with a failure status.
type HTTPError struct {
	Operation string
	Status    int
	Body      string
}

// Error implements the error interface
func (e *HTTPError) Error() string {
	return fmt.Sprintf("gateway: %s returned HTTP %d", e.Operation, e.Status)
}

// AuthError reports a credential rejection (HTTP 401). It is kept distinct
// from HTTPError so sign-in flows can branch on it.
type AuthError struct {
	Operation string
	Message   string
}

// Error implements the error interface
func (e *AuthError) Error() string {
	return fmt.Sprintf("gateway: %s unauthorized: %s", e.Operation, e.Message)
}

// outcome labels the error class for metrics.
func outcome(err error) string {
	switch err.(type) {
	case nil:
		return "ok"
	case *TimeoutError:
		return "timeout"
	case *NetworkError:
		return "network"
	case *AuthError:
		return "auth"
	case *HTTPError:
		return "http"
	default:
		return "other"
	}
}
