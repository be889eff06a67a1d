package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the requested entity is absent both locally
// and remotely. Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by the server service layer when input fails
// business rule validation (e.g. missing destination, end date before
// start date). Handlers should map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrNetworkUnavailable is returned by the gateway when no connectivity is
// available at call time (dial failure, connection reset, DNS error).
var ErrNetworkUnavailable = errors.New("network unavailable")

// ErrTimeout is returned by the gateway when a remote call exceeds its
// deadline. For retry purposes it is equivalent to a remote rejection:
// the pending record stays queued for the next cycle.
var ErrTimeout = errors.New("remote call timed out")

// ErrStorage wraps local persistence failures. It is the only error class
// the reconciliation engine lets propagate to callers as a hard failure,
// since there is no fallback below local storage.
var ErrStorage = errors.New("storage failure")

// RemoteError reports a reachable server that returned a non-success
// status. The body is retained (truncated by the gateway) for logging.
type RemoteError struct {
	StatusCode int
	Body       string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote rejected: status %d", e.StatusCode)
}
