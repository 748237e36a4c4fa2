package geoproc

import (
	"errors"
	"fmt"
)

// TransportError reports a failure reaching the geoprocessing service:
// a network error, a timeout, a non-2xx HTTP status, or an undecodable
// response body. Transport errors are retryable; the executor surfaces
// them only after retry exhaustion, with Attempts filled in.
type TransportError struct {
	// Message is safe to log and show to users.
	Message string

	// StatusCode is the HTTP status if the service responded, zero for
	// network-level failures.
	StatusCode int

	// Attempts is the number of attempts made before the error was
	// surfaced. Zero while the error is still inside the retry loop.
	Attempts int

	// Cause is the underlying error, if any.
	Cause error
}

func (e *TransportError) Error() string {
	if e.Attempts > 0 {
		return fmt.Sprintf("geoprocessing service unreachable after %d attempts: %s", e.Attempts, e.Message)
	}
	return fmt.Sprintf("geoprocessing service error: %s", e.Message)
}

// Unwrap returns the underlying error for error chain inspection.
func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ApplicationError reports an algorithm-level failure: the HTTP exchange
// succeeded but the service returned an envelope with success=false.
// Application errors are never retried.
type ApplicationError struct {
	// Message is the remote-supplied error message, verbatim.
	Message string

	// Code is the optional remote error code.
	Code string
}

func (e *ApplicationError) Error() string {
	return e.Message
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// IsApplicationError reports whether err is (or wraps) an ApplicationError.
func IsApplicationError(err error) bool {
	var ae *ApplicationError
	return errors.As(err, &ae)
}

// retryable reports whether the retry executor may repeat the operation
// after err. Transport failures retry; application-level failures and
// anything else classified by send do not get a second round trip unless
// it is transport-shaped.
func retryable(err error) bool {
	var ae *ApplicationError
	return !errors.As(err, &ae)
}
