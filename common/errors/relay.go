package errors

import (
	"fmt"

	"github.com/pkg/errors"
)

// RelayErrorCode is the stable discriminator carried by relay failures.
type RelayErrorCode string

const (
	// CodeSubmitTxFailed means the relay rejected or never acknowledged the submission.
	CodeSubmitTxFailed RelayErrorCode = "SUBMIT_TX_FAILED"
	// CodeTimeout means execution was not observed before the caller's deadline.
	// The relay may still complete the packet later; this is not an on-chain failure.
	CodeTimeout RelayErrorCode = "TIMEOUT"
	// CodeUnknown covers everything else.
	CodeUnknown RelayErrorCode = "UNKNOWN"
)

// RelayError is returned by I/O-bound relay operations so callers can branch on Code.
type RelayError struct {
	Code  RelayErrorCode
	Cause error
}

// NewRelayError creates a relay error with the given code and cause.
func NewRelayError(code RelayErrorCode, cause error) *RelayError {
	return &RelayError{Code: code, Cause: cause}
}

func (e *RelayError) Error() string {
	if e.Cause == nil {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %v", e.Code, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RelayError) Unwrap() error {
	return e.Cause
}

// RelayCode extracts the relay error code from err, or CodeUnknown when err is not a relay error.
func RelayCode(err error) RelayErrorCode {
	var relayErr *RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Code
	}
	return CodeUnknown
}

// IsTimeout reports whether err is a relay timeout.
func IsTimeout(err error) bool {
	var relayErr *RelayError
	return errors.As(err, &relayErr) && relayErr.Code == CodeTimeout
}
