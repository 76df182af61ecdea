package fusioo

import (
	"errors"
	"fmt"
	"time"
)

// AuthError means the API rejected the access token. Not retryable; the
// message carries the remediation.
type AuthError struct {
	Status int
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed (status %d): check that FUSIOO_ACCESS_TOKEN holds a valid Fusioo API token", e.Status)
}

// RateLimitError means the API throttled the request. Retryable; RetryAfter
// carries the server's wait hint when one was sent.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s", e.RetryAfter)
	}
	return "rate limited"
}

// NetworkError wraps a transport failure or a server-side (5xx) error.
// Retryable.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecodeError means a response decoded but did not match the expected shape.
// Not retryable.
type DecodeError struct {
	Op     string
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Reason)
}

// IsTransient reports whether err is worth retrying.
func IsTransient(err error) bool {
	var netErr *NetworkError
	var rateErr *RateLimitError
	return errors.As(err, &netErr) || errors.As(err, &rateErr)
}
