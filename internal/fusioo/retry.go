package fusioo

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy bounds the retry loop for transient request failures.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

// DefaultRetryPolicy retries three times with a doubling backoff starting at
// 500ms.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts: 3,
		Backoff:  500 * time.Millisecond,
	}
}

// Retry runs fn until it succeeds, fails with a non-transient error, or the
// policy is exhausted. Rate-limit waits honor the server's Retry-After hint
// when it exceeds the current backoff.
func Retry(ctx context.Context, policy RetryPolicy, fn func() error) error {
	if policy.Attempts < 1 {
		policy = DefaultRetryPolicy()
	}

	backoff := policy.Backoff
	var err error
	for i := range policy.Attempts {
		err = fn()
		if err == nil || !IsTransient(err) {
			return err
		}

		if i == policy.Attempts-1 {
			break
		}

		wait := backoff
		var rateErr *RateLimitError
		if errors.As(err, &rateErr) && rateErr.RetryAfter > wait {
			wait = rateErr.RetryAfter
		}

		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return ctx.Err()
		}
		backoff *= 2
	}

	return err
}
