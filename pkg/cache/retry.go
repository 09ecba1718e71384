package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork is wrapped into every failure to reach a remote cache (Redis).
var ErrNetwork = errors.New("cache backend unreachable")

// RetryableError marks a backend failure worth another attempt, such as a
// refused connection while Redis is still starting.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err for [RetryWithBackoff]. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err, or anything it wraps, was marked Retryable.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

const retryAttempts = 3

// retryDelay is the wait before the second attempt. It doubles each time.
var retryDelay = time.Second

// RetryWithBackoff calls fn until it succeeds, returns an unmarked error, or
// runs out of attempts. Cancelling ctx aborts the wait between attempts.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	delay := retryDelay
	for attempt := 1; ; attempt++ {
		err := fn()
		if err == nil || !IsRetryable(err) || attempt == retryAttempts {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		delay *= 2
	}
}
