package retry

import (
	"context"
	"time"
)

// ExponentialBackoff returns delay based on attempt number.
// The delay doubles with each attempt: base * 2^attempt
func ExponentialBackoff(attempt int, base time.Duration) time.Duration {
	return base * (1 << attempt)
}

// Policy bounds how often and how long an operation is retried.
type Policy struct {
	Attempts int
	Base     time.Duration
	Max      time.Duration // zero means uncapped
}

// Delay is the wait before retrying after the given zero-based attempt.
func (p Policy) Delay(attempt int) time.Duration {
	d := ExponentialBackoff(attempt, p.Base)
	if p.Max > 0 && d > p.Max {
		return p.Max
	}
	return d
}

// Do calls fn until it succeeds, retryable reports false, attempts run out, or
// ctx is done. It returns the last error from fn.
func Do(ctx context.Context, p Policy, retryable func(error) bool, fn func(context.Context) error) error {
	attempts := p.Attempts
	if attempts <= 0 {
		attempts = 1
	}
	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if attempt == attempts-1 || (retryable != nil && !retryable(err)) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(p.Delay(attempt)):
		}
	}
	return err
}
