package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a shared cache backend cannot be reached.
var ErrUnavailable = errors.New("cache unavailable")

type retryable struct{ error }

func (r retryable) Unwrap() error { return r.error }

// Retryable marks err as transient. Backoff.Retry only retries marked
// errors. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return retryable{err}
}

// IsRetryable reports whether err, or an error it wraps, was marked with
// Retryable.
func IsRetryable(err error) bool {
	var r retryable
	return errors.As(err, &r)
}

// Backoff retries an operation with exponentially growing pauses.
type Backoff struct {
	Attempts int           // total calls, at least 1
	Delay    time.Duration // pause after the first failure, doubled each time
}

// DefaultBackoff is used when connecting to shared backends.
var DefaultBackoff = Backoff{Attempts: 3, Delay: 500 * time.Millisecond}

// Retry calls fn until it succeeds, returns an error not marked Retryable,
// runs out of attempts or ctx ends. It returns the last error of fn, or
// ctx.Err() when cancelled while waiting.
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for attempt := 1; ; attempt++ {
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
		if attempt >= b.Attempts {
			return err
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
	}
}
