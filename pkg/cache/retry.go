package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNetwork marks failures talking to a remote backend.
var ErrNetwork = errors.New("cache: network error")

// transientError marks an error that may succeed when tried again.
type transientError struct{ err error }

func (e transientError) Error() string { return e.err.Error() }
func (e transientError) Unwrap() error { return e.err }

// Transient marks err as worth retrying. A nil err stays nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return transientError{err: err}
}

// IsTransient reports whether err was marked with [Transient].
func IsTransient(err error) bool {
	var te transientError
	return errors.As(err, &te)
}

// Backoff is a retry policy with exponentially growing delays.
type Backoff struct {
	Attempts int           // total tries, at least 1
	Base     time.Duration // delay after the first failure
	Max      time.Duration // delay cap; 0 means uncapped
}

// DefaultBackoff is the policy used by [RedisCache].
var DefaultBackoff = Backoff{Attempts: 3, Base: 100 * time.Millisecond, Max: time.Second}

// Do calls fn until it succeeds or returns an error not marked [Transient].
// After the last attempt the last error is returned. Waiting between
// attempts stops early with ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	attempts := max(b.Attempts, 1)
	delay := b.Base

	var err error
	for i := range attempts {
		if err = fn(); err == nil || !IsTransient(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		t := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		delay *= 2
		if b.Max > 0 && delay > b.Max {
			delay = b.Max
		}
	}
	return err
}
