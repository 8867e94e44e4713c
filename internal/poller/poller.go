// Package poller waits for an asynchronous artifact with bounded exponential
// backoff.
package poller

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrTimeout is returned when the deadline passes before the condition holds.
var ErrTimeout = errors.New("poller: timed out waiting for condition")

const (
	defaultInitial    = time.Second
	defaultMax        = 10 * time.Second
	defaultMultiplier = 2.0
)

// Backoff configures the wait between checks. Zero values take the defaults
// (1s initial, 10s max, multiplier 2).
type Backoff struct {
	Initial    time.Duration
	Max        time.Duration
	Multiplier float64
}

func (b Backoff) normalized() Backoff {
	if b.Initial <= 0 {
		b.Initial = defaultInitial
	}
	if b.Max <= 0 {
		b.Max = defaultMax
	}
	if b.Max < b.Initial {
		b.Max = b.Initial
	}
	if b.Multiplier < 1 {
		b.Multiplier = defaultMultiplier
	}
	return b
}

// Next returns the delay that follows d.
func (b Backoff) Next(d time.Duration) time.Duration {
	b = b.normalized()
	next := time.Duration(float64(d) * b.Multiplier)
	if next > b.Max || next <= 0 {
		return b.Max
	}
	return next
}

// Check reports whether the awaited condition holds.
type Check func(ctx context.Context) (bool, error)

type permanentError struct{ err error }

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent marks a check error that must end the wait immediately. Other
// errors are retried until the deadline.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// Wait runs check until it reports true, it returns a permanent error, or
// timeout elapses. A non-positive timeout relies on ctx alone. Wait returns
// the number of checks performed.
func Wait(ctx context.Context, timeout time.Duration, b Backoff, check Check) (int, error) {
	b = b.normalized()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var (
		attempts int
		lastErr  error
		delay    = b.Initial
	)
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		attempts++
		ok, err := check(ctx)
		if ok {
			return attempts, nil
		}
		var perm *permanentError
		if errors.As(err, &perm) {
			return attempts, perm.err
		}
		if err != nil {
			lastErr = err
		}

		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return attempts, timeoutError(ctx, lastErr)
		case <-timer.C:
		}
		delay = b.Next(delay)
	}
}

func timeoutError(ctx context.Context, lastErr error) error {
	if errors.Is(ctx.Err(), context.Canceled) {
		return ctx.Err()
	}
	if lastErr != nil {
		return fmt.Errorf("%w (last error: %v)", ErrTimeout, lastErr)
	}
	return ErrTimeout
}
