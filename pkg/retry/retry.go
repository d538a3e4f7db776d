package retry

import (
	"context"
	"time"
)

// Policy runs an operation up to MaxAttempts times, sleeping between
// attempts according to Backoff. It retries every error uniformly; callers
// that need to distinguish permanent failures should not route them through
// a policy.
type Policy struct {
	MaxAttempts int
	Backoff     func(attempt int) time.Duration

	// sleep is swappable so tests can run against a virtual clock.
	sleep func(ctx context.Context, d time.Duration) error
}

// LinearBackoff returns a backoff function growing as attempt x base.
func LinearBackoff(base time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * base
	}
}

// Default mirrors the store policy: 3 attempts, 1s, 2s between them.
func Default() *Policy {
	return New(3, LinearBackoff(time.Second))
}

// New builds a policy. Non-positive attempts are clamped to 1 and a nil
// backoff means no delay between attempts.
func New(maxAttempts int, backoff func(int) time.Duration) *Policy {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	if backoff == nil {
		backoff = func(int) time.Duration { return 0 }
	}
	return &Policy{
		MaxAttempts: maxAttempts,
		Backoff:     backoff,
		sleep:       sleepContext,
	}
}

// WithSleep replaces the sleep function. Test hook.
func (p *Policy) WithSleep(sleep func(ctx context.Context, d time.Duration) error) *Policy {
	if sleep != nil {
		p.sleep = sleep
	}
	return p
}

// Do invokes op until it succeeds, attempts run out, or ctx is done.
// The last error is returned unwrapped so sentinel checks still work.
func (p *Policy) Do(ctx context.Context, op func() error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return lastErr
			}
			return err
		}
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if attempt < p.MaxAttempts {
			if err := p.sleep(ctx, p.Backoff(attempt)); err != nil {
				return lastErr
			}
		}
	}
	return lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
