package bitbucket

import (
	"context"
	"time"
)

// Retry defaults
const (
	defaultMaxAttempts = 3
	defaultRetryDelay  = 1 * time.Second
	maxBackoffDuration = 30 * time.Second
)

// BackoffFunc returns the delay to wait after the given failed attempt (1-based)
type BackoffFunc func(attempt int) time.Duration

// SleepFunc waits for d or until ctx is done
type SleepFunc func(ctx context.Context, d time.Duration) error

// RetryPolicy controls how many times a request is attempted and how long to
// wait between attempts
type RetryPolicy struct {
	MaxAttempts int
	Backoff     BackoffFunc
	Sleep       SleepFunc
}

// DefaultRetryPolicy makes 3 attempts, 1s apart
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: defaultMaxAttempts,
		Backoff:     ConstantBackoff(defaultRetryDelay),
		Sleep:       SleepContext,
	}
}

// ConstantBackoff waits d between every attempt
func ConstantBackoff(d time.Duration) BackoffFunc {
	return func(int) time.Duration {
		return d
	}
}

// ExponentialBackoff waits base, 2*base, 4*base, ... capped at 30s
func ExponentialBackoff(base time.Duration) BackoffFunc {
	return func(attempt int) time.Duration {
		backoff := base
		for i := 1; i < attempt && backoff < maxBackoffDuration; i++ {
			backoff *= 2
		}
		if backoff > maxBackoffDuration {
			backoff = maxBackoffDuration
		}
		return backoff
	}
}

// SleepContext sleeps for d, returning early with ctx.Err() on cancellation
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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

func (p RetryPolicy) attempts() int {
	if p.MaxAttempts < 1 {
		return 1
	}
	return p.MaxAttempts
}

func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	backoff := p.Backoff
	if backoff == nil {
		backoff = ConstantBackoff(defaultRetryDelay)
	}
	sleep := p.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	return sleep(ctx, backoff(attempt))
}
