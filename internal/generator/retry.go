// Package generator talks to the generative-language API and owns the
// retry policy around it.
package generator

import (
	"context"
	"math"
	"time"

	"exegesis/internal/logging"
)

// State is a step of the retry state machine.
type State int

const (
	StateAttempting State = iota
	StateWaiting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAttempting:
		return "attempting"
	case StateWaiting:
		return "waiting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// RetryConfig configures retry behavior.
type RetryConfig struct {
	MaxAttempts    int           // Total tries, first call included
	InitialBackoff time.Duration // Delay before the first retry, doubled for each one after
}

// DefaultRetryConfig returns the production policy: 3 tries, 1s then 2s.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:    3,
		InitialBackoff: 1 * time.Second,
	}
}

// Backoff returns the delay before retry k (k starts at 1).
func (c RetryConfig) Backoff(k int) time.Duration {
	if k < 1 {
		return 0
	}
	return time.Duration(float64(c.InitialBackoff) * math.Pow(2, float64(k-1)))
}

// Transition decides what follows attempt number `attempt` (1-based) that
// ended with err. It is pure: the three rules are
//
//	success                          -> Succeeded
//	retryable failure, budget left   -> Waiting(Backoff(attempt))
//	terminal failure or budget spent -> Failed
func (c RetryConfig) Transition(attempt int, err error) (State, time.Duration) {
	if err == nil {
		return StateSucceeded, 0
	}
	if !IsRetryable(err) || attempt >= c.MaxAttempts {
		return StateFailed, 0
	}
	return StateWaiting, c.Backoff(attempt)
}

// Sleeper waits for d or until ctx is done.
type Sleeper func(ctx context.Context, d time.Duration) error

// SleepContext is the real Sleeper.
func SleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retrier runs an operation under a RetryConfig. Attempts are strictly
// sequential; state lives on the stack of Do.
type Retrier struct {
	Config RetryConfig
	Sleep  Sleeper
	// OnTransition, when set, observes every state change.
	OnTransition func(attempt int, state State, delay time.Duration, err error)
}

// NewRetrier returns a Retrier with the real sleeper.
func NewRetrier(cfg RetryConfig) *Retrier {
	return &Retrier{Config: cfg, Sleep: SleepContext}
}

// Do calls fn until it succeeds, fails terminally, or the budget runs out.
// The error returned is the last one fn produced, unwrapped and unchanged.
func Do[T any](ctx context.Context, r *Retrier, operation string, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	cfg := r.Config
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	sleep := r.Sleep
	if sleep == nil {
		sleep = SleepContext
	}
	log := logging.Get(logging.CategoryAPI)

	for attempt := 1; ; attempt++ {
		r.notify(attempt, StateAttempting, 0, nil)

		result, err := fn(ctx)
		next, delay := cfg.Transition(attempt, err)
		r.notify(attempt, next, delay, err)

		switch next {
		case StateSucceeded:
			if attempt > 1 {
				log.Info("%s succeeded on attempt %d", operation, attempt)
			}
			return result, nil

		case StateFailed:
			log.Warn("%s failed on attempt %d/%d (retryable=%v): %v",
				operation, attempt, cfg.MaxAttempts, IsRetryable(err), err)
			return zero, err

		case StateWaiting:
			log.Warn("%s attempt %d/%d failed, retrying in %v: %v",
				operation, attempt, cfg.MaxAttempts, delay, err)
			if serr := sleep(ctx, delay); serr != nil {
				return zero, serr
			}
		}
	}
}

func (r *Retrier) notify(attempt int, s State, d time.Duration, err error) {
	if r.OnTransition != nil {
		r.OnTransition(attempt, s, d, err)
	}
}
