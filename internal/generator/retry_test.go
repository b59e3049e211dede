package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"google.golang.org/genai"
)

// recordingSleeper captures requested delays without waiting.
type recordingSleeper struct {
	delays []time.Duration
}

func (s *recordingSleeper) sleep(ctx context.Context, d time.Duration) error {
	s.delays = append(s.delays, d)
	return ctx.Err()
}

func newTestRetrier() (*Retrier, *recordingSleeper) {
	s := &recordingSleeper{}
	return &Retrier{Config: DefaultRetryConfig(), Sleep: s.sleep}, s
}

func TestBackoff(t *testing.T) {
	cfg := DefaultRetryConfig()
	assert.Equal(t, time.Duration(0), cfg.Backoff(0))
	assert.Equal(t, 1000*time.Millisecond, cfg.Backoff(1))
	assert.Equal(t, 2000*time.Millisecond, cfg.Backoff(2))
	assert.Equal(t, 4000*time.Millisecond, cfg.Backoff(3))
}

func TestTransition(t *testing.T) {
	cfg := DefaultRetryConfig()
	serverErr := &StatusError{Code: 500, Message: "internal"}
	clientErr := &StatusError{Code: 400, Message: "bad request"}

	tests := []struct {
		name      string
		attempt   int
		err       error
		wantState State
		wantDelay time.Duration
	}{
		{"success", 1, nil, StateSucceeded, 0},
		{"success after retries", 3, nil, StateSucceeded, 0},
		{"5xx first attempt waits 1s", 1, serverErr, StateWaiting, time.Second},
		{"5xx second attempt waits 2s", 2, serverErr, StateWaiting, 2 * time.Second},
		{"5xx final attempt fails", 3, serverErr, StateFailed, 0},
		{"4xx fails immediately", 1, clientErr, StateFailed, 0},
		{"no status retried", 1, errors.New("boom"), StateWaiting, time.Second},
		{"empty response retried", 2, ErrEmptyResponse, StateWaiting, 2 * time.Second},
		{"cancellation terminal", 1, context.Canceled, StateFailed, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, delay := cfg.Transition(tt.attempt, tt.err)
			assert.Equal(t, tt.wantState, state)
			assert.Equal(t, tt.wantDelay, delay)
		})
	}
}

func TestDo_ThreeServerFailures(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, sleeper := newTestRetrier()
	var errs []error
	calls := 0
	_, err := Do(context.Background(), r, "test", func(ctx context.Context) (string, error) {
		calls++
		e := &StatusError{Code: 503, Message: fmt.Sprintf("overloaded #%d", calls)}
		errs = append(errs, e)
		return "", e
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{1000 * time.Millisecond, 2000 * time.Millisecond}, sleeper.delays)
	// the third failure, by identity
	assert.Same(t, errs[2], err)
}

func TestDo_ClientErrorIsImmediate(t *testing.T) {
	defer goleak.VerifyNone(t)

	r, sleeper := newTestRetrier()
	want := &StatusError{Code: 400, Message: "invalid argument"}
	calls := 0
	_, err := Do(context.Background(), r, "test", func(ctx context.Context) (string, error) {
		calls++
		return "", want
	})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestDo_RecoversAfterTransientFailure(t *testing.T) {
	r, sleeper := newTestRetrier()
	calls := 0
	got, err := Do(context.Background(), r, "test", func(ctx context.Context) (string, error) {
		calls++
		if calls == 1 {
			return "", ErrEmptyResponse
		}
		return "ok", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "ok", got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.delays)
}

func TestDo_ObservesTransitions(t *testing.T) {
	r, _ := newTestRetrier()
	var states []State
	r.OnTransition = func(attempt int, s State, d time.Duration, err error) {
		states = append(states, s)
	}

	calls := 0
	_, _ = Do(context.Background(), r, "test", func(ctx context.Context) (int, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	assert.Equal(t, []State{StateAttempting, StateWaiting, StateAttempting, StateSucceeded}, states)
}

func TestDo_CancelDuringWait(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	r := &Retrier{
		Config: DefaultRetryConfig(),
		Sleep: func(ctx context.Context, d time.Duration) error {
			cancel()
			return SleepContext(ctx, d)
		},
	}

	calls := 0
	_, err := Do(ctx, r, "test", func(ctx context.Context) (string, error) {
		calls++
		return "", &StatusError{Code: 500}
	})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestSleepContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	require.NoError(t, SleepContext(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain error", errors.New("something odd"), true},
		{"empty response", ErrEmptyResponse, true},
		{"500", &StatusError{Code: 500}, true},
		{"503 wrapped", fmt.Errorf("call: %w", &StatusError{Code: 503}), true},
		{"400", &StatusError{Code: 400, Message: "invalid argument"}, false},
		{"401", &StatusError{Code: 401}, false},
		{"429", &StatusError{Code: 429, Message: "quota"}, false},
		{"4xx with transport signature", &StatusError{Code: 499, Message: "connection reset by peer"}, true},
		{"genai 500", genai.APIError{Code: 500, Message: "internal"}, true},
		{"genai 404", genai.APIError{Code: 404, Message: "model not found"}, false},
		{"canceled", context.Canceled, false},
		{"deadline", fmt.Errorf("wrapped: %w", context.DeadlineExceeded), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}

func TestStatusCode(t *testing.T) {
	code, ok := StatusCode(genai.APIError{Code: 502})
	assert.True(t, ok)
	assert.Equal(t, 502, code)

	_, ok = StatusCode(errors.New("no status"))
	assert.False(t, ok)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "attempting", StateAttempting.String())
	assert.Equal(t, "waiting", StateWaiting.String())
	assert.Equal(t, "succeeded", StateSucceeded.String())
	assert.Equal(t, "failed", StateFailed.String())
}
