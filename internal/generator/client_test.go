package generator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"exegesis/internal/study"
	"exegesis/internal/study/studytest"
)

func TestClient_Fetch(t *testing.T) {
	defer goleak.VerifyNone(t)

	var seen study.Prompt
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		seen = p
		return studytest.JSON, nil
	})
	r, sleeper := newTestRetrier()
	c := NewClient(model, r)

	prompt := study.Build(studytest.Request())
	doc, err := c.Fetch(context.Background(), prompt)
	require.NoError(t, err)
	assert.Equal(t, "O amor de Deus.", doc.Summary.Executive)
	assert.Equal(t, prompt.Temperature, seen.Temperature)
	assert.Empty(t, sleeper.delays)
}

func TestClient_EmptyResponseConsumesAttempt(t *testing.T) {
	calls := 0
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		calls++
		if calls == 1 {
			return "   ", nil
		}
		return studytest.JSON, nil
	})
	r, sleeper := newTestRetrier()

	_, err := NewClient(model, r).Fetch(context.Background(), study.Build(studytest.Request()))
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, []time.Duration{time.Second}, sleeper.delays)
}

func TestClient_AlwaysEmpty(t *testing.T) {
	calls := 0
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		calls++
		return "", nil
	})
	r, _ := newTestRetrier()

	_, err := NewClient(model, r).Fetch(context.Background(), study.Build(studytest.Request()))
	assert.ErrorIs(t, err, ErrEmptyResponse)
	assert.Equal(t, 3, calls)
}

func TestClient_ShapeMismatchIsRetried(t *testing.T) {
	calls := 0
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		calls++
		if calls < 3 {
			return `{"meta": {"reference": "x", "translation": "NVI"}}`, nil
		}
		return studytest.JSON, nil
	})
	r, sleeper := newTestRetrier()

	doc, err := NewClient(model, r).Fetch(context.Background(), study.Build(studytest.Request()))
	require.NoError(t, err)
	assert.NotNil(t, doc)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestClient_ServerErrorsExhaustBudget(t *testing.T) {
	var last error
	calls := 0
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		calls++
		last = &StatusError{Code: 500, Message: "internal"}
		return "", last
	})
	r, sleeper := newTestRetrier()

	_, err := NewClient(model, r).Fetch(context.Background(), study.Build(studytest.Request()))
	assert.Same(t, last, err)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, sleeper.delays)
}

func TestClient_WithService(t *testing.T) {
	calls := 0
	model := ModelFunc(func(ctx context.Context, p study.Prompt) (string, error) {
		calls++
		return "", &StatusError{Code: 403, Message: "API key not valid"}
	})
	r, sleeper := newTestRetrier()
	svc := study.NewService(NewClient(model, r), nil)

	_, err := svc.Submit(context.Background(), "Jo 3:16", "", "")
	assert.EqualError(t, err, study.UserMessage)

	var se *StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 403, se.Code)
	assert.Equal(t, 1, calls)
	assert.Empty(t, sleeper.delays)
}

func TestNewClient_DefaultRetrier(t *testing.T) {
	c := NewClient(ModelFunc(nil), nil)
	assert.Equal(t, DefaultRetryConfig(), c.retrier.Config)
}

func TestNewGenAIModel_RequiresKey(t *testing.T) {
	_, err := NewGenAIModel(context.Background(), "", "")
	assert.Error(t, err)
}
