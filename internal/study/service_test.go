package study_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"exegesis/internal/passage"
	"exegesis/internal/study"
	"exegesis/internal/study/studytest"
)

type fetchFunc func(ctx context.Context, p study.Prompt) (*study.Document, error)

func (f fetchFunc) Fetch(ctx context.Context, p study.Prompt) (*study.Document, error) {
	return f(ctx, p)
}

type memoryRecorder struct {
	mu   sync.Mutex
	reqs []study.Request
	err  error
}

func (r *memoryRecorder) Record(_ context.Context, req study.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reqs = append(r.reqs, req)
	return r.err
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestSubmit_Success(t *testing.T) {
	var got study.Prompt
	rec := &memoryRecorder{}
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		got = p
		return studytest.Document(), nil
	}), rec)
	svc.SetClock(func() time.Time { return fixedNow })

	doc, err := svc.Submit(context.Background(), "  Rm 8:28 ", study.TranslationACF, study.DepthAcademic)
	require.NoError(t, err)

	assert.Equal(t, "Rm 8:28", doc.Meta.Reference)
	assert.Equal(t, study.TranslationACF, doc.Meta.Translation)
	assert.Equal(t, "2026-03-01T12:00:00.000Z", doc.Meta.GeneratedAt)
	assert.Equal(t, study.TemperatureAcademic, got.Temperature)
	assert.Equal(t, []study.Request{{Passage: "Rm 8:28", Translation: study.TranslationACF, Depth: study.DepthAcademic}}, rec.reqs)
}

func TestSubmit_InvalidInputSkipsEverything(t *testing.T) {
	rec := &memoryRecorder{}
	called := false
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		called = true
		return nil, nil
	}), rec)

	for _, in := range []string{"", "   ", "Mateus", "3:16"} {
		_, err := svc.Submit(context.Background(), in, "", "")
		var verr *passage.ValidationError
		require.True(t, errors.As(err, &verr), "input %q", in)

		var serr *study.SubmitError
		assert.False(t, errors.As(err, &serr))
	}
	assert.False(t, called)
	assert.Empty(t, rec.reqs)
}

func TestSubmit_FailureIsGeneric(t *testing.T) {
	cause := errors.New("API request failed with status 500")
	rec := &memoryRecorder{}
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		return nil, cause
	}), rec)

	doc, err := svc.Submit(context.Background(), "Jo 1:1", "", "")
	assert.Nil(t, doc)
	assert.EqualError(t, err, study.UserMessage)
	assert.ErrorIs(t, err, cause)

	var serr *study.SubmitError
	require.True(t, errors.As(err, &serr))
	assert.Equal(t, "Jo 1:1", serr.Request.Passage)

	// recorded before the remote call, so failures still appear in history
	assert.Len(t, rec.reqs, 1)
}

func TestSubmit_HistoryFailureDoesNotBlock(t *testing.T) {
	rec := &memoryRecorder{err: errors.New("disk full")}
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		return studytest.Document(), nil
	}), rec)

	_, err := svc.Submit(context.Background(), "Jo 1:1", "", "")
	assert.NoError(t, err)
}

func TestSubmit_NilRecorder(t *testing.T) {
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		return studytest.Document(), nil
	}), nil)

	_, err := svc.Submit(context.Background(), "Jo 1:1", "", "")
	assert.NoError(t, err)
}

func TestSubmit_NewSubmissionCancelsInFlight(t *testing.T) {
	defer goleak.VerifyNone(t)

	started := make(chan struct{})
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		if p.Depth == study.DepthQuick {
			close(started)
			<-ctx.Done()
			return nil, ctx.Err()
		}
		return studytest.Document(), nil
	}), nil)

	firstErr := make(chan error, 1)
	go func() {
		_, err := svc.Submit(context.Background(), "Gn 1", "", study.DepthQuick)
		firstErr <- err
	}()
	<-started

	doc, err := svc.Submit(context.Background(), "Gn 2", "", study.DepthDetailed)
	require.NoError(t, err)
	assert.Equal(t, "Gn 2", doc.Meta.Reference)

	select {
	case err := <-firstErr:
		assert.ErrorIs(t, err, context.Canceled)
		assert.EqualError(t, err, study.UserMessage)
	case <-time.After(5 * time.Second):
		t.Fatal("first submission was not cancelled")
	}
}

func TestGenerate_ConcurrentCallsDoNotCancel(t *testing.T) {
	svc := study.NewService(fetchFunc(func(ctx context.Context, p study.Prompt) (*study.Document, error) {
		time.Sleep(10 * time.Millisecond)
		return studytest.Document(), ctx.Err()
	}), nil)

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.Generate(context.Background(), studytest.Request())
		}(i)
	}
	wg.Wait()
	for _, err := range errs {
		assert.NoError(t, err)
	}
}
