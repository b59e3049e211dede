package study

import (
	"context"
	"errors"
	"sync"
	"time"

	"exegesis/internal/logging"
)

// UserMessage is the single message shown for any generation failure.
const UserMessage = "Ocorreu um erro ao gerar o estudo. Verifique sua chave de API ou tente novamente em instantes."

// Fetcher performs the remote call, retries included, and returns the
// document before normalization.
type Fetcher interface {
	Fetch(ctx context.Context, p Prompt) (*Document, error)
}

// Recorder stores a submitted request in the recent-queries log.
type Recorder interface {
	Record(ctx context.Context, req Request) error
}

// SubmitError carries the generic user-facing message while keeping the
// original failure for diagnostics.
type SubmitError struct {
	Request Request
	Err     error
}

func (e *SubmitError) Error() string { return UserMessage }

func (e *SubmitError) Unwrap() error { return e.Err }

// Service runs a submission end to end:
// validate -> record -> build -> fetch -> normalize.
type Service struct {
	fetcher  Fetcher
	recorder Recorder
	norm     Normalizer

	mu       sync.Mutex
	inflight context.CancelFunc
	seq      uint64
}

// NewService wires a fetcher and an optional recorder.
func NewService(fetcher Fetcher, recorder Recorder) *Service {
	return &Service{fetcher: fetcher, recorder: recorder}
}

// SetClock overrides the normalizer clock.
func (s *Service) SetClock(now func() time.Time) {
	s.norm.Now = now
}

// Submit validates the raw input and generates a study. A submission made
// while an earlier one is still in flight cancels the earlier one, which then
// returns a *SubmitError wrapping context.Canceled.
func (s *Service) Submit(ctx context.Context, input string, translation Translation, depth Depth) (*Document, error) {
	req, err := NewRequest(input, translation, depth)
	if err != nil {
		logging.Get(logging.CategoryValidation).Debug("rejected input %q: %v", input, err)
		return nil, err
	}

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	if s.inflight != nil {
		logging.Get(logging.CategoryStudy).Info("replacing in-flight submission")
		s.inflight()
	}
	s.seq++
	seq := s.seq
	s.inflight = cancel
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		if s.seq == seq {
			s.inflight = nil
		}
		s.mu.Unlock()
		cancel()
	}()

	return s.Generate(ctx, req)
}

// Generate runs an already-validated request. It is stateless apart from
// the history write and safe for concurrent use.
func (s *Service) Generate(ctx context.Context, req Request) (*Document, error) {
	log := logging.Get(logging.CategoryStudy)

	if s.recorder != nil {
		if err := s.recorder.Record(ctx, req); err != nil {
			logging.Get(logging.CategoryHistory).Warn("history not saved: %v", err)
		}
	}

	prompt := Build(req)
	log.Info("generating study: passage=%q translation=%s depth=%s temperature=%.1f",
		req.Passage, req.Translation, prompt.Depth, prompt.Temperature)

	start := time.Now()
	raw, err := s.fetcher.Fetch(ctx, prompt)
	if err != nil {
		logging.Get(logging.CategoryAPI).Error("study generation failed for %q after %v: %v",
			req.Passage, time.Since(start), err)
		return nil, &SubmitError{Request: req, Err: err}
	}
	if raw == nil {
		err := errors.New("fetcher returned no document")
		return nil, &SubmitError{Request: req, Err: err}
	}

	doc := s.norm.Normalize(raw, req)
	log.Info("study ready: passage=%q in %v", req.Passage, time.Since(start))
	return doc, nil
}
