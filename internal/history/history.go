// Package history keeps the recent-queries log: at most Limit requests,
// most recent first, one entry per (passage, translation) pair.
package history

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"exegesis/internal/logging"
	"exegesis/internal/study"
)

// DefaultLimit bounds the log when no limit is configured.
const DefaultLimit = 10

// Key names the persisted list in key-value backends.
const Key = "exegesis_history"

// Entry is one remembered submission.
type Entry struct {
	ID          string            `json:"id"`
	Passage     string            `json:"passage"`
	Translation study.Translation `json:"translation"`
	Depth       study.Depth       `json:"depth"`
	Timestamp   int64             `json:"timestamp"`
}

// Request rebuilds the submission the entry was captured from.
func (e Entry) Request() study.Request {
	return study.Request{Passage: e.Passage, Translation: e.Translation, Depth: e.Depth}
}

// Time is the capture time.
func (e Entry) Time() time.Time {
	return time.UnixMilli(e.Timestamp)
}

func (e Entry) sameQuery(req study.Request) bool {
	return e.Passage == req.Passage && e.Translation == req.Translation
}

// Log is the bounded history, persisted through a Store after every change.
type Log struct {
	mu      sync.Mutex
	store   Store
	limit   int
	entries []Entry
	now     func() time.Time
}

// Open loads the log from store. A load failure is logged and yields an
// empty history rather than an error.
func Open(ctx context.Context, store Store, limit int) *Log {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if store == nil {
		store = NewMemoryStore()
	}
	l := &Log{store: store, limit: limit, now: time.Now}

	entries, err := store.Load(ctx)
	if err != nil {
		logging.HistoryWarn("history unavailable, starting empty: %v", err)
		entries = nil
	}
	if len(entries) > limit {
		entries = entries[:limit]
	}
	l.entries = entries
	logging.History("loaded %d history entries", len(entries))
	return l
}

// Push records req at the front, drops any older entry for the same
// passage and translation, truncates to the limit and persists.
func (l *Log) Push(ctx context.Context, req study.Request) (Entry, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		ID:          uuid.New().String(),
		Passage:     req.Passage,
		Translation: req.Translation,
		Depth:       req.Depth,
		Timestamp:   l.now().UnixMilli(),
	}

	next := make([]Entry, 0, l.limit)
	next = append(next, entry)
	for _, e := range l.entries {
		if len(next) == l.limit {
			break
		}
		if e.sameQuery(req) {
			continue
		}
		next = append(next, e)
	}
	l.entries = next

	if err := l.store.Save(ctx, next); err != nil {
		return entry, fmt.Errorf("failed to persist history: %w", err)
	}
	return entry, nil
}

// Record implements study.Recorder.
func (l *Log) Record(ctx context.Context, req study.Request) error {
	_, err := l.Push(ctx, req)
	return err
}

// Entries returns a copy of the log, most recent first.
func (l *Log) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log and the store.
func (l *Log) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
	if err := l.store.Save(ctx, nil); err != nil {
		return fmt.Errorf("failed to clear history: %w", err)
	}
	return nil
}

// Close releases the store when it holds resources.
func (l *Log) Close() error {
	if c, ok := l.store.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

var _ study.Recorder = (*Log)(nil)
