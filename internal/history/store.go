package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"exegesis/internal/logging"
)

// Store persists the whole history list as one value.
type Store interface {
	Load(ctx context.Context) ([]Entry, error)
	Save(ctx context.Context, entries []Entry) error
}

// encodeEntries always yields a JSON array, never null.
func encodeEntries(entries []Entry) ([]byte, error) {
	if entries == nil {
		entries = []Entry{}
	}
	return json.Marshal(entries)
}

// decodeEntries treats a corrupt value as an empty history.
func decodeEntries(data []byte) []Entry {
	if len(data) == 0 {
		return nil
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		logging.HistoryWarn("discarding corrupt history value: %v", err)
		return nil
	}
	valid := entries[:0]
	for _, e := range entries {
		if e.Passage == "" || e.Translation == "" {
			continue
		}
		valid = append(valid, e)
	}
	return valid
}

// MemoryStore keeps the encoded list in process. Used when persistence is
// disabled and in tests.
type MemoryStore struct {
	mu   sync.Mutex
	data []byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (m *MemoryStore) Load(context.Context) ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return decodeEntries(m.data), nil
}

func (m *MemoryStore) Save(_ context.Context, entries []Entry) error {
	data, err := encodeEntries(entries)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data = data
	m.mu.Unlock()
	return nil
}

// Backends accepted by NewStore.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Options selects and configures a Store.
type Options struct {
	Backend       string
	Path          string
	RedisAddr     string
	RedisPassword string
}

// NewStore builds the configured backend. BackendNone keeps history in memory.
func NewStore(ctx context.Context, o Options) (Store, error) {
	switch o.Backend {
	case BackendSQLite, "":
		s, err := NewSQLiteStore(o.Path)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendFile:
		return NewFileStore(o.Path), nil
	case BackendRedis:
		rdb, err := NewRedisClient(ctx, o.RedisAddr, o.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("redis %s: %w", o.RedisAddr, err)
		}
		return NewRedisStore(rdb), nil
	case BackendNone:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown history backend %q", o.Backend)
	}
}
