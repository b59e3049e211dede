package history

import "context"

// setRaw replaces the stored value verbatim.
func (m *MemoryStore) setRaw(data []byte) {
	m.mu.Lock()
	m.data = append([]byte(nil), data...)
	m.mu.Unlock()
}

// putRaw stores value verbatim under Key.
func (s *SQLiteStore) putRaw(ctx context.Context, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO kv (key, value) VALUES (?, ?)`, Key, value)
	return err
}
