// Package accesslog records served requests for the management API.
package accesslog

import (
	"sync"
	"time"
)

// Entry describes one served request.
type Entry struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	RemoteAddr string    `json:"remote_addr"`
	Method     string    `json:"method"`
	Path       string    `json:"path"`
	Status     int       `json:"status"`
	BytesSent  int64     `json:"bytes_sent"`
	DurationMs int64     `json:"duration_ms"`
	UserAgent  string    `json:"user_agent"`
}

// Store persists access log entries.
// Implementations must be thread-safe!
type Store interface {
	// Save appends one entry to the log.
	Save(entry Entry) error
	// Recent returns up to limit entries, newest first. A non-positive
	// limit applies the store's own cap.
	Recent(limit int) ([]Entry, error)
	// Close releases any resources held by the store.
	Close() error
}

// memStoreLimit bounds how many entries MemStore retains.
const memStoreLimit = 100

// MemStore keeps the most recent entries in memory.
type MemStore struct {
	mu      sync.Mutex
	entries []Entry
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{}
}

func (s *MemStore) Save(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > memStoreLimit {
		s.entries = s.entries[:memStoreLimit]
	}
	return nil
}

func (s *MemStore) Recent(limit int) ([]Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]Entry, limit)
	copy(out, s.entries[:limit])
	return out, nil
}

func (s *MemStore) Close() error {
	return nil
}
