package dedup

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrEmptyKey = errors.New("deduplication key cannot be empty")

// Store persists deduplication entries. A row whose expiry is not after now
// counts as absent even before the janitor deletes it.
type Store interface {
	// Insert stores key until expires unless a live entry exists, and
	// reports whether it did.
	Insert(ctx context.Context, key string, expires, now time.Time) (bool, error)
	Exists(ctx context.Context, key string, now time.Time) (bool, error)
	Delete(ctx context.Context, key string) error
	// DeleteExpired removes entries that expired before now.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// MemoryStore keeps entries in process.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]time.Time)}
}

func (s *MemoryStore) Insert(_ context.Context, key string, expires, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if exp, ok := s.entries[key]; ok && exp.After(now) {
		return false, nil
	}
	s.entries[key] = expires
	return true, nil
}

func (s *MemoryStore) Exists(_ context.Context, key string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	exp, ok := s.entries[key]
	return ok && exp.After(now), nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, key)
	return nil
}

func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for k, exp := range s.entries {
		if exp.Before(now) {
			delete(s.entries, k)
			n++
		}
	}
	return n, nil
}

// Len counts stored entries, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}
