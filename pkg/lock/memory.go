package lock

import (
	"context"
	"sync"
)

// MemoryLocker is an in-process Locker.
type MemoryLocker struct {
	mu   sync.Mutex
	sems map[string]chan struct{}
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{sems: make(map[string]chan struct{})}
}

func (l *MemoryLocker) sem(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = make(chan struct{}, 1)
		l.sems[key] = s
	}
	return s
}

func (l *MemoryLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	if key == "" {
		return nil, ErrEmptyKey
	}
	s := l.sem(key)
	select {
	case s <- struct{}{}:
		return release(s), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *MemoryLocker) TryLock(_ context.Context, key string) (Unlock, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	s := l.sem(key)
	select {
	case s <- struct{}{}:
		return release(s), true, nil
	default:
		return noopUnlock, false, nil
	}
}

func release(s chan struct{}) Unlock {
	var once sync.Once
	return func(context.Context) error {
		once.Do(func() { <-s })
		return nil
	}
}
