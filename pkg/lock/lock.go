package lock

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrLockNotHeld is returned by an Unlock whose lock expired or was taken over.
	ErrLockNotHeld = errors.New("lock not held")
	// ErrEmptyKey is returned for an empty lock key.
	ErrEmptyKey = errors.New("lock key is empty")
)

// Unlock releases a lock obtained from a Locker. Calling it more than once is a no-op.
type Unlock func(ctx context.Context) error

// Locker provides mutual exclusion keyed by name, possibly across processes.
type Locker interface {
	// Lock blocks until the lock is held or ctx is done.
	Lock(ctx context.Context, key string) (Unlock, error)
	// TryLock takes the lock only if it is free right now.
	TryLock(ctx context.Context, key string) (Unlock, bool, error)
}

type Config struct {
	KeyPrefix     string        `env:"LOCK_KEY_PREFIX" envDefault:"helpdesk:lock:"` // KeyPrefix namespaces Redis lock keys.
	TTL           time.Duration `env:"LOCK_TTL" envDefault:"5m"`                    // TTL bounds how long a crashed holder can block others.
	RetryInterval time.Duration `env:"LOCK_RETRY_INTERVAL" envDefault:"100ms"`      // RetryInterval is the polling period of a blocking Redis Lock.
}

func noopUnlock(context.Context) error { return nil }
