package lock

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
	return redis.call("del", KEYS[1])
end
return 0
`)

// RedisLocker implements Locker with SET NX PX and a random owner token.
// A holder that outlives TTL loses the lock.
type RedisLocker struct {
	client redis.UniversalClient
	cfg    Config
}

func NewRedisLocker(client redis.UniversalClient, cfg Config) *RedisLocker {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.RetryInterval <= 0 {
		cfg.RetryInterval = 100 * time.Millisecond
	}
	return &RedisLocker{client: client, cfg: cfg}
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (Unlock, error) {
	ticker := time.NewTicker(l.cfg.RetryInterval)
	defer ticker.Stop()

	for {
		unlock, ok, err := l.TryLock(ctx, key)
		if err != nil {
			return nil, err
		}
		if ok {
			return unlock, nil
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) TryLock(ctx context.Context, key string) (Unlock, bool, error) {
	if key == "" {
		return nil, false, ErrEmptyKey
	}
	name := l.cfg.KeyPrefix + key
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, name, token, l.cfg.TTL).Result()
	if err != nil {
		return nil, false, err
	}
	if !ok {
		return noopUnlock, false, nil
	}

	var once sync.Once
	return func(ctx context.Context) error {
		var err error
		once.Do(func() {
			var n int64
			n, err = releaseScript.Run(ctx, l.client, []string{name}, token).Int64()
			if err == nil && n == 0 {
				err = ErrLockNotHeld
			}
			if errors.Is(err, redis.Nil) {
				err = ErrLockNotHeld
			}
		})
		return err
	}, true, nil
}
