package redis

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

// DeleteByPattern walks the keyspace with SCAN MATCH and unlinks every key
// matching pattern in batches. It returns the number of keys removed.
// Keys written concurrently with the walk may survive it.
func DeleteByPattern(ctx context.Context, client redis.UniversalClient, pattern string, batch int64) (int, error) {
	if batch <= 0 {
		batch = 500
	}

	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := client.Scan(ctx, cursor, pattern, batch).Result()
		if err != nil {
			return deleted, errors.Join(ErrPatternDeleteFailed, err)
		}
		if len(keys) > 0 {
			n, err := client.Unlink(ctx, keys...).Result()
			if err != nil {
				return deleted, errors.Join(ErrPatternDeleteFailed, err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
