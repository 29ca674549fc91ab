package redis_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/helpdesk/pkg/redis"
)

func TestConnect_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{})
	assert.ErrorIs(t, err, redis.ErrEmptyConnectionURL)

	_, err = redis.Connect(context.Background(), redis.Config{ConnectionURL: "mysql://nope"})
	assert.ErrorIs(t, err, redis.ErrFailedToParseRedisConnString)
}

func TestConnect_Timeout(t *testing.T) {
	t.Parallel()

	_, err := redis.Connect(context.Background(), redis.Config{
		ConnectionURL:  "redis://127.0.0.1:1/0",
		RetryAttempts:  10,
		RetryInterval:  time.Second,
		ConnectTimeout: 100 * time.Millisecond,
	})
	assert.ErrorIs(t, err, redis.ErrRedisNotReady)
}

func TestDeleteByPattern_Integration(t *testing.T) {
	url := os.Getenv("REDIS_TEST_URL")
	if url == "" {
		t.Skip("REDIS_TEST_URL not set")
	}

	ctx := context.Background()
	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: url, RetryAttempts: 1, ConnectTimeout: 5 * time.Second})
	require.NoError(t, err)
	defer client.Close()
	require.NoError(t, redis.Healthcheck(client)(ctx))

	prefix := fmt.Sprintf("test:%d:", time.Now().UnixNano())
	for i := range 25 {
		require.NoError(t, client.Set(ctx, fmt.Sprintf("%sa:%d", prefix, i), "v", time.Minute).Err())
	}
	require.NoError(t, client.Set(ctx, prefix+"b:keep", "v", time.Minute).Err())

	n, err := redis.DeleteByPattern(ctx, client, prefix+"a:*", 10)
	require.NoError(t, err)
	assert.Equal(t, 25, n)

	exists, err := client.Exists(ctx, prefix+"b:keep").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
	client.Del(ctx, prefix+"b:keep")
}
