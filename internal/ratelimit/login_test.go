package ratelimit

import (
	"context"
	"testing"
	"time"

	redis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNilLimiterAllows(t *testing.T) {
	var l *LoginLimiter
	require.False(t, l.Enabled())

	ok, wait := l.Allow(context.Background(), "10.0.0.1")
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestLimiterFailsOpenWhenRedisUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	l := NewLoginLimiterWithClient(client, 1, 5, zap.NewNop())
	require.True(t, l.Enabled())

	ok, wait := l.Allow(context.Background(), "")
	assert.True(t, ok)
	assert.Zero(t, wait)
}

func TestTokenBucketRejectsBadArguments(t *testing.T) {
	var nilBucket *TokenBucket
	_, err := nilBucket.Allow(context.Background(), "k", 1, 1)
	require.Error(t, err)

	bucket := NewTokenBucket(redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"}))
	_, err = bucket.Allow(context.Background(), "", 1, 1)
	require.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 0, 1)
	require.Error(t, err)
	_, err = bucket.Allow(context.Background(), "k", 1, 0)
	require.Error(t, err)
}

func TestDefaultBucketTTL(t *testing.T) {
	assert.Equal(t, 50*time.Second, defaultBucketTTL(0.2, 5))
	assert.Equal(t, time.Second, defaultBucketTTL(100, 1))
	assert.Equal(t, time.Second, defaultBucketTTL(0, 0))
}

func TestCastHelpers(t *testing.T) {
	assert.Equal(t, int64(1), castToInt(int64(1)))
	assert.Equal(t, int64(0), castToInt("x"))
	assert.Equal(t, 2.5, castToFloat("2.5"))
	assert.Equal(t, 3.0, castToFloat(int64(3)))
	assert.Equal(t, 0.0, castToFloat("nope"))
}
