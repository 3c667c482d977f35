package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatQuoteNumber(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.June, 5, 23, 59, 0, 0, time.UTC)

	assert.Equal(t, "SQ202406050001", FormatQuoteNumber(day, 1))
	assert.Equal(t, "SQ202406050042", FormatQuoteNumber(day, 42))
	assert.Equal(t, "SQ2024060512345", FormatQuoteNumber(day, 12345))
}

func TestFormatQuoteNumberUsesUTCDay(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC+3", 3*60*60)
	day := time.Date(2024, time.June, 6, 1, 0, 0, 0, loc)

	assert.Equal(t, "SQ202406050007", FormatQuoteNumber(day, 7))
}

func TestRedisSeqKey(t *testing.T) {
	t.Parallel()

	day := time.Date(2024, time.January, 2, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "shipquote:quote_seq:20240102", redisSeqKey(day))
}

func TestRedisQuoteNumbererSequence(t *testing.T) {
	addr := os.Getenv("SHIPQUOTE_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SHIPQUOTE_TEST_REDIS_ADDR not set; skipping redis-backed numbering test")
	}

	ctx := context.Background()
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	day := time.Date(2031, time.March, 14, 0, 0, 0, 0, time.UTC)
	require.NoError(t, client.Del(ctx, redisSeqKey(day)).Err())

	numberer := NewRedisQuoteNumberer(client)

	first, err := numberer.NextQuoteNumber(ctx, day)
	require.NoError(t, err)
	second, err := numberer.NextQuoteNumber(ctx, day)
	require.NoError(t, err)

	assert.Equal(t, "SQ203103140001", first)
	assert.Equal(t, "SQ203103140002", second)

	ttl, err := client.TTL(ctx, redisSeqKey(day)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))
}
