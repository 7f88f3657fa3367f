package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type snapshot struct {
	Rides   int64   `json:"rides"`
	Revenue float64 `json:"revenue"`
}

func newTestCache(t *testing.T, ttl time.Duration) (*ReportCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewReportCache(client, "ledger:report", ttl), mr
}

func TestReportCache_MissThenHit(t *testing.T) {
	ctx := context.Background()
	c, _ := newTestCache(t, time.Minute)

	var got snapshot
	hit, err := c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, hit, "empty cache should miss")

	require.NoError(t, c.Set(ctx, "summary", snapshot{Rides: 5, Revenue: 320.12}))

	hit, err = c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, snapshot{Rides: 5, Revenue: 320.12}, got)
}

func TestReportCache_TTL(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 30*time.Second)

	require.NoError(t, c.Set(ctx, "summary", snapshot{Rides: 1}))
	assert.Equal(t, 30*time.Second, mr.TTL("ledger:report:summary"))

	mr.FastForward(31 * time.Second)

	var got snapshot
	hit, err := c.Get(ctx, "summary", &got)
	require.NoError(t, err)
	assert.False(t, hit, "entry should expire after ttl")
}

func TestReportCache_InvalidateDropsOnlyPrefix(t *testing.T) {
	ctx := context.Background()
	c, mr := newTestCache(t, 0)

	require.NoError(t, c.Set(ctx, "summary", snapshot{Rides: 1}))
	require.NoError(t, c.Set(ctx, "tickets", snapshot{Rides: 2}))
	require.NoError(t, mr.Set("unrelated", "keep"))

	require.NoError(t, c.Invalidate(ctx))

	assert.False(t, mr.Exists("ledger:report:summary"))
	assert.False(t, mr.Exists("ledger:report:tickets"))
	assert.True(t, mr.Exists("unrelated"))
}

func TestReportCache_InvalidateEmpty(t *testing.T) {
	c, _ := newTestCache(t, 0)
	assert.NoError(t, c.Invalidate(context.Background()))
}

func TestNewRedisClient_Ping(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), Config{
		Host:        mr.Host(),
		Port:        mr.Port(),
		DialTimeout: time.Second,
		ReadTimeout: time.Second,
	})
	require.NoError(t, err)
	defer Close(client)

	stats := GetClientStats(client)
	assert.Contains(t, stats, "total_conns")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port := mr.Host(), mr.Port()
	mr.Close()

	_, err := NewRedisClient(context.Background(), Config{
		Host:        host,
		Port:        port,
		DialTimeout: 200 * time.Millisecond,
		ReadTimeout: 200 * time.Millisecond,
	})
	assert.Error(t, err)
}
