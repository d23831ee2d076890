package redis

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*ResultCache, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return New(rdb), mr
}

func TestCacheSetGetRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r-1", []byte(`{"status":"completed"}`), time.Minute))
	val, ok, err := c.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"status":"completed"}`, string(val))
}

func TestCacheMissReportsNoError(t *testing.T) {
	c, _ := newTestCache(t)

	val, ok, err := c.Get(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestCacheExpiry(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "r-1", []byte("x"), time.Second))
	mr.FastForward(2 * time.Second)

	_, ok, err := c.Get(ctx, "r-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewNilClient(t *testing.T) {
	assert.Nil(t, New(nil))
	assert.Nil(t, NewClient(""))
}
