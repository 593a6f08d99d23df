package cache

import (
	"context"
	"testing"
	"time"

	"sheets-editor-be/pkg/embed"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ embed.LinkCache = (*LinkCache)(nil)

func newCache(t *testing.T, ttl time.Duration) (*LinkCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return NewLinkCache(rdb, ttl), mr
}

func TestLinkCache(t *testing.T) {
	c, mr := newCache(t, time.Hour)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "https://pecha.link/abc")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.Set(ctx, "https://pecha.link/abc", "seg-1"))
	id, ok, err := c.Get(ctx, "https://pecha.link/abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "seg-1", id)

	assert.True(t, mr.Exists(linkKeyPrefix+"https://pecha.link/abc"))
}

func TestLinkCacheExpires(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "https://pecha.link/abc", "seg-1"))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "https://pecha.link/abc")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLinkCacheError(t *testing.T) {
	c, mr := newCache(t, time.Minute)
	mr.Close()

	_, ok, err := c.Get(context.Background(), "https://pecha.link/abc")
	assert.Error(t, err)
	assert.False(t, ok)
}
