package report

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisCache(t *testing.T) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCache(client, time.Minute)
}

func TestFetchJSONPopulatesAndReuses(t *testing.T) {
	cache := newRedisCache(t)
	ctx := context.Background()

	key, err := cache.BuildKey(ctx, "report", "spend", "2026")
	require.NoError(t, err)

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return map[string]int{"total": 175}, nil
	}

	var first, second map[string]int
	require.NoError(t, cache.FetchJSON(ctx, key, &first, loader))
	require.NoError(t, cache.FetchJSON(ctx, key, &second, loader))

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
}

func TestBumpChangesEveryKey(t *testing.T) {
	cache := newRedisCache(t)
	ctx := context.Background()

	before, err := cache.BuildKey(ctx, "report", "spend", "2026")
	require.NoError(t, err)
	require.NoError(t, cache.Bump(ctx))
	after, err := cache.BuildKey(ctx, "report", "spend", "2026")
	require.NoError(t, err)

	assert.NotEqual(t, before, after)
}

func TestNilClientIsPassThrough(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	calls := 0
	loader := func(context.Context) (any, error) {
		calls++
		return []int{1, 2, 3}, nil
	}

	var out []int
	require.NoError(t, cache.FetchJSON(ctx, "k", &out, loader))
	require.NoError(t, cache.FetchJSON(ctx, "k", &out, loader))
	assert.Equal(t, 2, calls)
	assert.Equal(t, []int{1, 2, 3}, out)
	assert.NoError(t, cache.Bump(ctx))
}
