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

func newTestHelper(t *testing.T) (*CacheHelper, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewCacheHelper(client, "bootcamp:"), mr
}

func TestCacheHelper_SetGet(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	type record struct {
		ID   uint   `json:"id"`
		Name string `json:"name"`
	}

	require.NoError(t, helper.Set(ctx, "id:1", record{ID: 1, Name: "Devworks"}, time.Minute))

	var got record
	require.NoError(t, helper.Get(ctx, "id:1", &got))
	assert.Equal(t, uint(1), got.ID)
	assert.Equal(t, "Devworks", got.Name)
}

func TestCacheHelper_GetMiss(t *testing.T) {
	helper, _ := newTestHelper(t)

	var got map[string]interface{}
	err := helper.Get(context.Background(), "id:404", &got)
	assert.ErrorIs(t, err, ErrCacheNotFound)
}

func TestCacheHelper_NilClientDegradesGracefully(t *testing.T) {
	helper := NewCacheHelper(nil, "bootcamp:")
	ctx := context.Background()

	assert.NoError(t, helper.Set(ctx, "id:1", "x", time.Minute))
	assert.ErrorIs(t, helper.Get(ctx, "id:1", new(string)), ErrCacheNotAvailable)
	assert.NoError(t, helper.Delete(ctx, "id:1"))
	assert.NoError(t, helper.InvalidatePattern(ctx, "*"))
}

func TestCacheHelper_CacheOrExecute(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	calls := 0
	load := func() (interface{}, error) {
		calls++
		return map[string]string{"name": "Devworks"}, nil
	}

	var first map[string]string
	require.NoError(t, helper.CacheOrExecute(ctx, "id:7", &first, time.Minute, load))
	assert.Equal(t, 1, calls)

	var second map[string]string
	require.NoError(t, helper.CacheOrExecute(ctx, "id:7", &second, time.Minute, load))
	assert.Equal(t, 1, calls, "second read should hit the cache")
	assert.Equal(t, first, second)
}

func TestCacheHelper_InvalidatePattern(t *testing.T) {
	helper, _ := newTestHelper(t)
	ctx := context.Background()

	require.NoError(t, helper.Set(ctx, "list:p1", "a", time.Minute))
	require.NoError(t, helper.Set(ctx, "list:p2", "b", time.Minute))
	require.NoError(t, helper.Set(ctx, "id:1", "c", time.Minute))

	require.NoError(t, helper.InvalidatePattern(ctx, "list:*"))

	assert.ErrorIs(t, helper.Get(ctx, "list:p1", new(string)), ErrCacheNotFound)
	assert.ErrorIs(t, helper.Get(ctx, "list:p2", new(string)), ErrCacheNotFound)
	assert.NoError(t, helper.Get(ctx, "id:1", new(string)))
}
