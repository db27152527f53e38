package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrail/bootcamp-service/internal/cache"
)

func newTestCacheManager(t *testing.T) (*cache.CacheManager, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return cache.NewCacheManager(client), mr
}

func TestTxInvalidations_FlushDropsPrimedKeys(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Bootcamp.Set(ctx, "id:1", map[string]any{"id": 1}, time.Minute))
	require.NoError(t, cm.User.Set(ctx, "id:7", map[string]any{"id": 7}, time.Minute))
	require.True(t, mr.Exists("bootcamp:id:1"))
	require.True(t, mr.Exists("user:id:7"))

	pending := &txInvalidations{}
	pending.addBootcamp(1)
	pending.addUser(7)
	pending.flush(ctx, cm)

	assert.False(t, mr.Exists("bootcamp:id:1"))
	assert.False(t, mr.Exists("user:id:7"))
}

func TestTxInvalidations_FlushWithoutCacheManager(t *testing.T) {
	pending := &txInvalidations{}
	pending.addBootcamp(1)
	pending.flush(context.Background(), nil)
}

// A transactional repository must not touch Redis while the transaction is
// still open; its delete only takes effect through the commit-time flush.
func TestBootcampRepository_InvalidationDeferredInsideTransaction(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	require.NoError(t, cm.Bootcamp.Set(ctx, "id:1", map[string]any{"id": 1}, time.Minute))

	pending := &txInvalidations{}
	txRepo := &BootcampPostgreSQL{pending: pending}
	txRepo.invalidate(ctx, 1)

	assert.True(t, mr.Exists("bootcamp:id:1"), "key dropped before commit")
	assert.Equal(t, []uint{1}, pending.bootcampIDs)

	pending.flush(ctx, cm)
	assert.False(t, mr.Exists("bootcamp:id:1"))
}

func TestUserRepository_InvalidationDeferredInsideTransaction(t *testing.T) {
	cm, mr := newTestCacheManager(t)
	ctx := context.Background()

	require.NoError(t, cm.User.Set(ctx, "id:7", map[string]any{"id": 7}, time.Minute))

	pending := &txInvalidations{}
	txRepo := &UserPostgreSQL{pending: pending}
	txRepo.invalidate(ctx, 7)

	assert.True(t, mr.Exists("user:id:7"), "key dropped before commit")

	pending.flush(ctx, cm)
	assert.False(t, mr.Exists("user:id:7"))
}
