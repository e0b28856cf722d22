package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRedisLocker(t *testing.T, ttl time.Duration) (*miniredis.Miniredis, Locker) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, NewRedisLocker(rdb, ttl)
}

func TestRedisLockerAcquireAndContention(t *testing.T) {
	ctx := context.Background()
	mr, locker := newRedisLocker(t, 30*time.Second)

	release, err := locker.TryAcquire(ctx, "leaderboard:recompute")
	require.NoError(t, err)
	assert.True(t, mr.Exists("lock:leaderboard:recompute"))
	assert.Equal(t, 30*time.Second, mr.TTL("lock:leaderboard:recompute"))

	_, err = locker.TryAcquire(ctx, "leaderboard:recompute")
	require.ErrorIs(t, err, ErrNotAcquired)

	require.NoError(t, release(ctx))
	assert.False(t, mr.Exists("lock:leaderboard:recompute"))

	again, err := locker.TryAcquire(ctx, "leaderboard:recompute")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestRedisLockerReleaseChecksOwnerToken(t *testing.T) {
	ctx := context.Background()
	mr, locker := newRedisLocker(t, time.Second)

	stale, err := locker.TryAcquire(ctx, "leaderboard:recompute")
	require.NoError(t, err)

	// The lease expires and a second holder takes over.
	mr.FastForward(2 * time.Second)
	current, err := locker.TryAcquire(ctx, "leaderboard:recompute")
	require.NoError(t, err)
	owner, err := mr.Get("lock:leaderboard:recompute")
	require.NoError(t, err)

	require.NoError(t, stale(ctx))
	got, err := mr.Get("lock:leaderboard:recompute")
	require.NoError(t, err, "a stale release must not delete the new holder's key")
	assert.Equal(t, owner, got)

	require.NoError(t, current(ctx))
	assert.False(t, mr.Exists("lock:leaderboard:recompute"))
}

func TestRedisLockerSurfacesConnectionErrors(t *testing.T) {
	mr, locker := newRedisLocker(t, time.Second)
	mr.Close()

	_, err := locker.TryAcquire(context.Background(), "leaderboard:recompute")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotAcquired)
}
