package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalLockerExcludesConcurrentHolders(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	release, err := locker.TryAcquire(ctx, "leaderboard")
	require.NoError(t, err)

	_, err = locker.TryAcquire(ctx, "leaderboard")
	require.ErrorIs(t, err, ErrNotAcquired)

	other, err := locker.TryAcquire(ctx, "other-key")
	require.NoError(t, err, "keys are independent")
	require.NoError(t, other(ctx))

	require.NoError(t, release(ctx))
	require.NoError(t, release(ctx), "release is idempotent")

	again, err := locker.TryAcquire(ctx, "leaderboard")
	require.NoError(t, err)
	require.NoError(t, again(ctx))
}

func TestLocalLockerSingleWinner(t *testing.T) {
	ctx := context.Background()
	locker := NewLocalLocker()

	var (
		wg       sync.WaitGroup
		winners  atomic.Int32
		start    = make(chan struct{})
		releases = make(chan func(context.Context) error, 16)
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			release, err := locker.TryAcquire(ctx, "leaderboard")
			if err == nil {
				winners.Add(1)
				releases <- release
			}
		}()
	}
	close(start)
	wg.Wait()
	close(releases)

	require.Equal(t, int32(1), winners.Load())
	for release := range releases {
		require.NoError(t, release(ctx))
	}
}
