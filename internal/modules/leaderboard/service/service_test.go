package service

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"octofit.com/tracker/internal/entity"
	"octofit.com/tracker/internal/modules/leaderboard/dto"
	"octofit.com/tracker/pkg/apperror"
	"octofit.com/tracker/pkg/lock"
)

func newTestService(store *memoryStore, locker lock.Locker, pub *capturePublisher) LeaderboardService {
	if pub == nil {
		pub = &capturePublisher{}
	}
	return NewLeaderboardService(
		memoryLeaderboard{store},
		memoryUsers{store},
		memoryActivities{store},
		locker,
		pub,
		nil,
	)
}

func TestAggregateMatchesSumAndCount(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	ids := []string{"u-1", "u-2", "u-3"}

	for round := 0; round < 50; round++ {
		var (
			activities []entity.Activity
			wantCal    = map[string]int{}
			wantCount  = map[string]int{}
		)
		for i := rng.IntN(40); i > 0; i-- {
			id := ids[rng.IntN(len(ids))]
			cal := 1 + rng.IntN(800)
			activities = append(activities, entity.Activity{UserID: id, Calories: cal})
			wantCal[id] += cal
			wantCount[id]++
		}

		for _, id := range ids {
			got := Aggregate(activities, id)
			assert.Equal(t, wantCal[id], got.TotalCalories, "round %d user %s", round, id)
			assert.Equal(t, wantCount[id], got.TotalActivities, "round %d user %s", round, id)
		}
	}
}

func TestAggregateWithoutActivities(t *testing.T) {
	store := &memoryStore{}
	user := store.addUser("Thor", "")
	store.addActivity("someone-else", 250)

	totals, err := newTestService(store, nil, nil).Aggregate(context.Background(), user.ID.String())
	require.NoError(t, err)
	assert.Equal(t, Totals{UserID: user.ID.String()}, *totals)
}

func TestRankOrdersByCaloriesWithRowNumbers(t *testing.T) {
	store := &memoryStore{}
	low := store.addUser("Low", "Team DC")
	high := store.addUser("High", "Team Marvel")
	store.addUser("Idle", "")
	store.addActivity(low.ID.String(), 100)
	store.addActivity(high.ID.String(), 400)
	store.addActivity(high.ID.String(), 50)

	entries := Rank(store.users, store.activities)

	require.Len(t, entries, 3)
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
		if i > 0 {
			assert.GreaterOrEqual(t, entries[i-1].TotalCalories, e.TotalCalories)
		}
	}
	assert.Equal(t, "High", entries[0].UserName)
	assert.Equal(t, "Team Marvel", entries[0].Team)
	assert.Equal(t, 2, entries[0].TotalActivities)
	assert.Equal(t, "Idle", entries[2].UserName)
	assert.Zero(t, entries[2].TotalCalories)
	assert.Empty(t, entries[2].Team)
}

func TestRankComparesExtremeTotalsWithoutOverflow(t *testing.T) {
	store := &memoryStore{}
	huge := store.addUser("Huge", "")
	negative := store.addUser("Negative", "")
	store.addActivity(huge.ID.String(), math.MaxInt)
	store.addActivity(negative.ID.String(), -2)

	entries := Rank([]entity.User{store.users[1], store.users[0]}, store.activities)

	require.Len(t, entries, 2)
	assert.Equal(t, "Huge", entries[0].UserName)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Negative", entries[1].UserName)
}

func TestRecomputeTieBreaksByInsertionOrder(t *testing.T) {
	store := &memoryStore{}
	a := store.addUser("A", "")
	b := store.addUser("B", "")
	store.addActivity(b.ID.String(), 300)
	store.addActivity(a.ID.String(), 100)
	store.addActivity(a.ID.String(), 200)

	entries, err := newTestService(store, nil, nil).Recompute(context.Background())
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, a.ID.String(), entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 300, entries[0].TotalCalories)
	assert.Equal(t, 2, entries[0].TotalActivities)

	assert.Equal(t, b.ID.String(), entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 300, entries[1].TotalCalories)
	assert.Equal(t, 1, entries[1].TotalActivities)

	assert.Len(t, store.rows, 2, "rows are persisted")
}

func TestRecomputeIsIdempotent(t *testing.T) {
	store := &memoryStore{}
	for _, name := range []string{"Iron Man", "Captain America", "Thor", "Hulk"} {
		u := store.addUser(name, "Team Marvel")
		store.addActivity(u.ID.String(), 200)
	}
	svc := newTestService(store, nil, nil)

	first, err := svc.Recompute(context.Background())
	require.NoError(t, err)
	second, err := svc.Recompute(context.Background())
	require.NoError(t, err)

	assert.Equal(t, strip(first), strip(second))
	assert.Equal(t, 2, store.replaces)
}

func TestRecomputeWithoutUsersClearsRows(t *testing.T) {
	store := &memoryStore{
		rows: []entity.Leaderboard{{ID: uuid.Must(uuid.NewV7()), UserID: "stale", Rank: 1}},
	}

	entries, err := newTestService(store, nil, nil).Recompute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Empty(t, store.rows)
}

func TestAggregateKeepsOrphanedActivities(t *testing.T) {
	store := &memoryStore{}
	c := store.addUser("C", "")
	store.addActivity(c.ID.String(), 500)
	store.deleteUser(c.ID)
	svc := newTestService(store, nil, nil)

	totals, err := svc.Aggregate(context.Background(), c.ID.String())
	require.NoError(t, err)
	assert.Equal(t, 500, totals.TotalCalories)
	assert.Equal(t, 1, totals.TotalActivities)

	entries, err := svc.Recompute(context.Background())
	require.NoError(t, err)
	assert.Empty(t, entries, "deleted users get no leaderboard row")
}

func TestRecomputeRejectsConcurrentRun(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	store.addUser("A", "")
	locker := lock.NewLocalLocker()

	release, err := locker.TryAcquire(ctx, RecomputeLockKey)
	require.NoError(t, err)

	_, err = newTestService(store, locker, nil).Recompute(ctx)
	require.ErrorIs(t, err, apperror.ErrRecomputeInProgress)
	assert.Zero(t, store.replaces, "a rejected run must not touch the table")

	require.NoError(t, release(ctx))
	_, err = newTestService(store, locker, nil).Recompute(ctx)
	require.NoError(t, err)
}

func TestRecomputeSurfacesPersistenceFailure(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{replaceErr: errors.New("connection reset")}
	store.addUser("A", "")
	pub := &capturePublisher{}
	locker := lock.NewLocalLocker()

	_, err := newTestService(store, locker, pub).Recompute(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.Empty(t, pub.events, "nothing is announced for a failed rebuild")

	release, err := locker.TryAcquire(ctx, RecomputeLockKey)
	require.NoError(t, err, "the lock is released after a failure")
	require.NoError(t, release(ctx))
}

func TestRecomputePublishesEvent(t *testing.T) {
	store := &memoryStore{}
	store.addUser("A", "")
	pub := &capturePublisher{err: errors.New("broker unavailable")}

	entries, err := newTestService(store, nil, pub).Recompute(context.Background())
	require.NoError(t, err, "publish failures do not fail a committed rebuild")

	require.Len(t, pub.events, 1)
	assert.Equal(t, EventRecomputed, pub.events[0].Name)
	payload, ok := pub.events[0].Payload.(RecomputedPayload)
	require.True(t, ok)
	assert.Equal(t, entries, payload.Entries)
}

func TestDirectWritesAreOverwrittenByRecompute(t *testing.T) {
	ctx := context.Background()
	store := &memoryStore{}
	u := store.addUser("A", "")
	store.addActivity(u.ID.String(), 120)
	svc := newTestService(store, nil, nil)

	written, err := svc.Create(ctx, dto.LeaderboardRequest{UserID: "manual", UserName: "Manual", TotalCalories: 9999, Rank: 1})
	require.NoError(t, err)

	rank := 3
	patched, err := svc.Patch(ctx, written.ID, dto.PatchLeaderboardRequest{Rank: &rank})
	require.NoError(t, err)
	assert.Equal(t, 3, patched.Rank)
	assert.Equal(t, 9999, patched.TotalCalories)

	_, err = svc.Recompute(ctx)
	require.NoError(t, err)

	_, err = svc.GetByID(ctx, written.ID)
	require.ErrorIs(t, err, apperror.ErrNotFound)
	rows, err := svc.List(ctx, dto.LeaderboardFilter{})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, u.ID.String(), rows[0].UserID)
}

func TestDeleteMissingEntry(t *testing.T) {
	err := newTestService(&memoryStore{}, nil, nil).Delete(context.Background(), uuid.Must(uuid.NewV7()))
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

// strip drops the generated row ids so two rebuilds can be compared.
func strip(entries []entity.Leaderboard) []entity.Leaderboard {
	out := make([]entity.Leaderboard, len(entries))
	for i, e := range entries {
		e.ID = uuid.Nil
		out[i] = e
	}
	return out
}
