package service

import (
	"math/rand"
	"testing"

	"gmbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeEntries(n int) []*models.RaceEntry {
	entries := make([]*models.RaceEntry, n)
	for i := range entries {
		entries[i] = &models.RaceEntry{RaceID: 1, UserID: int64(i + 1)}
	}
	return entries
}

func TestAssignFinishSeconds_DistinctWhenFewerThanDuration(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := makeEntries(5)

	plans := AssignFinishSeconds(rng, entries, 20)
	require.Len(t, plans, 5)

	seen := make(map[int]bool)
	for i, plan := range plans {
		assert.Same(t, entries[i], plan.Entry)
		assert.GreaterOrEqual(t, plan.FinishSecond, 1)
		assert.LessOrEqual(t, plan.FinishSecond, 20)
		assert.False(t, seen[plan.FinishSecond], "finish second %d assigned twice", plan.FinishSecond)
		seen[plan.FinishSecond] = true
	}
}

func TestAssignFinishSeconds_SteppedWhenOverCapacity(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	entries := makeEntries(30)

	plans := AssignFinishSeconds(rng, entries, 20)
	require.Len(t, plans, 30)

	for _, plan := range plans {
		assert.GreaterOrEqual(t, plan.FinishSecond, 1)
		assert.LessOrEqual(t, plan.FinishSecond, 20)
	}
}

func TestAssignFinishSeconds_EveryoneFinishesByDuration(t *testing.T) {
	for _, n := range []int{2, 8, 20, 45} {
		rng := rand.New(rand.NewSource(int64(n)))
		plans := AssignFinishSeconds(rng, makeEntries(n), 20)
		for _, plan := range plans {
			assert.LessOrEqual(t, plan.FinishSecond, 20)
		}
	}
}

func TestAssignFinishSeconds_EmptyRoster(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Nil(t, AssignFinishSeconds(rng, nil, 20))
	assert.Nil(t, AssignFinishSeconds(rng, makeEntries(3), 0))
}

func TestRanking(t *testing.T) {
	entries := makeEntries(4)
	plans := []LanePlan{
		{Entry: entries[0], FinishSecond: 12},
		{Entry: entries[1], FinishSecond: 3},
		{Entry: entries[2], FinishSecond: 3},
		{Entry: entries[3], FinishSecond: 7},
	}

	ranked := Ranking(plans)
	require.Len(t, ranked, 4)

	assert.Equal(t, int64(2), ranked[0].Entry.UserID)
	// Ties keep lane order.
	assert.Equal(t, int64(3), ranked[1].Entry.UserID)
	assert.Equal(t, int64(4), ranked[2].Entry.UserID)
	assert.Equal(t, int64(1), ranked[3].Entry.UserID)

	// Input order is untouched.
	assert.Equal(t, 12, plans[0].FinishSecond)
}
