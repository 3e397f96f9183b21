package repository

import (
	"context"
	"testing"

	"gmbot/models"
	"gmbot/repository/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLedgerRepository_AppendAndListByReason(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	memberRepo := NewMemberRepository(testDB.DB)
	ctx := context.Background()

	seedMember(t, memberRepo, 100, 1)

	deltas := []int64{17, 1205, 603}
	for _, delta := range deltas {
		entry := testutil.CreateTestLedgerEntry(100, 1, models.ResourceVault, delta, models.ReasonLotteryPayout)
		require.NoError(t, repo.Append(ctx, entry))
		assert.NotZero(t, entry.ID)
		assert.False(t, entry.CreatedAt.IsZero())
	}

	// Entries with other reasons or kinds must not leak into the listing.
	other := testutil.CreateTestLedgerEntry(100, 1, models.ResourceVault, -50, models.ReasonWithdraw)
	require.NoError(t, repo.Append(ctx, other))
	talent := testutil.CreateTestLedgerEntry(100, 1, models.ResourceTalent, -1, models.ReasonLotteryPlay)
	require.NoError(t, repo.Append(ctx, talent))

	entries, err := repo.ListByReason(ctx, 100, 1, models.ResourceVault, models.ReasonLotteryPayout)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	for i, entry := range entries {
		assert.Equal(t, deltas[i], entry.Delta)
		assert.Equal(t, models.ReasonLotteryPayout, entry.Reason)
		if i > 0 {
			assert.False(t, entry.CreatedAt.Before(entries[i-1].CreatedAt))
		}
	}
}

func TestLedgerRepository_ListByReason_Empty(t *testing.T) {
	t.Parallel()
	testDB := testutil.SetupTestDatabase(t)

	repo := NewLedgerRepository(testDB.DB)
	ctx := context.Background()

	entries, err := repo.ListByReason(ctx, 42, 1, models.ResourceVault, models.ReasonLotteryPayout)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
