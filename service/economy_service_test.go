package service

import (
	"context"
	"testing"

	"gmbot/events"
	"gmbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newEconomyFixture() (*MockUnitOfWorkFactory, *MockUnitOfWork, *MockWalletRepository, *MockLedgerRepository, *MockEventPublisher) {
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWalletRepo := new(MockWalletRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockWalletRepo, mockLedgerRepo, nil, nil, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)

	return mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockPublisher
}

func TestEconomyService_Credit(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockPublisher := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWalletRepo.On("Add", ctx, int64(1), int64(10), models.ResourceVault, int64(500)).Return(int64(500), nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 1 && e.GuildID == 10 &&
			e.ResourceKind == models.ResourceVault &&
			e.Delta == 500 && e.Reason == models.ReasonDeposit
	})).Return(nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		change, ok := e.(events.BalanceChangeEvent)
		return ok && change.Delta == 500 && change.NewBalance == 500
	})).Return()

	balance, err := service.Credit(ctx, 1, 10, models.ResourceVault, 500, models.ReasonDeposit)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	mockWalletRepo.AssertExpectations(t)
	mockLedgerRepo.AssertExpectations(t)
	mockPublisher.AssertExpectations(t)
}

func TestEconomyService_Credit_NonPositiveIsNoop(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, _ := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWalletRepo.On("GetOrCreate", ctx, int64(1), int64(10), models.ResourceVault).
		Return(&models.Wallet{UserID: 1, GuildID: 10, ResourceKind: models.ResourceVault, Amount: 42}, nil)

	balance, err := service.Credit(ctx, 1, 10, models.ResourceVault, 0, models.ReasonDeposit)
	require.NoError(t, err)
	assert.Equal(t, int64(42), balance)

	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
}

func TestEconomyService_Debit(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockPublisher := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWalletRepo.On("Deduct", ctx, int64(1), int64(10), models.ResourceVault, int64(30)).Return(true, int64(70), nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.Delta == -30 && e.Reason == models.ReasonWithdraw
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	ok, balance, err := service.Debit(ctx, 1, 10, models.ResourceVault, 30, models.ReasonWithdraw)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(70), balance)

	mockLedgerRepo.AssertExpectations(t)
}

func TestEconomyService_Debit_Insufficient(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, mockLedgerRepo, mockPublisher := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockWalletRepo.On("Deduct", ctx, int64(1), int64(10), models.ResourceVault, int64(200)).Return(false, int64(100), nil)

	ok, balance, err := service.Debit(ctx, 1, 10, models.ResourceVault, 200, models.ReasonWithdraw)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, int64(100), balance)

	// A refused debit leaves no ledger trace and publishes nothing.
	mockLedgerRepo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestEconomyService_Debit_RejectsNonPositive(t *testing.T) {
	ctx := context.Background()
	mockFactory, _, _, _, _ := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	_, _, err := service.Debit(ctx, 1, 10, models.ResourceVault, 0, models.ReasonWithdraw)
	assert.Error(t, err)
}

func TestEconomyService_Balances(t *testing.T) {
	ctx := context.Background()
	mockFactory, mockUoW, mockWalletRepo, _, _ := newEconomyFixture()
	service := NewEconomyService(mockFactory)

	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	amounts := map[models.ResourceKind]int64{
		models.ResourceVault:     1000,
		models.ResourceTalent:    3,
		models.ResourceLuckyDice: 0,
	}
	for kind, amount := range amounts {
		mockWalletRepo.On("GetOrCreate", ctx, int64(1), int64(10), kind).
			Return(&models.Wallet{UserID: 1, GuildID: 10, ResourceKind: kind, Amount: amount}, nil)
	}

	balances, err := service.Balances(ctx, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, amounts, balances)
}
