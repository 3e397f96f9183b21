package service

import (
	"context"
	"fmt"

	"gmbot/events"
	"gmbot/models"
)

type economyService struct {
	uowFactory UnitOfWorkFactory
}

// NewEconomyService creates a new economy service
func NewEconomyService(uowFactory UnitOfWorkFactory) EconomyService {
	return &economyService{
		uowFactory: uowFactory,
	}
}

// Balance returns the current wallet amount, creating a zero wallet on first access
func (s *economyService) Balance(ctx context.Context, userID, guildID int64, kind models.ResourceKind) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	wallet, err := uow.WalletRepository().GetOrCreate(ctx, userID, guildID, kind)
	if err != nil {
		return 0, err
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return wallet.Amount, nil
}

// Balances returns the amounts of all resource kinds at once
func (s *economyService) Balances(ctx context.Context, userID, guildID int64) (map[models.ResourceKind]int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	kinds := []models.ResourceKind{models.ResourceVault, models.ResourceTalent, models.ResourceLuckyDice}
	balances := make(map[models.ResourceKind]int64, len(kinds))
	for _, kind := range kinds {
		wallet, err := uow.WalletRepository().GetOrCreate(ctx, userID, guildID, kind)
		if err != nil {
			return nil, err
		}
		balances[kind] = wallet.Amount
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balances, nil
}

// Credit increments a wallet and appends a ledger entry atomically
func (s *economyService) Credit(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64, reason string) (int64, error) {
	if amount <= 0 {
		return s.Balance(ctx, userID, guildID, kind)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	balance, err := uow.WalletRepository().Add(ctx, userID, guildID, kind, amount)
	if err != nil {
		return 0, err
	}

	entry := &models.LedgerEntry{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        amount,
		Reason:       reason,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        amount,
		NewBalance:   balance,
		Reason:       reason,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return balance, nil
}

// Debit decrements a wallet and appends a ledger entry atomically. The wallet
// update and the insufficient-funds check are one statement, so concurrent
// debits can never overdraw.
func (s *economyService) Debit(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64, reason string) (bool, int64, error) {
	if amount <= 0 {
		return false, 0, fmt.Errorf("debit amount must be positive, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ok, balance, err := uow.WalletRepository().Deduct(ctx, userID, guildID, kind, amount)
	if err != nil {
		return false, 0, err
	}
	if !ok {
		// Refused debits leave no ledger trace.
		if err := uow.Commit(); err != nil {
			return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return false, balance, nil
	}

	entry := &models.LedgerEntry{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        -amount,
		Reason:       reason,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return false, 0, err
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        -amount,
		NewBalance:   balance,
		Reason:       reason,
	})

	if err := uow.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, balance, nil
}
