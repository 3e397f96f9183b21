package repository

import (
	"context"
	"fmt"

	"gmbot/database"
	"gmbot/models"
)

// WalletRepository implements the service.WalletRepository interface
type WalletRepository struct {
	q queryable
}

// NewWalletRepository creates a new wallet repository
func NewWalletRepository(db *database.DB) *WalletRepository {
	return &WalletRepository{q: db.Pool}
}

// newWalletRepositoryWithTx creates a new wallet repository with a transaction
func newWalletRepositoryWithTx(tx queryable) *WalletRepository {
	return &WalletRepository{q: tx}
}

// GetOrCreate retrieves a wallet, creating it with amount 0 if missing
func (r *WalletRepository) GetOrCreate(ctx context.Context, userID, guildID int64, kind models.ResourceKind) (*models.Wallet, error) {
	query := `
		INSERT INTO wallets (user_id, guild_id, resource_kind, amount)
		VALUES ($1, $2, $3, 0)
		ON CONFLICT (user_id, guild_id, resource_kind) DO UPDATE
		SET amount = wallets.amount
		RETURNING user_id, guild_id, resource_kind, amount
	`

	var wallet models.Wallet
	err := r.q.QueryRow(ctx, query, userID, guildID, kind).Scan(
		&wallet.UserID,
		&wallet.GuildID,
		&wallet.ResourceKind,
		&wallet.Amount,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create wallet for user %d: %w", userID, err)
	}

	return &wallet, nil
}

// Add adds to a wallet atomically and returns the new balance, creating the
// wallet if it does not exist
func (r *WalletRepository) Add(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (int64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("amount must be positive")
	}

	query := `
		INSERT INTO wallets (user_id, guild_id, resource_kind, amount)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id, resource_kind) DO UPDATE
		SET amount = wallets.amount + EXCLUDED.amount
		RETURNING amount
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, userID, guildID, kind, amount).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("failed to add balance for user %d: %w", userID, err)
	}

	return balance, nil
}

// Deduct deducts from a wallet atomically, refusing to go below zero. The
// guard is the conditional UPDATE itself: two concurrent deducts cannot both
// pass when only one can be satisfied.
func (r *WalletRepository) Deduct(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (bool, int64, error) {
	if amount <= 0 {
		return false, 0, fmt.Errorf("amount must be positive")
	}

	query := `
		UPDATE wallets
		SET amount = amount - $4
		WHERE user_id = $1 AND guild_id = $2 AND resource_kind = $3
		  AND amount >= $4
		RETURNING amount
	`

	var balance int64
	err := r.q.QueryRow(ctx, query, userID, guildID, kind, amount).Scan(&balance)
	if err == nil {
		return true, balance, nil
	}
	if !isNoRows(err) {
		return false, 0, fmt.Errorf("failed to deduct balance for user %d: %w", userID, err)
	}

	// Insufficient funds or missing wallet; report the current balance.
	wallet, err := r.GetOrCreate(ctx, userID, guildID, kind)
	if err != nil {
		return false, 0, err
	}

	return false, wallet.Amount, nil
}
