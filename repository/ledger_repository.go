package repository

import (
	"context"
	"fmt"

	"gmbot/database"
	"gmbot/models"
)

// LedgerRepository implements the service.LedgerRepository interface
type LedgerRepository struct {
	q queryable
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{q: db.Pool}
}

// newLedgerRepositoryWithTx creates a new ledger repository with a transaction
func newLedgerRepositoryWithTx(tx queryable) *LedgerRepository {
	return &LedgerRepository{q: tx}
}

// Append records one balance change. Entries are append-only; nothing in the
// codebase updates or deletes them.
func (r *LedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (user_id, guild_id, resource_kind, delta, reason)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		entry.UserID,
		entry.GuildID,
		entry.ResourceKind,
		entry.Delta,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to append ledger entry for user %d: %w", entry.UserID, err)
	}

	return nil
}

// ListByReason returns entries for one wallet and reason, oldest first
func (r *LedgerRepository) ListByReason(ctx context.Context, userID, guildID int64, kind models.ResourceKind, reason string) ([]*models.LedgerEntry, error) {
	query := `
		SELECT id, user_id, guild_id, resource_kind, delta, reason, created_at
		FROM ledger_entries
		WHERE user_id = $1 AND guild_id = $2 AND resource_kind = $3 AND reason = $4
		ORDER BY created_at, id
	`

	rows, err := r.q.Query(ctx, query, userID, guildID, kind, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries for user %d: %w", userID, err)
	}
	defer rows.Close()

	var entries []*models.LedgerEntry
	for rows.Next() {
		var entry models.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.GuildID,
			&entry.ResourceKind,
			&entry.Delta,
			&entry.Reason,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ledger entries: %w", err)
	}

	return entries, nil
}
