package repository

import (
	"context"
	"fmt"

	"gmbot/database"
	"gmbot/models"
)

// RaceRepository implements the service.RaceRepository interface
type RaceRepository struct {
	q queryable
}

// NewRaceRepository creates a new race repository
func NewRaceRepository(db *database.DB) *RaceRepository {
	return &RaceRepository{q: db.Pool}
}

// newRaceRepositoryWithTx creates a new race repository with a transaction
func newRaceRepositoryWithTx(tx queryable) *RaceRepository {
	return &RaceRepository{q: tx}
}

const raceColumns = `id, guild_id, host_user_id, prep_message_id, race_message_id,
       status, created_at, started_at, finished_at`

func (r *RaceRepository) scanRace(row interface{ Scan(dest ...any) error }) (*models.Race, error) {
	var race models.Race
	err := row.Scan(
		&race.ID,
		&race.GuildID,
		&race.HostUserID,
		&race.PrepMessageID,
		&race.RaceMessageID,
		&race.Status,
		&race.CreatedAt,
		&race.StartedAt,
		&race.FinishedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to scan race: %w", err)
	}
	return &race, nil
}

// Create inserts a new PREPARED race
func (r *RaceRepository) Create(ctx context.Context, guildID, hostUserID, prepMessageID int64) (*models.Race, error) {
	query := `
		INSERT INTO races (guild_id, host_user_id, prep_message_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + raceColumns

	race, err := r.scanRace(r.q.QueryRow(ctx, query, guildID, hostUserID, prepMessageID, models.RaceStatusPrepared))
	if err != nil {
		return nil, fmt.Errorf("failed to create race for host %d: %w", hostUserID, err)
	}
	return race, nil
}

// GetByID retrieves a race, or nil when unknown
func (r *RaceRepository) GetByID(ctx context.Context, raceID int64) (*models.Race, error) {
	query := `SELECT ` + raceColumns + ` FROM races WHERE id = $1`
	return r.scanRace(r.q.QueryRow(ctx, query, raceID))
}

// GetActiveByHost returns the host's latest PREPARED or STARTED race, or nil
func (r *RaceRepository) GetActiveByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE guild_id = $1 AND host_user_id = $2 AND status IN ($3, $4)
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanRace(r.q.QueryRow(ctx, query, guildID, hostUserID,
		models.RaceStatusPrepared, models.RaceStatusStarted))
}

// GetLatestPreparedByHost returns the host's latest PREPARED race, or nil
func (r *RaceRepository) GetLatestPreparedByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE guild_id = $1 AND host_user_id = $2 AND status = $3
		ORDER BY id DESC
		LIMIT 1
	`
	return r.scanRace(r.q.QueryRow(ctx, query, guildID, hostUserID, models.RaceStatusPrepared))
}

// GetPreparedByPrepMessage resolves a PREPARED race from its prep message, or nil
func (r *RaceRepository) GetPreparedByPrepMessage(ctx context.Context, prepMessageID int64) (*models.Race, error) {
	query := `
		SELECT ` + raceColumns + `
		FROM races
		WHERE prep_message_id = $1 AND status = $2
	`
	return r.scanRace(r.q.QueryRow(ctx, query, prepMessageID, models.RaceStatusPrepared))
}

// AddEntry adds a roster entry. A re-join with a different emoji updates the
// emoji in place but still reports false.
func (r *RaceRepository) AddEntry(ctx context.Context, raceID, userID int64, emoji *string) (bool, error) {
	query := `
		INSERT INTO race_entries (race_id, user_id, emoji)
		VALUES ($1, $2, $3)
		ON CONFLICT (race_id, user_id) DO UPDATE SET emoji = EXCLUDED.emoji
		RETURNING (joined_at = NOW()) AS inserted
	`

	var inserted bool
	err := r.q.QueryRow(ctx, query, raceID, userID, emoji).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to add race entry for user %d: %w", userID, err)
	}
	return inserted, nil
}

// RemoveEntry removes a roster entry, reporting whether one existed
func (r *RaceRepository) RemoveEntry(ctx context.Context, raceID, userID int64) (bool, error) {
	query := `DELETE FROM race_entries WHERE race_id = $1 AND user_id = $2`

	tag, err := r.q.Exec(ctx, query, raceID, userID)
	if err != nil {
		return false, fmt.Errorf("failed to remove race entry for user %d: %w", userID, err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListEntries returns the roster in join order
func (r *RaceRepository) ListEntries(ctx context.Context, raceID int64) ([]*models.RaceEntry, error) {
	query := `
		SELECT race_id, user_id, emoji, joined_at
		FROM race_entries
		WHERE race_id = $1
		ORDER BY joined_at, user_id
	`

	rows, err := r.q.Query(ctx, query, raceID)
	if err != nil {
		return nil, fmt.Errorf("failed to query race entries for race %d: %w", raceID, err)
	}
	defer rows.Close()

	var entries []*models.RaceEntry
	for rows.Next() {
		var entry models.RaceEntry
		err := rows.Scan(&entry.RaceID, &entry.UserID, &entry.Emoji, &entry.JoinedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan race entry: %w", err)
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate race entries: %w", err)
	}

	return entries, nil
}

// MarkStarted transitions PREPARED -> STARTED and records the message the
// animation renders into
func (r *RaceRepository) MarkStarted(ctx context.Context, raceID, raceMessageID int64) error {
	query := `
		UPDATE races
		SET status = $2, race_message_id = $3, started_at = NOW()
		WHERE id = $1 AND status = $4
	`

	tag, err := r.q.Exec(ctx, query, raceID, models.RaceStatusStarted, raceMessageID, models.RaceStatusPrepared)
	if err != nil {
		return fmt.Errorf("failed to mark race %d started: %w", raceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("race %d is not in PREPARED state", raceID)
	}

	return nil
}

// MarkFinished transitions a race to FINISHED
func (r *RaceRepository) MarkFinished(ctx context.Context, raceID int64) error {
	query := `
		UPDATE races
		SET status = $2, finished_at = NOW()
		WHERE id = $1 AND status != $2
	`

	tag, err := r.q.Exec(ctx, query, raceID, models.RaceStatusFinished)
	if err != nil {
		return fmt.Errorf("failed to mark race %d finished: %w", raceID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("race %d is already finished or does not exist", raceID)
	}

	return nil
}
