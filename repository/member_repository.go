package repository

import (
	"context"
	"fmt"

	"gmbot/database"
	"gmbot/models"
)

// MemberRepository implements the service.MemberRepository interface
type MemberRepository struct {
	q queryable
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{q: db.Pool}
}

// newMemberRepositoryWithTx creates a new member repository with a transaction
func newMemberRepositoryWithTx(tx queryable) *MemberRepository {
	return &MemberRepository{q: tx}
}

// Ensure idempotently upserts the user, guild and member rows. Names and
// nicknames are refreshed when they drift from what Discord reports. Returns
// whether the member row was newly created.
func (r *MemberRepository) Ensure(ctx context.Context, userID int64, username string, guildID int64, guildName string, nickname *string) (*models.Member, bool, error) {
	userQuery := `
		INSERT INTO users (id, username)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET username = EXCLUDED.username
	`
	if _, err := r.q.Exec(ctx, userQuery, userID, username); err != nil {
		return nil, false, fmt.Errorf("failed to upsert user %d: %w", userID, err)
	}

	guildQuery := `
		INSERT INTO guilds (id, name)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET name = EXCLUDED.name
	`
	if _, err := r.q.Exec(ctx, guildQuery, guildID, guildName); err != nil {
		return nil, false, fmt.Errorf("failed to upsert guild %d: %w", guildID, err)
	}

	memberQuery := `
		INSERT INTO guild_members (user_id, guild_id, role, nickname)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, guild_id) DO UPDATE
		SET nickname = EXCLUDED.nickname, updated_at = NOW()
		RETURNING user_id, guild_id, role, nickname, created_at, updated_at,
		          (created_at = updated_at) AS inserted
	`

	var member models.Member
	var inserted bool
	err := r.q.QueryRow(ctx, memberQuery, userID, guildID, models.RoleUser, nickname).Scan(
		&member.UserID,
		&member.GuildID,
		&member.Role,
		&member.Nickname,
		&member.CreatedAt,
		&member.UpdatedAt,
		&inserted,
	)
	if err != nil {
		return nil, false, fmt.Errorf("failed to upsert member %d in guild %d: %w", userID, guildID, err)
	}

	member.Username = username
	return &member, inserted, nil
}

// Get retrieves a member with the username joined in, or nil when unknown
func (r *MemberRepository) Get(ctx context.Context, userID, guildID int64) (*models.Member, error) {
	query := `
		SELECT gm.user_id, gm.guild_id, gm.role, gm.nickname, gm.created_at, gm.updated_at,
		       u.username
		FROM guild_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.user_id = $1 AND gm.guild_id = $2
	`

	var member models.Member
	err := r.q.QueryRow(ctx, query, userID, guildID).Scan(
		&member.UserID,
		&member.GuildID,
		&member.Role,
		&member.Nickname,
		&member.CreatedAt,
		&member.UpdatedAt,
		&member.Username,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member %d in guild %d: %w", userID, guildID, err)
	}

	return &member, nil
}

// GetByNickname retrieves a member by exact guild nickname, or nil. When two
// members share a nickname the one with the smallest user id wins, so repeated
// lookups stay deterministic.
func (r *MemberRepository) GetByNickname(ctx context.Context, guildID int64, nickname string) (*models.Member, error) {
	query := `
		SELECT gm.user_id, gm.guild_id, gm.role, gm.nickname, gm.created_at, gm.updated_at,
		       u.username
		FROM guild_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.guild_id = $1 AND gm.nickname = $2
		ORDER BY gm.user_id
		LIMIT 1
	`

	var member models.Member
	err := r.q.QueryRow(ctx, query, guildID, nickname).Scan(
		&member.UserID,
		&member.GuildID,
		&member.Role,
		&member.Nickname,
		&member.CreatedAt,
		&member.UpdatedAt,
		&member.Username,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get member by nickname in guild %d: %w", guildID, err)
	}

	return &member, nil
}

// SetRole updates a member's role level
func (r *MemberRepository) SetRole(ctx context.Context, userID, guildID int64, role models.RoleLevel) error {
	query := `
		UPDATE guild_members
		SET role = $3, updated_at = NOW()
		WHERE user_id = $1 AND guild_id = $2
	`

	tag, err := r.q.Exec(ctx, query, userID, guildID, role)
	if err != nil {
		return fmt.Errorf("failed to set role for member %d in guild %d: %w", userID, guildID, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("member %d in guild %d does not exist", userID, guildID)
	}

	return nil
}
