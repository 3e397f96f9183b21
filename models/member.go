package models

import (
	"fmt"
	"time"
)

// RoleLevel is an ordered permission level for a guild member.
// Higher values include the permissions of lower ones.
type RoleLevel int

const (
	RoleUser      RoleLevel = 1
	RoleAdmin     RoleLevel = 2
	RoleDeveloper RoleLevel = 3
)

func (r RoleLevel) String() string {
	switch r {
	case RoleUser:
		return "USER"
	case RoleAdmin:
		return "ADMIN"
	case RoleDeveloper:
		return "DEVELOPER"
	default:
		return fmt.Sprintf("RoleLevel(%d)", int(r))
	}
}

// User represents a global Discord user identity
type User struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
}

// Guild represents a Discord server the bot is a member of
type Guild struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}

// Member represents a user's membership in one guild. There is exactly one
// row per (user, guild) pair; it is created lazily on first observed activity
// and its nickname is refreshed on every subsequent activity.
type Member struct {
	UserID    int64     `db:"user_id"`
	GuildID   int64     `db:"guild_id"`
	Role      RoleLevel `db:"role"`
	Nickname  *string   `db:"nickname"`
	Username  string    `db:"-"` // joined from users, not a column of guild_members
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// DisplayName prefers the guild-scoped nickname, then the global username,
// then a synthetic placeholder built from the user id.
func (m *Member) DisplayName() string {
	if m.Nickname != nil && *m.Nickname != "" {
		return *m.Nickname
	}
	if m.Username != "" {
		return m.Username
	}
	return fmt.Sprintf("사용자%d", m.UserID)
}
