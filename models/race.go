package models

import (
	"time"
)

// RaceStatus is the lifecycle state of a horse race. Transitions are
// one-way: PREPARED -> STARTED -> FINISHED.
type RaceStatus string

const (
	RaceStatusPrepared RaceStatus = "PREPARED"
	RaceStatusStarted  RaceStatus = "STARTED"
	RaceStatusFinished RaceStatus = "FINISHED"
)

// Race is one instance of the horse-race minigame. Signups attach to the
// preparation message; the animation renders into the race message.
type Race struct {
	ID            int64      `db:"id"`
	GuildID       int64      `db:"guild_id"`
	HostUserID    int64      `db:"host_user_id"`
	PrepMessageID int64      `db:"prep_message_id"`
	RaceMessageID *int64     `db:"race_message_id"`
	Status        RaceStatus `db:"status"`
	CreatedAt     time.Time  `db:"created_at"`
	StartedAt     *time.Time `db:"started_at"`
	FinishedAt    *time.Time `db:"finished_at"`
}

// Active reports whether the race still accepts host actions.
func (r *Race) Active() bool {
	return r.Status == RaceStatusPrepared || r.Status == RaceStatusStarted
}

// RaceEntry is one participant signup. At most one entry exists per
// (race, user); a repeat join only updates the chosen emoji.
type RaceEntry struct {
	RaceID   int64     `db:"race_id"`
	UserID   int64     `db:"user_id"`
	Emoji    *string   `db:"emoji"`
	JoinedAt time.Time `db:"joined_at"`
}

// Glyph returns the participant's chosen emoji, defaulting to the generic
// horse glyph when none was picked.
func (e *RaceEntry) Glyph() string {
	if e.Emoji != nil && *e.Emoji != "" {
		return *e.Emoji
	}
	return "🏇"
}
