package testutil

import (
	"time"

	"gmbot/models"
)

// CreateTestMember creates a test member with default values
func CreateTestMember(userID, guildID int64) *models.Member {
	now := time.Now()
	return &models.Member{
		UserID:    userID,
		GuildID:   guildID,
		Role:      models.RoleUser,
		Username:  "tester",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CreateTestMemberWithNickname creates a test member with a guild nickname
func CreateTestMemberWithNickname(userID, guildID int64, nickname string) *models.Member {
	member := CreateTestMember(userID, guildID)
	member.Nickname = &nickname
	return member
}

// CreateTestWallet creates a test wallet with a specific amount
func CreateTestWallet(userID, guildID int64, kind models.ResourceKind, amount int64) *models.Wallet {
	return &models.Wallet{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Amount:       amount,
	}
}

// CreateTestLedgerEntry creates a test ledger entry
func CreateTestLedgerEntry(userID, guildID int64, kind models.ResourceKind, delta int64, reason string) *models.LedgerEntry {
	return &models.LedgerEntry{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        delta,
		Reason:       reason,
		CreatedAt:    time.Now(),
	}
}

// CreateTestRaceEntry creates a test race entry with a glyph
func CreateTestRaceEntry(raceID, userID int64, emoji string) *models.RaceEntry {
	entry := &models.RaceEntry{
		RaceID:   raceID,
		UserID:   userID,
		JoinedAt: time.Now(),
	}
	if emoji != "" {
		entry.Emoji = &emoji
	}
	return entry
}
