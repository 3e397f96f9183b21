package models

import (
	"time"
)

// ResourceKind identifies one of the per-guild virtual currencies. The stored
// values keep the prefix of the original schema so existing data stays valid.
type ResourceKind string

const (
	ResourceTalent    ResourceKind = "gm_talent"
	ResourceLuckyDice ResourceKind = "gm_lucky_dice"
	ResourceVault     ResourceKind = "gm_vault"
)

// Ledger reasons written by the services. The lottery stats query depends on
// ReasonLotteryPayout matching exactly.
const (
	ReasonDeposit       = "manual_deposit_command"
	ReasonWithdraw      = "manual_withdraw_command"
	ReasonVaultWithdraw = "vault_withdraw"
	ReasonLotteryPlay   = "lottery_play"
	ReasonLotteryPayout = "lottery_payout"
	ReasonAdminGrant    = "admin_grant"
)

// Wallet is the current balance of one resource for one member. Amount never
// goes negative; the debit path refuses to take a wallet below zero.
type Wallet struct {
	UserID       int64        `db:"user_id"`
	GuildID      int64        `db:"guild_id"`
	ResourceKind ResourceKind `db:"resource_kind"`
	Amount       int64        `db:"amount"`
}

// LedgerEntry is one immutable balance change. Entries are append-only and
// are the only source for derived statistics.
type LedgerEntry struct {
	ID           int64        `db:"id"`
	UserID       int64        `db:"user_id"`
	GuildID      int64        `db:"guild_id"`
	ResourceKind ResourceKind `db:"resource_kind"`
	Delta        int64        `db:"delta"`
	Reason       string       `db:"reason"`
	CreatedAt    time.Time    `db:"created_at"`
}

// LotteryPlayResult is the outcome of one lottery play.
type LotteryPlayResult struct {
	Succeeded bool
	Payout    int64
	// TalentBalance is the TALENT balance after the play (the unchanged
	// balance when the play was refused).
	TalentBalance int64
	// VaultBalance is the VAULT balance after the payout; 0 when refused.
	VaultBalance int64
}

// LotteryStats summarizes a member's lottery history.
type LotteryStats struct {
	Entries  []*LedgerEntry
	Plays    int
	Total    int64
	Expected int64
	// ROIPercent is ((Total/Expected)-1)*100, 0 when Expected is 0.
	ROIPercent float64
}
