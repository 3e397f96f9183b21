package service

import (
	"context"

	"gmbot/events"
	"gmbot/models"
)

// WalletRepository defines the interface for wallet data access
type WalletRepository interface {
	// GetOrCreate retrieves a wallet, creating it with amount 0 if missing
	GetOrCreate(ctx context.Context, userID, guildID int64, kind models.ResourceKind) (*models.Wallet, error)

	// Add adds to a wallet atomically and returns the new balance,
	// creating the wallet if it does not exist
	Add(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (int64, error)

	// Deduct deducts from a wallet atomically. Returns (false, current
	// balance) without mutating anything when funds are insufficient.
	Deduct(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (bool, int64, error)
}

// LedgerRepository defines the interface for the append-only transaction log
type LedgerRepository interface {
	// Append records one balance change; entries are never updated or deleted
	Append(ctx context.Context, entry *models.LedgerEntry) error

	// ListByReason returns entries for one wallet and reason, ascending by
	// creation time
	ListByReason(ctx context.Context, userID, guildID int64, kind models.ResourceKind, reason string) ([]*models.LedgerEntry, error)
}

// MemberRepository defines the interface for membership data access
type MemberRepository interface {
	// Ensure idempotently upserts the user, guild and member rows, refreshing
	// stale names. Returns the member and whether it was newly created.
	Ensure(ctx context.Context, userID int64, username string, guildID int64, guildName string, nickname *string) (*models.Member, bool, error)

	// Get retrieves a member, or nil when the pair is unknown
	Get(ctx context.Context, userID, guildID int64) (*models.Member, error)

	// GetByNickname retrieves a member by exact guild nickname, or nil.
	// On nickname collisions the member with the smallest user id wins.
	GetByNickname(ctx context.Context, guildID int64, nickname string) (*models.Member, error)

	// SetRole updates a member's role level
	SetRole(ctx context.Context, userID, guildID int64, role models.RoleLevel) error
}

// RaceRepository defines the interface for race and roster data access
type RaceRepository interface {
	// Create inserts a new PREPARED race
	Create(ctx context.Context, guildID, hostUserID, prepMessageID int64) (*models.Race, error)

	// GetByID retrieves a race, or nil when unknown
	GetByID(ctx context.Context, raceID int64) (*models.Race, error)

	// GetActiveByHost returns the host's latest PREPARED or STARTED race, or nil
	GetActiveByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error)

	// GetLatestPreparedByHost returns the host's latest PREPARED race, or nil
	GetLatestPreparedByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error)

	// GetPreparedByPrepMessage resolves a PREPARED race from its prep message, or nil
	GetPreparedByPrepMessage(ctx context.Context, prepMessageID int64) (*models.Race, error)

	// AddEntry adds a roster entry. Returns false when the user already had
	// one; a differing emoji is updated in place.
	AddEntry(ctx context.Context, raceID, userID int64, emoji *string) (bool, error)

	// RemoveEntry removes a roster entry, reporting whether one existed
	RemoveEntry(ctx context.Context, raceID, userID int64) (bool, error)

	// ListEntries returns the roster in join order
	ListEntries(ctx context.Context, raceID int64) ([]*models.RaceEntry, error)

	// MarkStarted transitions PREPARED -> STARTED and stores the race message id
	MarkStarted(ctx context.Context, raceID, raceMessageID int64) error

	// MarkFinished transitions to FINISHED
	MarkFinished(ctx context.Context, raceID int64) error
}

// EconomyService defines the interface for wallet operations
type EconomyService interface {
	// Balance returns the current wallet amount, creating a zero wallet on
	// first access. Never fails for a known member.
	Balance(ctx context.Context, userID, guildID int64, kind models.ResourceKind) (int64, error)

	// Balances returns the amounts of all resource kinds at once
	Balances(ctx context.Context, userID, guildID int64) (map[models.ResourceKind]int64, error)

	// Credit increments a wallet and appends a ledger entry. A non-positive
	// amount is a no-op returning the current balance.
	Credit(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64, reason string) (int64, error)

	// Debit decrements a wallet and appends a ledger entry. Returns
	// (false, current balance) when funds are insufficient; the check and
	// the decrement are one atomic unit per wallet.
	Debit(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64, reason string) (bool, int64, error)
}

// LotteryService defines the interface for lottery operations
type LotteryService interface {
	// Play spends 1 TALENT and credits VAULT with a payout drawn uniformly
	// from [1, max payout]
	Play(ctx context.Context, userID, guildID int64) (*models.LotteryPlayResult, error)

	// Stats summarizes the member's lottery payout history
	Stats(ctx context.Context, userID, guildID int64) (*models.LotteryStats, error)
}

// MemberService defines the interface for membership operations
type MemberService interface {
	// EnsureMember idempotently registers the member, refreshing names
	EnsureMember(ctx context.Context, userID int64, username string, guildID int64, guildName string, nickname *string) (*models.Member, error)

	// DisplayName resolves nickname -> username -> placeholder for a user
	DisplayName(ctx context.Context, userID, guildID int64) string

	// FindByNickname retrieves a member by exact guild nickname, or nil
	FindByNickname(ctx context.Context, guildID int64, nickname string) (*models.Member, error)

	// GrantByNickname credits a resource to the member with the given guild
	// nickname. Returns a nil member when no such nickname exists.
	GrantByNickname(ctx context.Context, guildID int64, nickname string, kind models.ResourceKind, amount int64) (*models.Member, int64, error)

	// SetRole updates a member's role level
	SetRole(ctx context.Context, userID, guildID int64, role models.RoleLevel) error
}

// RaceService defines the interface for race lifecycle operations
type RaceService interface {
	// Prepare creates a new PREPARED race. Fails with ErrActiveRaceExists
	// when the host already has an active race in the guild.
	Prepare(ctx context.Context, guildID, hostUserID, prepMessageID int64) (*models.Race, error)

	// RaceForPrepMessage resolves the PREPARED race a reaction targets, or nil
	RaceForPrepMessage(ctx context.Context, prepMessageID int64) (*models.Race, error)

	// LatestPreparedByHost returns the host's latest PREPARED race, or nil
	LatestPreparedByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error)

	// ActiveByHost returns the host's latest PREPARED or STARTED race, or nil
	ActiveByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error)

	// Join adds the reacting user to the roster while the race is PREPARED
	Join(ctx context.Context, prepMessageID, userID int64, emoji string) (bool, error)

	// Leave removes the reacting user from the roster while PREPARED
	Leave(ctx context.Context, prepMessageID, userID int64) (bool, error)

	// Roster returns the race's entries in join order
	Roster(ctx context.Context, raceID int64) ([]*models.RaceEntry, error)

	// MarkStarted transitions the race to STARTED and records the message
	// the animation renders into
	MarkStarted(ctx context.Context, raceID, raceMessageID int64, participants int) error

	// MarkFinished transitions the race to FINISHED
	MarkFinished(ctx context.Context, raceID int64) error
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	WalletRepository() WalletRepository
	LedgerRepository() LedgerRepository
	MemberRepository() MemberRepository
	RaceRepository() RaceRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}
