package service

import (
	"context"

	"gmbot/events"
	"gmbot/models"

	"github.com/stretchr/testify/mock"
)

// MockWalletRepository is a mock implementation of WalletRepository
type MockWalletRepository struct {
	mock.Mock
}

func (m *MockWalletRepository) GetOrCreate(ctx context.Context, userID, guildID int64, kind models.ResourceKind) (*models.Wallet, error) {
	args := m.Called(ctx, userID, guildID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Wallet), args.Error(1)
}

func (m *MockWalletRepository) Add(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (int64, error) {
	args := m.Called(ctx, userID, guildID, kind, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWalletRepository) Deduct(ctx context.Context, userID, guildID int64, kind models.ResourceKind, amount int64) (bool, int64, error) {
	args := m.Called(ctx, userID, guildID, kind, amount)
	return args.Bool(0), args.Get(1).(int64), args.Error(2)
}

// MockLedgerRepository is a mock implementation of LedgerRepository
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) Append(ctx context.Context, entry *models.LedgerEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockLedgerRepository) ListByReason(ctx context.Context, userID, guildID int64, kind models.ResourceKind, reason string) ([]*models.LedgerEntry, error) {
	args := m.Called(ctx, userID, guildID, kind, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.LedgerEntry), args.Error(1)
}

// MockMemberRepository is a mock implementation of MemberRepository
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) Ensure(ctx context.Context, userID int64, username string, guildID int64, guildName string, nickname *string) (*models.Member, bool, error) {
	args := m.Called(ctx, userID, username, guildID, guildName, nickname)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*models.Member), args.Bool(1), args.Error(2)
}

func (m *MockMemberRepository) Get(ctx context.Context, userID, guildID int64) (*models.Member, error) {
	args := m.Called(ctx, userID, guildID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) GetByNickname(ctx context.Context, guildID int64, nickname string) (*models.Member, error) {
	args := m.Called(ctx, guildID, nickname)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Member), args.Error(1)
}

func (m *MockMemberRepository) SetRole(ctx context.Context, userID, guildID int64, role models.RoleLevel) error {
	args := m.Called(ctx, userID, guildID, role)
	return args.Error(0)
}

// MockRaceRepository is a mock implementation of RaceRepository
type MockRaceRepository struct {
	mock.Mock
}

func (m *MockRaceRepository) Create(ctx context.Context, guildID, hostUserID, prepMessageID int64) (*models.Race, error) {
	args := m.Called(ctx, guildID, hostUserID, prepMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetByID(ctx context.Context, raceID int64) (*models.Race, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetActiveByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	args := m.Called(ctx, guildID, hostUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetLatestPreparedByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	args := m.Called(ctx, guildID, hostUserID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) GetPreparedByPrepMessage(ctx context.Context, prepMessageID int64) (*models.Race, error) {
	args := m.Called(ctx, prepMessageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Race), args.Error(1)
}

func (m *MockRaceRepository) AddEntry(ctx context.Context, raceID, userID int64, emoji *string) (bool, error) {
	args := m.Called(ctx, raceID, userID, emoji)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaceRepository) RemoveEntry(ctx context.Context, raceID, userID int64) (bool, error) {
	args := m.Called(ctx, raceID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockRaceRepository) ListEntries(ctx context.Context, raceID int64) ([]*models.RaceEntry, error) {
	args := m.Called(ctx, raceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.RaceEntry), args.Error(1)
}

func (m *MockRaceRepository) MarkStarted(ctx context.Context, raceID, raceMessageID int64) error {
	args := m.Called(ctx, raceID, raceMessageID)
	return args.Error(0)
}

func (m *MockRaceRepository) MarkFinished(ctx context.Context, raceID int64) error {
	args := m.Called(ctx, raceID)
	return args.Error(0)
}

// MockEventPublisher is a mock implementation of EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// NoopEventPublisher discards events; handy where a test does not care
type NoopEventPublisher struct{}

func (NoopEventPublisher) Publish(event events.Event) {}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock

	walletRepo     WalletRepository
	ledgerRepo     LedgerRepository
	memberRepo     MemberRepository
	raceRepo       RaceRepository
	eventPublisher EventPublisher
}

// SetRepositories wires the repositories the mock hands out
func (m *MockUnitOfWork) SetRepositories(
	walletRepo WalletRepository,
	ledgerRepo LedgerRepository,
	memberRepo MemberRepository,
	raceRepo RaceRepository,
	eventPublisher EventPublisher,
) {
	m.walletRepo = walletRepo
	m.ledgerRepo = ledgerRepo
	m.memberRepo = memberRepo
	m.raceRepo = raceRepo
	m.eventPublisher = eventPublisher
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) WalletRepository() WalletRepository {
	return m.walletRepo
}

func (m *MockUnitOfWork) LedgerRepository() LedgerRepository {
	return m.ledgerRepo
}

func (m *MockUnitOfWork) MemberRepository() MemberRepository {
	return m.memberRepo
}

func (m *MockUnitOfWork) RaceRepository() RaceRepository {
	return m.raceRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	if m.eventPublisher == nil {
		return NoopEventPublisher{}
	}
	return m.eventPublisher
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}
