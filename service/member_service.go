package service

import (
	"context"
	"fmt"

	"gmbot/events"
	"gmbot/models"

	log "github.com/sirupsen/logrus"
)

type memberService struct {
	uowFactory UnitOfWorkFactory
}

// NewMemberService creates a new member service
func NewMemberService(uowFactory UnitOfWorkFactory) MemberService {
	return &memberService{
		uowFactory: uowFactory,
	}
}

// EnsureMember idempotently registers the member, refreshing stale names
func (s *memberService) EnsureMember(ctx context.Context, userID int64, username string, guildID int64, guildName string, nickname *string) (*models.Member, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, created, err := uow.MemberRepository().Ensure(ctx, userID, username, guildID, guildName, nickname)
	if err != nil {
		return nil, err
	}

	if created {
		uow.EventBus().Publish(events.MemberJoinedEvent{
			UserID:  userID,
			GuildID: guildID,
		})
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, nil
}

// DisplayName resolves nickname -> username -> placeholder. Lookups never fail
// the caller; a broken lookup falls back to the placeholder.
func (s *memberService) DisplayName(ctx context.Context, userID, guildID int64) string {
	placeholder := fmt.Sprintf("사용자%d", userID)

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return placeholder
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().Get(ctx, userID, guildID)
	if err != nil {
		log.WithFields(log.Fields{
			"userID":  userID,
			"guildID": guildID,
			"error":   err,
		}).Warn("Failed to resolve display name")
		return placeholder
	}
	if member == nil {
		return placeholder
	}

	if err := uow.Commit(); err != nil {
		return placeholder
	}

	return member.DisplayName()
}

// FindByNickname retrieves a member by exact guild nickname, or nil
func (s *memberService) FindByNickname(ctx context.Context, guildID int64, nickname string) (*models.Member, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByNickname(ctx, guildID, nickname)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, nil
}

// GrantByNickname credits a resource to the member with the given guild
// nickname. Returns a nil member when no such nickname exists.
func (s *memberService) GrantByNickname(ctx context.Context, guildID int64, nickname string, kind models.ResourceKind, amount int64) (*models.Member, int64, error) {
	if amount <= 0 {
		return nil, 0, fmt.Errorf("grant amount must be positive, got %d", amount)
	}

	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	member, err := uow.MemberRepository().GetByNickname(ctx, guildID, nickname)
	if err != nil {
		return nil, 0, err
	}
	if member == nil {
		return nil, 0, nil
	}

	balance, err := uow.WalletRepository().Add(ctx, member.UserID, guildID, kind, amount)
	if err != nil {
		return nil, 0, err
	}

	entry := &models.LedgerEntry{
		UserID:       member.UserID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        amount,
		Reason:       models.ReasonAdminGrant,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return nil, 0, err
	}

	uow.EventBus().Publish(events.BalanceChangeEvent{
		UserID:       member.UserID,
		GuildID:      guildID,
		ResourceKind: kind,
		Delta:        amount,
		NewBalance:   balance,
		Reason:       models.ReasonAdminGrant,
	})

	if err := uow.Commit(); err != nil {
		return nil, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return member, balance, nil
}

// SetRole updates a member's role level
func (s *memberService) SetRole(ctx context.Context, userID, guildID int64, role models.RoleLevel) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	if err := uow.MemberRepository().SetRole(ctx, userID, guildID, role); err != nil {
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
