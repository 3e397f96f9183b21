package service

import (
	"context"
	"testing"

	"gmbot/events"
	"gmbot/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestMemberService_EnsureMember_PublishesOnFirstJoin(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, nil, mockMemberRepo, nil, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	member := &models.Member{UserID: 1, GuildID: 10, Role: models.RoleUser, Username: "alice"}
	mockMemberRepo.On("Ensure", ctx, int64(1), "alice", int64(10), "guild ten", (*string)(nil)).Return(member, true, nil)
	mockPublisher.On("Publish", mock.MatchedBy(func(e events.Event) bool {
		joined, ok := e.(events.MemberJoinedEvent)
		return ok && joined.UserID == 1 && joined.GuildID == 10
	})).Return()

	service := NewMemberService(mockFactory)

	got, err := service.EnsureMember(ctx, 1, "alice", 10, "guild ten", nil)
	require.NoError(t, err)
	assert.Equal(t, member, got)

	mockPublisher.AssertExpectations(t)
}

func TestMemberService_EnsureMember_NoEventOnRepeat(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockMemberRepo := new(MockMemberRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(nil, nil, mockMemberRepo, nil, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	member := &models.Member{UserID: 1, GuildID: 10, Role: models.RoleUser}
	mockMemberRepo.On("Ensure", ctx, int64(1), "alice", int64(10), "guild ten", (*string)(nil)).Return(member, false, nil)

	service := NewMemberService(mockFactory)

	_, err := service.EnsureMember(ctx, 1, "alice", 10, "guild ten", nil)
	require.NoError(t, err)

	mockPublisher.AssertNotCalled(t, "Publish", mock.Anything)
}

func TestMemberService_DisplayName(t *testing.T) {
	ctx := context.Background()

	newFixture := func(member *models.Member) MemberService {
		mockUoW := new(MockUnitOfWork)
		mockFactory := new(MockUnitOfWorkFactory)
		mockMemberRepo := new(MockMemberRepository)

		mockUoW.SetRepositories(nil, nil, mockMemberRepo, nil, nil)
		mockFactory.On("Create").Return(mockUoW)
		mockUoW.On("Begin", ctx).Return(nil)
		mockUoW.On("Commit").Return(nil)
		mockUoW.On("Rollback").Return(nil)
		mockMemberRepo.On("Get", ctx, int64(42), int64(10)).Return(member, nil)

		return NewMemberService(mockFactory)
	}

	t.Run("nickname wins", func(t *testing.T) {
		nickname := "경마왕"
		service := newFixture(&models.Member{UserID: 42, GuildID: 10, Nickname: &nickname, Username: "bob"})
		assert.Equal(t, "경마왕", service.DisplayName(ctx, 42, 10))
	})

	t.Run("username fallback", func(t *testing.T) {
		service := newFixture(&models.Member{UserID: 42, GuildID: 10, Username: "bob"})
		assert.Equal(t, "bob", service.DisplayName(ctx, 42, 10))
	})

	t.Run("placeholder for unknown member", func(t *testing.T) {
		service := newFixture(nil)
		assert.Equal(t, "사용자42", service.DisplayName(ctx, 42, 10))
	})
}

func TestMemberService_GrantByNickname(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWalletRepo := new(MockWalletRepository)
	mockLedgerRepo := new(MockLedgerRepository)
	mockMemberRepo := new(MockMemberRepository)
	mockPublisher := new(MockEventPublisher)

	mockUoW.SetRepositories(mockWalletRepo, mockLedgerRepo, mockMemberRepo, nil, mockPublisher)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Commit").Return(nil)
	mockUoW.On("Rollback").Return(nil)

	nickname := "말왕"
	member := &models.Member{UserID: 5, GuildID: 10, Nickname: &nickname}
	mockMemberRepo.On("GetByNickname", ctx, int64(10), "말왕").Return(member, nil)
	mockWalletRepo.On("Add", ctx, int64(5), int64(10), models.ResourceTalent, int64(3)).Return(int64(3), nil)
	mockLedgerRepo.On("Append", ctx, mock.MatchedBy(func(e *models.LedgerEntry) bool {
		return e.UserID == 5 && e.Delta == 3 && e.Reason == models.ReasonAdminGrant
	})).Return(nil)
	mockPublisher.On("Publish", mock.Anything).Return()

	service := NewMemberService(mockFactory)

	got, balance, err := service.GrantByNickname(ctx, 10, "말왕", models.ResourceTalent, 3)
	require.NoError(t, err)
	assert.Equal(t, member, got)
	assert.Equal(t, int64(3), balance)

	mockLedgerRepo.AssertExpectations(t)
}

func TestMemberService_GrantByNickname_UnknownNickname(t *testing.T) {
	ctx := context.Background()
	mockUoW := new(MockUnitOfWork)
	mockFactory := new(MockUnitOfWorkFactory)
	mockWalletRepo := new(MockWalletRepository)
	mockMemberRepo := new(MockMemberRepository)

	mockUoW.SetRepositories(mockWalletRepo, nil, mockMemberRepo, nil, nil)
	mockFactory.On("Create").Return(mockUoW)
	mockUoW.On("Begin", ctx).Return(nil)
	mockUoW.On("Rollback").Return(nil)

	mockMemberRepo.On("GetByNickname", ctx, int64(10), "없는닉").Return(nil, nil)

	service := NewMemberService(mockFactory)

	member, _, err := service.GrantByNickname(ctx, 10, "없는닉", models.ResourceTalent, 3)
	require.NoError(t, err)
	assert.Nil(t, member)

	mockWalletRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
