package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"

	"gmbot/events"
	"gmbot/models"

	log "github.com/sirupsen/logrus"
)

type lotteryService struct {
	uowFactory     UnitOfWorkFactory
	maxPayout      int64
	expectedPayout int64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewLotteryService creates a new lottery service. The payout of each play is
// drawn uniformly from [1, maxPayout]; expectedPayout is the per-play mean
// used by the statistics view.
func NewLotteryService(uowFactory UnitOfWorkFactory, maxPayout, expectedPayout int64, rng *rand.Rand) LotteryService {
	return &lotteryService{
		uowFactory:     uowFactory,
		maxPayout:      maxPayout,
		expectedPayout: expectedPayout,
		rng:            rng,
	}
}

func (s *lotteryService) drawPayout() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return 1 + s.rng.Int63n(s.maxPayout)
}

// Play spends 1 TALENT and credits the VAULT with a random payout. The spend
// and the payout are two separately durable steps: a committed spend is never
// rolled back by a later payout failure, it stays visible in the ledger.
func (s *lotteryService) Play(ctx context.Context, userID, guildID int64) (*models.LotteryPlayResult, error) {
	ok, talentBalance, err := s.debitTalent(ctx, userID, guildID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &models.LotteryPlayResult{
			Succeeded:     false,
			TalentBalance: talentBalance,
		}, nil
	}

	payout := s.drawPayout()

	vaultBalance, err := s.creditPayout(ctx, userID, guildID, payout, talentBalance)
	if err != nil {
		// The spend already committed. Surface loudly so an operator can
		// reconcile from the ledger.
		log.WithFields(log.Fields{
			"userID":  userID,
			"guildID": guildID,
			"payout":  payout,
			"error":   err,
		}).Error("Lottery payout failed after talent was spent")
		return nil, fmt.Errorf("failed to credit lottery payout: %w", err)
	}

	return &models.LotteryPlayResult{
		Succeeded:     true,
		Payout:        payout,
		TalentBalance: talentBalance,
		VaultBalance:  vaultBalance,
	}, nil
}

func (s *lotteryService) debitTalent(ctx context.Context, userID, guildID int64) (bool, int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	ok, balance, err := uow.WalletRepository().Deduct(ctx, userID, guildID, models.ResourceTalent, 1)
	if err != nil {
		return false, 0, err
	}
	if !ok {
		if err := uow.Commit(); err != nil {
			return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
		}
		return false, balance, nil
	}

	entry := &models.LedgerEntry{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: models.ResourceTalent,
		Delta:        -1,
		Reason:       models.ReasonLotteryPlay,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return false, 0, err
	}

	if err := uow.Commit(); err != nil {
		return false, 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return true, balance, nil
}

func (s *lotteryService) creditPayout(ctx context.Context, userID, guildID, payout, talentBalance int64) (int64, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	vaultBalance, err := uow.WalletRepository().Add(ctx, userID, guildID, models.ResourceVault, payout)
	if err != nil {
		return 0, err
	}

	entry := &models.LedgerEntry{
		UserID:       userID,
		GuildID:      guildID,
		ResourceKind: models.ResourceVault,
		Delta:        payout,
		Reason:       models.ReasonLotteryPayout,
	}
	if err := uow.LedgerRepository().Append(ctx, entry); err != nil {
		return 0, err
	}

	uow.EventBus().Publish(events.LotteryPlayedEvent{
		UserID:       userID,
		GuildID:      guildID,
		Payout:       payout,
		VaultBalance: vaultBalance,
	})

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return vaultBalance, nil
}

// Stats summarizes the member's lottery payout history from the ledger
func (s *lotteryService) Stats(ctx context.Context, userID, guildID int64) (*models.LotteryStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.LedgerRepository().ListByReason(ctx, userID, guildID, models.ResourceVault, models.ReasonLotteryPayout)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	stats := &models.LotteryStats{
		Entries: entries,
		Plays:   len(entries),
	}
	for _, entry := range entries {
		stats.Total += entry.Delta
	}
	stats.Expected = int64(stats.Plays) * s.expectedPayout
	if stats.Expected > 0 {
		stats.ROIPercent = (float64(stats.Total)/float64(stats.Expected) - 1) * 100
	}

	return stats, nil
}
