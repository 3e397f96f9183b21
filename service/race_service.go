package service

import (
	"context"
	"errors"
	"fmt"

	"gmbot/events"
	"gmbot/models"
)

// ErrActiveRaceExists is returned when a host tries to prepare a second race
// while one of theirs is still PREPARED or STARTED.
var ErrActiveRaceExists = errors.New("host already has an active race")

type raceService struct {
	uowFactory UnitOfWorkFactory
}

// NewRaceService creates a new race service
func NewRaceService(uowFactory UnitOfWorkFactory) RaceService {
	return &raceService{
		uowFactory: uowFactory,
	}
}

// Prepare creates a new PREPARED race for the host
func (s *raceService) Prepare(ctx context.Context, guildID, hostUserID, prepMessageID int64) (*models.Race, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	active, err := uow.RaceRepository().GetActiveByHost(ctx, guildID, hostUserID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrActiveRaceExists
	}

	race, err := uow.RaceRepository().Create(ctx, guildID, hostUserID, prepMessageID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return race, nil
}

// RaceForPrepMessage resolves the PREPARED race a reaction targets, or nil
func (s *raceService) RaceForPrepMessage(ctx context.Context, prepMessageID int64) (*models.Race, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetPreparedByPrepMessage(ctx, prepMessageID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return race, nil
}

// LatestPreparedByHost returns the host's latest PREPARED race, or nil
func (s *raceService) LatestPreparedByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetLatestPreparedByHost(ctx, guildID, hostUserID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return race, nil
}

// ActiveByHost returns the host's latest PREPARED or STARTED race, or nil
func (s *raceService) ActiveByHost(ctx context.Context, guildID, hostUserID int64) (*models.Race, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetActiveByHost(ctx, guildID, hostUserID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return race, nil
}

// Join adds the reacting user to the roster while the race is PREPARED.
// Returns false when no PREPARED race matches the message or the user was
// already entered.
func (s *raceService) Join(ctx context.Context, prepMessageID, userID int64, emoji string) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetPreparedByPrepMessage(ctx, prepMessageID)
	if err != nil {
		return false, err
	}
	if race == nil {
		return false, nil
	}

	var emojiPtr *string
	if emoji != "" {
		emojiPtr = &emoji
	}

	added, err := uow.RaceRepository().AddEntry(ctx, race.ID, userID, emojiPtr)
	if err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return added, nil
}

// Leave removes the reacting user from the roster while PREPARED
func (s *raceService) Leave(ctx context.Context, prepMessageID, userID int64) (bool, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetPreparedByPrepMessage(ctx, prepMessageID)
	if err != nil {
		return false, err
	}
	if race == nil {
		return false, nil
	}

	removed, err := uow.RaceRepository().RemoveEntry(ctx, race.ID, userID)
	if err != nil {
		return false, err
	}

	if err := uow.Commit(); err != nil {
		return false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return removed, nil
}

// Roster returns the race's entries in join order
func (s *raceService) Roster(ctx context.Context, raceID int64) ([]*models.RaceEntry, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	entries, err := uow.RaceRepository().ListEntries(ctx, raceID)
	if err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return entries, nil
}

// MarkStarted transitions the race to STARTED and records the message the
// animation renders into
func (s *raceService) MarkStarted(ctx context.Context, raceID, raceMessageID int64, participants int) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetByID(ctx, raceID)
	if err != nil {
		return err
	}
	if race == nil {
		return fmt.Errorf("race %d does not exist", raceID)
	}

	if err := uow.RaceRepository().MarkStarted(ctx, raceID, raceMessageID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RaceStartedEvent{
		RaceID:       raceID,
		GuildID:      race.GuildID,
		HostUserID:   race.HostUserID,
		Participants: participants,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkFinished transitions the race to FINISHED
func (s *raceService) MarkFinished(ctx context.Context, raceID int64) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	race, err := uow.RaceRepository().GetByID(ctx, raceID)
	if err != nil {
		return err
	}
	if race == nil {
		return fmt.Errorf("race %d does not exist", raceID)
	}

	if err := uow.RaceRepository().MarkFinished(ctx, raceID); err != nil {
		return err
	}

	uow.EventBus().Publish(events.RaceFinishedEvent{
		RaceID:  raceID,
		GuildID: race.GuildID,
	})

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
