package cmd

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	logrus "github.com/sirupsen/logrus"

	"gmbot/bot"
	"gmbot/config"
	"gmbot/database"
	"gmbot/events"
	"gmbot/repository"
	"gmbot/service"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting gmbot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, database.ConstructDatabaseURL(cfg.DatabaseURL, cfg.DatabaseName))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()
	subscribeEventLoggers(eventBus)

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	log.Println("Initializing services...")
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	economyService := service.NewEconomyService(uowFactory)
	lotteryService := service.NewLotteryService(uowFactory, cfg.LotteryMaxPayout, cfg.LotteryExpectedPayout, rng)
	memberService := service.NewMemberService(uowFactory)
	raceService := service.NewRaceService(uowFactory)
	log.Println("Services initialized successfully")

	// Initialize Discord bot
	log.Println("Initializing Discord bot...")
	botConfig := bot.Config{
		Token:               cfg.DiscordToken,
		CommandPrefix:       cfg.CommandPrefix,
		RaceDurationSeconds: cfg.RaceDurationSeconds,
		RaceStartReaction:   cfg.RaceStartReaction,
		RaceTestReaction:    cfg.RaceTestReaction,
	}
	discordBot, err := bot.New(botConfig, economyService, lotteryService, memberService, raceService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize Discord bot: %w", err)
	}
	log.Println("Discord bot initialized successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")

	// Close Discord bot connection
	if err := discordBot.Close(); err != nil {
		log.Printf("Error closing Discord bot: %v", err)
	}

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Close database connection
	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}

// subscribeEventLoggers attaches structured logging to the domain events.
func subscribeEventLoggers(bus *events.Bus) {
	bus.Subscribe(events.EventTypeBalanceChange, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.BalanceChangeEvent); ok {
			logrus.WithFields(logrus.Fields{
				"userID":     e.UserID,
				"guildID":    e.GuildID,
				"kind":       e.ResourceKind,
				"delta":      e.Delta,
				"newBalance": e.NewBalance,
				"reason":     e.Reason,
			}).Info("Balance changed")
		}
	})
	bus.Subscribe(events.EventTypeLotteryPlayed, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.LotteryPlayedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"userID":  e.UserID,
				"guildID": e.GuildID,
				"payout":  e.Payout,
			}).Info("Lottery played")
		}
	})
	bus.Subscribe(events.EventTypeMemberJoined, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.MemberJoinedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"userID":  e.UserID,
				"guildID": e.GuildID,
			}).Info("Member joined")
		}
	})
	bus.Subscribe(events.EventTypeRaceStarted, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RaceStartedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"raceID":       e.RaceID,
				"guildID":      e.GuildID,
				"hostUserID":   e.HostUserID,
				"participants": e.Participants,
			}).Info("Race started")
		}
	})
	bus.Subscribe(events.EventTypeRaceFinished, func(ctx context.Context, event events.Event) {
		if e, ok := event.(events.RaceFinishedEvent); ok {
			logrus.WithFields(logrus.Fields{
				"raceID":  e.RaceID,
				"guildID": e.GuildID,
			}).Info("Race finished")
		}
	})
}
