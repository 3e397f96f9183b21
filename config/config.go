package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Discord configuration
	DiscordToken  string `env:"DISCORD_TOKEN"`
	CommandPrefix string `env:"COMMAND_PREFIX" envDefault:"!"`

	// Database configuration
	DatabaseURL  string `env:"DATABASE_URL"`
	DatabaseName string `env:"DATABASE_NAME"`

	// Lottery configuration
	LotteryMaxPayout      int64 `env:"LOTTERY_MAX_PAYOUT" envDefault:"1205"`
	LotteryExpectedPayout int64 `env:"LOTTERY_EXPECTED_PAYOUT" envDefault:"603"`

	// Horse race configuration
	RaceDurationSeconds int    `env:"RACE_DURATION_SECONDS" envDefault:"20"`
	RaceStartReaction   string `env:"RACE_START_REACTION" envDefault:"🏁"`
	RaceTestReaction    string `env:"RACE_TEST_REACTION" envDefault:"🧪"`

	// Environment: "development", "production" or "test"
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from a .env file (if present) and the environment
func load() (*Config, error) {
	// A missing .env file is fine outside local development.
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DiscordToken == "" {
			return nil, fmt.Errorf("DISCORD_TOKEN is required")
		}
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	return config, nil
}
