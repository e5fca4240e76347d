package config

import (
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken            string
	DatabaseURL              string
	AdminTelegramID          int64
	BroadcastChatID          int64 // 0 disables the daily broadcast
	CachePath                string
	SeedFile                 string // Optional JSON array of hadiths loaded at startup
	Location                 *time.Location
	LogLevel                 string
	Environment              string
	CronSpecScheduleTomorrow string // Pre-computes tomorrow's schedule row
	CronSpecDailyBroadcast   string // Posts today's hadith to BroadcastChatID
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.AdminTelegramID, err = optionalInt64("ADMIN_TELEGRAM_ID")
	if err != nil {
		return nil, err
	}

	cfg.BroadcastChatID, err = optionalInt64("BROADCAST_CHAT_ID")
	if err != nil {
		return nil, err
	}

	cfg.CachePath = os.Getenv("CACHE_PATH")
	if cfg.CachePath == "" {
		cfg.CachePath = "data/cache.db"
	}

	cfg.SeedFile = os.Getenv("SEED_FILE")

	tz := os.Getenv("TIMEZONE")
	if tz == "" {
		tz = "Local"
	}
	cfg.Location, err = time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cfg.CronSpecScheduleTomorrow = os.Getenv("CRON_SPEC_SCHEDULE_TOMORROW")
	if cfg.CronSpecScheduleTomorrow == "" {
		cfg.CronSpecScheduleTomorrow = "0 22 * * *" // Default: 10:00 PM daily
	}

	cfg.CronSpecDailyBroadcast = os.Getenv("CRON_SPEC_DAILY_BROADCAST")
	if cfg.CronSpecDailyBroadcast == "" {
		cfg.CronSpecDailyBroadcast = "0 8 * * *" // Default: 8:00 AM daily
	}

	return cfg, nil
}

func optionalInt64(name string) (int64, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	return v, nil
}
