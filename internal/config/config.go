package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken   string
	AdminChatID     int64
	DatabaseURL     string
	Timezone        string
	DigestTime      string // HH:MM, weekday morning digest
	CleanupTime     string // HH:MM, nightly ledger cleanup
	SweepInterval   time.Duration
	CommandsEnabled bool
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		Timezone:        strings.TrimSpace(os.Getenv("TIMEZONE")),
		DigestTime:      strings.TrimSpace(os.Getenv("DIGEST_TIME")),
		CleanupTime:     strings.TrimSpace(os.Getenv("CLEANUP_TIME")),
		SweepInterval:   parseMinutes(strings.TrimSpace(os.Getenv("SWEEP_INTERVAL_MINUTES"))),
		CommandsEnabled: parseBool(strings.TrimSpace(os.Getenv("COMMANDS_ENABLED")), true),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "data/schedule.db"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "America/Sao_Paulo"
	}
	if cfg.DigestTime == "" {
		cfg.DigestTime = "07:00"
	}
	if cfg.CleanupTime == "" {
		cfg.CleanupTime = "02:00"
	}
	if cfg.SweepInterval == 0 {
		cfg.SweepInterval = 5 * time.Minute
	}

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	rawChat := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	if rawChat == "" {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID is required")
	}
	chatID, err := strconv.ParseInt(rawChat, 10, 64)
	if err != nil {
		return cfg, fmt.Errorf("TELEGRAM_CHAT_ID must be a numeric chat id: %w", err)
	}
	cfg.AdminChatID = chatID

	return cfg, nil
}

// Location resolves the configured timezone.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func parseMinutes(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	minutes, err := strconv.Atoi(raw)
	if err != nil || minutes <= 0 {
		return 0
	}
	return time.Duration(minutes) * time.Minute
}

func parseBool(raw string, fallback bool) bool {
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return value
}
