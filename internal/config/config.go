// Package config loads the bot configuration from environment variables.
// DISCORD_TOKEN and DATABASE_URL are required; everything else defaults.
package config

import (
	"fmt"
	"time"
)

// DiscordConfig: gateway credential and mutation-permission roles.
type DiscordConfig struct {
	Token string
	// PrivilegedRoles may edit other members' professions.
	PrivilegedRoles []string
}

// DatabaseConfig: PostgreSQL connection string.
type DatabaseConfig struct {
	URL string
}

// RedisConfig: Valkey connection for the member display-name cache.
// An empty Host disables the cache entirely.
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int

	MemberNameTTL time.Duration
}

// ServerConfig: health HTTP server bind address.
type ServerConfig struct {
	Host string
	Port int
}

// DashboardConfig: leaderboard rendering knobs.
type DashboardConfig struct {
	CardsPerPage int
}

// LogConfig: file log rotation settings. Empty Dir keeps stdout-only logging.
type LogConfig struct {
	Dir string

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Config: full bot configuration.
type Config struct {
	Discord   DiscordConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Server    ServerConfig
	Dashboard DashboardConfig
	Log       LogConfig
}

// Enabled reports whether the member-name cache is configured.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

// Load reads the full configuration from the environment.
func Load() (*Config, error) {
	token := StringFromEnv("DISCORD_TOKEN", "")
	if token == "" {
		return nil, fmt.Errorf("DISCORD_TOKEN is required")
	}

	databaseURL := StringFromEnv("DATABASE_URL", "")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisPort, err := IntFromEnv("REDIS_PORT", 6379)
	if err != nil {
		return nil, fmt.Errorf("read REDIS_PORT failed: %w", err)
	}

	redisDB, err := IntFromEnv("REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("read REDIS_DB failed: %w", err)
	}

	memberNameTTL, err := DurationSecondsFromEnv("MEMBER_NAME_CACHE_TTL_SECONDS", 600)
	if err != nil {
		return nil, fmt.Errorf("read MEMBER_NAME_CACHE_TTL_SECONDS failed: %w", err)
	}

	serverPort, err := IntFromEnv("SERVER_PORT", 8090)
	if err != nil {
		return nil, fmt.Errorf("read SERVER_PORT failed: %w", err)
	}

	cardsPerPage, err := IntFromEnv("DASHBOARD_CARDS_PER_PAGE", 6)
	if err != nil {
		return nil, fmt.Errorf("read DASHBOARD_CARDS_PER_PAGE failed: %w", err)
	}
	if cardsPerPage <= 0 {
		return nil, fmt.Errorf("invalid DASHBOARD_CARDS_PER_PAGE: %d", cardsPerPage)
	}

	logCfg, err := readLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{
		Discord: DiscordConfig{
			Token:           token,
			PrivilegedRoles: StringListFromEnv("ROLES_CAN_EDIT_OTHERS", []string{"Lead", "Murmureur"}),
		},
		Database: DatabaseConfig{URL: databaseURL},
		Redis: RedisConfig{
			Host:          StringFromEnv("REDIS_HOST", ""),
			Port:          redisPort,
			Password:      StringFromEnv("REDIS_PASSWORD", ""),
			DB:            redisDB,
			MemberNameTTL: memberNameTTL,
		},
		Server: ServerConfig{
			Host: StringFromEnv("SERVER_HOST", "0.0.0.0"),
			Port: serverPort,
		},
		Dashboard: DashboardConfig{CardsPerPage: cardsPerPage},
		Log:       logCfg,
	}, nil
}

func readLogConfig() (LogConfig, error) {
	dir := StringFromEnv("LOG_DIR", "")
	if dir == "" {
		return LogConfig{}, nil
	}

	maxSizeMB, err := IntFromEnv("LOG_FILE_MAX_SIZE_MB", 1)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_SIZE_MB failed: %w", err)
	}
	if maxSizeMB <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_SIZE_MB: %d", maxSizeMB)
	}

	maxBackups, err := IntFromEnv("LOG_FILE_MAX_BACKUPS", 30)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_BACKUPS failed: %w", err)
	}
	if maxBackups <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_BACKUPS: %d", maxBackups)
	}

	maxAgeDays, err := IntFromEnv("LOG_FILE_MAX_AGE_DAYS", 7)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_MAX_AGE_DAYS failed: %w", err)
	}
	if maxAgeDays <= 0 {
		return LogConfig{}, fmt.Errorf("invalid LOG_FILE_MAX_AGE_DAYS: %d", maxAgeDays)
	}

	compress, err := BoolFromEnv("LOG_FILE_COMPRESS", true)
	if err != nil {
		return LogConfig{}, fmt.Errorf("read LOG_FILE_COMPRESS failed: %w", err)
	}

	return LogConfig{
		Dir:        dir,
		MaxSizeMB:  maxSizeMB,
		MaxBackups: maxBackups,
		MaxAgeDays: maxAgeDays,
		Compress:   compress,
	}, nil
}
