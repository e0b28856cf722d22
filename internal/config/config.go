package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"octofit.com/tracker/pkg/database"
)

type Config struct {
	AppEnv         string
	Port           string
	AllowedOrigins []string

	Database database.Options
	RedisURL string

	KafkaBrokers []string
	KafkaTopic   string

	MeiliSearchHost string
	MeiliMasterKey  string

	LeaderboardCron  string
	RecomputeLockTTL time.Duration
	SeedOnStart      bool
}

func Load() (*Config, error) {
	// Don't fail if .env doesn't exist (might be prod env vars)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		Port:           getEnv("PORT", "8080"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),

		Database: database.Options{
			Host:     getEnv("DB_HOST", "localhost"),
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASS"),
			Name:     getEnv("DB_NAME", "octofit_db"),
			Port:     getEnv("DB_PORT", "5432"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisURL: os.Getenv("REDIS_URL"),

		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "octofit.leaderboard"),

		MeiliSearchHost: os.Getenv("MEILISEARCH_HOST"),
		MeiliMasterKey:  os.Getenv("MEILI_MASTER_KEY"),

		LeaderboardCron: os.Getenv("LEADERBOARD_CRON"),
	}

	var err error
	cfg.RecomputeLockTTL, err = time.ParseDuration(getEnv("RECOMPUTE_LOCK_TTL", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid RECOMPUTE_LOCK_TTL: %w", err)
	}
	cfg.SeedOnStart, err = strconv.ParseBool(getEnv("SEED_ON_START", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_ON_START: %w", err)
	}
	cfg.Database.Debug, err = strconv.ParseBool(getEnv("DB_DEBUG", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_DEBUG: %w", err)
	}

	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
