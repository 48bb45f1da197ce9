package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the bot.
type Config struct {
	App      AppConfig
	Discord  DiscordConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Cache    CacheConfig
	Modmail  ModmailConfig
	Updater  UpdaterConfig
	Feeds    FeedConfig
	Modrinth ModrinthConfig
	Logger   LoggerConfig
}

// AppConfig controls process level behavior.
type AppConfig struct {
	Name    string
	Env     string
	Host    string
	Port    string
	Version string
}

// DiscordConfig holds gateway credentials and the home guild.
type DiscordConfig struct {
	Token   string
	GuildID string
}

// MongoConfig holds document store connection values.
type MongoConfig struct {
	URI         string
	Database    string
	MaxPoolSize uint64
	TimeoutSec  int
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// CacheConfig selects the cache backend and sweep cadence.
// The sweep period must stay below the shortest TTL in use.
type CacheConfig struct {
	Backend         string
	SweepIntervalMs int
}

// ModmailConfig carries modmail fallbacks used before settings exist.
type ModmailConfig struct {
	DefaultCooldownSeconds int
}

// UpdaterConfig carries Modrinth poller fallbacks.
type UpdaterConfig struct {
	Organization      string
	DefaultIntervalMs int
}

// FeedConfig carries feed poller fallbacks.
type FeedConfig struct {
	DefaultIntervalMs int
}

// ModrinthConfig configures the Modrinth API client.
type ModrinthConfig struct {
	BaseURL        string
	UserAgent      string
	TimeoutSeconds int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:    getEnv("APP_NAME", "membercat-bot"),
			Env:     getEnv("APP_ENV", "development"),
			Host:    getEnv("APP_HOST", "0.0.0.0"),
			Port:    getEnv("APP_PORT", "8090"),
			Version: getEnv("APP_VERSION", "dev"),
		},
		Discord: DiscordConfig{
			Token:   os.Getenv("DISCORD_TOKEN"),
			GuildID: os.Getenv("DISCORD_GUILD_ID"),
		},
		Mongo: MongoConfig{
			URI:         getEnv("MONGODB_URI", "mongodb://127.0.0.1:27017"),
			Database:    getEnv("MONGODB_DATABASE", "membercat"),
			MaxPoolSize: uint64(getEnvAsInt("MONGODB_MAX_POOL_SIZE", 20)),
			TimeoutSec:  getEnvAsInt("MONGODB_TIMEOUT_SECONDS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Cache: CacheConfig{
			Backend:         getEnv("CACHE_BACKEND", "memory"),
			SweepIntervalMs: getEnvAsInt("CACHE_SWEEP_INTERVAL_MS", 60_000),
		},
		Modmail: ModmailConfig{
			DefaultCooldownSeconds: getEnvAsInt("MODMAIL_COOLDOWN_SECONDS", 3600),
		},
		Updater: UpdaterConfig{
			Organization:      getEnv("MODRINTH_ORGANIZATION", "membercat"),
			DefaultIntervalMs: getEnvAsInt("UPDATER_INTERVAL_MS", 180_000),
		},
		Feeds: FeedConfig{
			DefaultIntervalMs: getEnvAsInt("RSS_INTERVAL_MS", 300_000),
		},
		Modrinth: ModrinthConfig{
			BaseURL:        getEnv("MODRINTH_BASE_URL", "https://api.modrinth.com/v3"),
			UserAgent:      getEnv("MODRINTH_USER_AGENT", "membercat-bot/1.0.0"),
			TimeoutSeconds: getEnvAsInt("MODRINTH_TIMEOUT_SECONDS", 10),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	return cfg, nil
}

// Addr returns the ops HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// SweepInterval returns the cache sweep period.
func (c CacheConfig) SweepInterval() time.Duration {
	if c.SweepIntervalMs <= 0 {
		return time.Minute
	}
	return time.Duration(c.SweepIntervalMs) * time.Millisecond
}

// DefaultCooldown returns the fallback modmail cooldown window.
func (m ModmailConfig) DefaultCooldown() time.Duration {
	if m.DefaultCooldownSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(m.DefaultCooldownSeconds) * time.Second
}

// DefaultInterval returns the fallback update poll period.
func (u UpdaterConfig) DefaultInterval() time.Duration {
	if u.DefaultIntervalMs <= 0 {
		return 3 * time.Minute
	}
	return time.Duration(u.DefaultIntervalMs) * time.Millisecond
}

// DefaultInterval returns the fallback feed poll period.
func (f FeedConfig) DefaultInterval() time.Duration {
	if f.DefaultIntervalMs <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(f.DefaultIntervalMs) * time.Millisecond
}

// Timeout returns the Modrinth HTTP client timeout.
func (m ModrinthConfig) Timeout() time.Duration {
	if m.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(m.TimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
