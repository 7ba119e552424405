// Package config holds runtime settings read from the environment and the
// business constants shared across services.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env    string
	Port   string
	Origin string // CORS

	DB    DatabaseConfig
	Redis RedisConfig

	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration

	TelegramToken string

	// RabbitURL enables forwarding status changes to RabbitMQ. Empty disables it.
	RabbitURL string

	// Notifications. Empty values disable the channel and delivery falls back to the log sender.
	AWSRegion  string
	SESFrom    string
	SMSEnabled bool

	LocaleDir     string // empty uses the bundled catalogues
	DefaultLocale string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// DSN returns the postgres connection string in the key=value form gorm's driver accepts.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		c.Host, c.User, c.Password, c.Name, c.Port, c.SSLMode)
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(k string, def time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// Load reads the configuration from the process environment. Callers that want
// .env support should run godotenv.Load first.
func Load() Config {
	return Config{
		Env:    env("APP_ENV", "dev"),
		Port:   env("API_PORT", "8000"),
		Origin: env("CORS_ORIGIN", "http://localhost:3000"),
		DB: DatabaseConfig{
			Host:     env("DB_HOST", "localhost"),
			Port:     env("DB_PORT", "5432"),
			User:     env("DB_USER", "dcms"),
			Password: env("DB_PASSWORD", "dcms"),
			Name:     env("DB_NAME", "dcms"),
			SSLMode:  env("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     env("REDIS_ADDR", "localhost:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       envInt("REDIS_DB", 0),
		},
		JWTSecret:     env("JWT_SECRET", "dev-secret-change-me"),
		AccessTTL:     envDuration("JWT_ACCESS_TTL", AccessTokenTTL),
		RefreshTTL:    envDuration("JWT_REFRESH_TTL", RefreshTokenTTL),
		TelegramToken: os.Getenv("TELEGRAM_BOT_TOKEN"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		AWSRegion:     os.Getenv("AWS_REGION"),
		SESFrom:       os.Getenv("SES_FROM_ADDRESS"),
		SMSEnabled:    envBool("SMS_ENABLED", false),
		LocaleDir:     os.Getenv("LOCALE_DIR"),
		DefaultLocale: env("DEFAULT_LOCALE", "en"),
	}
}

func (c Config) IsDev() bool { return c.Env == "dev" }
