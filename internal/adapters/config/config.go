package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"argus/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Telegram      TelegramConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	Monitor       MonitorConfig
	Metrics       MetricsConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name             string `envconfig:"APP_NAME" default:"argus"`
	Env              string `envconfig:"APP_ENV" default:"development"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	DefaultUserEmail string `envconfig:"DEFAULT_USER_EMAIL" default:"user@localhost"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type TelegramConfig struct {
	BotToken string `envconfig:"TELEGRAM_BOT_TOKEN"`
	ChatID   int64  `envconfig:"TELEGRAM_CHAT_ID"`
}

type AIConfig struct {
	OpenAIKey   string        `envconfig:"OPENAI_API_KEY"`
	Model       string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	MaxTokens   int           `envconfig:"OPENAI_MAX_TOKENS" default:"200"`
	Temperature float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.3"`
	Timeout     time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
}

// MarketDataConfig controls the quote provider and the cache layer in front of it.
type MarketDataConfig struct {
	BaseURL      string        `envconfig:"MARKET_DATA_BASE_URL" default:"https://query1.finance.yahoo.com"`
	PriceTTL     time.Duration `envconfig:"PRICE_CACHE_TTL" default:"60s"`
	RangeTTL     time.Duration `envconfig:"RANGE_CACHE_TTL" default:"4h"`
	FetchTimeout time.Duration `envconfig:"MARKET_DATA_FETCH_TIMEOUT" default:"30s"`
	FetchWorkers int           `envconfig:"MARKET_DATA_FETCH_WORKERS" default:"4"`
}

type MonitorConfig struct {
	Interval       time.Duration `envconfig:"MONITOR_INTERVAL" default:"5m"`
	UseAI          bool          `envconfig:"MONITOR_USE_AI" default:"false"`
	IgnoreCooldown bool          `envconfig:"MONITOR_IGNORE_COOLDOWN" default:"false"`
	Enabled        bool          `envconfig:"MONITOR_ENABLED" default:"true"`
}

type MetricsConfig struct {
	Enabled bool `envconfig:"METRICS_ENABLED" default:"false"`
	Port    int  `envconfig:"METRICS_PORT" default:"9090"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
