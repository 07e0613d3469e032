package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
type Config struct {
	AppPort  string
	AppEnv   string
	LogLevel string

	AWSRegion      string
	AWSEndpointURL string // empty in prod, set to LocalStack URL in dev
	AWSAccessKeyID string
	AWSSecretKey   string
	DynamoTables   DynamoTables

	// Market data provider.
	MarketBaseURL string
	MarketAPIKey  string
	MarketTimeout time.Duration

	// Push delivery (SNS topic all mobile clients are subscribed to).
	SNSRegion   string
	SNSTopicARN string

	// Shared secret carried by the external scheduler on job triggers.
	SchedulerSecret string

	Jobs JobConfig

	AllowedOrigins []string // CORS allowed origins
}

// DynamoTables holds the DynamoDB table name for each entity.
type DynamoTables struct {
	PriceAlerts       string
	Notifications     string
	SentNotifications string
}

// JobConfig holds the notification jobs' thresholds and cadence assumptions.
type JobConfig struct {
	MoverMinPercent float64       // minimum abs(percent change) to qualify
	MoverMinPrice   float64       // penny-stock exclusion floor
	MoverCooldown   time.Duration // suppress new mover dispatches within this window
	NewsCooldown    time.Duration // suppress new news dispatches within this window
	NewsMaxAge      time.Duration // articles older than this are discarded before scoring
	NewsMinScore    int           // minimum keyword score for inclusion
	LedgerRetention time.Duration // sent-notification rows older than this are purged
	SymbolPacing    time.Duration // min interval between per-symbol quote fetches
}

// Load reads all configuration from environment variables.
func Load() *Config {
	return &Config{
		AppPort:  getEnv("APP_PORT", "3000"),
		AppEnv:   getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		AWSRegion:      getEnv("AWS_REGION", "us-east-1"),
		AWSEndpointURL: getEnv("AWS_ENDPOINT_URL", ""),
		AWSAccessKeyID: getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretKey:   getEnv("AWS_SECRET_ACCESS_KEY", ""),
		DynamoTables: DynamoTables{
			PriceAlerts:       getEnv("DYNAMO_TABLE_PRICE_ALERTS", "price_alerts"),
			Notifications:     getEnv("DYNAMO_TABLE_NOTIFICATIONS", "notifications"),
			SentNotifications: getEnv("DYNAMO_TABLE_SENT_NOTIFICATIONS", "sent_notifications"),
		},
		MarketBaseURL: getEnv("MARKET_API_BASE_URL", "https://financialmodelingprep.com/api/v3"),
		MarketAPIKey:  getEnv("MARKET_API_KEY", ""),
		MarketTimeout: getEnvDuration("MARKET_API_TIMEOUT", 10*time.Second),
		SNSRegion:   getEnv("SNS_REGION", "us-east-1"),
		SNSTopicARN: getEnv("SNS_TOPIC_ARN", ""),
		SchedulerSecret: getEnv("SCHEDULER_SECRET", ""),
		Jobs: JobConfig{
			MoverMinPercent: getEnvFloat("MOVER_MIN_PERCENT", 5.0),
			MoverMinPrice:   getEnvFloat("MOVER_MIN_PRICE", 1.0),
			MoverCooldown:   getEnvDuration("MOVER_COOLDOWN", 25*time.Minute),
			NewsCooldown:    getEnvDuration("NEWS_COOLDOWN", 12*time.Minute),
			NewsMaxAge:      getEnvDuration("NEWS_MAX_AGE", 6*time.Hour),
			NewsMinScore:    getEnvInt("NEWS_MIN_SCORE", 1),
			LedgerRetention: getEnvDuration("LEDGER_RETENTION", 7*24*time.Hour),
			SymbolPacing:    getEnvDuration("SYMBOL_PACING", 200*time.Millisecond),
		},
		AllowedOrigins: strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ","),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
