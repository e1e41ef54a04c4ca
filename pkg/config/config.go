// Package config loads application configuration from the environment and
// builds the process logger.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// Application
	LogLevel string
	HTTPPort string

	// Kalshi API
	KalshiAPIURL         string
	KalshiWSURL          string
	KalshiAccessKeyID    string
	KalshiPrivateKeyPath string

	// Client throttling
	ReadDelay  time.Duration
	SeriesTTL  time.Duration
	MaxRetries int

	// Scanning
	ScanInterval  time.Duration
	Category      string
	SeriesTickers []string // explicit series to scan; empty means discover by category
	BookDepth     int
	MinBrackets   int
	MaxBrackets   int

	// Market-data feed
	FeedEnabled             bool
	WSReconnectInitialDelay time.Duration
	WSReconnectMaxDelay     time.Duration
	WSReconnectBackoffMult  float64
	WSUpdateBufferSize      int

	// Trading
	Contracts         int64
	MinNetProfitCents int64
	MinROIBps         int64

	// Execution
	ExecutionMode string // "dry-run" or "live"
	LegTimeout    time.Duration
	PollInterval  time.Duration

	// Storage
	StorageMode  string // "postgres" or "console"
	PostgresHost string
	PostgresPort string
	PostgresUser string
	PostgresPass string
	PostgresDB   string
	PostgresSSL  string

	// Alerts
	TelegramEnabled bool
	TelegramToken   string
	TelegramChatID  string
}

// LoadFromEnv loads configuration from environment variables with defaults.
func LoadFromEnv() (*Config, error) {
	cfg := &Config{
		// Application defaults
		LogLevel: getEnvOrDefault("LOG_LEVEL", "info"),
		HTTPPort: getEnvOrDefault("HTTP_PORT", "8080"),

		// Kalshi API defaults
		KalshiAPIURL:         getEnvOrDefault("KALSHI_API_URL", "https://api.elections.kalshi.com"),
		KalshiWSURL:          getEnvOrDefault("KALSHI_WS_URL", "wss://api.elections.kalshi.com"),
		KalshiAccessKeyID:    os.Getenv("KALSHI_ACCESS_KEY_ID"),
		KalshiPrivateKeyPath: os.Getenv("KALSHI_PRIVATE_KEY_PATH"),

		// Client defaults
		ReadDelay:  getDurationOrDefault("KALSHI_READ_DELAY", 150*time.Millisecond),
		SeriesTTL:  getDurationOrDefault("SERIES_CACHE_TTL", 5*time.Minute),
		MaxRetries: getIntOrDefault("KALSHI_MAX_RETRIES", 5),

		// Scanning defaults
		ScanInterval:  getDurationOrDefault("SCAN_INTERVAL", 15*time.Second),
		Category:      getEnvOrDefault("SERIES_CATEGORY", ""),
		SeriesTickers: getStringSlice("SERIES_TICKERS"),
		BookDepth:     getIntOrDefault("BOOK_DEPTH", 10),
		MinBrackets:   getIntOrDefault("MIN_BRACKETS", 2),
		MaxBrackets:   getIntOrDefault("MAX_BRACKETS", 15),

		// Feed defaults
		FeedEnabled:             getBoolOrDefault("FEED_ENABLED", true),
		WSReconnectInitialDelay: getDurationOrDefault("WS_RECONNECT_INITIAL_DELAY", 1*time.Second),
		WSReconnectMaxDelay:     getDurationOrDefault("WS_RECONNECT_MAX_DELAY", 30*time.Second),
		WSReconnectBackoffMult:  getFloat64OrDefault("WS_RECONNECT_BACKOFF_MULTIPLIER", 2.0),
		WSUpdateBufferSize:      getIntOrDefault("WS_UPDATE_BUFFER_SIZE", 256),

		// Trading defaults
		Contracts:         getInt64OrDefault("CONTRACTS_PER_LEG", 5),
		MinNetProfitCents: getInt64OrDefault("MIN_NET_PROFIT_CENTS", 10),
		MinROIBps:         getInt64OrDefault("MIN_ROI_BPS", 100),

		// Execution defaults
		ExecutionMode: getEnvOrDefault("EXECUTION_MODE", "dry-run"),
		LegTimeout:    getDurationOrDefault("LEG_TIMEOUT", 5*time.Second),
		PollInterval:  getDurationOrDefault("ORDER_POLL_INTERVAL", 200*time.Millisecond),

		// Storage defaults
		StorageMode:  getEnvOrDefault("STORAGE_MODE", "console"),
		PostgresHost: getEnvOrDefault("POSTGRES_HOST", "localhost"),
		PostgresPort: getEnvOrDefault("POSTGRES_PORT", "5432"),
		PostgresUser: getEnvOrDefault("POSTGRES_USER", "bracket_arb"),
		PostgresPass: os.Getenv("POSTGRES_PASSWORD"),
		PostgresDB:   getEnvOrDefault("POSTGRES_DB", "bracket_arb"),
		PostgresSSL:  getEnvOrDefault("POSTGRES_SSLMODE", "disable"),

		// Alert defaults
		TelegramEnabled: getBoolOrDefault("TELEGRAM_ENABLED", false),
		TelegramToken:   os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramChatID:  os.Getenv("TELEGRAM_CHAT_ID"),
	}

	err := cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return cfg, nil
}

// Validate checks that configuration values are valid.
func (c *Config) Validate() error {
	if c.HTTPPort == "" {
		return fmt.Errorf("HTTP_PORT cannot be empty")
	}

	if c.KalshiAPIURL == "" {
		return fmt.Errorf("KALSHI_API_URL cannot be empty")
	}

	if c.ExecutionMode != "dry-run" && c.ExecutionMode != "live" {
		return fmt.Errorf("EXECUTION_MODE must be 'dry-run' or 'live', got %q", c.ExecutionMode)
	}

	if c.ExecutionMode == "live" {
		if c.KalshiAccessKeyID == "" || c.KalshiPrivateKeyPath == "" {
			return fmt.Errorf("live mode requires KALSHI_ACCESS_KEY_ID and KALSHI_PRIVATE_KEY_PATH")
		}
	}

	if c.MinBrackets < 2 {
		return fmt.Errorf("MIN_BRACKETS must be at least 2, got %d", c.MinBrackets)
	}

	if c.MaxBrackets < c.MinBrackets {
		return fmt.Errorf("MAX_BRACKETS must be >= MIN_BRACKETS, got %d < %d", c.MaxBrackets, c.MinBrackets)
	}

	if c.Contracts <= 0 {
		return fmt.Errorf("CONTRACTS_PER_LEG must be positive, got %d", c.Contracts)
	}

	if c.StorageMode != "console" && c.StorageMode != "postgres" {
		return fmt.Errorf("STORAGE_MODE must be 'console' or 'postgres', got %q", c.StorageMode)
	}

	return nil
}

func getEnvOrDefault(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getInt64OrDefault(key string, defaultValue int64) int64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	intVal, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}

	return intVal
}

func getFloat64OrDefault(key string, defaultValue float64) float64 {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	floatVal, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}

	return floatVal
}

func getBoolOrDefault(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	boolVal, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}

	return boolVal
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}

	return duration
}

func getStringSlice(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
