package config

import (
	"testing"
	"time"
)

func TestLoadFromEnv_Defaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %s", cfg.LogLevel)
	}
	if cfg.HTTPPort != "8080" {
		t.Errorf("expected port 8080, got %s", cfg.HTTPPort)
	}
	if cfg.ExecutionMode != "dry-run" {
		t.Errorf("expected dry-run mode, got %s", cfg.ExecutionMode)
	}
	if cfg.ScanInterval != 15*time.Second {
		t.Errorf("expected 15s scan interval, got %v", cfg.ScanInterval)
	}
	if cfg.ReadDelay != 150*time.Millisecond {
		t.Errorf("expected 150ms read delay, got %v", cfg.ReadDelay)
	}
	if cfg.Contracts != 5 {
		t.Errorf("expected 5 contracts, got %d", cfg.Contracts)
	}
	if cfg.MinNetProfitCents != 10 {
		t.Errorf("expected 10c profit floor, got %d", cfg.MinNetProfitCents)
	}
	if cfg.MinBrackets != 2 || cfg.MaxBrackets != 15 {
		t.Errorf("unexpected bracket bounds %d..%d", cfg.MinBrackets, cfg.MaxBrackets)
	}
	if cfg.StorageMode != "console" {
		t.Errorf("expected console storage, got %s", cfg.StorageMode)
	}
}

func TestLoadFromEnv_Overrides(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "5s")
	t.Setenv("EXECUTION_MODE", "live")
	t.Setenv("KALSHI_ACCESS_KEY_ID", "key-1")
	t.Setenv("KALSHI_PRIVATE_KEY_PATH", "/tmp/key.pem")
	t.Setenv("SERIES_TICKERS", "KXHIGHNY, KXHIGHCHI ,")
	t.Setenv("CONTRACTS_PER_LEG", "10")
	t.Setenv("TELEGRAM_ENABLED", "true")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ScanInterval != 5*time.Second {
		t.Errorf("expected 5s scan interval, got %v", cfg.ScanInterval)
	}
	if cfg.ExecutionMode != "live" {
		t.Errorf("expected live mode, got %s", cfg.ExecutionMode)
	}
	if len(cfg.SeriesTickers) != 2 || cfg.SeriesTickers[0] != "KXHIGHNY" || cfg.SeriesTickers[1] != "KXHIGHCHI" {
		t.Errorf("unexpected series tickers %v", cfg.SeriesTickers)
	}
	if cfg.Contracts != 10 {
		t.Errorf("expected 10 contracts, got %d", cfg.Contracts)
	}
	if !cfg.TelegramEnabled {
		t.Error("expected telegram enabled")
	}
}

func TestLoadFromEnv_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("SCAN_INTERVAL", "soon")
	t.Setenv("CONTRACTS_PER_LEG", "several")
	t.Setenv("FEED_ENABLED", "maybe")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.ScanInterval != 15*time.Second {
		t.Errorf("expected default scan interval, got %v", cfg.ScanInterval)
	}
	if cfg.Contracts != 5 {
		t.Errorf("expected default contracts, got %d", cfg.Contracts)
	}
	if !cfg.FeedEnabled {
		t.Error("expected default feed enabled")
	}
}

func TestValidate_LiveModeNeedsCredentials(t *testing.T) {
	t.Setenv("EXECUTION_MODE", "live")

	_, err := LoadFromEnv()
	if err == nil {
		t.Fatal("expected error for live mode without credentials")
	}
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty port", func(c *Config) { c.HTTPPort = "" }},
		{"bad mode", func(c *Config) { c.ExecutionMode = "paper" }},
		{"min brackets too low", func(c *Config) { c.MinBrackets = 1 }},
		{"inverted bracket bounds", func(c *Config) { c.MinBrackets = 5; c.MaxBrackets = 3 }},
		{"zero contracts", func(c *Config) { c.Contracts = 0 }},
		{"bad storage mode", func(c *Config) { c.StorageMode = "sqlite" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := LoadFromEnv()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
