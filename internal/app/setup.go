package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/alerts"
	"github.com/goldbar123467/arb-bot/internal/arbitrage"
	"github.com/goldbar123467/arb-bot/internal/audit"
	"github.com/goldbar123467/arb-bot/internal/execution"
	"github.com/goldbar123467/arb-bot/internal/kalshi"
	"github.com/goldbar123467/arb-bot/internal/risk"
	"github.com/goldbar123467/arb-bot/internal/scanner"
	"github.com/goldbar123467/arb-bot/pkg/cache"
	"github.com/goldbar123467/arb-bot/pkg/config"
	"github.com/goldbar123467/arb-bot/pkg/healthprobe"
	"github.com/goldbar123467/arb-bot/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := healthprobe.New()

	seriesCache, err := setupCache(logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup cache: %w", err)
	}

	signer, err := setupSigner(cfg)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup signer: %w", err)
	}

	client := kalshi.NewClient(kalshi.Config{
		BaseURL:    cfg.KalshiAPIURL,
		Signer:     signer,
		Cache:      seriesCache,
		SeriesTTL:  cfg.SeriesTTL,
		ReadDelay:  cfg.ReadDelay,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})

	notifier := alerts.NewTelegram(alerts.Config{
		Enabled: cfg.TelegramEnabled,
		Token:   cfg.TelegramToken,
		ChatID:  cfg.TelegramChatID,
	}, logger)

	ledger := risk.NewLedger(risk.Config{
		Logger:   logger,
		Notifier: notifier,
	})

	gate := risk.NewGate(ledger, risk.GateConfig{
		MinNetProfitCents: cfg.MinNetProfitCents,
		MinROIBps:         cfg.MinROIBps,
		Logger:            logger,
	})

	detector := arbitrage.New(arbitrage.Config{
		MinBrackets: cfg.MinBrackets,
		MaxBrackets: cfg.MaxBrackets,
		Contracts:   cfg.Contracts,
		Logger:      logger,
	})

	recorder, err := setupRecorder(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup recorder: %w", err)
	}

	var executor scanner.Executor
	var reconciler scanner.Reconciler
	if cfg.ExecutionMode == "live" {
		engine := execution.New(execution.Config{
			Client:       client,
			Ledger:       ledger,
			Notifier:     notifier,
			LegTimeout:   cfg.LegTimeout,
			PollInterval: cfg.PollInterval,
			Logger:       logger,
		})
		executor = engine
		reconciler = execution.NewReconciler(client, ledger, logger)
	} else {
		logger.Info("executor-disabled-dry-run-mode",
			zap.String("mode", cfg.ExecutionMode))
	}

	feed := setupFeed(cfg, signer, logger)

	seriesFilter := cfg.SeriesTickers
	if opts.SeriesTicker != "" {
		seriesFilter = []string{opts.SeriesTicker}
	}

	var updates <-chan string
	if feed != nil {
		updates = feed.Updates()
	}

	scan := scanner.New(scanner.Config{
		Venue:        client,
		Detector:     detector,
		Gate:         gate,
		Ledger:       ledger,
		Executor:     executor,
		Reconciler:   reconciler,
		Recorder:     recorder,
		Updates:      updates,
		Interval:     cfg.ScanInterval,
		Category:     cfg.Category,
		SeriesFilter: seriesFilter,
		BookDepth:    cfg.BookDepth,
		MinBrackets:  cfg.MinBrackets,
		MaxBrackets:  cfg.MaxBrackets,
		Logger:       logger,
	})

	httpServer := httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Ledger:        ledger,
	})

	return &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		client:        client,
		feed:          feed,
		ledger:        ledger,
		scanner:       scan,
		recorder:      recorder,
		cache:         seriesCache,
		ctx:           ctx,
		cancel:        cancel,
	}, nil
}

// Scanner exposes the scan loop for one-shot commands.
func (a *App) Scanner() *scanner.Scanner {
	return a.scanner
}

func setupCache(logger *zap.Logger) (cache.Cache, error) {
	return cache.NewRistrettoCache(&cache.RistrettoConfig{
		NumCounters: 10000,
		MaxCost:     1000,
		BufferItems: 64,
		Logger:      logger,
	})
}

func setupSigner(cfg *config.Config) (*kalshi.Signer, error) {
	if cfg.KalshiAccessKeyID == "" || cfg.KalshiPrivateKeyPath == "" {
		return nil, nil
	}

	key, err := kalshi.LoadPrivateKey(cfg.KalshiPrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("load private key: %w", err)
	}
	return kalshi.NewSigner(cfg.KalshiAccessKeyID, key), nil
}

// setupFeed builds the websocket feed. The feed is an optimization, so a
// missing signer or a disabled flag just means interval-only scanning.
func setupFeed(cfg *config.Config, signer *kalshi.Signer, logger *zap.Logger) *kalshi.Feed {
	if !cfg.FeedEnabled {
		return nil
	}
	if signer == nil {
		logger.Info("feed-disabled-no-credentials")
		return nil
	}

	return kalshi.NewFeed(kalshi.FeedConfig{
		URL:               cfg.KalshiWSURL,
		Signer:            signer,
		Logger:            logger,
		ReconnectInitial:  cfg.WSReconnectInitialDelay,
		ReconnectMax:      cfg.WSReconnectMaxDelay,
		BackoffMultiplier: cfg.WSReconnectBackoffMult,
		UpdateBufferSize:  cfg.WSUpdateBufferSize,
	})
}

func setupRecorder(cfg *config.Config, logger *zap.Logger) (audit.Recorder, error) {
	if cfg.StorageMode == "postgres" {
		recorder, err := audit.NewPostgresRecorder(&audit.PostgresConfig{
			Host:     cfg.PostgresHost,
			Port:     cfg.PostgresPort,
			User:     cfg.PostgresUser,
			Password: cfg.PostgresPass,
			Database: cfg.PostgresDB,
			SSLMode:  cfg.PostgresSSL,
			Logger:   logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create postgres recorder: %w", err)
		}
		return recorder, nil
	}

	return audit.NewConsoleRecorder(logger), nil
}
