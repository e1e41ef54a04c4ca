// Package app wires configuration into running components and owns their
// lifecycle.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/goldbar123467/arb-bot/internal/audit"
	"github.com/goldbar123467/arb-bot/internal/kalshi"
	"github.com/goldbar123467/arb-bot/internal/risk"
	"github.com/goldbar123467/arb-bot/internal/scanner"
	"github.com/goldbar123467/arb-bot/pkg/cache"
	"github.com/goldbar123467/arb-bot/pkg/config"
	"github.com/goldbar123467/arb-bot/pkg/healthprobe"
	"github.com/goldbar123467/arb-bot/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	client        *kalshi.Client
	feed          *kalshi.Feed
	ledger        *risk.Ledger
	scanner       *scanner.Scanner
	recorder      audit.Recorder
	cache         cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}

// Options holds application options.
type Options struct {
	// SeriesTicker restricts the scan to one series, overriding configuration.
	// Used by the one-shot scan command.
	SeriesTicker string
}
