package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goldbar123467/arb-bot/internal/app"
	"github.com/goldbar123467/arb-bot/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan cycle and exit",
	Long: `Runs one scan cycle in dry-run mode and exits. Detected opportunities
and their gate verdicts go to the audit log; no orders are placed. Useful for
checking credentials, series filters, and current market pricing.`,
	RunE: runScan,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("series", "s", "", "Scan only a single series by ticker")
}

func runScan(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	// One-shot scans never trade, whatever the environment says
	cfg.ExecutionMode = "dry-run"

	logger, err := config.NewLogger()
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	series, _ := cmd.Flags().GetString("series")

	application, err := app.New(cfg, logger, &app.Options{
		SeriesTicker: series,
	})
	if err != nil {
		return fmt.Errorf("create app: %w", err)
	}

	application.Scanner().Scan(context.Background())

	return application.Shutdown()
}
