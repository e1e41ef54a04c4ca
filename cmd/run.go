package cmd

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/goldbar123467/arb-bot/internal/app"
	"github.com/goldbar123467/arb-bot/pkg/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the arbitrage bot",
	Long: `Starts the bracket arbitrage bot, which will:
1. Enumerate series and their open events
2. Pull every active bracket's orderbook and derive top-of-book quotes
3. Detect Dutch-book mispricing against 100c par in both directions
4. Execute gate-approved opportunities, or log them in dry-run mode

The risk ledger halts all trading when a daily ceiling is breached; a halt
only clears through the operator endpoint.`,
	RunE: runBot,
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("series", "s", "", "Scan only a single series by ticker")
}

func runBot(cmd *cobra.Command, args []string) error {
	// A missing .env is fine, the environment may be set externally
	_ = godotenv.Load()

	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

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

	err = application.Run()
	if err != nil {
		return fmt.Errorf("run app: %w", err)
	}

	return nil
}
