// Package cmd holds the CLI commands.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "bracket-arb",
	Short: "Kalshi bracket arbitrage bot",
	Long: `Bracket arbitrage bot for Kalshi-style prediction markets.

Across the brackets of a mutually-exclusive event exactly one contract
settles at 100c. When the best asks sum below 100c the bot buys every
bracket; when the best bids sum above 100c it sells every bracket. Either
way the payout at settlement is locked in regardless of which bracket wins.

The bot scans series on an interval, prices each event's full bracket set,
and executes all legs concurrently under compiled-in daily risk ceilings.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
