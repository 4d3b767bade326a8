// Command repctl analyzes transaction files offline, prints benefit tiers
// and drives a running reputation service with synthetic wallets.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

var (
	logLevel  string
	logFormat string
	rootCmd   = &cobra.Command{
		Use:   "repctl",
		Short: "Algorand wallet reputation toolkit",
		Long: `repctl scores Algorand wallet histories with the same engine the
reputation service runs, shows which benefits a score unlocks, and
simulates persona wallets against a running service.`,
		SilenceUsage:      true,
		PersistentPreRunE: initLogging,
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "log format (text, json)")

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(benefitsCmd())
	rootCmd.AddCommand(simulateCmd())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initLogging sends logs to stderr so command output stays parseable.
func initLogging(_ *cobra.Command, _ []string) error {
	if err := logger.Init(
		logger.WithFormat(logger.Format(logFormat)),
		logger.WithOutput(os.Stderr),
		logger.WithSource(false),
	); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return logger.SetLevelString(logLevel)
}
