package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Danish0703/algorand-reputation-system/internal/simulate"
)

func simulateCmd() *cobra.Command {
	var (
		cfg    simulate.Config
		strict bool
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Drive a running service with persona wallets",
		Long: `Generate wallets for every persona (defi farmer, DAO voter, NFT
collector, new wallet, suspicious churner), post their histories, run the
advanced analysis for each and check the scores against the persona bands.
The run report is printed as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := simulate.Run(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), report); err != nil {
				return err
			}
			if strict && report.BandMisses > 0 {
				return fmt.Errorf("%d wallet(s) scored outside their persona band", report.BandMisses)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&cfg.BaseURL, "url", simulate.DefaultBaseURL, "base URL of the reputation service")
	cmd.Flags().IntVar(&cfg.Wallets, "wallets", simulate.DefaultWallets, "wallets generated per persona")
	cmd.Flags().IntVar(&cfg.TopN, "top", simulate.DefaultTopN, "leaderboard entries to fetch")
	cmd.Flags().IntVar(&cfg.Workers, "workers", simulate.DefaultWorkers, "concurrent HTTP workers")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", simulate.DefaultTimeout, "HTTP request timeout")
	cmd.Flags().Uint64Var(&cfg.Seed, "seed", 0, "generator seed (0 picks one at random)")
	cmd.Flags().StringVarP(&cfg.Output, "output", "o", "", "write generated wallets to this JSON file")
	cmd.Flags().BoolVarP(&cfg.Verbose, "verbose", "v", false, "log every rejected transaction")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any score misses its persona band")

	return cmd
}
