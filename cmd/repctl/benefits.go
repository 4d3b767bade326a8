package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/benefits"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
)

func benefitsCmd() *cobra.Command {
	var (
		score  int
		wallet string
	)

	cmd := &cobra.Command{
		Use:   "benefits",
		Short: "Show the tier and benefits a score unlocks",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if score < 0 || score > reputation.ScaleCanonical {
				return fmt.Errorf("--score must be within [0,%d], got %d", reputation.ScaleCanonical, score)
			}
			return printJSON(cmd.OutOrStdout(), benefits.Summarize(wallet, score))
		},
	}

	cmd.Flags().IntVar(&score, "score", 0, "canonical reputation score (0-1000)")
	cmd.Flags().StringVar(&wallet, "wallet", "", "wallet address reported in the summary")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
