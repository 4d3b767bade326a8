package simulate

import (
	"context"
	"errors"
	"fmt"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// ErrInconsistentLeaderboard is returned when the leaderboard is not in
// competition-rank order.
var ErrInconsistentLeaderboard = errors.New("inconsistent leaderboard")

// verifyResults counts band misses and checks leaderboard ordering.
func verifyResults(ctx context.Context, report *Report) error {
	log := logger.Get()

	report.BandMisses = 0
	for _, o := range report.Outcomes {
		if o.InBand {
			continue
		}
		report.BandMisses++
		log.Warn(ctx, "score outside persona band",
			logger.String("wallet", o.Wallet),
			logger.String("persona", o.Persona),
			logger.Int("score", o.Score),
			logger.Int("min", o.Band.Min),
			logger.Int("max", o.Band.Max))
	}

	if err := verifyLeaderboard(report.Leaderboard); err != nil {
		return err
	}
	log.Info(ctx, "result verification completed", logger.Int("bandMisses", report.BandMisses))
	return nil
}

// verifyLeaderboard checks that scores never increase down the board and
// that ties share a rank while the next distinct score skips ahead.
func verifyLeaderboard(entries []types.Entry) error {
	for i := range entries {
		e := entries[i]
		if i == 0 {
			if e.Rank != 1 {
				return fmt.Errorf("%w: first entry has rank %d", ErrInconsistentLeaderboard, e.Rank)
			}
			continue
		}
		prev := entries[i-1]
		switch {
		case e.Score > prev.Score:
			return fmt.Errorf("%w: entry %d outscores entry %d", ErrInconsistentLeaderboard, i, i-1)
		case e.Score == prev.Score && e.Rank != prev.Rank:
			return fmt.Errorf("%w: tied entries %d and %d have ranks %d and %d", ErrInconsistentLeaderboard, i-1, i, prev.Rank, e.Rank)
		case e.Score < prev.Score && e.Rank != i+1:
			return fmt.Errorf("%w: entry %d has rank %d, want %d", ErrInconsistentLeaderboard, i, e.Rank, i+1)
		}
	}
	return nil
}
