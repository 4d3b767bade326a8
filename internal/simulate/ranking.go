package simulate

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// analyzeWallets runs the advanced pipeline for every wallet concurrently
// and records each canonical score against its persona band.
func analyzeWallets(ctx context.Context, cfg Config, client *HTTPClient, wallets []Wallet, report *Report) error {
	log := logger.Get()
	log.Info(ctx, "analyzing wallets", logger.Int("wallets", len(wallets)))

	outcomes := make([]Outcome, len(wallets))
	errs := make([]error, len(wallets))
	indices := make(chan int, cfg.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range indices {
				w := wallets[i]
				var resp types.AnalysisResponse
				path := "/api/analyze-advanced/" + url.PathEscape(w.Address)
				if _, err := client.do(ctx, http.MethodPost, path, nil, &resp, http.StatusOK); err != nil {
					errs[i] = fmt.Errorf("analyze %s: %w", w.Address, err)
					continue
				}
				p, _ := PersonaByName(w.Persona)
				outcomes[i] = Outcome{
					Wallet:  w.Address,
					Persona: w.Persona,
					Score:   resp.Score,
					Band:    p.Band,
					InBand:  p.Band.Contains(resp.Score),
				}
			}
		}()
	}

	go func() {
		defer close(indices)
		for i := range wallets {
			select {
			case <-ctx.Done():
				return
			case indices <- i:
			}
		}
	}()
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	report.Outcomes = outcomes
	return nil
}

// getLeaderboard retrieves the top N leaderboard entries.
func getLeaderboard(ctx context.Context, cfg Config, client *HTTPClient, report *Report) error {
	var lb types.LeaderboardResponse
	path := fmt.Sprintf("/leaderboard?limit=%d", cfg.TopN)
	if _, err := client.do(ctx, http.MethodGet, path, nil, &lb, http.StatusOK); err != nil {
		return err
	}
	report.Leaderboard = lb.Entries
	report.LeaderboardTotal = lb.Total
	logger.Get().Info(ctx, "retrieved leaderboard", logger.Int("entries", len(lb.Entries)), logger.Int("total", lb.Total))
	return nil
}
