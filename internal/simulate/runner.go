package simulate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

func (c Config) normalize() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Wallets <= 0 {
		c.Wallets = DefaultWallets
	}
	if c.TopN <= 0 {
		c.TopN = DefaultTopN
	}
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return c
}

// Run executes a complete simulation against cfg.BaseURL: health check,
// generation, submission, advanced analysis, leaderboard fetch and
// verification. Band misses are reported, not returned as errors.
func Run(ctx context.Context, cfg Config) (Report, error) {
	cfg = cfg.normalize()
	start := time.Now()
	log := logger.Get()
	log.Info(ctx, "starting reputation simulation",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("walletsPerPersona", cfg.Wallets),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout))

	client := newHTTPClient(cfg.BaseURL, cfg.Timeout)
	var report Report

	if err := checkServiceHealth(ctx, client); err != nil {
		return report, fmt.Errorf("service health check failed: %w", err)
	}

	wallets := NewGenerator(cfg.Seed, time.Now()).Wallets(cfg.Wallets)
	report.WalletsGenerated = len(wallets)

	if cfg.Output != "" {
		if err := saveWallets(cfg.Output, wallets); err != nil {
			log.Warn(ctx, "failed to save wallets to file", logger.Error(err))
		}
	}

	if err := submitTransactions(ctx, cfg, client, wallets, &report); err != nil {
		return report, fmt.Errorf("transaction submission failed: %w", err)
	}
	if err := analyzeWallets(ctx, cfg, client, wallets, &report); err != nil {
		return report, fmt.Errorf("wallet analysis failed: %w", err)
	}
	if err := getLeaderboard(ctx, cfg, client, &report); err != nil {
		return report, fmt.Errorf("leaderboard retrieval failed: %w", err)
	}
	if err := verifyResults(ctx, &report); err != nil {
		return report, fmt.Errorf("result verification failed: %w", err)
	}

	report.Duration = time.Since(start)
	log.Info(ctx, "simulation completed",
		logger.Int("wallets", report.WalletsGenerated),
		logger.Int("accepted", report.TransactionsAccepted),
		logger.Int("failed", report.TransactionsFailed),
		logger.Int("bandMisses", report.BandMisses),
		logger.Duration("duration", report.Duration))
	return report, nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient) error {
	var h types.HealthResponse
	if _, err := client.do(ctx, http.MethodGet, "/api/health", nil, &h, http.StatusOK); err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if h.Status != "ok" {
		return fmt.Errorf("%w: health status %q", ErrUnexpectedStatus, h.Status)
	}
	return nil
}

// saveWallets writes the generated wallets as indented JSON.
func saveWallets(filename string, wallets []Wallet) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(wallets, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal wallets: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return nil
}
