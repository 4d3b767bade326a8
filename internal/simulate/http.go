package simulate

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/domain/types"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// ErrUnexpectedStatus is returned for responses outside the expected codes.
var ErrUnexpectedStatus = errors.New("unexpected status")

// HTTPClient wraps http.Client with the service base URL.
type HTTPClient struct {
	client  *http.Client
	baseURL string
}

func newHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client:  &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}
}

// do sends a request and decodes a JSON body into out when the status is
// one of want. It returns the status code.
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any, want ...int) (int, error) {
	var rd io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("failed to marshal request body: %w", err)
		}
		rd = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rd)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	for _, code := range want {
		if resp.StatusCode != code {
			continue
		}
		if out == nil {
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("failed to parse response: %w", err)
		}
		return resp.StatusCode, nil
	}

	msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return resp.StatusCode, fmt.Errorf("%w: %s %s: HTTP %d: %s", ErrUnexpectedStatus, method, path, resp.StatusCode, bytes.TrimSpace(msg))
}

type ack struct {
	Status string `json:"status"`
	types.RecordResult
}

type submission struct {
	wallet string
	tx     types.TransactionInput
}

// submitTransactions posts every wallet's history through a worker pool.
func submitTransactions(ctx context.Context, cfg Config, client *HTTPClient, wallets []Wallet, report *Report) error {
	var total int
	for _, w := range wallets {
		total += len(w.Transactions)
	}
	log := logger.Get()
	log.Info(ctx, "submitting transactions", logger.Int("transactions", total), logger.Int("workers", cfg.Workers))

	var accepted, duplicate, failed atomic.Int64
	work := make(chan submission, cfg.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup
	for range cfg.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for s := range work {
				var a ack
				path := "/api/transactions/" + url.PathEscape(s.wallet)
				code, err := client.do(ctx, http.MethodPost, path, s.tx, &a, http.StatusAccepted, http.StatusOK)
				switch {
				case err != nil:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "transaction rejected", logger.String("wallet", s.wallet), logger.Error(err))
					}
				case code == http.StatusOK || a.Duplicate:
					duplicate.Add(1)
				default:
					accepted.Add(1)
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, w := range wallets {
			for _, tx := range w.Transactions {
				select {
				case <-ctx.Done():
					return
				case work <- submission{wallet: w.Address, tx: tx}:
				}
			}
		}
	}()
	wg.Wait()

	report.TransactionsSubmitted = int(accepted.Load() + duplicate.Load() + failed.Load())
	report.TransactionsAccepted = int(accepted.Load())
	report.TransactionsDuplicate = int(duplicate.Load())
	report.TransactionsFailed = int(failed.Load())

	log.Info(ctx, "transaction submission completed",
		logger.Int("accepted", report.TransactionsAccepted),
		logger.Int("duplicate", report.TransactionsDuplicate),
		logger.Int("failed", report.TransactionsFailed))

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("submission interrupted: %w", err)
	}
	return nil
}
