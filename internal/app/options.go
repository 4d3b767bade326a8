package service

import (
	"time"

	"github.com/Danish0703/algorand-reputation-system/internal/adapters/feed"
	"github.com/Danish0703/algorand-reputation-system/internal/domain/reputation"
	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of analysis workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the re-analysis queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the transaction ID window.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithWSBufferSize sets the websocket broadcast buffer.
func WithWSBufferSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.wsBufferSize = size
		}
	}
}

// WithRiskAveraging selects the risk averaging mode of both pipelines.
func WithRiskAveraging(mode reputation.RiskAveraging) Option {
	return func(s *Service) {
		if mode != "" {
			s.riskAveraging = mode
		}
	}
}

// WithStore injects the feed store. It takes precedence over WithPostgresDSN.
func WithStore(st feed.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithPostgresDSN makes Start open and migrate a PostgreSQL store.
func WithPostgresDSN(dsn string) Option {
	return func(s *Service) {
		s.postgresDSN = dsn
	}
}

// WithSeedDemoData loads the demo wallet on Start.
func WithSeedDemoData(enabled bool) Option {
	return func(s *Service) {
		s.seedDemo = enabled
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithAssetIDSource replaces the random source of NFT asset IDs. f returns
// a value in [0,n).
func WithAssetIDSource(f func(n int64) int64) Option {
	return func(s *Service) {
		if f != nil {
			s.assetID = f
		}
	}
}
