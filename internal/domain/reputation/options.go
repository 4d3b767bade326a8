package reputation

import (
	"time"

	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// Option applies a configuration option to an Engine or Analyzer.
type Option func(*settings)

type settings struct {
	now           func() time.Time
	riskAveraging RiskAveraging
	logger        logger.Logger
}

func newSettings(opts []Option) settings {
	s := settings{now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// WithClock sets the time source used for longevity and participation.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRiskAveraging overrides the profile's risk averaging mode.
func WithRiskAveraging(mode RiskAveraging) Option {
	return func(s *settings) {
		if mode != "" {
			s.riskAveraging = mode
		}
	}
}

// WithLogger sets the logger used by the Analyzer.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}
