package ws

import (
	"time"

	"github.com/Danish0703/algorand-reputation-system/pkg/logger"
)

// Option configures a Hub.
type Option func(*Hub)

// WithBufferSize sets how many pending broadcasts the hub holds before
// dropping new ones.
func WithBufferSize(size int) Option {
	return func(h *Hub) {
		if size > 0 {
			h.bufferSize = size
		}
	}
}

// WithWriteTimeout bounds each client write.
func WithWriteTimeout(d time.Duration) Option {
	return func(h *Hub) {
		if d > 0 {
			h.writeTimeout = d
		}
	}
}

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}
