// Package dedupe tracks transaction IDs that were already accepted so a
// replayed transaction is recorded at most once.
package dedupe

import (
	"container/list"
	"context"
	"sync"
)

// DefaultMaxSize is the window size when no option is given.
const DefaultMaxSize = 50_000

// Deduper records seen transaction IDs.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if not.
	// Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so it can be submitted again. Used when an accepted
	// transaction could not be stored.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// window is a FIFO-bounded set: insertion order lives in a list, lookups go
// through the index.
type window struct {
	mu      sync.Mutex
	index   map[string]*list.Element
	order   *list.List
	maxSize int
}

// NewInMemoryDeduper creates an in-memory FIFO window of seen IDs.
func NewInMemoryDeduper(opts ...Option) Deduper {
	w := &window{maxSize: DefaultMaxSize}
	for _, opt := range opts {
		opt(w)
	}
	w.index = make(map[string]*list.Element)
	w.order = list.New()
	return w
}

func (w *window) SeenAndRecord(_ context.Context, id string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.index[id]; ok {
		return true
	}
	if w.maxSize > 0 {
		for w.order.Len() >= w.maxSize {
			oldest := w.order.Front()
			w.order.Remove(oldest)
			delete(w.index, oldest.Value.(string))
		}
	}
	w.index[id] = w.order.PushBack(id)
	return false
}

func (w *window) Unrecord(_ context.Context, id string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if el, ok := w.index[id]; ok {
		w.order.Remove(el)
		delete(w.index, id)
	}
}

func (w *window) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return int64(len(w.index))
}
