package dedupe

// Option applies a configuration option to the deduper.
type Option func(*window)

// WithMaxSize sets how many IDs the window remembers. Once full, the oldest
// ID is forgotten first. A size <= 0 keeps every ID.
func WithMaxSize(maxSize int) Option {
	return func(w *window) {
		w.maxSize = maxSize
	}
}
