package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxSize sets the maximum number of results to keep.
// If maxSize > 0: bounded mode, oldest results are evicted first.
// If maxSize <= 0: unbounded mode.
func WithMaxSize(maxSize int) Option {
	return func(s *MemoryStore) {
		s.maxSize = maxSize
	}
}
