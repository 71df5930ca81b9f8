package service

import (
	"time"

	repository "github.com/okian/planmatch/internal/adapters/repository"
	"github.com/okian/planmatch/internal/domain/catalog"
	"github.com/okian/planmatch/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog sets the plan catalog. It takes precedence over WithCatalogPath.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithCatalogPath loads the catalog from a JSON file at Start. Empty keeps
// the bundled catalog.
func WithCatalogPath(path string) Option {
	return func(s *Service) {
		s.catalogPath = path
	}
}

// WithFactorWeights overrides scoring factor weights.
func WithFactorWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.factorWeights = weights
	}
}

// WithResultStoreSize bounds the number of results kept for lookup.
func WithResultStoreSize(size int) Option {
	return func(s *Service) {
		s.resultStoreSize = size
	}
}

// WithResultStore replaces the in-memory result store.
func WithResultStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.results = store
		}
	}
}

// WithBatchConcurrency caps concurrent matches within a batch.
func WithBatchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.batchConcurrency = n
		}
	}
}

// WithMaxBatchSize caps the number of responses in a batch.
func WithMaxBatchSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxBatchSize = n
		}
	}
}

// WithStatsInterval sets how often system metrics are sampled.
func WithStatsInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.statsInterval = d
		}
	}
}

// WithClock overrides the time source used to stamp results.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}
