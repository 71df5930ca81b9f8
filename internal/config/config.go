// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - Load layers a YAML file and PLANMATCH_* env vars over the defaults.
// - External errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"runtime"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// CatalogPath points at a plan catalog JSON document. Empty uses the
	// catalog bundled with the binary.
	CatalogPath string `koanf:"catalog_path"`

	// ResultStoreSize bounds the number of match results kept for lookup.
	// Zero or less keeps every result.
	ResultStoreSize int `koanf:"result_store_size"`

	// BatchConcurrency caps concurrent matches within one batch request.
	BatchConcurrency int `koanf:"batch_concurrency"`

	// MaxBatchSize caps the number of responses in one batch request.
	MaxBatchSize int `koanf:"max_batch_size"`

	// FactorWeights overrides per-factor scoring weights.
	FactorWeights map[string]float64 `koanf:"factor_weights"`

	// OTelEndpoint is the OTLP/HTTP collector host:port. Empty disables tracing.
	OTelEndpoint string `koanf:"otel_endpoint"`

	// OTelInsecure sends traces over plain HTTP.
	OTelInsecure bool `koanf:"otel_insecure"`

	// ServiceName is reported as the tracing resource name.
	ServiceName string `koanf:"service_name"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ResultStoreSize:  10_000,
		BatchConcurrency: runtime.NumCPU(),
		MaxBatchSize:     100,
		ServiceName:      "planmatch",
	}
}

// Validate checks values that would otherwise fail at first use.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if c.BatchConcurrency <= 0 {
		return fmt.Errorf("%w: batch_concurrency must be positive", ErrInvalidConfig)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("%w: max_batch_size must be positive", ErrInvalidConfig)
	}
	for name, w := range c.FactorWeights {
		if w < 0 {
			return fmt.Errorf("%w: factor weight %s must not be negative", ErrInvalidConfig, name)
		}
	}
	return nil
}
