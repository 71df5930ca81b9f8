package testquotes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/okian/planmatch/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// ErrVerificationFailed reports that at least one response broke an ordering or bounds check.
var ErrVerificationFailed = errors.New("result verification failed")

// Run executes the complete quote test and returns the collected statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := config.Logger
	if log == nil {
		log = logger.Get()
	}
	log = log.Named("testquotes")

	log.Info(ctx, "starting planmatch quote test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("quotes", config.NumQuotes),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("fetchBack", config.FetchBack))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := client.Get(ctx, config.BaseURL+"/healthz", nil); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Generate questionnaires
	quotes := generateQuotes(ctx, log, config.NumQuotes, stats)

	// Step 3: Submit and verify concurrently
	if err := submitQuotes(ctx, client, config, quotes, stats, log); err != nil {
		return stats, fmt.Errorf("quote submission failed: %w", err)
	}

	// Step 4: Save generated forms
	if config.OutputFile != "" {
		if err := saveQuotes(config.OutputFile, quotes); err != nil {
			log.Warn(ctx, "failed to save quotes to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logFinalStats(ctx, log, stats)

	if stats.Violations > 0 {
		return stats, fmt.Errorf("%w: %d violations", ErrVerificationFailed, stats.Violations)
	}
	log.Info(ctx, "test completed successfully")
	return stats, nil
}

// submitQuotes posts every quote to /match with bounded concurrency and
// verifies each ranked response as it arrives.
func submitQuotes(ctx context.Context, client *HTTPClient, config *Config, quotes []Quote, stats *Stats, log logger.Logger) error {
	var submitted, successful, rejected, failed, ranked, violations atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, config.Workers))
	for _, q := range quotes {
		q := q
		g.Go(func() error {
			submitted.Add(1)
			var res model.MatchResult
			err := client.PostJSON(gctx, config.BaseURL+"/match", q.ID, q.Form, &res)
			var statusErr *StatusError
			switch {
			case errors.As(err, &statusErr) && statusErr.StatusCode == http.StatusBadRequest:
				rejected.Add(1)
				if config.Verbose {
					log.Warn(gctx, "quote rejected", logger.String("quote", q.ID), logger.String("body", statusErr.Body))
				}
				return nil
			case err != nil:
				failed.Add(1)
				if config.Verbose {
					log.Warn(gctx, "quote failed", logger.String("quote", q.ID), logger.Error(err))
				}
				return nil
			}

			successful.Add(1)
			ranked.Add(int64(len(res.Plans)))
			problems := verifyResult(res)
			if config.FetchBack {
				if err := verifyStored(gctx, client, config.BaseURL, res); err != nil {
					problems = append(problems, err)
				}
			}
			for _, p := range problems {
				log.Error(gctx, "verification failed", logger.String("quote", q.ID), logger.String("result", res.ID), logger.Error(p))
			}
			violations.Add(int64(len(problems)))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	stats.QuotesSubmitted = int(submitted.Load())
	stats.QuotesSuccessful = int(successful.Load())
	stats.QuotesRejected = int(rejected.Load())
	stats.QuotesFailed = int(failed.Load())
	stats.PlansRanked = int(ranked.Load())
	stats.Violations = int(violations.Load())
	return nil
}

// verifyStored re-reads a result by ID and checks it matches what /match returned.
func verifyStored(ctx context.Context, client *HTTPClient, baseURL string, res model.MatchResult) error {
	var stored model.MatchResult
	if err := client.Get(ctx, baseURL+"/results/"+res.ID, &stored); err != nil {
		return fmt.Errorf("fetch result %s: %w", res.ID, err)
	}
	if len(stored.Plans) != len(res.Plans) {
		return fmt.Errorf("stored result %s has %d plans, want %d", res.ID, len(stored.Plans), len(res.Plans))
	}
	for i := range stored.Plans {
		if stored.Plans[i].Plan.ID != res.Plans[i].Plan.ID {
			return fmt.Errorf("stored result %s differs at rank %d", res.ID, i+1)
		}
	}
	return nil
}

// saveQuotes writes the generated quotes to a JSON file.
func saveQuotes(filename string, quotes []Quote) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(quotes, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal quotes: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write quotes: %w", err)
	}
	return nil
}

// logFinalStats reports the final test statistics.
func logFinalStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var successRate, quotesPerSecond float64
	if stats.QuotesSubmitted > 0 {
		successRate = float64(stats.QuotesSuccessful) / float64(stats.QuotesSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		quotesPerSecond = float64(stats.QuotesSubmitted) / stats.Duration.Seconds()
	}

	log.Info(ctx, "final statistics",
		logger.Int("quotesGenerated", stats.QuotesGenerated),
		logger.Int("quotesSubmitted", stats.QuotesSubmitted),
		logger.Int("quotesSuccessful", stats.QuotesSuccessful),
		logger.Int("quotesRejected", stats.QuotesRejected),
		logger.Int("quotesFailed", stats.QuotesFailed),
		logger.Int("plansRanked", stats.PlansRanked),
		logger.Int("violations", stats.Violations),
		logger.Duration("duration", stats.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("quotesPerSecond", quotesPerSecond))
}
