// Package testquotes drives a running planmatch server with random
// questionnaires and checks every ranked response it gets back.
package testquotes

import (
	"time"

	"github.com/okian/planmatch/pkg/logger"
)

// Config holds configuration for the quote test
type Config struct {
	BaseURL    string        // Base URL of the service
	NumQuotes  int           // Number of questionnaires to generate
	Workers    int           // Number of concurrent workers
	Timeout    time.Duration // HTTP request timeout
	OutputFile string        // Output file for generated forms; empty skips saving
	FetchBack  bool          // Re-read each stored result by ID
	Verbose    bool          // Enable verbose logging
	Logger     logger.Logger // Defaults to the global logger
}

// Stats holds test statistics
type Stats struct {
	QuotesGenerated  int
	QuotesSubmitted  int
	QuotesSuccessful int
	QuotesRejected   int
	QuotesFailed     int
	PlansRanked      int
	Violations       int
	StartTime        time.Time
	EndTime          time.Time
	Duration         time.Duration
}
