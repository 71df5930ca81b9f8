// Package main runs the quote load and verification tool against a live server.
package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/okian/planmatch/internal/testquotes"
	"github.com/okian/planmatch/pkg/logger"
	"github.com/spf13/cobra"
)

// Default configuration constants.
const (
	defaultNumQuotes   = 1000
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func newRootCmd() *cobra.Command {
	config := &testquotes.Config{}
	var verboseLogs bool

	cmd := &cobra.Command{
		Use:   "test-quotes",
		Short: "Submit random questionnaires and verify every ranked response",
		Long: `Generates random questionnaires, posts them concurrently to /match and checks
that ranks are contiguous, scores descend, display scores stay within 80..99 and
no plan is both ranked and excluded. Exits non-zero on any violation.`,
		Example: `  test-quotes --quotes 5000 --workers 16 --url http://localhost:8080
  test-quotes --fetch-back --output quotes.json`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := logger.Init(); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			if verboseLogs {
				_ = logger.SetLevelString("debug")
			}
			config.Verbose = verboseLogs

			ctx, cancel := context.WithTimeout(cmd.Context(), defaultTestTimeout)
			defer cancel()

			_, err := testquotes.Run(ctx, config)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&config.BaseURL, "url", "http://localhost:9080", "Base URL of the service")
	flags.IntVar(&config.NumQuotes, "quotes", defaultNumQuotes, "Number of questionnaires to generate and submit")
	flags.IntVar(&config.Workers, "workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
	flags.DurationVar(&config.Timeout, "timeout", defaultTimeout, "HTTP request timeout")
	flags.StringVar(&config.OutputFile, "output", "", "Output file for generated questionnaires")
	flags.BoolVar(&config.FetchBack, "fetch-back", false, "Re-read each stored result through /results/{id}")
	flags.BoolVarP(&verboseLogs, "verbose", "v", false, "Enable verbose logging")
	return cmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		os.Exit(1)
	}
}
