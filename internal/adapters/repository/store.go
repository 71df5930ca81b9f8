// Package repository holds recent match results in process memory.
package repository

import (
	"context"

	model "github.com/okian/planmatch/internal/domain/model"
)

// Store provides read/write access to recent match results.
type Store interface {
	// Put records a result under its ID, replacing any earlier value.
	// It reports how many older results were evicted to stay within bounds.
	Put(ctx context.Context, r model.MatchResult) (int, error)

	// Get returns the result for id, or ErrNotFound when it is unknown or
	// has been evicted.
	Get(ctx context.Context, id string) (model.MatchResult, error)

	// Size returns the number of results currently held.
	Size() int64
}
