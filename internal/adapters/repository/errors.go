package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound  = errors.New("match result not found")
	ErrMissingID = errors.New("match result has no id")
)
