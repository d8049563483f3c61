package gateway

import (
	"errors"
	"fmt"
	"time"
)

// Sentinel errors for failures that are fatal to the whole run.
var (
	ErrNotFound     = errors.New("user not found")
	ErrUnauthorized = errors.New("invalid or missing credentials")
)

// RateLimitedError reports API quota exhaustion. Reset tells callers when the
// quota becomes available again, if the API provided it.
type RateLimitedError struct {
	Reset time.Time
}

func (e *RateLimitedError) Error() string {
	if e.Reset.IsZero() {
		return "API rate limit exceeded"
	}
	return fmt.Sprintf("API rate limit exceeded, resets at %s", e.Reset.UTC().Format(time.RFC3339))
}

// TransientError wraps a connectivity failure. It is the only error class
// callers may retry.
type TransientError struct {
	Err error
}

func (e *TransientError) Error() string {
	return fmt.Sprintf("transient network error: %v", e.Err)
}

func (e *TransientError) Unwrap() error { return e.Err }

// RepositoryUnavailableError reports that language data for a single
// repository could not be fetched. Callers skip that repository's
// contribution and continue.
type RepositoryUnavailableError struct {
	Repo string
	Err  error
}

func (e *RepositoryUnavailableError) Error() string {
	return fmt.Sprintf("repository %s unavailable: %v", e.Repo, e.Err)
}

func (e *RepositoryUnavailableError) Unwrap() error { return e.Err }
