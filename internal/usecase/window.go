package usecase

import (
	"time"

	"github.com/mkobayashi-dev/github-wrapped/internal/domain"
)

// partitionWindow splits a newest-first page of events at the window cutoff.
// It returns the maximal prefix of events with a timestamp at or after the
// cutoff, and whether pagination should stop. Because pages arrive in
// descending timestamp order, the first event older than the cutoff proves
// everything after it is older too. An empty page always stops pagination.
func partitionWindow(events []domain.Event, cutoff time.Time) (inWindow []domain.Event, stop bool) {
	if len(events) == 0 {
		return nil, true
	}
	for i, ev := range events {
		if ev.CreatedAt.Before(cutoff) {
			return events[:i], true
		}
	}
	return events, false
}
