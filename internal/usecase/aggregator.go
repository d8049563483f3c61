// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"

	"github.com/mkobayashi-dev/github-wrapped/internal/domain"
	"github.com/mkobayashi-dev/github-wrapped/internal/gateway"
)

const (
	// pageRetryAttempts bounds how often a single event page is retried
	// after a transient network failure.
	pageRetryAttempts = 3
	pageRetryDelay    = 500 * time.Millisecond

	// languageFetchParallelism caps concurrent language lookups during the
	// post-pass.
	languageFetchParallelism = 4

	topRepoLimit = 5
)

// ReportRequest carries the run configuration into the aggregator.
type ReportRequest struct {
	Username string
	Days     int
}

// Aggregator is the use case for building an activity report.
// It orchestrates pagination, windowing, and accumulation.
type Aggregator struct {
	fetcher gateway.Fetcher
	logger  *log.Logger
	now     func() time.Time
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(fetcher gateway.Fetcher, logger *log.Logger) *Aggregator {
	return &Aggregator{
		fetcher: fetcher,
		logger:  logger,
		now:     time.Now,
	}
}

// aggregateState is the mutable accumulator for one run. Counters only ever
// increase during accumulation; the whole state is discarded after the report
// is built.
type aggregateState struct {
	totalEvents  int
	commits      int
	prsOpened    int
	prsMerged    int
	issues       int
	repoActivity map[string]int
	dayActivity  map[string]int
}

func newAggregateState() *aggregateState {
	return &aggregateState{
		repoActivity: make(map[string]int),
		dayActivity:  make(map[string]int),
	}
}

// accumulate folds one in-window event into the running totals. Repository
// and daily activity count every event regardless of its classification.
func (s *aggregateState) accumulate(ev domain.Event) {
	s.totalEvents++
	s.repoActivity[ev.Repo]++
	s.dayActivity[ev.Day()]++

	switch ev.Kind {
	case domain.KindPush:
		// A push counts each commit it carries, not the push itself.
		s.commits += ev.Push.Commits
	case domain.KindPullRequest:
		switch {
		case ev.PullRequest.Action == "opened":
			s.prsOpened++
		case ev.PullRequest.Action == "closed" && ev.PullRequest.Merged:
			// A closed-but-unmerged PR increments neither counter.
			s.prsMerged++
		}
	case domain.KindIssue:
		if ev.Issue.Action == "opened" {
			s.issues++
		}
	}
}

// Run performs the main business logic: paginate the user's event feed until
// the requested window is covered, fold each qualifying event into the
// accumulator, then fetch language data for every repository the user was
// active in.
func (a *Aggregator) Run(ctx context.Context, req ReportRequest) (*domain.Report, error) {
	if req.Username == "" {
		return nil, errors.New("username must not be empty")
	}
	if req.Days <= 0 {
		return nil, fmt.Errorf("days must be a positive integer, got %d", req.Days)
	}

	cutoff := a.now().UTC().Add(-time.Duration(req.Days) * 24 * time.Hour)
	a.logger.Printf("Usecase: aggregating events for %s since %s", req.Username, cutoff.Format(time.RFC3339))

	state := newAggregateState()
	a.logger.Println("[1/2] Fetching event pages...")
	for page := 1; ; page++ {
		eventPage, err := a.fetchPageWithRetry(ctx, req.Username, page)
		if err != nil {
			return nil, err
		}
		inWindow, stop := partitionWindow(eventPage.Events, cutoff)
		for _, ev := range inWindow {
			state.accumulate(ev)
		}
		if stop || !eventPage.HasMore {
			break
		}
	}
	a.logger.Printf("Accumulated %d in-window events across %d repositories", state.totalEvents, len(state.repoActivity))

	a.logger.Println("[2/2] Fetching language data...")
	languageBytes, err := a.fetchLanguages(ctx, state.repoActivity)
	if err != nil {
		return nil, err
	}

	report := state.finalize(req, languageBytes)
	a.logger.Println("Usecase: aggregation complete.")
	return report, nil
}

// fetchPageWithRetry retries transient network failures a bounded number of
// times at the same page. Every other error class aborts immediately.
func (a *Aggregator) fetchPageWithRetry(ctx context.Context, username string, page int) (gateway.EventPage, error) {
	var lastErr error
	for attempt := 1; attempt <= pageRetryAttempts; attempt++ {
		eventPage, err := a.fetcher.FetchEventPage(ctx, username, page)
		if err == nil {
			return eventPage, nil
		}
		var transient *gateway.TransientError
		if !errors.As(err, &transient) {
			return gateway.EventPage{}, err
		}
		lastErr = err
		a.logger.Printf("  Transient error on page %d (attempt %d/%d): %v", page, attempt, pageRetryAttempts, err)
		if attempt < pageRetryAttempts {
			select {
			case <-ctx.Done():
				return gateway.EventPage{}, ctx.Err()
			case <-time.After(pageRetryDelay):
			}
		}
	}
	return gateway.EventPage{}, lastErr
}

// fetchLanguages runs the language post-pass over every repository with
// in-window activity, each queried at most once. Unavailable repositories are
// skipped; their bytes are simply absent from the result. Writes to the
// shared map are serialized, so fetch order never affects the totals.
func (a *Aggregator) fetchLanguages(ctx context.Context, repoActivity map[string]int) (map[string]int64, error) {
	languageBytes := make(map[string]int64)
	var mu sync.Mutex

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(languageFetchParallelism)
	for repo := range repoActivity {
		repo := repo
		eg.Go(func() error {
			languages, err := a.fetcher.FetchRepositoryLanguages(egCtx, repo)
			if err != nil {
				var unavailable *gateway.RepositoryUnavailableError
				if errors.As(err, &unavailable) {
					a.logger.Printf("  Skipping languages for %s: %v", repo, err)
					return nil
				}
				return err
			}
			mu.Lock()
			for lang, size := range languages {
				languageBytes[lang] += size
			}
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return languageBytes, nil
}

// finalize turns the accumulator into the immutable report handed to the
// renderer.
func (s *aggregateState) finalize(req ReportRequest, languageBytes map[string]int64) *domain.Report {
	report := &domain.Report{
		Username:      req.Username,
		Days:          req.Days,
		TotalEvents:   s.totalEvents,
		Commits:       s.commits,
		PRsOpened:     s.prsOpened,
		PRsMerged:     s.prsMerged,
		Issues:        s.issues,
		TopRepos:      topRepositories(s.repoActivity, topRepoLimit),
		LanguageBytes: languageBytes,
		DayActivity:   s.dayActivity,
	}

	if len(s.dayActivity) > 0 {
		report.BusiestDay = busiestDay(s.dayActivity)

		counts := make([]float64, 0, len(s.dayActivity))
		for _, count := range s.dayActivity {
			counts = append(counts, float64(count))
		}
		// stats only errors on empty input, which is excluded above.
		report.MeanEventsPerDay, _ = stats.Mean(counts)
		report.MedianEventsPerDay, _ = stats.Median(counts)
	}
	return report
}

// topRepositories ranks repositories by event count descending, breaking ties
// by name ascending, and truncates to limit.
func topRepositories(repoActivity map[string]int, limit int) []domain.RepoActivity {
	ranked := make([]domain.RepoActivity, 0, len(repoActivity))
	for name, count := range repoActivity {
		ranked = append(ranked, domain.RepoActivity{Name: name, Count: count})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Name < ranked[j].Name
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// busiestDay picks the date with the highest activity; ties resolve to the
// earliest date. Dates are YYYY-MM-DD strings, so lexicographic order is
// chronological.
func busiestDay(dayActivity map[string]int) *domain.DayActivity {
	var best domain.DayActivity
	for date, count := range dayActivity {
		if count > best.Count || (count == best.Count && (best.Date == "" || date < best.Date)) {
			best = domain.DayActivity{Date: date, Count: count}
		}
	}
	return &best
}
