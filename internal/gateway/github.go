// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/mkobayashi-dev/github-wrapped/internal/domain"
)

// eventsPerPage is the maximum page size the events API serves. A page
// shorter than this means no further pages exist.
const eventsPerPage = 100

// EventPage is one page of a user's public event feed, newest first.
type EventPage struct {
	Events  []domain.Event
	HasMore bool
}

// Fetcher defines the behavior of a gateway for fetching information from GitHub.
type Fetcher interface {
	FetchEventPage(ctx context.Context, username string, page int) (EventPage, error)
	FetchRepositoryLanguages(ctx context.Context, repo string) (map[string]int64, error)
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *log.Logger
}

// languagesQuery fetches per-language byte totals for one repository.
type languagesQuery struct {
	Repository struct {
		Languages struct {
			Edges []struct {
				Size githubv4.Int
				Node struct {
					Name githubv4.String
				}
			}
		} `graphql:"languages(first: 50, orderBy: {field: SIZE, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, logger *log.Logger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// FetchEventPage returns one page of the user's public events. Pages are
// requested in increasing order starting at 1, and the API's newest-first
// ordering is preserved because windowing depends on it.
func (g *GitHubGateway) FetchEventPage(ctx context.Context, username string, page int) (EventPage, error) {
	if username == "" {
		return EventPage{}, errors.New("username must not be empty")
	}
	if page < 1 {
		return EventPage{}, fmt.Errorf("page must be >= 1, got %d", page)
	}

	opts := &github.ListOptions{PerPage: eventsPerPage, Page: page}
	raw, _, err := g.restClient.Activity.ListEventsPerformedByUser(ctx, username, true, opts)
	if err != nil {
		return EventPage{}, classifyError(err)
	}

	events := make([]domain.Event, 0, len(raw))
	for _, ev := range raw {
		events = append(events, translateEvent(ev))
	}
	g.logger.Printf("  Fetched events page %d (%d events)", page, len(events))
	return EventPage{Events: events, HasMore: len(raw) == eventsPerPage}, nil
}

// FetchRepositoryLanguages returns the per-language byte totals for one
// repository in owner/name form. Per-repository failures come back as
// RepositoryUnavailableError so callers can skip them.
func (g *GitHubGateway) FetchRepositoryLanguages(ctx context.Context, repo string) (map[string]int64, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok {
		return nil, &RepositoryUnavailableError{Repo: repo, Err: errors.New("not in owner/name form")}
	}

	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"name":  githubv4.String(name),
	}
	var q languagesQuery
	if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, &RepositoryUnavailableError{Repo: repo, Err: err}
	}

	languages := make(map[string]int64, len(q.Repository.Languages.Edges))
	for _, edge := range q.Repository.Languages.Edges {
		languages[string(edge.Node.Name)] = int64(edge.Size)
	}
	g.logger.Printf("  Fetched languages for %s (%d languages)", repo, len(languages))
	return languages, nil
}

// translateEvent maps a raw API event onto the domain variant it classifies
// as. Unknown or unparseable payloads degrade to KindOther rather than fail:
// the event still counts toward repository and daily activity.
func translateEvent(ev *github.Event) domain.Event {
	out := domain.Event{
		Kind:      domain.KindOther,
		Repo:      ev.GetRepo().GetName(),
		CreatedAt: ev.GetCreatedAt().Time,
	}

	payload, err := ev.ParsePayload()
	if err != nil {
		return out
	}
	switch p := payload.(type) {
	case *github.PushEvent:
		out.Kind = domain.KindPush
		out.Push = &domain.PushDetails{Commits: p.GetSize()}
	case *github.PullRequestEvent:
		out.Kind = domain.KindPullRequest
		out.PullRequest = &domain.PullRequestDetails{
			Action: p.GetAction(),
			Merged: p.GetPullRequest().GetMerged(),
		}
	case *github.IssuesEvent:
		out.Kind = domain.KindIssue
		out.Issue = &domain.IssueDetails{Action: p.GetAction()}
	}
	return out
}

// classifyError maps go-github and transport errors onto the gateway's error
// taxonomy. Anything that is not an HTTP-level response from the API is
// treated as a retryable connectivity failure.
func classifyError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return &RateLimitedError{Reset: rateErr.Rate.Reset.Time}
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		var reset time.Time
		if abuseErr.RetryAfter != nil {
			reset = time.Now().Add(*abuseErr.RetryAfter)
		}
		return &RateLimitedError{Reset: reset}
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) {
		switch respErr.Response.StatusCode {
		case http.StatusNotFound:
			return ErrNotFound
		case http.StatusUnauthorized, http.StatusForbidden:
			return ErrUnauthorized
		}
		return fmt.Errorf("github api error: %w", err)
	}
	return &TransientError{Err: err}
}
