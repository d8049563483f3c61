// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// Kind identifies which variant of an Event is populated.
type Kind string

const (
	KindPush        Kind = "push"
	KindPullRequest Kind = "pull_request"
	KindIssue       Kind = "issue"
	KindOther       Kind = "other"
)

// PushDetails carries the push-specific payload fields.
type PushDetails struct {
	// Commits is the number of commits bundled in the push. A single push
	// event may carry many commits.
	Commits int
}

// PullRequestDetails carries the pull-request-specific payload fields.
type PullRequestDetails struct {
	Action string
	Merged bool
}

// IssueDetails carries the issue-specific payload fields.
type IssueDetails struct {
	Action string
}

// Event is one recorded user activity instance. The detail pointer matching
// Kind is set; all others are nil. Events are immutable once created and live
// only for the duration of a single report run.
type Event struct {
	Kind        Kind
	Repo        string // owner/name form
	CreatedAt   time.Time
	Push        *PushDetails
	PullRequest *PullRequestDetails
	Issue       *IssueDetails
}

// Day returns the event's calendar date in UTC as YYYY-MM-DD.
func (e Event) Day() string {
	return e.CreatedAt.UTC().Format("2006-01-02")
}
