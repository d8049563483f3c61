package domain

// RepoActivity holds the event count for a single repository.
type RepoActivity struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DayActivity holds the event count for a single calendar date (YYYY-MM-DD).
type DayActivity struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// Report is the finalized activity summary for one user and time window.
// It is the core domain entity of this application.
type Report struct {
	Username           string           `json:"username"`
	Days               int              `json:"days"`
	TotalEvents        int              `json:"total_events"`
	Commits            int              `json:"commits"`
	PRsOpened          int              `json:"prs_opened"`
	PRsMerged          int              `json:"prs_merged"`
	Issues             int              `json:"issues"`
	TopRepos           []RepoActivity   `json:"top_repositories"`
	LanguageBytes      map[string]int64 `json:"language_bytes"`
	DayActivity        map[string]int   `json:"day_activity"`
	BusiestDay         *DayActivity     `json:"busiest_day,omitempty"`
	MeanEventsPerDay   float64          `json:"mean_events_per_day"`
	MedianEventsPerDay float64          `json:"median_events_per_day"`
}
