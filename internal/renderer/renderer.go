// Package renderer draws the terminal dashboard for a finished report.
package renderer

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"

	"github.com/mkobayashi-dev/github-wrapped/internal/domain"
)

// eventRetentionDays is how long GitHub keeps public events available.
// Windows larger than this may be incomplete.
const eventRetentionDays = 90

const languageTableLimit = 10

// Render draws the full activity dashboard to standard output.
func Render(report *domain.Report) {
	pterm.DefaultSection.Printf("GitHub Activity Report: %s (last %d days)\n", report.Username, report.Days)

	if report.TotalEvents == 0 {
		pterm.Warning.Println("No activity found in this period.")
		pterm.Println(pterm.Gray(fmt.Sprintf("Note: GitHub only provides public events from the last %d days.", eventRetentionDays)))
		return
	}

	renderSummary(report)
	renderTopRepos(report.TopRepos)
	renderLanguages(report.LanguageBytes)

	if report.Days > eventRetentionDays {
		pterm.Println(pterm.Gray(fmt.Sprintf("* GitHub only stores public events for %d days. Results for older periods may be incomplete.", eventRetentionDays)))
	}
}

func renderSummary(report *domain.Report) {
	summary := pterm.TableData{
		{"Total Commits", fmt.Sprintf("%d", report.Commits)},
		{"PRs Opened", fmt.Sprintf("%d", report.PRsOpened)},
		{"PRs Merged", fmt.Sprintf("%d", report.PRsMerged)},
		{"Issues Opened", fmt.Sprintf("%d", report.Issues)},
	}
	if report.BusiestDay != nil {
		summary = append(summary, []string{"Busiest Day", fmt.Sprintf("%s (%d events)", report.BusiestDay.Date, report.BusiestDay.Count)})
	}
	summary = append(summary,
		[]string{"Events/Day (mean)", fmt.Sprintf("%.1f", report.MeanEventsPerDay)},
		[]string{"Events/Day (median)", fmt.Sprintf("%.1f", report.MedianEventsPerDay)},
	)

	pterm.DefaultSection.WithLevel(2).Println("Activity Summary")
	_ = pterm.DefaultTable.WithData(summary).Render()
}

func renderTopRepos(topRepos []domain.RepoActivity) {
	if len(topRepos) == 0 {
		return
	}
	table := pterm.TableData{{"#", "Repository", "Events"}}
	for i, repo := range topRepos {
		table = append(table, []string{fmt.Sprintf("%d", i+1), repo.Name, fmt.Sprintf("%d", repo.Count)})
	}
	pterm.DefaultSection.WithLevel(2).Println("Top 5 Repositories")
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

func renderLanguages(languageBytes map[string]int64) {
	if len(languageBytes) == 0 {
		return
	}
	type langEntry struct {
		name string
		size int64
	}
	ranked := make([]langEntry, 0, len(languageBytes))
	for name, size := range languageBytes {
		ranked = append(ranked, langEntry{name: name, size: size})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].size != ranked[j].size {
			return ranked[i].size > ranked[j].size
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > languageTableLimit {
		ranked = ranked[:languageTableLimit]
	}

	table := pterm.TableData{{"Language", "Bytes"}}
	for _, lang := range ranked {
		table = append(table, []string{lang.name, formatBytes(lang.size)})
	}
	pterm.DefaultSection.WithLevel(2).Println("Language Usage (Active Repos)")
	_ = pterm.DefaultTable.WithHasHeader().WithData(table).Render()
}

// formatBytes renders a byte count in a compact human-readable unit.
func formatBytes(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f kB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
