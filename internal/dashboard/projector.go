// Package dashboard implements the leaderboard core: the pure roster
// projector, the embed/component renderer, the view-state codec and the
// service that keeps the per-guild live message consistent with user
// interactions.
package dashboard

import (
	"github.com/kapu/guild-jobs-bot/internal/domain"
)

// Card: one user's block on a dashboard page. Jobs holds the filtered subset
// when a filter is active; MeanLevel and ranking always come from the
// pre-filter roster.
type Card struct {
	UserID    string
	Alias     string
	Jobs      []domain.Job
	MeanLevel float64
}

// Project derives a bounded page from a roster snapshot. Deterministic and
// total: an out-of-range page clamps, an empty result still reports one page.
// Returns the page cards, the clamped page index, the page count and the
// filtered profile count.
func Project(roster []domain.RosterEntry, page int, filterKey string, pageSize int) (cards []Card, clampedPage, totalPages, filteredCount int) {
	if pageSize <= 0 {
		pageSize = 1
	}
	filterKey = domain.Normalize(filterKey)

	filtered := make([]Card, 0, len(roster))
	for _, entry := range roster {
		jobs := entry.Jobs
		if filterKey != "" {
			jobs = matchingJobs(entry.Jobs, filterKey)
			if len(jobs) == 0 {
				continue
			}
		}
		filtered = append(filtered, Card{
			UserID:    entry.UserID,
			Alias:     entry.Alias,
			Jobs:      jobs,
			MeanLevel: entry.MeanLevel,
		})
	}

	totalPages = (len(filtered) + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}

	clampedPage = page
	if clampedPage < 0 {
		clampedPage = 0
	}
	if clampedPage > totalPages-1 {
		clampedPage = totalPages - 1
	}

	start := clampedPage * pageSize
	end := start + pageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[start:end], clampedPage, totalPages, len(filtered)
}

// TotalPages reports the page count a roster yields under a filter, without
// materializing cards.
func TotalPages(roster []domain.RosterEntry, filterKey string, pageSize int) int {
	_, _, totalPages, _ := Project(roster, 0, filterKey, pageSize)
	return totalPages
}

func matchingJobs(jobs []domain.Job, filterKey string) []domain.Job {
	matched := make([]domain.Job, 0, len(jobs))
	for _, job := range jobs {
		if domain.Normalize(job.Profession) == filterKey {
			matched = append(matched, job)
		}
	}
	return matched
}
