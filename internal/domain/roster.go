package domain

import "strings"

// Job: one (profession, level) record of a user.
type Job struct {
	Profession string // normalized key
	Level      int
}

// RosterEntry: one user's aggregated profile within a guild. Jobs are sorted
// level descending then profession key ascending; MeanLevel is the arithmetic
// mean over the user's own jobs.
type RosterEntry struct {
	UserID    string
	Alias     string // optional display alias, empty when unset
	Jobs      []Job
	MeanLevel float64
}

// CompareSnowflake orders two snowflake IDs numerically. IDs are decimal
// digit strings, so shorter means smaller and equal lengths compare
// lexicographically.
func CompareSnowflake(a, b string) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}
