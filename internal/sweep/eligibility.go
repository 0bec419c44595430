package sweep

import (
	"time"

	"github.com/spiffcs/collabsweep/internal/model"
)

// SkipReason explains why an issue is not eligible.
type SkipReason string

const (
	SkipNone       SkipReason = ""
	SkipNotOpen    SkipReason = "not open"
	SkipTooRecent  SkipReason = "too recent"
	SkipUnassigned SkipReason = "no assignee"
)

// Check evaluates an issue against now and returns SkipNone when it is
// eligible. The checks run in a fixed order: state, age, assignees.
func Check(issue model.Issue, now time.Time, minAge time.Duration) SkipReason {
	if !issue.IsOpen() {
		return SkipNotOpen
	}
	if issue.Age(now) < minAge {
		return SkipTooRecent
	}
	// The assignee unassigning themselves counts as self-correction.
	if len(issue.Assignees) == 0 {
		return SkipUnassigned
	}
	return SkipNone
}

// IsEligible reports whether the issue's assignee should be remediated.
func IsEligible(issue model.Issue, now time.Time, minAge time.Duration) bool {
	return Check(issue, now, minAge) == SkipNone
}
