// Package model contains domain types for the collabsweep application.
// These types are independent of any external GitHub library.
package model

import "time"

// IssueState is the state of a tracking issue as reported by the GraphQL API.
type IssueState string

const (
	StateOpen   IssueState = "OPEN"
	StateClosed IssueState = "CLOSED"
)

// Issue is one tracking issue in the monitored repository.
type Issue struct {
	Number    int        `json:"number"`
	State     IssueState `json:"state"`
	CreatedAt time.Time  `json:"createdAt"`
	// Assignees are kept in API order; the first one is the responsible user.
	Assignees []string `json:"assignees"`
}

// IsOpen reports whether the issue is open.
func (i Issue) IsOpen() bool {
	return i.State == StateOpen
}

// Responsible returns the first assignee, or "" when nobody is assigned.
func (i Issue) Responsible() string {
	if len(i.Assignees) == 0 {
		return ""
	}
	return i.Assignees[0]
}

// Age returns how long the issue has existed at the given reference time.
func (i Issue) Age(now time.Time) time.Duration {
	return now.Sub(i.CreatedAt)
}

// Page is a single page of issues returned by the issue source.
type Page struct {
	Issues      []Issue
	EndCursor   string
	HasNextPage bool
}
