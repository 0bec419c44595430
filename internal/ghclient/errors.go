package ghclient

import (
	"errors"
	"fmt"
)

// ErrRateLimited is returned when the GitHub API rate limit has been exceeded.
var ErrRateLimited = errors.New("rate limited")

// FetchError is returned when a page of the issue query fails.
type FetchError struct {
	Owner  string
	Repo   string
	Cursor string
	Err    error
}

func (e *FetchError) Error() string {
	if e.Cursor == "" {
		return fmt.Sprintf("failed to fetch issues for %s/%s: %v", e.Owner, e.Repo, e.Err)
	}
	return fmt.Sprintf("failed to fetch issues for %s/%s after cursor %s: %v", e.Owner, e.Repo, e.Cursor, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MembershipError is returned when converting a member to an outside
// collaborator fails.
type MembershipError struct {
	Org   string
	Login string
	// StatusCode is the HTTP status returned by GitHub, 0 when no response arrived.
	StatusCode int
	Err        error
}

func (e *MembershipError) Error() string {
	return fmt.Sprintf("failed to convert %s to an outside collaborator of %s: %v", e.Login, e.Org, e.Err)
}

func (e *MembershipError) Unwrap() error { return e.Err }

// IssueUpdateError is returned when closing a tracking issue fails.
type IssueUpdateError struct {
	Owner      string
	Repo       string
	Number     int
	StatusCode int
	Err        error
}

func (e *IssueUpdateError) Error() string {
	return fmt.Sprintf("failed to close issue %s/%s#%d: %v", e.Owner, e.Repo, e.Number, e.Err)
}

func (e *IssueUpdateError) Unwrap() error { return e.Err }
