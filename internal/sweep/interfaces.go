// Package sweep decides which tracking issues are due and remediates them:
// the assignee is demoted to outside collaborator and the issue is closed.
package sweep

import (
	"context"
	"time"

	"github.com/spiffcs/collabsweep/internal/model"
)

// IssueSource yields the tracking issues one page at a time. An empty cursor
// requests the first page; the returned EndCursor is passed to the next call.
type IssueSource interface {
	FetchPage(ctx context.Context, cursor string) (model.Page, error)
}

// MembershipService performs the remote write calls of a remediation.
type MembershipService interface {
	DemoteToOutsideCollaborator(ctx context.Context, login string) error
	CloseIssue(ctx context.Context, number int) error
}

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error
