package ghclient

import (
	"context"

	"github.com/shurcooL/githubv4"
	"github.com/spiffcs/collabsweep/internal/constants"
	"github.com/spiffcs/collabsweep/internal/log"
	"github.com/spiffcs/collabsweep/internal/model"
)

// issuesQuery reads one page of a repository's issues.
type issuesQuery struct {
	Repository struct {
		Issues struct {
			PageInfo struct {
				EndCursor   githubv4.String
				HasNextPage bool
			}
			Nodes []issueNode
		} `graphql:"issues(first: $first, after: $cursor)"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

type issueNode struct {
	Number    int
	State     githubv4.IssueState
	CreatedAt githubv4.DateTime
	Assignees struct {
		Nodes []struct {
			Login string
		}
	} `graphql:"assignees(first: $assignees)"`
}

// graphQLQuerier is the subset of *githubv4.Client used by IssueSource.
type graphQLQuerier interface {
	Query(ctx context.Context, q interface{}, variables map[string]interface{}) error
}

// IssueSource pages through the issues of one repository.
type IssueSource struct {
	client   graphQLQuerier
	owner    string
	repo     string
	pageSize int
}

// NewIssueSource creates an issue source for owner/repo. pageSize is clamped
// to GitHub's connection limit.
func NewIssueSource(client graphQLQuerier, owner, repo string, pageSize int) *IssueSource {
	if pageSize <= 0 || pageSize > constants.MaxPageSize {
		pageSize = constants.DefaultPageSize
	}
	return &IssueSource{
		client:   client,
		owner:    owner,
		repo:     repo,
		pageSize: pageSize,
	}
}

// FetchPage fetches the page of issues that follows cursor. An empty cursor
// requests the first page.
func (s *IssueSource) FetchPage(ctx context.Context, cursor string) (model.Page, error) {
	var after *githubv4.String
	if cursor != "" {
		after = githubv4.NewString(githubv4.String(cursor))
	}

	variables := map[string]interface{}{
		"owner":     githubv4.String(s.owner),
		"name":      githubv4.String(s.repo),
		"first":     githubv4.Int(s.pageSize),
		"cursor":    after,
		"assignees": githubv4.Int(constants.MaxAssignees),
	}

	log.Debug("fetching issue page", "repo", s.owner+"/"+s.repo, "first", s.pageSize)
	log.Trace("issue page cursor", "after", cursor)

	var q issuesQuery
	if err := s.client.Query(ctx, &q, variables); err != nil {
		return model.Page{}, &FetchError{Owner: s.owner, Repo: s.repo, Cursor: cursor, Err: err}
	}

	issues := q.Repository.Issues
	page := model.Page{
		Issues:      make([]model.Issue, 0, len(issues.Nodes)),
		EndCursor:   string(issues.PageInfo.EndCursor),
		HasNextPage: issues.PageInfo.HasNextPage,
	}
	for _, n := range issues.Nodes {
		page.Issues = append(page.Issues, toIssue(n))
	}

	return page, nil
}

func toIssue(n issueNode) model.Issue {
	var assignees []string
	for _, a := range n.Assignees.Nodes {
		if a.Login != "" {
			assignees = append(assignees, a.Login)
		}
	}
	return model.Issue{
		Number:    n.Number,
		State:     model.IssueState(n.State),
		CreatedAt: n.CreatedAt.Time,
		Assignees: assignees,
	}
}
