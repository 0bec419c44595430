package ghclient

import (
	"context"

	gh "github.com/google/go-github/v57/github"
	"github.com/spiffcs/collabsweep/internal/log"
)

// MembershipService performs the write calls of a remediation: demoting a
// member and closing the tracking issue. Calls are synchronous and never
// retried here.
type MembershipService struct {
	client *gh.Client
	org    string
	owner  string
	repo   string
}

// NewMembershipService creates a membership service for org that closes
// issues in owner/repo.
func NewMembershipService(client *gh.Client, org, owner, repo string) *MembershipService {
	return &MembershipService{
		client: client,
		org:    org,
		owner:  owner,
		repo:   repo,
	}
}

// DemoteToOutsideCollaborator converts the organization member login to an
// outside collaborator.
func (s *MembershipService) DemoteToOutsideCollaborator(ctx context.Context, login string) error {
	log.Debug("converting member to outside collaborator", "org", s.org, "user", login)

	resp, err := s.client.Organizations.ConvertMemberToOutsideCollaborator(ctx, s.org, login)
	if err != nil {
		return &MembershipError{Org: s.org, Login: login, StatusCode: statusCode(resp), Err: err}
	}
	return nil
}

// CloseIssue closes the tracking issue number.
func (s *MembershipService) CloseIssue(ctx context.Context, number int) error {
	log.Debug("closing issue", "repo", s.owner+"/"+s.repo, "number", number)

	_, resp, err := s.client.Issues.Edit(ctx, s.owner, s.repo, number, &gh.IssueRequest{
		State: gh.String("closed"),
	})
	if err != nil {
		return &IssueUpdateError{Owner: s.owner, Repo: s.repo, Number: number, StatusCode: statusCode(resp), Err: err}
	}
	return nil
}

func statusCode(resp *gh.Response) int {
	if resp == nil || resp.Response == nil {
		return 0
	}
	return resp.StatusCode
}
