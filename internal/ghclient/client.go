// Package ghclient talks to GitHub on behalf of the sweep: a GraphQL issue
// source for the tracking repository and a REST membership service for the
// write calls.
package ghclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/shurcooL/githubv4"
	"golang.org/x/oauth2"
)

// Options configures the GitHub clients. Nothing here is global: every
// client built from Options carries its own transport and rate limit state.
type Options struct {
	// Token is the GitHub token used for both APIs.
	// NEVER log this value or add it to serialized output.
	Token string
	// APIURL overrides the REST endpoint (GitHub Enterprise), e.g.
	// https://ghe.example.com/api/v3/.
	APIURL string
	// GraphQLURL overrides the GraphQL endpoint.
	GraphQLURL string
	// Timeout bounds every HTTP request. Zero means no timeout.
	Timeout time.Duration
}

// Resource names a GitHub rate limit bucket. REST and GraphQL are metered
// separately, so exhausting one must not stop calls to the other.
type Resource string

const (
	ResourceCore    Resource = "core"
	ResourceGraphQL Resource = "graphql"
)

// Client bundles the REST and GraphQL clients. Each has its own
// authenticated transport and rate limit state.
type Client struct {
	rest    *gh.Client
	graphql *githubv4.Client
	limits  map[Resource]*RateLimitState
}

// NewClient creates the REST and GraphQL clients from opts.
func NewClient(ctx context.Context, opts Options) (*Client, error) {
	if opts.Token == "" {
		return nil, fmt.Errorf("GitHub token not provided. Pass it as the first argument or set the GITHUB_TOKEN environment variable")
	}

	limits := map[Resource]*RateLimitState{
		ResourceCore:    NewRateLimitState(),
		ResourceGraphQL: NewRateLimitState(),
	}

	rest, err := newRESTClient(newHTTPClient(ctx, opts.Token, limits[ResourceCore], opts.Timeout), opts.APIURL)
	if err != nil {
		return nil, err
	}

	graphqlHTTP := newHTTPClient(ctx, opts.Token, limits[ResourceGraphQL], opts.Timeout)
	var graphql *githubv4.Client
	if opts.GraphQLURL != "" {
		graphql = githubv4.NewEnterpriseClient(opts.GraphQLURL, graphqlHTTP)
	} else {
		graphql = githubv4.NewClient(graphqlHTTP)
	}

	return &Client{
		rest:    rest,
		graphql: graphql,
		limits:  limits,
	}, nil
}

// newHTTPClient builds an oauth2-authenticated client wrapped with rate limit handling.
func newHTTPClient(ctx context.Context, token string, state *RateLimitState, timeout time.Duration) *http.Client {
	ts := oauth2.StaticTokenSource(
		&oauth2.Token{AccessToken: token},
	)
	tc := oauth2.NewClient(ctx, ts)
	tc.Transport = &rateLimitTransport{
		base:  tc.Transport,
		state: state,
	}
	tc.Timeout = timeout
	return tc
}

// newRESTClient creates a go-github client, pointing it at apiURL when set.
func newRESTClient(httpClient *http.Client, apiURL string) (*gh.Client, error) {
	client := gh.NewClient(httpClient)
	if apiURL == "" {
		return client, nil
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	base, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", apiURL, err)
	}
	client.BaseURL = base
	return client, nil
}

// Issues returns an issue source for owner/repo.
func (c *Client) Issues(owner, repo string, pageSize int) *IssueSource {
	return NewIssueSource(c.graphql, owner, repo, pageSize)
}

// Membership returns the membership service for org, closing issues in owner/repo.
func (c *Client) Membership(org, owner, repo string) *MembershipService {
	return NewMembershipService(c.rest, org, owner, repo)
}

// AuthenticatedUser returns the authenticated user's login.
func (c *Client) AuthenticatedUser(ctx context.Context) (string, error) {
	user, _, err := c.rest.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to get authenticated user: %w", err)
	}
	return user.GetLogin(), nil
}

// RateLimits fetches the current GitHub API rate limit status.
func (c *Client) RateLimits(ctx context.Context) (*gh.RateLimits, error) {
	limits, _, err := c.rest.RateLimit.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get rate limits: %w", err)
	}
	return limits, nil
}

// RateLimitState exposes the rate limit observed for resource, or nil for an
// unknown resource.
func (c *Client) RateLimitState(resource Resource) *RateLimitState {
	return c.limits[resource]
}

// Resources lists the rate limit buckets this client tracks.
func Resources() []Resource {
	return []Resource{ResourceCore, ResourceGraphQL}
}
