// Package constants provides a centralized location for the default values
// and magic numbers used throughout collabsweep.
package constants

import "time"

// Target repository defaults
const (
	// DefaultOrganization is the organization whose members are swept.
	DefaultOrganization = "ministryofjustice"

	// DefaultRepository holds one tracking issue per member without a
	// verified organization-domain email.
	DefaultRepository = "no-verified-domain-email-repo"
)

// Sweep timing defaults
const (
	// MinIssueAge is how long a tracking issue must stay open before the
	// assignee is demoted. Gives the user time to verify an email first.
	MinIssueAge = 14 * 24 * time.Hour

	// Cooldown is the pause after each successful write call.
	Cooldown = 5 * time.Second

	// FailureCooldown is the pause after a failed remediation.
	FailureCooldown = 30 * time.Second
)

// GitHub API constants
const (
	// DefaultPageSize is the number of issues requested per GraphQL page.
	DefaultPageSize = 100

	// MaxPageSize is GitHub's upper bound for connection page sizes.
	MaxPageSize = 100

	// MaxAssignees is the number of assignees read per issue.
	MaxAssignees = 10

	// RequestTimeout bounds each GitHub API request.
	RequestTimeout = 30 * time.Second

	// RateLimitLowWatermark is the threshold below which rate limit
	// warnings are logged.
	RateLimitLowWatermark = 100
)

// TUI constants
const (
	// EventBufferSize is the capacity of the TUI event channel.
	EventBufferSize = 100
)
