package model

import "time"

// Outcome is the per-issue result of a sweep.
type Outcome string

const (
	OutcomeDemoted Outcome = "demoted"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
	// OutcomeEligible is reported for eligible issues during a dry run.
	OutcomeEligible Outcome = "eligible"
)

// IssueResult records what happened to a single issue.
type IssueResult struct {
	Number    int       `json:"number"`
	User      string    `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	Outcome   Outcome   `json:"outcome"`
	Error     string    `json:"error,omitempty"`
}

// RunReport aggregates the outcomes of one sweep.
type RunReport struct {
	Organization string        `json:"organization"`
	Repository   string        `json:"repository"`
	DryRun       bool          `json:"dryRun,omitempty"`
	StartedAt    time.Time     `json:"startedAt"`
	FinishedAt   time.Time     `json:"finishedAt"`
	Fetched      int           `json:"fetched"`
	Demoted      int           `json:"demoted"`
	Skipped      int           `json:"skipped"`
	Failed       int           `json:"failed"`
	Eligible     int           `json:"eligible"`
	Results      []IssueResult `json:"results"`
}

// Add records a result and updates the counters.
func (r *RunReport) Add(res IssueResult) {
	switch res.Outcome {
	case OutcomeDemoted:
		r.Demoted++
		r.Eligible++
	case OutcomeFailed:
		r.Failed++
		r.Eligible++
	case OutcomeEligible:
		r.Eligible++
	case OutcomeSkipped:
		r.Skipped++
	}
	r.Results = append(r.Results, res)
}

// Acted returns the results for issues that were eligible, in processing order.
func (r *RunReport) Acted() []IssueResult {
	var acted []IssueResult
	for _, res := range r.Results {
		if res.Outcome != OutcomeSkipped {
			acted = append(acted, res)
		}
	}
	return acted
}

// Duration returns the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
