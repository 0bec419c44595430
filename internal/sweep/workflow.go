package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/spiffcs/collabsweep/internal/constants"
	"github.com/spiffcs/collabsweep/internal/log"
	"github.com/spiffcs/collabsweep/internal/model"
)

// State is the remediation state of one eligible issue.
type State int

const (
	StatePending State = iota
	StateDemoting
	StateDemoted
	StateClosing
	StateClosed
	StateDemoteFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateDemoting:
		return "demoting"
	case StateDemoted:
		return "demoted"
	case StateClosing:
		return "closing"
	case StateClosed:
		return "closed"
	case StateDemoteFailed:
		return "demote-failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// RemediationError records a failed remediation for one issue. A failure of
// either the demote or the close call is reported the same way.
type RemediationError struct {
	Login string
	Issue int
	Stage State // StateDemoting or StateClosing
	Err   error
}

func (e *RemediationError) Error() string {
	return fmt.Sprintf("remediation of issue #%d for %s failed while %s: %v", e.Issue, e.Login, e.Stage, e.Err)
}

func (e *RemediationError) Unwrap() error { return e.Err }

// Result is the outcome of remediating one eligible issue.
type Result struct {
	Issue int
	User  string
	State State // StateClosed or StateDemoteFailed
	Err   error // *RemediationError when State is StateDemoteFailed
}

// Options configures a Workflow.
type Options struct {
	Organization    string
	Repository      string
	MinAge          time.Duration
	Cooldown        time.Duration
	FailureCooldown time.Duration
	DryRun          bool
	Sleep           SleepFunc
	Observer        Observer
	Clock           func() time.Time
}

// Option is a functional option for configuring Options.
type Option func(*Options)

// WithTarget sets the organization and repository recorded in the report.
func WithTarget(org, repo string) Option {
	return func(o *Options) {
		o.Organization = org
		o.Repository = repo
	}
}

// WithMinAge sets how old an open issue must be before it is remediated.
func WithMinAge(d time.Duration) Option {
	return func(o *Options) {
		o.MinAge = d
	}
}

// WithCooldowns sets the pause after each successful write and after a failure.
func WithCooldowns(cooldown, failure time.Duration) Option {
	return func(o *Options) {
		o.Cooldown = cooldown
		o.FailureCooldown = failure
	}
}

// WithDryRun reports eligible issues without calling the write API.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithSleep replaces the pacing function.
func WithSleep(fn SleepFunc) Option {
	return func(o *Options) {
		o.Sleep = fn
	}
}

// WithClock replaces the clock used for the report's start and finish times.
func WithClock(fn func() time.Time) Option {
	return func(o *Options) {
		o.Clock = fn
	}
}

// WithObserver registers a progress observer.
func WithObserver(fn Observer) Option {
	return func(o *Options) {
		o.Observer = fn
	}
}

// Workflow runs one sweep: fetch every issue, filter, and remediate the
// eligible ones strictly one after another in fetch order.
type Workflow struct {
	source  IssueSource
	members MembershipService
	opts    Options
}

// NewWorkflow creates a workflow reading from source and writing through members.
func NewWorkflow(source IssueSource, members MembershipService, opts ...Option) *Workflow {
	o := Options{
		MinAge:          constants.MinIssueAge,
		Cooldown:        constants.Cooldown,
		FailureCooldown: constants.FailureCooldown,
		Sleep:           Sleep,
		Clock:           time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Workflow{source: source, members: members, opts: o}
}

// Run executes one sweep with now as the reference time. Only a fetch
// failure or cancellation of ctx returns an error; per-issue failures are
// recorded in the report.
func (w *Workflow) Run(ctx context.Context, now time.Time) (*model.RunReport, error) {
	report := &model.RunReport{
		Organization: w.opts.Organization,
		Repository:   w.opts.Repository,
		DryRun:       w.opts.DryRun,
		StartedAt:    w.opts.Clock(),
	}
	w.emit(Event{Kind: EventStarted})

	issues, err := FetchAll(ctx, w.source, func(page, total int) {
		w.emit(Event{Kind: EventPageFetched, Page: page, Count: total})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch issues: %w", err)
	}
	report.Fetched = len(issues)
	w.emit(Event{Kind: EventFetchComplete, Count: len(issues)})

	var eligible []model.Issue
	for _, issue := range issues {
		if reason := Check(issue, now, w.opts.MinAge); reason != SkipNone {
			log.Debug("skipping issue", "number", issue.Number, "reason", reason)
			report.Add(model.IssueResult{Number: issue.Number, User: issue.Responsible(), CreatedAt: issue.CreatedAt, Outcome: model.OutcomeSkipped})
			w.emit(Event{Kind: EventSkipped, Issue: issue.Number, User: issue.Responsible(), Reason: reason})
			continue
		}
		eligible = append(eligible, issue)
	}
	log.Info("evaluated issues", "fetched", len(issues), "eligible", len(eligible))

	for i, issue := range eligible {
		if w.opts.DryRun {
			report.Add(model.IssueResult{Number: issue.Number, User: issue.Responsible(), CreatedAt: issue.CreatedAt, Outcome: model.OutcomeEligible})
			w.emit(Event{Kind: EventEligible, Issue: issue.Number, User: issue.Responsible(), Count: i + 1, Total: len(eligible)})
			continue
		}

		res := w.remediate(ctx, issue, i+1, len(eligible))
		switch res.State {
		case StateClosed:
			report.Add(model.IssueResult{Number: res.Issue, User: res.User, CreatedAt: issue.CreatedAt, Outcome: model.OutcomeDemoted})
		case StateDemoteFailed:
			report.Add(model.IssueResult{Number: res.Issue, User: res.User, CreatedAt: issue.CreatedAt, Outcome: model.OutcomeFailed, Error: res.Err.Error()})
			w.emit(Event{Kind: EventFailed, Issue: res.Issue, User: res.User, Err: res.Err, Count: i + 1, Total: len(eligible)})
			if err := w.opts.Sleep(ctx, w.opts.FailureCooldown); err != nil {
				return w.finish(report), err
			}
		}

		if err := ctx.Err(); err != nil {
			return w.finish(report), err
		}
	}

	return w.finish(report), nil
}

// remediate demotes the responsible user and closes the issue, pausing after
// each write. Cancellation during a pause stops after the current step.
func (w *Workflow) remediate(ctx context.Context, issue model.Issue, index, total int) Result {
	user := issue.Responsible()
	res := Result{Issue: issue.Number, User: user, State: StatePending}
	fail := func(stage State, err error) Result {
		res.State = StateDemoteFailed
		res.Err = &RemediationError{Login: user, Issue: issue.Number, Stage: stage, Err: err}
		return res
	}

	res.State = StateDemoting
	if err := w.members.DemoteToOutsideCollaborator(ctx, user); err != nil {
		return fail(StateDemoting, err)
	}
	res.State = StateDemoted
	w.emit(Event{Kind: EventDemoted, Issue: issue.Number, User: user, Count: index, Total: total})
	if err := w.opts.Sleep(ctx, w.opts.Cooldown); err != nil {
		return fail(StateClosing, err)
	}

	res.State = StateClosing
	if err := w.members.CloseIssue(ctx, issue.Number); err != nil {
		return fail(StateClosing, err)
	}
	res.State = StateClosed
	w.emit(Event{Kind: EventClosed, Issue: issue.Number, User: user, Count: index, Total: total})
	// The closing pause is part of the pacing; a cancelled wait here does not
	// undo a completed remediation.
	_ = w.opts.Sleep(ctx, w.opts.Cooldown)

	return res
}

func (w *Workflow) finish(report *model.RunReport) *model.RunReport {
	report.FinishedAt = w.opts.Clock()
	w.emit(Event{Kind: EventFinished})
	return report
}

func (w *Workflow) emit(e Event) {
	if w.opts.Observer != nil {
		w.opts.Observer(e)
	}
}

// Sleep waits for d, returning early with ctx.Err() when ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
