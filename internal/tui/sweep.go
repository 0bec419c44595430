package tui

import (
	"errors"
	"fmt"

	"github.com/spiffcs/collabsweep/internal/sweep"
)

// SweepProgress translates workflow events into task updates. It is used as
// the workflow observer when the TUI is active.
type SweepProgress struct {
	ch         chan<- Event
	dryRun     bool
	skipped    int
	filterDone bool
	demoted    int
	failed     int
}

// NewSweepProgress creates an adapter sending to ch.
func NewSweepProgress(ch chan<- Event, dryRun bool) *SweepProgress {
	return &SweepProgress{ch: ch, dryRun: dryRun}
}

// Observe implements sweep.Observer.
func (p *SweepProgress) Observe(e sweep.Event) {
	switch e.Kind {
	case sweep.EventStarted:
		SendTaskEvent(p.ch, TaskFetch, StatusRunning)

	case sweep.EventPageFetched:
		SendTaskEvent(p.ch, TaskFetch, StatusRunning,
			WithMessage(fmt.Sprintf("page %d, %d issues", e.Page, e.Count)))

	case sweep.EventFetchComplete:
		SendTaskEvent(p.ch, TaskFetch, StatusComplete, WithCount(e.Count))
		SendTaskEvent(p.ch, TaskFilter, StatusRunning)

	case sweep.EventSkipped:
		p.skipped++

	case sweep.EventEligible:
		p.completeFilter(e.Total)
		SendTaskEvent(p.ch, TaskRemediate, StatusRunning,
			WithProgress(fraction(e.Count, e.Total)),
			WithMessage(fmt.Sprintf("%d/%d", e.Count, e.Total)))

	case sweep.EventDemoted:
		p.completeFilter(e.Total)
		SendTaskEvent(p.ch, TaskRemediate, StatusRunning,
			WithProgress(fraction(e.Count-1, e.Total)+0.5/float64(e.Total)),
			WithMessage(fmt.Sprintf("%d/%d %s", e.Count, e.Total, e.User)))

	case sweep.EventClosed:
		p.demoted++
		SendTaskEvent(p.ch, TaskRemediate, StatusRunning,
			WithProgress(fraction(e.Count, e.Total)),
			WithMessage(fmt.Sprintf("%d/%d closed #%d", e.Count, e.Total, e.Issue)),
			WithTally(p.demoted, p.failed))

	case sweep.EventFailed:
		p.completeFilter(e.Total)
		p.failed++
		SendTaskEvent(p.ch, TaskRemediate, StatusRunning,
			WithProgress(fraction(e.Count, e.Total)),
			WithMessage(fmt.Sprintf("%d/%d", e.Count, e.Total)),
			WithTally(p.demoted, p.failed),
			WithFailedUser(e.User))
		SendEvent(p.ch, FailureEvent{Issue: e.Issue, User: e.User, Reason: failureReason(e.Err)})

	case sweep.EventFinished:
		p.completeFilter(0)
		SendTaskEvent(p.ch, TaskRemediate, p.finalStatus(),
			WithMessage(p.summary()),
			WithTally(p.demoted, p.failed))
	}
}

func (p *SweepProgress) completeFilter(eligible int) {
	if p.filterDone {
		return
	}
	p.filterDone = true
	SendTaskEvent(p.ch, TaskFilter, StatusComplete,
		WithMessage(fmt.Sprintf("%d eligible, %d skipped", eligible, p.skipped)))
}

func (p *SweepProgress) finalStatus() TaskStatus {
	if p.failed > 0 {
		return StatusError
	}
	return StatusComplete
}

func (p *SweepProgress) summary() string {
	if p.dryRun {
		return "dry run, nothing changed"
	}
	if p.failed > 0 {
		return fmt.Sprintf("%d demoted, %d failed", p.demoted, p.failed)
	}
	return fmt.Sprintf("%d demoted", p.demoted)
}

// failureReason keeps the innermost message of an error chain, which is the
// part GitHub wrote.
func failureReason(err error) string {
	if err == nil {
		return ""
	}
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}

func fraction(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(n) / float64(total)
}
