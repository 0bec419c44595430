package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
)

// Task is one step of a sweep as shown in the progress display. The
// remediation task also tracks how many members were demoted and how many
// remediations failed.
type Task struct {
	ID       TaskID
	Name     string
	Status   TaskStatus
	Message  string
	Count    int
	Progress float64
	Error    error

	Demoted     int
	Failed      int
	LastFailure string // login of the most recent failed remediation
}

// NewTask creates a pending task.
func NewTask(id TaskID, name string) Task {
	return Task{
		ID:     id,
		Name:   name,
		Status: StatusPending,
	}
}

// apply folds an event into the task. Zero values leave fields unchanged.
func (t *Task) apply(e TaskEvent) {
	t.Status = e.Status
	if e.Message != "" {
		t.Message = e.Message
	}
	if e.Count > 0 {
		t.Count = e.Count
	}
	if e.Progress > 0 {
		t.Progress = e.Progress
	}
	if e.Error != nil {
		t.Error = e.Error
	}
	if e.Demoted > t.Demoted {
		t.Demoted = e.Demoted
	}
	if e.Failed > t.Failed {
		t.Failed = e.Failed
	}
	if e.FailedUser != "" {
		t.LastFailure = e.FailedUser
	}
}

// View renders the task on one line.
func (t Task) View(spinnerFrame string, prog progress.Model) string {
	name := taskNameStyle.Render(t.Name)
	if t.Status == StatusPending {
		name = taskDimStyle.Render(t.Name)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  %s %s", StatusIcon(t.Status, spinnerFrame), name)

	if t.Status == StatusRunning && t.Progress > 0 {
		fmt.Fprintf(&b, " %s %d%%", prog.ViewAs(t.Progress), int(t.Progress*100))
	}
	if t.Message != "" {
		b.WriteString(" " + messageStyle.Render(t.Message))
	} else if t.Count > 0 {
		b.WriteString(" " + messageStyle.Render(fmt.Sprintf("(%d)", t.Count)))
	}

	if tally := t.tally(); tally != "" {
		b.WriteString(" " + tally)
	}

	if t.Error != nil {
		b.WriteString(" " + errorStyle.Render(t.Error.Error()))
	}
	return b.String()
}

// tally renders the demoted and failed counters, failures in the error style.
func (t Task) tally() string {
	if t.Demoted == 0 && t.Failed == 0 {
		return ""
	}
	parts := []string{demotedStyle.Render(fmt.Sprintf("%d demoted", t.Demoted))}
	if t.Failed > 0 {
		failed := fmt.Sprintf("%d failed", t.Failed)
		if t.LastFailure != "" {
			failed += fmt.Sprintf(" (last: %s)", t.LastFailure)
		}
		parts = append(parts, errorStyle.Render(failed))
	}
	return strings.Join(parts, messageStyle.Render(", "))
}
