package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// Model renders sweep progress inline: one line per task, a rate-limit
// banner while GitHub is refusing requests, and the failed remediations once
// the sweep has finished.
type Model struct {
	tasks    []Task
	spinner  spinner.Model
	progress progress.Model
	events   <-chan Event
	done     bool

	login    string
	failures []FailureEvent

	rateLimited bool
	resetAt     time.Time
}

// doneMsg is delivered when the event channel closes.
type doneMsg struct{}

// ModelOption configures a Model.
type ModelOption func(*Model)

// WithTasks replaces the task list.
func WithTasks(tasks []Task) ModelOption {
	return func(m *Model) {
		m.tasks = tasks
	}
}

// DefaultTasks returns the task list for a sweep.
func DefaultTasks() []Task {
	return sweepTasks("Demoting members")
}

// DryRunTasks returns the task list for a dry run, where nothing is demoted.
func DryRunTasks() []Task {
	return sweepTasks("Listing eligible members")
}

func sweepTasks(remediate string) []Task {
	return []Task{
		NewTask(TaskAuth, "Authenticating"),
		NewTask(TaskFetch, "Fetching tracking issues"),
		NewTask(TaskFilter, "Evaluating eligibility"),
		NewTask(TaskRemediate, remediate),
	}
}

// NewModel creates a model reading from events.
func NewModel(events <-chan Event, opts ...ModelOption) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	m := Model{
		tasks:   DefaultTasks(),
		spinner: s,
		progress: progress.New(
			progress.WithScaledGradient("#60a5fa", "#1e3a8a"),
			progress.WithWidth(25),
			progress.WithoutPercentage(),
		),
		events: events,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// Init starts the spinner and the event pump.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForEvent(m.events))
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if s := msg.String(); s == "ctrl+c" || s == "q" {
			return m, tea.Quit
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case progress.FrameMsg:
		pm, cmd := m.progress.Update(msg)
		m.progress = pm.(progress.Model)
		return m, cmd

	case TaskEvent:
		cmd := m.applyTask(msg)
		return m, tea.Batch(cmd, waitForEvent(m.events))

	case FailureEvent:
		m.failures = append(m.failures, msg)
		return m, waitForEvent(m.events)

	case RateLimitEvent:
		m.rateLimited = msg.Limited
		m.resetAt = msg.ResetAt
		return m, waitForEvent(m.events)

	case DoneEvent, doneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m *Model) applyTask(e TaskEvent) tea.Cmd {
	var cmd tea.Cmd
	for i := range m.tasks {
		if m.tasks[i].ID != e.Task {
			continue
		}
		m.tasks[i].apply(e)
		if e.Progress > 0 {
			cmd = m.progress.SetPercent(e.Progress)
		}
		break
	}
	if e.Task == TaskAuth && e.Status == StatusComplete && e.Message != "" {
		m.login = e.Message
	}
	return cmd
}

// Done reports whether the model saw the end of the event stream rather than
// being quit by the user.
func (m Model) Done() bool {
	return m.done
}

// Failures returns the failed remediations seen so far.
func (m Model) Failures() []FailureEvent {
	return m.failures
}

// View renders the model.
func (m Model) View() string {
	var b strings.Builder
	frame := m.spinner.View()

	for _, task := range m.tasks {
		if task.ID == TaskAuth && task.Status == StatusComplete && m.login != "" {
			fmt.Fprintf(&b, "  %s Authenticated as %s\n", iconComplete, userStyle.Render(m.login))
			continue
		}
		b.WriteString(task.View(frame, m.progress) + "\n")
	}

	if m.rateLimited {
		b.WriteString("\n" + warnStyle.Render(m.rateLimitBanner()) + "\n")
	}

	if m.done && len(m.failures) > 0 {
		b.WriteString("\n" + failureHeaderStyle.Render(fmt.Sprintf("  Failed remediations (%d)", len(m.failures))) + "\n")
		for _, f := range m.failures {
			fmt.Fprintf(&b, "  %s #%d %s %s\n", iconError, f.Issue, userStyle.Render(f.User), messageStyle.Render(f.Reason))
		}
	}

	if !m.done {
		b.WriteString(footerStyle.Render("\n  Press Ctrl+C to cancel"))
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) rateLimitBanner() string {
	wait := time.Until(m.resetAt).Round(time.Second)
	if wait <= 0 {
		return "  Rate limited"
	}
	return fmt.Sprintf("  Rate limited, requests fail until the quota resets in %s", wait)
}

// waitForEvent reads the next event, or doneMsg once the channel closes.
func waitForEvent(events <-chan Event) tea.Cmd {
	return func() tea.Msg {
		event, ok := <-events
		if !ok {
			return doneMsg{}
		}
		return event
	}
}
