package tui

import "time"

// TaskID identifies a task in the TUI progress display.
type TaskID int

const (
	TaskAuth      TaskID = iota // Authenticating with GitHub
	TaskFetch                   // Reading every page of tracking issues
	TaskFilter                  // Evaluating eligibility
	TaskRemediate               // Demoting users and closing issues
)

// TaskStatus represents the current status of a task.
type TaskStatus int

const (
	StatusPending TaskStatus = iota
	StatusRunning
	StatusComplete
	StatusError
	StatusSkipped
)

// Event is the interface for all TUI events.
type Event interface {
	isEvent()
}

// TaskEvent represents an update to a task's status.
type TaskEvent struct {
	Task     TaskID
	Status   TaskStatus
	Message  string  // Optional message (e.g., "3/12" for progress)
	Count    int     // Count of items (e.g., issues fetched)
	Progress float64 // Progress from 0.0 to 1.0
	Error    error   // Error if status is StatusError

	Demoted    int    // Members demoted so far
	Failed     int    // Remediations failed so far
	FailedUser string // Login of the latest failed remediation
}

func (TaskEvent) isEvent() {}

// RateLimitEvent reports that GitHub has exhausted the quota.
type RateLimitEvent struct {
	Limited bool
	ResetAt time.Time
}

func (RateLimitEvent) isEvent() {}

// FailureEvent records one failed remediation so the final view can list it.
type FailureEvent struct {
	Issue  int
	User   string
	Reason string
}

func (FailureEvent) isEvent() {}

// DoneEvent signals that all work is complete.
type DoneEvent struct{}

func (DoneEvent) isEvent() {}
