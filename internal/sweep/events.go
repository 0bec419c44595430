package sweep

// EventKind identifies a progress event emitted by the workflow.
type EventKind int

const (
	EventStarted       EventKind = iota // Run started
	EventPageFetched                    // One page of issues read
	EventFetchComplete                  // All pages read, Count holds the total
	EventSkipped                        // Issue not eligible, Reason set
	EventEligible                       // Issue eligible (dry run only)
	EventDemoted                        // User converted to outside collaborator
	EventClosed                         // Tracking issue closed
	EventFailed                         // Remediation failed, Err set
	EventFinished                       // Run finished
)

// Event describes one step of a sweep.
type Event struct {
	Kind   EventKind
	Issue  int
	User   string
	Reason SkipReason
	// Count is the number of issues read so far for fetch events, or the
	// index of the eligible issue being remediated.
	Count int
	// Total is the number of eligible issues for remediation events.
	Total int
	Page  int
	Err   error
}

// Observer receives workflow events. It is called synchronously from the
// workflow and must not block for long.
type Observer func(Event)
