package output

import (
	"errors"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spiffcs/collabsweep/internal/sweep"
)

var warnColor = color.New(color.FgYellow)

// LinePrinter writes one human-readable line per workflow step. Failures are
// printed as a "Warning:" line followed by the chain of wrapped errors so
// log monitoring can match on the prefix.
type LinePrinter struct {
	w io.Writer
}

// NewLinePrinter creates a printer writing to w.
func NewLinePrinter(w io.Writer) *LinePrinter {
	return &LinePrinter{w: w}
}

// Observe implements sweep.Observer.
func (p *LinePrinter) Observe(e sweep.Event) {
	switch e.Kind {
	case sweep.EventStarted:
		fmt.Fprintln(p.w, "Start")
	case sweep.EventFetchComplete:
		fmt.Fprintf(p.w, "Fetched %d issues\n", e.Count)
	case sweep.EventEligible:
		fmt.Fprintf(p.w, "Would change user to an outside collaborator: %s (issue #%d)\n", e.User, e.Issue)
	case sweep.EventDemoted:
		fmt.Fprintf(p.w, "Changed user to an outside collaborator: %s\n", e.User)
	case sweep.EventClosed:
		fmt.Fprintf(p.w, "Closed issue number %d\n", e.Issue)
	case sweep.EventFailed:
		warnColor.Fprintf(p.w, "Warning: Exception in changing the user to outside collaborator for %s\n", e.User)
		for _, line := range ErrorChain(e.Err) {
			fmt.Fprintf(p.w, "  %s\n", line)
		}
	case sweep.EventFinished:
		fmt.Fprintln(p.w, "Finished")
	}
}

// ErrorChain describes err and every error it wraps, outermost first.
func ErrorChain(err error) []string {
	var lines []string
	for err != nil {
		lines = append(lines, fmt.Sprintf("%T: %v", err, err))
		err = errors.Unwrap(err)
	}
	return lines
}
