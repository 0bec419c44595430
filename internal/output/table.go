package output

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spiffcs/collabsweep/internal/model"
	"golang.org/x/term"
)

// ansiRegex matches ANSI escape sequences
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*m`)

var (
	demotedColor  = color.New(color.FgGreen)
	failedColor   = color.New(color.FgRed, color.Bold)
	eligibleColor = color.New(color.FgCyan)
	dimColor      = color.New(color.FgHiBlack)
)

// TableFormatter formats the run report as a terminal table
type TableFormatter struct{}

// hyperlink creates a clickable terminal hyperlink using OSC 8
func hyperlink(text, url string) string {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return text
	}
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, text)
}

// displayWidth returns the visible width of a string in terminal columns
func displayWidth(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

// truncate shortens s to maxWidth display columns, adding "..." when cut.
func truncate(s string, maxWidth int) string {
	if runewidth.StringWidth(s) <= maxWidth {
		return s
	}
	return runewidth.Truncate(s, maxWidth, "...")
}

// padRight pads a string with spaces to reach the target visible width
func padRight(s string, targetWidth int) string {
	w := displayWidth(s)
	if w >= targetWidth {
		return s
	}
	return s + strings.Repeat(" ", targetWidth-w)
}

func colorOutcome(o model.Outcome) string {
	switch o {
	case model.OutcomeDemoted:
		return demotedColor.Sprint(string(o))
	case model.OutcomeFailed:
		return failedColor.Sprint(string(o))
	case model.OutcomeEligible:
		return eligibleColor.Sprint(string(o))
	default:
		return dimColor.Sprint(string(o))
	}
}

// formatAge formats a duration as a compact age: "now", "5m", "2h", "3d",
// "2w", "3mo".
func formatAge(d time.Duration) string {
	if d < time.Minute {
		return "now"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	days := int(d.Hours() / 24)
	if days < 7 {
		return fmt.Sprintf("%dd", days)
	}
	if days < 30 {
		return fmt.Sprintf("%dw", days/7)
	}
	return fmt.Sprintf("%dmo", days/30)
}

// issueAge is the age of the issue when the run started.
func issueAge(report *model.RunReport, res model.IssueResult) string {
	if res.CreatedAt.IsZero() || report.StartedAt.IsZero() {
		return "-"
	}
	return formatAge(report.StartedAt.Sub(res.CreatedAt))
}

func issueURL(report *model.RunReport, number int) string {
	return fmt.Sprintf("https://github.com/%s/%s/issues/%d", report.Organization, report.Repository, number)
}

// Format outputs the issues that were acted on followed by the run totals.
// Skipped issues are only counted.
func (f *TableFormatter) Format(report *model.RunReport, w io.Writer) error {
	const (
		colIssue   = 7
		colAge     = 5
		colUser    = 24
		colOutcome = 9
		colError   = 60
	)

	acted := report.Acted()
	if len(acted) == 0 {
		fmt.Fprintln(w, "No eligible issues found.")
	} else {
		fmt.Fprintf(w, "%-*s  %-*s  %-*s  %-*s  %s\n",
			colIssue, "Issue",
			colAge, "Age",
			colUser, "User",
			colOutcome, "Outcome",
			"Error")
		fmt.Fprintln(w, strings.Repeat("-", colIssue+colAge+colUser+colOutcome+colError+8))

		for _, res := range acted {
			issue := hyperlink(fmt.Sprintf("#%d", res.Number), issueURL(report, res.Number))
			fmt.Fprintf(w, "%s  %s  %s  %s  %s\n",
				padRight(issue, colIssue),
				padRight(issueAge(report, res), colAge),
				padRight(truncate(res.User, colUser), colUser),
				padRight(colorOutcome(res.Outcome), colOutcome),
				truncate(res.Error, colError),
			)
		}
	}

	fmt.Fprintln(w)
	return printSummary(report, w)
}

func printSummary(report *model.RunReport, w io.Writer) error {
	mode := ""
	if report.DryRun {
		mode = " (dry run)"
	}
	_, err := fmt.Fprintf(w, "%s/%s%s: %d fetched, %d eligible, %s demoted, %s failed, %d skipped\n",
		report.Organization, report.Repository, mode,
		report.Fetched,
		report.Eligible,
		demotedColor.Sprint(report.Demoted),
		failedColor.Sprint(report.Failed),
		report.Skipped,
	)
	return err
}
