// Package output renders sweep progress and the final run report.
package output

import (
	"fmt"
	"io"

	"github.com/spiffcs/collabsweep/internal/model"
)

// Format represents the report output format
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	// FormatNone suppresses the summary report; progress lines are still printed.
	FormatNone Format = "none"
)

// ParseFormat validates a --format value. An empty value selects the table.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatTable:
		return FormatTable, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNone:
		return FormatNone, nil
	default:
		return "", fmt.Errorf("invalid format %q: use table, json, or none", s)
	}
}

// Formatter defines the interface for report formatters
type Formatter interface {
	Format(report *model.RunReport, w io.Writer) error
}

// NewFormatter creates a formatter for the specified format
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Pretty: true}
	case FormatNone:
		return nopFormatter{}
	default:
		return &TableFormatter{}
	}
}

type nopFormatter struct{}

func (nopFormatter) Format(*model.RunReport, io.Writer) error { return nil }
