// Package duration provides parsing for human-readable duration strings.
package duration

import (
	"fmt"
	"math"
	"time"
)

// Parse parses human-readable durations like "30s", "2w", "14d", "1mo".
func Parse(s string) (time.Duration, error) {
	var n int64
	var unit string

	if _, err := fmt.Sscanf(s, "%d%s", &n, &unit); err != nil {
		return 0, fmt.Errorf("invalid duration format: %s (use e.g., 5s, 14d, 2w)", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative duration: %s", s)
	}

	var size time.Duration
	switch unit {
	case "s", "sec", "secs":
		size = time.Second
	case "m", "min", "mins":
		size = time.Minute
	case "h", "hr", "hrs", "hour", "hours":
		size = time.Hour
	case "d", "day", "days":
		size = 24 * time.Hour
	case "w", "wk", "wks", "week", "weeks":
		size = 7 * 24 * time.Hour
	case "mo", "month", "months":
		size = 30 * 24 * time.Hour
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}

	if n > math.MaxInt64/int64(size) {
		return 0, fmt.Errorf("duration out of range: %s", s)
	}
	return time.Duration(n) * size, nil
}

// Format renders d using the largest whole unit Parse understands.
func Format(d time.Duration) string {
	const day = 24 * time.Hour
	switch {
	case d == 0:
		return "0s"
	case d%(7*day) == 0:
		return fmt.Sprintf("%dw", d/(7*day))
	case d%day == 0:
		return fmt.Sprintf("%dd", d/day)
	case d%time.Hour == 0:
		return fmt.Sprintf("%dh", d/time.Hour)
	case d%time.Minute == 0:
		return fmt.Sprintf("%dm", d/time.Minute)
	default:
		return fmt.Sprintf("%ds", d/time.Second)
	}
}
