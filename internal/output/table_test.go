package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/spiffcs/collabsweep/internal/model"
	"github.com/spiffcs/collabsweep/internal/sweep"
)

func init() {
	color.NoColor = true
}

func sampleReport() *model.RunReport {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &model.RunReport{
		Organization: "myorg",
		Repository:   "myrepo",
		StartedAt:    start,
		Fetched:      3,
	}
	r.Add(model.IssueResult{Number: 9, User: "carol", Outcome: model.OutcomeSkipped})
	r.Add(model.IssueResult{Number: 42, User: "alice", CreatedAt: start.Add(-20 * 24 * time.Hour), Outcome: model.OutcomeDemoted})
	r.Add(model.IssueResult{Number: 7, User: "bob", Outcome: model.OutcomeFailed, Error: "403 forbidden"})
	return r
}

func TestTableFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := (&TableFormatter{}).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"#42", "2w", "alice", "demoted", "#7", "bob", "failed", "403 forbidden",
		"myorg/myrepo: 3 fetched, 2 eligible, 1 demoted, 1 failed, 1 skipped"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
	if strings.Contains(out, "carol") {
		t.Errorf("skipped issues should not be listed:\n%s", out)
	}
}

func TestTableFormatterEmpty(t *testing.T) {
	var buf bytes.Buffer
	r := &model.RunReport{Organization: "o", Repository: "r", DryRun: true}
	if err := (&TableFormatter{}).Format(r, &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	if !strings.Contains(buf.String(), "No eligible issues found.") {
		t.Errorf("expected empty message, got %q", buf.String())
	}
	if !strings.Contains(buf.String(), "(dry run)") {
		t.Errorf("expected dry run marker, got %q", buf.String())
	}
}

func TestJSONFormatter(t *testing.T) {
	var buf bytes.Buffer
	if err := NewFormatter(FormatJSON).Format(sampleReport(), &buf); err != nil {
		t.Fatalf("Format failed: %v", err)
	}
	var decoded model.RunReport
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.Demoted != 1 || decoded.Failed != 1 || len(decoded.Results) != 3 {
		t.Errorf("unexpected decoded report: %+v", decoded)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatTable, false},
		{"table", FormatTable, false},
		{"json", FormatJSON, false},
		{"none", FormatNone, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate should not change short strings, got %q", got)
	}
	got := truncate("a-very-long-login-name", 10)
	if displayWidth(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Errorf("unexpected truncation %q", got)
	}
}

func TestLinePrinter(t *testing.T) {
	var buf bytes.Buffer
	p := NewLinePrinter(&buf)

	cause := errors.New("403 forbidden")
	p.Observe(sweep.Event{Kind: sweep.EventStarted})
	p.Observe(sweep.Event{Kind: sweep.EventDemoted, User: "alice", Issue: 42})
	p.Observe(sweep.Event{Kind: sweep.EventClosed, User: "alice", Issue: 42})
	p.Observe(sweep.Event{Kind: sweep.EventFailed, User: "bob", Issue: 7,
		Err: &sweep.RemediationError{Login: "bob", Issue: 7, Stage: sweep.StateDemoting, Err: cause}})
	p.Observe(sweep.Event{Kind: sweep.EventSkipped, Issue: 9})
	p.Observe(sweep.Event{Kind: sweep.EventFinished})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	want := []string{
		"Start",
		"Changed user to an outside collaborator: alice",
		"Closed issue number 42",
		"Warning: Exception in changing the user to outside collaborator for bob",
	}
	for i, w := range want {
		if lines[i] != w {
			t.Errorf("line %d = %q, want %q", i, lines[i], w)
		}
	}
	if lines[len(lines)-1] != "Finished" {
		t.Errorf("expected last line Finished, got %q", lines[len(lines)-1])
	}
	if !strings.Contains(buf.String(), "*errors.errorString: 403 forbidden") {
		t.Errorf("expected error chain in output:\n%s", buf.String())
	}
}

func TestErrorChain(t *testing.T) {
	inner := errors.New("inner")
	outer := fmt.Errorf("outer: %w", inner)

	chain := ErrorChain(outer)
	if len(chain) != 2 {
		t.Fatalf("expected 2 entries, got %v", chain)
	}
	if !strings.HasSuffix(chain[1], "inner") {
		t.Errorf("expected inner error last, got %q", chain[1])
	}
	if ErrorChain(nil) != nil {
		t.Error("expected nil chain for nil error")
	}
}

func TestFormatAge(t *testing.T) {
	tests := []struct {
		name     string
		duration time.Duration
		expected string
	}{
		{"zero", 0, "now"},
		{"59 seconds", 59 * time.Second, "now"},
		{"1 minute", time.Minute, "1m"},
		{"59 minutes", 59 * time.Minute, "59m"},
		{"1 hour", time.Hour, "1h"},
		{"23 hours", 23 * time.Hour, "23h"},
		{"1 day", 24 * time.Hour, "1d"},
		{"6 days", 6 * 24 * time.Hour, "6d"},
		{"14 days", 14 * 24 * time.Hour, "2w"},
		{"29 days", 29 * 24 * time.Hour, "4w"},
		{"30 days", 30 * 24 * time.Hour, "1mo"},
		{"90 days", 90 * 24 * time.Hour, "3mo"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatAge(tt.duration); got != tt.expected {
				t.Errorf("formatAge(%v) = %q, want %q", tt.duration, got, tt.expected)
			}
		})
	}
}

func TestIssueAgeUnknown(t *testing.T) {
	r := &model.RunReport{}
	if got := issueAge(r, model.IssueResult{Number: 1}); got != "-" {
		t.Errorf("issueAge() = %q, want \"-\"", got)
	}
}
