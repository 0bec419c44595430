package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/spiffcs/collabsweep/internal/model"
)

func sampleReport() *model.RunReport {
	start := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	r := &model.RunReport{
		Organization: "myorg",
		Repository:   "myrepo",
		StartedAt:    start,
		FinishedAt:   start.Add(40 * time.Second),
		Fetched:      237,
	}
	r.Add(model.IssueResult{Number: 42, User: "alice", Outcome: model.OutcomeDemoted})
	r.Add(model.IssueResult{Number: 7, User: "bob", Outcome: model.OutcomeFailed})
	r.Add(model.IssueResult{Number: 9, User: "carol", Outcome: model.OutcomeSkipped})
	return r
}

func TestRecord(t *testing.T) {
	rec := NewRecorder()
	rec.Record(sampleReport())

	tests := []struct {
		name string
		got  float64
		want float64
	}{
		{"fetched", testutil.ToFloat64(rec.fetched), 237},
		{"demoted", testutil.ToFloat64(rec.remediations.WithLabelValues("demoted")), 1},
		{"failed", testutil.ToFloat64(rec.remediations.WithLabelValues("failed")), 1},
		{"skipped", testutil.ToFloat64(rec.remediations.WithLabelValues("skipped")), 1},
		{"duration", testutil.ToFloat64(rec.duration), 40},
		{"lastSuccess", testutil.ToFloat64(rec.lastSuccess), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
			}
		})
	}
}

func TestExportTextfile(t *testing.T) {
	rec := NewRecorder()
	report := sampleReport()
	rec.Record(report)

	path := filepath.Join(t.TempDir(), "collabsweep.prom")
	if err := rec.Export(context.Background(), Config{Textfile: path}, report); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read textfile: %v", err)
	}
	if !strings.Contains(string(data), `collabsweep_issues{outcome="demoted"} 1`) {
		t.Errorf("unexpected textfile contents:\n%s", data)
	}
}

func TestExportPushgateway(t *testing.T) {
	var gotPath, gotMethod string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	rec := NewRecorder()
	report := sampleReport()
	rec.Record(report)

	if err := rec.Export(context.Background(), Config{PushgatewayURL: srv.URL}, report); err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if !strings.HasPrefix(gotPath, "/metrics/job/collabsweep") ||
		!strings.Contains(gotPath, "/organization/myorg") ||
		!strings.Contains(gotPath, "/repository/myrepo") {
		t.Errorf("unexpected push path %q", gotPath)
	}
}

func TestConfigEnabled(t *testing.T) {
	if (Config{}).Enabled() {
		t.Error("empty config should be disabled")
	}
	if !(Config{Textfile: "x"}).Enabled() {
		t.Error("textfile config should be enabled")
	}
}
