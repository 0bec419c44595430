// Package metrics exports the outcome of a sweep as Prometheus metrics. A
// sweep is a short-lived batch job, so metrics are pushed to a Pushgateway or
// written to a node_exporter textfile rather than scraped.
package metrics

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
	"github.com/spiffcs/collabsweep/internal/log"
	"github.com/spiffcs/collabsweep/internal/model"
)

const (
	namespace = "collabsweep"
	jobName   = "collabsweep"
)

// Config selects where metrics are exported. Both targets may be set.
type Config struct {
	PushgatewayURL string
	Textfile       string
}

// Enabled reports whether any export target is configured.
func (c Config) Enabled() bool {
	return c.PushgatewayURL != "" || c.Textfile != ""
}

// Recorder holds the metrics for a single run in its own registry.
type Recorder struct {
	registry     *prometheus.Registry
	fetched      prometheus.Gauge
	remediations *prometheus.GaugeVec
	duration     prometheus.Gauge
	lastRun      prometheus.Gauge
	lastSuccess  prometheus.Gauge
}

// NewRecorder creates a recorder with all metrics registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		fetched: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "issues_fetched",
			Help:      "Number of tracking issues read in the last run.",
		}),
		remediations: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "issues",
			Help:      "Number of tracking issues per outcome in the last run.",
		}, []string{"outcome"}),
		duration: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_duration_seconds",
			Help:      "Wall time of the last run.",
		}),
		lastRun: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last run finished.",
		}),
		lastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_success_timestamp_seconds",
			Help:      "Unix time of the last run without failed remediations.",
		}),
	}
	r.registry.MustRegister(r.fetched, r.remediations, r.duration, r.lastRun, r.lastSuccess)
	return r
}

// Record sets the metrics from a finished run report.
func (r *Recorder) Record(report *model.RunReport) {
	r.fetched.Set(float64(report.Fetched))
	for _, o := range []model.Outcome{model.OutcomeDemoted, model.OutcomeFailed, model.OutcomeSkipped, model.OutcomeEligible} {
		r.remediations.WithLabelValues(string(o)).Set(0)
	}
	r.remediations.WithLabelValues(string(model.OutcomeDemoted)).Set(float64(report.Demoted))
	r.remediations.WithLabelValues(string(model.OutcomeFailed)).Set(float64(report.Failed))
	r.remediations.WithLabelValues(string(model.OutcomeSkipped)).Set(float64(report.Skipped))
	if report.DryRun {
		r.remediations.WithLabelValues(string(model.OutcomeEligible)).Set(float64(report.Eligible))
	}
	r.duration.Set(report.Duration().Seconds())
	r.lastRun.Set(float64(report.FinishedAt.Unix()))
	if report.Failed == 0 {
		r.lastSuccess.Set(float64(report.FinishedAt.Unix()))
	}
}

// Gatherer exposes the recorder's registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Export writes the recorded metrics to every target in cfg. The
// organization and repository become Pushgateway grouping labels.
func (r *Recorder) Export(ctx context.Context, cfg Config, report *model.RunReport) error {
	if cfg.Textfile != "" {
		if err := prometheus.WriteToTextfile(cfg.Textfile, r.registry); err != nil {
			return fmt.Errorf("failed to write metrics textfile: %w", err)
		}
		log.Debug("wrote metrics textfile", "path", cfg.Textfile)
	}

	if cfg.PushgatewayURL != "" {
		pusher := push.New(cfg.PushgatewayURL, jobName).
			Gatherer(r.registry).
			Grouping("organization", report.Organization).
			Grouping("repository", report.Repository)
		if err := pusher.PushContext(ctx); err != nil {
			return fmt.Errorf("failed to push metrics: %w", err)
		}
		log.Debug("pushed metrics", "url", cfg.PushgatewayURL)
	}

	return nil
}
