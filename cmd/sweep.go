package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spiffcs/collabsweep/config"
	"github.com/spiffcs/collabsweep/internal/constants"
	"github.com/spiffcs/collabsweep/internal/ghclient"
	"github.com/spiffcs/collabsweep/internal/log"
	"github.com/spiffcs/collabsweep/internal/metrics"
	"github.com/spiffcs/collabsweep/internal/model"
	"github.com/spiffcs/collabsweep/internal/output"
	"github.com/spiffcs/collabsweep/internal/sweep"
	"github.com/spiffcs/collabsweep/internal/tui"
	"golang.org/x/sync/errgroup"
)

var (
	_ sweep.IssueSource       = (*ghclient.IssueSource)(nil)
	_ sweep.MembershipService = (*ghclient.MembershipService)(nil)
)

// sweepRuntime bundles TUI-related state that's threaded through a sweep.
type sweepRuntime struct {
	useTUI bool
	dryRun bool
	out    io.Writer
	events chan tui.Event

	// failures seen while the TUI owned the terminal, printed once it exits.
	failures []sweep.Event
}

// sendEvent sends a task event to the TUI channel if it exists.
func (rt *sweepRuntime) sendEvent(task tui.TaskID, status tui.TaskStatus, opts ...tui.TaskEventOption) {
	if rt.events == nil {
		return
	}
	tui.SendTaskEvent(rt.events, task, status, opts...)
}

// observer returns the progress observer for the workflow: the TUI adapter
// when the TUI runs, otherwise the line printer.
func (rt *sweepRuntime) observer() sweep.Observer {
	if rt.events == nil {
		return output.NewLinePrinter(rt.out).Observe
	}
	progress := tui.NewSweepProgress(rt.events, rt.dryRun)
	return func(e sweep.Event) {
		progress.Observe(e)
		if e.Kind == sweep.EventFailed {
			rt.failures = append(rt.failures, e)
		}
	}
}

// replayFailures prints the warnings the TUI could not show, with their
// error chains, in the same form as the non-interactive output.
func (rt *sweepRuntime) replayFailures() {
	printer := output.NewLinePrinter(rt.out)
	for _, e := range rt.failures {
		printer.Observe(e)
	}
	rt.failures = nil
}

// sweepSettings is the validated configuration of one run.
type sweepSettings struct {
	cfg     *config.Config
	timings config.Timings
	format  output.Format
	token   string
}

func runSweep(cmd *cobra.Command, args []string, opts *Options) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Initialize(opts.Verbosity, os.Stderr)

	settings, err := loadSettings(args, opts)
	if err != nil {
		return err
	}

	// Logs are dropped while the TUI draws; failures are replayed after it exits.
	useTUI := shouldUseTUI(opts, settings.format)
	if useTUI {
		log.Initialize(opts.Verbosity, io.Discard)
	}

	client, err := ghclient.NewClient(ctx, ghclient.Options{
		Token:      settings.token,
		APIURL:     settings.cfg.APIURL,
		GraphQLURL: settings.cfg.GraphQLURL,
		Timeout:    constants.RequestTimeout,
	})
	if err != nil {
		return err
	}

	// Progress lines move to stderr when stdout carries a JSON report.
	progressOut := cmd.OutOrStdout()
	if settings.format == output.FormatJSON {
		progressOut = cmd.ErrOrStderr()
	}
	rt := &sweepRuntime{useTUI: useTUI, dryRun: opts.DryRun, out: progressOut}
	report, runErr := executeSweep(ctx, rt, client, settings, opts.DryRun)
	if report == nil {
		return runErr
	}

	formatter := output.NewFormatter(settings.format)
	if err := formatter.Format(report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	exportMetrics(ctx, settings.cfg, report)

	if runErr != nil {
		return fmt.Errorf("sweep interrupted: %w", runErr)
	}
	return nil
}

// loadSettings loads and validates the config and resolves the token.
func loadSettings(args []string, opts *Options) (*sweepSettings, error) {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	timings, err := cfg.Timings()
	if err != nil {
		return nil, err
	}

	formatName := opts.Format
	if formatName == "" {
		formatName = cfg.DefaultFormat
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return nil, err
	}

	return &sweepSettings{
		cfg:     cfg,
		timings: timings,
		format:  format,
		token:   config.GitHubToken(tokenArg(args)),
	}, nil
}

// executeSweep runs the workflow, alongside the TUI when enabled. The report
// is nil only when the fetch stage failed.
func executeSweep(ctx context.Context, rt *sweepRuntime, client *ghclient.Client, s *sweepSettings, dryRun bool) (*model.RunReport, error) {
	g, gctx := errgroup.WithContext(ctx)

	if rt.useTUI {
		rt.events = make(chan tui.Event, constants.EventBufferSize)
		tasks := tui.DefaultTasks()
		if dryRun {
			tasks = tui.DryRunTasks()
		}
		g.Go(func() error {
			return tui.Run(rt.events, tui.WithTasks(tasks))
		})
	}

	var report *model.RunReport
	var runErr error
	g.Go(func() error {
		if rt.events != nil {
			defer close(rt.events)
		}

		authenticate(gctx, rt, client)

		workflow := sweep.NewWorkflow(
			client.Issues(s.cfg.Organization, s.cfg.Repository, s.cfg.PageSize),
			client.Membership(s.cfg.Organization, s.cfg.Organization, s.cfg.Repository),
			sweep.WithTarget(s.cfg.Organization, s.cfg.Repository),
			sweep.WithMinAge(s.timings.MinAge),
			sweep.WithCooldowns(s.timings.Cooldown, s.timings.FailureCooldown),
			sweep.WithDryRun(dryRun),
			sweep.WithObserver(rt.observer()),
		)

		report, runErr = workflow.Run(gctx, time.Now())
		if report == nil {
			rt.sendEvent(tui.TaskFetch, tui.StatusError, tui.WithError(runErr))
		}
		reportRateLimit(rt, client)

		// A fetch failure ends the TUI with the error shown; the error itself
		// is returned after the group has finished.
		return nil
	})

	err := g.Wait()
	rt.replayFailures()
	if err != nil {
		if errors.Is(err, tui.ErrCancelled) && report != nil {
			return report, err
		}
		if runErr == nil {
			runErr = err
		}
	}
	return report, runErr
}

// authenticate resolves the token owner for display. A failure is only
// logged: installation tokens cannot read /user and still carry the
// permissions a sweep needs.
func authenticate(ctx context.Context, rt *sweepRuntime, client *ghclient.Client) {
	rt.sendEvent(tui.TaskAuth, tui.StatusRunning)
	user, err := client.AuthenticatedUser(ctx)
	if err != nil {
		log.Warn("could not resolve authenticated user", "error", err)
		rt.sendEvent(tui.TaskAuth, tui.StatusSkipped)
		return
	}
	log.Info("authenticated", "user", user)
	rt.sendEvent(tui.TaskAuth, tui.StatusComplete, tui.WithMessage(user))
}

// reportRateLimit surfaces an exhausted or low quota observed during the
// run, per API.
func reportRateLimit(rt *sweepRuntime, client *ghclient.Client) {
	for _, resource := range ghclient.Resources() {
		remaining, limit, resetAt, limited := client.RateLimitState(resource).Status()
		if limited {
			log.Warn("GitHub rate limit exhausted", "resource", resource, "resets_at", resetAt.Format(time.RFC3339))
			if rt.events != nil {
				tui.SendEvent(rt.events, tui.RateLimitEvent{Limited: true, ResetAt: resetAt})
			}
			continue
		}
		if limit > 0 && remaining < constants.RateLimitLowWatermark {
			log.Warn("GitHub rate limit running low", "resource", resource, "remaining", remaining, "limit", limit)
		}
	}
}

// exportMetrics writes run metrics when a target is configured. Failures
// are logged and never change the exit status.
func exportMetrics(ctx context.Context, cfg *config.Config, report *model.RunReport) {
	push, textfile := cfg.MetricsTargets()
	target := metrics.Config{PushgatewayURL: push, Textfile: textfile}
	if !target.Enabled() {
		return
	}
	rec := metrics.NewRecorder()
	rec.Record(report)
	if err := rec.Export(ctx, target, report); err != nil {
		log.Warn("failed to export metrics", "error", err)
	}
}

// loadConfig loads the config from path, or from the default locations when
// path is empty.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFrom(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

func tokenArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}
