package core

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/logger"
)

// Connectivity reports whether the VPN is up. Implementations must fail
// closed.
type Connectivity interface {
	IsConnected(ctx context.Context) bool
}

// HistoryWriter appends one open-history row.
type HistoryWriter interface {
	InsertHistory(urlID, browserID int64, ts time.Time) error
}

// LauncherSource resolves the launcher for a browser profile.
type LauncherSource interface {
	For(b db.Browser) (Launcher, error)
}

// OpenRequest describes one batch run.
type OpenRequest struct {
	RunID    string
	Batch    SampledBatch
	Ordering OrderingMode
	Browser  db.Browser
	Pacing   Pacing
}

// ItemResult is the outcome of one batch item.
type ItemResult struct {
	Index   int       `json:"index"`
	Item    BatchItem `json:"item"`
	Outcome string    `json:"outcome"`
	Error   string    `json:"error,omitempty"`
	// HistoryError is set when the browser opened but the history row failed.
	HistoryError string    `json:"history_error,omitempty"`
	OpenedAt     time.Time `json:"opened_at"`
}

// RunReport summarizes a batch run, complete or partial.
type RunReport struct {
	RunID   string `json:"run_id"`
	Browser string `json:"browser"`
	Total   int    `json:"total"`
	// Attempted counts launches tried; VPN skips are not attempts.
	Attempted     int          `json:"attempted"`
	Succeeded     int          `json:"succeeded"`
	SkippedVPN    int          `json:"skipped_vpn"`
	LaunchFailed  int          `json:"launch_failed"`
	HistoryFailed int          `json:"history_failed"`
	Cancelled     bool         `json:"cancelled"`
	Items         []ItemResult `json:"items"`
	StartedAt     time.Time    `json:"started_at"`
	FinishedAt    time.Time    `json:"finished_at"`
}

// Summary renders the report as one line for the user.
func (r RunReport) Summary() string {
	s := fmt.Sprintf("Opened %d of %d URL(s): %d attempted, %d skipped (VPN disconnected), %d failed to launch",
		r.Succeeded, r.Total, r.Attempted, r.SkippedVPN, r.LaunchFailed)
	if r.HistoryFailed > 0 {
		s += fmt.Sprintf(", %d history write(s) failed", r.HistoryFailed)
	}
	if r.Cancelled {
		s += " (cancelled)"
	}
	return s
}

// EventKind names a progress event.
type EventKind string

const (
	EventItemStarted  EventKind = "item_started"
	EventItemFinished EventKind = "item_finished"
	EventRunFinished  EventKind = "run_finished"
)

// RunEvent is delivered to a ProgressFunc while a batch runs.
type RunEvent struct {
	Kind   EventKind   `json:"kind"`
	RunID  string      `json:"run_id"`
	Index  int         `json:"index"`
	Total  int         `json:"total"`
	Item   BatchItem   `json:"item"`
	Result *ItemResult `json:"result,omitempty"`
	Report *RunReport  `json:"report,omitempty"`
}

// ProgressFunc receives progress events synchronously from the run.
type ProgressFunc func(RunEvent)

// Opener walks a batch, opening each URL in a browser when the VPN is up and
// recording every successful open.
type Opener struct {
	vpn       Connectivity
	history   HistoryWriter
	launchers LauncherSource
	log       logger.Logger

	sleep Sleeper
	now   func() time.Time

	rngMu sync.Mutex
	rng   *rand.Rand
}

func NewOpener(vpn Connectivity, history HistoryWriter, launchers LauncherSource, log logger.Logger) *Opener {
	if log == nil {
		log = logger.Nop()
	}
	return &Opener{
		vpn:       vpn,
		history:   history,
		launchers: launchers,
		log:       log,
		sleep:     SleepContext,
		now:       time.Now,
		rng:       rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
	}
}

// prepare validates req and resolves its launcher. It has no side effects.
func (o *Opener) prepare(req OpenRequest) (Launcher, error) {
	if err := req.Pacing.Validate(); err != nil {
		return nil, err
	}
	if req.Browser.ID <= 0 {
		return nil, fmt.Errorf("%w: browser %q has no id", ErrInvalidInput, req.Browser.Name)
	}
	if len(req.Batch) == 0 {
		return nil, fmt.Errorf("%w: batch is empty", ErrInvalidInput)
	}
	seen := make(map[int64]struct{}, len(req.Batch))
	for _, it := range req.Batch {
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate url id %d in batch", ErrInvalidInput, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	launcher, err := o.launchers.For(req.Browser)
	if err != nil {
		return nil, err
	}
	return launcher, nil
}

// OpenBatch runs req to completion or until ctx is cancelled.
//
// Per-item failures (VPN down, launch failure, history write failure) are
// recorded in the report and never stop the batch. A cancelled run returns
// its partial report with Cancelled set and a nil error; an error is only
// returned when the run could not start.
func (o *Opener) OpenBatch(ctx context.Context, req OpenRequest, progress ProgressFunc) (RunReport, error) {
	launcher, err := o.prepare(req)
	if err != nil {
		return RunReport{}, err
	}
	return o.run(ctx, req, launcher, progress), nil
}

func (o *Opener) run(ctx context.Context, req OpenRequest, launcher Launcher, progress ProgressFunc) RunReport {
	if progress == nil {
		progress = func(RunEvent) {}
	}
	batch := ApplyOrdering(req.Batch, req.Ordering)
	log := o.log.With(logger.String("run_id", req.RunID), logger.String("browser", req.Browser.Name))

	report := RunReport{
		RunID:     req.RunID,
		Browser:   req.Browser.Name,
		Total:     len(batch),
		Items:     make([]ItemResult, 0, len(batch)),
		StartedAt: o.now(),
	}
	log.Info("batch run started",
		logger.Int("total", report.Total),
		logger.String("ordering", req.Ordering.String()))

	for i, item := range batch {
		if ctx.Err() != nil {
			report.Cancelled = true
			break
		}
		progress(RunEvent{Kind: EventItemStarted, RunID: req.RunID, Index: i, Total: report.Total, Item: item})

		res := o.openItem(ctx, log, req.Browser, launcher, i, item, &report)
		report.Items = append(report.Items, res)
		batchItemsTotal.WithLabelValues(res.Outcome).Inc()
		progress(RunEvent{Kind: EventItemFinished, RunID: req.RunID, Index: i, Total: report.Total, Item: item, Result: &res})

		// Only an attempted launch is followed by a pause, and never the last item.
		if res.Outcome == OutcomeVPNDisconnected || i == len(batch)-1 {
			continue
		}
		d := o.drawPause(req.Pacing)
		sleepSeconds.Observe(d.Seconds())
		log.Debug("pausing before next url", logger.Duration("pause", d))
		if err := o.sleep(ctx, d); err != nil {
			report.Cancelled = true
			break
		}
	}

	report.FinishedAt = o.now()
	status := RunStatusCompleted
	if report.Cancelled {
		status = RunStatusCancelled
	}
	batchRunsTotal.WithLabelValues(status).Inc()
	log.Info("batch run finished",
		logger.String("status", status),
		logger.Int("succeeded", report.Succeeded),
		logger.Int("skipped_vpn", report.SkippedVPN),
		logger.Int("launch_failed", report.LaunchFailed),
		logger.Int("history_failed", report.HistoryFailed))

	final := report
	progress(RunEvent{Kind: EventRunFinished, RunID: req.RunID, Index: len(report.Items), Total: report.Total, Report: &final})
	return report
}

func (o *Opener) openItem(ctx context.Context, log logger.Logger, browser db.Browser, launcher Launcher, i int, item BatchItem, report *RunReport) ItemResult {
	res := ItemResult{Index: i, Item: item}
	itemLog := log.With(logger.Int64("url_id", item.ID), logger.String("url", item.URL))

	if !o.vpn.IsConnected(ctx) {
		report.SkippedVPN++
		res.Outcome = OutcomeVPNDisconnected
		res.Error = ErrVPNDisconnected.Error()
		itemLog.Warn("vpn disconnected, skipping url")
		return res
	}

	report.Attempted++
	if err := launcher.Launch(ctx, item.URL); err != nil {
		if !errors.Is(err, ErrLaunchFailed) {
			err = fmt.Errorf("%w: %w", ErrLaunchFailed, err)
		}
		report.LaunchFailed++
		res.Outcome = OutcomeLaunchFailed
		res.Error = err.Error()
		itemLog.Error("failed to launch browser", logger.Error(err))
		return res
	}

	report.Succeeded++
	res.Outcome = OutcomeOpened
	res.OpenedAt = o.now()
	if err := o.history.InsertHistory(item.ID, browser.ID, res.OpenedAt); err != nil {
		report.HistoryFailed++
		historyWriteFailures.Inc()
		res.HistoryError = err.Error()
		itemLog.Error("failed to record open history", logger.Error(err))
	} else {
		itemLog.Info("opened url")
	}
	return res
}

func (o *Opener) drawPause(p Pacing) time.Duration {
	o.rngMu.Lock()
	defer o.rngMu.Unlock()
	return p.Draw(o.rng)
}
