package core

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/seckatie/urlrota/internal/logger"
)

// RunSnapshot is the observable state of the active or last finished run.
type RunSnapshot struct {
	RunID   string     `json:"run_id"`
	Running bool       `json:"running"`
	Index   int        `json:"index"`
	Total   int        `json:"total"`
	Last    *RunEvent  `json:"last,omitempty"`
	Report  *RunReport `json:"report,omitempty"`
}

// Run is a batch started by a RunManager.
type Run struct {
	ID string

	cancel context.CancelFunc
	done   chan struct{}
	report RunReport
}

// Wait blocks until the run has finished and returns its report.
func (r *Run) Wait() RunReport {
	<-r.done
	return r.report
}

// Done is closed when the run finishes.
func (r *Run) Done() <-chan struct{} { return r.done }

// RunManager runs at most one batch at a time in the background.
type RunManager struct {
	opener *Opener
	log    logger.Logger

	mu       sync.Mutex
	active   *Run
	snapshot *RunSnapshot
}

func NewRunManager(opener *Opener, log logger.Logger) *RunManager {
	if log == nil {
		log = logger.Nop()
	}
	return &RunManager{opener: opener, log: log}
}

// Start validates req and runs it in a new goroutine. It returns ErrRunActive
// while another run is in progress. Subscribers receive every progress event
// after the manager's snapshot has been updated.
//
// The run stops when ctx is cancelled or Cancel is called.
func (m *RunManager) Start(ctx context.Context, req OpenRequest, subscribers ...ProgressFunc) (*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.active != nil {
		return nil, ErrRunActive
	}
	launcher, err := m.opener.prepare(req)
	if err != nil {
		return nil, err
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	runCtx, cancel := context.WithCancel(ctx)
	run := &Run{ID: req.RunID, cancel: cancel, done: make(chan struct{})}
	m.active = run
	m.snapshot = &RunSnapshot{RunID: run.ID, Running: true, Total: len(req.Batch)}

	progress := func(ev RunEvent) {
		m.mu.Lock()
		if m.snapshot != nil && m.snapshot.RunID == ev.RunID {
			m.snapshot.Index = ev.Index
			last := ev
			m.snapshot.Last = &last
		}
		m.mu.Unlock()
		for _, sub := range subscribers {
			sub(ev)
		}
	}

	go func() {
		defer cancel()
		report := m.opener.run(runCtx, req, launcher, progress)

		m.mu.Lock()
		run.report = report
		m.active = nil
		m.snapshot.Running = false
		m.snapshot.Report = &report
		m.mu.Unlock()
		close(run.done)
	}()

	m.log.Info("batch run scheduled", logger.String("run_id", run.ID), logger.Int("total", len(req.Batch)))
	return run, nil
}

// Cancel stops the active run. It reports whether a run was active.
func (m *RunManager) Cancel() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.active == nil {
		return false
	}
	m.active.cancel()
	m.log.Info("batch run cancel requested", logger.String("run_id", m.active.ID))
	return true
}

// Stop cancels the active run, if any, and waits for it to finish writing
// its history. It returns ctx.Err() when ctx ends first.
func (m *RunManager) Stop(ctx context.Context) error {
	m.mu.Lock()
	run := m.active
	m.mu.Unlock()
	if run == nil {
		return nil
	}

	run.cancel()
	select {
	case <-run.done:
		m.log.Info("batch run stopped", logger.String("run_id", run.ID))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Current returns a copy of the active or last run's state; ok is false when
// nothing has run yet.
func (m *RunManager) Current() (snap RunSnapshot, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.snapshot == nil {
		return RunSnapshot{}, false
	}
	return *m.snapshot, true
}
