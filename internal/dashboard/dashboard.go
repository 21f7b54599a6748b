package dashboard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/tomek7667/sysdash/internal/domain"
)

// Source fetches the two payloads the dashboard polls.
type Source interface {
	Performance(ctx context.Context) (domain.PerformanceSnapshot, error)
	Processes(ctx context.Context) ([]domain.ProcessEntry, error)
}

// Surface receives complete views. Implementations replace whatever they
// showed before; they never merge.
type Surface interface {
	ShowPerformance(v PerformanceView)
	ShowProcesses(v ProcessListView)
}

type Outcome int

const (
	OutcomeApplied Outcome = iota
	// OutcomeStale means a newer response was already on screen.
	OutcomeStale
	// OutcomeFailed covers network errors, bad status codes and bad JSON alike.
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeStale:
		return "stale"
	case OutcomeFailed:
		return "failed"
	}
	return "unknown"
}

// Result reports what one poll cycle did.
type Result struct {
	Poll    string
	Seq     uint64
	Outcome Outcome
	Err     error
}

func (r Result) OK() bool { return r.Outcome == OutcomeApplied }

type sequencer struct {
	issued  atomic.Uint64
	applied uint64 // guarded by Dashboard.mu
}

func (s *sequencer) next() uint64 { return s.issued.Add(1) }

// Dashboard ties a Source to a Surface. Both refresh methods are safe to call
// concurrently; rendering is serialised and responses older than the last
// applied one are dropped.
type Dashboard struct {
	source  Source
	surface Surface
	logger  *slog.Logger

	mu    sync.Mutex
	state *State

	perfSeq sequencer
	procSeq sequencer
}

func New(source Source, surface Surface, state *State, logger *slog.Logger) *Dashboard {
	if state == nil {
		state = NewState(SortCPU, false)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Dashboard{
		source:  source,
		surface: surface,
		logger:  logger,
		state:   state,
	}
}

// RefreshPerformance runs one fetch-and-render cycle for /api/performance.
func (d *Dashboard) RefreshPerformance(ctx context.Context) Result {
	seq := d.perfSeq.next()
	res := Result{Poll: "performance", Seq: seq}

	snap, err := d.source.Performance(ctx)
	if err != nil {
		d.logger.Error("dashboard: performance refresh failed", "seq", seq, "err", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq <= d.perfSeq.applied {
		d.logger.Debug("dashboard: dropping stale performance response", "seq", seq, "applied", d.perfSeq.applied)
		res.Outcome = OutcomeStale
		return res
	}
	d.perfSeq.applied = seq
	d.state.setPerformance(snap)
	d.surface.ShowPerformance(RenderPerformance(snap))
	res.Outcome = OutcomeApplied
	return res
}

// RefreshProcesses runs one fetch-and-render cycle for /api/processes.
func (d *Dashboard) RefreshProcesses(ctx context.Context) Result {
	seq := d.procSeq.next()
	res := Result{Poll: "processes", Seq: seq}

	entries, err := d.source.Processes(ctx)
	if err != nil {
		d.logger.Error("dashboard: process refresh failed", "seq", seq, "err", err)
		res.Outcome, res.Err = OutcomeFailed, err
		return res
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq <= d.procSeq.applied {
		d.logger.Debug("dashboard: dropping stale process response", "seq", seq, "applied", d.procSeq.applied)
		res.Outcome = OutcomeStale
		return res
	}
	d.procSeq.applied = seq
	d.state.setProcesses(entries)
	d.surface.ShowProcesses(RenderProcesses(entries, d.state))
	res.Outcome = OutcomeApplied
	return res
}

// SetSortField selects the sort column and re-renders the last list.
func (d *Dashboard) SetSortField(field SortField) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.SortField = field
	d.rerenderProcessesLocked()
}

// ToggleDirection flips ascending/descending and re-renders the last list.
func (d *Dashboard) ToggleDirection() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state.Ascending = !d.state.Ascending
	d.rerenderProcessesLocked()
}

// Sort returns the current sort field and direction.
func (d *Dashboard) Sort() (SortField, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.SortField, d.state.Ascending
}

func (d *Dashboard) rerenderProcessesLocked() {
	entries, ok := d.state.appliedProcesses()
	if !ok {
		return
	}
	d.surface.ShowProcesses(RenderProcesses(entries, d.state))
}
