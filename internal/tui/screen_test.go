package tui

import (
	"context"
	"strings"
	"testing"

	"github.com/tomek7667/sysdash/internal/dashboard"
	"github.com/tomek7667/sysdash/internal/domain"
)

type staticSource struct {
	perf  domain.PerformanceSnapshot
	procs []domain.ProcessEntry
}

func (s staticSource) Performance(context.Context) (domain.PerformanceSnapshot, error) {
	return s.perf, nil
}

func (s staticSource) Processes(context.Context) ([]domain.ProcessEntry, error) {
	return s.procs, nil
}

func TestShowPerformanceUpdatesWidgets(t *testing.T) {
	s := NewScreen()
	s.ShowPerformance(dashboard.RenderPerformance(domain.PerformanceSnapshot{
		CPUHistory: []float64{10, 20, 35.2},
		MemHistory: []float64{52.5},
		CPUFreq:    2400,
		CPUModel:   "Test CPU",
	}))

	cpu := s.plots[dashboard.ElemCPUChart]
	if got := cpu.Data[0]; len(got) != 3 || got[2] != 35.2 {
		t.Errorf("cpu plot data = %v", got)
	}
	if !strings.Contains(cpu.Title, "35.2%") {
		t.Errorf("cpu plot title = %q", cpu.Title)
	}
	if got := s.plots[dashboard.ElemMemChart].Data[0]; len(got) != 2 || got[1] != 52.5 {
		t.Errorf("mem plot data = %v, want padded to two points", got)
	}
	if got := s.plots[dashboard.ElemDiskChart].Data[0]; len(got) != 2 {
		t.Errorf("disk plot data = %v, want two zero points", got)
	}

	for _, want := range []string{"CPU  35.2%", "(2.40 GHz)", "Test CPU", "Memory  52.5%"} {
		if !strings.Contains(s.readout.Text, want) {
			t.Errorf("readout %q missing %q", s.readout.Text, want)
		}
	}
	if strings.Contains(s.readout.Text, "Read:") {
		t.Errorf("readout shows disk rates without data: %q", s.readout.Text)
	}

	select {
	case <-s.redraw:
	default:
		t.Error("no redraw requested")
	}
}

func TestKeysSortAndScroll(t *testing.T) {
	s := NewScreen()
	src := staticSource{procs: []domain.ProcessEntry{
		{Name: "bravo", Pid: []int{2}, Cpuusage: 90},
		{Name: "alpha", Pid: []int{1, 3, 4}, Cpuusage: 10},
		{Name: "charlie", Pid: []int{5, 6}, Cpuusage: 50},
	}}
	d := dashboard.New(src, s, dashboard.NewState(dashboard.SortCPU, false), nil)
	if res := d.RefreshProcesses(context.Background()); !res.OK() {
		t.Fatalf("refresh: %v", res.Err)
	}
	if !strings.HasPrefix(s.list.Rows[0], "bravo") {
		t.Fatalf("initial first row = %q", s.list.Rows[0])
	}

	s.handleKey("n", d)
	if !strings.HasPrefix(s.list.Rows[0], "charlie") {
		t.Errorf("after n first row = %q, want charlie (name descending)", s.list.Rows[0])
	}

	s.handleKey("s", d)
	if !strings.HasPrefix(s.list.Rows[0], "alpha") {
		t.Errorf("after s first row = %q, want alpha", s.list.Rows[0])
	}
	if !strings.Contains(s.list.Title, "▲ Ascending") {
		t.Errorf("title = %q", s.list.Title)
	}

	s.handleKey("p", d)
	if !strings.HasPrefix(s.list.Rows[0], "bravo") {
		t.Errorf("after p first row = %q, want fewest pids first", s.list.Rows[0])
	}

	s.handleKey("j", d)
	s.handleKey("j", d)
	if s.list.SelectedRow != 2 {
		t.Errorf("SelectedRow = %d, want 2", s.list.SelectedRow)
	}
	s.handleKey("g", d)
	if s.list.SelectedRow != 0 {
		t.Errorf("SelectedRow after g = %d", s.list.SelectedRow)
	}

	if !s.handleKey("q", d) {
		t.Error("q did not quit")
	}
	if s.handleKey("x", d) {
		t.Error("unbound key quit")
	}
}

func TestShowProcessesClampsSelection(t *testing.T) {
	s := NewScreen()
	st := dashboard.NewState(dashboard.SortName, true)
	s.ShowProcesses(dashboard.RenderProcesses([]domain.ProcessEntry{
		{Name: "a", Pid: []int{1}}, {Name: "b", Pid: []int{2}}, {Name: "c", Pid: []int{3}},
	}, st))
	s.list.SelectedRow = 2

	s.ShowProcesses(dashboard.RenderProcesses([]domain.ProcessEntry{{Name: "a", Pid: []int{1}}}, st))
	if s.list.SelectedRow != 0 {
		t.Errorf("SelectedRow = %d, want 0", s.list.SelectedRow)
	}

	s.ShowProcesses(dashboard.RenderProcesses(nil, st))
	if len(s.list.Rows) != 0 || s.list.SelectedRow != 0 {
		t.Errorf("rows = %v selected = %d", s.list.Rows, s.list.SelectedRow)
	}
}
