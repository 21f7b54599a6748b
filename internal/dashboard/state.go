package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/tomek7667/sysdash/internal/domain"
)

type SortField string

const (
	SortName SortField = "name"
	SortCPU  SortField = "cpu"
	SortMem  SortField = "mem"
	SortPID  SortField = "pid"
)

// SortFields lists the values accepted in a data-sort attribute, in menu order.
var SortFields = []SortField{SortName, SortCPU, SortMem, SortPID}

func ParseSortField(s string) (SortField, error) {
	f := SortField(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortFields {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown sort field %q", s)
}

// State is everything the renderers need that outlives a single poll.
// It is owned by a Dashboard and only touched under its lock.
type State struct {
	SortField SortField
	Ascending bool
	// Location is used to print process start times. Nil means time.Local.
	Location *time.Location

	lastPerformance *domain.PerformanceSnapshot
	lastProcesses   []domain.ProcessEntry
}

func NewState(field SortField, ascending bool) *State {
	if field == "" {
		field = SortCPU
	}
	return &State{
		SortField: field,
		Ascending: ascending,
	}
}

// DirectionLabel is the text of the sort-toggle control.
func (s *State) DirectionLabel() string {
	if s.Ascending {
		return "▲ Ascending"
	}
	return "▼ Descending"
}

func (s *State) location() *time.Location {
	if s.Location == nil {
		return time.Local
	}
	return s.Location
}

// appliedProcesses returns the most recently applied process list in fetch
// order. Callers hold the Dashboard lock.
func (s *State) appliedProcesses() ([]domain.ProcessEntry, bool) {
	if s.lastProcesses == nil {
		return nil, false
	}
	return domain.CloneProcesses(s.lastProcesses), true
}

func (s *State) setPerformance(snap domain.PerformanceSnapshot) {
	c := snap.Clone()
	s.lastPerformance = &c
}

func (s *State) setProcesses(entries []domain.ProcessEntry) {
	if entries == nil {
		entries = []domain.ProcessEntry{}
	}
	s.lastProcesses = domain.CloneProcesses(entries)
}
