package dashboard

import (
	"cmp"
	"slices"
	"strings"

	"github.com/tomek7667/sysdash/internal/domain"
)

// compareEntries is a strict three-way compare on a single field.
// pid compares the number of PIDs grouped under the name, not PID values.
func compareEntries(field SortField, a, b domain.ProcessEntry) int {
	switch field {
	case SortName:
		return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	case SortCPU:
		return cmp.Compare(a.Cpuusage, b.Cpuusage)
	case SortMem:
		return cmp.Compare(a.Memoryusage, b.Memoryusage)
	case SortPID:
		return cmp.Compare(len(a.Pid), len(b.Pid))
	}
	return 0
}

// SortProcesses returns a sorted copy of entries. Ties keep fetch order in
// both directions.
func SortProcesses(entries []domain.ProcessEntry, field SortField, ascending bool) []domain.ProcessEntry {
	out := slices.Clone(entries)
	slices.SortStableFunc(out, func(a, b domain.ProcessEntry) int {
		c := compareEntries(field, a, b)
		if !ascending {
			return -c
		}
		return c
	})
	return out
}
