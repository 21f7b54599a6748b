package dashboard

import (
	"testing"

	"github.com/tomek7667/sysdash/internal/domain"
)

func names(entries []domain.ProcessEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Name
	}
	return out
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSortProcesses(t *testing.T) {
	fetched := []domain.ProcessEntry{
		{Name: "b", Cpuusage: 5, Memoryusage: 1, Pid: []int{1}},
		{Name: "a", Cpuusage: 9, Memoryusage: 2, Pid: []int{2, 3}},
	}

	tests := []struct {
		field     SortField
		ascending bool
		want      []string
	}{
		{SortName, true, []string{"a", "b"}},
		{SortName, false, []string{"b", "a"}},
		{SortCPU, true, []string{"b", "a"}},
		{SortCPU, false, []string{"a", "b"}},
		{SortMem, true, []string{"b", "a"}},
		{SortMem, false, []string{"a", "b"}},
		{SortPID, true, []string{"b", "a"}},
		{SortPID, false, []string{"a", "b"}},
	}
	for _, tt := range tests {
		got := names(SortProcesses(fetched, tt.field, tt.ascending))
		if !equalNames(got, tt.want) {
			t.Errorf("%s asc=%v: got %v, want %v", tt.field, tt.ascending, got, tt.want)
		}
	}
	if !equalNames(names(fetched), []string{"b", "a"}) {
		t.Errorf("input was reordered: %v", names(fetched))
	}
}

func TestSortProcesses_NameIsCaseInsensitive(t *testing.T) {
	in := []domain.ProcessEntry{{Name: "Zsh"}, {Name: "bash"}, {Name: "Apache"}}
	got := names(SortProcesses(in, SortName, true))
	want := []string{"Apache", "bash", "Zsh"}
	if !equalNames(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestSortProcesses_TiesKeepFetchOrder(t *testing.T) {
	in := []domain.ProcessEntry{
		{Name: "first", Cpuusage: 1, Pid: []int{1, 2}},
		{Name: "second", Cpuusage: 1, Pid: []int{3, 4}},
		{Name: "third", Cpuusage: 1, Pid: []int{5, 6}},
	}
	for _, asc := range []bool{true, false} {
		for _, f := range []SortField{SortCPU, SortPID} {
			got := names(SortProcesses(in, f, asc))
			if !equalNames(got, []string{"first", "second", "third"}) {
				t.Errorf("%s asc=%v: got %v", f, asc, got)
			}
		}
	}
}

func TestSortProcesses_PIDCountNotValue(t *testing.T) {
	in := []domain.ProcessEntry{
		{Name: "low-pid-many", Pid: []int{1, 2, 3}},
		{Name: "high-pid-one", Pid: []int{99999}},
	}
	got := names(SortProcesses(in, SortPID, true))
	if !equalNames(got, []string{"high-pid-one", "low-pid-many"}) {
		t.Errorf("got %v", got)
	}
}

func TestParseSortField(t *testing.T) {
	for _, s := range []string{"name", "CPU", " mem ", "pid"} {
		if _, err := ParseSortField(s); err != nil {
			t.Errorf("ParseSortField(%q) error = %v", s, err)
		}
	}
	if _, err := ParseSortField("user"); err == nil {
		t.Error("ParseSortField(\"user\") should fail")
	}
}
