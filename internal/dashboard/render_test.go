package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomek7667/sysdash/internal/domain"
)

func TestRenderPerformance_Scenario(t *testing.T) {
	snap := domain.PerformanceSnapshot{
		CPUHistory:  []float64{10, 20, 30},
		MemHistory:  []float64{40, 50, 60},
		DiskHistory: []float64{1, 2, 3},
		CPUFreq:     2400,
		MemUsedMB:   4096,
		MemTotalMB:  8192,
	}
	v := RenderPerformance(snap)

	want := map[string]string{
		ElemCPU:        "30.0",
		ElemCPUSidebar: "30.0",
		ElemMem:        "60.0",
		ElemMemSidebar: "60.0",
		ElemCPUAbs:     "(2.40 GHz)",
		ElemMemAbs:     "(4.00 GB / 8.00 GB)",
		ElemDiskAbs:    "",
		ElemDiskVel:    "",
		ElemCPUModel:   "",
		ElemDiskModel:  "",
	}
	for id, w := range want {
		if got := v.Text[id]; got != w {
			t.Errorf("%s: got %q, want %q", id, got, w)
		}
	}
	if !reflect.DeepEqual(v.Series[ElemCPUChart], []float64{10, 20, 30}) {
		t.Errorf("cpuChart series: got %v", v.Series[ElemCPUChart])
	}
	if !reflect.DeepEqual(v.Series[ElemDiskChart], []float64{1, 2, 3}) {
		t.Errorf("diskChart series: got %v", v.Series[ElemDiskChart])
	}
}

func TestRenderPerformance_DiskFields(t *testing.T) {
	v := RenderPerformance(domain.PerformanceSnapshot{
		CPUHistory:   []float64{1.25},
		DiskUsedGB:   120.44,
		DiskTotalGB:  476.9,
		DiskReadKBs:  domain.Rate(12.34),
		DiskWriteKBs: domain.Rate(0),
		DiskModel:    "Samsung SSD 970",
	})
	if got := v.Text[ElemDiskAbs]; got != "(120.4 GB / 476.9 GB)" {
		t.Errorf("diskabs: got %q", got)
	}
	if got := v.Text[ElemDiskVel]; got != "[Read: 12.3 KB/s | Write: 0.0 KB/s]" {
		t.Errorf("diskvel: got %q", got)
	}
	if got := v.Text[ElemDiskModel]; got != "Samsung SSD 970" {
		t.Errorf("diskmodel: got %q", got)
	}
}

func TestRenderPerformance_DiskRatePresence(t *testing.T) {
	tests := []struct {
		name        string
		read, write *float64
		want        string
	}{
		{"both absent", nil, nil, ""},
		{"both reported zero", domain.Rate(0), domain.Rate(0), ""},
		{"write absent", domain.Rate(5), nil, "[Read: 5.0 KB/s | Write: 0 KB/s]"},
		{"read reported zero", domain.Rate(0), domain.Rate(2.26), "[Read: 0.0 KB/s | Write: 2.3 KB/s]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := RenderPerformance(domain.PerformanceSnapshot{DiskReadKBs: tt.read, DiskWriteKBs: tt.write})
			if got := v.Text[ElemDiskVel]; got != tt.want {
				t.Errorf("diskvel = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRenderPerformance_MissingOptionalFields(t *testing.T) {
	v := RenderPerformance(domain.PerformanceSnapshot{
		CPUHistory:  make([]float64, domain.HistorySize),
		MemHistory:  make([]float64, domain.HistorySize),
		DiskHistory: make([]float64, domain.HistorySize),
	})
	for _, id := range []string{ElemCPUAbs, ElemMemAbs, ElemDiskAbs, ElemDiskVel} {
		if v.Text[id] != "" {
			t.Errorf("%s: got %q, want empty", id, v.Text[id])
		}
	}
	if v.Text[ElemCPU] != "0.0" {
		t.Errorf("cpu: got %q, want 0.0", v.Text[ElemCPU])
	}
	if len(v.Series[ElemMemChart]) != domain.HistorySize {
		t.Errorf("memChart: got %d points", len(v.Series[ElemMemChart]))
	}
}

func TestRenderPerformance_EmptyHistory(t *testing.T) {
	v := RenderPerformance(domain.PerformanceSnapshot{})
	if v.Text[ElemCPU] != "0" || v.Text[ElemMem] != "0" {
		t.Errorf("empty history: cpu=%q mem=%q, want \"0\"", v.Text[ElemCPU], v.Text[ElemMem])
	}
	for _, id := range textElements {
		if _, ok := v.Text[id]; !ok {
			t.Errorf("missing text element %s", id)
		}
	}
}

func TestRenderPerformance_MemAbsNeedsBoth(t *testing.T) {
	v := RenderPerformance(domain.PerformanceSnapshot{MemUsedMB: 2048})
	if v.Text[ElemMemAbs] != "" {
		t.Errorf("memabs with only used: got %q", v.Text[ElemMemAbs])
	}
}

func TestRenderPerformance_Idempotent(t *testing.T) {
	snap := domain.PerformanceSnapshot{
		CPUHistory: []float64{5, 6},
		MemHistory: []float64{7, 8},
		CPUFreq:    3100,
	}
	a := RenderPerformance(snap)
	b := RenderPerformance(snap)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("renders differ:\n%+v\n%+v", a, b)
	}
}

func TestRenderPerformance_SeriesIsCopy(t *testing.T) {
	snap := domain.PerformanceSnapshot{CPUHistory: []float64{1, 2}}
	v := RenderPerformance(snap)
	snap.CPUHistory[1] = 99
	if v.Series[ElemCPUChart][1] != 2 {
		t.Fatalf("view aliases snapshot history")
	}
}

func TestRenderProcesses_Formatting(t *testing.T) {
	st := NewState(SortName, true)
	st.Location = time.UTC
	created := time.Date(2024, 3, 5, 14, 7, 9, 0, time.UTC).UnixMilli()

	v := RenderProcesses([]domain.ProcessEntry{{
		Name:        "postgres",
		Pid:         []int{101, 102, 103},
		Cpuusage:    3.14159,
		Memoryusage: 0.5,
		Created:     created,
		Path:        "/usr/lib/postgresql/16/bin/postgres",
	}}, st)

	if len(v.Items) != 1 {
		t.Fatalf("items: got %d, want 1", len(v.Items))
	}
	want := ProcessItem{
		Name:    "postgres",
		PIDs:    "101, 102, 103",
		CPU:     "3.14",
		Memory:  "0.50",
		Started: "2024-03-05 14:07:09",
		Path:    "/usr/lib/postgresql/16/bin/postgres",
	}
	if v.Items[0] != want {
		t.Errorf("item:\n got %+v\nwant %+v", v.Items[0], want)
	}
	if v.SortLabel != "▲ Ascending" {
		t.Errorf("sort label: got %q", v.SortLabel)
	}
}

func TestRenderProcesses_Empty(t *testing.T) {
	v := RenderProcesses(nil, NewState(SortCPU, false))
	if v.Items == nil {
		t.Fatal("items should be an empty slice, not nil")
	}
	if len(v.Items) != 0 {
		t.Fatalf("items: got %d, want 0", len(v.Items))
	}
}

func TestRenderProcesses_UnknownStartTime(t *testing.T) {
	v := RenderProcesses([]domain.ProcessEntry{{Name: "x", Pid: []int{1}}}, NewState(SortName, true))
	if v.Items[0].Started != "" {
		t.Errorf("started: got %q, want empty", v.Items[0].Started)
	}
}

func TestCharts_FixedSetup(t *testing.T) {
	if len(Charts) != 3 {
		t.Fatalf("charts: got %d, want 3", len(Charts))
	}
	seen := map[string]bool{}
	for _, c := range Charts {
		if c.Points != 60 || c.Min != 0 || c.Max != 100 {
			t.Errorf("%s: points=%d range=[%v,%v]", c.ID, c.Points, c.Min, c.Max)
		}
		if seen[c.Color] {
			t.Errorf("%s: colour %s reused", c.ID, c.Color)
		}
		seen[c.Color] = true
	}
}
