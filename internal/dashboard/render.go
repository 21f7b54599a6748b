package dashboard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tomek7667/sysdash/internal/domain"
)

// Render target IDs. They match the element IDs of the web dashboard so every
// surface addresses the same fields.
const (
	ElemCPUChart  = "cpuChart"
	ElemMemChart  = "memChart"
	ElemDiskChart = "diskChart"

	ElemCPU        = "cpu"
	ElemCPUSidebar = "cpusidebar"
	ElemMem        = "mem"
	ElemMemSidebar = "memsidebar"
	ElemCPUAbs     = "cpuabs"
	ElemMemAbs     = "memabs"
	ElemDiskAbs    = "diskabs"
	ElemDiskVel    = "diskvel"
	ElemCPUModel   = "cpumodel"
	ElemDiskModel  = "diskmodel"

	ElemProcessList  = "process-list"
	ElemSortDropdown = "sortDropdown"
	ElemSortToggle   = "sort-toggle"
)

// textElements lists every scalar target written by RenderPerformance.
var textElements = []string{
	ElemCPU, ElemCPUSidebar, ElemMem, ElemMemSidebar,
	ElemCPUAbs, ElemMemAbs, ElemDiskAbs, ElemDiskVel,
	ElemCPUModel, ElemDiskModel,
}

// ChartSpec is the fixed setup of one line chart. Surfaces build their
// chart once from it and only swap the series afterwards.
type ChartSpec struct {
	ID     string
	Label  string
	Color  string
	Points int
	Min    float64
	Max    float64
}

var Charts = []ChartSpec{
	{ID: ElemCPUChart, Label: "CPU (%)", Color: "#00bcd4", Points: domain.HistorySize, Min: 0, Max: 100},
	{ID: ElemMemChart, Label: "Memory (%)", Color: "#ff9800", Points: domain.HistorySize, Min: 0, Max: 100},
	{ID: ElemDiskChart, Label: "Disk (%)", Color: "#4caf50", Points: domain.HistorySize, Min: 0, Max: 100},
}

// PerformanceView is the complete on-screen state derived from one snapshot.
type PerformanceView struct {
	Series map[string][]float64
	Text   map[string]string
}

// RenderPerformance is pure: the same snapshot always yields the same view.
func RenderPerformance(snap domain.PerformanceSnapshot) PerformanceView {
	cpu := lastSample(snap.CPUHistory)
	mem := lastSample(snap.MemHistory)

	v := PerformanceView{
		Series: map[string][]float64{
			ElemCPUChart:  append([]float64(nil), snap.CPUHistory...),
			ElemMemChart:  append([]float64(nil), snap.MemHistory...),
			ElemDiskChart: append([]float64(nil), snap.DiskHistory...),
		},
		Text: make(map[string]string, len(textElements)),
	}
	// Every target is written, so a surface can overwrite stale text blindly.
	for _, id := range textElements {
		v.Text[id] = ""
	}
	v.Text[ElemCPU], v.Text[ElemCPUSidebar] = cpu, cpu
	v.Text[ElemMem], v.Text[ElemMemSidebar] = mem, mem
	v.Text[ElemCPUModel] = snap.CPUModel
	v.Text[ElemDiskModel] = snap.DiskModel

	if snap.CPUFreq != 0 {
		v.Text[ElemCPUAbs] = fmt.Sprintf("(%.2f GHz)", snap.CPUFreq/1000)
	}
	if snap.MemUsedMB != 0 && snap.MemTotalMB != 0 {
		v.Text[ElemMemAbs] = fmt.Sprintf("(%.2f GB / %.2f GB)", snap.MemUsedMB/1024, snap.MemTotalMB/1024)
	}
	if snap.DiskUsedGB != 0 && snap.DiskTotalGB != 0 {
		v.Text[ElemDiskAbs] = fmt.Sprintf("(%.1f GB / %.1f GB)", snap.DiskUsedGB, snap.DiskTotalGB)
	}
	if nonZero(snap.DiskReadKBs) || nonZero(snap.DiskWriteKBs) {
		v.Text[ElemDiskVel] = fmt.Sprintf("[Read: %s KB/s | Write: %s KB/s]", rate(snap.DiskReadKBs), rate(snap.DiskWriteKBs))
	}
	return v
}

func lastSample(history []float64) string {
	if len(history) == 0 {
		return "0"
	}
	return strconv.FormatFloat(history[len(history)-1], 'f', 1, 64)
}

// rate prints a reported rate with one decimal, zero included; "0" stands
// in only for a rate the server did not send.
func rate(v *float64) string {
	if v == nil {
		return "0"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}

func nonZero(v *float64) bool { return v != nil && *v != 0 }

// ProcessItem is one rendered row of the process list.
type ProcessItem struct {
	Name    string
	PIDs    string
	CPU     string
	Memory  string
	Started string
	Path    string
}

// ProcessListView is the full list plus the sort controls' labels.
type ProcessListView struct {
	SortField SortField
	Ascending bool
	SortLabel string
	Items     []ProcessItem
}

// RenderProcesses sorts entries per st and formats every row. The returned
// Items slice is never nil.
func RenderProcesses(entries []domain.ProcessEntry, st *State) ProcessListView {
	sorted := SortProcesses(entries, st.SortField, st.Ascending)
	loc := st.location()

	items := make([]ProcessItem, 0, len(sorted))
	for _, p := range sorted {
		items = append(items, ProcessItem{
			Name:    p.Name,
			PIDs:    joinPIDs(p.Pid),
			CPU:     strconv.FormatFloat(p.Cpuusage, 'f', 2, 64),
			Memory:  strconv.FormatFloat(p.Memoryusage, 'f', 2, 64),
			Started: startedAt(p.Created, loc),
			Path:    p.Path,
		})
	}
	return ProcessListView{
		SortField: st.SortField,
		Ascending: st.Ascending,
		SortLabel: st.DirectionLabel(),
		Items:     items,
	}
}

// String is the single-line form used by text surfaces.
func (i ProcessItem) String() string {
	return fmt.Sprintf("%s  PID(s): %s  CPU: %s%%  Memory: %s%%  Started: %s  Path: %s",
		i.Name, i.PIDs, i.CPU, i.Memory, i.Started, i.Path)
}

func joinPIDs(pids []int) string {
	parts := make([]string, len(pids))
	for i, pid := range pids {
		parts[i] = strconv.Itoa(pid)
	}
	return strings.Join(parts, ", ")
}

func startedAt(ms int64, loc *time.Location) string {
	if ms <= 0 {
		return ""
	}
	return time.UnixMilli(ms).In(loc).Format("2006-01-02 15:04:05")
}
