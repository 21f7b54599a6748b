package domain

// HistorySize is the number of samples kept in every history array.
const HistorySize = 60

// PerformanceSnapshot is the payload of GET /api/performance.
// Histories are ordered oldest first. A zero numeric means "not reported".
type PerformanceSnapshot struct {
	CPUHistory   []float64 `json:"cpuHistory"`
	MemHistory   []float64 `json:"memHistory"`
	DiskHistory  []float64 `json:"diskHistory"`
	CPUFreq      float64   `json:"cpuFreq,omitempty"` // MHz
	MemUsedMB    float64   `json:"memUsedMB,omitempty"`
	MemTotalMB   float64   `json:"memTotalMB,omitempty"`
	DiskUsedGB   float64   `json:"diskUsedGB,omitempty"`
	DiskTotalGB  float64   `json:"diskTotalGB,omitempty"`
	DiskReadKBs  *float64  `json:"diskReadKBs,omitempty"` // nil when not reported
	DiskWriteKBs *float64  `json:"diskWriteKBs,omitempty"`
	CPUModel     string    `json:"cpuModel,omitempty"`
	DiskModel    string    `json:"diskModel,omitempty"`
	UpdatedAt    int64     `json:"updatedAt,omitempty"`
}

// Clone returns a deep copy so callers can hold on to it across samples.
func (s PerformanceSnapshot) Clone() PerformanceSnapshot {
	out := s
	out.CPUHistory = append([]float64(nil), s.CPUHistory...)
	out.MemHistory = append([]float64(nil), s.MemHistory...)
	out.DiskHistory = append([]float64(nil), s.DiskHistory...)
	out.DiskReadKBs = clonePtr(s.DiskReadKBs)
	out.DiskWriteKBs = clonePtr(s.DiskWriteKBs)
	return out
}

// Rate wraps a measured KB/s value for the optional rate fields.
func Rate(kbs float64) *float64 { return &kbs }

func clonePtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	return Rate(*v)
}

// ProcessEntry is one element of GET /api/processes. Processes sharing a
// name are reported as a single entry carrying all of their PIDs.
type ProcessEntry struct {
	Name        string  `json:"name"`
	Pid         []int   `json:"pid"`
	Cpuusage    float64 `json:"cpuusage"`
	Memoryusage float64 `json:"memoryusage"`
	Created     int64   `json:"created"` // ms since epoch
	Path        string  `json:"path"`
}

// CloneProcesses copies the slice and every PID list.
func CloneProcesses(src []ProcessEntry) []ProcessEntry {
	if src == nil {
		return nil
	}
	out := make([]ProcessEntry, len(src))
	for i, p := range src {
		out[i] = p
		out[i].Pid = append([]int(nil), p.Pid...)
	}
	return out
}
