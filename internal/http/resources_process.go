package http

import (
	"context"
	"math"
	"runtime"
	"sort"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"github.com/tomek7667/sysdash/internal/domain"
)

func (m *ResourceMonitor) sampleProcesses(now time.Time) ([]domain.ProcessEntry, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}

	elapsedSec := now.Sub(m.lastProcessSample).Seconds()
	newPrev := make(map[int32]float64, len(procs))

	cores := runtime.NumCPU()
	if cores <= 0 {
		cores = 1
	}

	samples := make([]procSample, 0, len(procs))
	for _, p := range procs {
		if p == nil {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil || name == "" {
			continue
		}

		s := procSample{PID: p.Pid, Name: name}

		if times, err := p.TimesWithContext(ctx); err == nil {
			busy := processCPUSeconds(times)
			newPrev[p.Pid] = busy
			if prev, ok := m.prevProcessTimes[p.Pid]; ok && !m.lastProcessSample.IsZero() {
				s.CPUPercent = processCPUPercent(busy-prev, elapsedSec, cores)
			}
		}
		if memPct, err := p.MemoryPercentWithContext(ctx); err == nil {
			s.MemPercent = float64(memPct)
		}
		if created, err := p.CreateTimeWithContext(ctx); err == nil {
			s.Created = created
		}
		if exe, err := p.ExeWithContext(ctx); err == nil {
			s.Path = exe
		}
		samples = append(samples, s)
	}

	m.prevProcessTimes = newPrev
	m.lastProcessSample = now

	return groupProcesses(samples), nil
}

// processCPUPercent normalises a busy-time delta to a share of the whole
// machine, clamped to 0..100.
func processCPUPercent(deltaSec, elapsedSec float64, cores int) float64 {
	if elapsedSec <= 0 || cores <= 0 || deltaSec <= 0 {
		return 0
	}
	pct := deltaSec / elapsedSec * 100 / float64(cores)
	return math.Min(pct, 100)
}

// groupProcesses folds samples sharing a name into one entry. PIDs are listed
// in ascending order; created and path come from the lowest PID, which is
// normally the parent. Entries are ordered by their lowest PID.
func groupProcesses(samples []procSample) []domain.ProcessEntry {
	sorted := append([]procSample(nil), samples...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].PID < sorted[j].PID })

	index := make(map[string]int)
	out := make([]domain.ProcessEntry, 0)
	for _, s := range sorted {
		i, ok := index[s.Name]
		if !ok {
			index[s.Name] = len(out)
			out = append(out, domain.ProcessEntry{
				Name:    s.Name,
				Created: s.Created,
				Path:    s.Path,
			})
			i = len(out) - 1
		}
		e := &out[i]
		e.Pid = append(e.Pid, int(s.PID))
		e.Cpuusage += s.CPUPercent
		e.Memoryusage += s.MemPercent
		if e.Path == "" {
			e.Path = s.Path
		}
	}

	for i := range out {
		out[i].Cpuusage = math.Min(out[i].Cpuusage, 100)
	}
	return out
}
