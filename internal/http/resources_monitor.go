package http

import (
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/tomek7667/sysdash/internal/domain"
)

const (
	hardwareMetaTTL    = 30 * time.Second
	cpuStaticTTL       = 1 * time.Minute
	cpuDynamicTTLLinux = 2 * time.Second
	cpuDynamicTTLOther = 5 * time.Second
)

type ResourceMonitor struct {
	mu        sync.RWMutex
	perf      domain.PerformanceSnapshot
	processes []domain.ProcessEntry

	diskPath        string
	sampleInterval  time.Duration
	processInterval time.Duration

	// Fields below are only touched by the performance sampling goroutine.

	// CPU percent is derived from deltas between successive samples.
	prevTotal   float64
	prevIdle    float64
	havePrevCPU bool

	cpuModel           string
	cpuStaticUpdatedAt time.Time

	cpuMHz              float64
	cpuDynamicUpdatedAt time.Time

	diskMeta          map[string]diskMeta
	diskMetaUpdatedAt time.Time
	ioDevice          string
	ioDeviceUpdatedAt time.Time
	prevIO            ioSample

	history history

	// Last good readings, served again when a sample fails.
	lastCPU  float64
	lastMem  memorySample
	lastDisk diskSample

	// Fields below are only touched by the process sampling goroutine.
	prevProcessTimes  map[int32]float64
	lastProcessSample time.Time

	errMu    sync.Mutex
	lastErrs map[string]string
}

func NewResourceMonitor(diskPath string, sampleInterval, processInterval time.Duration) *ResourceMonitor {
	if sampleInterval <= 0 {
		sampleInterval = time.Second
	}
	if processInterval <= 0 {
		processInterval = 2 * time.Second
	}
	m := &ResourceMonitor{
		diskPath:        diskPath,
		sampleInterval:  sampleInterval,
		processInterval: processInterval,
		history:         newHistory(domain.HistorySize),
		processes:       []domain.ProcessEntry{},
		lastErrs:        make(map[string]string),
	}
	m.perf = m.history.snapshot()
	return m
}

// Start samples once synchronously, then keeps sampling in the background
// until stop is closed. Performance and processes tick independently so a
// slow process walk never delays the 1 Hz history.
func (m *ResourceMonitor) Start(stop <-chan struct{}) {
	m.update()
	m.updateProcesses()

	go m.loop(stop, m.sampleInterval, m.update)
	go m.loop(stop, m.processInterval, m.updateProcesses)
}

func (m *ResourceMonitor) loop(stop <-chan struct{}, every time.Duration, fn func()) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			fn()
		}
	}
}

// Performance returns a copy of the latest performance snapshot.
func (m *ResourceMonitor) Performance() domain.PerformanceSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.perf.Clone()
}

// Processes returns a copy of the latest process table. It is never nil.
func (m *ResourceMonitor) Processes() []domain.ProcessEntry {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := domain.CloneProcesses(m.processes)
	if out == nil {
		out = []domain.ProcessEntry{}
	}
	return out
}

func (m *ResourceMonitor) update() {
	now := time.Now()

	cpuPercent, err := m.sampleCPUPercent()
	m.report("cpu", err)
	if err != nil {
		cpuPercent = m.lastCPU
	}
	m.lastCPU = cpuPercent

	if m.cpuStaticUpdatedAt.IsZero() || now.Sub(m.cpuStaticUpdatedAt) >= cpuStaticTTL {
		model, err := sampleCPUModel()
		m.report("cpu info", err)
		if err == nil {
			m.cpuModel = model
		}
		m.cpuStaticUpdatedAt = now
	}

	cpuDynTTL := cpuDynamicTTLOther
	if runtime.GOOS == "linux" {
		cpuDynTTL = cpuDynamicTTLLinux
	}
	if m.cpuDynamicUpdatedAt.IsZero() || now.Sub(m.cpuDynamicUpdatedAt) >= cpuDynTTL {
		mhz, err := sampleCPUMHz()
		m.report("cpu freq", err)
		if err == nil {
			m.cpuMHz = mhz
		}
		m.cpuDynamicUpdatedAt = now
	}

	memStats, err := sampleMemory()
	m.report("memory", err)
	if err != nil {
		memStats = m.lastMem
	}
	m.lastMem = memStats

	diskStats, err := m.sampleDisk(now)
	m.report("disk", err)
	if err != nil {
		diskStats = m.lastDisk
	}
	m.lastDisk = diskStats

	m.history.push(cpuPercent, memStats.UsedPercent, diskStats.UsedPercent)

	snap := m.history.snapshot()
	snap.UpdatedAt = now.UnixMilli()
	snap.CPUFreq = m.cpuMHz
	snap.CPUModel = m.cpuModel
	snap.MemUsedMB = memStats.UsedMB
	snap.MemTotalMB = memStats.TotalMB
	snap.DiskUsedGB = diskStats.UsedGB
	snap.DiskTotalGB = diskStats.TotalGB
	snap.DiskReadKBs = domain.Rate(diskStats.ReadKBs)
	snap.DiskWriteKBs = domain.Rate(diskStats.WriteKBs)
	snap.DiskModel = diskStats.Model

	m.mu.Lock()
	m.perf = snap
	m.mu.Unlock()
}

func (m *ResourceMonitor) updateProcesses() {
	entries, err := m.sampleProcesses(time.Now())
	m.report("processes", err)
	if err != nil {
		return
	}
	m.mu.Lock()
	m.processes = entries
	m.mu.Unlock()
}

// report logs sampling errors once per distinct message so a persistent
// failure does not flood the log every second.
func (m *ResourceMonitor) report(what string, err error) {
	m.errMu.Lock()
	defer m.errMu.Unlock()
	if err == nil {
		if _, ok := m.lastErrs[what]; ok {
			slog.Info("monitor: sampling recovered", "what", what)
			delete(m.lastErrs, what)
		}
		return
	}
	msg := err.Error()
	if m.lastErrs[what] == msg {
		return
	}
	m.lastErrs[what] = msg
	slog.Warn("monitor: sampling failed", "what", what, "err", err)
}
