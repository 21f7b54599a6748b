package http

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
)

func (m *ResourceMonitor) sampleCPUPercent() (float64, error) {
	times, err := cpu.Times(false)
	if err != nil {
		return 0, err
	}
	if len(times) == 0 {
		return 0, nil
	}

	t := times[0]
	total := cpuTimesTotal(t)
	idle := t.Idle + t.Iowait

	if !m.havePrevCPU {
		m.prevTotal = total
		m.prevIdle = idle
		m.havePrevCPU = true
		return 0, nil
	}

	usage := cpuUsage(total-m.prevTotal, idle-m.prevIdle)
	m.prevTotal = total
	m.prevIdle = idle
	return usage, nil
}

// cpuUsage turns counter deltas into a 0..100 busy percentage.
func cpuUsage(totalDelta, idleDelta float64) float64 {
	if totalDelta <= 0 {
		return 0
	}
	usage := (totalDelta - idleDelta) / totalDelta * 100
	if usage < 0 {
		return 0
	}
	if usage > 100 {
		return 100
	}
	return usage
}

func sampleCPUModel() (string, error) {
	info, err := cpu.Info()
	if err != nil {
		return "", err
	}
	if len(info) == 0 {
		return "", nil
	}
	return strings.TrimSpace(info[0].ModelName), nil
}

// sampleCPUMHz reports the current clock averaged over all CPUs.
func sampleCPUMHz() (float64, error) {
	if runtime.GOOS == "linux" {
		if mhz, err := linuxCurrentMHz(); err == nil {
			return mhz, nil
		}
	}

	info, err := cpu.Info()
	if err != nil {
		return 0, err
	}
	var sumMHz float64
	var n int
	for _, i := range info {
		if i.Mhz <= 0 {
			continue
		}
		sumMHz += i.Mhz
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return sumMHz / float64(n), nil
}

// linuxCurrentMHz averages the per-core cpufreq readings, which track turbo
// and power saving unlike the nominal clock in /proc/cpuinfo.
func linuxCurrentMHz() (float64, error) {
	dirs, err := filepath.Glob("/sys/devices/system/cpu/cpu[0-9]*/cpufreq")
	if err != nil {
		return 0, err
	}

	var sumKHz, n int64
	for _, dir := range dirs {
		for _, name := range []string{"scaling_cur_freq", "cpuinfo_cur_freq"} {
			khz, err := readIntFromFile(filepath.Join(dir, name))
			if err == nil && khz > 0 {
				sumKHz += khz
				n++
				break
			}
		}
	}
	if n == 0 {
		return 0, fmt.Errorf("no cpufreq data under /sys/devices/system/cpu")
	}
	return float64(sumKHz) / float64(n) / 1000, nil
}

func cpuTimesTotal(t cpu.TimesStat) float64 {
	return t.User + t.System + t.Idle + t.Nice + t.Iowait + t.Irq + t.Softirq + t.Steal + t.Guest + t.GuestNice
}

// processCPUSeconds is the busy time of a single process.
func processCPUSeconds(t *cpu.TimesStat) float64 {
	if t == nil {
		return 0
	}
	return t.User + t.System
}

func readIntFromFile(path string) (int64, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, fmt.Errorf("empty")
	}
	return strconv.ParseInt(s, 10, 64)
}
