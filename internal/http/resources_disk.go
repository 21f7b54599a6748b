package http

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/jaypipes/ghw"
	"github.com/shirou/gopsutil/v3/disk"
)

type diskSample struct {
	UsedPercent float64
	UsedGB      float64
	TotalGB     float64
	ReadKBs     float64
	WriteKBs    float64
	Model       string
}

type ioSample struct {
	readBytes  uint64
	writeBytes uint64
	at         time.Time
	ok         bool
}

func (m *ResourceMonitor) getDiskMeta() (map[string]diskMeta, error) {
	if m.diskMeta != nil && time.Since(m.diskMetaUpdatedAt) < hardwareMetaTTL {
		return m.diskMeta, nil
	}

	info, err := ghw.Block()
	if err != nil {
		return m.diskMeta, err
	}

	meta := make(map[string]diskMeta)
	for _, d := range info.Disks {
		model := normalizeSpaces(strings.TrimSpace(d.Vendor + " " + d.Model))
		driveType := diskTypeLabel(d.DriveType.String(), d.StorageController.String())
		for _, p := range d.Partitions {
			if p == nil || p.MountPoint == "" {
				continue
			}
			meta[p.MountPoint] = diskMeta{
				DriveType: driveType,
				Model:     model,
			}
		}
	}

	m.diskMeta = meta
	m.diskMetaUpdatedAt = time.Now()
	return meta, nil
}

// sampleDisk reports usage of the configured mount point and the I/O rate of
// the device behind it. Metadata failures are not fatal.
func (m *ResourceMonitor) sampleDisk(now time.Time) (diskSample, error) {
	var out diskSample

	usage, err := disk.Usage(m.diskPath)
	if err != nil {
		return out, fmt.Errorf("usage of %s: %w", m.diskPath, err)
	}
	if usage != nil {
		out.UsedGB = bytesToGB(usage.Used)
		out.TotalGB = bytesToGB(usage.Total)
		out.UsedPercent = diskPercent(usage.Used, usage.Total)
	}

	if meta, err := m.getDiskMeta(); err == nil {
		if dm, ok := meta[m.diskPath]; ok {
			out.Model = normalizeSpaces(dm.DriveType + " " + dm.Model)
		}
	}

	// Usage is still fresh when only the counters fail.
	readKBs, writeKBs, err := m.sampleDiskIO(now)
	m.report("disk io", err)
	if err != nil {
		readKBs, writeKBs = m.lastDisk.ReadKBs, m.lastDisk.WriteKBs
	}
	out.ReadKBs = readKBs
	out.WriteKBs = writeKBs
	return out, nil
}

func diskPercent(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}

func (m *ResourceMonitor) sampleDiskIO(now time.Time) (float64, float64, error) {
	if m.ioDeviceUpdatedAt.IsZero() || now.Sub(m.ioDeviceUpdatedAt) >= hardwareMetaTTL {
		m.ioDevice = ioDeviceFor(m.diskPath)
		m.ioDeviceUpdatedAt = now
	}

	counters, err := disk.IOCounters()
	if err != nil {
		return 0, 0, err
	}

	var cur ioSample
	if stat, ok := counters[m.ioDevice]; ok {
		cur.readBytes = stat.ReadBytes
		cur.writeBytes = stat.WriteBytes
	} else {
		// Overlay and container mounts have no backing device.
		cur.readBytes, cur.writeBytes = sumWholeDisks(counters, isWholeDisk)
	}
	cur.at = now
	cur.ok = true

	readKBs, writeKBs := ioRate(m.prevIO, cur)
	m.prevIO = cur
	return readKBs, writeKBs, nil
}

// sumWholeDisks adds up the counters of physical disks only. Partitions and
// stacked devices (dm, md, loop) repeat their parent's traffic.
func sumWholeDisks(counters map[string]disk.IOCountersStat, whole func(name string) bool) (read, write uint64) {
	for name, stat := range counters {
		if !whole(name) {
			continue
		}
		read += stat.ReadBytes
		write += stat.WriteBytes
	}
	return read, write
}

// isWholeDisk reports whether name is a disk with real hardware behind it.
// Outside Linux there is no cheap way to tell, so nothing qualifies and the
// rate reads 0.
func isWholeDisk(name string) bool {
	if runtime.GOOS != "linux" {
		return false
	}
	_, err := os.Stat(filepath.Join("/sys/block", name, "device"))
	return err == nil
}

// ioRate returns KB/s between two counter readings. Counter resets and the
// very first reading yield zero.
func ioRate(prev, cur ioSample) (float64, float64) {
	if !prev.ok || !cur.ok {
		return 0, 0
	}
	elapsed := cur.at.Sub(prev.at).Seconds()
	if elapsed <= 0 {
		return 0, 0
	}
	var read, write float64
	if cur.readBytes >= prev.readBytes {
		read = float64(cur.readBytes-prev.readBytes) / 1024 / elapsed
	}
	if cur.writeBytes >= prev.writeBytes {
		write = float64(cur.writeBytes-prev.writeBytes) / 1024 / elapsed
	}
	return read, write
}

// ioDeviceFor maps a mount point to the key gopsutil uses in IOCounters.
func ioDeviceFor(mountpoint string) string {
	if runtime.GOOS == "windows" {
		return strings.TrimRight(mountpoint, `\`)
	}
	parts, err := disk.Partitions(false)
	if err != nil {
		return ""
	}
	for _, p := range parts {
		if p.Mountpoint == mountpoint && strings.HasPrefix(p.Device, "/dev/") {
			return filepath.Base(p.Device)
		}
	}
	return ""
}

func diskTypeLabel(driveType, controller string) string {
	controller = strings.TrimSpace(controller)
	if strings.EqualFold(controller, "nvme") {
		return "NVMe"
	}
	driveType = strings.TrimSpace(driveType)
	if driveType == "" || strings.EqualFold(driveType, "unknown") {
		if controller != "" && !strings.EqualFold(controller, "unknown") {
			return strings.ToUpper(controller)
		}
		return ""
	}
	return strings.ToUpper(driveType)
}

func normalizeSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
