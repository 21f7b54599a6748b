package http

import "github.com/tomek7667/sysdash/internal/domain"

// history keeps the last n samples of each chart, oldest first. It starts
// zero-filled so every chart always has exactly n points.
type history struct {
	size int
	cpu  []float64
	mem  []float64
	disk []float64
}

func newHistory(n int) history {
	return history{
		size: n,
		cpu:  make([]float64, n),
		mem:  make([]float64, n),
		disk: make([]float64, n),
	}
}

func (h *history) push(cpu, mem, disk float64) {
	h.cpu = appendBounded(h.cpu, cpu, h.size)
	h.mem = appendBounded(h.mem, mem, h.size)
	h.disk = appendBounded(h.disk, disk, h.size)
}

func appendBounded(s []float64, v float64, n int) []float64 {
	s = append(s, v)
	if len(s) > n {
		s = append([]float64(nil), s[len(s)-n:]...)
	}
	return s
}

func (h *history) snapshot() domain.PerformanceSnapshot {
	return domain.PerformanceSnapshot{
		CPUHistory:  append([]float64(nil), h.cpu...),
		MemHistory:  append([]float64(nil), h.mem...),
		DiskHistory: append([]float64(nil), h.disk...),
	}
}
