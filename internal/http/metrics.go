package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/tomek7667/sysdash/internal/domain"
)

func (s *Server) addMetricsRoute(r chi.Router) {
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		format := expfmt.NewFormat(expfmt.TypeTextPlain)
		w.Header().Set("Content-Type", string(format))

		enc := expfmt.NewEncoder(w, format)
		for _, mf := range metricFamilies(s.sampler.Performance(), s.sampler.Processes()) {
			if err := enc.Encode(mf); err != nil {
				slog.Error("http: failed to encode metrics", "metric", mf.GetName(), "err", err)
				return
			}
		}
	})
}

// metricFamilies exposes the latest sample of every chart plus the scalar
// readouts as gauges. Histories are not exported; Prometheus keeps its own.
func metricFamilies(perf domain.PerformanceSnapshot, procs []domain.ProcessEntry) []*dto.MetricFamily {
	pids := 0
	for _, p := range procs {
		pids += len(p.Pid)
	}

	return []*dto.MetricFamily{
		gauge("sysdash_cpu_usage_percent", "Host CPU busy percentage.", lastOf(perf.CPUHistory)),
		gauge("sysdash_memory_usage_percent", "Host memory used percentage.", lastOf(perf.MemHistory)),
		gauge("sysdash_disk_usage_percent", "Used percentage of the monitored disk.", lastOf(perf.DiskHistory)),
		gauge("sysdash_cpu_frequency_mhz", "Current CPU clock averaged over all CPUs.", perf.CPUFreq),
		gauge("sysdash_memory_used_bytes", "Host memory in use.", perf.MemUsedMB*1024*1024),
		gauge("sysdash_memory_total_bytes", "Host memory installed.", perf.MemTotalMB*1024*1024),
		gauge("sysdash_disk_used_bytes", "Used space on the monitored disk.", perf.DiskUsedGB*1024*1024*1024),
		gauge("sysdash_disk_total_bytes", "Size of the monitored disk.", perf.DiskTotalGB*1024*1024*1024),
		gauge("sysdash_disk_read_bytes_per_second", "Read throughput of the monitored disk.", valueOf(perf.DiskReadKBs)*1024),
		gauge("sysdash_disk_write_bytes_per_second", "Write throughput of the monitored disk.", valueOf(perf.DiskWriteKBs)*1024),
		gauge("sysdash_process_names", "Distinct process names in the process table.", float64(len(procs))),
		gauge("sysdash_processes", "Processes in the process table.", float64(pids)),
	}
}

func gauge(name, help string, v float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: &name,
		Help: &help,
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Gauge: &dto.Gauge{Value: &v},
		}},
	}
}

func lastOf(s []float64) float64 {
	if len(s) == 0 {
		return 0
	}
	return s[len(s)-1]
}

func valueOf(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
