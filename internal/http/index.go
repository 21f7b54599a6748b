package http

import (
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tomek7667/sysdash/internal/dashboard"
	"github.com/tomek7667/sysdash/internal/domain"
)

const (
	chartWidth  = 600
	chartHeight = 120
)

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <meta http-equiv="refresh" content="2">
    <title>sysdash</title>
    <style>
        * { box-sizing: border-box; margin: 0; padding: 0; }
        body {
            font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
            background: #1e1e1e;
            color: #e0e0e0;
            padding: 24px;
        }
        .container { max-width: 900px; margin: 0 auto; }
        .readout { display: flex; gap: 24px; margin-bottom: 16px; flex-wrap: wrap; }
        .readout div { background: #2d2d2d; border: 1px solid #3a3a3a; border-radius: 4px; padding: 12px 16px; }
        .muted { color: #888; font-size: 14px; }
        .chart { background: #2d2d2d; border: 1px solid #3a3a3a; border-radius: 4px; margin-bottom: 12px; padding: 8px; }
        .chart h3 { font-size: 14px; font-weight: normal; margin-bottom: 4px; }
        .controls { display: flex; gap: 10px; margin: 24px 0 12px; align-items: center; }
        .controls a { color: #e0e0e0; border: 1px solid #444; border-radius: 4px; padding: 6px 12px; text-decoration: none; }
        .controls a.active { border-color: #888; background: #353535; }
        .process-list { list-style: none; }
        .process-list li { background: #2d2d2d; margin-bottom: 8px; border-radius: 4px; border: 1px solid #3a3a3a; padding: 12px 16px; }
        .process-list .head { display: flex; justify-content: space-between; }
        .empty { color: #888; padding: 24px; text-align: center; }
    </style>
</head>
<body>
    <div class="container">
        <div class="readout">
            <div>CPU <span id="cpusidebar">{{index .Perf.Text "cpusidebar"}}</span>%</div>
            <div>Memory <span id="memsidebar">{{index .Perf.Text "memsidebar"}}</span>%</div>
        </div>
        {{range .Charts}}
        <div class="chart">
            <h3>{{.Label}}
                {{if eq .ID "cpuChart"}}<span id="cpu">{{index $.Perf.Text "cpu"}}</span>% <span id="cpuabs" class="muted">{{index $.Perf.Text "cpuabs"}}</span> <span id="cpumodel" class="muted">{{index $.Perf.Text "cpumodel"}}</span>{{end}}
                {{if eq .ID "memChart"}}<span id="mem">{{index $.Perf.Text "mem"}}</span>% <span id="memabs" class="muted">{{index $.Perf.Text "memabs"}}</span>{{end}}
                {{if eq .ID "diskChart"}}<span id="diskabs" class="muted">{{index $.Perf.Text "diskabs"}}</span> <span id="diskvel" class="muted">{{index $.Perf.Text "diskvel"}}</span> <span id="diskmodel" class="muted">{{index $.Perf.Text "diskmodel"}}</span>{{end}}
            </h3>
            <svg id="{{.ID}}" viewBox="0 0 {{$.Width}} {{$.Height}}" width="100%" height="{{$.Height}}" preserveAspectRatio="none">
                <polyline fill="none" stroke="{{.Color}}" stroke-width="2" points="{{.Points}}"/>
            </svg>
        </div>
        {{end}}
        <div class="controls" id="sortDropdown">
            <span class="muted">Sort by</span>
            {{range .SortLinks}}<a href="{{.Href}}" data-sort="{{.Field}}"{{if .Active}} class="active"{{end}}>{{.Field}}</a>{{end}}
            <a id="sort-toggle" href="{{.ToggleHref}}">{{.Procs.SortLabel}}</a>
        </div>
        <ul class="process-list" id="process-list">
            {{range .Procs.Items}}
            <li>
                <div class="head"><strong>{{.Name}}</strong><span class="muted">PID(s): {{.PIDs}}</span></div>
                <p>CPU: {{.CPU}}% &middot; Memory: {{.Memory}}%</p>
                <p class="muted">Started: {{.Started}}</p>
                <p class="muted">Path: {{.Path}}</p>
            </li>
            {{else}}
            <li class="empty">No processes</li>
            {{end}}
        </ul>
    </div>
</body>
</html>`

var indexTmpl = template.Must(template.New("index").Parse(indexHTML))

type indexChart struct {
	dashboard.ChartSpec
	Points string
}

type sortLink struct {
	Field  dashboard.SortField
	Href   string
	Active bool
}

type indexPage struct {
	Perf       dashboard.PerformanceView
	Procs      dashboard.ProcessListView
	Charts     []indexChart
	SortLinks  []sortLink
	ToggleHref string
	Width      int
	Height     int
}

func (s *Server) addIndexRoute(r chi.Router) {
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		st := sortStateFromQuery(r.URL.Query())
		page := buildIndexPage(s.sampler.Performance(), s.sampler.Processes(), st)

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := indexTmpl.Execute(w, page); err != nil {
			slog.Error("http: failed to render index", "err", err)
		}
	})
}

func sortStateFromQuery(q url.Values) *dashboard.State {
	field, err := dashboard.ParseSortField(q.Get("sort"))
	if err != nil {
		field = dashboard.SortCPU
	}
	return dashboard.NewState(field, strings.EqualFold(q.Get("order"), "asc"))
}

func buildIndexPage(perf domain.PerformanceSnapshot, procs []domain.ProcessEntry, st *dashboard.State) indexPage {
	page := indexPage{
		Perf:   dashboard.RenderPerformance(perf),
		Procs:  dashboard.RenderProcesses(procs, st),
		Width:  chartWidth,
		Height: chartHeight,
	}
	for _, c := range dashboard.Charts {
		page.Charts = append(page.Charts, indexChart{
			ChartSpec: c,
			Points:    polylinePoints(page.Perf.Series[c.ID], c),
		})
	}
	for _, f := range dashboard.SortFields {
		page.SortLinks = append(page.SortLinks, sortLink{
			Field:  f,
			Href:   sortHref(f, st.Ascending),
			Active: f == st.SortField,
		})
	}
	page.ToggleHref = sortHref(st.SortField, !st.Ascending)
	return page
}

func sortHref(field dashboard.SortField, ascending bool) string {
	order := "desc"
	if ascending {
		order = "asc"
	}
	q := url.Values{"sort": {string(field)}, "order": {order}}
	return "/?" + q.Encode()
}

// polylinePoints lays data out on a fixed c.Points-wide x-axis, left
// aligned, with the y-axis clamped to [c.Min, c.Max].
func polylinePoints(data []float64, c dashboard.ChartSpec) string {
	if len(data) == 0 || c.Points < 2 || c.Max <= c.Min {
		return ""
	}
	if len(data) > c.Points {
		data = data[len(data)-c.Points:]
	}
	step := float64(chartWidth) / float64(c.Points-1)
	var b strings.Builder
	for i, v := range data {
		if v < c.Min {
			v = c.Min
		}
		if v > c.Max {
			v = c.Max
		}
		y := float64(chartHeight) * (1 - (v-c.Min)/(c.Max-c.Min))
		if i > 0 {
			b.WriteByte(' ')
		}
		fmt.Fprintf(&b, "%.1f,%.1f", float64(i)*step, y)
	}
	return b.String()
}
