// Package tui draws the dashboard in a terminal with termui.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/tomek7667/sysdash/internal/dashboard"
)

var chartColors = map[string]ui.Color{
	dashboard.ElemCPUChart:  ui.ColorCyan,
	dashboard.ElemMemChart:  ui.Color(208),
	dashboard.ElemDiskChart: ui.ColorGreen,
}

// sortKeys maps a key press to the column it sorts by.
var sortKeys = map[string]dashboard.SortField{
	"n": dashboard.SortName,
	"c": dashboard.SortCPU,
	"m": dashboard.SortMem,
	"p": dashboard.SortPID,
}

const helpLine = "[n]ame [c]pu [m]em [p]id  [s] direction  [j/k] scroll  [q]uit"

// Screen implements dashboard.Surface. Show* may be called from any
// goroutine; only Run touches the terminal.
type Screen struct {
	mu      sync.Mutex
	charts  []dashboard.ChartSpec
	plots   map[string]*widgets.Plot
	readout *widgets.Paragraph
	list    *widgets.List
	help    *widgets.Paragraph
	grid    *ui.Grid

	redraw chan struct{}
}

func NewScreen() *Screen {
	s := &Screen{
		charts: dashboard.Charts,
		plots:  make(map[string]*widgets.Plot, len(dashboard.Charts)),
		redraw: make(chan struct{}, 1),
	}

	for _, c := range s.charts {
		p := widgets.NewPlot()
		p.Title = " " + c.Label + " "
		p.Marker = widgets.MarkerBraille
		p.MaxVal = c.Max
		p.LineColors = []ui.Color{chartColors[c.ID]}
		p.AxesColor = ui.ColorWhite
		p.BorderStyle.Fg = chartColors[c.ID]
		p.Data = [][]float64{padSeries(nil)}
		s.plots[c.ID] = p
	}

	s.readout = widgets.NewParagraph()
	s.readout.Title = " System "
	s.readout.Text = "waiting for data..."

	s.list = widgets.NewList()
	s.list.Title = " Processes "
	s.list.TextStyle = ui.NewStyle(ui.ColorWhite)
	s.list.SelectedRowStyle = ui.NewStyle(ui.ColorBlack, ui.ColorWhite)
	s.list.WrapText = false

	s.help = widgets.NewParagraph()
	s.help.Text = helpLine
	s.help.Border = false

	s.grid = ui.NewGrid()
	s.grid.Set(
		ui.NewRow(0.45,
			ui.NewCol(1.0/3, s.plots[dashboard.ElemCPUChart]),
			ui.NewCol(1.0/3, s.plots[dashboard.ElemMemChart]),
			ui.NewCol(1.0/3, s.plots[dashboard.ElemDiskChart]),
		),
		ui.NewRow(0.15, s.readout),
		ui.NewRow(0.36, s.list),
		ui.NewRow(0.04, s.help),
	)
	return s
}

func (s *Screen) ShowPerformance(v dashboard.PerformanceView) {
	s.mu.Lock()
	for _, c := range s.charts {
		p := s.plots[c.ID]
		p.Data = [][]float64{padSeries(v.Series[c.ID])}
		p.Title = fmt.Sprintf(" %s %s ", c.Label, chartValue(c.ID, v.Text))
	}
	s.readout.Text = readoutText(v.Text)
	s.mu.Unlock()
	s.requestRedraw()
}

func (s *Screen) ShowProcesses(v dashboard.ProcessListView) {
	s.mu.Lock()
	rows := make([]string, len(v.Items))
	for i, it := range v.Items {
		rows[i] = it.String()
	}
	s.list.Rows = rows
	if s.list.SelectedRow >= len(rows) {
		s.list.SelectedRow = max(len(rows)-1, 0)
	}
	s.list.Title = fmt.Sprintf(" Processes (%d)  sort: %s %s ", len(rows), v.SortField, v.SortLabel)
	s.mu.Unlock()
	s.requestRedraw()
}

func (s *Screen) requestRedraw() {
	select {
	case s.redraw <- struct{}{}:
	default:
	}
}

// Run takes over the terminal until q is pressed or ctx is done.
func (s *Screen) Run(ctx context.Context, d *dashboard.Dashboard) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("failed to init terminal: %w", err)
	}
	defer ui.Close()

	w, h := ui.TerminalDimensions()
	s.resize(w, h)
	s.render()

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			switch e.Type {
			case ui.KeyboardEvent:
				if s.handleKey(e.ID, d) {
					return nil
				}
				s.render()
			case ui.ResizeEvent:
				r := e.Payload.(ui.Resize)
				s.resize(r.Width, r.Height)
				ui.Clear()
				s.render()
			}
		case <-s.redraw:
			s.render()
		}
	}
}

// handleKey applies one key press and reports whether the user asked to quit.
func (s *Screen) handleKey(id string, d *dashboard.Dashboard) bool {
	if field, ok := sortKeys[id]; ok {
		d.SetSortField(field)
		return false
	}

	switch id {
	case "q", "<C-c>":
		return true
	case "s":
		d.ToggleDirection()
	case "j", "<Down>":
		s.mu.Lock()
		if len(s.list.Rows) > 0 {
			s.list.ScrollDown()
		}
		s.mu.Unlock()
	case "k", "<Up>":
		s.mu.Lock()
		if len(s.list.Rows) > 0 {
			s.list.ScrollUp()
		}
		s.mu.Unlock()
	case "g", "<Home>":
		s.mu.Lock()
		s.list.ScrollTop()
		s.mu.Unlock()
	}
	return false
}

func (s *Screen) resize(w, h int) {
	s.mu.Lock()
	s.grid.SetRect(0, 0, w, h)
	s.mu.Unlock()
}

func (s *Screen) render() {
	s.mu.Lock()
	defer s.mu.Unlock()
	ui.Render(s.grid)
}

// padSeries returns at least two points; the line plot cannot draw fewer.
func padSeries(series []float64) []float64 {
	out := append([]float64(nil), series...)
	for len(out) < 2 {
		out = append([]float64{0}, out...)
	}
	return out
}

func chartValue(chartID string, text map[string]string) string {
	switch chartID {
	case dashboard.ElemCPUChart:
		return text[dashboard.ElemCPU] + "%"
	case dashboard.ElemMemChart:
		return text[dashboard.ElemMem] + "%"
	default:
		return strings.TrimSpace(text[dashboard.ElemDiskAbs])
	}
}

func readoutText(text map[string]string) string {
	lines := []string{
		joinNonEmpty("CPU", text[dashboard.ElemCPUSidebar]+"%", text[dashboard.ElemCPUAbs], text[dashboard.ElemCPUModel]),
		joinNonEmpty("Memory", text[dashboard.ElemMemSidebar]+"%", text[dashboard.ElemMemAbs]),
		joinNonEmpty("Disk", text[dashboard.ElemDiskAbs], text[dashboard.ElemDiskVel], text[dashboard.ElemDiskModel]),
	}
	return strings.Join(lines, "\n")
}

func joinNonEmpty(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "  ")
}
