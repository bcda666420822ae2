// Package tui is the terminal dashboard: a termui grid redrawn from every
// frame the dashboard renders, driven by single-key commands.
package tui

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"
	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"
	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/aggregate"
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/export"
	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
	"github.com/pynezz/cybermap/pkg/version"
)

const keyHelp = "r reload  l live feed  s sound  f severity  t type  / search  e export  q quit"

// Submitter accepts dashboard commands. *dashboard.Dashboard implements it.
type Submitter interface {
	Submit(ctx context.Context, cmd dashboard.Command) (dashboard.Outcome, error)
}

// Tui is a render.Renderer. Render may be called from any goroutine; the
// widgets are only drawn once Run has initialized the terminal.
type Tui struct {
	mu      sync.Mutex
	started bool
	frame   render.Frame
	keys    Keys
	notice  string

	grid       *ui.Grid
	header     *widgets.Paragraph
	worldMap   *WorldMap
	feed       *widgets.List
	types      *widgets.PieChart
	typeLabels []string
	severities *widgets.BarChart
	timeline   *widgets.Plot
	stats      *widgets.Paragraph

	exportDir string
	log       *zap.Logger
}

// New lays out the widgets. Exports are written to exportDir.
func New(exportDir string, log *zap.Logger) *Tui {
	if log == nil {
		log = zap.NewNop()
	}
	t := &Tui{
		header:     widgets.NewParagraph(),
		worldMap:   NewWorldMap(),
		feed:       widgets.NewList(),
		types:      widgets.NewPieChart(),
		severities: widgets.NewBarChart(),
		timeline:   widgets.NewPlot(),
		stats:      widgets.NewParagraph(),
		exportDir:  exportDir,
		log:        log,
	}

	t.header.Title = " " + version.Short() + " "
	t.header.BorderStyle.Fg = ui.ColorCyan

	t.feed.Title = " Live Feed "
	t.feed.TextStyle = ui.NewStyle(ui.ColorWhite)

	t.types.Title = " Threat Types "
	t.types.LabelFormatter = func(i int, v float64) string {
		if i >= len(t.typeLabels) {
			return ""
		}
		return fmt.Sprintf("%s %d", abbreviate(t.typeLabels[i]), int(v))
	}

	t.severities.Title = " Severity "
	t.severities.BarWidth = 5
	t.severities.BarColors = []ui.Color{ui.ColorGreen, ui.ColorYellow, ui.ColorMagenta, ui.ColorRed}
	t.severities.NumFormatter = func(v float64) string { return fmt.Sprintf("%d", int(v)) }

	t.timeline.Title = " Last 24h "
	t.timeline.Marker = widgets.MarkerBraille
	t.timeline.LineColors = []ui.Color{ui.ColorGreen}
	t.timeline.AxesColor = ui.ColorWhite

	t.stats.Title = " Stats "

	t.grid = ui.NewGrid()
	t.grid.Set(
		ui.NewRow(0.14, t.header),
		ui.NewRow(0.50,
			ui.NewCol(0.65, t.worldMap),
			ui.NewCol(0.35, t.feed),
		),
		ui.NewRow(0.36,
			ui.NewCol(0.22, t.types),
			ui.NewCol(0.22, t.severities),
			ui.NewCol(0.36, t.timeline),
			ui.NewCol(0.20, t.stats),
		),
	)
	return t
}

func (t *Tui) Render(f render.Frame) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.frame = f
	t.apply()
	t.draw()
}

// apply copies the current frame into the widgets.
func (t *Tui) apply() {
	f := t.frame

	render.DrawMarkers(t.worldMap, f.Markers)

	rows := make([]string, len(f.Feed))
	for i, item := range f.Feed {
		rows[i] = fmt.Sprintf("[%s](fg:%s) %-8s %s %s  %s",
			item.Time, colorName(SeverityColor(item.Severity)), item.Severity, item.Type, item.Country, item.IP)
	}
	t.feed.Rows = rows

	t.typeLabels = aggregate.Labels(f.Types)
	t.types.Data = aggregate.Values(f.Types)

	t.severities.Labels = aggregate.Labels(f.Severities)
	t.severities.Data = aggregate.Values(f.Severities)
	t.severities.MaxVal = maxOf(t.severities.Data)

	series := aggregate.Values(f.Timeline)
	if len(series) < 2 {
		series = []float64{0, 0}
	}
	t.timeline.Data = [][]float64{series}
	t.timeline.DataLabels = aggregate.Labels(f.Timeline)
	t.timeline.MaxVal = maxOf(series)

	t.stats.Text = fmt.Sprintf(
		"Total      %d\n[Critical   %d](fg:red)\nCountries  %d\nStored     %d\nUpdated    %s",
		f.Stats.Total, f.Stats.Critical, f.Stats.Countries, f.StoreSize, f.LastUpdate)

	t.header.Text = t.headerText()
}

func (t *Tui) headerText() string {
	f := t.frame
	sound := "off"
	if f.Sound {
		sound = "on"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s | feed %s | sound %s | severity %s | type %s",
		f.Status, f.FeedState, sound, f.Criteria.Severity, f.Criteria.Type)
	if f.Criteria.Search != "" {
		fmt.Fprintf(&b, " | search %q", f.Criteria.Search)
	}
	if t.notice != "" {
		b.WriteString(" | " + t.notice)
	}
	b.WriteString("\n")
	if term, editing := t.keys.Prompt(); editing {
		fmt.Fprintf(&b, "[Search: %s_](fg:yellow)  Enter apply  Esc cancel", term)
	} else {
		b.WriteString(keyHelp)
	}
	return b.String()
}

func (t *Tui) draw() {
	if t.started {
		ui.Render(t.grid)
	}
}

// resize shares t.mu with Render, termbox is not safe for concurrent use.
func (t *Tui) resize(w, h int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.grid.SetRect(0, 0, w, h)
	if t.started {
		ui.Clear()
	}
	t.apply()
	t.draw()
}

func (t *Tui) redraw() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.apply()
	t.draw()
}

// Run takes over the terminal and turns key presses into commands until q
// is pressed or ctx is done.
func (t *Tui) Run(ctx context.Context, sub Submitter) error {
	if err := ui.Init(); err != nil {
		return errors.Wrap(err, "failed to initialize termui")
	}
	defer ui.Close()

	w, h := ui.TerminalDimensions()
	t.mu.Lock()
	t.started = true
	t.grid.SetRect(0, 0, w, h)
	t.mu.Unlock()
	t.redraw()
	defer func() {
		t.mu.Lock()
		t.started = false
		t.mu.Unlock()
	}()

	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return nil
		case e := <-events:
			if e.Type == ui.ResizeEvent {
				size := e.Payload.(ui.Resize)
				t.resize(size.Width, size.Height)
				continue
			}
			if e.Type != ui.KeyboardEvent {
				continue
			}

			t.mu.Lock()
			res := t.keys.Handle(e.ID, t.frame.Criteria)
			t.mu.Unlock()

			switch res.Action {
			case Quit:
				return nil
			case Redraw:
				t.redraw()
			case Submit:
				if err := t.submit(ctx, sub, res.Command); err != nil {
					return err
				}
			}
		}
	}
}

// submit must not hold t.mu: the dashboard renders back into t before
// Submit returns.
func (t *Tui) submit(ctx context.Context, sub Submitter, cmd dashboard.Command) error {
	out, err := sub.Submit(ctx, cmd)
	switch {
	case errors.Is(err, dashboard.ErrStopped):
		return err
	case err != nil:
		t.log.Warn("command failed", zap.Stringer("command", cmd.Kind), zap.Error(err))
		return nil
	}

	notice := ""
	if cmd.Kind == dashboard.Export {
		path, err := export.WriteFile(t.exportDir, out.Filename, out.Export)
		if err != nil {
			t.log.Error("failed to save export", zap.String("dir", t.exportDir), zap.Error(err))
			notice = "export failed"
		} else {
			t.log.Info("export saved", zap.String("path", path))
			notice = "saved " + path
		}
	}
	t.mu.Lock()
	t.notice = notice
	t.mu.Unlock()
	t.redraw()
	return nil
}

func maxOf(values []float64) float64 {
	m := 1.0
	for _, v := range values {
		if v > m {
			m = v
		}
	}
	return m
}

// abbreviate shortens a type name to fit a pie slice label.
func abbreviate(label string) string {
	switch threat.Type(label) {
	case threat.SQLInjection:
		return "SQLi"
	case threat.BruteForce:
		return "Brute"
	case threat.Ransomware:
		return "Ransom"
	}
	return label
}

func colorName(c ui.Color) string {
	switch c {
	case ui.ColorRed:
		return "red"
	case ui.ColorYellow:
		return "yellow"
	case ui.ColorMagenta:
		return "magenta"
	}
	return "green"
}
