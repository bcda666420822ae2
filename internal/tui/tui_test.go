package tui

import (
	"image"
	"sync"
	"testing"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pynezz/cybermap/internal/aggregate"
	"github.com/pynezz/cybermap/internal/feed"
	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
)

func TestProject(t *testing.T) {
	assert.Equal(t, image.Pt(0, 0), Project(90, -180, 100, 50))
	assert.Equal(t, image.Pt(99, 49), Project(-90, 180, 100, 50))
	assert.Equal(t, image.Pt(50, 25), Project(0, 0, 101, 51))
	assert.Equal(t, image.Pt(99, 0), Project(120, 500, 100, 50), "clamped")
	assert.Equal(t, image.Point{}, Project(10, 10, 0, 10))

	usa := Project(39.8283, -98.5795, 360, 180)
	australia := Project(-25.2744, 133.7751, 360, 180)
	assert.Less(t, usa.X, australia.X)
	assert.Less(t, usa.Y, australia.Y)
}

func TestDotRadius(t *testing.T) {
	assert.Equal(t, 0, dotRadius(render.SeverityRadius(threat.Low)))
	assert.Equal(t, 1, dotRadius(render.SeverityRadius(threat.Medium)))
	assert.Equal(t, 2, dotRadius(render.SeverityRadius(threat.High)))
	assert.Equal(t, 3, dotRadius(render.SeverityRadius(threat.Critical)))
}

func TestWorldMapDrawsMarkers(t *testing.T) {
	m := NewWorldMap()
	m.SetRect(0, 0, 42, 22)
	m.AddMarker(render.Marker{Lat: 0, Lng: 0, Radius: 16, Severity: threat.Critical})

	buf := ui.NewBuffer(m.GetRect())
	m.Draw(buf)

	center := Project(0, 0, m.Inner.Dx()*2, m.Inner.Dy()*4)
	cell := buf.GetCell(image.Pt(m.Inner.Min.X+center.X/2, m.Inner.Min.Y+center.Y/4))
	assert.Equal(t, ui.ColorRed, cell.Style.Fg)
	assert.True(t, cell.Rune >= '⠀' && cell.Rune <= '⣿', "braille rune, got %q", cell.Rune)

	m.ClearMarkers()
	assert.Empty(t, m.Markers())
}

func TestRenderBeforeRunOnlyUpdatesWidgets(t *testing.T) {
	tui := New(t.TempDir(), nil)
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	view := []threat.Record{
		{ID: "a", Type: threat.Malware, Severity: threat.Critical, Country: "USA", IP: "1.2.3.4", Timestamp: now},
		{ID: "b", Type: threat.SQLInjection, Severity: threat.Low, Country: "Japan", IP: "5.6.7.8", Timestamp: now},
	}
	f := render.Build(render.Input{View: view, Summary: aggregate.Compute(view, now), Now: now})
	f.Status = "Loaded 2 threats"
	f.FeedState = feed.Running
	f.Criteria = filter.Criteria{Severity: filter.All, Type: filter.All, Search: "jap"}

	tui.Render(f)

	assert.Len(t, tui.worldMap.Markers(), 2)
	require.Len(t, tui.feed.Rows, 2)
	assert.Contains(t, tui.feed.Rows[0], "USA")
	assert.Equal(t, []float64{1, 1}, tui.types.Data)
	assert.Equal(t, "SQLi 1", tui.types.LabelFormatter(1, 1))
	assert.Equal(t, []string{"Low", "Medium", "High", "Critical"}, tui.severities.Labels)
	assert.Equal(t, []float64{1, 0, 0, 1}, tui.severities.Data)
	require.Len(t, tui.timeline.Data, 1)
	assert.Len(t, tui.timeline.Data[0], aggregate.HoursInWindow)
	assert.Contains(t, tui.stats.Text, "Countries  2")
	assert.Contains(t, tui.header.Text, "Loaded 2 threats")
	assert.Contains(t, tui.header.Text, "feed running")
	assert.Contains(t, tui.header.Text, `search "jap"`)
	assert.Contains(t, tui.header.Text, keyHelp)
}

func TestRenderEmptyFrame(t *testing.T) {
	tui := New(t.TempDir(), nil)
	tui.Render(render.Frame{})
	assert.Empty(t, tui.feed.Rows)
	assert.Equal(t, 1.0, tui.severities.MaxVal)
	assert.Len(t, tui.timeline.Data[0], 2)
}

func TestResizeBeforeRun(t *testing.T) {
	tui := New(t.TempDir(), nil)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			tui.Render(render.Frame{Status: "tick"})
		}
	}()
	go func() {
		defer wg.Done()
		for i := 1; i <= 50; i++ {
			tui.resize(80+i, 24)
		}
	}()
	wg.Wait()

	assert.Equal(t, image.Rect(0, 0, 130, 24), tui.grid.Rectangle)
	assert.Contains(t, tui.header.Text, "tick")
}
