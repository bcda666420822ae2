package tui

import (
	"image"
	"sync"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/drawille"

	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/threat"
)

// WorldMap plots markers on an equirectangular projection drawn in braille
// dots, two per cell horizontally and four vertically.
type WorldMap struct {
	ui.Block
	GridColor ui.Color

	mu      sync.Mutex
	markers []render.Marker
}

func NewWorldMap() *WorldMap {
	m := &WorldMap{Block: *ui.NewBlock(), GridColor: ui.ColorBlue}
	m.Title = " Threat Map "
	return m
}

func (m *WorldMap) ClearMarkers() {
	m.mu.Lock()
	m.markers = m.markers[:0]
	m.mu.Unlock()
}

func (m *WorldMap) AddMarker(mk render.Marker) {
	m.mu.Lock()
	m.markers = append(m.markers, mk)
	m.mu.Unlock()
}

func (m *WorldMap) Markers() []render.Marker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]render.Marker(nil), m.markers...)
}

// Project maps a coordinate onto a width x height dot grid. Out of range
// coordinates are clamped to the edges.
func Project(lat, lng float64, width, height int) image.Point {
	if width <= 0 || height <= 0 {
		return image.Point{}
	}
	lat = clamp(lat, -90, 90)
	lng = clamp(lng, -180, 180)
	x := (lng + 180) / 360 * float64(width-1)
	y := (90 - lat) / 180 * float64(height-1)
	return image.Pt(int(x+0.5), int(y+0.5))
}

func clamp(v, lo, hi float64) float64 {
	switch {
	case v < lo:
		return lo
	case v > hi:
		return hi
	}
	return v
}

// dotRadius scales a marker radius (5 to 16) down to 0 to 3 dots.
func dotRadius(radius int) int {
	if radius < 2 {
		return 0
	}
	return (radius - 2) / 4
}

func SeverityColor(s threat.Severity) ui.Color {
	switch s {
	case threat.Medium:
		return ui.ColorYellow
	case threat.High:
		return ui.ColorMagenta
	case threat.Critical:
		return ui.ColorRed
	default:
		return ui.ColorGreen
	}
}

func (m *WorldMap) Draw(buf *ui.Buffer) {
	m.Block.Draw(buf)

	w, h := m.Inner.Dx()*2, m.Inner.Dy()*4
	if w <= 0 || h <= 0 {
		return
	}
	origin := image.Pt(m.Inner.Min.X*2, m.Inner.Min.Y*4)
	canvas := drawille.NewCanvas()

	// equator and prime meridian
	equator := Project(0, 0, w, h)
	for x := 0; x < w; x += 3 {
		canvas.SetPoint(origin.Add(image.Pt(x, equator.Y)), drawille.Color(m.GridColor))
	}
	for y := 0; y < h; y += 3 {
		canvas.SetPoint(origin.Add(image.Pt(equator.X, y)), drawille.Color(m.GridColor))
	}

	// Oldest first so the newest marker ends up on top.
	markers := m.Markers()
	for i := len(markers) - 1; i >= 0; i-- {
		mk := markers[i]
		p := Project(mk.Lat, mk.Lng, w, h)
		r := dotRadius(mk.Radius)
		color := drawille.Color(SeverityColor(mk.Severity))
		for dy := -r; dy <= r; dy++ {
			for dx := -r; dx <= r; dx++ {
				q := p.Add(image.Pt(dx, dy))
				if dx*dx+dy*dy > r*r || q.X < 0 || q.Y < 0 || q.X >= w || q.Y >= h {
					continue
				}
				canvas.SetPoint(origin.Add(q), color)
			}
		}
	}

	for point, cell := range canvas.GetCells() {
		if point.In(m.Inner) {
			buf.SetCell(ui.NewCell(cell.Rune, ui.NewStyle(ui.Color(cell.Color))), point)
		}
	}
}
