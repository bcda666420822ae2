package render

import (
	"fmt"
	"time"

	"github.com/pynezz/cybermap/internal/threat"
)

// Marker is one point on the map.
type Marker struct {
	ID       string          `json:"id"`
	Lat      float64         `json:"lat"`
	Lng      float64         `json:"lng"`
	Color    string          `json:"color"`
	Radius   int             `json:"radius"`
	Severity threat.Severity `json:"severity"`
	Popup    string          `json:"popup"`
}

// MapSurface is a map widget that can be cleared and drawn on.
type MapSurface interface {
	ClearMarkers()
	AddMarker(m Marker)
}

const defaultRadius = 5

var (
	severityRadius = map[threat.Severity]int{
		threat.Low:      5,
		threat.Medium:   8,
		threat.High:     12,
		threat.Critical: 16,
	}
	severityColor = map[threat.Severity]string{
		threat.Low:      "#00ff88",
		threat.Medium:   "#feca57",
		threat.High:     "#ff9ff3",
		threat.Critical: "#ff6b6b",
	}
)

// SeverityRadius returns the marker radius; unknown severities get the Low radius.
func SeverityRadius(s threat.Severity) int {
	if r, ok := severityRadius[s]; ok {
		return r
	}
	return defaultRadius
}

// SeverityColor returns the marker color, empty for unknown severities.
func SeverityColor(s threat.Severity) string {
	return severityColor[s]
}

// TimeLayout and ClockLayout are the local formats used in popups and the feed list.
const (
	TimeLayout  = "2006-01-02 15:04:05"
	ClockLayout = "15:04:05"
)

// Popup returns the popup text of r with its time shown in loc.
func Popup(r threat.Record, loc *time.Location) string {
	return fmt.Sprintf("%s\nSeverity: %s\nLocation: %s\nIP: %s\nTime: %s",
		r.Type, r.Severity, r.Country, r.IP, r.Timestamp.In(loc).Format(TimeLayout))
}

// NewMarker maps a record onto the map.
func NewMarker(r threat.Record, loc *time.Location) Marker {
	return Marker{
		ID:       r.ID,
		Lat:      r.Lat,
		Lng:      r.Lng,
		Color:    SeverityColor(r.Severity),
		Radius:   SeverityRadius(r.Severity),
		Severity: r.Severity,
		Popup:    Popup(r, loc),
	}
}

// DrawMarkers replaces everything on m with markers.
func DrawMarkers(m MapSurface, markers []Marker) {
	m.ClearMarkers()
	for _, mk := range markers {
		m.AddMarker(mk)
	}
}
