// Package render turns a filtered view and its summary into a Frame, the
// complete state pushed to the map, charts, stats and feed list.
package render

import (
	"time"

	"github.com/pynezz/cybermap/internal/aggregate"
	"github.com/pynezz/cybermap/internal/feed"
	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/threat"
)

// DefaultFeedSize is how many of the most recent records the feed list shows.
const DefaultFeedSize = 10

// FeedItem is one row of the feed list.
type FeedItem struct {
	ID       string          `json:"id"`
	Type     threat.Type     `json:"type"`
	Severity threat.Severity `json:"severity"`
	Country  string          `json:"country"`
	IP       string          `json:"ip"`
	Time     string          `json:"time"`
}

// Frame is rebuilt in full after every command.
type Frame struct {
	Markers    []Marker          `json:"markers"`
	Types      []aggregate.Count `json:"types"`
	Severities []aggregate.Count `json:"severities"`
	Timeline   []aggregate.Count `json:"timeline"`
	Stats      aggregate.Stats   `json:"stats"`
	Feed       []FeedItem        `json:"feed"`
	LastUpdate string            `json:"last_update"`
	UpdatedAt  time.Time         `json:"updated_at"`

	FeedState feed.State      `json:"feed_state"`
	Sound     bool            `json:"sound"`
	Criteria  filter.Criteria `json:"criteria"`
	Status    string          `json:"status"`
	StoreSize int             `json:"store_size"`
}

// Input is what a frame is built from.
type Input struct {
	View     []threat.Record
	Summary  aggregate.Summary
	Now      time.Time
	FeedSize int
}

// Build maps the view and summary onto a frame. Times are shown in the
// location of in.Now.
func Build(in Input) Frame {
	loc := in.Now.Location()
	size := in.FeedSize
	if size <= 0 {
		size = DefaultFeedSize
	}

	markers := make([]Marker, len(in.View))
	for i, r := range in.View {
		markers[i] = NewMarker(r, loc)
	}

	head := in.View
	if len(head) > size {
		head = head[:size]
	}
	items := make([]FeedItem, len(head))
	for i, r := range head {
		items[i] = FeedItem{
			ID:       r.ID,
			Type:     r.Type,
			Severity: r.Severity,
			Country:  r.Country,
			IP:       r.IP,
			Time:     r.Timestamp.In(loc).Format(ClockLayout),
		}
	}

	return Frame{
		Markers:    markers,
		Types:      in.Summary.Types,
		Severities: in.Summary.Severities,
		Timeline:   in.Summary.Hourly,
		Stats:      in.Summary.Stats,
		Feed:       items,
		LastUpdate: in.Now.Format(ClockLayout),
		UpdatedAt:  in.Now,
	}
}

// Renderer applies frames to a display.
type Renderer interface {
	Render(f Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f Frame)

func (fn RendererFunc) Render(f Frame) { fn(f) }

// Multi fans a frame out to several renderers in order.
type Multi []Renderer

func (m Multi) Render(f Frame) {
	for _, r := range m {
		r.Render(f)
	}
}

// Discard renders nothing.
var Discard Renderer = RendererFunc(func(Frame) {})
