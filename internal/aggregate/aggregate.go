// Package aggregate computes the chart series and summary statistics of a filtered view.
// Every call recomputes from scratch.
package aggregate

import (
	"fmt"
	"time"

	"github.com/pynezz/cybermap/internal/threat"
)

// HoursInWindow is the length of the trailing timeline window.
const HoursInWindow = 24

// Count is one labelled bucket of a chart series.
type Count struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// Stats are the headline numbers of the dashboard.
type Stats struct {
	Total     int `json:"total"`
	Critical  int `json:"critical"`
	Countries int `json:"countries"`
}

// Summary is everything derived from a view.
type Summary struct {
	Types      []Count `json:"types"`
	Severities []Count `json:"severities"`
	Hourly     []Count `json:"hourly"`
	Stats      Stats   `json:"stats"`
}

// Compute derives the summary of view at time now. Hour labels use now's location.
func Compute(view []threat.Record, now time.Time) Summary {
	return Summary{
		Types:      TypeCounts(view),
		Severities: SeverityCounts(view),
		Hourly:     HourlyCounts(view, now),
		Stats:      ComputeStats(view),
	}
}

// TypeCounts counts records per type. Only types present in the view are
// listed, in order of first appearance.
func TypeCounts(view []threat.Record) []Count {
	idx := make(map[threat.Type]int)
	counts := []Count{}
	for _, r := range view {
		i, ok := idx[r.Type]
		if !ok {
			i = len(counts)
			idx[r.Type] = i
			counts = append(counts, Count{Label: string(r.Type)})
		}
		counts[i].Count++
	}
	return counts
}

// SeverityCounts counts records per severity. All four severities are
// always present, in ascending order.
func SeverityCounts(view []threat.Record) []Count {
	counts := make([]Count, len(threat.Severities))
	for i, s := range threat.Severities {
		counts[i].Label = string(s)
	}
	for _, r := range view {
		if i := r.Severity.Rank(); i >= 0 {
			counts[i].Count++
		}
	}
	return counts
}

// HourLabel formats the hour-of-day of t as "HH:00".
func HourLabel(t time.Time) string {
	return fmt.Sprintf("%02d:00", t.Hour())
}

// HourlyCounts buckets the view into the trailing 24 hours ending at now.
//
// Buckets are keyed by hour-of-day label only, so records 24 or more hours
// apart that share an hour of day land in the same bucket. Records whose
// label is not one of the window's labels are ignored. On a DST transition
// day a label can repeat inside the window; it then keeps its first
// position and the window has fewer than 24 buckets.
func HourlyCounts(view []threat.Record, now time.Time) []Count {
	loc := now.Location()
	idx := make(map[string]int, HoursInWindow)
	buckets := make([]Count, 0, HoursInWindow)
	for i := HoursInWindow - 1; i >= 0; i-- {
		label := HourLabel(now.Add(-time.Duration(i) * time.Hour))
		if _, ok := idx[label]; ok {
			continue
		}
		idx[label] = len(buckets)
		buckets = append(buckets, Count{Label: label})
	}

	for _, r := range view {
		if i, ok := idx[HourLabel(r.Timestamp.In(loc))]; ok {
			buckets[i].Count++
		}
	}
	return buckets
}

// ComputeStats returns total, critical and distinct-country counts.
func ComputeStats(view []threat.Record) Stats {
	countries := make(map[string]struct{})
	st := Stats{Total: len(view)}
	for _, r := range view {
		if r.Severity == threat.Critical {
			st.Critical++
		}
		countries[r.Country] = struct{}{}
	}
	st.Countries = len(countries)
	return st
}

// Labels and Values split a series for chart widgets.
func Labels(counts []Count) []string {
	out := make([]string, len(counts))
	for i, c := range counts {
		out[i] = c.Label
	}
	return out
}

func Values(counts []Count) []float64 {
	out := make([]float64, len(counts))
	for i, c := range counts {
		out[i] = float64(c.Count)
	}
	return out
}

// Total sums a series.
func Total(counts []Count) int {
	n := 0
	for _, c := range counts {
		n += c.Count
	}
	return n
}
