// Package filter derives the filtered view of the threat store.
package filter

import (
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/pynezz/cybermap/internal/threat"
)

// All matches every value of a criterion.
const All = "all"

var ErrInvalidCriteria = errors.New("invalid filter criteria")

// Criteria are combined with a logical AND. The zero value matches everything.
type Criteria struct {
	Severity string `json:"severity" yaml:"severity"`
	Type     string `json:"type" yaml:"type"`
	Search   string `json:"search" yaml:"search"`
}

// Any returns criteria matching every record.
func Any() Criteria {
	return Criteria{Severity: All, Type: All}
}

// Normalize maps empty selections to All.
func (c Criteria) Normalize() Criteria {
	if c.Severity == "" {
		c.Severity = All
	}
	if c.Type == "" {
		c.Type = All
	}
	return c
}

// Validate checks the selections against the closed type and severity sets.
func (c Criteria) Validate() error {
	c = c.Normalize()
	if c.Severity != All && !threat.ValidSeverity(c.Severity) {
		return errors.Wrapf(ErrInvalidCriteria, "unknown severity %q", c.Severity)
	}
	if c.Type != All && !threat.ValidType(c.Type) {
		return errors.Wrapf(ErrInvalidCriteria, "unknown type %q", c.Type)
	}
	return nil
}

// Match reports whether r passes all three criteria.
func (c Criteria) Match(r threat.Record) bool {
	c = c.Normalize()
	return c.matchNormalized(r, strings.ToLower(c.Search))
}

func (c Criteria) matchNormalized(r threat.Record, term string) bool {
	if c.Severity != All && string(r.Severity) != c.Severity {
		return false
	}
	if c.Type != All && string(r.Type) != c.Type {
		return false
	}
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(r.IP), term) ||
		strings.Contains(strings.ToLower(r.Country), term)
}

// Apply returns the records matching c, preserving their order. It never
// modifies records and always returns a fresh slice.
func Apply(records []threat.Record, c Criteria) []threat.Record {
	c = c.Normalize()
	term := strings.ToLower(c.Search)

	view := make([]threat.Record, 0, len(records))
	for _, r := range records {
		if c.matchNormalized(r, term) {
			view = append(view, r)
		}
	}
	return view
}
