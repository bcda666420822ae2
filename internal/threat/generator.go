package threat

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
)

const (
	// Jitter is the width in degrees of the uniform noise applied to a
	// country centroid, i.e. points land within ±Jitter/2 of it.
	Jitter = 10.0

	// MaxBackdateHours is the largest whole-hour offset a timestamp is backdated by.
	MaxBackdateHours = 23
)

// Generator produces synthetic threat records.
// It is safe for concurrent use, though the dashboard only calls it from its own loop.
type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	now       func() time.Time
	newID     func() string
	countries []Country
}

type GeneratorOption func(*Generator)

// WithRand makes generation deterministic for a given source.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(g *Generator) { g.rng = r }
}

// WithClock overrides the time source used for timestamps.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithIDFunc overrides record id generation.
func WithIDFunc(f func() string) GeneratorOption {
	return func(g *Generator) { g.newID = f }
}

// NewGenerator creates a generator picking from the given countries.
// An empty list falls back to DefaultCountries.
func NewGenerator(countries []Country, opts ...GeneratorOption) *Generator {
	if len(countries) == 0 {
		countries = DefaultCountries
	}
	g := &Generator{
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		now:       time.Now,
		newID:     newRecordID,
		countries: append([]Country(nil), countries...),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate returns one new record.
func (g *Generator) Generate() Record {
	g.mu.Lock()
	defer g.mu.Unlock()

	country := g.countries[g.rng.Intn(len(g.countries))]
	hoursAgo := g.rng.Intn(MaxBackdateHours + 1)
	ts := g.now().Add(-time.Duration(hoursAgo) * time.Hour)

	return Record{
		ID:        g.newID(),
		Type:      Types[g.rng.Intn(len(Types))],
		Severity:  Severities[g.rng.Intn(len(Severities))],
		Country:   country.Name,
		Lat:       country.Lat + (g.rng.Float64()-0.5)*Jitter,
		Lng:       country.Lng + (g.rng.Float64()-0.5)*Jitter,
		Timestamp: ts.UTC().Truncate(time.Millisecond),
		IP:        g.randomIP(),
	}
}

// GenerateN returns n new records in generation order.
func (g *Generator) GenerateN(n int) []Record {
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, g.Generate())
	}
	return records
}

// Intn exposes the generator's source for callers that need a bounded
// random count (the reload size) from the same stream.
func (g *Generator) Intn(n int) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.rng.Intn(n)
}

// Countries returns a copy of the reference list in use.
func (g *Generator) Countries() []Country {
	return append([]Country(nil), g.countries...)
}

func (g *Generator) randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256), g.rng.Intn(256))
}

// newRecordID returns a UUIDv7: a millisecond timestamp followed by random bits.
func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
