package threat

import (
	"encoding/json"
	"math/rand"
	"net"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGenerator(seed int64, now time.Time) *Generator {
	return NewGenerator(nil, WithRand(rand.New(rand.NewSource(seed))), WithClock(func() time.Time { return now }))
}

func TestGenerateFieldsWithinDomain(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)
	g := newTestGenerator(42, now)

	centroids := map[string]Country{}
	for _, c := range DefaultCountries {
		centroids[c.Name] = c
	}

	for i := 0; i < 2000; i++ {
		r := g.Generate()

		assert.True(t, ValidType(string(r.Type)), "type %q", r.Type)
		assert.True(t, ValidSeverity(string(r.Severity)), "severity %q", r.Severity)

		c, ok := centroids[r.Country]
		require.True(t, ok, "unknown country %q", r.Country)
		assert.GreaterOrEqual(t, r.Lat, c.Lat-Jitter/2)
		assert.Less(t, r.Lat, c.Lat+Jitter/2)
		assert.GreaterOrEqual(t, r.Lng, c.Lng-Jitter/2)
		assert.Less(t, r.Lng, c.Lng+Jitter/2)

		offset := now.Sub(r.Timestamp)
		assert.Zero(t, offset%time.Hour, "offset must be whole hours")
		hours := int(offset / time.Hour)
		assert.GreaterOrEqual(t, hours, 0)
		assert.LessOrEqual(t, hours, MaxBackdateHours)

		octets := strings.Split(r.IP, ".")
		require.Len(t, octets, 4, r.IP)
		for _, o := range octets {
			n, err := strconv.Atoi(o)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, n, 0)
			assert.LessOrEqual(t, n, 255)
		}
		assert.NotNil(t, net.ParseIP(r.IP))
	}
}

func TestGenerateCoversClosedSets(t *testing.T) {
	now := time.Now()
	g := newTestGenerator(7, now)
	types := map[Type]bool{}
	sevs := map[Severity]bool{}
	hours := map[int]bool{}

	for _, r := range g.GenerateN(5000) {
		types[r.Type] = true
		sevs[r.Severity] = true
		hours[int(now.Truncate(time.Millisecond).Sub(r.Timestamp)/time.Hour)] = true
	}
	assert.Len(t, types, len(Types))
	assert.Len(t, sevs, len(Severities))
	assert.Len(t, hours, MaxBackdateHours+1)
}

func TestGenerateUniqueIDs(t *testing.T) {
	g := NewGenerator(nil)
	seen := map[string]bool{}
	for _, r := range g.GenerateN(1000) {
		require.NotEmpty(t, r.ID)
		require.False(t, seen[r.ID], "duplicate id %s", r.ID)
		seen[r.ID] = true
	}
}

func TestGenerateUsesGivenCountries(t *testing.T) {
	only := []Country{{Name: "Norway", Lat: 60.472, Lng: 8.4689}}
	g := NewGenerator(only, WithRand(rand.New(rand.NewSource(1))))
	for _, r := range g.GenerateN(50) {
		assert.Equal(t, "Norway", r.Country)
	}
	only[0].Name = "mutated"
	assert.Equal(t, "Norway", g.Countries()[0].Name, "generator keeps its own copy")
}

func TestRecordJSONFieldNames(t *testing.T) {
	r := Record{
		ID: "x", Type: SQLInjection, Severity: Critical, Country: "USA",
		Lat: 1.5, Lng: -2.5, Timestamp: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), IP: "1.2.3.4",
	}
	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","type":"SQL Injection","severity":"Critical","country":"USA",
		"lat":1.5,"lng":-2.5,"timestamp":"2024-05-01T10:00:00Z","ip":"1.2.3.4"}`, string(b))
}

func TestSeverityHelpers(t *testing.T) {
	assert.True(t, High.IsAlerting())
	assert.True(t, Critical.IsAlerting())
	assert.False(t, Medium.IsAlerting())
	assert.False(t, Low.IsAlerting())
	assert.Equal(t, 3, Critical.Rank())
	assert.Equal(t, -1, Severity("Severe").Rank())
	assert.False(t, ValidType("all"))
}
