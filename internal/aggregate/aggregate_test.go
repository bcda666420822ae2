package aggregate

import (
	"math/rand"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/threat"
)

var now = time.Date(2024, 5, 1, 14, 20, 0, 0, time.UTC)

func generated(n int, seed int64) []threat.Record {
	g := threat.NewGenerator(nil, threat.WithRand(rand.New(rand.NewSource(seed))), threat.WithClock(func() time.Time { return now }))
	return g.GenerateN(n)
}

func TestScenarioCriticalOnly(t *testing.T) {
	store := []threat.Record{
		{ID: "1", Severity: threat.Critical, Type: threat.Malware, Country: "USA", IP: "1.2.3.4", Timestamp: now},
		{ID: "2", Severity: threat.Low, Type: threat.Phishing, Country: "Germany", IP: "5.6.7.8", Timestamp: now},
	}
	view := filter.Apply(store, filter.Criteria{Severity: "Critical", Type: filter.All})
	s := Compute(view, now)

	assert.Equal(t, []Count{
		{Label: "Low", Count: 0},
		{Label: "Medium", Count: 0},
		{Label: "High", Count: 0},
		{Label: "Critical", Count: 1},
	}, s.Severities)
	assert.Equal(t, []Count{{Label: "Malware", Count: 1}}, s.Types)
	assert.Equal(t, Stats{Total: 1, Critical: 1, Countries: 1}, s.Stats)
}

func TestSeverityCountsSumToViewLength(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		view := generated(int(seed)*7, seed)
		counts := SeverityCounts(view)
		require.Len(t, counts, 4)
		assert.Equal(t, len(view), Total(counts))
	}
}

func TestSeverityCountsEmptyViewZeroFilled(t *testing.T) {
	counts := SeverityCounts(nil)
	assert.Equal(t, []string{"Low", "Medium", "High", "Critical"}, Labels(counts))
	assert.Zero(t, Total(counts))
}

func TestTypeCountsFirstAppearanceOrderAndNoZeroes(t *testing.T) {
	view := []threat.Record{
		{Type: threat.DDoS}, {Type: threat.Botnet}, {Type: threat.DDoS}, {Type: threat.SQLInjection},
	}
	assert.Equal(t, []Count{
		{Label: "DDoS", Count: 2},
		{Label: "Botnet", Count: 1},
		{Label: "SQL Injection", Count: 1},
	}, TypeCounts(view))
	assert.Empty(t, TypeCounts(nil))
	assert.NotNil(t, TypeCounts(nil))
}

func TestHourlyWindowLabels(t *testing.T) {
	buckets := HourlyCounts(nil, now)
	require.Len(t, buckets, HoursInWindow)
	assert.Equal(t, "15:00", buckets[0].Label, "oldest hour first")
	assert.Equal(t, "14:00", buckets[HoursInWindow-1].Label, "current hour last")
	assert.Equal(t, "00:00", buckets[9].Label)
}

func TestHourlyCountsRecords(t *testing.T) {
	view := []threat.Record{
		{Timestamp: now},
		{Timestamp: now.Add(-time.Hour)},
		{Timestamp: now.Add(-time.Hour - 10*time.Minute)},
		{Timestamp: now.Add(-23 * time.Hour)},
	}
	buckets := HourlyCounts(view, now)
	byLabel := map[string]int{}
	for _, b := range buckets {
		byLabel[b.Label] = b.Count
	}
	assert.Equal(t, 1, byLabel["14:00"])
	assert.Equal(t, 2, byLabel["13:00"])
	assert.Equal(t, 1, byLabel["15:00"])
	assert.Equal(t, len(view), Total(buckets))
}

func TestHourlyAliasesAcrossDays(t *testing.T) {
	view := []threat.Record{
		{Timestamp: now.Add(-24 * time.Hour)},
		{Timestamp: now.Add(-72 * time.Hour)},
	}
	buckets := HourlyCounts(view, now)
	assert.Equal(t, Count{Label: "14:00", Count: 2}, buckets[HoursInWindow-1],
		"records days apart share the hour-of-day bucket")
}

func TestHourlyUsesLocationOfNow(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*60*60)
	local := now.In(loc)
	buckets := HourlyCounts([]threat.Record{{Timestamp: now}}, local)
	assert.Equal(t, Count{Label: "16:00", Count: 1}, buckets[HoursInWindow-1])
}

func TestHourlyDSTRepeatsLabelOnce(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	// 2024-11-03 01:00 happens twice in New York.
	end := time.Date(2024, 11, 3, 12, 0, 0, 0, ny)
	buckets := HourlyCounts([]threat.Record{{Timestamp: end.Add(-11 * time.Hour)}}, end)
	assert.Len(t, buckets, HoursInWindow-1)

	seen := map[string]bool{}
	for _, b := range buckets {
		assert.False(t, seen[b.Label], "label %s repeated", b.Label)
		seen[b.Label] = true
	}
	assert.Equal(t, 1, Total(buckets))
}

func TestHourlyTotalsForGeneratedRecords(t *testing.T) {
	view := generated(300, 3)
	buckets := HourlyCounts(view, now)
	assert.Equal(t, len(view), Total(buckets), "generated records all fall into the trailing window")
}

func TestComputeStatsDistinctCountries(t *testing.T) {
	view := []threat.Record{
		{Country: "USA", Severity: threat.Critical},
		{Country: "USA", Severity: threat.High},
		{Country: "Japan", Severity: threat.Critical},
	}
	assert.Equal(t, Stats{Total: 3, Critical: 2, Countries: 2}, ComputeStats(view))
	assert.Equal(t, Stats{}, ComputeStats(nil))
}

func TestLabelsValues(t *testing.T) {
	c := []Count{{Label: "a", Count: 2}, {Label: "b", Count: 5}}
	assert.Equal(t, []string{"a", "b"}, Labels(c))
	assert.Equal(t, []float64{2, 5}, Values(c))
}
