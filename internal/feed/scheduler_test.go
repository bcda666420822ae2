package feed

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var start = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestToggleFlipsState(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, 0, nil)
	assert.Equal(t, DefaultInterval, s.Interval())
	assert.Equal(t, Idle, s.State())
	assert.Nil(t, s.C())

	assert.Equal(t, Running, s.Toggle())
	require.Len(t, clock.Active(), 1)
	assert.Equal(t, DefaultInterval, clock.Active()[0].Period())
	assert.NotNil(t, s.C())

	assert.Equal(t, Idle, s.Toggle())
	assert.Empty(t, clock.Active(), "stopping cancels the only ticker")
	assert.Nil(t, s.C())
}

func TestOnlyOneTickerActive(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, time.Second, nil)
	for i := 0; i < 5; i++ {
		s.Toggle()
		assert.LessOrEqual(t, len(clock.Active()), 1)
	}
	assert.Equal(t, Running, s.State())
	assert.Len(t, clock.Tickers(), 3)

	s.Stop()
	s.Stop()
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, clock.Active())
}

func TestManualTickerFire(t *testing.T) {
	clock := NewManualClock(start)
	s := NewScheduler(clock, 3*time.Second, nil)
	s.Toggle()
	ticker := clock.Active()[0]

	got := make(chan time.Time, 1)
	go func() { got <- <-s.C() }()

	require.True(t, ticker.Fire(time.Second))
	assert.Equal(t, start.Add(3*time.Second), <-got)
	assert.Equal(t, start.Add(3*time.Second), clock.Now())

	assert.False(t, ticker.Fire(10*time.Millisecond), "nobody is receiving")
	assert.Equal(t, start.Add(3*time.Second), clock.Now(), "an untaken tick does not advance time")

	s.Toggle()
	assert.False(t, ticker.Fire(time.Second), "a stopped ticker never fires")
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "running", Running.String())
	b, err := Idle.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "idle", string(b))
}

func TestStateTextRoundTrip(t *testing.T) {
	for _, st := range []State{Idle, Running} {
		b, err := json.Marshal(st)
		require.NoError(t, err)

		var got State
		require.NoError(t, json.Unmarshal(b, &got))
		assert.Equal(t, st, got)
	}
	assert.Equal(t, `"running"`, mustMarshal(t, Running))

	var got State
	assert.Error(t, json.Unmarshal([]byte(`"paused"`), &got))
}

func mustMarshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
