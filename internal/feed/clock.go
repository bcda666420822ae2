package feed

import (
	"sync"
	"time"
)

// Clock is the time source of the dashboard. The real clock wraps package
// time, ManualClock lets tests fire ticks without waiting.
type Clock interface {
	Now() time.Time
	NewTicker(d time.Duration) Ticker
}

// Ticker delivers ticks on C until Stop is called.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// RealClock is the wall clock.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

func (RealClock) NewTicker(d time.Duration) Ticker {
	return realTicker{time.NewTicker(d)}
}

type realTicker struct{ t *time.Ticker }

func (r realTicker) C() <-chan time.Time { return r.t.C }
func (r realTicker) Stop()               { r.t.Stop() }

// ManualClock is a Clock whose time only moves when told to.
type ManualClock struct {
	mu      sync.Mutex
	now     time.Time
	tickers []*ManualTicker
}

func NewManualClock(now time.Time) *ManualClock {
	return &ManualClock{now: now}
}

func (m *ManualClock) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set moves the clock to t without firing tickers.
func (m *ManualClock) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *ManualClock) NewTicker(d time.Duration) Ticker {
	m.mu.Lock()
	defer m.mu.Unlock()
	t := &ManualTicker{clock: m, period: d, c: make(chan time.Time)}
	m.tickers = append(m.tickers, t)
	return t
}

// Tickers returns every ticker created so far, stopped ones included.
func (m *ManualClock) Tickers() []*ManualTicker {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTicker(nil), m.tickers...)
}

// Active returns the tickers that have not been stopped.
func (m *ManualClock) Active() []*ManualTicker {
	var out []*ManualTicker
	for _, t := range m.Tickers() {
		if !t.Stopped() {
			out = append(out, t)
		}
	}
	return out
}

// ManualTicker fires only through Fire. Its channel is unbuffered, so Fire
// returns once the receiver has taken the tick.
type ManualTicker struct {
	clock   *ManualClock
	period  time.Duration
	c       chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (t *ManualTicker) C() <-chan time.Time { return t.c }

func (t *ManualTicker) Stop() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}

func (t *ManualTicker) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *ManualTicker) Period() time.Duration { return t.period }

// Fire advances the clock by one period and delivers the tick. It reports
// false, without advancing, if the ticker has been stopped or the tick was
// not taken before timeout.
func (t *ManualTicker) Fire(timeout time.Duration) bool {
	if t.Stopped() {
		return false
	}
	t.clock.mu.Lock()
	t.clock.now = t.clock.now.Add(t.period)
	now := t.clock.now
	t.clock.mu.Unlock()

	select {
	case t.c <- now:
		return true
	case <-time.After(timeout):
		t.clock.mu.Lock()
		t.clock.now = t.clock.now.Add(-t.period)
		t.clock.mu.Unlock()
		return false
	}
}
