// Package feed implements the live feed scheduler: a single repeating timer
// toggled between Idle and Running.
package feed

import (
	"time"

	"github.com/cockroachdb/errors"

	"go.uber.org/zap"
)

// DefaultInterval is the live feed period.
const DefaultInterval = 3 * time.Second

// State of the live feed.
type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(b []byte) error {
	switch string(b) {
	case "running":
		*s = Running
	case "idle":
		*s = Idle
	default:
		return errors.Newf("unknown feed state %q", b)
	}
	return nil
}

// Scheduler owns at most one ticker. It is driven from the dashboard loop
// and is not safe for concurrent use.
type Scheduler struct {
	clock    Clock
	interval time.Duration
	ticker   Ticker
	log      *zap.Logger
}

func NewScheduler(clock Clock, interval time.Duration, log *zap.Logger) *Scheduler {
	if clock == nil {
		clock = RealClock{}
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{clock: clock, interval: interval, log: log}
}

func (s *Scheduler) State() State {
	if s.ticker != nil {
		return Running
	}
	return Idle
}

func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Toggle flips between Idle and Running and returns the new state.
func (s *Scheduler) Toggle() State {
	if s.ticker != nil {
		s.stop()
		return Idle
	}
	s.ticker = s.clock.NewTicker(s.interval)
	s.log.Info("live feed started", zap.Duration("interval", s.interval))
	return Running
}

// Stop cancels the ticker if running. It is used on shutdown.
func (s *Scheduler) Stop() {
	if s.ticker != nil {
		s.stop()
	}
}

func (s *Scheduler) stop() {
	s.ticker.Stop()
	s.ticker = nil
	s.log.Info("live feed stopped")
}

// C returns the tick channel while Running and nil while Idle, so a select
// on it blocks forever once the feed is stopped.
func (s *Scheduler) C() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}
