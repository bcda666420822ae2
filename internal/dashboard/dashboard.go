// Package dashboard owns the threat store and runs every change to it through
// one synchronous pipeline: mutate, filter, aggregate, render.
package dashboard

import (
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pynezz/cybermap/internal/aggregate"
	"github.com/pynezz/cybermap/internal/alert"
	"github.com/pynezz/cybermap/internal/export"
	"github.com/pynezz/cybermap/internal/feed"
	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/render"
	"github.com/pynezz/cybermap/internal/store"
	"github.com/pynezz/cybermap/internal/threat"
)

const (
	DefaultReloadMin = 50
	DefaultReloadMax = 100

	StatusLoading     = "Loading threat data..."
	StatusFeedStarted = "Live feed started"
	StatusFeedStopped = "Live feed stopped"
	StatusSoundOn     = "Sound on"
	StatusSoundOff    = "Sound off"
)

// Auditor records exports. *database.Repository implements it.
type Auditor interface {
	RecordExport(filename string, records int) error
}

// Options configures a Dashboard. Zero values select the defaults.
type Options struct {
	Clock     feed.Clock
	Interval  time.Duration
	Capacity  int
	ReloadMin int
	ReloadMax int // exclusive
	FeedSize  int
	Sound     bool
	Criteria  filter.Criteria
	Renderer  render.Renderer
	Player    alert.Player
	Auditor   Auditor
	Log       *zap.Logger
}

// Outcome is the result of one handled command.
type Outcome struct {
	Frame render.Frame

	// Set by Export only.
	Export   []byte
	Filename string

	// Added is the number of records generated by the command.
	Added   int
	Alerted bool
}

// Dashboard is the controller. Handle must only be called from one goroutine
// at a time, normally the Run loop; Snapshot is safe from anywhere.
type Dashboard struct {
	gen      *threat.Generator
	store    *store.Store
	sched    *feed.Scheduler
	clock    feed.Clock
	renderer render.Renderer
	player   alert.Player
	auditor  Auditor
	log      *zap.Logger

	reloadMin, reloadMax int
	feedSize             int
	sound                bool
	criteria             filter.Criteria
	status               string

	mu    sync.RWMutex
	frame render.Frame

	requests chan request
	done     chan struct{}
	runOnce  sync.Once
}

func New(gen *threat.Generator, opts Options) *Dashboard {
	if opts.Clock == nil {
		opts.Clock = feed.RealClock{}
	}
	if opts.Renderer == nil {
		opts.Renderer = render.Discard
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.ReloadMin < 0 || opts.ReloadMax <= opts.ReloadMin {
		opts.ReloadMin, opts.ReloadMax = DefaultReloadMin, DefaultReloadMax
	}

	d := &Dashboard{
		gen:       gen,
		store:     store.New(opts.Capacity),
		sched:     feed.NewScheduler(opts.Clock, opts.Interval, opts.Log.Named("feed")),
		clock:     opts.Clock,
		renderer:  opts.Renderer,
		player:    opts.Player,
		auditor:   opts.Auditor,
		log:       opts.Log,
		reloadMin: opts.ReloadMin,
		reloadMax: opts.ReloadMax,
		feedSize:  opts.FeedSize,
		sound:     opts.Sound,
		criteria:  opts.Criteria.Normalize(),
		requests:  make(chan request),
		done:      make(chan struct{}),
	}
	d.setFrame(d.build())
	return d
}

// Snapshot returns the most recently built frame.
func (d *Dashboard) Snapshot() render.Frame {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.frame
}

// Handle applies cmd and runs the pipeline. Only invalid commands fail.
func (d *Dashboard) Handle(cmd Command) (out Outcome, err error) {
	if err := cmd.Validate(); err != nil {
		return Outcome{}, err
	}

	switch cmd.Kind {
	case Reload:
		d.status = StatusLoading
		d.publish()

		n := d.reloadMin + d.gen.Intn(d.reloadMax-d.reloadMin)
		d.store.Reload(d.gen.GenerateN(n))
		out.Added = n
		d.status = fmt.Sprintf("Loaded %d threats", d.store.Len())
		d.log.Info("threat data reloaded", zap.Int("records", d.store.Len()))

	case ToggleFeed:
		if d.sched.Toggle() == feed.Running {
			d.status = StatusFeedStarted
		} else {
			d.status = StatusFeedStopped
		}

	case ToggleSound:
		d.setSound(!d.sound)

	case SetSound:
		d.setSound(cmd.Sound)

	case SetFilter:
		d.criteria = cmd.Criteria.Normalize()

	case Export:
		records := d.store.Records()
		b, err := export.JSON(records)
		if err != nil {
			// Records are plain values, encoding cannot fail in practice.
			return Outcome{}, err
		}
		out.Export = b
		out.Filename = export.Filename(d.clock.Now())
		d.audit(out.Filename, len(records))
		d.status = fmt.Sprintf("Exported %d threats", len(records))
		d.log.Info("threat data exported", zap.String("filename", out.Filename), zap.Int("records", len(records)))

	case Tick:
		if d.sched.State() != feed.Running {
			d.log.Debug("tick ignored, live feed is idle")
			return Outcome{Frame: d.Snapshot()}, nil
		}
		r := d.gen.Generate()
		d.store.Prepend(r)
		out.Added = 1
		// The cue follows the frame showing the new record.
		defer func() {
			out.Alerted = alert.MaybeAlert(d.player, r.Severity, d.sound)
		}()
	}

	out.Frame = d.publish()
	d.log.Debug("pipeline run",
		zap.Stringer("command", cmd.Kind),
		zap.Int("store", d.store.Len()),
		zap.Int("view", len(out.Frame.Markers)))
	return out, nil
}

func (d *Dashboard) setSound(enabled bool) {
	d.sound = enabled
	if enabled {
		d.status = StatusSoundOn
	} else {
		d.status = StatusSoundOff
	}
}

func (d *Dashboard) audit(filename string, records int) {
	if d.auditor == nil {
		return
	}
	if err := d.auditor.RecordExport(filename, records); err != nil {
		d.log.Warn("failed to record export", zap.String("filename", filename), zap.Error(err))
	}
}

// build recomputes the filtered view, its aggregates and the frame from scratch.
func (d *Dashboard) build() render.Frame {
	now := d.clock.Now()
	view := filter.Apply(d.store.View(), d.criteria)

	f := render.Build(render.Input{
		View:     view,
		Summary:  aggregate.Compute(view, now),
		Now:      now,
		FeedSize: d.feedSize,
	})
	f.FeedState = d.sched.State()
	f.Sound = d.sound
	f.Criteria = d.criteria
	f.Status = d.status
	f.StoreSize = d.store.Len()
	return f
}

func (d *Dashboard) publish() render.Frame {
	f := d.build()
	d.setFrame(f)
	d.renderer.Render(f)
	return f
}

func (d *Dashboard) setFrame(f render.Frame) {
	d.mu.Lock()
	d.frame = f
	d.mu.Unlock()
}
