package dashboard

import (
	"github.com/cockroachdb/errors"

	"github.com/pynezz/cybermap/internal/filter"
)

var ErrInvalidCommand = errors.New("invalid command")

// Kind enumerates everything that can change the dashboard.
type Kind int

const (
	Reload Kind = iota + 1
	ToggleFeed
	ToggleSound
	SetSound
	SetFilter
	Export
	// Tick is raised by the live feed; it cannot be submitted.
	Tick
)

var kindNames = map[Kind]string{
	Reload:      "reload",
	ToggleFeed:  "toggle_feed",
	ToggleSound: "toggle_sound",
	SetSound:    "set_sound",
	SetFilter:   "set_filter",
	Export:      "export",
	Tick:        "tick",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind maps a wire name to a submittable kind.
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if n == name && k != Tick {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrInvalidCommand, "unknown command %q", name)
}

// Command is one entry of the dashboard's input stream. Criteria is only
// read by SetFilter and Sound only by SetSound.
type Command struct {
	Kind     Kind
	Criteria filter.Criteria
	Sound    bool
}

func NewReload() Command      { return Command{Kind: Reload} }
func NewToggleFeed() Command  { return Command{Kind: ToggleFeed} }
func NewToggleSound() Command { return Command{Kind: ToggleSound} }
func NewExport() Command      { return Command{Kind: Export} }

func NewSetSound(enabled bool) Command {
	return Command{Kind: SetSound, Sound: enabled}
}

func NewSetFilter(c filter.Criteria) Command {
	return Command{Kind: SetFilter, Criteria: c.Normalize()}
}

// Validate rejects unknown kinds and filters outside the closed sets.
func (c Command) Validate() error {
	if _, ok := kindNames[c.Kind]; !ok {
		return errors.Wrapf(ErrInvalidCommand, "unknown command kind %d", int(c.Kind))
	}
	if c.Kind == SetFilter {
		if err := c.Criteria.Validate(); err != nil {
			return errors.Mark(errors.Wrap(err, "set_filter"), ErrInvalidCommand)
		}
	}
	return nil
}
