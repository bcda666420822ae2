package tui

import (
	"github.com/pynezz/cybermap/internal/dashboard"
	"github.com/pynezz/cybermap/internal/filter"
	"github.com/pynezz/cybermap/internal/threat"
)

type Action int

const (
	None Action = iota
	Submit
	Redraw
	Quit
)

// KeyResult tells the event loop what a key press means.
type KeyResult struct {
	Action  Action
	Command dashboard.Command
}

// Keys maps termui key ids onto dashboard commands. While the search prompt
// is open every printable key edits the search term instead.
type Keys struct {
	editing bool
	input   []rune
}

// Prompt returns the search term being edited and whether the prompt is open.
func (k *Keys) Prompt() (string, bool) {
	return string(k.input), k.editing
}

func (k *Keys) Handle(id string, cur filter.Criteria) KeyResult {
	if id == "<C-c>" {
		return KeyResult{Action: Quit}
	}
	if k.editing {
		return k.edit(id, cur)
	}

	switch id {
	case "q":
		return KeyResult{Action: Quit}
	case "r":
		return submit(dashboard.NewReload())
	case "l":
		return submit(dashboard.NewToggleFeed())
	case "s":
		return submit(dashboard.NewToggleSound())
	case "e":
		return submit(dashboard.NewExport())
	case "f":
		cur.Severity = NextSeverity(cur.Severity)
		return submit(dashboard.NewSetFilter(cur))
	case "t":
		cur.Type = NextType(cur.Type)
		return submit(dashboard.NewSetFilter(cur))
	case "/":
		k.editing = true
		k.input = []rune(cur.Search)
		return KeyResult{Action: Redraw}
	}
	return KeyResult{}
}

func (k *Keys) edit(id string, cur filter.Criteria) KeyResult {
	switch id {
	case "<Escape>":
		k.close()
		return KeyResult{Action: Redraw}
	case "<Enter>":
		cur.Search = string(k.input)
		k.close()
		return submit(dashboard.NewSetFilter(cur))
	case "<Backspace>", "<C-<Backspace>>":
		if len(k.input) > 0 {
			k.input = k.input[:len(k.input)-1]
		}
		return KeyResult{Action: Redraw}
	case "<Space>":
		k.input = append(k.input, ' ')
		return KeyResult{Action: Redraw}
	}

	if r := []rune(id); len(r) == 1 {
		k.input = append(k.input, r[0])
		return KeyResult{Action: Redraw}
	}
	return KeyResult{}
}

func (k *Keys) close() {
	k.editing = false
	k.input = nil
}

func submit(cmd dashboard.Command) KeyResult {
	return KeyResult{Action: Submit, Command: cmd}
}

// NextSeverity cycles all, Low, Medium, High, Critical, all.
func NextSeverity(cur string) string {
	names := make([]string, len(threat.Severities))
	for i, s := range threat.Severities {
		names[i] = string(s)
	}
	return next(names, cur)
}

// NextType cycles all, then every threat type in display order.
func NextType(cur string) string {
	names := make([]string, len(threat.Types))
	for i, t := range threat.Types {
		names[i] = string(t)
	}
	return next(names, cur)
}

func next(values []string, cur string) string {
	for i, v := range values {
		if v == cur {
			if i+1 < len(values) {
				return values[i+1]
			}
			return filter.All
		}
	}
	return values[0]
}
