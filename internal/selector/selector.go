// Package selector runs the interactive pick loop: it owns the query state,
// re-ranks candidates after every edit and asks a Terminal to paint frames
// and deliver key events.
package selector

import (
	"errors"
	"fmt"

	"github.com/treykane/shf/internal/fuzzy"
)

// ErrNoTerminal is returned when no controlling terminal can be put into
// interactive mode, for example when shf runs without a tty.
var ErrNoTerminal = errors.New("no controlling terminal available for interactive selection")

// EventKind enumerates the inputs the loop understands.
type EventKind int

const (
	EventRune EventKind = iota
	EventBackspace
	EventUp
	EventDown
	EventConfirm
	EventAbort
)

func (k EventKind) String() string {
	switch k {
	case EventRune:
		return "rune"
	case EventBackspace:
		return "backspace"
	case EventUp:
		return "up"
	case EventDown:
		return "down"
	case EventConfirm:
		return "confirm"
	case EventAbort:
		return "abort"
	default:
		return fmt.Sprintf("EventKind(%d)", int(k))
	}
}

// Event is one input from the terminal. Rune is only set for EventRune.
type Event struct {
	Kind EventKind
	Rune rune
}

// Frame is everything a Terminal needs to paint the picker.
type Frame struct {
	Query    string
	Matches  []fuzzy.Match
	Selected int
	Total    int
}

// Terminal is the rendering and input substrate the loop drives.
type Terminal interface {
	// Enter switches the terminal into interactive mode.
	Enter() error
	// Exit restores the terminal. It is called once after a successful Enter.
	Exit() error
	// NextEvent blocks until the operator produces an input.
	NextEvent() (Event, error)
	// Render paints f.
	Render(f Frame) error
}

// Outcome is the result of one session: a confirmed candidate or an abort.
type Outcome struct {
	Value     string
	Confirmed bool
}

// Confirmed returns the outcome for a chosen candidate.
func Confirmed(v string) Outcome {
	return Outcome{Value: v, Confirmed: true}
}

// Aborted is the outcome of a session the operator cancelled.
var Aborted = Outcome{}

// Run drives one interactive session over candidates. candidates must be
// non-empty; callers short-circuit on an empty set.
func Run(term Terminal, candidates []string) (out Outcome, err error) {
	if len(candidates) == 0 {
		return Aborted, errors.New("selector: no candidates")
	}
	if err := term.Enter(); err != nil {
		if errors.Is(err, ErrNoTerminal) {
			return Aborted, err
		}
		return Aborted, fmt.Errorf("%w: %v", ErrNoTerminal, err)
	}
	defer func() {
		if exitErr := term.Exit(); exitErr != nil && err == nil {
			err = fmt.Errorf("restore terminal: %w", exitErr)
		}
	}()

	st := NewState(candidates)
	for {
		if err := term.Render(st.Frame()); err != nil {
			return Aborted, fmt.Errorf("render: %w", err)
		}
		ev, err := term.NextEvent()
		if err != nil {
			return Aborted, fmt.Errorf("read input: %w", err)
		}
		if out, done := st.Apply(ev); done {
			return out, nil
		}
	}
}
