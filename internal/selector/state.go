package selector

import "github.com/treykane/shf/internal/fuzzy"

// State is the mutable query state of one session. It is owned by a single
// loop and never shared.
type State struct {
	candidates []string
	query      []rune
	cursor     int
	ranked     []fuzzy.Match
}

// NewState ranks candidates against the empty query.
func NewState(candidates []string) *State {
	s := &State{candidates: candidates}
	s.rerank()
	return s
}

// Query returns the current query text.
func (s *State) Query() string { return string(s.query) }

// Cursor returns the selected index into Ranked.
func (s *State) Cursor() int { return s.cursor }

// Ranked returns the matches for the current query, best first.
func (s *State) Ranked() []fuzzy.Match { return s.ranked }

// Frame snapshots the state for rendering.
func (s *State) Frame() Frame {
	return Frame{
		Query:    s.Query(),
		Matches:  s.ranked,
		Selected: s.cursor,
		Total:    len(s.candidates),
	}
}

// Apply folds one event into the state. done is true when the session is
// over, in which case out holds the result.
func (s *State) Apply(ev Event) (out Outcome, done bool) {
	switch ev.Kind {
	case EventRune:
		s.query = append(s.query, ev.Rune)
		s.rerank()
	case EventBackspace:
		if len(s.query) > 0 {
			s.query = s.query[:len(s.query)-1]
			s.rerank()
		}
	case EventUp:
		if s.cursor > 0 {
			s.cursor--
		}
	case EventDown:
		if s.cursor < len(s.ranked)-1 {
			s.cursor++
		}
	case EventConfirm:
		if len(s.ranked) == 0 {
			return Outcome{}, false
		}
		return Confirmed(s.ranked[s.cursor].Str), true
	case EventAbort:
		s.query = nil
		return Aborted, true
	}
	return Outcome{}, false
}

// rerank recomputes the full ranked list and resets the cursor to the top.
func (s *State) rerank() {
	s.ranked = fuzzy.Rank(string(s.query), s.candidates)
	s.cursor = 0
}
