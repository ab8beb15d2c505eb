package ui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/treykane/shf/internal/selector"
)

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Backspace key.Binding
	Confirm   key.Binding
	Abort     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "ctrl+p", "ctrl+k"),
			key.WithHelp("↑/ctrl+p", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "ctrl+n", "ctrl+j"),
			key.WithHelp("↓/ctrl+n", "down"),
		),
		Backspace: key.NewBinding(
			key.WithKeys("backspace", "ctrl+h"),
			key.WithHelp("backspace", "delete"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Abort: key.NewBinding(
			key.WithKeys("esc", "ctrl+c", "ctrl+g", "ctrl+q"),
			key.WithHelp("esc", "abort"),
		),
	}
}

// translate maps one key press to the selector events it stands for. Pasted
// text arrives as a single message and yields one event per rune.
func (k keyMap) translate(msg tea.KeyMsg) []selector.Event {
	switch {
	case key.Matches(msg, k.Abort):
		return []selector.Event{{Kind: selector.EventAbort}}
	case key.Matches(msg, k.Confirm):
		return []selector.Event{{Kind: selector.EventConfirm}}
	case key.Matches(msg, k.Up):
		return []selector.Event{{Kind: selector.EventUp}}
	case key.Matches(msg, k.Down):
		return []selector.Event{{Kind: selector.EventDown}}
	case key.Matches(msg, k.Backspace):
		return []selector.Event{{Kind: selector.EventBackspace}}
	}
	switch msg.Type {
	case tea.KeySpace:
		return []selector.Event{{Kind: selector.EventRune, Rune: ' '}}
	case tea.KeyRunes:
		if msg.Alt {
			return nil
		}
		evs := make([]selector.Event, 0, len(msg.Runes))
		for _, r := range msg.Runes {
			evs = append(evs, selector.Event{Kind: selector.EventRune, Rune: r})
		}
		return evs
	}
	return nil
}

func (k keyMap) helpLine() string {
	out := ""
	for i, b := range []key.Binding{k.Up, k.Down, k.Confirm, k.Abort} {
		if i > 0 {
			out += " | "
		}
		h := b.Help()
		out += h.Key + " " + h.Desc
	}
	return out
}
