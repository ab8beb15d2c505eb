package ui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	prompt    lipgloss.Style
	cursor    lipgloss.Style
	counter   lipgloss.Style
	item      lipgloss.Style
	selected  lipgloss.Style
	highlight lipgloss.Style
	empty     lipgloss.Style
	panel     lipgloss.Style
}

// newStyles binds every style to r so colors follow the tty being drawn on,
// not stdout.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		prompt:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		cursor:    r.NewStyle().Reverse(true),
		counter:   r.NewStyle().Foreground(lipgloss.Color("244")),
		item:      r.NewStyle(),
		selected:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		highlight: r.NewStyle().Foreground(lipgloss.Color("69")).Underline(true),
		empty:     r.NewStyle().Foreground(lipgloss.Color("244")).Italic(true),
		panel: r.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1),
	}
}
