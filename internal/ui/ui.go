// Package ui implements selector.Terminal on top of Bubble Tea.
//
// The picker draws on the controlling terminal (/dev/tty) rather than on
// stdout, so `ssh $(shf)` still gets an interactive picker while the chosen
// alias is the only thing written to stdout.
package ui

import (
	"fmt"
	"os"
	"strings"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/treykane/shf/internal/fuzzy"
	"github.com/treykane/shf/internal/selector"
	"github.com/treykane/shf/internal/util"
	"golang.org/x/term"
)

const (
	ttyPath         = "/dev/tty"
	defaultRows     = 10
	headerLines     = 2
	previewLines    = 3
	minPreviewWidth = 24
)

type options struct {
	prompt  string
	maxRows int
	preview func(alias string) string
	tty     *os.File
}

// Option configures a Terminal.
type Option func(*options)

// WithPrompt sets the text in front of the query.
func WithPrompt(p string) Option {
	return func(o *options) { o.prompt = p }
}

// WithMaxRows caps the number of result rows drawn. Zero means fit the
// terminal height.
func WithMaxRows(n int) Option {
	return func(o *options) { o.maxRows = n }
}

// WithPreview shows fn(selected alias) in a panel under the results.
func WithPreview(fn func(alias string) string) Option {
	return func(o *options) { o.preview = fn }
}

// WithTTY draws on f instead of opening /dev/tty. The caller keeps ownership
// of f.
func WithTTY(f *os.File) Option {
	return func(o *options) { o.tty = f }
}

// Terminal is a selector.Terminal backed by a Bubble Tea program. The
// program runs on its own goroutine; key events reach the selector loop through
// an eventQueue and frames travel back with Program.Send.
type Terminal struct {
	opts     options
	tty      *os.File
	ownsTTY  bool
	prog     *tea.Program
	queue    *eventQueue
	finished chan struct{}
	runErr   error
}

// New returns a Terminal. No terminal is touched until Enter.
func New(opts ...Option) *Terminal {
	o := options{prompt: util.DefaultPrompt}
	for _, opt := range opts {
		opt(&o)
	}
	return &Terminal{opts: o}
}

// Enter opens the tty, switches it to raw mode and starts the program.
func (t *Terminal) Enter() error {
	tty := t.opts.tty
	if tty == nil {
		f, err := os.OpenFile(ttyPath, os.O_RDWR, 0)
		if err != nil {
			return fmt.Errorf("%w: %v", selector.ErrNoTerminal, err)
		}
		tty = f
		t.ownsTTY = true
	}
	if !term.IsTerminal(int(tty.Fd())) {
		if t.ownsTTY {
			_ = tty.Close()
		}
		return fmt.Errorf("%w: %s is not a terminal", selector.ErrNoTerminal, tty.Name())
	}
	t.tty = tty

	t.queue = newEventQueue()
	t.finished = make(chan struct{})
	m := newPickerModel(t.queue, t.opts, lipgloss.NewRenderer(tty))
	t.prog = tea.NewProgram(m,
		tea.WithInput(tty),
		tea.WithOutput(tty),
		tea.WithAltScreen(),
	)
	go func() {
		_, err := t.prog.Run()
		t.runErr = err
		close(t.finished)
	}()
	return nil
}

// Exit stops the program, which restores the terminal, and releases the tty.
func (t *Terminal) Exit() error {
	if t.prog == nil {
		return nil
	}
	t.prog.Quit()
	<-t.finished
	t.prog = nil
	if t.ownsTTY {
		t.ownsTTY = false
		return t.tty.Close()
	}
	return nil
}

// NextEvent blocks until a key event arrives. If the program ends on its own,
// for example on a termination signal, the session is reported as aborted.
func (t *Terminal) NextEvent() (selector.Event, error) {
	for {
		if ev, ok := t.queue.pop(); ok {
			return ev, nil
		}
		select {
		case <-t.queue.ready:
		case <-t.finished:
			if ev, ok := t.queue.pop(); ok {
				return ev, nil
			}
			if t.runErr != nil {
				return selector.Event{}, fmt.Errorf("terminal program ended: %w", t.runErr)
			}
			return selector.Event{Kind: selector.EventAbort}, nil
		}
	}
}

// Render hands f to the program for painting.
func (t *Terminal) Render(f selector.Frame) error {
	select {
	case <-t.finished:
		return nil
	default:
	}
	t.prog.Send(frameMsg(f))
	return nil
}

type frameMsg selector.Frame

// eventQueue carries key events from the program to the selector loop. push
// never blocks the program's update loop, and nothing is dropped, so a long
// paste arrives whole.
type eventQueue struct {
	mu    sync.Mutex
	items []selector.Event
	ready chan struct{}
}

func newEventQueue() *eventQueue {
	return &eventQueue{ready: make(chan struct{}, 1)}
}

func (q *eventQueue) push(evs ...selector.Event) {
	if len(evs) == 0 {
		return
	}
	q.mu.Lock()
	q.items = append(q.items, evs...)
	q.mu.Unlock()
	select {
	case q.ready <- struct{}{}:
	default:
	}
}

func (q *eventQueue) pop() (selector.Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return selector.Event{}, false
	}
	ev := q.items[0]
	q.items = q.items[1:]
	return ev, true
}

type pickerModel struct {
	events *eventQueue
	keys   keyMap
	styles styles
	opts   options
	frame  selector.Frame
	width  int
	height int
}

func newPickerModel(events *eventQueue, opts options, r *lipgloss.Renderer) pickerModel {
	return pickerModel{
		events: events,
		keys:   defaultKeyMap(),
		styles: newStyles(r),
		opts:   opts,
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.frame = selector.Frame(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		m.events.push(m.keys.translate(msg)...)
	}
	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.prompt.Render(m.opts.prompt))
	b.WriteString(m.frame.Query)
	b.WriteString(m.styles.cursor.Render(" "))
	b.WriteString("\n")
	b.WriteString(m.styles.counter.Render(fmt.Sprintf("  %d/%d  %s", len(m.frame.Matches), m.frame.Total, m.keys.helpLine())))
	b.WriteString("\n")

	matches := m.frame.Matches
	if len(matches) == 0 {
		b.WriteString(m.styles.empty.Render("  (no hosts matched)"))
		b.WriteString("\n")
		return b.String()
	}

	rows := m.visibleRows()
	start, end := window(m.frame.Selected, len(matches), rows)
	for i := start; i < end; i++ {
		b.WriteString(m.renderRow(matches[i], i == m.frame.Selected))
		b.WriteString("\n")
	}

	if m.opts.preview != nil && m.frame.Selected < len(matches) {
		body := m.opts.preview(matches[m.frame.Selected].Str)
		b.WriteString(m.renderPanel(body))
	}
	return b.String()
}

func (m pickerModel) renderRow(mt fuzzy.Match, selected bool) string {
	base := m.styles.item
	cursor := "  "
	if selected {
		base = m.styles.selected
		cursor = m.styles.selected.Render("> ")
	}
	hl := m.styles.highlight.Inherit(base)

	marked := make(map[int]bool, len(mt.MatchedIndexes))
	for _, i := range mt.MatchedIndexes {
		marked[i] = true
	}

	var b strings.Builder
	b.WriteString(cursor)
	runes := []rune(mt.Str)
	for i := 0; i < len(runes); {
		j := i
		for j < len(runes) && marked[j] == marked[i] {
			j++
		}
		seg := string(runes[i:j])
		if marked[i] {
			b.WriteString(hl.Render(seg))
		} else {
			b.WriteString(base.Render(seg))
		}
		i = j
	}
	return b.String()
}

func (m pickerModel) renderPanel(body string) string {
	width := m.effectiveWidth()
	if width < minPreviewWidth {
		width = minPreviewWidth
	}
	return m.styles.panel.Width(width - 2).Render(strings.TrimSuffix(body, "\n"))
}

func (m pickerModel) visibleRows() int {
	rows := defaultRows
	if m.height > 0 {
		rows = m.height - headerLines
		if m.opts.preview != nil {
			rows -= previewLines
		}
	}
	if m.opts.maxRows > 0 && rows > m.opts.maxRows {
		rows = m.opts.maxRows
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

func (m pickerModel) effectiveWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

// window returns the half-open range of rows to draw so that selected stays
// visible.
func window(selected, total, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := 0
	if selected >= rows {
		start = selected - rows + 1
	}
	return start, start + rows
}
