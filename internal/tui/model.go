package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/voxtrace/voxtrace/internal/config"
)

// Stage is one phase of work the dashboard tracks: SVO construction,
// BVH construction, or frame rendering. The teacher's dashboard model
// tracks building/floor/equipment counts the same way — a label plus
// a current/total pair (internal/tui/models/building_explorer.go).
type Stage struct {
	Label   string
	Current int
	Total   int
	Detail  string
}

func (s Stage) fraction() float64 {
	if s.Total <= 0 {
		return 0
	}
	f := float64(s.Current) / float64(s.Total)
	if f > 1 {
		f = 1
	}
	return f
}

// ProgressMsg is sent over a Reporter's channel to advance one named
// stage. Stage names not yet seen are appended to the model in
// first-seen order.
type ProgressMsg struct {
	Stage   string
	Current int
	Total   int
	Detail  string
}

// DoneMsg marks the whole run finished, successfully or not.
type DoneMsg struct {
	Err error
}

type tickMsg time.Time

// Model is the bubbletea model for the build/render dashboard.
type Model struct {
	styles Styles
	title  string

	order  []string
	stages map[string]Stage

	updates <-chan interface{}
	started time.Time
	done    bool
	err     error
	width   int
}

// NewModel constructs a dashboard model titled title, reading
// progress off updates until it receives a DoneMsg.
func NewModel(cfg config.TUIConfig, title string, updates <-chan interface{}) Model {
	return Model{
		styles:  NewStyles(cfg.Theme),
		title:   title,
		stages:  make(map[string]Stage),
		updates: updates,
		started: time.Now(),
	}
}

// Init starts listening for progress messages and a 10Hz repaint
// tick, mirroring the teacher's WindowSizeMsg-driven layout recompute
// pattern (internal/tui/models/building_explorer.go's Update).
func (m Model) Init() tea.Cmd {
	return tea.Batch(waitForUpdate(m.updates), tickEvery())
}

func waitForUpdate(ch <-chan interface{}) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return DoneMsg{}
		}
		return msg
	}
}

func tickEvery() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update handles bubbletea messages: window resize, progress updates
// from the render/build goroutine, and the quit keys.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		if _, seen := m.stages[msg.Stage]; !seen {
			m.order = append(m.order, msg.Stage)
		}
		m.stages[msg.Stage] = Stage{Label: msg.Stage, Current: msg.Current, Total: msg.Total, Detail: msg.Detail}
		return m, waitForUpdate(m.updates)

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tickMsg:
		if m.done {
			return m, nil
		}
		return m, tickEvery()
	}
	return m, nil
}

// View renders one progress bar per stage seen so far plus an elapsed
// timer, the way the teacher's dashboard renders one panel per
// subsystem (internal/tui/models).
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n\n")

	for _, name := range m.order {
		s := m.stages[name]
		b.WriteString(m.styles.Label.Render(fmt.Sprintf("%-16s", s.Label)))
		b.WriteString(" ")
		b.WriteString(renderBar(m.styles, s.fraction(), 30))
		b.WriteString(" ")
		b.WriteString(m.styles.Value.Render(fmt.Sprintf("%d/%d", s.Current, s.Total)))
		if s.Detail != "" {
			b.WriteString("  ")
			b.WriteString(m.styles.Label.Render(s.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}
	elapsed := time.Since(m.started).Round(10 * time.Millisecond)
	b.WriteString(m.styles.Footer.Render(fmt.Sprintf("elapsed %s · q to quit", elapsed)))
	return b.String()
}

func renderBar(styles Styles, frac float64, width int) string {
	filled := int(frac * float64(width))
	if filled > width {
		filled = width
	}
	return styles.BarDone.Render(strings.Repeat("█", filled)) +
		styles.Bar.Render(strings.Repeat("░", width-filled))
}
