package tui

import tea "github.com/charmbracelet/bubbletea"

// Reporter is the producer side of a dashboard run: the build/render
// goroutine calls Progress as work advances and Done exactly once
// when it finishes (successfully or not).
type Reporter struct {
	ch chan interface{}
}

// NewReporter creates a Reporter and the channel its paired Model
// reads from. The channel is unbuffered by design — Progress blocks
// until the dashboard has drained the previous message, which keeps
// the dashboard from falling behind a fast build and rendering a
// stale bar at the end.
func NewReporter() (*Reporter, <-chan interface{}) {
	ch := make(chan interface{})
	return &Reporter{ch: ch}, ch
}

// Progress reports that stage has reached current out of total, with
// an optional free-text detail (e.g. "128 nodes").
func (r *Reporter) Progress(stage string, current, total int, detail string) {
	r.ch <- ProgressMsg{Stage: stage, Current: current, Total: total, Detail: detail}
}

// Done signals the run is finished; err is nil on success.
func (r *Reporter) Done(err error) {
	r.ch <- DoneMsg{Err: err}
	close(r.ch)
}

// Run drives model m to completion in an alt-screen bubbletea
// program, matching the teacher's tea.NewProgram(..., tea.WithAltScreen())
// invocation (internal/tui/main.go).
func Run(m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
