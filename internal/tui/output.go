package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ayusman/mudra/internal/engine"
)

// Output forwards pipeline output to a running program.
type Output struct {
	program *tea.Program
}

// NewOutput creates an Output for p.
func NewOutput(p *tea.Program) *Output {
	return &Output{program: p}
}

// Render sends snap to the program.
func (o *Output) Render(snap engine.Snapshot) {
	o.program.Send(SnapshotMsg{Snapshot: snap})
}

// Notify sends n to the program.
func (o *Output) Notify(n engine.Notice) {
	o.program.Send(NoticeMsg{Notice: n})
}
