// Package tui is the terminal interface: it renders engine snapshots and
// turns key presses into engine commands.
package tui

import (
	"fmt"
	"sort"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ayusman/mudra/internal/engine"
	"github.com/ayusman/mudra/internal/gesture"
)

const (
	maxNotices    = 4
	readinessBar  = 20
	historyLength = 10
)

// CommandSink accepts commands for the pipeline without blocking.
type CommandSink interface {
	Send(cmd engine.Command) bool
}

// Model is the root bubbletea model.
type Model struct {
	sink CommandSink

	snap    engine.Snapshot
	hasSnap bool
	notices []engine.Notice

	// quitting is set once quit was sent; the program exits when the
	// pipeline reports it has stopped.
	quitting bool
	done     bool
	err      error

	showHelp bool
	width    int
	height   int
}

// New creates a Model that sends commands to sink.
func New(sink CommandSink) Model {
	return Model{sink: sink}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case SnapshotMsg:
		m.snap = msg.Snapshot
		m.hasSnap = true
		return m, nil

	case NoticeMsg:
		m.notices = append(m.notices, msg.Notice)
		if len(m.notices) > maxNotices {
			m.notices = m.notices[len(m.notices)-maxNotices:]
		}
		return m, nil

	case PipelineDoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	}

	return m, nil
}

// handleKey processes key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == KeyHelp {
		m.showHelp = !m.showHelp
		return m, nil
	}

	cmd, ok := CommandForKey(key)
	if !ok {
		return m, nil
	}

	if cmd == engine.CommandQuit {
		// A second quit leaves without waiting for the pipeline.
		if m.quitting {
			return m, tea.Quit
		}
		m.quitting = true
	}

	m.sink.Send(cmd)
	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if m.done {
		return ""
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("mudra"))
	b.WriteString(StatusStyle.Render("  finger spelling"))
	b.WriteString("\n\n")

	if !m.hasSnap {
		b.WriteString(StatusStyle.Render("Waiting for camera..."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderLetter())
		b.WriteString("\n")
		b.WriteString(m.renderReadiness())
		b.WriteString("\n\n")
		b.WriteString(m.renderSentence())
		b.WriteString("\n")
		b.WriteString(m.renderStatus())
		b.WriteString("\n")
	}

	if len(m.notices) > 0 {
		b.WriteString("\n")
		for _, n := range m.notices {
			b.WriteString(renderNotice(n))
			b.WriteString("\n")
		}
	}

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(renderLetterTable())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.quitting {
		b.WriteString(StatusStyle.Render("Stopping... press q again to force quit"))
	} else {
		b.WriteString(renderFooter())
	}
	b.WriteString("\n")

	return b.String()
}

func (m Model) renderLetter() string {
	style := LetterStyle
	if m.snap.Accepted.IsLetter() {
		style = AcceptedLetterStyle
	}

	letter := style.Render(m.snap.Display.String())

	var detail string
	switch {
	case !m.snap.HandPresent:
		detail = "no hand"
	case m.snap.Display == gesture.Unknown:
		detail = "unknown pose"
	default:
		detail = fmt.Sprintf("%d/%d frames (need %d)", m.snap.Count, m.snap.Window, m.snap.Threshold)
	}

	return lipgloss.JoinHorizontal(lipgloss.Center, letter, "  ", StatusStyle.Render(detail))
}

func (m Model) renderReadiness() string {
	r := m.snap.Readiness
	if r < 0 {
		r = 0
	}
	if r > 1 {
		r = 1
	}

	filled := int(r*readinessBar + 0.5)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", readinessBar-filled)

	if r >= 1 {
		return ReadyStyle.Render(bar) + StatusStyle.Render(" ready")
	}
	return WaitingStyle.Render(bar) + StatusStyle.Render(fmt.Sprintf(" %3.0f%%", r*100))
}

func (m Model) renderSentence() string {
	sentence := m.snap.Sentence
	if sentence == "" {
		return StatusStyle.Render("(empty)")
	}
	return SentenceStyle.Render(sentence + "_")
}

func (m Model) renderStatus() string {
	var history strings.Builder
	for i, sym := range m.snap.History {
		if i == historyLength {
			break
		}
		history.WriteString(sym.String())
	}

	speech := "off"
	switch {
	case !m.snap.SpeechAvailable:
		speech = "unavailable"
	case m.snap.SpeechEnabled:
		speech = "on"
	}

	parts := []string{
		fmt.Sprintf("fps %.1f", m.snap.FPS),
		fmt.Sprintf("delay %.1fs", m.snap.LetterDelay.Seconds()),
		"speech " + speech,
		fmt.Sprintf("log %d", m.snap.LogEntries),
	}
	if history.Len() > 0 {
		parts = append(parts, "recent "+history.String())
	}

	return StatusStyle.Render(strings.Join(parts, " · "))
}

func renderNotice(n engine.Notice) string {
	line := n.Time.Format("15:04:05") + " " + n.Message
	switch n.Level {
	case engine.LevelError:
		return ErrorStyle.Render(line)
	case engine.LevelWarn:
		return WarnStyle.Render(line)
	default:
		return InfoStyle.Render(line)
	}
}

// renderLetterTable lists every letter with its finger pattern, thumb first.
func renderLetterTable() string {
	table := gesture.Table()
	rows := make([]string, 0, len(table))
	for pattern, sym := range table {
		rows = append(rows, sym.String()+" "+pattern)
	}
	sort.Strings(rows)

	var b strings.Builder
	b.WriteString(StatusStyle.Render("letters (thumb index middle ring pinky, 1 = extended)"))
	for i, row := range rows {
		if i%6 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString("   ")
		}
		b.WriteString(row)
	}
	return b.String()
}

func renderFooter() string {
	keys := []struct{ key, desc string }{
		{"space", "space"},
		{"c", "delete"},
		{"r", "reset"},
		{"s/S", "export text/log"},
		{"+/-", "delay"},
		{"v", "speech"},
		{"h", "letters"},
		{"q", "quit"},
	}

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, FooterKeyStyle.Render(k.key)+" "+FooterDescStyle.Render(k.desc))
	}
	return strings.Join(parts, "  ")
}
