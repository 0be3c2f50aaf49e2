// ABOUTME: Bubbletea model for the audio console TUI
// ABOUTME: Defines console state, key handling and the status view
package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/XJGE/XJGE-legacy-sub000/internal/protocol"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// maxLines is the scrollback kept below the status pane
const maxLines = 12

// Executor runs console lines and reports audio status
type Executor interface {
	Submit(ctx context.Context, line string) (string, error)
	Status() protocol.Status
}

// Model represents the TUI state
type Model struct {
	exec   Executor
	status protocol.Status

	input   string
	lines   []string
	history []string
	recall  int

	quitting bool
	quitChan chan struct{}

	width  int
	height int
}

// StatusMsg replaces the displayed audio status
type StatusMsg protocol.Status

// ResultMsg carries the outcome of a submitted line
type ResultMsg struct {
	Line   string
	Output string
	Err    error
}

type tickMsg time.Time

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	voiceStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	helpStyle   = lipgloss.NewStyle().Faint(true)
)

// Init starts the status refresh
func (m Model) Init() tea.Cmd {
	return tickEvery()
}

func tickEvery() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tickMsg:
		if m.exec != nil {
			m.status = m.exec.Status()
		}
		return m, tickEvery()
	case StatusMsg:
		m.status = protocol.Status(msg)
	case ResultMsg:
		m.applyResult(msg)
	}

	return m, nil
}

// handleKey edits the input line and submits it on enter
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		m.quitting = true
		if m.quitChan != nil {
			select {
			case m.quitChan <- struct{}{}:
			default:
			}
		}
		return m, tea.Quit
	case tea.KeyEnter:
		line := strings.TrimSpace(m.input)
		m.input = ""
		if line == "" {
			return m, nil
		}
		if line == "quit" || line == "exit" {
			return m.handleKey(tea.KeyMsg{Type: tea.KeyCtrlC})
		}
		m.history = append(m.history, line)
		m.recall = len(m.history)
		return m, m.submit(line)
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeyUp:
		if m.recall > 0 {
			m.recall--
			m.input = m.history[m.recall]
		}
	case tea.KeyDown:
		if m.recall < len(m.history)-1 {
			m.recall++
			m.input = m.history[m.recall]
		} else {
			m.recall = len(m.history)
			m.input = ""
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}

	return m, nil
}

// submit runs line off the update loop
func (m Model) submit(line string) tea.Cmd {
	exec := m.exec
	return func() tea.Msg {
		if exec == nil {
			return ResultMsg{Line: line, Err: fmt.Errorf("console unavailable")}
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		out, err := exec.Submit(ctx, line)
		return ResultMsg{Line: line, Output: out, Err: err}
	}
}

// applyResult appends a command and its output to the scrollback
func (m *Model) applyResult(msg ResultMsg) {
	m.lines = append(m.lines, promptStyle.Render("> ")+msg.Line)
	if msg.Err != nil {
		m.lines = append(m.lines, errorStyle.Render(msg.Err.Error()))
	} else if msg.Output != "" {
		m.lines = append(m.lines, strings.Split(msg.Output, "\n")...)
	}
	if len(m.lines) > maxLines {
		m.lines = m.lines[len(m.lines)-maxLines:]
	}
}

// View renders the TUI
func (m Model) View() string {
	if m.quitting {
		return "Shutting down audio...\n"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("XJGE Audio Console"))
	b.WriteString("\n\n")
	b.WriteString(m.renderStatus())
	b.WriteString("\n")
	b.WriteString(m.renderVoices())
	b.WriteString("\n")

	for _, line := range m.lines {
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString(promptStyle.Render("> "))
	b.WriteString(m.input)
	b.WriteString("_\n\n")
	b.WriteString(helpStyle.Render("type 'help' for commands, Esc or Ctrl+C to quit"))
	return b.String()
}

// renderStatus renders device and volume information
func (m Model) renderStatus() string {
	s := m.status
	song := s.Song
	if song == "" {
		song = "-"
	}

	rows := []struct{ label, value string }{
		{"Device: ", fmt.Sprintf("%s (%s) context #%d", s.DeviceName, s.Device, s.Generation)},
		{"Volume: ", fmt.Sprintf("effects %s %.2f  music %s %.2f",
			renderBar(s.EffectsVolume, 10), s.EffectsVolume, renderBar(s.MusicVolume, 10), s.MusicVolume)},
		{"Music:  ", fmt.Sprintf("%s %s (%s)", song, s.MusicState, s.MusicPhase)},
	}

	var b strings.Builder
	for _, r := range rows {
		b.WriteString(headerStyle.Render(r.label))
		b.WriteString(valueStyle.Render(r.value))
		b.WriteString("\n")
	}
	return b.String()
}

// renderVoices renders the active general voices
func (m Model) renderVoices() string {
	var b strings.Builder
	b.WriteString(voiceStyle.Render(fmt.Sprintf("Active Voices (%d)", len(m.status.Voices))))
	b.WriteString("\n")

	for _, v := range m.status.Voices {
		loop := ""
		if v.Looping {
			loop = " loop"
		}
		b.WriteString(valueStyle.Render(fmt.Sprintf("  %2d %-16s %-7s%s", v.Handle, truncate(v.Sound, 16), v.State, loop)))
		b.WriteString("\n")
	}
	return b.String()
}

// renderBar draws a volume bar. Volumes above 1 fill the bar.
func renderBar(value float64, width int) string {
	filled := int(value * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}
