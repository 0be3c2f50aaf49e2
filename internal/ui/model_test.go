// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests line editing, command submission and status rendering
package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/XJGE/XJGE-legacy-sub000/internal/protocol"
	tea "github.com/charmbracelet/bubbletea"
)

type fakeExecutor struct {
	lines  []string
	status protocol.Status
}

func (f *fakeExecutor) Submit(ctx context.Context, line string) (string, error) {
	f.lines = append(f.lines, line)
	if line == "fail" {
		return "", errors.New("boom")
	}
	return "ok " + line, nil
}

func (f *fakeExecutor) Status() protocol.Status {
	return f.status
}

func typeLine(t *testing.T, m Model, line string) (Model, tea.Cmd) {
	t.Helper()

	var next tea.Model = m
	for _, r := range line {
		if r == ' ' {
			next, _ = next.Update(tea.KeyMsg{Type: tea.KeySpace})
			continue
		}
		next, _ = next.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	next, cmd := next.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(Model), cmd
}

func TestNewModel(t *testing.T) {
	exec := &fakeExecutor{status: protocol.Status{Device: "a"}}
	model := NewModel(exec, nil)

	if model.status.Device != "a" {
		t.Errorf("expected initial status from executor, got %q", model.status.Device)
	}
	if model.input != "" || len(model.lines) != 0 {
		t.Error("expected empty input and scrollback")
	}
}

func TestSubmitLine(t *testing.T) {
	exec := &fakeExecutor{}
	model := NewModel(exec, nil)

	model, cmd := typeLine(t, model, "play click")
	if model.input != "" {
		t.Errorf("expected input cleared, got %q", model.input)
	}
	if cmd == nil {
		t.Fatal("expected a command for the submitted line")
	}

	msg := cmd()
	res, ok := msg.(ResultMsg)
	if !ok {
		t.Fatalf("expected ResultMsg, got %T", msg)
	}
	if res.Output != "ok play click" {
		t.Errorf("expected 'ok play click', got %q", res.Output)
	}
	if len(exec.lines) != 1 || exec.lines[0] != "play click" {
		t.Errorf("expected executor to receive the line, got %v", exec.lines)
	}

	next, _ := model.Update(res)
	model = next.(Model)
	if len(model.lines) != 2 || model.lines[1] != "ok play click" {
		t.Errorf("expected command and output in scrollback, got %v", model.lines)
	}
}

func TestSubmitError(t *testing.T) {
	model := NewModel(&fakeExecutor{}, nil)

	model, cmd := typeLine(t, model, "fail")
	next, _ := model.Update(cmd())
	model = next.(Model)

	if len(model.lines) != 2 || !strings.Contains(model.lines[1], "boom") {
		t.Errorf("expected error in scrollback, got %v", model.lines)
	}
}

func TestEmptyLineIgnored(t *testing.T) {
	model := NewModel(&fakeExecutor{}, nil)

	_, cmd := typeLine(t, model, "   ")
	if cmd != nil {
		t.Error("expected no command for a blank line")
	}
}

func TestBackspace(t *testing.T) {
	model := NewModel(nil, nil)
	model.input = "beepx"

	next, _ := model.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := next.(Model).input; got != "beep" {
		t.Errorf("expected 'beep', got %q", got)
	}

	empty := NewModel(nil, nil)
	next, _ = empty.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	if got := next.(Model).input; got != "" {
		t.Errorf("expected empty input, got %q", got)
	}
}

func TestHistoryRecall(t *testing.T) {
	model := NewModel(&fakeExecutor{}, nil)
	model, _ = typeLine(t, model, "beep")
	model, _ = typeLine(t, model, "voices")

	tests := []struct {
		key  tea.KeyType
		want string
	}{
		{tea.KeyUp, "voices"},
		{tea.KeyUp, "beep"},
		{tea.KeyUp, "beep"},
		{tea.KeyDown, "voices"},
		{tea.KeyDown, ""},
	}

	var next tea.Model = model
	for i, tt := range tests {
		next, _ = next.Update(tea.KeyMsg{Type: tt.key})
		if got := next.(Model).input; got != tt.want {
			t.Errorf("step %d: expected %q, got %q", i, tt.want, got)
		}
	}
}

func TestQuitSignals(t *testing.T) {
	quit := make(chan struct{}, 1)
	model := NewModel(nil, quit)

	next, cmd := model.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if !next.(Model).quitting {
		t.Error("expected quitting to be set")
	}
	if cmd == nil {
		t.Error("expected tea.Quit command")
	}

	select {
	case <-quit:
	default:
		t.Error("expected quit signal")
	}
}

func TestQuitCommand(t *testing.T) {
	quit := make(chan struct{}, 1)
	model := NewModel(&fakeExecutor{}, quit)

	model, _ = typeLine(t, model, "quit")
	if !model.quitting {
		t.Error("expected quit command to quit")
	}
}

func TestScrollbackBounded(t *testing.T) {
	model := NewModel(nil, nil)
	for i := 0; i < 20; i++ {
		model.applyResult(ResultMsg{Line: "beep", Output: "voice 0"})
	}
	if len(model.lines) != maxLines {
		t.Errorf("expected %d lines, got %d", maxLines, len(model.lines))
	}
}

func TestStatusMsgAndView(t *testing.T) {
	model := NewModel(nil, nil)

	next, _ := model.Update(StatusMsg{
		Device:        "hw:1",
		DeviceName:    "Headphones",
		Generation:    3,
		EffectsVolume: 0.5,
		MusicVolume:   1,
		Song:          "theme",
		MusicState:    "playing",
		MusicPhase:    "body",
		Voices:        []protocol.Voice{{Handle: 4, Sound: "explosion", State: "playing", Looping: true}},
	})
	view := next.(Model).View()

	for _, want := range []string{"Headphones", "hw:1", "#3", "theme playing (body)", "Active Voices (1)", "explosion"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0, "░░░░"},
		{0.5, "██░░"},
		{1, "████"},
		{2, "████"},
		{-1, "░░░░"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, 4); got != tt.want {
			t.Errorf("renderBar(%v): expected %q, got %q", tt.value, tt.want, got)
		}
	}
}
