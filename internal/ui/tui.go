// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the audio console
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TUI runs the console interface
type TUI struct {
	program  *tea.Program
	quitChan chan struct{}
}

// NewModel creates a new TUI model
func NewModel(exec Executor, quit chan struct{}) Model {
	m := Model{exec: exec, quitChan: quit}
	if exec != nil {
		m.status = exec.Status()
	}
	return m
}

// New creates the console TUI over exec
func New(exec Executor) *TUI {
	quit := make(chan struct{}, 1)
	return &TUI{
		program:  tea.NewProgram(NewModel(exec, quit), tea.WithAltScreen()),
		quitChan: quit,
	}
}

// Run blocks until the TUI exits
func (t *TUI) Run() error {
	_, err := t.program.Run()
	return err
}

// Stop quits the TUI
func (t *TUI) Stop() {
	t.program.Quit()
}

// QuitChan returns the channel that signals when the user wants to quit
func (t *TUI) QuitChan() <-chan struct{} {
	return t.quitChan
}
