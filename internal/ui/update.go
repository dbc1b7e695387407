// Package ui provides the terminal user interface components for the autocomplete application.
// This file handles the update loop and message handling for the Bubble Tea TUI.
package ui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/autocomplete/internal/suggest"
	"github.com/VarunSharma3520/autocomplete/internal/types"
)

// Init starts the cursor blink of the focused field.
func (m *Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update is the main update function that handles all messages and updates the model state.
//
// The function handles:
// - Window resizes, which lay the fields out again
// - Left button presses, which go to every pointer listener
// - Key presses, which go to the focused field
// - Suggestion results, routed to the field that asked for them
// - Candidate reloads and status messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.layout()
		return m, nil

	case tea.MouseMsg:
		if msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft {
			return m, m.handlePress(msg.X, msg.Y)
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case types.SuggestionsMsg:
		for _, f := range m.Fields {
			if f.ID() == msg.FieldID {
				return m, f.Update(msg)
			}
		}
		return m, nil

	case types.CandidatesReloadedMsg:
		return m, m.reloadCandidates(msg.Items)

	case types.StatusMsg:
		return m, m.setStatus(msg.Message, msg.Duration)

	case types.StatusExpiredMsg:
		if msg.ID == m.statusID {
			m.StatusMsg = ""
		}
		return m, nil
	}

	if f := m.Focused(); f != nil {
		return m, f.Update(msg)
	}
	return m, nil
}

// handlePress dispatches a press to the pointer listeners, then moves focus
// to the field under the pointer.
func (m *Model) handlePress(x, y int) tea.Cmd {
	ev := PointerEvent{X: x, Y: y}
	if o := m.pane.At(x, y-titleHeight); o != nil {
		ev.Over = o.ID()
	}

	listeners := append([]pointerListener(nil), m.listeners...)
	cmds := make([]tea.Cmd, 0, len(listeners)+1)
	for _, l := range listeners {
		cmds = append(cmds, l.fn(ev))
	}

	if ev.Over == "" {
		for i, f := range m.Fields {
			if f.Bounds().Contains(x, y) {
				cmds = append(cmds, m.setFocus(i))
				break
			}
		}
	}
	return tea.Batch(cmds...)
}

// handleKeyMsg processes keyboard input messages.
func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	f := m.Focused()
	if f == nil {
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
		return m, nil
	}

	// An open popup owns navigation keys.
	if f.State() == AttachedPopupOpen {
		return m, f.Update(msg)
	}

	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab:
		return m, m.setFocus(m.focus + 1)
	case tea.KeyShiftTab:
		return m, m.setFocus(m.focus - 1)
	}
	return m, f.Update(msg)
}

// reloadCandidates swaps the candidate set of every field whose source
// supports it and refreshes open popups.
func (m *Model) reloadCandidates(items []string) tea.Cmd {
	var cmds []tea.Cmd
	reloaded := 0
	for _, f := range m.Fields {
		r, ok := f.Source().(suggest.Reloader)
		if !ok {
			continue
		}
		r.SetCandidates(items)
		reloaded++
		if f.State() == AttachedPopupOpen {
			cmds = append(cmds, f.UpdateFilterList())
		}
	}
	if reloaded == 0 {
		return nil
	}
	m.logger.Info("candidates reloaded", map[string]interface{}{"count": len(items), "fields": reloaded})
	cmds = append(cmds, m.setStatus(fmt.Sprintf("Reloaded %d candidates", len(items)), 3*time.Second))
	return tea.Batch(cmds...)
}
