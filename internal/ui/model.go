// Package ui provides the terminal user interface components for the autocomplete application.
// This file defines the hosting root that lays out fields and owns the overlay layer.
package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/VarunSharma3520/autocomplete/internal/logger"
	"github.com/VarunSharma3520/autocomplete/internal/types"
)

const (
	// titleHeight is the title line plus the blank line under it.
	titleHeight   = 2
	fieldHeight   = 3
	maxFieldWidth = 60
	minFieldWidth = 12

	defaultWidth  = 80
	defaultHeight = 24
)

var (
	_ Host      = (*Model)(nil)
	_ tea.Model = (*Model)(nil)
)

type pointerListener struct {
	id string
	fn PointerListener
}

// Model is the hosting root: a form of autocomplete fields with an overlay
// layer for their popups.
type Model struct {
	Fields    []*AutoCompleteField
	Title     string
	StatusMsg string

	focus     int
	pane      *LayeredPane
	listeners []pointerListener
	width     int
	height    int
	statusID  int
	logger    *logger.Logger
}

// InitialModel creates the root and mounts every field on it. The first
// field gets focus.
//
// Example:
//
//	city := ui.NewAutoCompleteField([]string{"Amsterdam", "Athens", "Berlin"})
//	p := tea.NewProgram(ui.InitialModel(city), tea.WithMouseCellMotion())
func InitialModel(fields ...*AutoCompleteField) *Model {
	m := &Model{
		Fields: fields,
		Title:  "AutoComplete",
		pane:   NewLayeredPane(),
		width:  defaultWidth,
		height: defaultHeight,
	}
	for _, f := range fields {
		f.Mount(m)
	}
	m.layout()
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return m
}

// SetLogger attaches a logger to the root and its fields.
func (m *Model) SetLogger(l *logger.Logger) {
	m.logger = l
	for _, f := range m.Fields {
		f.SetLogger(l)
	}
}

// LayeredPane returns the overlay layer.
func (m *Model) LayeredPane() *LayeredPane { return m.pane }

func (m *Model) TitleHeight() int { return titleHeight }

func (m *Model) DisplayHeight() int { return max(m.height-titleHeight, 0) }

// AddPointerListener registers fn under id. Listeners run in registration
// order; registering an id again replaces its function in place.
func (m *Model) AddPointerListener(id string, fn PointerListener) {
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners[i].fn = fn
			return
		}
	}
	m.listeners = append(m.listeners, pointerListener{id: id, fn: fn})
}

func (m *Model) RemovePointerListener(id string) {
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// ListenerCount returns the number of registered pointer listeners.
func (m *Model) ListenerCount() int { return len(m.listeners) }

// Revalidate lays the fields out again, which also re-places open popups.
func (m *Model) Revalidate() { m.layout() }

func (m *Model) layout() {
	w := min(m.width, maxFieldWidth)
	w = max(w, minFieldWidth)
	y := titleHeight
	for _, f := range m.Fields {
		y++ // label
		f.SetBounds(Rect{X: 0, Y: y, Width: w, Height: fieldHeight})
		y += fieldHeight + 1
	}
}

// Focused returns the focused field, or nil when there are none.
func (m *Model) Focused() *AutoCompleteField {
	if len(m.Fields) == 0 {
		return nil
	}
	return m.Fields[m.focus]
}

func (m *Model) setFocus(i int) tea.Cmd {
	n := len(m.Fields)
	if n == 0 {
		return nil
	}
	i = (i%n + n) % n
	if i == m.focus {
		return nil
	}
	prev := m.Fields[m.focus]
	prev.dismiss()
	prev.Blur()
	m.focus = i
	return m.Fields[i].Focus()
}

// Shutdown unmounts every field. Call it once the program has exited.
func (m *Model) Shutdown() {
	for _, f := range m.Fields {
		f.Unmount()
	}
	m.logger.Debug("fields unmounted", map[string]interface{}{"fields": len(m.Fields)})
}

// setStatus shows msg until duration passes. A zero duration keeps it.
func (m *Model) setStatus(msg string, duration time.Duration) tea.Cmd {
	m.statusID++
	m.StatusMsg = msg
	if duration <= 0 {
		return nil
	}
	id := m.statusID
	return tea.Tick(duration, func(time.Time) tea.Msg {
		return types.StatusExpiredMsg{ID: id}
	})
}
