package ui

import (
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/autocomplete/internal/config"
)

// NewTextInput creates the text input backing an AutoCompleteField.
// It is not focused; the hosting root decides which field has focus.
func NewTextInput(placeholder string) textinput.Model {
	ti := textinput.New()

	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 256
	ti.Width = 30

	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(config.MainColorForeground))

	return ti
}
