package ui

import (
	"strings"
)

const helpText = "Type to filter • ↑/↓: Choose • Enter/Tab: Accept • Esc: Close/Quit • Tab: Next field • Ctrl+C: Quit"

// View renders the title, the form and the overlays on top of it.
func (m *Model) View() string {
	var body strings.Builder
	for _, f := range m.Fields {
		body.WriteString(labelStyle.Render(f.Label()))
		body.WriteString("\n")
		body.WriteString(f.View())
		body.WriteString("\n\n")
	}
	body.WriteString(helpStyle.Render(helpText))
	if m.StatusMsg != "" {
		body.WriteString("\n")
		body.WriteString(statusStyle.Render(m.StatusMsg))
	}

	return titleStyle.Render(m.Title) + "\n\n" +
		m.pane.Compose(body.String(), m.DisplayHeight())
}
