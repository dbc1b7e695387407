// Package ui provides the terminal user interface components for the autocomplete application.
// This file contains style definitions for various UI elements using the lipgloss library.
package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/VarunSharma3520/autocomplete/internal/config"
)

// Global style definitions for consistent theming across the application.
var (
	// titleStyle defines the styling for the application title/header.
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(config.MainColorBackground)).
			Background(lipgloss.Color(config.MainColorForeground)).
			PaddingRight(4).
			PaddingLeft(4).
			AlignVertical(lipgloss.Center)

	// helpStyle defines the styling for help/instruction text.
	helpStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color(config.MainColorBackgroundMute))

	// statusStyle defines the styling for status messages
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170")).
			Italic(true)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	fieldStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(config.MainColorBackgroundMute))

	focusedFieldStyle = fieldStyle.
				BorderForeground(lipgloss.Color(config.MainColorForeground))

	// popupStyle frames the suggestion list.
	popupStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color(config.MainColorForeground))

	suggestionStyle = lipgloss.NewStyle().
			PaddingLeft(1)

	selectedSuggestionStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color(config.MainColorBackground)).
				Background(lipgloss.Color(config.MainColorForeground)).
				PaddingLeft(1)

	noSuggestionsStyle = lipgloss.NewStyle().
				Italic(true).
				PaddingLeft(1).
				Foreground(lipgloss.Color(config.MainColorBackgroundMute))
)
