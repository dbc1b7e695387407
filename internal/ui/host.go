package ui

import tea "github.com/charmbracelet/bubbletea"

// Rect is a cell rectangle in terminal coordinates.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// PointerEvent is a left button press in screen coordinates.
type PointerEvent struct {
	X, Y int
	// Over is the id of the topmost overlay under the press at the moment
	// it happened, or empty when the press landed on the base view.
	Over string
}

// PointerListener observes every pointer press on a host.
type PointerListener func(ev PointerEvent) tea.Cmd

// Host is the hosting root an AutoCompleteField is mounted on.
type Host interface {
	// LayeredPane is the overlay layer. Its origin is the first row below
	// the title area.
	LayeredPane() *LayeredPane
	TitleHeight() int
	// DisplayHeight is the number of rows available below the title.
	DisplayHeight() int
	AddPointerListener(id string, fn PointerListener)
	RemovePointerListener(id string)
	// Revalidate requests a layout pass.
	Revalidate()
}

// FieldState is the attachment state of a field.
type FieldState int

const (
	Detached FieldState = iota
	AttachedNoPopup
	AttachedPopupOpen
)

func (s FieldState) String() string {
	switch s {
	case Detached:
		return "detached"
	case AttachedNoPopup:
		return "attached"
	case AttachedPopupOpen:
		return "attached-popup-open"
	default:
		return "unknown"
	}
}
