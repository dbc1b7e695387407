package ui

import (
	"github.com/charmbracelet/bubbles/list"
)

const popupBorder = 2

// suggestionItem is one row of the popup list.
type suggestionItem string

func (s suggestionItem) Title() string       { return string(s) }
func (s suggestionItem) Description() string { return "" }
func (s suggestionItem) FilterValue() string { return string(s) }

// Popup is the suggestion overlay of one field. It is reused across
// open/close cycles and reset before every reuse.
type Popup struct {
	id     string
	list   list.Model
	built  bool
	items  []string
	bounds Rect
	rows   int
}

func newPopup(id string) *Popup {
	return &Popup{id: id}
}

// ID identifies the popup on the layered pane.
func (p *Popup) ID() string { return p.id }

// Reset clears the list.
func (p *Popup) Reset() {
	p.list = list.Model{}
	p.built = false
	p.items = nil
	p.rows = 0
}

// Build creates the selectable list over items.
func (p *Popup) Build(items []string) {
	listItems := make([]list.Item, len(items))
	for i, s := range items {
		listItems[i] = suggestionItem(s)
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)
	delegate.Styles.NormalTitle = suggestionStyle
	delegate.Styles.SelectedTitle = selectedSuggestionStyle

	l := list.New(listItems, delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowFilter(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.SetShowPagination(false)
	l.SetStatusBarItemName("suggestion", "suggestions")
	l.Styles.NoItems = noSuggestionsStyle
	l.DisableQuitKeybindings()

	p.list = l
	p.built = true
	p.items = append([]string(nil), items...)
	p.resize()
}

// SetBounds places the popup container, in pane coordinates.
func (p *Popup) SetBounds(r Rect) {
	p.bounds = r
	p.resize()
}

func (p *Popup) resize() {
	if !p.built {
		return
	}
	rows := min(len(p.items), p.bounds.Height-popupBorder)
	p.rows = max(rows, 1)
	p.list.SetSize(max(p.bounds.Width-popupBorder, 1), p.rows)
}

// Bounds is the rendered box: the border plus the visible rows.
func (p *Popup) Bounds() Rect {
	if !p.built {
		return Rect{X: p.bounds.X, Y: p.bounds.Y}
	}
	return Rect{X: p.bounds.X, Y: p.bounds.Y, Width: p.bounds.Width, Height: p.rows + popupBorder}
}

// Container is the area the popup was given, down to the bottom of the
// display.
func (p *Popup) Container() Rect { return p.bounds }

// HasList reports whether a list has been built since the last Reset.
func (p *Popup) HasList() bool { return p.built }

// Items returns the rows the list was built over.
func (p *Popup) Items() []string {
	return append([]string(nil), p.items...)
}

// Len returns the number of rows.
func (p *Popup) Len() int { return len(p.items) }

// Rows returns the number of visible rows.
func (p *Popup) Rows() int { return p.rows }

// Index returns the selected row.
func (p *Popup) Index() int { return p.list.Index() }

// Selected returns the selected suggestion.
func (p *Popup) Selected() (string, bool) {
	if !p.built || len(p.items) == 0 {
		return "", false
	}
	it, ok := p.list.SelectedItem().(suggestionItem)
	return string(it), ok
}

// Select moves the selection to row i.
func (p *Popup) Select(i int) {
	if p.built && i >= 0 && i < len(p.items) {
		p.list.Select(i)
	}
}

func (p *Popup) CursorUp() {
	if p.built {
		p.list.CursorUp()
	}
}

func (p *Popup) CursorDown() {
	if p.built {
		p.list.CursorDown()
	}
}

// ItemAt maps a pane cell to the row drawn there.
func (p *Popup) ItemAt(x, y int) (int, bool) {
	b := p.Bounds()
	inner := Rect{X: b.X + 1, Y: b.Y + 1, Width: b.Width - popupBorder, Height: p.rows}
	if !p.built || !inner.Contains(x, y) {
		return 0, false
	}
	i := p.list.Index() - p.list.Cursor() + (y - inner.Y)
	if i < 0 || i >= len(p.items) {
		return 0, false
	}
	return i, true
}

func (p *Popup) View() string {
	if !p.built {
		return ""
	}
	return popupStyle.
		Width(max(p.bounds.Width-popupBorder, 1)).
		Render(p.list.View())
}
