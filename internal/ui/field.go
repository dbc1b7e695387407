package ui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/VarunSharma3520/autocomplete/internal/logger"
	"github.com/VarunSharma3520/autocomplete/internal/suggest"
	"github.com/VarunSharma3520/autocomplete/internal/types"
)

// AutoCompleteField is a text input that filters a suggestion source on
// every change and shows the matches in a popup beneath itself.
//
// A field does nothing with the popup until it is mounted on a Host. All
// methods must be called from the Bubble Tea event loop.
type AutoCompleteField struct {
	id     string
	label  string
	input  textinput.Model
	source suggest.Source
	popup  *Popup
	host   Host
	bounds Rect
	logger *logger.Logger
}

// NewAutoCompleteField builds a field over the default list source: a
// case-insensitive prefix match over candidates.
func NewAutoCompleteField(candidates []string) *AutoCompleteField {
	return NewAutoCompleteFieldWithSource(suggest.NewList(candidates))
}

// NewAutoCompleteFieldWithSource builds a field over src. A nil src leaves
// the field without suggestions.
func NewAutoCompleteFieldWithSource(src suggest.Source) *AutoCompleteField {
	id := uuid.NewString()
	return &AutoCompleteField{
		id:     id,
		input:  NewTextInput("Start typing..."),
		source: src,
		popup:  newPopup(id),
	}
}

// ID identifies the field in pointer listeners and suggestion messages.
func (f *AutoCompleteField) ID() string { return f.id }

// Label returns the caption drawn above the field.
func (f *AutoCompleteField) Label() string { return f.label }

// SetLabel sets the caption drawn above the field.
func (f *AutoCompleteField) SetLabel(label string) { f.label = label }

// SetPlaceholder sets the text shown while the field is empty.
func (f *AutoCompleteField) SetPlaceholder(s string) { f.input.Placeholder = s }

// SetLogger attaches a logger. A nil logger is allowed.
func (f *AutoCompleteField) SetLogger(l *logger.Logger) { f.logger = l }

// Source returns the configured suggestion source, or nil.
func (f *AutoCompleteField) Source() suggest.Source { return f.source }

// Popup returns the field's popup.
func (f *AutoCompleteField) Popup() *Popup { return f.popup }

// Value returns the current text.
func (f *AutoCompleteField) Value() string { return f.input.Value() }

// Focus gives the input keyboard focus and returns the cursor blink command.
func (f *AutoCompleteField) Focus() tea.Cmd { return f.input.Focus() }

// Blur removes keyboard focus. An open popup stays open.
func (f *AutoCompleteField) Blur() { f.input.Blur() }

// Focused reports whether the input has keyboard focus.
func (f *AutoCompleteField) Focused() bool { return f.input.Focused() }

// SetText replaces the text and filters the source by it. A synchronous
// update refreshes the popup; an asynchronous source gets its fetch back as
// the returned command.
func (f *AutoCompleteField) SetText(text string) tea.Cmd {
	f.input.SetValue(text)
	return f.textChanged(text)
}

// Reset clears the text without filtering. The suggestion model and the
// popup attachment stay as they were.
func (f *AutoCompleteField) Reset() {
	f.input.Reset()
}

// Filter asks the source to filter by text. It returns false when no
// source is configured or the source will deliver its results later.
func (f *AutoCompleteField) Filter(text string) bool {
	if f.source == nil {
		return false
	}
	return f.source.Filter(text)
}

// SuggestionModel returns the view backing the popup list.
func (f *AutoCompleteField) SuggestionModel() []string {
	if f.source == nil {
		return nil
	}
	return f.source.Suggestions()
}

// UpdateFilterList rebuilds the popup from the current suggestions and
// attaches it if needed. Asynchronous results call it once accepted.
func (f *AutoCompleteField) UpdateFilterList() tea.Cmd {
	if f.host == nil || f.source == nil {
		return nil
	}

	f.popup.Reset()
	var cmd tea.Cmd
	if !f.Filter(f.Value()) {
		cmd = f.fetch()
	}
	f.popup.Build(f.SuggestionModel())
	f.layoutPopup()

	pane := f.host.LayeredPane()
	if !pane.Contains(f.popup) {
		pane.Add(f.popup)
		f.logger.Debug("popup opened", map[string]interface{}{"field": f.id, "query": f.Value()})
	}
	f.host.Revalidate()
	return cmd
}

func (f *AutoCompleteField) textChanged(text string) tea.Cmd {
	if f.Filter(text) {
		return f.UpdateFilterList()
	}
	return f.fetch()
}

// fetch turns the request queued by an asynchronous source into a command.
func (f *AutoCompleteField) fetch() tea.Cmd {
	r, ok := f.source.(suggest.Requester)
	if !ok {
		return nil
	}
	req, ok := r.Take()
	if !ok {
		return nil
	}
	id := f.id
	return func() tea.Msg {
		items, err := r.Fetch(context.Background(), req)
		return types.SuggestionsMsg{FieldID: id, Seq: req.Seq, Query: req.Query, Items: items, Err: err}
	}
}

func (f *AutoCompleteField) resolve(msg types.SuggestionsMsg) tea.Cmd {
	r, ok := f.source.(suggest.Requester)
	if !ok {
		return nil
	}
	if msg.Err != nil {
		r.Fail(msg.Seq)
		f.logger.Warn("suggestion fetch failed", map[string]interface{}{"field": f.id, "query": msg.Query, "error": msg.Err.Error()})
		return nil
	}
	if !r.Resolve(msg.Seq, msg.Items) {
		f.logger.Debug("stale suggestions dropped", map[string]interface{}{"field": f.id, "query": msg.Query, "seq": msg.Seq})
		return nil
	}
	return f.UpdateFilterList()
}

// layoutPopup places the popup directly below the field, stretching to the
// bottom of the display.
func (f *AutoCompleteField) layoutPopup() {
	top := f.bounds.Y - f.host.TitleHeight() + f.bounds.Height
	f.popup.SetBounds(Rect{
		X:      f.bounds.X,
		Y:      top,
		Width:  f.bounds.Width,
		Height: f.host.DisplayHeight() - top,
	})
}

func (f *AutoCompleteField) popupOpen() bool {
	return f.host != nil && f.host.LayeredPane().Contains(f.popup)
}

func (f *AutoCompleteField) dismiss() {
	if !f.popupOpen() {
		return
	}
	f.host.LayeredPane().Remove(f.popup)
	f.host.Revalidate()
	f.logger.Debug("popup dismissed", map[string]interface{}{"field": f.id})
}

// commit writes the selected suggestion into the input, bypassing the
// filter path, and dismisses the popup.
func (f *AutoCompleteField) commit() {
	if item, ok := f.popup.Selected(); ok {
		f.input.SetValue(item)
		f.input.CursorEnd()
		f.logger.Debug("suggestion committed", map[string]interface{}{"field": f.id, "value": item})
	}
	f.dismiss()
}

// Mount attaches the field to h and starts listening for pointer presses.
func (f *AutoCompleteField) Mount(h Host) {
	if h == nil || f.host == h {
		return
	}
	if f.host != nil {
		f.Unmount()
	}
	f.host = h
	h.AddPointerListener(f.id, f.HandlePointer)
}

// Unmount dismisses the popup and stops listening on the host.
func (f *AutoCompleteField) Unmount() {
	if f.host == nil {
		return
	}
	f.dismiss()
	f.host.RemovePointerListener(f.id)
	f.host = nil
}

// State reports the attachment state.
func (f *AutoCompleteField) State() FieldState {
	switch {
	case f.host == nil:
		return Detached
	case f.popupOpen():
		return AttachedPopupOpen
	default:
		return AttachedNoPopup
	}
}

// Bounds returns the field's screen rectangle.
func (f *AutoCompleteField) Bounds() Rect { return f.bounds }

// SetBounds records where the host laid the field out.
func (f *AutoCompleteField) SetBounds(r Rect) {
	f.bounds = r
	f.input.Width = max(r.Width-popupBorder-len(f.input.Prompt)-1, 1)
	if f.popupOpen() {
		f.layoutPopup()
	}
}

// HandlePointer is the field's global pointer listener.
func (f *AutoCompleteField) HandlePointer(ev PointerEvent) tea.Cmd {
	if f.host == nil {
		return nil
	}
	if f.popupOpen() && f.popup.HasList() {
		x, y := ev.X, ev.Y-f.host.TitleHeight()
		if i, ok := f.popup.ItemAt(x, y); ok {
			f.popup.Select(i)
			f.commit()
			return nil
		}
		if !f.popup.Bounds().Contains(x, y) {
			f.dismiss()
		}
		return nil
	}
	if !f.popupOpen() && ev.Over == "" && f.bounds.Contains(ev.X, ev.Y) {
		return f.UpdateFilterList()
	}
	return nil
}

// Update handles keys and suggestion results for this field.
func (f *AutoCompleteField) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case types.SuggestionsMsg:
		if msg.FieldID != f.id {
			return nil
		}
		return f.resolve(msg)

	case tea.KeyMsg:
		if f.popupOpen() {
			switch msg.String() {
			case "up", "ctrl+p":
				f.popup.CursorUp()
				return nil
			case "down", "ctrl+n":
				f.popup.CursorDown()
				return nil
			case "enter", "tab":
				f.commit()
				return nil
			case "esc":
				f.dismiss()
				return nil
			}
		} else if msg.String() == "down" {
			return f.UpdateFilterList()
		}

		before := f.input.Value()
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if after := f.input.Value(); after != before {
			return tea.Batch(cmd, f.textChanged(after))
		}
		return cmd
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	return cmd
}

// View renders the input in its frame.
func (f *AutoCompleteField) View() string {
	style := fieldStyle
	if f.input.Focused() {
		style = focusedFieldStyle
	}
	return style.Width(max(f.bounds.Width-popupBorder, 1)).Render(f.input.View())
}
