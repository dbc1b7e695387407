package ui

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/VarunSharma3520/autocomplete/internal/suggest"
	"github.com/VarunSharma3520/autocomplete/internal/types"
)

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestEscQuitsOnlyWithoutPopup(t *testing.T) {
	f := NewAutoCompleteField(fruit)
	m := InitialModel(f)
	f.SetText("A")

	_, cmd := m.Update(key(tea.KeyEsc))
	require.False(t, isQuit(cmd))
	require.Equal(t, AttachedNoPopup, f.State())

	_, cmd = m.Update(key(tea.KeyEsc))
	require.True(t, isQuit(cmd))
}

func TestCtrlCAlwaysQuits(t *testing.T) {
	f := NewAutoCompleteField(fruit)
	m := InitialModel(f)
	f.SetText("A")

	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.True(t, isQuit(cmd))
}

func TestTabCyclesFocus(t *testing.T) {
	a, b := NewAutoCompleteField(fruit), NewAutoCompleteField(fruit)
	m := InitialModel(a, b)
	require.True(t, a.Focused())

	m.Update(key(tea.KeyTab))
	require.Same(t, b, m.Focused())
	require.False(t, a.Focused())
	require.True(t, b.Focused())

	m.Update(key(tea.KeyTab))
	require.Same(t, a, m.Focused())

	m.Update(key(tea.KeyShiftTab))
	require.Same(t, b, m.Focused())
}

func TestFieldsStackVertically(t *testing.T) {
	a, b := NewAutoCompleteField(fruit), NewAutoCompleteField(fruit)
	InitialModel(a, b)
	require.Equal(t, Rect{X: 0, Y: titleHeight + 1, Width: maxFieldWidth, Height: fieldHeight}, a.Bounds())
	require.Equal(t, a.Bounds().Y+fieldHeight+2, b.Bounds().Y)
}

func TestClickMovesFocusAndSwitchesPopup(t *testing.T) {
	a, b := NewAutoCompleteField(fruit), NewAutoCompleteField(fruit)
	m := InitialModel(a, b)
	a.SetText("A")

	bb := b.Bounds()
	// below a's two rows, so the press reaches b's frame
	y := bb.Y + bb.Height - 1
	require.False(t, a.Popup().Bounds().Contains(2, y-titleHeight))

	m.Update(press(2, y))
	require.Equal(t, AttachedNoPopup, a.State())
	require.Equal(t, AttachedPopupOpen, b.State())
	require.Same(t, b, m.Focused())
	require.Equal(t, 1, m.LayeredPane().Count())
}

func TestClickOnPopupDoesNotReachFieldBelow(t *testing.T) {
	a, b := NewAutoCompleteField(fruit), NewAutoCompleteField(fruit)
	m := InitialModel(a, b)
	a.SetText("")

	// a's third row lies over b's frame
	y := rowY(a, 2)
	require.True(t, b.Bounds().Contains(3, y))

	m.Update(press(3, y))
	require.Equal(t, "Avocado", a.Value())
	require.Equal(t, AttachedNoPopup, b.State())
	require.Same(t, a, m.Focused())
}

func TestListenersRunInRegistrationOrder(t *testing.T) {
	m := InitialModel()
	var order []string
	m.AddPointerListener("one", func(PointerEvent) tea.Cmd { order = append(order, "one"); return nil })
	m.AddPointerListener("two", func(PointerEvent) tea.Cmd { order = append(order, "two"); return nil })
	m.AddPointerListener("one", func(PointerEvent) tea.Cmd { order = append(order, "one'"); return nil })

	m.Update(press(1, 1))
	require.Equal(t, []string{"one'", "two"}, order)

	m.RemovePointerListener("one")
	m.Update(press(1, 1))
	require.Equal(t, []string{"one'", "two", "two"}, order)
}

func TestMotionAndRightClickIgnored(t *testing.T) {
	f := NewAutoCompleteField(fruit)
	m := InitialModel(f)
	f.SetText("A")

	m.Update(tea.MouseMsg{X: 70, Y: 20, Action: tea.MouseActionMotion})
	m.Update(tea.MouseMsg{X: 70, Y: 20, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	require.Equal(t, AttachedPopupOpen, f.State())
}

func TestCandidatesReloadRefreshesOpenPopup(t *testing.T) {
	f := NewAutoCompleteField([]string{"Apple"})
	m := InitialModel(f)
	f.SetText("b")
	require.Zero(t, f.Popup().Len())

	m.Update(types.CandidatesReloadedMsg{Items: []string{"Banana", "Cherry", "blueberry"}})
	require.Equal(t, []string{"Banana", "blueberry"}, f.Popup().Items())
	require.Equal(t, "Reloaded 3 candidates", m.StatusMsg)
}

func TestCandidatesReloadSkipsFixedSources(t *testing.T) {
	f := NewAutoCompleteFieldWithSource(suggest.NewAsync(suggest.FetcherFunc(nil), 0))
	m := InitialModel(f)

	_, cmd := m.Update(types.CandidatesReloadedMsg{Items: []string{"x"}})
	require.Nil(t, cmd)
	require.Empty(t, m.StatusMsg)
}

func TestStatusExpires(t *testing.T) {
	m := InitialModel()
	_, cmd := m.Update(types.StatusMsg{Message: "saved", Duration: time.Second})
	require.NotNil(t, cmd)
	require.Equal(t, "saved", m.StatusMsg)

	m.Update(types.StatusExpiredMsg{ID: m.statusID - 1})
	require.Equal(t, "saved", m.StatusMsg)

	m.Update(types.StatusExpiredMsg{ID: m.statusID})
	require.Empty(t, m.StatusMsg)
}

func TestViewComposesPopupOverForm(t *testing.T) {
	a, b := NewAutoCompleteField(fruit), NewAutoCompleteField(fruit)
	a.SetLabel("Fruit")
	b.SetLabel("Dessert")
	m := InitialModel(a, b)

	view := m.View()
	require.Contains(t, view, "Fruit")
	require.Contains(t, view, "Dessert")
	require.NotContains(t, view, "Avocado")

	a.SetText("Av")
	view = m.View()
	require.Contains(t, view, "Avocado")
	require.NotContains(t, view, "Apple")
	require.Equal(t, m.height, len(splitLines(view)))
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}
