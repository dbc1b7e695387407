package ui

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Overlay is something drawn on top of the base view.
type Overlay interface {
	ID() string
	Bounds() Rect
	View() string
}

// LayeredPane stacks overlays above the base view. Later overlays are drawn
// over earlier ones.
type LayeredPane struct {
	layers []Overlay
}

// NewLayeredPane returns an empty pane.
func NewLayeredPane() *LayeredPane {
	return &LayeredPane{}
}

// Add puts o on top of the stack unless it is already there.
func (p *LayeredPane) Add(o Overlay) {
	if p.Contains(o) {
		return
	}
	p.layers = append(p.layers, o)
}

// Remove takes o off the stack and reports whether it was present.
func (p *LayeredPane) Remove(o Overlay) bool {
	for i, l := range p.layers {
		if l == o {
			p.layers = append(p.layers[:i], p.layers[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether o is attached.
func (p *LayeredPane) Contains(o Overlay) bool {
	for _, l := range p.layers {
		if l == o {
			return true
		}
	}
	return false
}

// Count returns the number of attached overlays.
func (p *LayeredPane) Count() int {
	return len(p.layers)
}

// At returns the topmost overlay covering (x, y), in pane coordinates.
func (p *LayeredPane) At(x, y int) Overlay {
	for i := len(p.layers) - 1; i >= 0; i-- {
		if p.layers[i].Bounds().Contains(x, y) {
			return p.layers[i]
		}
	}
	return nil
}

// Compose draws every overlay over base, which is cut or padded to height
// lines.
func (p *LayeredPane) Compose(base string, height int) string {
	lines := strings.Split(base, "\n")
	if height > 0 {
		for len(lines) < height {
			lines = append(lines, "")
		}
		lines = lines[:height]
	}

	for _, o := range p.layers {
		b := o.Bounds()
		for i, line := range strings.Split(o.View(), "\n") {
			row := b.Y + i
			if row < 0 || row >= len(lines) {
				continue
			}
			lines[row] = splice(lines[row], line, b.X)
		}
	}
	return strings.Join(lines, "\n")
}

// splice writes fg over bg starting at column x.
func splice(bg, fg string, x int) string {
	if x < 0 {
		x = 0
	}
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}
	right := ansi.TruncateLeft(bg, x+ansi.StringWidth(fg), "")
	return left + ansi.ResetStyle + fg + ansi.ResetStyle + right
}
