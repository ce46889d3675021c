// Package canvas implements the interactive node-graph canvas for a hunt:
// text layout, similarity-based placement, rendering, and the pointer
// interaction state machine.
package canvas

import (
	"strings"
)

// Layout geometry constants, in canvas units.
const (
	// WrapBudget is the maximum line width before a break is forced.
	WrapBudget = 250.0

	// BoxPadding is the total interior padding added to box dimensions.
	BoxPadding = 20.0

	// LineHeight is the vertical advance per wrapped line.
	LineHeight = 18.0

	// TextInset is the offset from a box origin to its first text line.
	TextInset = 10.0

	MinBoxWidth  = 200.0
	MaxBoxWidth  = 400.0
	MinBoxHeight = 50.0

	// DefaultUnitsPerRune approximates the measured advance of the
	// original proportional 14px face with a fixed per-rune width.
	DefaultUnitsPerRune = 8.0
)

// Measurer reports the rendered width of a string in canvas units. It
// stands in for a real font measurement context so layout stays testable
// without a rendering surface.
type Measurer interface {
	Measure(s string) float64
}

// RuneMeasurer measures text at a fixed width per rune.
type RuneMeasurer struct {
	UnitsPerRune float64
}

func (m RuneMeasurer) Measure(s string) float64 {
	per := m.UnitsPerRune
	if per <= 0 {
		per = DefaultUnitsPerRune
	}
	return float64(len([]rune(s))) * per
}

// Layout is the derived geometry for a node's text.
type Layout struct {
	Width  float64
	Height float64
	Lines  []string
}

// Engine wraps node text into display lines and derives box dimensions.
// Layout is pure: identical text always yields identical geometry.
type Engine struct {
	measurer Measurer
}

// NewEngine creates a layout engine. A nil measurer falls back to the
// default fixed-width rune measurer.
func NewEngine(m Measurer) *Engine {
	if m == nil {
		m = RuneMeasurer{UnitsPerRune: DefaultUnitsPerRune}
	}
	return &Engine{measurer: m}
}

// Layout wraps text against the wrap budget and returns the resulting
// box geometry. Words are packed greedily; a line breaks only when it
// already holds at least one word, so a single oversized word stays on
// its own line unsplit. Empty text yields a minimum-height box with no
// lines.
func (e *Engine) Layout(text string) Layout {
	words := strings.Fields(text)

	var lines []string
	current := ""
	for _, word := range words {
		test := current
		if test != "" {
			test += " "
		}
		test += word

		if e.measurer.Measure(test) > WrapBudget && current != "" {
			lines = append(lines, current)
			current = word
		} else {
			current = test
		}
	}
	if current != "" {
		lines = append(lines, current)
	}

	width := WrapBudget + BoxPadding
	if width < MinBoxWidth {
		width = MinBoxWidth
	}
	if width > MaxBoxWidth {
		width = MaxBoxWidth
	}

	height := float64(len(lines))*LineHeight + BoxPadding
	if height < MinBoxHeight {
		height = MinBoxHeight
	}

	return Layout{Width: width, Height: height, Lines: lines}
}
