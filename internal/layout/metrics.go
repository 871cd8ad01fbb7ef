package layout

import (
	"github.com/mattn/go-runewidth"

	"github.com/dshills/folio/internal/cssom"
)

// DefaultCharWidthRatio is the advance of a narrow character as a fraction
// of the font size.
const DefaultCharWidthRatio = 0.6

// Metrics measures text as a monospaced grid: narrow characters advance
// by the font size times the width ratio and wide characters by twice
// that.
type Metrics struct {
	ratio float64
	cond  *runewidth.Condition
}

// NewMetrics returns metrics with the given width ratio. A non-positive
// ratio selects DefaultCharWidthRatio.
func NewMetrics(ratio float64) *Metrics {
	if ratio <= 0 {
		ratio = DefaultCharWidthRatio
	}
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return &Metrics{ratio: ratio, cond: cond}
}

// Cells returns the number of grid cells s occupies. Control and bidi
// formatting characters occupy none.
func (m *Metrics) Cells(s string) int {
	n := 0
	for _, r := range s {
		switch r {
		case LeftToRightIsolate, RightToLeftIsolate, PopDirectionalIsolate, LineFeed:
			continue
		}
		n += m.cond.RuneWidth(r)
	}
	return n
}

// Advance returns the width of s set in style.
func (m *Metrics) Advance(style *cssom.ComputedStyle, s string) Unit {
	return Px(float64(m.Cells(s)) * style.FontSize() * m.ratio)
}

// LineHeight returns the used line height of style.
func (m *Metrics) LineHeight(style *cssom.ComputedStyle) Unit {
	return Px(style.LineHeight())
}
