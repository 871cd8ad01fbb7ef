package layout

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
)

// Break is a line break opportunity before the rune at Pos.
type Break struct {
	Pos       int
	Mandatory bool
}

// Segmenter finds line break opportunities and grapheme cluster
// boundaries. Positions are rune offsets.
type Segmenter interface {
	LineBreaks(text []rune) []Break
	GraphemeBoundaries(text []rune) []int
}

// UnicodeSegmenter implements Segmenter with the Unicode line breaking and
// text segmentation algorithms.
type UnicodeSegmenter struct{}

// LineBreaks returns every break opportunity in text in ascending order.
// The end of the text is always reported.
func (UnicodeSegmenter) LineBreaks(text []rune) []Break {
	var out []Break
	s := string(text)
	pos := 0
	state := -1
	for len(s) > 0 {
		var segment string
		var mustBreak bool
		segment, s, mustBreak, state = uniseg.FirstLineSegmentInString(s, state)
		pos += utf8.RuneCountInString(segment)
		out = append(out, Break{Pos: pos, Mandatory: mustBreak})
	}
	return out
}

// GraphemeBoundaries returns the end offset of every grapheme cluster.
func (UnicodeSegmenter) GraphemeBoundaries(text []rune) []int {
	var out []int
	g := uniseg.NewGraphemes(string(text))
	pos := 0
	for g.Next() {
		pos += len(g.Runes())
		out = append(out, pos)
	}
	return out
}
