package layout

import (
	"sort"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/bidi"
)

// Direction is a base or isolate direction.
type Direction uint8

// Directions.
const (
	LeftToRight Direction = iota
	RightToLeft
)

// String returns "ltr" or "rtl".
func (d Direction) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// Control and placeholder characters appended to paragraphs.
const (
	LeftToRightIsolate    rune = '\u2066'
	RightToLeftIsolate    rune = '\u2067'
	PopDirectionalIsolate rune = '\u2069'
	LineFeed              rune = '\n'
	NoBreakSpace          rune = '\u00a0'
	ObjectReplacement     rune = '\ufffc'
)

// TextTransform selects the case mapping applied to appended text.
type TextTransform uint8

// Text transforms.
const (
	NoTransform TextTransform = iota
	Uppercase
	Lowercase
	Capitalize
)

// LevelRun is a maximal range of text at one bidi embedding level.
type LevelRun struct {
	Start int
	End   int
	Level int
}

// RTL reports whether the run is right-to-left.
func (r LevelRun) RTL() bool { return r.Level%2 == 1 }

// Paragraph is an append-only buffer of text and bidi control characters
// shared by every text box produced from it. Positions are rune offsets.
//
// A paragraph is open until Close. Appending to a closed paragraph is an
// invariant breach.
type Paragraph struct {
	id        int
	locale    language.Tag
	base      Direction
	stack     []Direction
	text      []rune
	closed    bool
	segmenter Segmenter

	runs      []LevelRun
	breaks    []Break
	graphemes []int
}

// NewParagraph opens a paragraph. The isolates in stack are reopened at the
// start of its text so it continues the directional state of an earlier
// paragraph.
func NewParagraph(id int, locale language.Tag, base Direction, stack []Direction, seg Segmenter) *Paragraph {
	if seg == nil {
		seg = UnicodeSegmenter{}
	}
	p := &Paragraph{
		id:        id,
		locale:    locale,
		base:      base,
		stack:     append([]Direction(nil), stack...),
		segmenter: seg,
	}
	for _, d := range p.stack {
		p.text = append(p.text, isolateFor(d))
	}
	return p
}

func isolateFor(d Direction) rune {
	if d == RightToLeft {
		return RightToLeftIsolate
	}
	return LeftToRightIsolate
}

// ID returns the paragraph's identifier, unique within one layout pass.
func (p *Paragraph) ID() int { return p.id }

// Locale returns the paragraph's language.
func (p *Paragraph) Locale() language.Tag { return p.locale }

// BaseDirection returns the paragraph's base direction.
func (p *Paragraph) BaseDirection() Direction { return p.base }

// FormattingStack returns a copy of the open isolate stack.
func (p *Paragraph) FormattingStack() []Direction {
	return append([]Direction(nil), p.stack...)
}

// IsolateDepth returns the number of open isolates.
func (p *Paragraph) IsolateDepth() int { return len(p.stack) }

// StackDirection returns the direction of the innermost open isolate, or
// the base direction when none is open.
func (p *Paragraph) StackDirection() Direction {
	if n := len(p.stack); n > 0 {
		return p.stack[n-1]
	}
	return p.base
}

// TextEnd returns the offset one past the last character.
func (p *Paragraph) TextEnd() int { return len(p.text) }

// Text returns the whole paragraph text.
func (p *Paragraph) Text() string { return string(p.text) }

// Slice returns the text in [start, end), clamped to the paragraph.
func (p *Paragraph) Slice(start, end int) string {
	start = clamp(start, 0, len(p.text))
	end = clamp(end, start, len(p.text))
	return string(p.text[start:end])
}

// RuneAt returns the character at pos, or 0 when pos is out of range.
func (p *Paragraph) RuneAt(pos int) rune {
	if pos < 0 || pos >= len(p.text) {
		return 0
	}
	return p.text[pos]
}

// IsClosed reports whether the paragraph is closed.
func (p *Paragraph) IsClosed() bool { return p.closed }

// AppendString appends s after applying transform and returns the offset
// where it starts.
func (p *Paragraph) AppendString(s string, transform TextTransform) int {
	assert(!p.closed, "append to closed paragraph %d", p.id)
	start := len(p.text)
	switch transform {
	case Uppercase:
		s = cases.Upper(p.locale).String(s)
	case Lowercase:
		s = cases.Lower(p.locale).String(s)
	case Capitalize:
		s = cases.Title(p.locale, cases.NoLower).String(s)
	}
	p.text = append(p.text, []rune(s)...)
	return start
}

// AppendCodePoint appends a control or placeholder character and returns
// its offset. Isolate initiators push onto the formatting stack and
// PopDirectionalIsolate pops it.
func (p *Paragraph) AppendCodePoint(r rune) int {
	assert(!p.closed, "append to closed paragraph %d", p.id)
	start := len(p.text)
	switch r {
	case LeftToRightIsolate:
		p.stack = append(p.stack, LeftToRight)
	case RightToLeftIsolate:
		p.stack = append(p.stack, RightToLeft)
	case PopDirectionalIsolate:
		assert(len(p.stack) > 0, "unbalanced isolate pop in paragraph %d", p.id)
		p.stack = p.stack[:len(p.stack)-1]
	case LineFeed, NoBreakSpace, ObjectReplacement:
	default:
		assert(false, "unexpected code point %U", r)
	}
	p.text = append(p.text, r)
	return start
}

// Close terminates every open isolate and resolves level runs, line
// breaks and grapheme boundaries. The isolate stack is kept so a later
// paragraph can continue it.
func (p *Paragraph) Close() {
	if p.closed {
		return
	}
	for range p.stack {
		p.text = append(p.text, PopDirectionalIsolate)
	}
	p.closed = true
	p.runs = p.levelRuns()
	p.breaks = p.segmenter.LineBreaks(p.text)
	p.graphemes = p.segmenter.GraphemeBoundaries(p.text)
}

func (p *Paragraph) baseLevel() int {
	if p.base == RightToLeft {
		return 1
	}
	return 0
}

func (p *Paragraph) levelRuns() []LevelRun {
	base := p.baseLevel()
	fallback := []LevelRun{{Start: 0, End: len(p.text), Level: base}}
	if len(p.text) == 0 {
		return fallback
	}

	var bp bidi.Paragraph
	var opts []bidi.Option
	if p.base == RightToLeft {
		opts = append(opts, bidi.DefaultDirection(bidi.RightToLeft))
	}
	if _, err := bp.SetString(string(p.text), opts...); err != nil {
		return fallback
	}
	order, err := bp.Order()
	if err != nil || order.NumRuns() == 0 {
		return fallback
	}

	runs := make([]LevelRun, 0, order.NumRuns())
	for i := 0; i < order.NumRuns(); i++ {
		r := order.Run(i)
		start, last := r.Pos()
		level := base
		if (r.Direction() == bidi.RightToLeft) != (base == 1) {
			level++
		}
		runs = append(runs, LevelRun{Start: start, End: last + 1, Level: level})
	}
	sort.Slice(runs, func(i, j int) bool { return runs[i].Start < runs[j].Start })
	return runs
}

// LevelRuns returns the bidi level runs. Before Close the whole text is a
// single run at the base level.
func (p *Paragraph) LevelRuns() []LevelRun {
	if !p.closed {
		return []LevelRun{{Start: 0, End: len(p.text), Level: p.baseLevel()}}
	}
	return p.runs
}

// BidiLevel returns the embedding level at pos.
func (p *Paragraph) BidiLevel(pos int) int {
	runs := p.LevelRuns()
	i := sort.Search(len(runs), func(i int) bool { return runs[i].End > pos })
	if i == len(runs) {
		return p.baseLevel()
	}
	return runs[i].Level
}

// IsRTL reports whether the character at pos is right-to-left.
func (p *Paragraph) IsRTL(pos int) bool { return p.BidiLevel(pos)%2 == 1 }

// IsCollapsibleWhiteSpace reports whether the character at pos is a
// collapsed space. Other white space has been converted to spaces by then.
func (p *Paragraph) IsCollapsibleWhiteSpace(pos int) bool {
	return p.RuneAt(pos) == ' '
}

// LineBreaks returns the break opportunities in (start, end].
func (p *Paragraph) LineBreaks(start, end int) []Break {
	breaks := p.breaks
	if !p.closed {
		breaks = p.segmenter.LineBreaks(p.text)
	}
	i := sort.Search(len(breaks), func(i int) bool { return breaks[i].Pos > start })
	j := sort.Search(len(breaks), func(i int) bool { return breaks[i].Pos > end })
	return breaks[i:j]
}

// GraphemeCount returns the number of grapheme clusters that end within
// [start, end).
func (p *Paragraph) GraphemeCount(start, end int) int {
	bounds := p.graphemes
	if !p.closed {
		bounds = p.segmenter.GraphemeBoundaries(p.text)
	}
	i := sort.SearchInts(bounds, start+1)
	j := sort.SearchInts(bounds, end+1)
	return j - i
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
