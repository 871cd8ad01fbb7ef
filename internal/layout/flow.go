package layout

import (
	"strings"

	"github.com/dshills/folio/internal/cssom"
)

type edges struct {
	top, right, bottom, left Unit
}

func (e edges) add(o edges) edges {
	return edges{e.top + o.top, e.right + o.right, e.bottom + o.bottom, e.left + o.left}
}

var (
	marginKeys  = [4]cssom.PropertyKey{cssom.PropertyMarginTop, cssom.PropertyMarginRight, cssom.PropertyMarginBottom, cssom.PropertyMarginLeft}
	paddingKeys = [4]cssom.PropertyKey{cssom.PropertyPaddingTop, cssom.PropertyPaddingRight, cssom.PropertyPaddingBottom, cssom.PropertyPaddingLeft}
	borderKeys  = [4]cssom.PropertyKey{cssom.PropertyBorderTopWidth, cssom.PropertyBorderRightWidth, cssom.PropertyBorderBottomWidth, cssom.PropertyBorderLeftWidth}
	borderStyle = [4]cssom.PropertyKey{cssom.PropertyBorderTopStyle, cssom.PropertyBorderRightStyle, cssom.PropertyBorderBottomStyle, cssom.PropertyBorderLeftStyle}
)

func sides(s *cssom.ComputedStyle, keys [4]cssom.PropertyKey, base float64, present func(i int) bool) edges {
	var v [4]Unit
	for i, k := range keys {
		if present == nil || present(i) {
			v[i] = Px(s.ResolvePixels(k, base, 0))
		}
	}
	return edges{top: v[0], right: v[1], bottom: v[2], left: v[3]}
}

// boxEdges returns the margin and the border plus padding of s. Borders
// with style none have no width. Percentage margins and padding are taken
// of the containing block width on every side.
func boxEdges(s *cssom.ComputedStyle, cbWidth float64) (margin, inset edges) {
	margin = sides(s, marginKeys, cbWidth, nil)
	border := sides(s, borderKeys, -1, func(i int) bool {
		kw, _ := s.Get(borderStyle[i]).(cssom.Keyword)
		return kw != cssom.KeywordNone && kw != cssom.KeywordHidden
	})
	return margin, border.add(sides(s, paddingKeys, cbWidth, nil))
}

// flow places a box forest. Blocks stack vertically without margin
// collapsing; inline content fills lines left to right and wraps at line
// break opportunities.
type flow struct {
	metrics *Metrics
}

// layoutBlock places c at (x, y) within avail width and returns the
// height it occupies including margins. cbHeight is the containing block
// height, negative when it depends on content.
func (f *flow) layoutBlock(c *ContainerBox, x, y, avail, cbHeight Unit) Unit {
	s := c.style
	margin, inset := boxEdges(s, ToPx(avail))

	contentW := avail - margin.left - margin.right - inset.left - inset.right
	if w := s.ResolvePixels(cssom.PropertyWidth, ToPx(avail), -1); w >= 0 {
		contentW = Px(w)
	}
	if contentW < 0 {
		contentW = 0
	}
	height := Unit(-1)
	if h := s.ResolvePixels(cssom.PropertyHeight, ToPx(cbHeight), -1); h >= 0 {
		height = Px(h)
	}
	contentX := x + margin.left + inset.left
	contentY := y + margin.top + inset.top

	bottom := f.layoutChildren(c.children, contentX, contentY, contentW, height, s.Get(cssom.PropertyTextAlign))
	contentH := bottom - contentY
	if height >= 0 {
		contentH = height
	}

	c.setFrame(RectXYWH(x+margin.left, y+margin.top,
		inset.left+contentW+inset.right, inset.top+contentH+inset.bottom))
	return margin.top + Height(c.frame) + margin.bottom
}

// layoutChildren places a block container's children and returns the
// bottom of the last one.
func (f *flow) layoutChildren(children []Box, x, y, width, height Unit, align cssom.Value) Unit {
	var run []Box
	for _, child := range children {
		if child.Level() == InlineLevel {
			run = append(run, child)
			continue
		}
		y = f.layoutInline(run, x, y, width, align)
		run = nil

		switch b := child.(type) {
		case *ContainerBox:
			y += f.layoutBlock(b, x, y, width, height)
		case *ReplacedBox:
			b.setFrame(RectXYWH(x, y, b.width, b.height))
			y += b.height
		default:
			assert(false, "block-level %T", child)
		}
	}
	return f.layoutInline(run, x, y, width, align)
}

type lineBox struct {
	x, y   Unit
	width  Unit
	cursor Unit
	height Unit
	items  []Box
	align  cssom.Value
}

func (l *lineBox) empty() bool { return len(l.items) == 0 }

func (l *lineBox) place(b Box, w, h Unit) {
	b.setFrame(RectXYWH(l.x+l.cursor, l.y, w, h))
	l.cursor += w
	if h > l.height {
		l.height = h
	}
	l.items = append(l.items, b)
}

// finish aligns the line and returns the top of the next one.
func (l *lineBox) finish() Unit {
	var shift Unit
	switch l.align {
	case cssom.KeywordRight:
		shift = l.width - l.cursor
	case cssom.KeywordCenter:
		shift = (l.width - l.cursor) / 2
	}
	if shift > 0 {
		for _, b := range l.items {
			b.setFrame(b.Frame().Add(fixedPoint(shift, 0)))
		}
	}
	return l.y + l.height
}

// layoutInline fills lines with the leaves of run, splitting text boxes at
// line break opportunities, and returns the bottom of the last line.
func (f *flow) layoutInline(run []Box, x, y, width Unit, align cssom.Value) Unit {
	if len(run) == 0 {
		return y
	}
	leaves := flattenInline(run, nil)
	ln := &lineBox{x: x, y: y, width: width, align: align}
	newLine := func() {
		ln = &lineBox{x: x, y: ln.finish(), width: width, align: align}
	}

	for i := 0; i < len(leaves); i++ {
		switch b := leaves[i].(type) {
		case *TextBox:
			adv := f.metrics.Advance(b.style, b.Text())
			if ln.cursor+adv > width && allowsWrapping(b.style.WhiteSpace()) {
				if rest := f.fit(b, width-ln.cursor, ln.empty()); rest != nil {
					leaves = append(leaves[:i+1], append([]Box{rest}, leaves[i+1:]...)...)
					adv = f.metrics.Advance(b.style, b.Text())
				} else if !ln.empty() {
					newLine()
					i--
					continue
				}
			}
			ln.place(b, adv, f.metrics.LineHeight(b.style))
			if b.HasTrailingLineBreak() || i+1 < len(leaves) && isSplitRest(b, leaves[i+1]) {
				newLine()
			}
		case *ReplacedBox:
			if ln.cursor+b.width > width && !ln.empty() {
				newLine()
			}
			ln.place(b, b.width, b.height)
		default:
			assert(false, "inline leaf %T", b)
		}
	}
	bottom := ln.finish()

	for _, b := range run {
		if c, ok := b.(*ContainerBox); ok {
			fitInlineContainer(c, fixedPoint(x, y))
		}
	}
	return bottom
}

// isSplitRest reports whether next was split off b by fit, which means b
// filled its line.
func isSplitRest(b *TextBox, next Box) bool {
	t, ok := next.(*TextBox)
	return ok && t.productOfSplit && t.node == b.node && t.paragraph == b.paragraph && t.start == b.end
}

// fit splits b at the last break opportunity whose text fits in avail and
// returns the remainder. On an empty line with no fitting opportunity it
// splits at the first one so the line overflows as little as possible.
// It returns nil when b is not split.
func (f *flow) fit(b *TextBox, avail Unit, lineEmpty bool) *TextBox {
	p := b.paragraph
	best, first := -1, -1
	for _, br := range p.LineBreaks(b.start, b.end) {
		if br.Pos >= b.end {
			break
		}
		if first < 0 {
			first = br.Pos
		}
		// Trailing spaces hang past the end of the line.
		if f.metrics.Advance(b.style, strings.TrimRight(p.Slice(b.start, br.Pos), " ")) > avail {
			break
		}
		best = br.Pos
	}
	if best < 0 {
		if !lineEmpty || first < 0 {
			return nil
		}
		best = first
	}
	return b.splitAt(best)
}

func flattenInline(boxes []Box, out []Box) []Box {
	for _, b := range boxes {
		if c, ok := b.(*ContainerBox); ok {
			out = flattenInline(c.children, out)
			continue
		}
		out = append(out, b)
	}
	return out
}

// fitInlineContainer sizes an inline container to the union of its
// descendants. An empty container collapses to a point at origin.
func fitInlineContainer(c *ContainerBox, origin Point) {
	var frame Rect
	set := false
	for _, child := range c.children {
		if cc, ok := child.(*ContainerBox); ok {
			fitInlineContainer(cc, origin)
		}
		frame = unionRect(frame, child.Frame(), set)
		set = true
	}
	if !set {
		frame = Rect{Min: origin, Max: origin}
	}
	c.setFrame(frame)
}
