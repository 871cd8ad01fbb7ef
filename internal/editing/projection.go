// Package editing projects the document selection onto the laid-out box
// tree as highlight rectangles.
package editing

import (
	"fmt"

	"github.com/dshills/folio/internal/dom"
	"github.com/dshills/folio/internal/layout"
)

// Layout is the part of the layout manager the projection reads.
type Layout interface {
	ParagraphOfNode(id dom.NodeID) *layout.Paragraph
	ParagraphPosition(node dom.NodeID, offset int) (*layout.Paragraph, int)
	ItemsByParagraph(p *layout.Paragraph) []layout.Box
}

// Shape classifies a selection by where its boundaries sit.
type Shape int

const (
	// ShapeNone is an empty selection.
	ShapeNone Shape = iota

	// ShapeCollapsed is a caret.
	ShapeCollapsed

	// ShapeSameText has both boundaries in one text node.
	ShapeSameText

	// ShapeSameParent has its boundaries in sibling text nodes.
	ShapeSameParent

	// ShapeDivergent has its boundaries in text nodes with different
	// parents, usually in different paragraphs.
	ShapeDivergent

	// ShapeElement has both boundaries in one element, selecting the
	// paragraphs of the children between them.
	ShapeElement

	// ShapeMixed is any other combination of boundaries.
	ShapeMixed
)

// String returns the shape name.
func (s Shape) String() string {
	switch s {
	case ShapeNone:
		return "none"
	case ShapeCollapsed:
		return "collapsed"
	case ShapeSameText:
		return "same-text"
	case ShapeSameParent:
		return "same-parent"
	case ShapeDivergent:
		return "divergent"
	case ShapeElement:
		return "element"
	case ShapeMixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// Classify returns the shape of the selection between anchor and focus.
func Classify(d *dom.Document, anchor, focus dom.Position) Shape {
	switch {
	case anchor.Node == dom.InvalidNode || focus.Node == dom.InvalidNode:
		return ShapeNone
	case anchor == focus:
		return ShapeCollapsed
	}
	aText := d.Kind(anchor.Node) == dom.KindText
	fText := d.Kind(focus.Node) == dom.KindText
	switch {
	case aText && fText && anchor.Node == focus.Node:
		return ShapeSameText
	case aText && fText && d.Parent(anchor.Node) == d.Parent(focus.Node):
		return ShapeSameParent
	case aText && fText:
		return ShapeDivergent
	case d.IsElement(anchor.Node) && anchor.Node == focus.Node:
		return ShapeElement
	default:
		return ShapeMixed
	}
}

// Overlap is how a text box's range meets a selected range.
type Overlap int

const (
	// OverlapNone means the box is outside the selection.
	OverlapNone Overlap = iota

	// OverlapInside means the box lies wholly inside the selection.
	OverlapInside

	// OverlapLow means only the selection's low bound falls in the box.
	OverlapLow

	// OverlapHigh means only the selection's high bound falls in the box.
	OverlapHigh

	// OverlapBoth means both bounds fall in the box.
	OverlapBoth
)

// ClassifyOverlap compares the box range [start, end] with the selected
// range [lo, hi]. Bounds are inclusive so a selection ending exactly at a
// box edge still touches it.
func ClassifyOverlap(start, end, lo, hi int) Overlap {
	loIn := start <= lo && lo <= end
	hiIn := start <= hi && hi <= end
	switch {
	case loIn && hiIn:
		return OverlapBoth
	case loIn:
		return OverlapLow
	case hiIn:
		return OverlapHigh
	case lo <= start && hi >= end:
		return OverlapInside
	default:
		return OverlapNone
	}
}

// Clip returns the selected part of the box range for an overlap.
func Clip(o Overlap, start, end, lo, hi int) (int, int) {
	switch o {
	case OverlapBoth:
		return lo, hi
	case OverlapLow:
		return lo, end
	case OverlapHigh:
		return start, hi
	case OverlapInside:
		return start, end
	default:
		return start, start
	}
}

// Highlight is the selected part of one leaf box.
type Highlight struct {
	Box   layout.Box
	Start int
	End   int
	Rect  layout.Rect
}

// Projector turns selections into highlights.
type Projector struct {
	doc     *dom.Document
	layout  Layout
	metrics *layout.Metrics
}

// NewProjector returns a projector over a laid-out document. Metrics must
// be the ones the layout was placed with.
func NewProjector(doc *dom.Document, l Layout, metrics *layout.Metrics) *Projector {
	if metrics == nil {
		metrics = layout.NewMetrics(layout.DefaultCharWidthRatio)
	}
	return &Projector{doc: doc, layout: l, metrics: metrics}
}

// Selection projects the document's current selection.
func (p *Projector) Selection() ([]Highlight, error) {
	sel := p.doc.Selection()
	if sel.Type() != dom.SelectionRange {
		return nil, nil
	}
	return p.Project(sel.Anchor(), sel.Focus())
}

// Project returns the highlights between anchor and focus. The result does
// not depend on which of the two comes first.
func (p *Projector) Project(anchor, focus dom.Position) ([]Highlight, error) {
	d := p.doc
	shape := Classify(d, anchor, focus)
	if shape == ShapeNone {
		return nil, nil
	}
	cmp, err := dom.CompareChecked(d, focus, anchor)
	if err != nil {
		return nil, err
	}
	switch shape {
	case ShapeCollapsed:
		return nil, nil
	case ShapeElement:
		return p.projectChildren(anchor.Node, anchor.Offset, focus.Offset), nil
	case ShapeMixed:
		return nil, fmt.Errorf("%w: %s at %d to %s at %d", ErrUnsupportedSelection,
			d.NodeName(anchor.Node), anchor.Offset, d.NodeName(focus.Node), focus.Offset)
	}

	start, end := anchor, focus
	if cmp < 0 {
		start, end = focus, anchor
	}
	startPara, lo := p.layout.ParagraphPosition(start.Node, start.Offset)
	endPara, hi := p.layout.ParagraphPosition(end.Node, end.Offset)
	if startPara == nil || endPara == nil {
		return nil, nil
	}
	if startPara == endPara {
		return p.projectRange(startPara, lo, hi), nil
	}

	paragraphs := p.paragraphsUnder(d.CommonAncestor(start.Node, end.Node))
	first, last := indexOf(paragraphs, startPara), indexOf(paragraphs, endPara)
	if first < 0 || last < 0 || first > last {
		return nil, nil
	}
	var out []Highlight
	for i := first; i <= last; i++ {
		para := paragraphs[i]
		switch i {
		case first:
			out = append(out, p.projectRange(para, lo, para.TextEnd())...)
		case last:
			out = append(out, p.projectRange(para, 0, hi)...)
		default:
			out = append(out, p.projectRange(para, 0, para.TextEnd())...)
		}
	}
	return out, nil
}

// projectChildren selects every paragraph of the children of parent with
// indices in [from, to).
func (p *Projector) projectChildren(parent dom.NodeID, from, to int) []Highlight {
	if from > to {
		from, to = to, from
	}
	d := p.doc
	var paragraphs []*layout.Paragraph
	for i := from; i < to; i++ {
		child := d.ChildAt(parent, i)
		if child == dom.InvalidNode {
			break
		}
		paragraphs = appendParagraph(paragraphs, p.layout.ParagraphOfNode(child))
		for _, n := range d.Descendants(child) {
			paragraphs = appendParagraph(paragraphs, p.layout.ParagraphOfNode(n))
		}
	}
	var out []Highlight
	for _, para := range paragraphs {
		out = append(out, p.projectRange(para, 0, para.TextEnd())...)
	}
	return out
}

// paragraphsUnder returns the paragraphs content under root went into, in
// document order.
func (p *Projector) paragraphsUnder(root dom.NodeID) []*layout.Paragraph {
	var out []*layout.Paragraph
	for _, n := range p.doc.Descendants(root) {
		out = appendParagraph(out, p.layout.ParagraphOfNode(n))
	}
	return out
}

// projectRange highlights the leaves of para that meet [lo, hi).
func (p *Projector) projectRange(para *layout.Paragraph, lo, hi int) []Highlight {
	if lo > hi {
		lo, hi = hi, lo
	}
	var out []Highlight
	for _, item := range p.layout.ItemsByParagraph(para) {
		switch b := item.(type) {
		case *layout.TextBox:
			o := ClassifyOverlap(b.Start(), b.End(), lo, hi)
			start, end := Clip(o, b.Start(), b.End(), lo, hi)
			if start >= end {
				continue
			}
			out = append(out, Highlight{Box: b, Start: start, End: end, Rect: p.sliceRect(b, start, end)})
		case *layout.ReplacedBox:
			if pos := b.Position(); lo <= pos && pos < hi {
				out = append(out, Highlight{Box: b, Start: pos, End: pos + 1, Rect: b.Frame()})
			}
		}
	}
	return out
}

// sliceRect returns the part of the box frame covering [start, end).
func (p *Projector) sliceRect(b *layout.TextBox, start, end int) layout.Rect {
	para := b.Paragraph()
	f := b.Frame()
	left := f.Min.X + p.metrics.Advance(b.Style(), para.Slice(b.Start(), start))
	right := f.Min.X + p.metrics.Advance(b.Style(), para.Slice(b.Start(), end))
	if right > f.Max.X {
		right = f.Max.X
	}
	return layout.RectXYWH(left, f.Min.Y, right-left, f.Max.Y-f.Min.Y)
}

func appendParagraph(list []*layout.Paragraph, p *layout.Paragraph) []*layout.Paragraph {
	if p == nil || indexOf(list, p) >= 0 {
		return list
	}
	return append(list, p)
}

func indexOf(list []*layout.Paragraph, p *layout.Paragraph) int {
	for i, q := range list {
		if q == p {
			return i
		}
	}
	return -1
}
