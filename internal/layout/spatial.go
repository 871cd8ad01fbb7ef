package layout

import (
	"sort"

	"github.com/tidwall/rtree"
)

// SpatialIndex answers geometric queries over the placed leaf boxes of a
// layout: text boxes and replaced boxes.
type SpatialIndex struct {
	tree        rtree.RTreeG[Box]
	byParagraph map[*Paragraph][]Box
	count       int
}

// NewSpatialIndex indexes the leaves under root.
func NewSpatialIndex(root Box) *SpatialIndex {
	s := &SpatialIndex{byParagraph: make(map[*Paragraph][]Box)}
	Walk(root, func(b Box) bool {
		var p *Paragraph
		switch leaf := b.(type) {
		case *TextBox:
			p = leaf.paragraph
		case *ReplacedBox:
			p = leaf.paragraph
		default:
			return true
		}
		min, max := rectBounds(b.Frame())
		s.tree.Insert(min, max, b)
		s.byParagraph[p] = append(s.byParagraph[p], b)
		s.count++
		return true
	})
	for _, boxes := range s.byParagraph {
		sortByPosition(boxes)
	}
	return s
}

// Len returns the number of indexed boxes.
func (s *SpatialIndex) Len() int { return s.count }

// Search returns the boxes whose frames intersect r, top to bottom then
// left to right. Zero-area frames on the edge of r count as intersecting.
func (s *SpatialIndex) Search(r Rect) []Box {
	min, max := rectBounds(r)
	var out []Box
	s.tree.Search(min, max, func(_, _ [2]float64, b Box) bool {
		out = append(out, b)
		return true
	})
	sortByPosition(out)
	return out
}

// HitTest returns the boxes containing the point (x, y), innermost last.
func (s *SpatialIndex) HitTest(x, y Unit) []Box {
	var out []Box
	for _, b := range s.Search(Rect{Min: fixedPoint(x, y), Max: fixedPoint(x, y)}) {
		f := b.Frame()
		if x >= f.Min.X && x < f.Max.X && y >= f.Min.Y && y < f.Max.Y {
			out = append(out, b)
		}
	}
	return out
}

// ByParagraph returns the boxes of p in placement order.
func (s *SpatialIndex) ByParagraph(p *Paragraph) []Box {
	return s.byParagraph[p]
}

func sortByPosition(boxes []Box) {
	sort.SliceStable(boxes, func(i, j int) bool {
		a, b := boxes[i].Frame().Min, boxes[j].Frame().Min
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
}
