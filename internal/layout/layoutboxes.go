package layout

import "github.com/dshills/folio/internal/dom"

// elementBoxes is the record a Manager attaches to each element it laid
// out. The document reports style invalidations through it.
type elementBoxes struct {
	m        *Manager
	id       dom.NodeID
	boxes    []Box
	released bool
}

var _ dom.LayoutBoxes = (*elementBoxes)(nil)

// Release marks the boxes as no longer describing the element.
func (e *elementBoxes) Release() {
	if e.released {
		return
	}
	e.released = true
	e.m.stats.Released++
	e.m.markDirty()
}

// InvalidateSizes requires the next pass to place the boxes again.
func (e *elementBoxes) InvalidateSizes() {
	e.m.stats.SizeInvalidations++
	e.m.markDirty()
}

// InvalidateCrossReferences requires the next pass to recompute anything
// that refers to these boxes from elsewhere in the tree.
func (e *elementBoxes) InvalidateCrossReferences() {
	e.m.stats.CrossRefInvalidations++
	e.m.markDirty()
}

// InvalidateRenderTreeNodes only needs a repaint, so geometry is kept.
func (e *elementBoxes) InvalidateRenderTreeNodes() {
	e.m.stats.Repaints++
}
