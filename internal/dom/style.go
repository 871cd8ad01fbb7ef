package dom

import "github.com/dshills/folio/internal/cssom"

// UpdateComputedStyles brings every computed style up to date. It is a
// no-op unless a mutation marked styles dirty since the last call.
func (d *Document) UpdateComputedStyles() {
	if !d.styleDirty {
		return
	}
	if root := d.DocumentElement(); root != InvalidNode {
		d.updateComputedStyle(root, d.initialStyle)
		d.updateComputedStyleRecursively(root, d.initialStyle, true, 0)
	}
	d.styleDirty = false
}

// updateComputedStyleRecursively visits id and its element descendants.
// Children of a valid element are revisited only when the element's
// descendants were invalidated, or a descendant's own style was.
func (d *Document) updateComputedStyleRecursively(id NodeID, parentStyle *cssom.ComputedStyle, ancestorsWereValid bool, depth int) {
	if d.maxElementDepth > 0 && depth >= d.maxElementDepth {
		return
	}
	e := d.nodes[id].elem

	isValid := ancestorsWereValid && e.styleValid
	if !isValid {
		d.updateComputedStyle(id, parentStyle)
	}

	// display: none elements keep their own style current so a later
	// display change is seen, but their descendants do not take part in
	// layout.
	if e.computed.Display() == cssom.KeywordNone {
		return
	}
	if isValid && e.descendantsValid && !e.subtreeDirty {
		return
	}

	childrenValid := isValid && e.descendantsValid
	for c := d.nodes[id].first; c != InvalidNode; c = d.nodes[c].next {
		if d.nodes[c].kind == KindElement {
			d.updateComputedStyleRecursively(c, e.computed, childrenValid, depth+1)
		}
	}
	e.descendantsValid = true
	e.subtreeDirty = false
}

// updateComputedStyle regenerates the element's style when required and
// applies the invalidations the change implies.
func (d *Document) updateComputedStyle(id NodeID, parentStyle *cssom.ComputedStyle) {
	e := d.nodes[id].elem

	regenerate := !e.styleValid || e.computed == nil ||
		!e.computed.InheritedValuesMatch(parentStyle) ||
		e.ancestorsDisplayed == AncestorsAreNotDisplayed

	var flags cssom.InvalidationFlags
	if regenerate {
		updated := cssom.Compute(e.style, d.userAgent.For(e.tag), parentStyle, d.rootStyle(), d.viewport)
		if e.computed == nil {
			flags.InvalidateLayoutBoxes = true
		} else {
			d.classification.Diff(e.computed, updated, &flags)
		}
		e.computed = updated
		e.lastInvalidation = flags
	}
	e.ancestorsDisplayed = AncestorsAreDisplayed

	if flags.MarkDescendantsNotDisplayed {
		d.markNotDisplayedOnDescendants(id)
	}
	if flags.InvalidateDescendantStyles {
		d.invalidateComputedStylesOfDescendants(id)
	}
	if flags.InvalidateLayoutBoxes {
		d.invalidateLayoutBoxesOfNodeAndAncestors(id)
		d.invalidateLayoutBoxesOfDescendants(id)
	} else if b := e.boxes; b != nil {
		if flags.InvalidateSizes {
			b.InvalidateSizes()
		}
		if flags.InvalidateCrossReferences {
			b.InvalidateCrossReferences()
		}
		if flags.InvalidateRenderTreeNodes {
			b.InvalidateRenderTreeNodes()
		}
	}
	e.styleValid = true
}

// rootStyle returns the computed style of the document element, which rem
// units resolve against.
func (d *Document) rootStyle() *cssom.ComputedStyle {
	if root := d.DocumentElement(); root != InvalidNode && d.nodes[root].elem.computed != nil {
		return d.nodes[root].elem.computed
	}
	return d.initialStyle
}

// invalidateComputedStyle marks a single element's style stale.
func (d *Document) invalidateComputedStyle(id NodeID) {
	d.nodes[id].elem.styleValid = false
	d.markAncestorsSubtreeDirty(id)
	d.styleDirty = true
}

func (d *Document) invalidateComputedStylesOfNodeAndDescendants(id NodeID) {
	d.walk(id, func(n NodeID) bool {
		if e := d.nodes[n].elem; e != nil {
			e.styleValid = false
			e.descendantsValid = false
		}
		return true
	})
	d.markAncestorsSubtreeDirty(id)
	d.styleDirty = true
}

func (d *Document) invalidateComputedStylesOfDescendants(id NodeID) {
	for c := d.nodes[id].first; c != InvalidNode; c = d.nodes[c].next {
		d.invalidateComputedStylesOfNodeAndDescendants(c)
	}
	if e := d.nodes[id].elem; e != nil {
		e.descendantsValid = false
	}
}

// markAncestorsSubtreeDirty records on every ancestor of id that a
// descendant needs a style visit.
func (d *Document) markAncestorsSubtreeDirty(id NodeID) {
	for p := d.nodes[id].parent; p != InvalidNode; p = d.nodes[p].parent {
		e := d.nodes[p].elem
		if e == nil {
			continue
		}
		if e.subtreeDirty {
			return
		}
		e.subtreeDirty = true
	}
}

func (d *Document) markNotDisplayedOnDescendants(id NodeID) {
	for _, n := range d.Descendants(id) {
		if e := d.nodes[n].elem; e != nil {
			e.ancestorsDisplayed = AncestorsAreNotDisplayed
		}
	}
}

func (d *Document) releaseLayoutBoxes(id NodeID) {
	e := d.nodes[id].elem
	if e == nil || e.boxes == nil {
		return
	}
	b := e.boxes
	e.boxes = nil
	b.Release()
}

func (d *Document) invalidateLayoutBoxesOfNodeAndAncestors(id NodeID) {
	for n := id; n != InvalidNode; n = d.nodes[n].parent {
		d.releaseLayoutBoxes(n)
	}
}

func (d *Document) invalidateLayoutBoxesOfNodeAndDescendants(id NodeID) {
	d.walk(id, func(n NodeID) bool {
		d.releaseLayoutBoxes(n)
		return true
	})
}

func (d *Document) invalidateLayoutBoxesOfDescendants(id NodeID) {
	for c := d.nodes[id].first; c != InvalidNode; c = d.nodes[c].next {
		d.invalidateLayoutBoxesOfNodeAndDescendants(c)
	}
}
