package dom

// ChildList is a live view of a node's children. It caches the children it
// saw at a generation and rebuilds only when the base node's generation has
// moved since.
//
// A ChildList is a value; Refresh returns an updated copy instead of
// mutating the receiver.
type ChildList struct {
	base         NodeID
	elementsOnly bool
	gen          uint64
	items        []NodeID
	rebuilds     int
}

// NewChildList returns a list of every child of base.
func NewChildList(base NodeID) ChildList {
	return ChildList{base: base}
}

// NewElementChildList returns a list of the element children of base.
func NewElementChildList(base NodeID) ChildList {
	return ChildList{base: base, elementsOnly: true}
}

// Base returns the node whose children are listed.
func (l ChildList) Base() NodeID { return l.base }

// Rebuilds returns how many times the cache has been rebuilt.
func (l ChildList) Rebuilds() int { return l.rebuilds }

// Stale reports whether the cached items no longer reflect d.
func (l ChildList) Stale(d *Document) bool {
	return l.gen != d.Generation(l.base)
}

// Refresh returns l with its cache rebuilt if the base generation changed.
// An unchanged generation returns l as is.
func (l ChildList) Refresh(d *Document) ChildList {
	gen := d.Generation(l.base)
	if l.gen == gen {
		return l
	}
	items := make([]NodeID, 0, d.ChildCount(l.base))
	for c := d.FirstChild(l.base); c != InvalidNode; c = d.NextSibling(c) {
		if l.elementsOnly && !d.IsElement(c) {
			continue
		}
		items = append(items, c)
	}
	return ChildList{
		base:         l.base,
		elementsOnly: l.elementsOnly,
		gen:          gen,
		items:        items,
		rebuilds:     l.rebuilds + 1,
	}
}

// Items returns the cached children. Callers must Refresh first.
func (l ChildList) Items() []NodeID { return l.items }

// Len returns the number of cached children.
func (l ChildList) Len() int { return len(l.items) }

// At returns the cached child at i, or InvalidNode.
func (l ChildList) At(i int) NodeID {
	if i < 0 || i >= len(l.items) {
		return InvalidNode
	}
	return l.items[i]
}
