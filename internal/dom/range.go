package dom

import "github.com/google/uuid"

// boundaryPoint is a Position plus the child before it, cached at the
// container generation it was computed for.
type boundaryPoint struct {
	Position
	childBefore NodeID
	gen         uint64
}

func (d *Document) newBoundaryPoint(p Position) boundaryPoint {
	return boundaryPoint{Position: p, childBefore: d.childBefore(p), gen: d.Generation(p.Node)}
}

// fresh returns bp with its cached child recomputed if the container has
// changed since it was cached.
func (d *Document) fresh(bp boundaryPoint) boundaryPoint {
	if bp.Node == InvalidNode || bp.gen == d.Generation(bp.Node) {
		return bp
	}
	return d.newBoundaryPoint(bp.Position)
}

// Range is a pair of boundary points with start never after end.
type Range struct {
	id    uuid.UUID
	doc   *Document
	start boundaryPoint
	end   boundaryPoint
}

// CreateRange returns a collapsed range at the start of the document.
func (d *Document) CreateRange() *Range {
	bp := d.newBoundaryPoint(Position{Node: d.root})
	return &Range{id: uuid.New(), doc: d, start: bp, end: bp}
}

// ID returns the range's unique identifier.
func (r *Range) ID() uuid.UUID { return r.id }

// Start returns the start position.
func (r *Range) Start() Position { return r.start.Position }

// End returns the end position.
func (r *Range) End() Position { return r.end.Position }

// Collapsed reports whether start equals end.
func (r *Range) Collapsed() bool { return r.start.Position == r.end.Position }

// SetStart moves the start. If the new start is after the end, or in a
// different tree, the range collapses to it.
func (r *Range) SetStart(node NodeID, offset int) error {
	bp, err := r.checkPoint("SetStart", node, offset)
	if err != nil {
		return err
	}
	r.start = bp
	if r.compare(r.start, r.end) > 0 || !r.sameTree(r.start, r.end) {
		r.end = bp
	}
	return nil
}

// SetEnd moves the end. If the new end is before the start, or in a
// different tree, the range collapses to it.
func (r *Range) SetEnd(node NodeID, offset int) error {
	bp, err := r.checkPoint("SetEnd", node, offset)
	if err != nil {
		return err
	}
	r.end = bp
	if r.compare(r.start, r.end) > 0 || !r.sameTree(r.start, r.end) {
		r.start = bp
	}
	return nil
}

// Collapse moves one boundary onto the other.
func (r *Range) Collapse(toStart bool) {
	if toStart {
		r.end = r.start
	} else {
		r.start = r.end
	}
}

// CommonAncestorContainer returns the nearest node containing both
// boundaries.
func (r *Range) CommonAncestorContainer() NodeID {
	return r.doc.CommonAncestor(r.start.Node, r.end.Node)
}

// ComparePoint returns -1, 0 or 1 as p is before, inside or after the range.
func (r *Range) ComparePoint(p Position) (int, error) {
	bp, err := r.checkPoint("ComparePoint", p.Node, p.Offset)
	if err != nil {
		return 0, err
	}
	if !r.sameTree(bp, r.start) {
		return 0, newError(ErrWrongDocument, "ComparePoint", "point is in a different tree")
	}
	if r.compare(bp, r.start) < 0 {
		return -1, nil
	}
	if r.compare(bp, r.end) > 0 {
		return 1, nil
	}
	return 0, nil
}

// Clone returns an independent copy with a new ID.
func (r *Range) Clone() *Range {
	return &Range{id: uuid.New(), doc: r.doc, start: r.start, end: r.end}
}

func (r *Range) checkPoint(op string, node NodeID, offset int) (boundaryPoint, error) {
	p := Position{Node: node, Offset: offset}
	if err := r.doc.checkPosition(op, p); err != nil {
		return boundaryPoint{}, err
	}
	return r.doc.newBoundaryPoint(p), nil
}

func (r *Range) compare(a, b boundaryPoint) int {
	d := r.doc
	a, b = d.fresh(a), d.fresh(b)
	return comparePoints(d, a.Position, a.childBefore, b.Position, b.childBefore)
}

func (r *Range) sameTree(a, b boundaryPoint) bool {
	return r.doc.CommonAncestor(a.Node, b.Node) != InvalidNode
}
