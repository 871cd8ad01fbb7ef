package dom

// Position is a boundary point: a container node and an offset into it.
// The offset counts characters for text and comment nodes and children
// otherwise.
type Position struct {
	Node   NodeID
	Offset int
}

// ComparePositions returns -1 if a is before b in document order, 1 if it
// is after and 0 if they are equal. Positions in different trees compare
// as 0; use CompareChecked to tell that apart from equality. Both offsets
// must be within their container's length.
func ComparePositions(d *Document, a, b Position) int {
	assert(d.checkPosition("", a) == nil && d.checkPosition("", b) == nil,
		"positions %v and %v are out of range", a, b)
	return comparePoints(d, a, d.childBefore(a), b, d.childBefore(b))
}

// CompareChecked is ComparePositions that reports unknown nodes, offsets
// past the container's length and positions in different trees as errors.
func CompareChecked(d *Document, a, b Position) (int, error) {
	const op = "Compare"
	if err := d.checkPosition(op, a); err != nil {
		return 0, err
	}
	if err := d.checkPosition(op, b); err != nil {
		return 0, err
	}
	if d.CommonAncestor(a.Node, b.Node) == InvalidNode {
		return 0, newError(ErrWrongDocument, "Compare", "positions are in different trees")
	}
	return ComparePositions(d, a, b), nil
}

// checkPosition reports an unknown container as ErrInvalidNode and an
// offset outside [0, Length] as ErrIndexSize.
func (d *Document) checkPosition(op string, p Position) error {
	if !d.valid(p.Node) {
		return newError(ErrInvalidNode, op, "unknown node handle")
	}
	if n := d.Length(p.Node); p.Offset < 0 || p.Offset > n {
		return newError(ErrIndexSize, op, "offset %d exceeds length %d", p.Offset, n)
	}
	return nil
}

// childBefore returns the child immediately before a child offset, or
// InvalidNode for character data and offset zero.
func (d *Document) childBefore(p Position) NodeID {
	if d.IsCharacterData(p.Node) || p.Offset <= 0 {
		return InvalidNode
	}
	return d.ChildAt(p.Node, p.Offset-1)
}

func comparePoints(d *Document, a Position, beforeA NodeID, b Position, beforeB NodeID) int {
	if a.Node == b.Node {
		return compareInts(a.Offset, b.Offset)
	}

	// a's container is an ancestor of b's.
	if childB := d.childContaining(a.Node, b.Node); childB != InvalidNode {
		return compareChildBefore(d, beforeA, childB)
	}
	// b's container is an ancestor of a's.
	if childA := d.childContaining(b.Node, a.Node); childA != InvalidNode {
		return -compareChildBefore(d, beforeB, childA)
	}

	common := d.CommonAncestor(a.Node, b.Node)
	if common == InvalidNode {
		return 0
	}
	childA := d.childContaining(common, a.Node)
	childB := d.childContaining(common, b.Node)
	assert(childA != InvalidNode && childB != InvalidNode && childA != childB,
		"positions below %d do not diverge", common)
	return compareSiblings(d, childA, childB)
}

// compareChildBefore orders a position inside an ancestor, given by the
// child before it, against any position inside child, a child of the same
// ancestor.
func compareChildBefore(d *Document, before, child NodeID) int {
	if before == InvalidNode {
		return -1
	}
	for n := d.nodes[child].prev; n != InvalidNode; n = d.nodes[n].prev {
		if n == before {
			return -1
		}
	}
	return 1
}

// compareSiblings orders two distinct siblings by walking outward from
// both at once, so the cost is bounded by the distance between them
// rather than the number of children.
func compareSiblings(d *Document, a, b NodeID) int {
	aNext, aPrev := d.nodes[a].next, d.nodes[a].prev
	bNext, bPrev := d.nodes[b].next, d.nodes[b].prev
	for {
		switch {
		case aNext == b, bPrev == a:
			return -1
		case aPrev == b, bNext == a:
			return 1
		case aNext == InvalidNode:
			return 1
		case aPrev == InvalidNode:
			return -1
		case bNext == InvalidNode:
			return -1
		case bPrev == InvalidNode:
			return 1
		}
		aNext, aPrev = d.nodes[aNext].next, d.nodes[aPrev].prev
		bNext, bPrev = d.nodes[bNext].next, d.nodes[bPrev].prev
	}
}

// childContaining returns the child of ancestor that is an inclusive
// ancestor of n, or InvalidNode when ancestor does not contain n.
func (d *Document) childContaining(ancestor, n NodeID) NodeID {
	for n != InvalidNode {
		p := d.nodes[n].parent
		if p == ancestor {
			return n
		}
		n = p
	}
	return InvalidNode
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
