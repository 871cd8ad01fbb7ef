package dom

// AppendChild inserts child as the last child of parent.
func (d *Document) AppendChild(parent, child NodeID) error {
	return d.insert("AppendChild", parent, child, InvalidNode)
}

// InsertBefore inserts child before ref. A zero ref appends.
func (d *Document) InsertBefore(parent, child, ref NodeID) error {
	return d.insert("InsertBefore", parent, child, ref)
}

func (d *Document) insert(op string, parent, child, ref NodeID) error {
	if err := d.preInsert(op, parent, child, ref); err != nil {
		return err
	}
	if ref == child {
		ref = d.nodes[child].next
	}

	if old := d.nodes[child].parent; old != InvalidNode {
		if err := d.RemoveChild(old, child); err != nil {
			return err
		}
	}

	p := &d.nodes[parent]
	c := &d.nodes[child]
	c.parent = parent
	if ref == InvalidNode {
		c.prev = p.last
		c.next = InvalidNode
		if p.last != InvalidNode {
			d.nodes[p.last].next = child
		} else {
			p.first = child
		}
		p.last = child
	} else {
		r := &d.nodes[ref]
		c.prev = r.prev
		c.next = ref
		if r.prev != InvalidNode {
			d.nodes[r.prev].next = child
		} else {
			p.first = child
		}
		r.prev = child
	}
	p.childCount++

	d.bumpGeneration(child)
	d.invalidateLayoutBoxesOfNodeAndAncestors(parent)
	d.invalidateComputedStylesOfNodeAndDescendants(child)
	d.invalidateLayoutBoxesOfNodeAndDescendants(child)

	if d.nodes[parent].inserted {
		d.onInserted(child)
	}
	d.selection.onNodeInserted(child)
	if d.nodes[parent].inserted {
		d.onDOMMutation(MutationRecord{Kind: MutationChildList, Target: parent})
	}
	return nil
}

// preInsert validates an insertion without changing anything.
func (d *Document) preInsert(op string, parent, child, ref NodeID) error {
	if !d.valid(parent) || !d.valid(child) {
		return newError(ErrInvalidNode, op, "unknown node handle")
	}
	switch d.nodes[parent].kind {
	case KindDocument, KindElement:
	default:
		return newError(ErrHierarchyRequest, op, "%s nodes cannot have children", d.nodes[parent].kind)
	}
	if d.nodes[child].kind == KindDocument {
		return newError(ErrHierarchyRequest, op, "a document cannot be inserted")
	}
	if d.Contains(child, parent) {
		return newError(ErrHierarchyRequest, op, "the new child contains the parent")
	}
	if ref != InvalidNode && (!d.valid(ref) || d.nodes[ref].parent != parent) {
		return newError(ErrNotFound, op, "the reference node is not a child of the parent")
	}
	return nil
}

// RemoveChild removes child from parent. The child keeps its subtree and
// may be inserted again.
func (d *Document) RemoveChild(parent, child NodeID) error {
	const op = "RemoveChild"
	if !d.valid(parent) || !d.valid(child) {
		return newError(ErrInvalidNode, op, "unknown node handle")
	}
	if d.nodes[child].parent != parent {
		return newError(ErrNotFound, op, "the node is not a child of the parent")
	}

	d.bumpGeneration(child)
	d.invalidateLayoutBoxesOfNodeAndAncestors(parent)
	d.invalidateComputedStylesOfNodeAndDescendants(child)
	d.invalidateLayoutBoxesOfNodeAndDescendants(child)

	d.selection.onNodeRemoved(child)
	wasInserted := d.nodes[child].inserted
	if wasInserted {
		d.onRemoved(child)
	}

	p := &d.nodes[parent]
	c := &d.nodes[child]
	if c.prev != InvalidNode {
		d.nodes[c.prev].next = c.next
	} else {
		p.first = c.next
	}
	if c.next != InvalidNode {
		d.nodes[c.next].prev = c.prev
	} else {
		p.last = c.prev
	}
	c.parent, c.prev, c.next = InvalidNode, InvalidNode, InvalidNode
	p.childCount--

	if wasInserted {
		d.onDOMMutation(MutationRecord{Kind: MutationChildList, Target: parent})
	}
	return nil
}

// ReplaceChildren removes every child of parent, then appends children.
func (d *Document) ReplaceChildren(parent NodeID, children ...NodeID) error {
	for c := d.n(parent).last; c != InvalidNode; c = d.nodes[parent].last {
		if err := d.RemoveChild(parent, c); err != nil {
			return err
		}
	}
	for _, c := range children {
		if err := d.AppendChild(parent, c); err != nil {
			return err
		}
	}
	return nil
}

// bumpGeneration advances the generation of id and every ancestor.
func (d *Document) bumpGeneration(id NodeID) {
	for n := id; n != InvalidNode; n = d.nodes[n].parent {
		d.nodes[n].generation++
	}
}

// onInserted marks the subtree as connected and registers ids.
func (d *Document) onInserted(id NodeID) {
	d.walk(id, func(n NodeID) bool {
		nd := &d.nodes[n]
		nd.inserted = true
		if nd.kind == KindElement {
			if v, ok := nd.elem.attrs["id"]; ok {
				d.registerID(v, n)
			}
		}
		return true
	})
}

// onRemoved marks the subtree as disconnected and unregisters ids.
func (d *Document) onRemoved(id NodeID) {
	var elements []NodeID
	d.walk(id, func(n NodeID) bool {
		nd := &d.nodes[n]
		nd.inserted = false
		if nd.kind == KindElement {
			nd.elem.ancestorsDisplayed = AncestorsAreNotDisplayed
			elements = append(elements, n)
		}
		return true
	})
	for _, n := range elements {
		if v, ok := d.nodes[n].elem.attrs["id"]; ok {
			d.unregisterID(v, n)
		}
	}
}

func (d *Document) registerID(value string, id NodeID) {
	if value == "" {
		return
	}
	if cur, ok := d.ids[value]; ok && cur != id && d.precedes(cur, id) {
		return
	}
	d.ids[value] = id
}

func (d *Document) unregisterID(value string, id NodeID) {
	if d.ids[value] != id {
		return
	}
	delete(d.ids, value)
	// Another element may carry the same id.
	d.walk(d.root, func(n NodeID) bool {
		nd := &d.nodes[n]
		if !nd.inserted {
			return false
		}
		if n != id && nd.kind == KindElement && nd.elem.attrs["id"] == value {
			d.ids[value] = n
			return false
		}
		_, found := d.ids[value]
		return !found
	})
}

// precedes reports whether a comes before b in tree order.
func (d *Document) precedes(a, b NodeID) bool {
	return ComparePositions(d, Position{Node: a}, Position{Node: b}) < 0
}
