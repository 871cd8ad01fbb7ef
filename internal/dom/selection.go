package dom

// SelectionType classifies the current selection.
type SelectionType int

const (
	// SelectionNone indicates there is no selection.
	SelectionNone SelectionType = iota

	// SelectionCaret indicates a collapsed selection.
	SelectionCaret

	// SelectionRange indicates a non-empty selection.
	SelectionRange
)

// String returns the selection type name.
func (t SelectionType) String() string {
	switch t {
	case SelectionNone:
		return "None"
	case SelectionCaret:
		return "Caret"
	case SelectionRange:
		return "Range"
	default:
		return "unknown"
	}
}

// Selection is the document's single selection: an anchor, a focus that
// may be before the anchor, and the range spanning them.
type Selection struct {
	doc    *Document
	anchor Position
	focus  Position
	r      *Range

	listeners      map[uint64]func()
	nextListenerID uint64
}

func newSelection(d *Document) *Selection {
	return &Selection{doc: d, listeners: make(map[uint64]func())}
}

// Type returns the selection type.
func (s *Selection) Type() SelectionType {
	switch {
	case s.r == nil:
		return SelectionNone
	case s.r.Collapsed():
		return SelectionCaret
	default:
		return SelectionRange
	}
}

// Anchor returns the anchor position. It is the zero Position when the
// selection is empty.
func (s *Selection) Anchor() Position { return s.anchor }

// Focus returns the focus position.
func (s *Selection) Focus() Position { return s.focus }

// IsCollapsed reports whether the anchor equals the focus.
func (s *Selection) IsCollapsed() bool { return s.anchor == s.focus }

// IsBackward reports whether the focus is before the anchor.
func (s *Selection) IsBackward() bool {
	return s.r != nil && ComparePositions(s.doc, s.focus, s.anchor) < 0
}

// RangeCount returns 0 or 1.
func (s *Selection) RangeCount() int {
	if s.r == nil {
		return 0
	}
	return 1
}

// GetRangeAt returns the selection's range.
func (s *Selection) GetRangeAt(index int) (*Range, error) {
	if index != 0 || s.r == nil {
		return nil, newError(ErrIndexSize, "GetRangeAt", "no range at index %d", index)
	}
	return s.r, nil
}

// AddRange selects r. It is ignored when a range is already selected.
func (s *Selection) AddRange(r *Range) {
	if r == nil || r.doc != s.doc || s.r != nil {
		return
	}
	s.r = r
	s.anchor, s.focus = r.Start(), r.End()
	s.didChange()
}

// RemoveAllRanges clears the selection.
func (s *Selection) RemoveAllRanges() {
	if s.r == nil {
		return
	}
	s.r = nil
	s.anchor, s.focus = Position{}, Position{}
	s.didChange()
}

// Collapse places a caret at (node, offset).
func (s *Selection) Collapse(node NodeID, offset int) error {
	r := s.doc.CreateRange()
	if err := r.SetStart(node, offset); err != nil {
		return err
	}
	s.r = r
	s.anchor = r.Start()
	s.focus = s.anchor
	s.didChange()
	return nil
}

// Extend moves the focus to (node, offset), keeping the anchor.
func (s *Selection) Extend(node NodeID, offset int) error {
	if s.r == nil {
		return newError(ErrInvalidState, "Extend", "selection is empty")
	}
	return s.SetBaseAndExtent(s.anchor.Node, s.anchor.Offset, node, offset)
}

// SetBaseAndExtent sets the anchor and focus in one step.
func (s *Selection) SetBaseAndExtent(anchorNode NodeID, anchorOffset int, focusNode NodeID, focusOffset int) error {
	anchor := Position{Node: anchorNode, Offset: anchorOffset}
	focus := Position{Node: focusNode, Offset: focusOffset}

	r := s.doc.CreateRange()
	if err := r.SetStart(anchorNode, anchorOffset); err != nil {
		return err
	}
	cmp, err := CompareChecked(s.doc, anchor, focus)
	if err != nil {
		return err
	}
	if cmp <= 0 {
		err = r.SetEnd(focusNode, focusOffset)
	} else {
		if err = r.SetStart(focusNode, focusOffset); err == nil {
			err = r.SetEnd(anchorNode, anchorOffset)
		}
	}
	if err != nil {
		return err
	}
	s.r = r
	s.anchor, s.focus = anchor, focus
	s.didChange()
	return nil
}

// OnDidChange registers fn to run after every change. The returned func
// removes it.
func (s *Selection) OnDidChange(fn func()) (unsubscribe func()) {
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = fn
	return func() { delete(s.listeners, id) }
}

func (s *Selection) didChange() {
	for id := uint64(0); id < s.nextListenerID; id++ {
		if fn, ok := s.listeners[id]; ok {
			fn()
		}
	}
}

// onNodeRemoved moves positions inside a removed subtree to the point the
// subtree was removed from. It runs before the node is unlinked.
func (s *Selection) onNodeRemoved(id NodeID) {
	if s.r == nil {
		return
	}
	d := s.doc
	parent := d.nodes[id].parent
	if parent == InvalidNode {
		return
	}
	index := d.ChildIndex(id)
	s.remap(func(p Position) Position {
		switch {
		case d.Contains(id, p.Node):
			return Position{Node: parent, Offset: index}
		case p.Node == parent && p.Offset > index:
			return Position{Node: parent, Offset: p.Offset - 1}
		}
		return p
	})
}

// onNodeInserted shifts positions in the new child's parent that are past
// the child. It runs after the child is linked.
func (s *Selection) onNodeInserted(child NodeID) {
	d := s.doc
	parent := d.nodes[child].parent
	if s.r == nil || (s.anchor.Node != parent && s.focus.Node != parent) {
		return
	}
	index := d.ChildIndex(child)
	s.remap(func(p Position) Position {
		if p.Node == parent && p.Offset > index {
			return Position{Node: parent, Offset: p.Offset + 1}
		}
		return p
	})
}

// onDataChanged clamps positions in a text or comment node to its new
// length.
func (s *Selection) onDataChanged(id NodeID) {
	if s.r == nil {
		return
	}
	n := s.doc.Length(id)
	s.remap(func(p Position) Position {
		if p.Node == id && p.Offset > n {
			return Position{Node: id, Offset: n}
		}
		return p
	})
}

// remap applies adjust to the anchor and focus and, if either moved,
// rebuilds the range and notifies listeners.
func (s *Selection) remap(adjust func(Position) Position) {
	backward := s.r.start.Position != s.anchor
	anchor, focus := adjust(s.anchor), adjust(s.focus)
	if anchor == s.anchor && focus == s.focus {
		return
	}
	s.anchor, s.focus = anchor, focus
	start, end := anchor, focus
	if backward {
		start, end = end, start
	}
	// A zero generation forces the cached child to be recomputed on the
	// next comparison.
	s.r.start = boundaryPoint{Position: start}
	s.r.end = boundaryPoint{Position: end}
	s.didChange()
}
