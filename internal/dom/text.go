package dom

// Data returns the character data of a text or comment node.
func (d *Document) Data(id NodeID) string {
	if !d.IsCharacterData(id) {
		return ""
	}
	return d.nodes[id].data
}

// SetData replaces the character data of a text or comment node.
func (d *Document) SetData(id NodeID, data string) error {
	const op = "SetData"
	if !d.valid(id) {
		return newError(ErrInvalidNode, op, "unknown node handle")
	}
	if !d.IsCharacterData(id) {
		return newError(ErrInvalidState, op, "%s has no character data", d.nodes[id].kind)
	}
	if d.nodes[id].data == data {
		return nil
	}
	d.nodes[id].data = data
	d.onCharacterDataChanged(id)
	return nil
}

// AppendData appends to the character data of a text or comment node.
func (d *Document) AppendData(id NodeID, data string) error {
	if data == "" {
		return nil
	}
	return d.SetData(id, d.Data(id)+data)
}

func (d *Document) onCharacterDataChanged(id NodeID) {
	d.bumpGeneration(id)
	if p := d.nodes[id].parent; p != InvalidNode {
		d.invalidateLayoutBoxesOfNodeAndAncestors(p)
	}
	d.selection.onDataChanged(id)
	if d.nodes[id].inserted {
		d.onDOMMutation(MutationRecord{Kind: MutationCharacterData, Target: id})
	}
}
