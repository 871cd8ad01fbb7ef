package dom

import (
	"sort"
	"strings"

	"github.com/dshills/folio/internal/cssom"
)

// Attr is a single attribute name and value.
type Attr struct {
	Name  string
	Value string
}

func (d *Document) element(op string, id NodeID) (*elementData, error) {
	if !d.valid(id) {
		return nil, newError(ErrInvalidNode, op, "unknown node handle")
	}
	if d.nodes[id].kind != KindElement {
		return nil, newError(ErrInvalidState, op, "%s is not an element", d.nodes[id].kind)
	}
	return d.nodes[id].elem, nil
}

func (d *Document) mustElement(id NodeID) *elementData {
	e, err := d.element("", id)
	assert(err == nil, "node %d is not an element", id)
	return e
}

// TagName returns the lower-case tag name of an element, or "".
func (d *Document) TagName(id NodeID) string {
	if !d.IsElement(id) {
		return ""
	}
	return d.nodes[id].elem.tag
}

// GetAttribute returns the value of the named attribute.
func (d *Document) GetAttribute(id NodeID, name string) (string, bool) {
	if !d.IsElement(id) {
		return "", false
	}
	v, ok := d.nodes[id].elem.attrs[strings.ToLower(name)]
	return v, ok
}

// HasAttribute reports whether the element carries the named attribute.
func (d *Document) HasAttribute(id NodeID, name string) bool {
	_, ok := d.GetAttribute(id, name)
	return ok
}

// Attributes returns the element's attributes in the order they were first
// set.
func (d *Document) Attributes(id NodeID) []Attr {
	if !d.IsElement(id) {
		return nil
	}
	e := d.nodes[id].elem
	out := make([]Attr, 0, len(e.attrOrder))
	for _, name := range e.attrOrder {
		out = append(out, Attr{Name: name, Value: e.attrs[name]})
	}
	return out
}

// SetAttribute sets an attribute. The name is lower-cased. Setting the
// value an attribute already has is a no-op.
func (d *Document) SetAttribute(id NodeID, name, value string) error {
	e, err := d.element("SetAttribute", id)
	if err != nil {
		return err
	}
	name = strings.ToLower(name)
	old, had := e.attrs[name]
	if had && old == value {
		return nil
	}
	e.attrs[name] = value
	if !had {
		e.attrOrder = append(e.attrOrder, name)
	}

	switch name {
	case "id":
		if d.nodes[id].inserted {
			if had {
				d.unregisterID(old, id)
			}
			d.registerID(value, id)
		}
	case "style":
		d.setDeclaredStyle(id, e, value)
	}
	d.onAttributeChanged(id, name)
	return nil
}

// RemoveAttribute removes an attribute. Removing a missing attribute is a
// no-op.
func (d *Document) RemoveAttribute(id NodeID, name string) error {
	e, err := d.element("RemoveAttribute", id)
	if err != nil {
		return err
	}
	name = strings.ToLower(name)
	old, had := e.attrs[name]
	if !had {
		return nil
	}
	delete(e.attrs, name)
	for i, n := range e.attrOrder {
		if n == name {
			e.attrOrder = append(e.attrOrder[:i], e.attrOrder[i+1:]...)
			break
		}
	}

	switch name {
	case "id":
		if d.nodes[id].inserted {
			d.unregisterID(old, id)
		}
	case "style":
		d.setDeclaredStyle(id, e, "")
	case "class":
		d.bumpGeneration(id)
	}
	d.onAttributeChanged(id, name)
	return nil
}

func (d *Document) onAttributeChanged(id NodeID, name string) {
	if !d.nodes[id].inserted {
		return
	}
	d.onDOMMutation(MutationRecord{Kind: MutationAttributes, Target: id, Attribute: name})
}

// setDeclaredStyle reparses the style attribute. Rejected declarations are
// dropped and logged.
func (d *Document) setDeclaredStyle(id NodeID, e *elementData, text string) {
	style, err := cssom.ParseDeclarations(text)
	if err != nil {
		d.logger.Warn("style attribute of <%s>: %v", e.tag, err)
	}
	if e.style.Equal(style) {
		return
	}
	e.style = style
	d.invalidateComputedStyle(id)
}

// DeclaredStyle returns the element's parsed style attribute.
func (d *Document) DeclaredStyle(id NodeID) *cssom.DeclaredStyle {
	return d.mustElement(id).style
}

// SetStyleProperty declares a single property on the element and keeps the
// style attribute in sync.
func (d *Document) SetStyleProperty(id NodeID, key cssom.PropertyKey, value cssom.Value) error {
	e, err := d.element("SetStyleProperty", id)
	if err != nil {
		return err
	}
	style := *e.style
	if value == nil {
		style.Remove(key)
	} else {
		style.Set(key, value)
	}
	return d.SetAttribute(id, "style", style.String())
}

// ElementID returns the element's id attribute.
func (d *Document) ElementID(id NodeID) string {
	v, _ := d.GetAttribute(id, "id")
	return v
}

// ClassList returns the element's classes sorted and de-duplicated.
func (d *Document) ClassList(id NodeID) []string {
	v, _ := d.GetAttribute(id, "class")
	fields := strings.Fields(v)
	sort.Strings(fields)
	out := fields[:0]
	for _, f := range fields {
		if len(out) == 0 || f != out[len(out)-1] {
			out = append(out, f)
		}
	}
	return out
}

// Dir returns the normalized dir attribute: "ltr", "rtl", "auto" or "".
func (d *Document) Dir(id NodeID) string {
	v, _ := d.GetAttribute(id, "dir")
	switch v = strings.ToLower(strings.TrimSpace(v)); v {
	case "ltr", "rtl", "auto":
		return v
	}
	return ""
}

// ComputedStyle returns the element's computed style snapshot, or nil when
// none has been computed.
func (d *Document) ComputedStyle(id NodeID) *cssom.ComputedStyle {
	if !d.IsElement(id) {
		return nil
	}
	return d.nodes[id].elem.computed
}

// StyleValid reports whether the element's own computed style is valid.
func (d *Document) StyleValid(id NodeID) bool {
	return d.IsElement(id) && d.nodes[id].elem.styleValid
}

// DescendantStylesValid reports whether every descendant style is valid.
func (d *Document) DescendantStylesValid(id NodeID) bool {
	return d.IsElement(id) && d.nodes[id].elem.descendantsValid
}

// AncestorsDisplayedState returns the element's ancestors-displayed state.
func (d *Document) AncestorsDisplayedState(id NodeID) AncestorsDisplayed {
	if !d.IsElement(id) {
		return AncestorsUnknown
	}
	return d.nodes[id].elem.ancestorsDisplayed
}

// LastInvalidation returns the flags produced when the element's style was
// last regenerated.
func (d *Document) LastInvalidation(id NodeID) cssom.InvalidationFlags {
	if !d.IsElement(id) {
		return cssom.InvalidationFlags{}
	}
	return d.nodes[id].elem.lastInvalidation
}

// LayoutBoxes returns the boxes recorded for the element.
func (d *Document) LayoutBoxes(id NodeID) LayoutBoxes {
	if !d.IsElement(id) {
		return nil
	}
	return d.nodes[id].elem.boxes
}

// SetLayoutBoxes records the boxes generated for the element.
func (d *Document) SetLayoutBoxes(id NodeID, boxes LayoutBoxes) {
	d.mustElement(id).boxes = boxes
}
