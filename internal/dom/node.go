package dom

import (
	"strings"
	"unicode/utf8"

	"github.com/dshills/folio/internal/cssom"
)

// NodeID is a stable handle to a node in a Document's arena.
type NodeID uint32

// InvalidNode is the zero handle. It never names a node.
const InvalidNode NodeID = 0

// NodeKind is the closed set of node kinds.
type NodeKind uint8

// Node kinds.
const (
	KindDocument NodeKind = iota + 1
	KindElement
	KindText
	KindComment
)

// String returns the kind name.
func (k NodeKind) String() string {
	switch k {
	case KindDocument:
		return "document"
	case KindElement:
		return "element"
	case KindText:
		return "text"
	case KindComment:
		return "comment"
	default:
		return "unknown"
	}
}

// AncestorsDisplayed records whether every ancestor of an element was
// displayed when its style was last computed.
type AncestorsDisplayed uint8

// Ancestors-displayed states.
const (
	AncestorsUnknown AncestorsDisplayed = iota
	AncestorsAreDisplayed
	AncestorsAreNotDisplayed
)

type node struct {
	kind NodeKind

	parent NodeID
	first  NodeID
	last   NodeID
	prev   NodeID
	next   NodeID

	childCount int
	generation uint64
	inserted   bool

	// data holds character data for text and comment nodes.
	data string
	elem *elementData
}

type elementData struct {
	tag       string
	attrs     map[string]string
	attrOrder []string
	style     *cssom.DeclaredStyle

	computed           *cssom.ComputedStyle
	styleValid         bool
	descendantsValid   bool
	subtreeDirty       bool
	ancestorsDisplayed AncestorsDisplayed
	lastInvalidation   cssom.InvalidationFlags

	boxes LayoutBoxes
}

// LayoutBoxes is the layout-side record of the boxes generated for a node.
// The document drops its reference when the boxes must be regenerated and
// forwards finer-grained invalidations otherwise.
type LayoutBoxes interface {
	// Release is called when the boxes no longer reflect the node.
	Release()
	InvalidateSizes()
	InvalidateCrossReferences()
	InvalidateRenderTreeNodes()
}

func (d *Document) valid(id NodeID) bool {
	return id != InvalidNode && int(id) < len(d.nodes)
}

func (d *Document) n(id NodeID) *node {
	assert(d.valid(id), "node %d does not exist", id)
	return &d.nodes[id]
}

// Kind returns the node kind, or 0 for an invalid handle.
func (d *Document) Kind(id NodeID) NodeKind {
	if !d.valid(id) {
		return 0
	}
	return d.nodes[id].kind
}

// IsElement reports whether id names an element.
func (d *Document) IsElement(id NodeID) bool { return d.Kind(id) == KindElement }

// IsCharacterData reports whether id names a text or comment node.
func (d *Document) IsCharacterData(id NodeID) bool {
	k := d.Kind(id)
	return k == KindText || k == KindComment
}

// Parent returns the parent of id.
func (d *Document) Parent(id NodeID) NodeID { return d.n(id).parent }

// FirstChild returns the first child of id.
func (d *Document) FirstChild(id NodeID) NodeID { return d.n(id).first }

// LastChild returns the last child of id.
func (d *Document) LastChild(id NodeID) NodeID { return d.n(id).last }

// PrevSibling returns the previous sibling of id.
func (d *Document) PrevSibling(id NodeID) NodeID { return d.n(id).prev }

// NextSibling returns the next sibling of id.
func (d *Document) NextSibling(id NodeID) NodeID { return d.n(id).next }

// ChildCount returns the number of children of id.
func (d *Document) ChildCount(id NodeID) int { return d.n(id).childCount }

// Generation returns the node's mutation generation.
func (d *Document) Generation(id NodeID) uint64 { return d.n(id).generation }

// IsInserted reports whether id is connected to the document node.
func (d *Document) IsInserted(id NodeID) bool { return d.n(id).inserted }

// Children returns the children of id in order.
func (d *Document) Children(id NodeID) []NodeID {
	out := make([]NodeID, 0, d.n(id).childCount)
	for c := d.n(id).first; c != InvalidNode; c = d.nodes[c].next {
		out = append(out, c)
	}
	return out
}

// ChildIndex returns the index of id among its siblings, or -1 when it has
// no parent.
func (d *Document) ChildIndex(id NodeID) int {
	if d.n(id).parent == InvalidNode {
		return -1
	}
	i := 0
	for c := d.nodes[id].prev; c != InvalidNode; c = d.nodes[c].prev {
		i++
	}
	return i
}

// ChildAt returns the child of id at index, or InvalidNode.
func (d *Document) ChildAt(id NodeID, index int) NodeID {
	nd := d.n(id)
	if index < 0 || index >= nd.childCount {
		return InvalidNode
	}
	if index > nd.childCount/2 {
		c := nd.last
		for i := nd.childCount - 1; i > index; i-- {
			c = d.nodes[c].prev
		}
		return c
	}
	c := nd.first
	for i := 0; i < index; i++ {
		c = d.nodes[c].next
	}
	return c
}

// Length returns the boundary-point length of id: the number of characters
// for character data, the number of children otherwise.
func (d *Document) Length(id NodeID) int {
	nd := d.n(id)
	if nd.kind == KindText || nd.kind == KindComment {
		return utf8.RuneCountInString(nd.data)
	}
	return nd.childCount
}

// Contains reports whether other is id or one of its descendants.
func (d *Document) Contains(id, other NodeID) bool {
	for n := other; n != InvalidNode; n = d.nodes[n].parent {
		if n == id {
			return true
		}
	}
	return false
}

// CommonAncestor returns the nearest inclusive ancestor shared by a and b,
// or InvalidNode when they are in different trees.
func (d *Document) CommonAncestor(a, b NodeID) NodeID {
	depthA, depthB := d.depth(a), d.depth(b)
	for depthA > depthB {
		a = d.nodes[a].parent
		depthA--
	}
	for depthB > depthA {
		b = d.nodes[b].parent
		depthB--
	}
	for a != b {
		a = d.nodes[a].parent
		b = d.nodes[b].parent
	}
	return a
}

func (d *Document) depth(id NodeID) int {
	n := 0
	for p := d.n(id).parent; p != InvalidNode; p = d.nodes[p].parent {
		n++
	}
	return n
}

// Ancestors returns the ancestors of id from the parent outward.
func (d *Document) Ancestors(id NodeID) []NodeID {
	var out []NodeID
	for p := d.n(id).parent; p != InvalidNode; p = d.nodes[p].parent {
		out = append(out, p)
	}
	return out
}

// NodeName returns the upper-case tag name for elements and a "#kind" name
// for other nodes.
func (d *Document) NodeName(id NodeID) string {
	nd := d.n(id)
	if nd.kind == KindElement {
		return strings.ToUpper(nd.elem.tag)
	}
	return "#" + nd.kind.String()
}

// TextContent concatenates the data of every descendant text node.
func (d *Document) TextContent(id NodeID) string {
	nd := d.n(id)
	if nd.kind == KindText || nd.kind == KindComment {
		return nd.data
	}
	var b strings.Builder
	d.walk(id, func(n NodeID) bool {
		if d.nodes[n].kind == KindText {
			b.WriteString(d.nodes[n].data)
		}
		return true
	})
	return b.String()
}

// walk visits id and its descendants in tree order. Returning false from
// visit skips the visited node's children.
func (d *Document) walk(id NodeID, visit func(NodeID) bool) {
	if !visit(id) {
		return
	}
	for c := d.nodes[id].first; c != InvalidNode; {
		next := d.nodes[c].next
		d.walk(c, visit)
		c = next
	}
}

// Descendants returns every descendant of id in tree order.
func (d *Document) Descendants(id NodeID) []NodeID {
	var out []NodeID
	d.walk(id, func(n NodeID) bool {
		if n != id {
			out = append(out, n)
		}
		return true
	})
	return out
}
