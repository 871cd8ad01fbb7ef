package layout

import (
	"github.com/dshills/folio/internal/cssom"
	"github.com/dshills/folio/internal/dom"
)

// Level is the formatting level a box participates in.
type Level uint8

// Box levels.
const (
	BlockLevel Level = iota
	InlineLevel
)

// String returns the level name.
func (l Level) String() string {
	if l == InlineLevel {
		return "inline"
	}
	return "block"
}

// Box is a node of the box forest. The set of implementations is closed:
// *ContainerBox, *TextBox and *ReplacedBox.
type Box interface {
	// Level returns the box's formatting level.
	Level() Level

	// Node returns the generating node, or dom.InvalidNode for anonymous
	// boxes.
	Node() dom.NodeID

	// Style returns the computed style the box was generated with.
	Style() *cssom.ComputedStyle

	// Parent returns the containing box, or nil for a root box.
	Parent() *ContainerBox

	// Frame returns the border box placed by the last layout pass.
	Frame() Rect

	// HasTrailingLineBreak reports whether the box ends its line.
	HasTrailingLineBreak() bool

	setParent(*ContainerBox)
	setFrame(Rect)
}

type boxBase struct {
	node   dom.NodeID
	style  *cssom.ComputedStyle
	parent *ContainerBox
	frame  Rect
}

func (b *boxBase) Node() dom.NodeID            { return b.node }
func (b *boxBase) Style() *cssom.ComputedStyle { return b.style }
func (b *boxBase) Parent() *ContainerBox       { return b.parent }
func (b *boxBase) Frame() Rect                 { return b.frame }
func (b *boxBase) setParent(p *ContainerBox)   { b.parent = p }
func (b *boxBase) setFrame(r Rect)             { b.frame = r }

// ContainerKind distinguishes block and inline containers.
type ContainerKind uint8

// Container kinds.
const (
	BlockContainer ContainerKind = iota
	InlineContainer
)

// String returns the kind name.
func (k ContainerKind) String() string {
	if k == InlineContainer {
		return "inline-container"
	}
	return "block-container"
}

// ContainerBox owns an ordered sequence of child boxes.
type ContainerBox struct {
	boxBase
	kind      ContainerKind
	direction Direction
	children  []Box

	// Inline containers split around a block-level child record the side
	// the split happened on and the box that continues them.
	splitOnLeft  bool
	splitOnRight bool
	splitSibling *ContainerBox
}

// NewBlockContainer returns a block-level block container.
func NewBlockContainer(node dom.NodeID, style *cssom.ComputedStyle, dir Direction) *ContainerBox {
	return &ContainerBox{boxBase: boxBase{node: node, style: style}, kind: BlockContainer, direction: dir}
}

// NewInlineContainer returns an inline container.
func NewInlineContainer(node dom.NodeID, style *cssom.ComputedStyle, dir Direction) *ContainerBox {
	return &ContainerBox{boxBase: boxBase{node: node, style: style}, kind: InlineContainer, direction: dir}
}

// Kind returns the container kind.
func (c *ContainerBox) Kind() ContainerKind { return c.kind }

// Level returns BlockLevel for block containers and InlineLevel otherwise.
func (c *ContainerBox) Level() Level {
	if c.kind == InlineContainer {
		return InlineLevel
	}
	return BlockLevel
}

// Direction returns the base direction the container was generated in.
func (c *ContainerBox) Direction() Direction { return c.direction }

// Children returns the child boxes in order.
func (c *ContainerBox) Children() []Box { return c.children }

// SplitSibling returns the box continuing this one after a split.
func (c *ContainerBox) SplitSibling() *ContainerBox { return c.splitSibling }

// IsSplitOnLeft reports whether the box continues a box on its left.
func (c *ContainerBox) IsSplitOnLeft() bool { return c.splitOnLeft }

// IsSplitOnRight reports whether the box is continued on its right.
func (c *ContainerBox) IsSplitOnRight() bool { return c.splitOnRight }

// HasTrailingLineBreak reports whether the last child ends its line.
func (c *ContainerBox) HasTrailingLineBreak() bool {
	if n := len(c.children); n > 0 {
		return c.children[n-1].HasTrailingLineBreak()
	}
	return false
}

// TryAddChild appends child when the container accepts it. Block
// containers accept every box. Inline containers accept only inline-level
// boxes, and nothing once they end in a line break.
func (c *ContainerBox) TryAddChild(child Box) bool {
	if c.kind == InlineContainer {
		if child.Level() == BlockLevel || c.HasTrailingLineBreak() {
			return false
		}
	}
	c.pushBack(child)
	return true
}

// TrySplitAtEnd returns an empty box continuing an inline container, or
// nil for block containers, which never need splitting.
func (c *ContainerBox) TrySplitAtEnd() *ContainerBox {
	if c.kind != InlineContainer {
		return nil
	}
	after := NewInlineContainer(c.node, c.style, c.direction)
	if c.direction == LeftToRight {
		c.splitOnRight = true
		after.splitOnLeft = true
	} else {
		c.splitOnLeft = true
		after.splitOnRight = true
	}
	c.splitSibling = after
	return after
}

func (c *ContainerBox) pushBack(child Box) {
	child.setParent(c)
	c.children = append(c.children, child)
}

// insertAfter places b immediately after ref, or at the end when ref is
// not a child.
func (c *ContainerBox) insertAfter(ref, b Box) {
	b.setParent(c)
	for i, child := range c.children {
		if child == ref {
			c.children = append(c.children, nil)
			copy(c.children[i+2:], c.children[i+1:])
			c.children[i+1] = b
			return
		}
	}
	c.children = append(c.children, b)
}

// TextBox is an inline box over a range of a paragraph's text.
type TextBox struct {
	boxBase
	paragraph        *Paragraph
	start, end       int
	generatesNewline bool
	forcesNewline    bool
	productOfSplit   bool
}

func newTextBox(node dom.NodeID, style *cssom.ComputedStyle, p *Paragraph, start, end int, generatesNewline, forcesNewline bool) *TextBox {
	return &TextBox{
		boxBase:          boxBase{node: node, style: style},
		paragraph:        p,
		start:            start,
		end:              end,
		generatesNewline: generatesNewline,
		forcesNewline:    forcesNewline,
	}
}

// Level returns InlineLevel.
func (t *TextBox) Level() Level { return InlineLevel }

// Paragraph returns the paragraph the box's text lives in.
func (t *TextBox) Paragraph() *Paragraph { return t.paragraph }

// Start returns the paragraph offset of the first character.
func (t *TextBox) Start() int { return t.start }

// End returns the paragraph offset one past the last character.
func (t *TextBox) End() int { return t.end }

// Len returns the number of characters the box covers.
func (t *TextBox) Len() int { return t.end - t.start }

// Text returns the box's text.
func (t *TextBox) Text() string { return t.paragraph.Slice(t.start, t.end) }

// GeneratesNewline reports whether a preserved newline follows the box.
func (t *TextBox) GeneratesNewline() bool { return t.generatesNewline }

// ForcesNewline reports whether the box is a forced line break.
func (t *TextBox) ForcesNewline() bool { return t.forcesNewline }

// IsProductOfSplit reports whether the box was split off another box.
func (t *TextBox) IsProductOfSplit() bool { return t.productOfSplit }

// HasTrailingLineBreak reports whether the box ends its line.
func (t *TextBox) HasTrailingLineBreak() bool {
	return t.generatesNewline || t.forcesNewline
}

// splitAt cuts the box at pos and inserts the remainder after it in the
// parent. The remainder keeps any trailing line break.
func (t *TextBox) splitAt(pos int) *TextBox {
	assert(pos > t.start && pos < t.end, "split at %d outside (%d, %d)", pos, t.start, t.end)
	rest := &TextBox{
		boxBase:          boxBase{node: t.node, style: t.style},
		paragraph:        t.paragraph,
		start:            pos,
		end:              t.end,
		generatesNewline: t.generatesNewline,
		productOfSplit:   true,
	}
	t.end = pos
	t.generatesNewline = false
	if t.parent != nil {
		t.parent.insertAfter(t, rest)
	}
	return rest
}

// ReplacedBox is an atomic box for replaced content. It occupies one
// object replacement character in its paragraph.
type ReplacedBox struct {
	boxBase
	level     Level
	paragraph *Paragraph
	position  int
	width     Unit
	height    Unit
}

func newReplacedBox(node dom.NodeID, style *cssom.ComputedStyle, level Level, p *Paragraph, pos int, width, height Unit) *ReplacedBox {
	return &ReplacedBox{
		boxBase:   boxBase{node: node, style: style},
		level:     level,
		paragraph: p,
		position:  pos,
		width:     width,
		height:    height,
	}
}

// Level returns the level selected by the element's display.
func (r *ReplacedBox) Level() Level { return r.level }

// Paragraph returns the paragraph holding the placeholder character.
func (r *ReplacedBox) Paragraph() *Paragraph { return r.paragraph }

// Position returns the paragraph offset of the placeholder character.
func (r *ReplacedBox) Position() int { return r.position }

// IntrinsicSize returns the content size.
func (r *ReplacedBox) IntrinsicSize() (width, height Unit) { return r.width, r.height }

// HasTrailingLineBreak returns false.
func (r *ReplacedBox) HasTrailingLineBreak() bool { return false }

// Walk calls fn for b and every descendant in tree order. Returning false
// skips the descendants of the box just visited.
func Walk(b Box, fn func(Box) bool) {
	if !fn(b) {
		return
	}
	if c, ok := b.(*ContainerBox); ok {
		for _, child := range c.children {
			Walk(child, fn)
		}
	}
}
