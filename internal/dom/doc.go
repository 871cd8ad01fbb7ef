// Package dom provides the mutation-driven document tree used by the layout
// core.
//
// Nodes live in an arena owned by a Document and are addressed by NodeID
// handles. Handles stay valid for the life of the document; removed nodes
// are detached, not freed.
//
// # Tree Model
//
// Every structural change bumps a generation counter on the changed node and
// on each of its ancestors. Live child collections (ChildList) compare the
// generation they were built at against the current one and rebuild only
// when it moved.
//
// # Style
//
// Elements carry declared style parsed from the style attribute and a
// computed style snapshot maintained by UpdateComputedStyles. Validity is
// tracked per element with two flags (self valid, descendants valid) and an
// ancestors-displayed tri-state, so a cascade pass only visits the parts of
// the tree that changed.
//
// # Positions
//
// Range, Selection and ComparePositions implement boundary points and their
// document order.
package dom
