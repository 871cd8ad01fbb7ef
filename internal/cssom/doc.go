// Package cssom provides the style object model used by the layout core.
//
// It owns three things:
//   - the table of recognized properties and their classification flags
//   - declared style data parsed from an element's style attribute
//   - computed style snapshots produced by cascading declared data over the
//     parent's inherited values and promoting the result to absolute values
//
// Invalidation is driven by a Classification built once from the property
// table. Diffing two computed styles against it yields the minimal set of
// InvalidationFlags a caller has to act on.
package cssom
