// Package layout maps a styled dom tree onto a box forest and places the
// boxes.
//
// # Box Generation
//
// The Generator walks element, text and comment nodes and produces
// ContainerBox, TextBox and ReplacedBox values. Text is never copied into
// boxes: every text box refers to a [start, end) range of the Paragraph
// that was current when its text node was visited. Block containers scope
// paragraphs, so the text of one block never shares a paragraph with the
// text of another. Inline containers that receive a block-level child are
// split around it.
//
// # Paragraphs
//
// A Paragraph accumulates text and bidi control characters until it is
// closed. Closing it resolves bidi level runs with golang.org/x/text and
// line break opportunities with github.com/rivo/uniseg.
//
// # Placement
//
// Manager owns one layout pass at a time. It observes document mutations,
// regenerates the box forest on UpdateLayout, stacks blocks, wraps inline
// content into lines and indexes the placed boxes in a SpatialIndex for
// hit testing and selection queries.
package layout
