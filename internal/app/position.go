package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dshills/folio/internal/dom"
)

// ParsePosition resolves a textual position of the form
// "id[/i/j...]:offset". The id names an element, each following index
// selects a child of the node reached so far, and offset is the offset
// within the final node. An empty id starts at the document node.
func ParsePosition(d *dom.Document, s string) (dom.Position, error) {
	colon := strings.LastIndexByte(s, ':')
	if colon < 0 {
		return dom.Position{}, fmt.Errorf("%w: %q has no offset", ErrInvalidPosition, s)
	}
	offset, err := strconv.Atoi(s[colon+1:])
	if err != nil || offset < 0 {
		return dom.Position{}, fmt.Errorf("%w: bad offset in %q", ErrInvalidPosition, s)
	}

	parts := strings.Split(s[:colon], "/")
	node := d.Root()
	if parts[0] != "" {
		node = d.GetElementByID(parts[0])
		if node == dom.InvalidNode {
			return dom.Position{}, fmt.Errorf("%w: no element with id %q", ErrInvalidPosition, parts[0])
		}
	}
	for _, p := range parts[1:] {
		i, err := strconv.Atoi(p)
		if err != nil {
			return dom.Position{}, fmt.Errorf("%w: bad child index %q in %q", ErrInvalidPosition, p, s)
		}
		child := d.ChildAt(node, i)
		if child == dom.InvalidNode {
			return dom.Position{}, fmt.Errorf("%w: %s has no child %d", ErrInvalidPosition, d.NodeName(node), i)
		}
		node = child
	}

	if offset > d.Length(node) {
		return dom.Position{}, fmt.Errorf("%w: offset %d exceeds length %d of %s",
			ErrInvalidPosition, offset, d.Length(node), d.NodeName(node))
	}
	return dom.Position{Node: node, Offset: offset}, nil
}
