// Package htmlload builds dom trees from HTML markup.
package htmlload

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/dshills/folio/internal/dom"
)

// Load parses a complete HTML document from r and appends it to the
// document node of d. The parse counts as one loading resource, so d's
// load listeners fire once it has been built.
func Load(d *dom.Document, r io.Reader) error {
	root, err := html.Parse(r)
	if err != nil {
		return fmt.Errorf("parse html: %w", err)
	}
	d.IncreaseLoadingCounter()
	defer d.DecreaseLoadingCounterAndMaybeDispatchLoadEvent()

	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.DoctypeNode {
			continue
		}
		if err := appendNode(d, d.Root(), c); err != nil {
			return err
		}
	}
	return nil
}

// LoadString is Load over a string.
func LoadString(d *dom.Document, markup string) error {
	return Load(d, strings.NewReader(markup))
}

// LoadFragment parses markup as the content of a body element and appends
// the resulting nodes to parent.
func LoadFragment(d *dom.Document, parent dom.NodeID, r io.Reader) error {
	context := &html.Node{Type: html.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := html.ParseFragment(r, context)
	if err != nil {
		return fmt.Errorf("parse html fragment: %w", err)
	}
	for _, n := range nodes {
		if err := appendNode(d, parent, n); err != nil {
			return err
		}
	}
	return nil
}

func appendNode(d *dom.Document, parent dom.NodeID, n *html.Node) error {
	var id dom.NodeID
	switch n.Type {
	case html.ElementNode:
		id = d.CreateElement(n.Data)
		for _, a := range n.Attr {
			if a.Namespace != "" {
				continue
			}
			if err := d.SetAttribute(id, a.Key, a.Val); err != nil {
				return err
			}
		}
	case html.TextNode:
		id = d.CreateTextNode(n.Data)
	case html.CommentNode:
		id = d.CreateComment(n.Data)
	default:
		return nil
	}

	// Children are attached before the subtree is inserted so the document
	// sees a single mutation per top-level node.
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := appendNode(d, id, c); err != nil {
			return err
		}
	}
	return d.AppendChild(parent, id)
}
