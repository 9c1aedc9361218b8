package probe

import (
	"github.com/PuerkitoBio/goquery"
)

// Element is the opaque view of a single matched node. Implementations must
// be read-only: the same Element always reports the same text, markup, tag
// and attributes.
type Element interface {
	// Text returns the node's rendered text: descendant text nodes
	// concatenated, markup stripped.
	Text() string
	// HTML returns the node's serialized inner markup.
	HTML() string
	// Tag returns the lowercase tag name, e.g. "a" or "p".
	Tag() string
	// Attr looks up an attribute by name. The second return value reports
	// whether the attribute is present.
	Attr(name string) (string, bool)
}

// Query is the element-query collaborator a NodeSet is built from. Elements
// are indexed in document order.
type Query interface {
	Count() int
	ElementAt(i int) Element
}

// selectionQuery adapts a goquery Selection to the Query contract.
type selectionQuery struct {
	sel *goquery.Selection
}

func (q selectionQuery) Count() int { return q.sel.Length() }

func (q selectionQuery) ElementAt(i int) Element {
	return selectionElement{sel: q.sel.Eq(i)}
}

// selectionElement wraps a single-node goquery Selection.
type selectionElement struct {
	sel *goquery.Selection
}

func (e selectionElement) Text() string { return e.sel.Text() }

func (e selectionElement) HTML() string {
	// goquery only reports an error for empty selections, which this
	// adapter never produces.
	h, _ := e.sel.Html()
	return h
}

func (e selectionElement) Tag() string { return goquery.NodeName(e.sel) }

func (e selectionElement) Attr(name string) (string, bool) { return e.sel.Attr(name) }
