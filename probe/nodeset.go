package probe

import (
	"github.com/stretchr/testify/assert"
)

// TestingT is the assertion-reporting sink. *testing.T satisfies it, as does
// any harness context exposing Errorf. Assertion failures are registered
// here rather than returned, so they surface as test failures in the host
// framework while the NodeSet stays chainable.
type TestingT interface {
	Errorf(format string, args ...interface{})
}

// NodeSet is a read-only view over the elements matched by one query.
// Element order is document order and never changes after construction;
// every accessor is a pure read. Accessors collapse arity: exactly one
// match yields a scalar, any other count an ordered sequence.
type NodeSet struct {
	selector string
	elements []Element
	doc      *Document
	t        TestingT
}

func newNodeSet(doc *Document, selector string, q Query) *NodeSet {
	elements := make([]Element, q.Count())
	for i := range elements {
		elements[i] = q.ElementAt(i)
	}
	return &NodeSet{
		selector: selector,
		elements: elements,
		doc:      doc,
		t:        doc.t,
	}
}

// Size returns the number of matched elements. It never fails.
func (n *NodeSet) Size() int { return len(n.elements) }

// collapse applies extract to every element in document order and collapses
// the result. Every per-element accessor goes through here; new accessors
// should reuse it rather than reimplement the arity rule.
func (n *NodeSet) collapse(extract func(Element) string) Value {
	items := make([]string, len(n.elements))
	for i, el := range n.elements {
		items[i] = extract(el)
	}
	if len(items) == 1 {
		return Value{single: true, items: items}
	}
	return Value{items: items}
}

// Text returns the rendered text of the matched elements, arity-collapsed.
func (n *NodeSet) Text() Value { return n.collapse(Element.Text) }

// InnerHTML returns the serialized inner markup of the matched elements,
// arity-collapsed.
func (n *NodeSet) InnerHTML() Value { return n.collapse(Element.HTML) }

// Attr returns the value of the named attribute for each matched element,
// arity-collapsed. Absent attributes yield the empty string.
func (n *NodeSet) Attr(name string) Value {
	return n.collapse(func(el Element) string {
		v, _ := el.Attr(name)
		return v
	})
}

// First returns the first matched element. Calling it on an empty set is a
// precondition violation.
func (n *NodeSet) First() (Element, error) {
	if len(n.elements) == 0 {
		return nil, &InteractionError{
			Action:   "take the first element of",
			Selector: n.selector,
			Reason:   "no elements matched",
		}
	}
	return n.elements[0], nil
}

// AssertTextEquals checks the arity-collapsed text against expected: a bare
// string when one element matched, a []string otherwise. The mismatch, if
// any, is reported to the sink with both values.
func (n *NodeSet) AssertTextEquals(expected interface{}) *NodeSet {
	assert.Equal(n.t, expected, n.Text().Interface(), "text of elements matching %q", n.selector)
	return n
}

// AssertTextContains checks that the matched element's text contains substr.
// It is only defined for single-element sets: with any other arity there is
// no one string to search, so the call is reported as a usage failure
// instead of guessing at a stringified form.
func (n *NodeSet) AssertTextContains(substr string) *NodeSet {
	if len(n.elements) != 1 {
		n.t.Errorf("AssertTextContains(%q) requires exactly one element matching %q, but %d matched",
			substr, n.selector, len(n.elements))
		return n
	}
	assert.Contains(n.t, n.elements[0].Text(), substr, "text of element matching %q", n.selector)
	return n
}

// AssertCount checks the number of matched elements.
func (n *NodeSet) AssertCount(expected int) *NodeSet {
	assert.Equal(n.t, expected, n.Size(), "number of elements matching %q", n.selector)
	return n
}

// AssertAttrEquals checks the arity-collapsed value of the named attribute,
// with the same shape rules as AssertTextEquals.
func (n *NodeSet) AssertAttrEquals(name string, expected interface{}) *NodeSet {
	assert.Equal(n.t, expected, n.Attr(name).Interface(), "attribute %q of elements matching %q", name, n.selector)
	return n
}

// Follow takes the first matched element, requires it to be an anchor, and
// performs one GET of its href through the document's fetcher. Relative
// hrefs are resolved against the document base URL. The destination page is
// returned as a new Document sharing the fetcher and sink. Fetch errors are
// passed through verbatim.
func (n *NodeSet) Follow() (*Document, error) {
	el, err := n.First()
	if err != nil {
		return nil, err
	}
	if el.Tag() != "a" {
		return nil, &InteractionError{
			Action:   "follow",
			Selector: n.selector,
			Tag:      el.Tag(),
			Reason:   "only anchor elements can be followed",
		}
	}
	href, ok := el.Attr("href")
	if !ok || href == "" {
		return nil, &InteractionError{
			Action:   "follow",
			Selector: n.selector,
			Tag:      "a",
			Reason:   "anchor has no href",
		}
	}
	return n.doc.open(href)
}
