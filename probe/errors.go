package probe

import "fmt"

// InteractionError reports misuse of a NodeSet action, such as calling
// Follow on a set whose first element is not an anchor, or on an empty set.
// It is a returned error and deliberately distinct from assertion failures,
// which are registered through the TestingT sink instead.
type InteractionError struct {
	Action   string // the attempted action, e.g. "follow"
	Selector string // the selector that produced the node set
	Tag      string // tag name of the first matched element, empty when none matched
	Reason   string
}

func (e *InteractionError) Error() string {
	msg := fmt.Sprintf("probe: cannot %s %q: %s", e.Action, e.Selector, e.Reason)
	if e.Tag != "" {
		msg = fmt.Sprintf("%s (first element is <%s>)", msg, e.Tag)
	}
	return msg
}
