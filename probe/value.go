package probe

import "fmt"

// Value is the arity-collapsed result of a NodeSet accessor. One matched
// element yields the scalar form; zero or several yield the sequence form.
// An empty set is always sequence-shaped, never a scalar and never an error.
type Value struct {
	single bool
	items  []string
}

// IsSingle reports whether the value carries the scalar form.
func (v Value) IsSingle() bool { return v.single }

// Len returns the number of underlying entries.
func (v Value) Len() int { return len(v.items) }

// String returns the scalar value when single, otherwise a printable
// rendering of the sequence.
func (v Value) String() string {
	if v.single {
		return v.items[0]
	}
	return fmt.Sprintf("%q", v.items)
}

// Strings returns the sequence form regardless of arity, in document order.
// The returned slice is a copy.
func (v Value) Strings() []string {
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Interface returns the collapsed shape for comparisons: a string when
// exactly one element matched, otherwise a []string (empty for no matches).
func (v Value) Interface() interface{} {
	if v.single {
		return v.items[0]
	}
	return v.Strings()
}
