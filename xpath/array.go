package xpath

// ArrayItem is the XPath 3.1 array item: an ordered, 1-based list of
// members, each of which is itself a Sequence (so arrays of arrays, or
// arrays mixing nodes and atomics per member, are both legal without
// violating the flat-sequence invariant — the array is the item that
// stops flattening, exactly as spec.md §3.1 requires).
type ArrayItem struct {
	Members []Sequence
}

func NewArrayItem(members ...Sequence) *ArrayItem {
	return &ArrayItem{Members: members}
}

func (a *ArrayItem) Kind() ItemKind      { return KindArray }
func (a *ArrayItem) StringValue() string { return "" }

// Get returns the 1-based member at pos (fn:array:get / `?` lookup).
func (a *ArrayItem) Get(pos int) (Sequence, error) {
	if pos < 1 || pos > len(a.Members) {
		return nil, newError(FOAR0001, "array index %d out of bounds (size %d)", pos, len(a.Members))
	}
	return a.Members[pos-1], nil
}

// Put returns a new array with the member at pos replaced.
func (a *ArrayItem) Put(pos int, value Sequence) (*ArrayItem, error) {
	if pos < 1 || pos > len(a.Members) {
		return nil, newError(FOAR0001, "array index %d out of bounds (size %d)", pos, len(a.Members))
	}
	out := make([]Sequence, len(a.Members))
	copy(out, a.Members)
	out[pos-1] = value
	return &ArrayItem{Members: out}, nil
}

// Append returns a new array with value appended as one more member.
func (a *ArrayItem) Append(value Sequence) *ArrayItem {
	out := make([]Sequence, len(a.Members)+1)
	copy(out, a.Members)
	out[len(a.Members)] = value
	return &ArrayItem{Members: out}
}

// Subarray returns members [start, start+length) (1-based, inclusive
// start) as a new array.
func (a *ArrayItem) Subarray(start, length int) (*ArrayItem, error) {
	if start < 1 || length < 0 || start+length-1 > len(a.Members) {
		return nil, newError(FOAR0001, "array:subarray bounds out of range")
	}
	out := make([]Sequence, length)
	copy(out, a.Members[start-1:start-1+length])
	return &ArrayItem{Members: out}, nil
}

// Reverse returns a new array with members in reverse order.
func (a *ArrayItem) Reverse() *ArrayItem {
	out := make([]Sequence, len(a.Members))
	for i, m := range a.Members {
		out[len(out)-1-i] = m
	}
	return &ArrayItem{Members: out}
}

// InsertBefore returns a new array with value inserted before position pos.
func (a *ArrayItem) InsertBefore(pos int, value Sequence) (*ArrayItem, error) {
	if pos < 1 || pos > len(a.Members)+1 {
		return nil, newError(FOAR0001, "array:insert-before position %d out of range", pos)
	}
	out := make([]Sequence, 0, len(a.Members)+1)
	out = append(out, a.Members[:pos-1]...)
	out = append(out, value)
	out = append(out, a.Members[pos-1:]...)
	return &ArrayItem{Members: out}, nil
}

// Remove returns a new array with the member at pos removed.
func (a *ArrayItem) Remove(pos int) (*ArrayItem, error) {
	if pos < 1 || pos > len(a.Members) {
		return nil, newError(FOAR0001, "array:remove position %d out of range", pos)
	}
	out := make([]Sequence, 0, len(a.Members)-1)
	out = append(out, a.Members[:pos-1]...)
	out = append(out, a.Members[pos:]...)
	return &ArrayItem{Members: out}, nil
}

// Flatten recursively flattens nested arrays and sequences into one
// flat Sequence, per fn:array:flatten.
func (a *ArrayItem) Flatten() Sequence {
	var out Sequence
	for _, m := range a.Members {
		for _, it := range m {
			if arr, ok := it.(*ArrayItem); ok {
				out = append(out, arr.Flatten()...)
			} else {
				out = append(out, it)
			}
		}
	}
	return out
}

// Join concatenates several arrays' members into one new array
// (fn:array:join).
func Join(arrays []*ArrayItem) *ArrayItem {
	var out []Sequence
	for _, a := range arrays {
		out = append(out, a.Members...)
	}
	return &ArrayItem{Members: out}
}
