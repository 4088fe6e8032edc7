package xpath

// Atomize implements the atomization rule (spec.md §3.1): a node
// atomizes to its typed value, an atomic value atomizes to itself, and
// maps/arrays/functions cannot be atomized (FOTY0013 in the full XDM
// spec; this engine folds that into FORG0006 since §7 does not carve
// out a separate FOTY group).
func Atomize(seq Sequence) (Sequence, error) {
	out := make(Sequence, 0, len(seq))
	for _, it := range seq {
		switch v := it.(type) {
		case Atomic:
			out = append(out, v)
		case *Node:
			out = append(out, v.TypedValue()...)
		default:
			return nil, newError(FORG0006, "%s item has no typed value and cannot be atomized", it.Kind())
		}
	}
	return out, nil
}

// AtomizeOne atomizes and enforces singleton cardinality, the shape
// value comparisons and most function arguments need (XPTY0004 on a
// multi-item operand).
func AtomizeOne(seq Sequence) (Atomic, error) {
	atomized, err := Atomize(seq)
	if err != nil {
		return Atomic{}, err
	}
	if len(atomized) != 1 {
		return Atomic{}, newError(XPTY0004, "expected a single atomic value, got %d items", len(atomized))
	}
	return atomized[0].(Atomic), nil
}

// EffectiveBooleanValue implements the EBV coercion rule (spec.md §4.3):
// empty sequence is false; a single boolean is itself; a single string
// is non-empty; a single numeric is nonzero and non-NaN; a single node
// is true; anything else (including a node+atomic mix or an array/map)
// raises FORG0006.
func EffectiveBooleanValue(seq Sequence) (bool, error) {
	if len(seq) == 0 {
		return false, nil
	}
	if _, isNode := seq[0].(*Node); isNode {
		return true, nil
	}
	if len(seq) > 1 {
		return false, newError(FORG0006, "effective boolean value is undefined for a sequence of more than one item unless it starts with a node")
	}
	switch v := seq[0].(type) {
	case Atomic:
		switch {
		case v.Type == TypeBoolean:
			return v.b, nil
		case v.Type == TypeString || v.Type == TypeUntypedAtomic || v.Type == TypeAnyURI:
			return v.str != "", nil
		case v.IsNumeric():
			if v.IsNaN() {
				return false, nil
			}
			return v.Float64() != 0, nil
		}
	}
	return false, newError(FORG0006, "effective boolean value is undefined for a %s item", seq[0].Kind())
}
