package xpath

import "math/big"

// CompareResult mirrors a three-way comparator result, with an extra
// "incomparable" case for values whose types have no shared ordering
// (raises XPTY0004 at the call site).
type CompareResult int

const (
	CmpLess CompareResult = iota - 1
	CmpEqual
	CmpGreater
	CmpIncomparable
)

// CompareAtomic implements the "op" ordering used by value comparisons
// (eq/ne/lt/le/gt/ge) after untyped-atomic promotion has already been
// applied by the caller (see compare.go).
func CompareAtomic(a, b Atomic) (CompareResult, error) {
	if a.Type == TypeUntypedAtomic && b.Type != TypeUntypedAtomic {
		pa, err := Promote(a, promotionTargetFor(b.Type))
		if err != nil {
			return CmpIncomparable, err
		}
		a = pa
	} else if b.Type == TypeUntypedAtomic && a.Type != TypeUntypedAtomic {
		pb, err := Promote(b, promotionTargetFor(a.Type))
		if err != nil {
			return CmpIncomparable, err
		}
		b = pb
	}

	switch {
	case a.IsNumeric() && b.IsNumeric():
		return compareNumeric(a, b), nil
	case a.Type == TypeString || a.Type == TypeUntypedAtomic || a.Type == TypeAnyURI:
		if b.Type == TypeString || b.Type == TypeUntypedAtomic || b.Type == TypeAnyURI {
			return compareStrings(a.str, b.str), nil
		}
	case a.Type == TypeBoolean && b.Type == TypeBoolean:
		if a.b == b.b {
			return CmpEqual, nil
		}
		if !a.b {
			return CmpLess, nil
		}
		return CmpGreater, nil
	case isDateLike(a.Type) && isDateLike(b.Type) && a.Type == b.Type:
		if a.t.Equal(b.t) {
			return CmpEqual, nil
		}
		if a.t.Before(b.t) {
			return CmpLess, nil
		}
		return CmpGreater, nil
	case isDurationType(a.Type) && isDurationType(b.Type):
		return compareDuration(a.dur, b.dur), nil
	case a.Type == TypeQName && b.Type == TypeQName:
		if a.qn.URI == b.qn.URI && a.qn.Local == b.qn.Local {
			return CmpEqual, nil
		}
		return CmpIncomparable, nil
	}
	return CmpIncomparable, newError(XPTY0004, "values of type %s and %s are not comparable", a.Type, b.Type)
}

func promotionTargetFor(t AtomicType) AtomicType {
	if isDateLike(t) || isDurationType(t) {
		return t
	}
	return TypeDouble
}

func isDateLike(t AtomicType) bool {
	switch t {
	case TypeDate, TypeDateTime, TypeDateTimeStamp, TypeTime, TypeGYear, TypeGYearMonth, TypeGMonth, TypeGMonthDay, TypeGDay:
		return true
	}
	return false
}

func isDurationType(t AtomicType) bool {
	return t == TypeDuration || t == TypeYearMonthDuration || t == TypeDayTimeDuration
}

func compareNumeric(a, b Atomic) CompareResult {
	if a.IsNaN() || b.IsNaN() {
		return CmpIncomparable
	}
	if a.Type == TypeInteger && b.Type == TypeInteger && a.ibig != nil && b.ibig != nil {
		switch a.ibig.Cmp(b.ibig) {
		case -1:
			return CmpLess
		case 1:
			return CmpGreater
		default:
			return CmpEqual
		}
	}
	af := bigFloatOf(a)
	bf := bigFloatOf(b)
	switch af.Cmp(bf) {
	case -1:
		return CmpLess
	case 1:
		return CmpGreater
	default:
		return CmpEqual
	}
}

func bigFloatOf(a Atomic) *big.Float {
	if a.num != nil {
		return a.num
	}
	if a.ibig != nil {
		return new(big.Float).SetInt(a.ibig)
	}
	return new(big.Float)
}

func compareStrings(a, b string) CompareResult {
	switch {
	case a == b:
		return CmpEqual
	case a < b:
		return CmpLess
	default:
		return CmpGreater
	}
}

func compareDuration(a, b Duration) CompareResult {
	// Durations only have a partial order in the general case; this
	// engine compares via total approximate seconds (treating a month
	// as 30 days, per the common XPath processor convention for
	// duration ordering outside of the canonical partial-order rules).
	av := float64(a.Months)*30*86400 + a.Seconds
	bv := float64(b.Months)*30*86400 + b.Seconds
	switch {
	case av == bv:
		return CmpEqual
	case av < bv:
		return CmpLess
	default:
		return CmpGreater
	}
}

// DeepEqual implements fn:deep-equal for two items (or recursively, two
// sequences), per the W3C function catalog: nodes compare by recursive
// structural equality (name, typed value, children, attributes, ignoring
// order for attributes/namespaces but not for children); atomics compare
// via CompareAtomic; maps compare key-set-equal with deep-equal values
// (unordered, resolving the Open Question from spec.md §9 in favor of
// the W3C catalog's documented behavior); arrays compare positionally.
func DeepEqual(a, b Sequence) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !deepEqualItem(a[i], b[i]) {
			return false
		}
	}
	return true
}

func deepEqualItem(a, b Item) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case KindAtomic:
		av, bv := a.(Atomic), b.(Atomic)
		r, err := CompareAtomic(av, bv)
		return err == nil && r == CmpEqual
	case KindNode:
		return deepEqualNode(a.(*Node), b.(*Node))
	case KindMap:
		am, bm := a.(*MapItem), b.(*MapItem)
		if am.Len() != bm.Len() {
			return false
		}
		eq := true
		am.ForEach(func(k Atomic, v Sequence) bool {
			bv, ok := bm.Get(k)
			if !ok || !DeepEqual(v, bv) {
				eq = false
				return false
			}
			return true
		})
		return eq
	case KindArray:
		aa, ba := a.(*ArrayItem), b.(*ArrayItem)
		if len(aa.Members) != len(ba.Members) {
			return false
		}
		for i := range aa.Members {
			if !DeepEqual(aa.Members[i], ba.Members[i]) {
				return false
			}
		}
		return true
	case KindFunction:
		return a.(*FuncItem) == b.(*FuncItem)
	}
	return false
}

func deepEqualNode(a, b *Node) bool {
	if a.NodeKind != b.NodeKind {
		return false
	}
	if a.Name != b.Name {
		return false
	}
	if a.NodeKind == TextNode || a.NodeKind == CommentNode {
		return a.StringValue() == b.StringValue()
	}
	if len(a.Children) != len(b.Children) {
		return false
	}
	for i := range a.Children {
		if !deepEqualNode(a.Children[i], b.Children[i]) {
			return false
		}
	}
	if len(a.Attributes) != len(b.Attributes) {
		return false
	}
	for _, attrA := range a.Attributes {
		attrB := b.Attr(attrA.Name)
		if attrB == nil || attrB.StringValue() != attrA.StringValue() {
			return false
		}
	}
	return true
}
