package xpath

// Occurrence is the occurrence indicator suffixed to an item type in
// sequence-type syntax: none (exactly one), `?`, `*`, or `+`.
type Occurrence int

const (
	OccurrenceOne Occurrence = iota
	OccurrenceOptional
	OccurrenceZeroOrMore
	OccurrenceOneOrMore
)

// ItemTypeKind distinguishes the item-type side of a SequenceType:
// an atomic type name, a kind test (node()/element()/text()/...), the
// wildcard item(), or one of the 3.0+ function/map/array item types.
type ItemTypeKind int

const (
	ItemTypeAny ItemTypeKind = iota // item()
	ItemTypeAtomic
	ItemTypeNodeKind
	ItemTypeEmptySequence // empty-sequence()
	ItemTypeFunction
	ItemTypeMap
	ItemTypeArray
)

// ItemType is the type-side (no occurrence indicator) half of a
// SequenceType.
type ItemType struct {
	Kind       ItemTypeKind
	AtomicType AtomicType
	NodeKind   NodeKind
	NodeName   *ExpandedName // nil = no name constraint (element()/attribute() wildcard)
	AnyNodeKind bool         // node() - matches any kind
}

// SequenceType is a full XPath sequence type: an ItemType plus an
// Occurrence, as produced by the grammar's sequence-type productions and
// consumed by `instance of`, `cast`, `castable`, `treat as`, and
// function parameter/return declarations.
type SequenceType struct {
	Item       ItemType
	Occurrence Occurrence
	IsEmptySeq bool
}

// AnyItemZeroOrMore is item()* — the default "no constraint" signature
// used for parameters this engine does not statically narrow.
var AnyItemZeroOrMore = SequenceType{Item: ItemType{Kind: ItemTypeAny}, Occurrence: OccurrenceZeroOrMore}

// InstanceOf implements the `instance of` operator: does seq match t?
func InstanceOf(seq Sequence, t SequenceType) bool {
	if t.IsEmptySeq {
		return len(seq) == 0
	}
	switch t.Occurrence {
	case OccurrenceOne:
		return len(seq) == 1 && itemMatches(seq[0], t.Item)
	case OccurrenceOptional:
		if len(seq) > 1 {
			return false
		}
		return len(seq) == 0 || itemMatches(seq[0], t.Item)
	case OccurrenceOneOrMore:
		if len(seq) == 0 {
			return false
		}
		return allMatch(seq, t.Item)
	default: // ZeroOrMore
		return allMatch(seq, t.Item)
	}
}

func allMatch(seq Sequence, it ItemType) bool {
	for _, i := range seq {
		if !itemMatches(i, it) {
			return false
		}
	}
	return true
}

func itemMatches(it Item, t ItemType) bool {
	switch t.Kind {
	case ItemTypeAny:
		return true
	case ItemTypeAtomic:
		a, ok := it.(Atomic)
		if !ok {
			return false
		}
		return atomicTypeMatches(a.Type, t.AtomicType)
	case ItemTypeNodeKind:
		n, ok := it.(*Node)
		if !ok {
			return false
		}
		if t.AnyNodeKind {
			return true
		}
		if n.NodeKind != t.NodeKind {
			return false
		}
		if t.NodeName != nil && n.Name != *t.NodeName {
			return false
		}
		return true
	case ItemTypeMap:
		_, ok := it.(*MapItem)
		return ok
	case ItemTypeArray:
		_, ok := it.(*ArrayItem)
		return ok
	case ItemTypeFunction:
		_, ok := it.(*FuncItem)
		return ok
	}
	return false
}

// atomicTypeMatches reports whether a value statically typed as `have`
// satisfies an `instance of want` test, walking the small built-in
// derivation lattice (e.g. xs:integer instance of xs:decimal is true).
func atomicTypeMatches(have, want AtomicType) bool {
	if have == want || want == "" {
		return true
	}
	for cur := have; cur != ""; cur = parentOf(cur) {
		if cur == want {
			return true
		}
		if parentOf(cur) == cur {
			break
		}
	}
	return false
}

func parentOf(t AtomicType) AtomicType {
	switch t {
	case TypeNonNegativeInteger, TypeNonPositiveInteger:
		return TypeInteger
	case TypePositiveInteger:
		return TypeNonNegativeInteger
	case TypeNegativeInteger:
		return TypeNonPositiveInteger
	case TypeUnsignedLong:
		return TypeNonNegativeInteger
	case TypeUnsignedInt:
		return TypeUnsignedLong
	case TypeUnsignedShort:
		return TypeUnsignedInt
	case TypeUnsignedByte:
		return TypeUnsignedShort
	case TypeInteger:
		return TypeDecimal
	case TypeYearMonthDuration, TypeDayTimeDuration:
		return TypeDuration
	case TypeDateTimeStamp:
		return TypeDateTime
	case TypeAnyURI, TypeDecimal, TypeFloat, TypeDouble, TypeBoolean, TypeString,
		TypeDuration, TypeDateTime, TypeDate, TypeTime, TypeGYear, TypeGYearMonth,
		TypeGMonth, TypeGMonthDay, TypeGDay, TypeQName, TypeNOTATION, TypeBase64Binary,
		TypeHexBinary, TypeUntypedAtomic:
		return "xs:anyAtomicType"
	default:
		return t
	}
}

// convertArgument applies the function-conversion rules (spec.md §4.3
// "Higher-order"): atomize if the declared type is atomic, apply the
// occurrence check, cast untyped atomics to the declared atomic type,
// promote numeric values to a declared numeric type, and raise XPTY0004
// on mismatch.
func convertArgument(arg Sequence, t SequenceType) (Sequence, error) {
	if t.Item.Kind == ItemTypeAny && t.Occurrence == OccurrenceZeroOrMore {
		return arg, nil
	}
	seq := arg
	if t.Item.Kind == ItemTypeAtomic {
		atomized, err := Atomize(arg)
		if err != nil {
			return nil, err
		}
		converted := make(Sequence, len(atomized))
		for i, it := range atomized {
			a := it.(Atomic)
			if a.Type == TypeUntypedAtomic && t.Item.AtomicType != TypeUntypedAtomic {
				pa, err := ParseAtomic(a.str, t.Item.AtomicType)
				if err != nil {
					return nil, newError(XPTY0004, "cannot convert untypedAtomic to %s: %v", t.Item.AtomicType, err)
				}
				converted[i] = pa
			} else if a.IsNumeric() && !atomicTypeMatches(a.Type, t.Item.AtomicType) {
				converted[i], _ = Promote(a, t.Item.AtomicType)
			} else {
				converted[i] = a
			}
		}
		seq = converted
	}
	if !InstanceOf(seq, t) {
		return nil, newError(XPTY0004, "argument does not match declared parameter type")
	}
	return seq, nil
}

func checkReturnType(result Sequence, t SequenceType) (Sequence, error) {
	if t.Item.Kind == ItemTypeAny && t.Occurrence == OccurrenceZeroOrMore {
		return result, nil
	}
	if !InstanceOf(result, t) {
		return nil, newError(XPTY0004, "function result does not match declared return type")
	}
	return result, nil
}
