package xpath

import "strings"

// TypeRegistry resolves a QName used in a sequence-type position
// (`instance of`, `cast as`, `treat as`, a function signature) to the
// AtomicType it names. Schema validation itself is out of scope (spec.md
// §1 Non-goals); this interface exists purely so a host application can
// plug in additional simple-type names (e.g. from an imported schema)
// without this package needing to understand XSD at all.
type TypeRegistry interface {
	Resolve(name ExpandedName) (AtomicType, bool)
}

// builtinTypeRegistry resolves the fixed set of XSD built-in atomic type
// names this engine already knows (spec.md §3.2's derivation lattice).
// It is the default TypeRegistry; WithTypeRegistry can layer or replace it.
type builtinTypeRegistry struct {
	byLocal map[string]AtomicType
}

const xsdNamespace = "http://www.w3.org/2001/XMLSchema"

// NewBuiltinTypeRegistry returns a TypeRegistry covering every xs:*
// atomic type this engine has native Atomic support for.
func NewBuiltinTypeRegistry() TypeRegistry {
	all := []AtomicType{
		TypeString, TypeBoolean, TypeDecimal, TypeFloat, TypeDouble,
		TypeDuration, TypeDateTime, TypeDateTimeStamp, TypeTime, TypeDate,
		TypeGYearMonth, TypeGYear, TypeGMonthDay, TypeGDay, TypeGMonth,
		TypeHexBinary, TypeBase64Binary, TypeAnyURI, TypeQName, TypeNOTATION,
		TypeInteger, TypeNonPositiveInteger, TypeNegativeInteger,
		TypeNonNegativeInteger, TypeUnsignedLong, TypeUnsignedInt,
		TypeUnsignedShort, TypeUnsignedByte, TypePositiveInteger,
		TypeYearMonthDuration, TypeDayTimeDuration, TypeUntypedAtomic,
	}
	reg := &builtinTypeRegistry{byLocal: make(map[string]AtomicType, len(all))}
	for _, t := range all {
		local := string(t)
		if i := strings.Index(local, ":"); i >= 0 {
			local = local[i+1:]
		}
		reg.byLocal[local] = t
	}
	return reg
}

func (r *builtinTypeRegistry) Resolve(name ExpandedName) (AtomicType, bool) {
	if name.URI != "" && name.URI != xsdNamespace {
		return "", false
	}
	t, ok := r.byLocal[name.Local]
	return t, ok
}

// ChainTypeRegistry tries each registry in order, returning the first
// hit. A host embedding a schema-aware registry ahead of the builtin one
// lets user-defined simple type names shadow nothing (XSD forbids
// redefining built-ins) while still falling back correctly.
func ChainTypeRegistry(regs ...TypeRegistry) TypeRegistry {
	return chainRegistry{regs}
}

type chainRegistry struct{ regs []TypeRegistry }

func (c chainRegistry) Resolve(name ExpandedName) (AtomicType, bool) {
	for _, r := range c.regs {
		if t, ok := r.Resolve(name); ok {
			return t, true
		}
	}
	return "", false
}
