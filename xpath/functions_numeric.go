package xpath

import "math"

// registerNumericUnary installs a numeric($arg?) as xs:double-shaped
// function, the common shape of ceiling/floor/round/abs.
func registerNumericUnary(local string, impl func(f float64) float64) {
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			f := impl(a.Float64())
			return Singleton(preserveNumericType(a, f)), nil
		})
}

// preserveNumericType keeps integer-valued arguments integer, matching
// the teacher's numeric-tower handling in symbol.go (ceiling/floor/round
// return the same numeric subtype as their argument where exact).
func preserveNumericType(orig Atomic, f float64) Atomic {
	switch orig.Type {
	case TypeInteger, TypeNonNegativeInteger, TypePositiveInteger, TypeNonPositiveInteger, TypeNegativeInteger,
		TypeUnsignedLong, TypeUnsignedInt, TypeUnsignedShort, TypeUnsignedByte:
		return NewIntegerFromInt64(int64(f))
	case TypeDecimal:
		return NewDecimal(f)
	default:
		return NewDouble(f)
	}
}

// init populates fn: numeric functions and math: wrappers. The
// round-half-away-from-zero algorithm (math.Floor(n+0.5) for positive,
// math.Ceil(n-0.5) for negative) is ported directly from the teacher's
// `round` in symbol.go, retyped onto Atomic.
func init() {
	registerNumericUnary("ceiling", math.Ceil)
	registerNumericUnary("floor", math.Floor)
	registerNumericUnary("abs", math.Abs)
	registerNumericUnary("round", func(f float64) float64 {
		if f >= 0 {
			return math.Floor(f + 0.5)
		}
		return math.Ceil(f - 0.5)
	})
	registerNumericUnary("round-half-to-even", math.RoundToEven)

	mathNS := "http://www.w3.org/2005/xpath-functions/math"
	registerMathConst(mathNS, "pi", math.Pi)
	registerMathUnary(mathNS, "sqrt", math.Sqrt)
	registerMathUnary(mathNS, "sin", math.Sin)
	registerMathUnary(mathNS, "cos", math.Cos)
	registerMathUnary(mathNS, "tan", math.Tan)
	registerMathUnary(mathNS, "exp", math.Exp)
	registerMathUnary(mathNS, "log", math.Log)
	registerMathUnary(mathNS, "log10", math.Log10)
	registerMathUnary(mathNS, "asin", math.Asin)
	registerMathUnary(mathNS, "acos", math.Acos)
	registerMathUnary(mathNS, "atan", math.Atan)

	RegisterFunction(ExpandedName{URI: mathNS, Local: "pow"}, 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			base, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			exp, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(NewDouble(math.Pow(base.Float64(), exp.Float64()))), nil
		})

	RegisterFunction(fnName("sum"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}}, fnSum)
	RegisterFunction(fnName("sum"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic}}, fnSum)

	RegisterFunction(fnName("avg"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			var total float64
			for _, it := range args[0] {
				total += it.(Atomic).Float64()
			}
			return Singleton(NewDouble(total / float64(len(args[0])))), nil
		})

	registerMinMax("min", func(a, b float64) bool { return a < b })
	registerMinMax("max", func(a, b float64) bool { return a > b })
}

func registerMathConst(ns, local string, v float64) {
	RegisterFunction(ExpandedName{URI: ns, Local: local}, 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return Singleton(NewDouble(v)), nil })
}

func registerMathUnary(ns, local string, fn func(float64) float64) {
	RegisterFunction(ExpandedName{URI: ns, Local: local}, 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewDouble(fn(a.Float64()))), nil
		})
}

func fnSum(ev *Evaluator, args []Sequence) (Sequence, error) {
	if len(args[0]) == 0 {
		if len(args) == 2 {
			return args[1], nil
		}
		return Singleton(NewIntegerFromInt64(0)), nil
	}
	var total float64
	for _, it := range args[0] {
		total += it.(Atomic).Float64()
	}
	return Singleton(NewDouble(total)), nil
}

func registerMinMax(local string, better func(a, b float64) bool) {
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			best := args[0][0].(Atomic)
			for _, it := range args[0][1:] {
				a := it.(Atomic)
				if better(a.Float64(), best.Float64()) {
					best = a
				}
			}
			return Singleton(best), nil
		})
}
