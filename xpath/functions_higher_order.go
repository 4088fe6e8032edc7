package xpath

// init populates the higher-order sequence functions: for-each, filter,
// fold-left, fold-right, for-each-pair, sort. Each takes a FuncItem
// (funcitem.go) produced by a named-function-ref, inline function, or
// partial application and invokes it per spec.md §4.2.
func init() {
	RegisterFunction(fnName("for-each"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[1])
			if err != nil {
				return nil, err
			}
			var out Sequence
			for _, it := range args[0] {
				r, err := fn.Invoke(ev, []Sequence{Singleton(it)})
				if err != nil {
					return nil, err
				}
				out = append(out, r...)
			}
			return out, nil
		})

	RegisterFunction(fnName("filter"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[1])
			if err != nil {
				return nil, err
			}
			var out Sequence
			for _, it := range args[0] {
				r, err := fn.Invoke(ev, []Sequence{Singleton(it)})
				if err != nil {
					return nil, err
				}
				keep, err := EffectiveBooleanValue(r)
				if err != nil {
					return nil, err
				}
				if keep {
					out = append(out, it)
				}
			}
			return out, nil
		})

	RegisterFunction(fnName("fold-left"), 3, []SequenceType{
		AnyItemZeroOrMore,
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			acc := args[1]
			for _, it := range args[0] {
				acc, err = fn.Invoke(ev, []Sequence{acc, Singleton(it)})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	RegisterFunction(fnName("fold-right"), 3, []SequenceType{
		AnyItemZeroOrMore,
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			acc := args[1]
			in := args[0]
			for i := len(in) - 1; i >= 0; i-- {
				var err error
				acc, err = fn.Invoke(ev, []Sequence{Singleton(in[i]), acc})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	RegisterFunction(fnName("for-each-pair"), 3, []SequenceType{
		AnyItemZeroOrMore,
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			a, b := args[0], args[1]
			n := len(a)
			if len(b) < n {
				n = len(b)
			}
			var out Sequence
			for i := 0; i < n; i++ {
				r, err := fn.Invoke(ev, []Sequence{Singleton(a[i]), Singleton(b[i])})
				if err != nil {
					return nil, err
				}
				out = append(out, r...)
			}
			return out, nil
		})

	RegisterFunction(fnName("sort"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return sortByIdentityKey(args[0])
		})
	RegisterFunction(fnName("sort"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return sortByIdentityKey(args[0])
		})
	RegisterFunction(fnName("sort"), 3, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			keys := make([]Atomic, len(args[0]))
			for i, it := range args[0] {
				r, err := fn.Invoke(ev, []Sequence{Singleton(it)})
				if err != nil {
					return nil, err
				}
				keys[i], err = AtomizeOne(r)
				if err != nil {
					return nil, err
				}
			}
			return sortSequenceByKey(args[0], keys, false), nil
		})
}

// This second init populates the Higher-order family's introspection functions:
// function-lookup, function-name, function-arity. Kept in their own init
// so the fold/filter/sort registration above reads as one unit.
func init() {
	RegisterFunction(fnName("function-lookup"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeFunction}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			qn, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			arity, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			fn, err := ev.DC.Static.Functions.Lookup(ExpandedName{URI: qn.QNameValue().URI, Local: qn.QNameValue().Local}, int(arity.BigInt().Int64()))
			if err != nil {
				return Empty, nil
			}
			return Singleton(fn), nil
		})

	RegisterFunction(fnName("function-name"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[0])
			if err != nil {
				return nil, err
			}
			if fn.Name.IsAbsent() {
				return Empty, nil
			}
			return Singleton(NewQName(QName{URI: fn.Name.URI, Local: fn.Name.Local})), nil
		})

	RegisterFunction(fnName("function-arity"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			fn, err := argFunction(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewIntegerFromInt64(int64(fn.Arity))), nil
		})
}

func sortByIdentityKey(in Sequence) (Sequence, error) {
	keys := make([]Atomic, len(in))
	for i, it := range in {
		a, err := AtomizeOne(Singleton(it))
		if err != nil {
			return nil, err
		}
		keys[i] = a
	}
	return sortSequenceByKey(in, keys, false), nil
}
