package xpath

import "sort"

// init populates the general sequence-processing family: count, empty,
// exists, distinct-values, insert-before, remove, reverse, subsequence,
// head, tail, zero-or-one, one-or-more, exactly-one, unordered. Grounded
// on the teacher's `count`/`last` treatment in symbol.go, generalized
// from a single axis result to any Sequence.
func init() {
	RegisterFunction(fnName("count"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewIntegerFromInt64(int64(len(args[0])))), nil
		})

	RegisterFunction(fnName("empty"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewBoolean(len(args[0]) == 0)), nil
		})
	RegisterFunction(fnName("exists"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewBoolean(len(args[0]) != 0)), nil
		})

	RegisterFunction(fnName("reverse"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			in := args[0]
			out := make(Sequence, len(in))
			for i, it := range in {
				out[len(in)-1-i] = it
			}
			return out, nil
		})

	RegisterFunction(fnName("head"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			return Singleton(args[0][0]), nil
		})
	RegisterFunction(fnName("tail"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) <= 1 {
				return Empty, nil
			}
			return args[0][1:], nil
		})

	RegisterFunction(fnName("unordered"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return args[0], nil })

	RegisterFunction(fnName("zero-or-one"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) > 1 {
				return nil, newError(FORG0003, "zero-or-one called with a sequence of length %d", len(args[0]))
			}
			return args[0], nil
		})
	RegisterFunction(fnName("one-or-more"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return nil, newError(FORG0004, "one-or-more called with an empty sequence")
			}
			return args[0], nil
		})
	RegisterFunction(fnName("exactly-one"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) != 1 {
				return nil, newError(FORG0005, "exactly-one called with a sequence of length %d", len(args[0]))
			}
			return args[0], nil
		})

	RegisterFunction(fnName("subsequence"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, AnyItemZeroOrMore, fnSubsequence)
	RegisterFunction(fnName("subsequence"), 3, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, AnyItemZeroOrMore, fnSubsequence)

	RegisterFunction(fnName("insert-before"), 3, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
		AnyItemZeroOrMore,
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			in := args[0]
			if pos < 1 {
				pos = 1
			}
			if pos > len(in)+1 {
				pos = len(in) + 1
			}
			out := make(Sequence, 0, len(in)+len(args[2]))
			out = append(out, in[:pos-1]...)
			out = append(out, args[2]...)
			out = append(out, in[pos-1:]...)
			return out, nil
		})

	RegisterFunction(fnName("remove"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			in := args[0]
			if pos < 1 || pos > len(in) {
				return in, nil
			}
			out := make(Sequence, 0, len(in)-1)
			out = append(out, in[:pos-1]...)
			out = append(out, in[pos:]...)
			return out, nil
		})

	RegisterFunction(fnName("distinct-values"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore}, fnDistinctValues)

	RegisterFunction(fnName("index-of"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
		{Item: ItemType{Kind: ItemTypeAtomic}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			var out Sequence
			for i, it := range args[0] {
				a, ok := it.(Atomic)
				if !ok {
					continue
				}
				r, err := CompareAtomic(a, key)
				if err == nil && r == CmpEqual {
					out = append(out, NewIntegerFromInt64(int64(i+1)))
				}
			}
			return out, nil
		})

	RegisterFunction(fnName("deep-equal"), 2, []SequenceType{AnyItemZeroOrMore, AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewBoolean(DeepEqual(args[0], args[1]))), nil
		})
	RegisterFunction(fnName("deep-equal"), 3, []SequenceType{
		AnyItemZeroOrMore, AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			// Only codepoint collation is supported (see DESIGN.md's
			// "default-collation" Open Question decision), so the
			// collation argument is accepted but does not change the
			// comparison.
			return Singleton(NewBoolean(DeepEqual(args[0], args[1]))), nil
		})
}

func fnSubsequence(ev *Evaluator, args []Sequence) (Sequence, error) {
	in := args[0]
	start, err := argRoundedInt(args[1])
	if err != nil {
		return nil, err
	}
	length := len(in) - start + 1
	if len(args) == 3 {
		l, err := argRoundedInt(args[2])
		if err != nil {
			return nil, err
		}
		length = l
	}
	from := start - 1
	to := from + length
	if from < 0 {
		from = 0
	}
	if to > len(in) {
		to = len(in)
	}
	if to < from || from >= len(in) {
		return Empty, nil
	}
	return in[from:to], nil
}

func fnDistinctValues(ev *Evaluator, args []Sequence) (Sequence, error) {
	var out Sequence
	for _, it := range args[0] {
		a, ok := it.(Atomic)
		if !ok {
			return nil, newError(XPTY0004, "distinct-values requires atomic items")
		}
		dup := false
		for _, seen := range out {
			if r, err := CompareAtomic(a, seen.(Atomic)); err == nil && r == CmpEqual {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, a)
		}
	}
	return out, nil
}

// sortSequenceByKey is shared plumbing for the higher-order fn:sort
// family; kept here rather than functions_higher_order.go since
// distinct-values/index-of already need comparison helpers nearby.
func sortSequenceByKey(items Sequence, keys []Atomic, descending bool) Sequence {
	idx := make([]int, len(items))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool {
		c := compareForSort(keys[idx[i]], keys[idx[j]])
		if descending {
			return c > 0
		}
		return c < 0
	})
	out := make(Sequence, len(items))
	for i, j := range idx {
		out[i] = items[j]
	}
	return out
}

func compareForSort(a, b Atomic) int {
	r, err := CompareAtomic(a, b)
	if err != nil {
		return 0
	}
	return int(r)
}
