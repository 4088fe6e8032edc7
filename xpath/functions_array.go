package xpath

const arrayNS = "http://www.w3.org/2005/xpath-functions/array"

func arrayName(local string) ExpandedName { return ExpandedName{URI: arrayNS, Local: local} }

var anyArrayType = SequenceType{Item: ItemType{Kind: ItemTypeArray}}
var anyArrayOptional = SequenceType{Item: ItemType{Kind: ItemTypeArray}, Occurrence: OccurrenceOptional}

// init populates the array: namespace, a thin wrapper over ArrayItem's
// already-immutable operations (array.go), following the same
// "one function per method" wiring as functions_map.go does for MapItem.
func init() {
	RegisterFunction(arrayName("size"), 1, []SequenceType{anyArrayType},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewIntegerFromInt64(int64(len(arr.Members)))), nil
		})

	RegisterFunction(arrayName("get"), 2, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			return arr.Get(pos)
		})

	RegisterFunction(arrayName("put"), 3, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		AnyItemZeroOrMore,
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			out, err := arr.Put(pos, args[2])
			if err != nil {
				return nil, err
			}
			return Singleton(out), nil
		})

	RegisterFunction(arrayName("append"), 2, []SequenceType{anyArrayType, AnyItemZeroOrMore}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(arr.Append(args[1])), nil
		})

	RegisterFunction(arrayName("subarray"), 2, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
	}, anyArrayType, fnArraySubarray)
	RegisterFunction(arrayName("subarray"), 3, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
	}, anyArrayType, fnArraySubarray)

	RegisterFunction(arrayName("remove"), 2, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			out, err := arr.Remove(pos)
			if err != nil {
				return nil, err
			}
			return Singleton(out), nil
		})

	RegisterFunction(arrayName("insert-before"), 3, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		AnyItemZeroOrMore,
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			pos, err := argRoundedInt(args[1])
			if err != nil {
				return nil, err
			}
			out, err := arr.InsertBefore(pos, args[2])
			if err != nil {
				return nil, err
			}
			return Singleton(out), nil
		})

	RegisterFunction(arrayName("reverse"), 1, []SequenceType{anyArrayType}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(arr.Reverse()), nil
		})

	RegisterFunction(arrayName("flatten"), 1, []SequenceType{AnyItemZeroOrMore}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			var out Sequence
			for _, it := range args[0] {
				if arr, ok := it.(*ArrayItem); ok {
					out = append(out, arr.Flatten()...)
				} else {
					out = append(out, it)
				}
			}
			return out, nil
		})

	RegisterFunction(arrayName("join"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeArray}, Occurrence: OccurrenceZeroOrMore},
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arrays := make([]*ArrayItem, 0, len(args[0]))
			for _, it := range args[0] {
				arr, ok := it.(*ArrayItem)
				if !ok {
					return nil, newError(XPTY0004, "array:join requires an array argument")
				}
				arrays = append(arrays, arr)
			}
			return Singleton(Join(arrays)), nil
		})

	RegisterFunction(arrayName("for-each"), 2, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[1])
			if err != nil {
				return nil, err
			}
			out := make([]Sequence, len(arr.Members))
			for i, m := range arr.Members {
				r, err := fn.Invoke(ev, []Sequence{m})
				if err != nil {
					return nil, err
				}
				out[i] = r
			}
			return Singleton(&ArrayItem{Members: out}), nil
		})

	RegisterFunction(arrayName("sort"), 1, []SequenceType{anyArrayType}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			keys := make([]Atomic, len(arr.Members))
			for i, m := range arr.Members {
				a, err := AtomizeOne(m)
				if err != nil {
					return nil, err
				}
				keys[i] = a
			}
			items := make(Sequence, len(arr.Members))
			for i, m := range arr.Members {
				items[i] = &ArrayItem{Members: []Sequence{m}}
			}
			sorted := sortSequenceByKey(items, keys, false)
			out := make([]Sequence, len(sorted))
			for i, it := range sorted {
				out[i] = it.(*ArrayItem).Members[0]
			}
			return Singleton(&ArrayItem{Members: out}), nil
		})

	RegisterFunction(arrayName("head"), 1, []SequenceType{anyArrayType}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			return arr.Get(1)
		})

	RegisterFunction(arrayName("tail"), 1, []SequenceType{anyArrayType}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			out, err := arr.Subarray(2, len(arr.Members)-1)
			if err != nil {
				return nil, err
			}
			return Singleton(out), nil
		})

	RegisterFunction(arrayName("filter"), 2, []SequenceType{
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[1])
			if err != nil {
				return nil, err
			}
			var out []Sequence
			for _, m := range arr.Members {
				r, err := fn.Invoke(ev, []Sequence{m})
				if err != nil {
					return nil, err
				}
				keep, err := EffectiveBooleanValue(r)
				if err != nil {
					return nil, err
				}
				if keep {
					out = append(out, m)
				}
			}
			return Singleton(&ArrayItem{Members: out}), nil
		})

	RegisterFunction(arrayName("fold-left"), 3, []SequenceType{
		anyArrayType,
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			acc := args[1]
			for _, m := range arr.Members {
				acc, err = fn.Invoke(ev, []Sequence{acc, m})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	RegisterFunction(arrayName("fold-right"), 3, []SequenceType{
		anyArrayType,
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			arr, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			acc := args[1]
			for i := len(arr.Members) - 1; i >= 0; i-- {
				var err error
				acc, err = fn.Invoke(ev, []Sequence{arr.Members[i], acc})
				if err != nil {
					return nil, err
				}
			}
			return acc, nil
		})

	RegisterFunction(arrayName("for-each-pair"), 3, []SequenceType{
		anyArrayType,
		anyArrayType,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, anyArrayType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			a, err := argArray(args[0])
			if err != nil {
				return nil, err
			}
			b, err := argArray(args[1])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[2])
			if err != nil {
				return nil, err
			}
			n := len(a.Members)
			if len(b.Members) < n {
				n = len(b.Members)
			}
			out := make([]Sequence, n)
			for i := 0; i < n; i++ {
				r, err := fn.Invoke(ev, []Sequence{a.Members[i], b.Members[i]})
				if err != nil {
					return nil, err
				}
				out[i] = r
			}
			return Singleton(&ArrayItem{Members: out}), nil
		})
}

func argArray(seq Sequence) (*ArrayItem, error) {
	it, ok := seq.AsSingleton()
	if !ok {
		return nil, newError(XPTY0004, "expected a single array argument")
	}
	arr, ok := it.(*ArrayItem)
	if !ok {
		return nil, newError(XPTY0004, "expected an array, got %s", it.Kind())
	}
	return arr, nil
}

func argFunction(seq Sequence) (*FuncItem, error) {
	it, ok := seq.AsSingleton()
	if !ok {
		return nil, newError(XPTY0004, "expected a single function argument")
	}
	fn, ok := it.(*FuncItem)
	if !ok {
		return nil, newError(XPTY0004, "expected a function, got %s", it.Kind())
	}
	return fn, nil
}

func fnArraySubarray(ev *Evaluator, args []Sequence) (Sequence, error) {
	arr, err := argArray(args[0])
	if err != nil {
		return nil, err
	}
	start, err := argRoundedInt(args[1])
	if err != nil {
		return nil, err
	}
	length := len(arr.Members) - start + 1
	if len(args) == 3 {
		l, err := argRoundedInt(args[2])
		if err != nil {
			return nil, err
		}
		length = l
	}
	out, err := arr.Subarray(start, length)
	if err != nil {
		return nil, err
	}
	return Singleton(out), nil
}
