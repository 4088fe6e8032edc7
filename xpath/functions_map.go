package xpath

const mapNS = "http://www.w3.org/2005/xpath-functions/map"

func mapName(local string) ExpandedName { return ExpandedName{URI: mapNS, Local: local} }

var anyMapType = SequenceType{Item: ItemType{Kind: ItemTypeMap}}

// init populates the map: namespace, a thin wrapper over MapItem's
// persistent-update methods (mapitem.go).
func init() {
	RegisterFunction(mapName("merge"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeMap}, Occurrence: OccurrenceZeroOrMore},
	}, anyMapType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			maps, err := argMaps(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(MergeMaps(maps)), nil
		})

	RegisterFunction(mapName("size"), 1, []SequenceType{anyMapType},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewIntegerFromInt64(int64(m.Len()))), nil
		})

	RegisterFunction(mapName("get"), 2, []SequenceType{
		anyMapType,
		{Item: ItemType{Kind: ItemTypeAtomic}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			v, ok := m.Get(key)
			if !ok {
				return Empty, nil
			}
			return v, nil
		})

	RegisterFunction(mapName("contains"), 2, []SequenceType{
		anyMapType,
		{Item: ItemType{Kind: ItemTypeAtomic}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(m.Contains(key))), nil
		})

	RegisterFunction(mapName("put"), 3, []SequenceType{
		anyMapType,
		{Item: ItemType{Kind: ItemTypeAtomic}},
		AnyItemZeroOrMore,
	}, anyMapType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(m.ImmutablePut(key, args[2])), nil
		})

	RegisterFunction(mapName("remove"), 2, []SequenceType{
		anyMapType,
		{Item: ItemType{Kind: ItemTypeAtomic}},
	}, anyMapType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(m.ImmutableRemove(key)), nil
		})

	RegisterFunction(mapName("keys"), 1, []SequenceType{anyMapType},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			keys := m.Keys()
			out := make(Sequence, len(keys))
			for i, k := range keys {
				out[i] = k
			}
			return out, nil
		})

	RegisterFunction(mapName("for-each"), 2, []SequenceType{
		anyMapType,
		{Item: ItemType{Kind: ItemTypeFunction}},
	}, AnyItemZeroOrMore,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			m, err := argMap(args[0])
			if err != nil {
				return nil, err
			}
			fn, err := argFunction(args[1])
			if err != nil {
				return nil, err
			}
			var out Sequence
			var callErr error
			m.ForEach(func(k Atomic, v Sequence) bool {
				r, err := fn.Invoke(ev, []Sequence{Singleton(k), v})
				if err != nil {
					callErr = err
					return false
				}
				out = append(out, r...)
				return true
			})
			if callErr != nil {
				return nil, callErr
			}
			return out, nil
		})

	RegisterFunction(mapName("find"), 2, []SequenceType{
		AnyItemZeroOrMore,
		{Item: ItemType{Kind: ItemTypeAtomic}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeArray}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			key, err := AtomizeOne(args[1])
			if err != nil {
				return nil, err
			}
			var out []Sequence
			mapFind(args[0], key, &out)
			return Singleton(&ArrayItem{Members: out}), nil
		})

	RegisterFunction(ExpandedName{URI: mapNS, Local: "entry"}, 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic}},
		AnyItemZeroOrMore,
	}, anyMapType,
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			key, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			m := NewMapItem()
			m.Put(key, args[1])
			return Singleton(m), nil
		})
}

func argMap(seq Sequence) (*MapItem, error) {
	it, ok := seq.AsSingleton()
	if !ok {
		return nil, newError(XPTY0004, "expected a single map argument")
	}
	m, ok := it.(*MapItem)
	if !ok {
		return nil, newError(XPTY0004, "expected a map, got %s", it.Kind())
	}
	return m, nil
}

// mapFind implements fn:map:find's recursive search: walk every map and
// array nested anywhere within input, appending (in document order of
// traversal) the value of every binding whose key matches, whether the
// match is found directly or inside a nested map/array.
func mapFind(input Sequence, key Atomic, out *[]Sequence) {
	for _, it := range input {
		switch v := it.(type) {
		case *MapItem:
			v.ForEach(func(k Atomic, val Sequence) bool {
				if r, err := CompareAtomic(k, key); err == nil && r == CmpEqual {
					*out = append(*out, val)
				}
				mapFind(val, key, out)
				return true
			})
		case *ArrayItem:
			for _, m := range v.Members {
				mapFind(m, key, out)
			}
		}
	}
}

func argMaps(seq Sequence) ([]*MapItem, error) {
	out := make([]*MapItem, 0, len(seq))
	for _, it := range seq {
		m, ok := it.(*MapItem)
		if !ok {
			return nil, newError(XPTY0004, "expected a map, got %s", it.Kind())
		}
		out = append(out, m)
	}
	return out, nil
}
