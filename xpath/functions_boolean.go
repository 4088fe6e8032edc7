package xpath

// init populates fn:boolean, fn:not, fn:true, fn:false — the small
// boolean family, grounded on the teacher's `not` in symbol.go, which
// simply negates the host language's truthiness coercion; here that
// coercion is EffectiveBooleanValue (atomic_compare.go neighbour).
func init() {
	RegisterFunction(fnName("boolean"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			b, err := EffectiveBooleanValue(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(b)), nil
		})

	RegisterFunction(fnName("not"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			b, err := EffectiveBooleanValue(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(!b)), nil
		})

	RegisterFunction(fnName("true"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return Singleton(NewBoolean(true)), nil })
	RegisterFunction(fnName("false"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return Singleton(NewBoolean(false)), nil })
}
