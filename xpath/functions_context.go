package xpath

// init populates the focus-dependent context functions: position, last,
// current-dateTime/-date/-time. Grounded on the teacher's `position`/
// `last` in symbol.go, which read the same kind of per-step frame this
// engine keeps in DynamicContext.Focus.
func init() {
	RegisterFunction(fnName("position"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			f, ok := ev.DC.CurrentFocus()
			if !ok {
				return nil, newError(XPDY0002, "position() called outside of a context with a current item")
			}
			return Singleton(NewIntegerFromInt64(int64(f.Position))), nil
		})
	RegisterFunction(fnName("last"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			f, ok := ev.DC.CurrentFocus()
			if !ok {
				return nil, newError(XPDY0002, "last() called outside of a context with a current item")
			}
			return Singleton(NewIntegerFromInt64(int64(f.Size))), nil
		})

	RegisterFunction(fnName("current-dateTime"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDateTime}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return Singleton(ev.DC.Now()), nil })
	RegisterFunction(fnName("current-date"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDate}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			dt := ev.DC.Now()
			return Singleton(retypeDateLike(TypeDate, dt.Time(), dt.HasTZ())), nil
		})
	RegisterFunction(fnName("current-time"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeTime}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			dt := ev.DC.Now()
			return Singleton(retypeDateLike(TypeTime, dt.Time(), dt.HasTZ())), nil
		})

	RegisterFunction(fnName("default-collation"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			return Singleton(NewString(ev.DC.Static.DefaultCollation)), nil
		})
	RegisterFunction(fnName("static-base-uri"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if ev.DC.Static.BaseURI == "" {
				return Empty, nil
			}
			return Singleton(NewAnyURI(ev.DC.Static.BaseURI)), nil
		})

	RegisterFunction(fnName("context-item"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAny}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			it, err := ev.DC.ContextItem()
			if err != nil {
				return nil, err
			}
			return Singleton(it), nil
		})
}
