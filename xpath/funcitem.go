package xpath

// FuncItem is a function reference: a named or inline function, or a
// partial application thereof, captured as a callable closure over the
// static context in effect where it was created. Function references
// are items (spec.md §3.4), never sequences, so higher-order functions
// receive them unflattened just like maps and arrays.
type FuncItem struct {
	Name     ExpandedName // absent for anonymous/inline functions
	Arity    int
	Params   []SequenceType
	Return   SequenceType
	Call     func(ev *Evaluator, args []Sequence) (Sequence, error)
}

func (f *FuncItem) Kind() ItemKind      { return KindFunction }
func (f *FuncItem) StringValue() string { return "" }

// Invoke applies the function-conversion rules to args (see
// sequencetype.go's convertArgument) and calls the underlying
// implementation.
func (f *FuncItem) Invoke(ev *Evaluator, args []Sequence) (Sequence, error) {
	if len(args) != f.Arity {
		return nil, newError(XPTY0004, "function %s expects %d arguments, got %d", f.Name.Local, f.Arity, len(args))
	}
	converted := make([]Sequence, len(args))
	for i, a := range args {
		if i < len(f.Params) {
			c, err := convertArgument(a, f.Params[i])
			if err != nil {
				return nil, err
			}
			converted[i] = c
		} else {
			converted[i] = a
		}
	}
	result, err := f.Call(ev, converted)
	if err != nil {
		return nil, err
	}
	return checkReturnType(result, f.Return)
}

// partialPlaceholder marks an unfilled argument position `?` in a
// partial application (`f(a, ?, c)`).
type partialPlaceholder struct{}

// PartialApply builds a new FuncItem of reduced arity from base by
// substituting fixed values into every non-placeholder position; the
// resulting function, when called, fills in the placeholder positions
// in left-to-right order (spec.md §4.2 "partial application with `?`
// placeholders").
func PartialApply(base *FuncItem, args []any) *FuncItem {
	var holeParams []SequenceType
	holeIdx := make([]int, 0)
	for i, a := range args {
		if _, isHole := a.(partialPlaceholder); isHole {
			holeIdx = append(holeIdx, i)
			if i < len(base.Params) {
				holeParams = append(holeParams, base.Params[i])
			}
		}
	}
	return &FuncItem{
		Name:   base.Name,
		Arity:  len(holeIdx),
		Params: holeParams,
		Return: base.Return,
		Call: func(ev *Evaluator, fillArgs []Sequence) (Sequence, error) {
			full := make([]Sequence, len(args))
			hi := 0
			for i, a := range args {
				if _, isHole := a.(partialPlaceholder); isHole {
					full[i] = fillArgs[hi]
					hi++
				} else {
					full[i] = a.(Sequence)
				}
			}
			return base.Invoke(ev, full)
		},
	}
}

// Placeholder returns the `?` marker used to build partial applications.
func Placeholder() any { return partialPlaceholder{} }
