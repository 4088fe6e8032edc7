package xpath

// applyPredicate filters seq by pred, evaluated once per item with that
// item as the focus (spec.md §4.1 "predicates"). A predicate whose
// effective boolean value collapses to a single numeric instead tests
// position() = that number, exactly XPath's "numeric predicate shorthand"
// rule (`a[1]` means `a[position() = 1]`).
func applyPredicate(ev *Evaluator, seq Sequence, pred Expr) (Sequence, error) {
	var out Sequence
	size := len(seq)
	for i, it := range seq {
		subDC := ev.DC.withFocus(FocusFrame{Item: it, Position: i + 1, Size: size})
		subEv := ev.With(subDC)
		result, err := pred.Eval(subEv)
		if err != nil {
			return nil, err
		}
		keep, err := predicateTruth(result, i+1)
		if err != nil {
			return nil, err
		}
		if keep {
			out = append(out, it)
		}
	}
	return out, nil
}

func predicateTruth(seq Sequence, position int) (bool, error) {
	if len(seq) == 1 {
		if a, ok := seq[0].(Atomic); ok && a.IsNumeric() {
			return int(a.Float64()) == position && a.Float64() == float64(int(a.Float64())), nil
		}
	}
	return EffectiveBooleanValue(seq)
}
