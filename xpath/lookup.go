package xpath

// LookupExpr implements postfix `?key`, `?1`, `?*`, and `?(expr)` applied
// to an arbitrary primary expression (XPath 3.1 "unary lookup" and
// "postfix lookup", spec.md §4.1). KeyExpr nil with Wildcard false and
// NCName empty means the parenthesized-expression form `?(expr)`.
type LookupExpr struct {
	Base     Expr
	Wildcard bool
	NCName   string
	Index    *int
	KeyExpr  Expr
}

func (n *LookupExpr) Eval(ev *Evaluator) (Sequence, error) {
	base, err := n.Base.Eval(ev)
	if err != nil {
		return nil, err
	}
	var out Sequence
	for _, it := range base {
		vals, err := lookupOne(ev, it, n)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

func lookupOne(ev *Evaluator, it Item, n *LookupExpr) (Sequence, error) {
	switch v := it.(type) {
	case *MapItem:
		if n.Wildcard {
			var out Sequence
			v.ForEach(func(k Atomic, val Sequence) bool { out = append(out, val...); return true })
			return out, nil
		}
		key, err := lookupKey(ev, v, n)
		if err != nil {
			return nil, err
		}
		val, _ := v.Get(key)
		return val, nil
	case *ArrayItem:
		if n.Wildcard {
			var out Sequence
			for _, m := range v.Members {
				out = append(out, m...)
			}
			return out, nil
		}
		pos, err := lookupArrayIndex(ev, n)
		if err != nil {
			return nil, err
		}
		return v.Get(pos)
	default:
		return nil, newError(XPTY0004, "lookup operator applied to a %s item", it.Kind())
	}
}

func lookupKey(ev *Evaluator, m *MapItem, n *LookupExpr) (Atomic, error) {
	if n.NCName != "" {
		return NewString(n.NCName), nil
	}
	if n.Index != nil {
		return NewIntegerFromInt64(int64(*n.Index)), nil
	}
	seq, err := n.KeyExpr.Eval(ev)
	if err != nil {
		return Atomic{}, err
	}
	return AtomizeOne(seq)
}

func lookupArrayIndex(ev *Evaluator, n *LookupExpr) (int, error) {
	if n.Index != nil {
		return *n.Index, nil
	}
	seq, err := n.KeyExpr.Eval(ev)
	if err != nil {
		return 0, err
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return 0, err
	}
	return int(a.BigInt().Int64()), nil
}

// MapConstructorExpr is `map { key1: val1, ... }`.
type MapConstructorExpr struct {
	Keys   []Expr
	Values []Expr
}

func (n *MapConstructorExpr) Eval(ev *Evaluator) (Sequence, error) {
	m := NewMapItem()
	for i := range n.Keys {
		kseq, err := n.Keys[i].Eval(ev)
		if err != nil {
			return nil, err
		}
		k, err := AtomizeOne(kseq)
		if err != nil {
			return nil, err
		}
		v, err := n.Values[i].Eval(ev)
		if err != nil {
			return nil, err
		}
		m.Put(k, v)
	}
	return Singleton(m), nil
}

// ArrayConstructorExpr is `[e1, e2, ...]` (square form) or
// `array { expr }` (curly form, where Curly flattens expr's sequence
// members into one member each).
type ArrayConstructorExpr struct {
	Members []Expr
	Curly   bool
}

func (n *ArrayConstructorExpr) Eval(ev *Evaluator) (Sequence, error) {
	arr := NewArrayItem()
	if n.Curly {
		if len(n.Members) == 1 {
			seq, err := n.Members[0].Eval(ev)
			if err != nil {
				return nil, err
			}
			for _, it := range seq {
				arr = arr.Append(Singleton(it))
			}
		}
		return Singleton(arr), nil
	}
	for _, m := range n.Members {
		seq, err := m.Eval(ev)
		if err != nil {
			return nil, err
		}
		arr = arr.Append(seq)
	}
	return Singleton(arr), nil
}

// QuantifiedExpr is `some $v in seq satisfies pred` / `every ...`.
type QuantifiedExpr struct {
	Every    bool
	Vars     []ExpandedName
	Sources  []Expr
	Satisfies Expr
}

func (n *QuantifiedExpr) Eval(ev *Evaluator) (Sequence, error) {
	result, err := quantifyRec(ev, n, 0, ev.DC)
	if err != nil {
		return nil, err
	}
	return Singleton(NewBoolean(result)), nil
}

func quantifyRec(ev *Evaluator, n *QuantifiedExpr, i int, dc *DynamicContext) (bool, error) {
	if i == len(n.Vars) {
		seq, err := n.Satisfies.Eval(ev.With(dc))
		if err != nil {
			return false, err
		}
		return EffectiveBooleanValue(seq)
	}
	seq, err := n.Sources[i].Eval(ev.With(dc))
	if err != nil {
		return false, err
	}
	for _, it := range seq {
		bound := dc.WithVariable(n.Vars[i], Singleton(it))
		ok, err := quantifyRec(ev, n, i+1, bound)
		if err != nil {
			return false, err
		}
		if ok && !n.Every {
			return true, nil
		}
		if !ok && n.Every {
			return false, nil
		}
	}
	return n.Every, nil
}
