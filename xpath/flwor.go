package xpath

import "sort"

// flworTuple is one in-flight variable-binding row as a FLWOR clause
// sequence is evaluated left to right.
type flworTuple struct {
	dc      *DynamicContext
	orderBy []Atomic
}

// ForClause is one `for $var in expr` binding of a FLWOR expression.
type ForClause struct {
	Var       ExpandedName
	PosVar    *ExpandedName // `at $pos`, optional
	Source    Expr
}

// LetClause is one `let $var := expr` binding.
type LetClause struct {
	Var    ExpandedName
	Source Expr
}

// FlworClause is a tagged union over for/let/where/orderby, evaluated
// in declaration order exactly as written (spec.md §4.1 "FLWOR").
type FlworClause struct {
	For   *ForClause
	Let   *LetClause
	Where Expr
	Order []OrderSpec
}

// OrderSpec is one `order by expr (ascending|descending) (empty greatest|least)?` key.
type OrderSpec struct {
	Key        Expr
	Descending bool
	EmptyLeast bool
}

// FlworExpr is `for ... let ... where ... order by ... return ret`.
type FlworExpr struct {
	Clauses []FlworClause
	Return  Expr
}

func (f *FlworExpr) Eval(ev *Evaluator) (Sequence, error) {
	tuples := []flworTuple{{dc: ev.DC}}
	for _, clause := range f.Clauses {
		var next []flworTuple
		switch {
		case clause.For != nil:
			for _, t := range tuples {
				srcEv := ev.With(t.dc)
				seq, err := clause.For.Source.Eval(srcEv)
				if err != nil {
					return nil, err
				}
				for i, it := range seq {
					bound := t.dc.WithVariable(clause.For.Var, Singleton(it))
					if clause.For.PosVar != nil {
						bound = bound.WithVariable(*clause.For.PosVar, Singleton(NewIntegerFromInt64(int64(i+1))))
					}
					next = append(next, flworTuple{dc: bound, orderBy: t.orderBy})
				}
			}
			tuples = next
		case clause.Let != nil:
			for _, t := range tuples {
				srcEv := ev.With(t.dc)
				seq, err := clause.Let.Source.Eval(srcEv)
				if err != nil {
					return nil, err
				}
				bound := t.dc.WithVariable(clause.Let.Var, seq)
				next = append(next, flworTuple{dc: bound, orderBy: t.orderBy})
			}
			tuples = next
		case clause.Where != nil:
			for _, t := range tuples {
				seq, err := clause.Where.Eval(ev.With(t.dc))
				if err != nil {
					return nil, err
				}
				ok, err := EffectiveBooleanValue(seq)
				if err != nil {
					return nil, err
				}
				if ok {
					next = append(next, t)
				}
			}
			tuples = next
		case clause.Order != nil:
			for i := range tuples {
				keys := make([]Atomic, len(clause.Order))
				for k, spec := range clause.Order {
					seq, err := spec.Key.Eval(ev.With(tuples[i].dc))
					if err != nil {
						return nil, err
					}
					if len(seq) == 0 {
						keys[k] = NewUntyped("")
						continue
					}
					a, err := AtomizeOne(seq)
					if err != nil {
						return nil, err
					}
					keys[k] = a
				}
				tuples[i].orderBy = keys
			}
			sort.SliceStable(tuples, func(i, j int) bool {
				return tupleLess(tuples[i].orderBy, tuples[j].orderBy, clause.Order)
			})
		}
	}
	var out Sequence
	for _, t := range tuples {
		v, err := f.Return.Eval(ev.With(t.dc))
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

// tupleLess compares two order-by key vectors left to right, honoring
// each key's ascending/descending direction.
func tupleLess(a, b []Atomic, specs []OrderSpec) bool {
	for i, spec := range specs {
		cmp, err := CompareAtomic(a[i], b[i])
		if err != nil || cmp == CmpEqual {
			continue
		}
		if spec.Descending {
			return cmp == CmpGreater
		}
		return cmp == CmpLess
	}
	return false
}
