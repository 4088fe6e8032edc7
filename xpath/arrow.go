package xpath

// ArrowExpr is `base => target(args...)` (XPath 3.1 "simple map/arrow
// operator"): target is either a named function (resolved at parse time
// to a FunctionCall-shaped name+arity) or an arbitrary expression
// evaluating to a function item. Either way the arrow-call is sugar for
// calling target with base prepended as its first argument.
type ArrowExpr struct {
	Base   Expr
	Name   *ExpandedName // non-nil for the named-function-call form
	Callee Expr          // non-nil for the dynamic/var-ref form
	Args   []Expr
}

func (n *ArrowExpr) Eval(ev *Evaluator) (Sequence, error) {
	baseVal, err := n.Base.Eval(ev)
	if err != nil {
		return nil, err
	}
	args := make([]Sequence, len(n.Args)+1)
	args[0] = baseVal
	for i, a := range n.Args {
		v, err := a.Eval(ev)
		if err != nil {
			return nil, err
		}
		args[i+1] = v
	}
	if n.Name != nil {
		fn, err := ev.DC.Static.Functions.Lookup(*n.Name, len(args))
		if err != nil {
			return nil, err
		}
		return fn.Invoke(ev, args)
	}
	cseq, err := n.Callee.Eval(ev)
	if err != nil {
		return nil, err
	}
	it, ok := cseq.AsSingleton()
	if !ok {
		return nil, newError(XPTY0004, "arrow target is not a single function item")
	}
	fn, ok := it.(*FuncItem)
	if !ok {
		return nil, newError(XPTY0004, "%s item is not callable", it.Kind())
	}
	return fn.Invoke(ev, args)
}

// SimpleMapExpr is `base ! expr`, evaluating expr once per item of base
// with that item as focus and concatenating the results (spec.md §4.1).
type SimpleMapExpr struct {
	Base, Per Expr
}

func (n *SimpleMapExpr) Eval(ev *Evaluator) (Sequence, error) {
	base, err := n.Base.Eval(ev)
	if err != nil {
		return nil, err
	}
	var out Sequence
	size := len(base)
	for i, it := range base {
		subDC := ev.DC.withFocus(FocusFrame{Item: it, Position: i + 1, Size: size})
		v, err := n.Per.Eval(ev.With(subDC))
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}
