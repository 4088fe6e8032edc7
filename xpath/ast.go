package xpath

// Expr is one node of the immutable expression tree a successful Parse
// produces. There is no bytecode layer (see DESIGN.md on why the
// pack's VM-style approach was rejected): evaluation walks this tree
// directly, each node's Eval stepping the DynamicContext as needed.
type Expr interface {
	Eval(ev *Evaluator) (Sequence, error)
}

// Literal is a parsed numeric or string literal token.
type Literal struct {
	Value Atomic
}

func (l *Literal) Eval(ev *Evaluator) (Sequence, error) { return Singleton(l.Value), nil }

// ContextItemExpr is the `.` expression.
type ContextItemExpr struct{}

func (c *ContextItemExpr) Eval(ev *Evaluator) (Sequence, error) {
	it, err := ev.DC.ContextItem()
	if err != nil {
		return nil, err
	}
	return Singleton(it), nil
}

// VarRef is a `$name` reference.
type VarRef struct {
	Name ExpandedName
}

func (v *VarRef) Eval(ev *Evaluator) (Sequence, error) {
	val, ok := ev.DC.Variables[v.Name]
	if !ok {
		return nil, newError(XPST0008, "undeclared variable $%s", v.Name.Local)
	}
	return val, nil
}

// SequenceExpr is a parenthesized comma-separated expression list.
type SequenceExpr struct {
	Items []Expr
}

func (s *SequenceExpr) Eval(ev *Evaluator) (Sequence, error) {
	var out Sequence
	for _, e := range s.Items {
		v, err := e.Eval(ev)
		if err != nil {
			return nil, err
		}
		out = append(out, v...)
	}
	return out, nil
}

// RangeExpr is `lhs to rhs`.
type RangeExpr struct{ Lo, Hi Expr }

func (r *RangeExpr) Eval(ev *Evaluator) (Sequence, error) {
	lo, err := evalOneInteger(ev, r.Lo)
	if err != nil {
		return nil, err
	}
	hi, err := evalOneInteger(ev, r.Hi)
	if err != nil {
		return nil, err
	}
	if hi < lo {
		return Empty, nil
	}
	out := make(Sequence, 0, hi-lo+1)
	for i := lo; i <= hi; i++ {
		out = append(out, NewIntegerFromInt64(i))
	}
	return out, nil
}

func evalOneInteger(ev *Evaluator, e Expr) (int64, error) {
	seq, err := e.Eval(ev)
	if err != nil {
		return 0, err
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return 0, err
	}
	if a.Type == TypeUntypedAtomic {
		if p, perr := ParseAtomic(a.str, TypeInteger); perr == nil {
			a = p
		}
	}
	return a.BigInt().Int64(), nil
}

// IfExpr is `if (cond) then t else e`.
type IfExpr struct{ Cond, Then, Else Expr }

func (n *IfExpr) Eval(ev *Evaluator) (Sequence, error) {
	cseq, err := n.Cond.Eval(ev)
	if err != nil {
		return nil, err
	}
	b, err := EffectiveBooleanValue(cseq)
	if err != nil {
		return nil, err
	}
	if b {
		return n.Then.Eval(ev)
	}
	return n.Else.Eval(ev)
}

// BinaryLogic implements `and`/`or` with short-circuit EBV coercion.
type BinaryLogic struct {
	And         bool
	Left, Right Expr
}

func (n *BinaryLogic) Eval(ev *Evaluator) (Sequence, error) {
	l, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	lb, err := EffectiveBooleanValue(l)
	if err != nil {
		return nil, err
	}
	if n.And && !lb {
		return Singleton(NewBoolean(false)), nil
	}
	if !n.And && lb {
		return Singleton(NewBoolean(true)), nil
	}
	r, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}
	rb, err := EffectiveBooleanValue(r)
	if err != nil {
		return nil, err
	}
	return Singleton(NewBoolean(rb)), nil
}

// ArithExpr is a binary `+ - * div idiv mod` expression over atomized,
// empty-propagating operands (spec.md §4.3's arithmetic rules).
type ArithExpr struct {
	Op          ArithOp
	Left, Right Expr
}

func (n *ArithExpr) Eval(ev *Evaluator) (Sequence, error) {
	lseq, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}
	if len(lseq) == 0 || len(rseq) == 0 {
		return Empty, nil
	}
	la, err := AtomizeOne(lseq)
	if err != nil {
		return nil, err
	}
	ra, err := AtomizeOne(rseq)
	if err != nil {
		return nil, err
	}
	res, err := Arith(n.Op, la, ra)
	if err != nil {
		return nil, err
	}
	return Singleton(res), nil
}

// UnaryMinus negates a numeric operand.
type UnaryMinus struct{ Operand Expr }

func (n *UnaryMinus) Eval(ev *Evaluator) (Sequence, error) {
	seq, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		return Empty, nil
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return nil, err
	}
	zero := NewIntegerFromInt64(0)
	res, err := Arith(OpSub, zero, a)
	if err != nil {
		return nil, err
	}
	return Singleton(res), nil
}

// CompareExpr is a general, value, or node comparison (`=`, `eq`, `is`,
// `<<`, …), dispatched in compare.go.
type CompareExpr struct {
	Op          CompareOp
	Left, Right Expr
}

func (n *CompareExpr) Eval(ev *Evaluator) (Sequence, error) {
	return evalCompare(ev, n)
}

// FunctionCall is a static function call resolved at parse time to a
// name+arity pair; the callee itself is looked up at evaluation so that
// user functions declared later in a prolog still resolve.
type FunctionCall struct {
	Name ExpandedName
	Args []Expr
}

func (n *FunctionCall) Eval(ev *Evaluator) (Sequence, error) {
	fn, err := ev.DC.Static.Functions.Lookup(n.Name, len(n.Args))
	if err != nil {
		return nil, err
	}
	args := make([]Sequence, len(n.Args))
	for i, a := range n.Args {
		v, err := a.Eval(ev)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	return fn.Invoke(ev, args)
}

// NamedFunctionRef is `name#arity` producing a FuncItem without calling it.
type NamedFunctionRef struct {
	Name  ExpandedName
	Arity int
}

func (n *NamedFunctionRef) Eval(ev *Evaluator) (Sequence, error) {
	fn, err := ev.DC.Static.Functions.Lookup(n.Name, n.Arity)
	if err != nil {
		return nil, err
	}
	return Singleton(fn), nil
}

// InlineFunctionExpr is an XPath 3.0 `function($a, $b) { body }` literal.
type InlineFunctionExpr struct {
	Params []ExpandedName
	Types  []SequenceType
	Return SequenceType
	Body   Expr
}

func (n *InlineFunctionExpr) Eval(ev *Evaluator) (Sequence, error) {
	closureDC := ev.DC
	fi := &FuncItem{
		Arity:  len(n.Params),
		Params: n.Types,
		Return: n.Return,
		Call: func(inner *Evaluator, args []Sequence) (Sequence, error) {
			dc := closureDC
			for i, p := range n.Params {
				dc = dc.WithVariable(p, args[i])
			}
			sub := &Evaluator{DC: dc, Ctx: inner.Ctx}
			return n.Body.Eval(sub)
		},
	}
	return Singleton(fi), nil
}

// DynamicFunctionCall applies an expression that evaluates to a
// function item, e.g. `$f(1, 2)` or a partial application callsite.
type DynamicFunctionCall struct {
	Callee Expr
	Args   []Expr // nil entry position means `?` placeholder
}

func (n *DynamicFunctionCall) Eval(ev *Evaluator) (Sequence, error) {
	cseq, err := n.Callee.Eval(ev)
	if err != nil {
		return nil, err
	}
	it, ok := cseq.AsSingleton()
	if !ok {
		return nil, newError(XPTY0004, "dynamic function call target is not a single function item")
	}
	fn, ok := it.(*FuncItem)
	if !ok {
		return nil, newError(XPTY0004, "%s item is not callable", it.Kind())
	}
	hasHole := false
	rawArgs := make([]any, len(n.Args))
	for i, a := range n.Args {
		if a == nil {
			hasHole = true
			rawArgs[i] = Placeholder()
			continue
		}
		v, err := a.Eval(ev)
		if err != nil {
			return nil, err
		}
		rawArgs[i] = v
	}
	if hasHole {
		return Singleton(PartialApply(fn, rawArgs)), nil
	}
	args := make([]Sequence, len(rawArgs))
	for i, v := range rawArgs {
		args[i] = v.(Sequence)
	}
	return fn.Invoke(ev, args)
}

// FilterExpr is `primary[predicate]*` applied to a non-path primary
// (a sequence, parenthesized expression, or variable) per spec.md §4.1.
type FilterExpr struct {
	Base       Expr
	Predicates []Expr
}

func (n *FilterExpr) Eval(ev *Evaluator) (Sequence, error) {
	base, err := n.Base.Eval(ev)
	if err != nil {
		return nil, err
	}
	for _, pred := range n.Predicates {
		base, err = applyPredicate(ev, base, pred)
		if err != nil {
			return nil, err
		}
	}
	return base, nil
}

// InstanceOfExpr implements `expr instance of SequenceType`.
type InstanceOfExpr struct {
	Operand Expr
	Type    SequenceType
}

func (n *InstanceOfExpr) Eval(ev *Evaluator) (Sequence, error) {
	seq, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	return Singleton(NewBoolean(InstanceOf(seq, n.Type))), nil
}

// TreatAsExpr implements `expr treat as SequenceType` (XPDY0050 on mismatch).
type TreatAsExpr struct {
	Operand Expr
	Type    SequenceType
}

func (n *TreatAsExpr) Eval(ev *Evaluator) (Sequence, error) {
	seq, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	if !InstanceOf(seq, n.Type) {
		return nil, newError(XPDY0050, "treat as: dynamic type does not match declared sequence type")
	}
	return seq, nil
}

// CastExpr implements `expr cast as type?`.
type CastExpr struct {
	Operand    Expr
	Target     AtomicType
	Optional   bool
}

func (n *CastExpr) Eval(ev *Evaluator) (Sequence, error) {
	seq, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		if n.Optional {
			return Empty, nil
		}
		return nil, newError(XPTY0004, "cast as: empty sequence cannot be cast to a non-optional type")
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return nil, err
	}
	cast, err := Promote(a, n.Target)
	if err != nil {
		if a.Type == TypeUntypedAtomic || a.Type == TypeString {
			parsed, perr := ParseAtomic(a.StringValue(), n.Target)
			if perr != nil {
				return nil, newError(FORG0001, "cannot cast %q to %s: %v", a.StringValue(), n.Target, perr)
			}
			return Singleton(parsed), nil
		}
		return nil, err
	}
	return Singleton(cast), nil
}

// CastableExpr implements `expr castable as type?`, never raising an
// error itself: it reports success as a boolean.
type CastableExpr struct {
	Operand  Expr
	Target   AtomicType
	Optional bool
}

func (n *CastableExpr) Eval(ev *Evaluator) (Sequence, error) {
	seq, err := n.Operand.Eval(ev)
	if err != nil {
		return nil, err
	}
	if len(seq) == 0 {
		return Singleton(NewBoolean(n.Optional)), nil
	}
	if len(seq) > 1 {
		return Singleton(NewBoolean(false)), nil
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return Singleton(NewBoolean(false)), nil
	}
	ok := Castable(a.StringValue(), n.Target)
	return Singleton(NewBoolean(ok)), nil
}
