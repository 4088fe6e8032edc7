package xpath

// CompareOp enumerates the three comparison families spec.md §4.1
// distinguishes: general (`=`,`!=`,`<`,…, existentially quantified over
// both operand sequences), value (`eq`,`ne`,`lt`,…, requiring singletons),
// and node (`is`, `<<`, `>>`).
type CompareOp int

const (
	OpGeneralEq CompareOp = iota
	OpGeneralNe
	OpGeneralLt
	OpGeneralLe
	OpGeneralGt
	OpGeneralGe
	OpValueEq
	OpValueNe
	OpValueLt
	OpValueLe
	OpValueGt
	OpValueGe
	OpNodeIs
	OpNodePrecedes
	OpNodeFollows
)

func evalCompare(ev *Evaluator, n *CompareExpr) (Sequence, error) {
	switch n.Op {
	case OpNodeIs, OpNodePrecedes, OpNodeFollows:
		return evalNodeCompare(ev, n)
	case OpGeneralEq, OpGeneralNe, OpGeneralLt, OpGeneralLe, OpGeneralGt, OpGeneralGe:
		return evalGeneralCompare(ev, n)
	default:
		return evalValueCompare(ev, n)
	}
}

func evalNodeCompare(ev *Evaluator, n *CompareExpr) (Sequence, error) {
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
	ln, lok := lseq[0].(*Node)
	rn, rok := rseq[0].(*Node)
	if !lok || !rok || len(lseq) != 1 || len(rseq) != 1 {
		return nil, newError(XPTY0004, "node comparison operand is not a single node")
	}
	switch n.Op {
	case OpNodeIs:
		return Singleton(NewBoolean(ln == rn)), nil
	case OpNodePrecedes:
		return Singleton(NewBoolean(CompareDocumentOrder(ln, rn) == CmpLess)), nil
	default:
		return Singleton(NewBoolean(CompareDocumentOrder(ln, rn) == CmpGreater)), nil
	}
}

func evalValueCompare(ev *Evaluator, n *CompareExpr) (Sequence, error) {
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
	return singleCompare(n.Op, la, ra)
}

func singleCompare(op CompareOp, la, ra Atomic) (Sequence, error) {
	cmp, err := CompareAtomic(la, ra)
	if err != nil {
		return nil, err
	}
	if cmp == CmpIncomparable {
		return nil, newError(XPTY0004, "values are not comparable")
	}
	var result bool
	switch op {
	case OpValueEq, OpGeneralEq:
		result = cmp == CmpEqual
	case OpValueNe, OpGeneralNe:
		result = cmp != CmpEqual
	case OpValueLt, OpGeneralLt:
		result = cmp == CmpLess
	case OpValueLe, OpGeneralLe:
		result = cmp == CmpLess || cmp == CmpEqual
	case OpValueGt, OpGeneralGt:
		result = cmp == CmpGreater
	case OpValueGe, OpGeneralGe:
		result = cmp == CmpGreater || cmp == CmpEqual
	}
	return Singleton(NewBoolean(result)), nil
}

// evalGeneralCompare implements general comparison's existential
// semantics: true iff some atomized pair from the two operand
// sequences satisfies the comparison, with untyped atomics promoted
// toward the other side's type before comparing (spec.md §4.1).
func evalGeneralCompare(ev *Evaluator, n *CompareExpr) (Sequence, error) {
	lseq, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	rseq, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}
	latoms, err := Atomize(lseq)
	if err != nil {
		return nil, err
	}
	ratoms, err := Atomize(rseq)
	if err != nil {
		return nil, err
	}
	for _, lv := range latoms {
		la := lv.(Atomic)
		for _, rv := range ratoms {
			ra := rv.(Atomic)
			pla, pra := generalPromote(la, ra)
			res, err := singleCompare(n.Op, pla, pra)
			if err != nil {
				continue
			}
			if b, _ := res.AsSingleton(); b != nil && b.(Atomic).b {
				return Singleton(NewBoolean(true)), nil
			}
		}
	}
	return Singleton(NewBoolean(false)), nil
}

// generalPromote applies the untypedAtomic-coerces-to-the-other-operand's-type
// rule used only by general comparison (value comparison never does this).
func generalPromote(la, ra Atomic) (Atomic, Atomic) {
	if la.Type == TypeUntypedAtomic && ra.Type != TypeUntypedAtomic {
		if p, err := ParseAtomic(la.str, ra.Type); err == nil {
			la = p
		}
	} else if ra.Type == TypeUntypedAtomic && la.Type != TypeUntypedAtomic {
		if p, err := ParseAtomic(ra.str, la.Type); err == nil {
			ra = p
		}
	}
	return la, ra
}
