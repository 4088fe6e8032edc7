package xpath

// registerV2 layers the XPath 2.0 additions onto the 1.0 grammar: value
// comparison (`eq`/`ne`/`lt`/`le`/`gt`/`ge`), the `to` range operator,
// `if`/`then`/`else`, `for`/`let`/`some`/`every` FLWOR-style
// expressions, and the sequence-type operators (`instance of`,
// `treat as`, `castable as`, `cast as`). Node comparison (`is`, `<<`,
// `>>`) is also a 2.0 addition, layered here rather than in v1.
func registerV2(t *SymbolTable) {
	registerKeywordV1(t, "eq", lbpCompare, ledValueCompareMaker(OpValueEq))
	registerKeywordV1(t, "ne", lbpCompare, ledValueCompareMaker(OpValueNe))
	registerKeywordV1(t, "lt", lbpCompare, ledValueCompareMaker(OpValueLt))
	registerKeywordV1(t, "le", lbpCompare, ledValueCompareMaker(OpValueLe))
	registerKeywordV1(t, "gt", lbpCompare, ledValueCompareMaker(OpValueGt))
	registerKeywordV1(t, "ge", lbpCompare, ledValueCompareMaker(OpValueGe))
	registerKeywordV1(t, "is", lbpCompare, ledNodeCompareMaker(OpNodeIs))
	registerKeywordV1(t, "<<", lbpCompare, ledNodeCompareMaker(OpNodePrecedes))
	registerKeywordV1(t, ">>", lbpCompare, ledNodeCompareMaker(OpNodeFollows))

	registerKeywordV1(t, "to", lbpRange, ledRange)

	registerKeywordV1(t, "intersect", lbpIntersectExcept, ledIntersectExceptMaker(false))
	registerKeywordV1(t, "except", lbpIntersectExcept, ledIntersectExceptMaker(true))
	registerKeywordV1(t, "union", lbpUnion, ledUnion)

	registerKeywordV1(t, "instance", lbpPath, ledInstanceOf)
	registerKeywordV1(t, "treat", lbpPath, ledTreatAs)
	registerKeywordV1(t, "castable", lbpPath, ledCastableAs)
	registerKeywordV1(t, "cast", lbpPath, ledCastAs)

	registerNudKeyword(t, "if", nudIf)
	registerNudKeyword(t, "for", nudFor)
	registerNudKeyword(t, "let", nudFor)
	registerNudKeyword(t, "some", nudQuantified(false))
	registerNudKeyword(t, "every", nudQuantified(true))
}

func ledValueCompareMaker(op CompareOp) func(p *Parser, left Expr) (Expr, error) {
	return func(p *Parser, left Expr) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.expression(lbpCompare)
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Op: op, Left: left, Right: right}, nil
	}
}

func ledNodeCompareMaker(op CompareOp) func(p *Parser, left Expr) (Expr, error) {
	return func(p *Parser, left Expr) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.expression(lbpCompare)
		if err != nil {
			return nil, err
		}
		return &CompareExpr{Op: op, Left: left, Right: right}, nil
	}
}

func ledRange(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expression(lbpRange)
	if err != nil {
		return nil, err
	}
	return &RangeExpr{Lo: left, Hi: right}, nil
}

func ledIntersectExceptMaker(except bool) func(p *Parser, left Expr) (Expr, error) {
	return func(p *Parser, left Expr) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.expression(lbpIntersectExcept)
		if err != nil {
			return nil, err
		}
		return &IntersectExceptExpr{Except: except, Left: left, Right: right}, nil
	}
}

func ledInstanceOf(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("of"); err != nil {
		return nil, err
	}
	t, err := parseSequenceType(p)
	if err != nil {
		return nil, err
	}
	return &InstanceOfExpr{Operand: left, Type: t}, nil
}

func ledTreatAs(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	t, err := parseSequenceType(p)
	if err != nil {
		return nil, err
	}
	return &TreatAsExpr{Operand: left, Type: t}, nil
}

func ledCastableAs(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	typ, optional, err := parseSingleAtomicType(p)
	if err != nil {
		return nil, err
	}
	return &CastableExpr{Operand: left, Target: typ, Optional: optional}, nil
}

func ledCastAs(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("as"); err != nil {
		return nil, err
	}
	typ, optional, err := parseSingleAtomicType(p)
	if err != nil {
		return nil, err
	}
	return &CastExpr{Operand: left, Target: typ, Optional: optional}, nil
}

// parseSingleAtomicType parses `xs:name` or `prefix:name` optionally
// followed by `?`, the type-name grammar `cast as`/`castable as` use
// (a single atomic type, never a full SequenceType).
func parseSingleAtomicType(p *Parser) (AtomicType, bool, error) {
	tok, err := p.expect(TokName, "type name")
	if err != nil {
		return "", false, err
	}
	name, err := p.resolveQName(tok.Text, "")
	if err != nil {
		return "", false, err
	}
	typ, ok := p.static.TypeRegistry.Resolve(name)
	if !ok {
		return "", false, newError(XPST0051, "unknown atomic type %s", name.Local)
	}
	optional := false
	if p.cur.Type == TokQuestion {
		optional = true
		if err := p.advance(); err != nil {
			return "", false, err
		}
	}
	return typ, optional, nil
}

// parseSequenceType parses the full `ItemType Occurrence?` production
// used by `instance of`/`treat as`/function signatures.
func parseSequenceType(p *Parser) (SequenceType, error) {
	if p.atKeyword("empty-sequence") && p.peekIsLParen() {
		if err := p.advance(); err != nil {
			return SequenceType{}, err
		}
		if _, err := p.expect(TokLParen, "("); err != nil {
			return SequenceType{}, err
		}
		if _, err := p.expect(TokRParen, ")"); err != nil {
			return SequenceType{}, err
		}
		return SequenceType{IsEmptySeq: true}, nil
	}
	it, err := parseItemType(p)
	if err != nil {
		return SequenceType{}, err
	}
	occ := OccurrenceOne
	switch p.cur.Type {
	case TokQuestion:
		occ = OccurrenceOptional
		if err := p.advance(); err != nil {
			return SequenceType{}, err
		}
	case TokStar:
		occ = OccurrenceZeroOrMore
		if err := p.advance(); err != nil {
			return SequenceType{}, err
		}
	case TokPlus:
		occ = OccurrenceOneOrMore
		if err := p.advance(); err != nil {
			return SequenceType{}, err
		}
	}
	return SequenceType{Item: it, Occurrence: occ}, nil
}

func parseItemType(p *Parser) (ItemType, error) {
	if p.atKeyword("item") && p.peekIsLParen() {
		if err := p.advance(); err != nil {
			return ItemType{}, err
		}
		if _, err := p.expect(TokLParen, "("); err != nil {
			return ItemType{}, err
		}
		if _, err := p.expect(TokRParen, ")"); err != nil {
			return ItemType{}, err
		}
		return ItemType{Kind: ItemTypeAny}, nil
	}
	if p.cur.Type == TokName {
		if kind, ok := kindTestOf(p.cur.Text); ok && p.peekIsLParen() {
			if err := p.advance(); err != nil {
				return ItemType{}, err
			}
			if _, err := p.expect(TokLParen, "("); err != nil {
				return ItemType{}, err
			}
			if _, err := p.expect(TokRParen, ")"); err != nil {
				return ItemType{}, err
			}
			if kind == nil {
				return ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, nil
			}
			return ItemType{Kind: ItemTypeNodeKind, NodeKind: *kind}, nil
		}
	}
	typ, _, err := parseSingleAtomicType(p)
	if err != nil {
		return ItemType{}, err
	}
	return ItemType{Kind: ItemTypeAtomic, AtomicType: typ}, nil
}

func nudIf(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	cond, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	if err := p.expectKeyword("then"); err != nil {
		return nil, err
	}
	thenExpr, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if err := p.expectKeyword("else"); err != nil {
		return nil, err
	}
	elseExpr, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	return &IfExpr{Cond: cond, Then: thenExpr, Else: elseExpr}, nil
}

// nudFor parses both `for $v in e, $v2 in e2 return r` and
// `let $v := e, $v2 := e2 return r`, dispatching on which keyword
// started the clause list (the two share identical comma-separated
// binding-list structure and only differ in the `in`/`:=` separator
// and whether position variables are legal).
func nudFor(p *Parser) (Expr, error) {
	isFor := p.cur.Text == "for"
	var clauses []FlworClause
	for {
		if err := p.advance(); err != nil { // consume `for`/`let`, or `,` on repeat
			return nil, err
		}
		if _, err := p.expect(TokDollar, "$"); err != nil {
			return nil, err
		}
		nameTok, err := p.expect(TokName, "variable name")
		if err != nil {
			return nil, err
		}
		name, err := p.resolveQName(nameTok.Text, "")
		if err != nil {
			return nil, err
		}
		if isFor {
			var posVar *ExpandedName
			if p.atKeyword("at") {
				if err := p.advance(); err != nil {
					return nil, err
				}
				if _, err := p.expect(TokDollar, "$"); err != nil {
					return nil, err
				}
				posTok, err := p.expect(TokName, "position variable name")
				if err != nil {
					return nil, err
				}
				pv, err := p.resolveQName(posTok.Text, "")
				if err != nil {
					return nil, err
				}
				posVar = &pv
			}
			if err := p.expectKeyword("in"); err != nil {
				return nil, err
			}
			src, err := p.expression(lbpOr)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, FlworClause{For: &ForClause{Var: name, PosVar: posVar, Source: src}})
		} else {
			if _, err := p.expect(TokAssign, ":="); err != nil {
				return nil, err
			}
			src, err := p.expression(lbpOr)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, FlworClause{Let: &LetClause{Var: name, Source: src}})
		}
		if p.cur.Type == TokComma {
			continue
		}
		break
	}
	for p.atKeyword("where") || p.atKeyword("order") {
		if p.atKeyword("where") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			cond, err := p.expression(lbpOr)
			if err != nil {
				return nil, err
			}
			clauses = append(clauses, FlworClause{Where: cond})
			continue
		}
		specs, err := parseOrderBy(p)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, FlworClause{Order: specs})
	}
	if err := p.expectKeyword("return"); err != nil {
		return nil, err
	}
	ret, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	return &FlworExpr{Clauses: clauses, Return: ret}, nil
}

func parseOrderBy(p *Parser) ([]OrderSpec, error) {
	if err := p.advance(); err != nil { // consume `order`
		return nil, err
	}
	if err := p.expectKeyword("by"); err != nil {
		return nil, err
	}
	var specs []OrderSpec
	for {
		key, err := p.expression(lbpOr)
		if err != nil {
			return nil, err
		}
		spec := OrderSpec{Key: key}
		if p.atKeyword("descending") {
			spec.Descending = true
			if err := p.advance(); err != nil {
				return nil, err
			}
		} else if p.atKeyword("ascending") {
			if err := p.advance(); err != nil {
				return nil, err
			}
		}
		specs = append(specs, spec)
		if p.cur.Type == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	return specs, nil
}

func nudQuantified(every bool) func(p *Parser) (Expr, error) {
	return func(p *Parser) (Expr, error) {
		q := &QuantifiedExpr{Every: every}
		for {
			if err := p.advance(); err != nil { // consume `some`/`every`, or `,`
				return nil, err
			}
			if _, err := p.expect(TokDollar, "$"); err != nil {
				return nil, err
			}
			nameTok, err := p.expect(TokName, "variable name")
			if err != nil {
				return nil, err
			}
			name, err := p.resolveQName(nameTok.Text, "")
			if err != nil {
				return nil, err
			}
			if err := p.expectKeyword("in"); err != nil {
				return nil, err
			}
			src, err := p.expression(lbpOr)
			if err != nil {
				return nil, err
			}
			q.Vars = append(q.Vars, name)
			q.Sources = append(q.Sources, src)
			if p.cur.Type == TokComma {
				continue
			}
			break
		}
		if err := p.expectKeyword("satisfies"); err != nil {
			return nil, err
		}
		sat, err := p.expression(lbpOr)
		if err != nil {
			return nil, err
		}
		q.Satisfies = sat
		return q, nil
	}
}
