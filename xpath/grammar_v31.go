package xpath

// registerV31 layers the XPath 3.1 additions: map constructors
// (`map { ... }`), array constructors (`[ ... ]` and `array { ... }`),
// and the lookup operator (`?key`, `?1`, `?*`, `?(expr)`) in both its
// unary (nud) and postfix (led) forms.
func registerV31(t *SymbolTable) {
	registerNudKeyword(t, "map", nudMapOrArrayCurly(true))
	registerNudKeyword(t, "array", nudMapOrArrayCurly(false))
	t.define(&Symbol{Token: "[", Nud: nudSquareArray, Led: ledSquareArrayLookup, Lbp: lbpLookup})
	t.define(&Symbol{Token: "?", Nud: nudUnaryLookup, Led: ledPostfixLookup, Lbp: lbpLookup})
}

func nudMapOrArrayCurly(isMap bool) func(p *Parser) (Expr, error) {
	return func(p *Parser) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokLBrace, "{"); err != nil {
			return nil, err
		}
		if isMap {
			ctor := &MapConstructorExpr{}
			for p.cur.Type != TokRBrace {
				key, err := p.expression(lbpOr)
				if err != nil {
					return nil, err
				}
				if _, err := p.expect(TokColon, ":"); err != nil {
					return nil, err
				}
				val, err := p.expression(lbpOr)
				if err != nil {
					return nil, err
				}
				ctor.Keys = append(ctor.Keys, key)
				ctor.Values = append(ctor.Values, val)
				if p.cur.Type == TokComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if _, err := p.expect(TokRBrace, "}"); err != nil {
				return nil, err
			}
			return ctor, nil
		}
		var expr Expr
		if p.cur.Type != TokRBrace {
			var err error
			expr, err = p.expression(0)
			if err != nil {
				return nil, err
			}
		} else {
			expr = &SequenceExpr{}
		}
		if _, err := p.expect(TokRBrace, "}"); err != nil {
			return nil, err
		}
		return &ArrayConstructorExpr{Members: []Expr{expr}, Curly: true}, nil
	}
}

func nudSquareArray(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	ctor := &ArrayConstructorExpr{}
	for p.cur.Type != TokRBracket {
		m, err := p.expression(lbpOr)
		if err != nil {
			return nil, err
		}
		ctor.Members = append(ctor.Members, m)
		if p.cur.Type == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRBracket, "]"); err != nil {
		return nil, err
	}
	return ctor, nil
}

// ledSquareArrayLookup exists only so `[` registered for the square
// array constructor does not shadow ordinary path predicates: path
// predicates are consumed directly inside continuePath/parseStep
// before the generic Pratt loop ever sees a trailing `[`, so this Led
// is reached only for a bracket immediately following a non-step
// primary, which in the 3.1 grammar is the array constructor's own
// postfix lookup form `$arr[[1]]`-style nesting; treat it as a filter.
func ledSquareArrayLookup(p *Parser, left Expr) (Expr, error) {
	return ledPredicate(p, left)
}

func nudUnaryLookup(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return parseLookupTail(p, &ContextItemExpr{})
}

func ledPostfixLookup(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return parseLookupTail(p, left)
}

func parseLookupTail(p *Parser, base Expr) (Expr, error) {
	switch p.cur.Type {
	case TokStar:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LookupExpr{Base: base, Wildcard: true}, nil
	case TokName:
		name := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &LookupExpr{Base: base, NCName: name}, nil
	case TokNumber:
		text := p.cur.Text
		if err := p.advance(); err != nil {
			return nil, err
		}
		idx := 0
		for _, c := range text {
			if c < '0' || c > '9' {
				break
			}
			idx = idx*10 + int(c-'0')
		}
		return &LookupExpr{Base: base, Index: &idx}, nil
	case TokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		keyExpr, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRParen, ")"); err != nil {
			return nil, err
		}
		return &LookupExpr{Base: base, KeyExpr: keyExpr}, nil
	}
	return nil, newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)}, "expected a lookup key after '?'")
}
