package xpath

// registerV3 layers the XPath 3.0 additions: the arrow operator `=>`,
// the simple map operator `!`, named function references `name#arity`,
// and inline function expressions `function($a) as xs:integer { ... }`.
func registerV3(t *SymbolTable) {
	t.define(&Symbol{Token: "=>", Led: ledArrow, Lbp: lbpArrow})
	t.define(&Symbol{Token: "!", Led: ledSimpleMap, Lbp: lbpSimpleMap})
	t.define(&Symbol{Token: "#", Led: ledNamedFunctionRef, Lbp: lbpArrow})
	registerNudKeyword(t, "function", nudInlineFunction)
}

func ledArrow(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type == TokDollar {
		callee, err := nudVarRef(p)
		if err != nil {
			return nil, err
		}
		args, err := parseArgList(p)
		if err != nil {
			return nil, err
		}
		return &ArrowExpr{Base: left, Callee: callee, Args: args}, nil
	}
	tok, err := p.expect(TokName, "function name")
	if err != nil {
		return nil, err
	}
	name, err := p.resolveQName(tok.Text, p.static.DefaultFunctionNamespace)
	if err != nil {
		return nil, err
	}
	args, err := parseArgList(p)
	if err != nil {
		return nil, err
	}
	return &ArrowExpr{Base: left, Name: &name, Args: args}, nil
}

func ledSimpleMap(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expression(lbpSimpleMap)
	if err != nil {
		return nil, err
	}
	return &SimpleMapExpr{Base: left, Per: right}, nil
}

func ledNamedFunctionRef(p *Parser, left Expr) (Expr, error) {
	step, ok := left.(*PathExpr)
	var name ExpandedName
	if ok && len(step.Steps) == 1 {
		if se, ok := step.Steps[0].(*StepExpr); ok && se.Test.Name != nil {
			name = *se.Test.Name
		}
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	tok, err := p.expect(TokNumber, "arity")
	if err != nil {
		return nil, err
	}
	var arity int
	for _, c := range tok.Text {
		arity = arity*10 + int(c-'0')
	}
	return &NamedFunctionRef{Name: name, Arity: arity}, nil
}

func nudInlineFunction(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var params []ExpandedName
	var types []SequenceType
	for p.cur.Type != TokRParen {
		if _, err := p.expect(TokDollar, "$"); err != nil {
			return nil, err
		}
		tok, err := p.expect(TokName, "parameter name")
		if err != nil {
			return nil, err
		}
		name, err := p.resolveQName(tok.Text, "")
		if err != nil {
			return nil, err
		}
		typ := AnyItemZeroOrMore
		if p.cur.Type == TokName && p.cur.Text == "as" {
			if err := p.advance(); err != nil {
				return nil, err
			}
			typ, err = parseSequenceType(p)
			if err != nil {
				return nil, err
			}
		}
		params = append(params, name)
		types = append(types, typ)
		if p.cur.Type == TokComma {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		break
	}
	if _, err := p.expect(TokRParen, ")"); err != nil {
		return nil, err
	}
	ret := AnyItemZeroOrMore
	if p.atKeyword("as") {
		if err := p.advance(); err != nil {
			return nil, err
		}
		var err error
		ret, err = parseSequenceType(p)
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.expect(TokLBrace, "{"); err != nil {
		return nil, err
	}
	var body Expr
	if p.cur.Type != TokRBrace {
		var err error
		body, err = p.expression(0)
		if err != nil {
			return nil, err
		}
	} else {
		body = &SequenceExpr{}
	}
	if _, err := p.expect(TokRBrace, "}"); err != nil {
		return nil, err
	}
	return &InlineFunctionExpr{Params: params, Types: types, Return: ret, Body: body}, nil
}
