package xpath

import (
	"strings"
)

// Binding powers, lowest to highest, following XPath's own operator
// precedence table (spec.md §4.2).
const (
	lbpOr = 10 + iota*10
	lbpAnd
	lbpCompare
	lbpRange   // `to`
	lbpAdditive
	lbpMultiplicative
	lbpUnion
	lbpIntersectExcept
	lbpSimpleMap
	lbpPath
	lbpArrow
	lbpLookup
)

// registerV1 installs the XPath 1.0 grammar layer: literals, variable
// references, parenthesized and path expressions, axes, node tests,
// predicates, and the core operator set. Grounded on
// gogo-agent-xmldom/xpath_parser.go's recursive-descent precedence
// chain (parseOrExpr -> parseAndExpr -> parseEqualityExpr -> ... ->
// parsePathExpr), re-expressed as Pratt binding powers instead of a
// fixed call chain.
func registerV1(t *SymbolTable) {
	t.define(&Symbol{Token: ")"})
	t.define(&Symbol{Token: "]"})
	t.define(&Symbol{Token: ","})
	t.define(&Symbol{Token: "(eof)"})

	t.define(&Symbol{Token: "(", Nud: nudParen, Led: ledFunctionCall, Lbp: lbpPath})
	t.define(&Symbol{Token: "[", Led: ledPredicate, Lbp: lbpPath})

	t.define(&Symbol{Token: "$", Nud: nudVarRef})
	t.define(&Symbol{Token: ".", Nud: nudContextItem})
	t.define(&Symbol{Token: "..", Nud: nudParentStep})
	t.define(&Symbol{Token: "@", Nud: nudAttributeStep})
	t.define(&Symbol{Token: "*", Nud: nudWildcardStep, Led: ledMultiplicative, Lbp: lbpMultiplicative})
	t.define(&Symbol{Token: "/", Nud: nudAbsolutePath, Led: ledPathStep, Lbp: lbpPath})
	t.define(&Symbol{Token: "//", Nud: nudAbsoluteDescendant, Led: ledDescendantStep, Lbp: lbpPath})

	t.define(&Symbol{Token: "+", Nud: nudUnaryPlus, Led: ledAdditive, Lbp: lbpAdditive})
	t.define(&Symbol{Token: "-", Nud: nudUnaryMinus, Led: ledAdditive, Lbp: lbpAdditive})
	t.define(&Symbol{Token: "|", Led: ledUnion, Lbp: lbpUnion})

	t.define(&Symbol{Token: "=", Led: ledGeneralCompareMaker(OpGeneralEq), Lbp: lbpCompare})
	t.define(&Symbol{Token: "!=", Led: ledGeneralCompareMaker(OpGeneralNe), Lbp: lbpCompare})
	t.define(&Symbol{Token: "<", Led: ledGeneralCompareMaker(OpGeneralLt), Lbp: lbpCompare})
	t.define(&Symbol{Token: "<=", Led: ledGeneralCompareMaker(OpGeneralLe), Lbp: lbpCompare})
	t.define(&Symbol{Token: ">", Led: ledGeneralCompareMaker(OpGeneralGt), Lbp: lbpCompare})
	t.define(&Symbol{Token: ">=", Led: ledGeneralCompareMaker(OpGeneralGe), Lbp: lbpCompare})

	registerKeywordV1(t, "or", lbpOr, ledLogicMaker(false))
	registerKeywordV1(t, "and", lbpAnd, ledLogicMaker(true))
	registerKeywordV1(t, "div", lbpMultiplicative, ledArithMaker(OpDiv))
	registerKeywordV1(t, "mod", lbpMultiplicative, ledArithMaker(OpMod))

	t.define(&Symbol{Token: "(number)", Nud: nudNumberLiteral})
	t.define(&Symbol{Token: "(string)", Nud: nudStringLiteral})
}

func nudNumberLiteral(p *Parser) (Expr, error) {
	text := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	a, err := parseNumberLiteral(text)
	if err != nil {
		return nil, err
	}
	return &Literal{Value: a}, nil
}

func nudStringLiteral(p *Parser) (Expr, error) {
	text := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &Literal{Value: NewString(text)}, nil
}

func registerKeywordV1(t *SymbolTable, word string, lbp int, led func(p *Parser, left Expr) (Expr, error)) {
	t.define(&Symbol{Token: word, Lbp: lbp, Led: led})
}

func registerNudKeyword(t *SymbolTable, word string, nud func(p *Parser) (Expr, error)) {
	t.define(&Symbol{Token: word, Nud: nud})
}

func ledLogicMaker(and bool) func(p *Parser, left Expr) (Expr, error) {
	return func(p *Parser, left Expr) (Expr, error) {
		lbp := lbpOr
		if and {
			lbp = lbpAnd
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.expression(lbp)
		if err != nil {
			return nil, err
		}
		return &BinaryLogic{And: and, Left: left, Right: right}, nil
	}
}

func ledArithMaker(op ArithOp) func(p *Parser, left Expr) (Expr, error) {
	return func(p *Parser, left Expr) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.expression(lbpMultiplicative)
		if err != nil {
			return nil, err
		}
		return &ArithExpr{Op: op, Left: left, Right: right}, nil
	}
}

func ledAdditive(p *Parser, left Expr) (Expr, error) {
	op := OpAdd
	if p.cur.Text == "-" {
		op = OpSub
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expression(lbpAdditive)
	if err != nil {
		return nil, err
	}
	return &ArithExpr{Op: op, Left: left, Right: right}, nil
}

func ledMultiplicative(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expression(lbpMultiplicative)
	if err != nil {
		return nil, err
	}
	return &ArithExpr{Op: OpMul, Left: left, Right: right}, nil
}

func ledGeneralCompareMaker(op CompareOp) func(p *Parser, left Expr) (Expr, error) {
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

func ledUnion(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	right, err := p.expression(lbpUnion)
	if err != nil {
		return nil, err
	}
	return &UnionExpr{Left: left, Right: right}, nil
}

func nudUnaryPlus(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p.expression(lbpAdditive)
}

func nudUnaryMinus(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	operand, err := p.expression(lbpAdditive)
	if err != nil {
		return nil, err
	}
	return &UnaryMinus{Operand: operand}, nil
}

func nudParen(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type == TokRParen {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &SequenceExpr{}, nil
	}
	var items []Expr
	for {
		e, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		items = append(items, e)
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
	if len(items) == 1 {
		return items[0], nil
	}
	return &SequenceExpr{Items: items}, nil
}

// ledFunctionCall handles `(` following a left expression that was NOT
// itself a bare name (a bare name resolves its own call args inside
// nudName, since only there do we know it is a static call by name):
// this is the dynamic-call / partial-application site, e.g. `$f(1, 2)`.
func ledFunctionCall(p *Parser, left Expr) (Expr, error) {
	return parseDynamicCallArgs(p, left)
}

// nudName parses a bare NCName/QName in primary-expression position.
// Immediately followed by `(` it is a static function call; otherwise
// it is the node-test name of a single relative-path step (`foo` means
// `child::foo`, and `foo/bar[1]` threads through the ordinary path
// machinery from there).
func nudName(p *Parser) (Expr, error) {
	raw := p.cur.Text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.cur.Type == TokLParen {
		name, err := p.resolveQName(raw, p.static.DefaultFunctionNamespace)
		if err != nil {
			return nil, err
		}
		args, err := parseArgList(p)
		if err != nil {
			return nil, err
		}
		return &FunctionCall{Name: name, Args: args}, nil
	}
	name, err := p.resolveQName(raw, p.static.DefaultElementNamespace)
	if err != nil {
		return nil, err
	}
	step := &StepExpr{Axis: AxisChild, Test: NodeTest{Name: &name}}
	return continuePathFromStep(p, step)
}

func parseArgList(p *Parser) ([]Expr, error) {
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var args []Expr
	for p.cur.Type != TokRParen {
		a, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
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
	return args, nil
}

func parseDynamicCallArgs(p *Parser, callee Expr) (Expr, error) {
	if _, err := p.expect(TokLParen, "("); err != nil {
		return nil, err
	}
	var args []Expr
	for p.cur.Type != TokRParen {
		if p.cur.Type == TokQuestion {
			if err := p.advance(); err != nil {
				return nil, err
			}
			args = append(args, nil)
		} else {
			a, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
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
	return &DynamicFunctionCall{Callee: callee, Args: args}, nil
}

func nudVarRef(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	tok, err := p.expect(TokName, "variable name")
	if err != nil {
		return nil, err
	}
	name, err := p.resolveQName(tok.Text, "")
	if err != nil {
		return nil, err
	}
	return &VarRef{Name: name}, nil
}

func nudContextItem(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	return &ContextItemExpr{}, nil
}

func nudBuiltinCallWithNoArgs(name string) func(p *Parser) (Expr, error) {
	return func(p *Parser) (Expr, error) {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &FunctionCall{Name: ExpandedName{URI: "http://www.w3.org/2005/xpath-functions", Local: name}}, nil
	}
}

// --- Path expressions -------------------------------------------------

func nudParentStep(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	step := &StepExpr{Axis: AxisParent, Test: NodeTest{AnyKind: true}}
	return continuePathFromStep(p, step)
}

func nudAttributeStep(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	test, err := parseNodeTestName(p)
	if err != nil {
		return nil, err
	}
	step := &StepExpr{Axis: AxisAttribute, Test: test}
	return continuePathFromStep(p, step)
}

func nudWildcardStep(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	step := &StepExpr{Axis: AxisChild, Test: NodeTest{Wildcard: true}}
	return continuePathFromStep(p, step)
}

func nudAbsolutePath(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	path := &PathExpr{Absolute: true}
	if isStepStart(p) {
		step, err := parseStep(p)
		if err != nil {
			return nil, err
		}
		path.Steps = append(path.Steps, step)
		return continuePath(p, path)
	}
	return path, nil
}

func nudAbsoluteDescendant(p *Parser) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	step, err := parseStep(p)
	if err != nil {
		return nil, err
	}
	path := &PathExpr{Absolute: true, Steps: []Expr{&StepExpr{Axis: AxisDescendantOrSelf, Test: NodeTest{AnyKind: true}}, step}}
	return continuePath(p, path)
}

func ledPathStep(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	step, err := parseStep(p)
	if err != nil {
		return nil, err
	}
	return appendPathStep(left, step), nil
}

func ledDescendantStep(p *Parser, left Expr) (Expr, error) {
	if err := p.advance(); err != nil {
		return nil, err
	}
	step, err := parseStep(p)
	if err != nil {
		return nil, err
	}
	left = appendPathStep(left, &StepExpr{Axis: AxisDescendantOrSelf, Test: NodeTest{AnyKind: true}})
	return appendPathStep(left, step), nil
}

func appendPathStep(left Expr, step Expr) Expr {
	if path, ok := left.(*PathExpr); ok {
		path.Steps = append(path.Steps, step)
		return path
	}
	return &PathExpr{Steps: []Expr{left, step}}
}

func continuePathFromStep(p *Parser, step *StepExpr) (Expr, error) {
	path := &PathExpr{Steps: []Expr{step}}
	return continuePath(p, path)
}

func continuePath(p *Parser, path *PathExpr) (Expr, error) {
	for {
		if p.cur.Type == TokLBracket {
			last := path.Steps[len(path.Steps)-1]
			se, ok := last.(*StepExpr)
			if !ok {
				break
			}
			if err := p.advance(); err != nil {
				return nil, err
			}
			pred, err := p.expression(0)
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(TokRBracket, "]"); err != nil {
				return nil, err
			}
			se.Predicates = append(se.Predicates, pred)
			continue
		}
		break
	}
	return path, nil
}

func isStepStart(p *Parser) bool {
	switch p.cur.Type {
	case TokDot, TokDotDot, TokAt, TokStar, TokName:
		return true
	}
	return false
}

func parseStep(p *Parser) (Expr, error) {
	if p.cur.Type == TokName && p.peekIsLParen() {
		if _, isKind := kindTestOf(p.cur.Text); !isKind {
			return nudName(p)
		}
	}
	if p.cur.Type == TokDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StepExpr{Axis: AxisSelf, Test: NodeTest{AnyKind: true}}, nil
	}
	if p.cur.Type == TokDotDot {
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &StepExpr{Axis: AxisParent, Test: NodeTest{AnyKind: true}}, nil
	}
	axis := AxisChild
	if p.cur.Type == TokAt {
		axis = AxisAttribute
		if err := p.advance(); err != nil {
			return nil, err
		}
	} else if p.cur.Type == TokName && axisKeyword(p.cur.Text) && p.peekIsColonColon() {
		axis = axisFromKeyword(p.cur.Text)
		if err := p.advance(); err != nil {
			return nil, err
		}
		if _, err := p.expect(TokColonColon, "::"); err != nil {
			return nil, err
		}
	}
	test, err := parseNodeTestName(p)
	if err != nil {
		return nil, err
	}
	step := &StepExpr{Axis: axis, Test: test}
	for p.cur.Type == TokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		pred, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket, "]"); err != nil {
			return nil, err
		}
		step.Predicates = append(step.Predicates, pred)
	}
	return step, nil
}

func parseNodeTestName(p *Parser) (NodeTest, error) {
	if p.cur.Type == TokStar {
		if err := p.advance(); err != nil {
			return NodeTest{}, err
		}
		return NodeTest{Wildcard: true}, nil
	}
	if p.cur.Type != TokName {
		return NodeTest{}, newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)}, "expected a node test")
	}
	raw := p.cur.Text
	if kind, ok := kindTestOf(raw); ok && p.peekIsLParen() {
		if err := p.advance(); err != nil {
			return NodeTest{}, err
		}
		if _, err := p.expect(TokLParen, "("); err != nil {
			return NodeTest{}, err
		}
		if _, err := p.expect(TokRParen, ")"); err != nil {
			return NodeTest{}, err
		}
		if kind == nil {
			return NodeTest{AnyKind: true}, nil
		}
		return NodeTest{Kind: kind}, nil
	}
	if err := p.advance(); err != nil {
		return NodeTest{}, err
	}
	name, err := p.resolveQName(raw, p.static.DefaultElementNamespace)
	if err != nil {
		return NodeTest{}, err
	}
	return NodeTest{Name: &name}, nil
}

// peekIsLParen reports whether the lexer's very next character (ignoring
// whitespace) is `(`, used to decide whether a bare name like `node` is
// the kind test `node()` or an element name test `node`.
func (p *Parser) peekIsLParen() bool {
	save := *p.lex
	t, err := p.lex.NextToken()
	*p.lex = save
	return err == nil && t.Type == TokLParen
}

// peekIsColonColon reports whether the lexer's very next token is `::`.
func (p *Parser) peekIsColonColon() bool {
	save := *p.lex
	t, err := p.lex.NextToken()
	*p.lex = save
	return err == nil && t.Type == TokColonColon
}

func kindTestOf(name string) (*NodeKind, bool) {
	k := func(nk NodeKind) *NodeKind { return &nk }
	switch name {
	case "node":
		return nil, true
	case "text":
		return k(TextNode), true
	case "comment":
		return k(CommentNode), true
	case "processing-instruction":
		return k(ProcessingInstructionNode), true
	case "element":
		return k(ElementNode), true
	case "attribute":
		return k(AttributeNode), true
	case "document-node":
		return k(DocumentNode), true
	}
	return nil, false
}

var axisKeywords = map[string]Axis{
	"child": AxisChild, "descendant": AxisDescendant, "descendant-or-self": AxisDescendantOrSelf,
	"parent": AxisParent, "ancestor": AxisAncestor, "ancestor-or-self": AxisAncestorOrSelf,
	"following-sibling": AxisFollowingSibling, "preceding-sibling": AxisPrecedingSibling,
	"following": AxisFollowing, "preceding": AxisPreceding, "self": AxisSelf,
	"attribute": AxisAttribute, "namespace": AxisNamespace,
}

func axisKeyword(name string) bool {
	_, ok := axisKeywords[name]
	return ok
}

func axisFromKeyword(name string) Axis { return axisKeywords[name] }

// ledPredicate handles a `[` immediately following a non-step primary,
// i.e. the FilterExpr production (`(1, 2, 3)[. > 1]`, `$seq[2]`).
func ledPredicate(p *Parser, left Expr) (Expr, error) {
	if _, ok := left.(*PathExpr); ok {
		return nil, newError(XPST0003, "internal: predicate on path handled by continuePath")
	}
	var preds []Expr
	for p.cur.Type == TokLBracket {
		if err := p.advance(); err != nil {
			return nil, err
		}
		pred, err := p.expression(0)
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(TokRBracket, "]"); err != nil {
			return nil, err
		}
		preds = append(preds, pred)
	}
	return &FilterExpr{Base: left, Predicates: preds}, nil
}

// parseNumberLiteral turns a lexed numeric token into an Atomic,
// following the lexical shape XPath numeric literals always have
// (decimal or double, never an integer-overflow-prone float parse).
func parseNumberLiteral(text string) (Atomic, error) {
	if strings.ContainsAny(text, "eE") {
		return ParseAtomic(text, TypeDouble)
	}
	if !strings.Contains(text, ".") {
		return ParseAtomic(text, TypeInteger)
	}
	return ParseAtomic(text, TypeDecimal)
}
