package xpath

// Parser holds the threaded cursor state for one parse: the token
// stream pulled lazily from the Lexer, the static context used to
// resolve namespace prefixes as the tree is built, and the symbol table
// for the requested grammar version. No parser state is global (Design
// Notes): two concurrent Parse calls never share anything.
type Parser struct {
	lex     *Lexer
	syms    *SymbolTable
	static  *StaticContext
	cur     Token
	lookAtomized bool
}

// Parse compiles an XPath expression string into an Expr tree under sc,
// the public entry point spec.md §6.1 names.
func Parse(expr string, sc *StaticContext) (Expr, error) {
	sc.Logger.Debugf("parsing %q under XPath %s", expr, sc.Version)
	p := &Parser{lex: NewLexer(expr), syms: NewSymbolTable(sc.Version), static: sc}
	if err := p.advance(); err != nil {
		return nil, err
	}
	e, err := p.expression(0)
	if err != nil {
		return nil, err
	}
	if p.cur.Type != TokEOF {
		return nil, newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)},
			"unexpected token %q", p.cur.Text)
	}
	return e, nil
}

func (p *Parser) advance() error {
	t, err := p.lex.NextToken()
	if err != nil {
		return err
	}
	p.cur = t
	return nil
}

// key returns the symbol-table lookup key for the current token: its
// literal text for names/keywords, or a fixed punctuation key otherwise.
func (p *Parser) key() string {
	switch p.cur.Type {
	case TokName:
		return p.cur.Text
	case TokLt, TokGt:
		// `<<`/`>>` (node comparison) lex to the same token type as
		// `<`/`>` with two-character text; disambiguate on the raw text.
		return p.cur.Text
	default:
		return punctKey[p.cur.Type]
	}
}

var punctKey = map[TokenType]string{
	TokDot: ".", TokDotDot: "..", TokAt: "@", TokSlash: "/", TokSlashSlash: "//",
	TokColonColon: "::", TokLParen: "(", TokRParen: ")", TokLBracket: "[", TokRBracket: "]",
	TokLBrace: "{", TokRBrace: "}", TokComma: ",", TokDollar: "$", TokStar: "*",
	TokPlus: "+", TokMinus: "-", TokEq: "=", TokNe: "!=", TokLt: "<", TokLe: "<=",
	TokGt: ">", TokGe: ">=", TokPipe: "|", TokBang: "!", TokQuestion: "?",
	TokArrow: "=>", TokAssign: ":=", TokColon: ":", TokHash: "#", TokEOF: "(eof)",
	TokNumber: "(number)", TokString: "(string)",
}

func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	if p.cur.Type != tt {
		return Token{}, newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)},
			"expected %s, got %q", what, p.cur.Text)
	}
	tok := p.cur
	return tok, p.advance()
}

func (p *Parser) expectKeyword(word string) error {
	if p.cur.Type != TokName || p.cur.Text != word {
		return newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)},
			"expected keyword %q, got %q", word, p.cur.Text)
	}
	return p.advance()
}

func (p *Parser) atKeyword(word string) bool {
	return p.cur.Type == TokName && p.cur.Text == word
}

// expression is the Pratt loop: parse one nud, then keep absorbing
// leds while their binding power exceeds rbp.
func (p *Parser) expression(rbp int) (Expr, error) {
	sym := p.syms.lookup(p.key())
	var nud func(p *Parser) (Expr, error)
	switch {
	case sym != nil && sym.Nud != nil:
		nud = sym.Nud
	case p.cur.Type == TokName:
		// An identifier with no registered keyword nud is an ordinary
		// name: a function call (if followed by `(`, whose argument list
		// nudName parses itself) or a child-axis name test.
		nud = nudName
	}
	if nud == nil {
		return nil, newErrorAt(XPST0003, Span{Start: p.cur.Pos, End: p.cur.Pos + len(p.cur.Text)},
			"unexpected token %q", p.cur.Text)
	}
	left, err := nud(p)
	if err != nil {
		return nil, err
	}
	for {
		nextSym := p.syms.lookup(p.key())
		if nextSym == nil || nextSym.Led == nil || nextSym.Lbp <= rbp {
			break
		}
		left, err = nextSym.Led(p, left)
		if err != nil {
			return nil, err
		}
	}
	return left, nil
}

// resolveQName splits a lexed QName token (`prefix:local` or `local`)
// into an ExpandedName using the static context's namespace bindings,
// raising FONS0004 for an unbound prefix.
func (p *Parser) resolveQName(text string, defaultNS string) (ExpandedName, error) {
	for i := 0; i < len(text); i++ {
		if text[i] == ':' {
			prefix, local := text[:i], text[i+1:]
			uri, ok := p.static.ResolveNamespace(prefix)
			if !ok {
				return ExpandedName{}, newError(FONS0004, "no namespace bound to prefix %q", prefix)
			}
			return ExpandedName{URI: uri, Local: local}, nil
		}
	}
	return ExpandedName{URI: defaultNS, Local: text}, nil
}
