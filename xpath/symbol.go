package xpath

// Symbol is one entry of the Pratt parser's symbol table: a token type
// paired with its binding powers and the parse functions that turn it
// into an Expr, directly grounded on the pack's own symbol-table parser
// (`xpath/symbol.go`'s `type Symbol struct` / `symbolTable map[string]*Symbol`).
// Where that pack file keys symbols by built-in function name only, this
// table covers the grammar's operators and keywords (function names live
// in the separate FunctionTable of functionreg.go), each carrying its own
// nud ("null denotation", prefix/primary parse) and led ("left
// denotation", infix/postfix parse given the already-parsed left side).
type Symbol struct {
	Token string
	Lbp   int // left binding power; 0 = not infix
	Nud   func(p *Parser) (Expr, error)
	Led   func(p *Parser, left Expr) (Expr, error)
}

// SymbolTable is the full set of symbols recognized by one grammar
// version, built by layering registerV1 (XPath 1.0) through
// registerV31 (XPath 3.1) in sequence, mirroring the teacher's
// functional-options layering (`defaultConfig()` then each `Option`
// applied in turn).
type SymbolTable struct {
	symbols map[string]*Symbol
	version Version
}

// NewSymbolTable builds the symbol table appropriate for version,
// registering only the grammar layers up to and including it.
func NewSymbolTable(version Version) *SymbolTable {
	t := &SymbolTable{symbols: make(map[string]*Symbol), version: version}
	registerV1(t)
	if version == Version20 || version == Version30 || version == Version31 {
		registerV2(t)
	}
	if version == Version30 || version == Version31 {
		registerV3(t)
	}
	if version == Version31 {
		registerV31(t)
	}
	return t
}

// define installs a symbol, merging into an existing entry for the same
// token if one was registered by an earlier grammar layer (e.g. `:=`
// gaining a led in a later version without losing an earlier nud).
func (t *SymbolTable) define(sym *Symbol) {
	if existing, ok := t.symbols[sym.Token]; ok {
		if sym.Nud != nil {
			existing.Nud = sym.Nud
		}
		if sym.Led != nil {
			existing.Led = sym.Led
		}
		if sym.Lbp != 0 {
			existing.Lbp = sym.Lbp
		}
		return
	}
	t.symbols[sym.Token] = sym
}

func (t *SymbolTable) lookup(token string) *Symbol {
	return t.symbols[token]
}

// keywordLbp is an empty, unused map: keywords that lex as names are
// recognized by the grammar's own nud/led lookups, not a separate lexer
// mode, much as gogo-agent-xmldom's `isAxis` helper checks names post
// hoc rather than reserving them in the lexer.
var keywordLbp = map[string]int{}
