package xpath

// Version enumerates the XPath language versions this engine's grammar
// layers support.
type Version string

const (
	Version10 Version = "1.0"
	Version20 Version = "2.0"
	Version30 Version = "3.0"
	Version31 Version = "3.1"
)

// XSDVersion selects between XSD 1.0 and 1.1 facet semantics, which
// affects a handful of type-registry lookups (spec.md §3.5).
type XSDVersion string

const (
	XSD10 XSDVersion = "1.0"
	XSD11 XSDVersion = "1.1"
)

// FunctionSignature records one overload registered against an expanded
// function name. Function calls are looked up by name and arity when
// they are evaluated (ast.go's FunctionCall.Eval); an unknown name or
// arity raises XPST0017 at that point.
type FunctionSignature struct {
	Name   ExpandedName
	Arity  int
	Params []SequenceType
	Return SequenceType
	Impl   func(ev *Evaluator, args []Sequence) (Sequence, error)
}

// StaticContext is built while parsing and never mutated by evaluation;
// it is safe to reuse (and to re-evaluate the resulting tree) across
// many DynamicContexts, since all name resolution already happened here.
type StaticContext struct {
	DefaultElementNamespace string
	DefaultFunctionNamespace string
	Namespaces              map[string]string // prefix -> URI
	Variables               map[ExpandedName]SequenceType
	Functions               *FunctionTable
	Version                 Version
	XSDVersion              XSDVersion
	BaseURI                 string
	DefaultCollation        string
	StrictTyping            bool
	XPath10Compatibility    bool
	DecimalFormats          map[string]*DecimalFormat
	TypeRegistry            TypeRegistry
	Logger                  Logger
}

// StaticOption configures a StaticContext, following the teacher's
// functional-options convention (xml.Option).
type StaticOption func(*StaticContext)

// NewStaticContext builds a StaticContext with the standard namespace
// bindings (xml, xs, fn, math, map, array) pre-registered and the
// requested version's grammar and function table wired in.
func NewStaticContext(version Version, opts ...StaticOption) *StaticContext {
	sc := &StaticContext{
		Namespaces: map[string]string{
			"xml":   XMLNamespaceURI,
			"xs":    "http://www.w3.org/2001/XMLSchema",
			"fn":    "http://www.w3.org/2005/xpath-functions",
			"math":  "http://www.w3.org/2005/xpath-functions/math",
			"map":   "http://www.w3.org/2005/xpath-functions/map",
			"array": "http://www.w3.org/2005/xpath-functions/array",
		},
		DefaultFunctionNamespace: "http://www.w3.org/2005/xpath-functions",
		Variables:        map[ExpandedName]SequenceType{},
		Version:          version,
		XSDVersion:       XSD11,
		DefaultCollation: "http://www.w3.org/2005/xpath-functions/collation/codepoint",
		DecimalFormats:   map[string]*DecimalFormat{"": DefaultDecimalFormat()},
		TypeRegistry:     NewBuiltinTypeRegistry(),
		Logger:           DefaultLogger,
	}
	sc.Functions = NewFunctionTable(sc)
	for _, opt := range opts {
		opt(sc)
	}
	return sc
}

// WithNamespace registers a prefix -> URI binding.
func WithNamespace(prefix, uri string) StaticOption {
	return func(sc *StaticContext) { sc.Namespaces[prefix] = uri }
}

// WithDefaultElementNamespace sets the namespace unprefixed element
// name tests resolve against.
func WithDefaultElementNamespace(uri string) StaticOption {
	return func(sc *StaticContext) { sc.DefaultElementNamespace = uri }
}

// WithVariable declares an in-scope variable's sequence type.
func WithVariable(name ExpandedName, t SequenceType) StaticOption {
	return func(sc *StaticContext) { sc.Variables[name] = t }
}

// WithStaticBaseURI sets the static base URI used to resolve relative URIs.
func WithStaticBaseURI(uri string) StaticOption {
	return func(sc *StaticContext) { sc.BaseURI = uri }
}

// WithStrictTyping enables stricter static type checking (rejecting
// more constructs at parse time rather than deferring to XPTY0004 at
// evaluation).
func WithStrictTyping() StaticOption {
	return func(sc *StaticContext) { sc.StrictTyping = true }
}

// WithXPath10Compatibility enables XPath 1.0 numeric-comparison and
// single-value coercion compatibility mode.
func WithXPath10Compatibility() StaticOption {
	return func(sc *StaticContext) { sc.XPath10Compatibility = true }
}

// WithXSDVersion selects XSD 1.0 vs 1.1 facet semantics.
func WithXSDVersion(v XSDVersion) StaticOption {
	return func(sc *StaticContext) { sc.XSDVersion = v }
}

// WithTypeRegistry overrides the type registry consulted for named
// (schema) types; the core itself never validates against XSD (spec.md
// §1 Non-goals), it only consults this interface for name resolution.
func WithTypeRegistry(tr TypeRegistry) StaticOption {
	return func(sc *StaticContext) { sc.TypeRegistry = tr }
}

// WithLogger installs a diagnostic sink for parser/evaluator trace
// output; the zero value (DefaultLogger) discards everything.
func WithLogger(l Logger) StaticOption {
	return func(sc *StaticContext) { sc.Logger = l }
}

// ResolveNamespace resolves a prefix to a URI, or returns ("", false) if
// unbound (raises FONS0004/XPST0081 at the call site).
func (sc *StaticContext) ResolveNamespace(prefix string) (string, bool) {
	uri, ok := sc.Namespaces[prefix]
	return uri, ok
}

// DecimalFormat describes the picture-string vocabulary consulted by
// fn:format-number (spec.md §4.4 "Formatting").
type DecimalFormat struct {
	DecimalSeparator   rune
	GroupingSeparator  rune
	Infinity           string
	MinusSign          rune
	NaN                string
	Percent            rune
	PerMille           rune
	ZeroDigit          rune
	Digit              rune
	PatternSeparator   rune
	ExponentSeparator  rune
}

// DefaultDecimalFormat returns the unnamed default decimal format.
func DefaultDecimalFormat() *DecimalFormat {
	return &DecimalFormat{
		DecimalSeparator:  '.',
		GroupingSeparator: ',',
		Infinity:          "Infinity",
		MinusSign:         '-',
		NaN:               "NaN",
		Percent:           '%',
		PerMille:          '‰',
		ZeroDigit:         '0',
		Digit:             '#',
		PatternSeparator:  ';',
		ExponentSeparator: 'e',
	}
}
