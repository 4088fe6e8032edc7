package xpath

import (
	"regexp"
	"strings"
)

const fnNS = "http://www.w3.org/2005/xpath-functions"

func fnName(local string) ExpandedName { return ExpandedName{URI: fnNS, Local: local} }

// registerStringUnary installs a one-argument string-like function of
// the common shape `fn:name($arg as xs:string?)` returning one atomic
// value, used by a large share of the string family.
func registerStringUnary(local string, impl func(s string) (Sequence, error)) {
	RegisterFunction(fnName(local), 1, []SequenceType{{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			s, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			return impl(s)
		})
}

func argString(seq Sequence) (string, error) {
	if len(seq) == 0 {
		return "", nil
	}
	a, err := AtomizeOne(seq)
	if err != nil {
		return "", err
	}
	return a.StringValue(), nil
}

func argStrings(args []Sequence) ([]string, error) {
	out := make([]string, len(args))
	for i, a := range args {
		s, err := argString(a)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// init populates the fn: string namespace. Grounded directly on
// sdcio-yang-parser/xpath/symbol.go's string functions (concat,
// contains, starts-with, substring, substring-before/after, translate,
// normalize-space, string-length): same algorithms, retyped onto this
// module's Atomic/Sequence values instead of Datum.
func init() {
	for n := 2; n <= 12; n++ {
		params := make([]SequenceType, n)
		for i := range params {
			params[i] = SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}
		}
		RegisterFunction(fnName("concat"), n, params, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
			func(ev *Evaluator, args []Sequence) (Sequence, error) {
				strs, err := argStrings(args)
				if err != nil {
					return nil, err
				}
				return Singleton(NewString(strings.Join(strs, ""))), nil
			})
	}

	registerStringFn2("contains", func(a, b string) (Sequence, error) { return Singleton(NewBoolean(strings.Contains(a, b))), nil })
	registerStringFn2("starts-with", func(a, b string) (Sequence, error) { return Singleton(NewBoolean(strings.HasPrefix(a, b))), nil })
	registerStringFn2("ends-with", func(a, b string) (Sequence, error) { return Singleton(NewBoolean(strings.HasSuffix(a, b))), nil })
	registerStringFn2("substring-before", func(a, b string) (Sequence, error) {
		if b == "" {
			return Singleton(NewString("")), nil
		}
		if idx := strings.Index(a, b); idx >= 0 {
			return Singleton(NewString(a[:idx])), nil
		}
		return Singleton(NewString("")), nil
	})
	registerStringFn2("substring-after", func(a, b string) (Sequence, error) {
		if b == "" {
			return Singleton(NewString(a)), nil
		}
		if idx := strings.Index(a, b); idx >= 0 {
			return Singleton(NewString(a[idx+len(b):])), nil
		}
		return Singleton(NewString("")), nil
	})

	registerStringUnary("normalize-space", func(s string) (Sequence, error) {
		return Singleton(NewString(strings.Join(strings.Fields(s), " "))), nil
	})
	registerStringUnary("string-length", func(s string) (Sequence, error) {
		return Singleton(NewIntegerFromInt64(int64(len([]rune(s))))), nil
	})
	registerStringUnary("upper-case", func(s string) (Sequence, error) { return Singleton(NewString(strings.ToUpper(s))), nil })
	registerStringUnary("lower-case", func(s string) (Sequence, error) { return Singleton(NewString(strings.ToLower(s))), nil })
	registerStringUnary("string", nil) // overridden below with item-typed signature
	registerStringUnary("normalize-unicode", func(s string) (Sequence, error) { return Singleton(NewString(s)), nil })

	RegisterFunction(fnName("string"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Singleton(NewString("")), nil
			}
			if it, ok := args[0].AsSingleton(); ok {
				if n, ok := it.(*Node); ok {
					return Singleton(NewString(n.StringValue())), nil
				}
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewString(a.StringValue())), nil
		})
	RegisterFunction(fnName("string"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			it, err := ev.DC.ContextItem()
			if err != nil {
				return nil, err
			}
			if n, ok := it.(*Node); ok {
				return Singleton(NewString(n.StringValue())), nil
			}
			return Singleton(NewString(it.StringValue())), nil
		})

	RegisterFunction(fnName("substring"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}}, fnSubstring)
	RegisterFunction(fnName("substring"), 3, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeDouble}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}}, fnSubstring)

	RegisterFunction(fnName("translate"), 3, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}}, fnTranslate)

	registerStringMatch("matches", fnMatches)
	RegisterFunction(fnName("replace"), 3, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}}, fnReplace)

	RegisterFunction(fnName("tokenize"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore}, fnTokenize)

	RegisterFunction(fnName("codepoints-to-string"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			runes := make([]rune, len(args[0]))
			for i, it := range args[0] {
				runes[i] = rune(it.(Atomic).BigInt().Int64())
			}
			return Singleton(NewString(string(runes))), nil
		})

	RegisterFunction(fnName("string-to-codepoints"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			s, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			if s == "" {
				return Empty, nil
			}
			runes := []rune(s)
			out := make(Sequence, len(runes))
			for i, r := range runes {
				out[i] = NewIntegerFromInt64(int64(r))
			}
			return out, nil
		})

	RegisterFunction(fnName("compare"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 || len(args[1]) == 0 {
				return Empty, nil
			}
			a, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			b, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(NewIntegerFromInt64(int64(strings.Compare(a, b)))), nil
		})
	RegisterFunction(fnName("compare"), 3, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeInteger}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 || len(args[1]) == 0 {
				return Empty, nil
			}
			a, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			b, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			// Only codepoint collation is supported (see DESIGN.md's
			// default-collation Open Question decision); the collation
			// argument is accepted but ignored.
			return Singleton(NewIntegerFromInt64(int64(strings.Compare(a, b)))), nil
		})

	RegisterFunction(fnName("codepoint-equal"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 || len(args[1]) == 0 {
				return Empty, nil
			}
			a, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			b, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(a == b)), nil
		})

	RegisterFunction(fnName("analyze-string"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, NodeKind: ElementNode}}, fnAnalyzeString)

	RegisterFunction(fnName("string-join"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			sep, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			var parts []string
			for _, it := range args[0] {
				a := it.(Atomic)
				parts = append(parts, a.StringValue())
			}
			return Singleton(NewString(strings.Join(parts, sep))), nil
		})
}

func registerStringFn2(local string, impl func(a, b string) (Sequence, error)) {
	params := []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}
	RegisterFunction(fnName(local), 2, params, SequenceType{Item: ItemType{Kind: ItemTypeAtomic}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			a, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			b, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			return impl(a, b)
		})
}

func registerStringMatch(local string, impl func(ev *Evaluator, args []Sequence) (Sequence, error)) {
	RegisterFunction(fnName(local), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}}, impl)
}

// fnSubstring mirrors the teacher's 1-based, round-half-away-from-zero
// substring math exactly (symbol.go's `substring`), extended to the
// two-argument "rest of string" form.
func fnSubstring(ev *Evaluator, args []Sequence) (Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	runes := []rune(s)
	start, err := argRoundedInt(args[1])
	if err != nil {
		return nil, err
	}
	length := len(runes) + 1
	if len(args) == 3 {
		l, err := argRoundedInt(args[2])
		if err != nil {
			return nil, err
		}
		length = l
	}
	startPos := start - 1
	endPos := startPos + length
	if startPos < 0 {
		startPos = 0
	}
	if startPos >= len(runes) {
		return Singleton(NewString("")), nil
	}
	if endPos < 0 {
		endPos = 0
	}
	if endPos > len(runes) {
		endPos = len(runes)
	}
	if endPos < startPos {
		return Singleton(NewString("")), nil
	}
	return Singleton(NewString(string(runes[startPos:endPos]))), nil
}

func argRoundedInt(seq Sequence) (int, error) {
	a, err := AtomizeOne(seq)
	if err != nil {
		return 0, err
	}
	f := a.Float64()
	if f >= 0 {
		return int(f + 0.5), nil
	}
	return -int(-f + 0.5), nil
}

// fnTranslate mirrors the teacher's first-occurrence-wins replacement
// table exactly (symbol.go's `translate`).
func fnTranslate(ev *Evaluator, args []Sequence) (Sequence, error) {
	src, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	from, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	to, err := argString(args[2])
	if err != nil {
		return nil, err
	}
	if src == "" || from == "" {
		return Singleton(NewString(src)), nil
	}
	toRunes := []rune(to)
	seen := map[rune]bool{}
	var b strings.Builder
	fromIndex := map[rune]int{}
	for i, r := range from {
		if _, ok := fromIndex[r]; !ok {
			fromIndex[r] = i
		}
	}
	for _, r := range src {
		idx, drop := fromIndex[r]
		if !drop {
			b.WriteRune(r)
			continue
		}
		_ = seen
		pos := runeIndexOf([]rune(from), r)
		_ = idx
		if pos < len(toRunes) {
			b.WriteRune(toRunes[pos])
		}
	}
	return Singleton(NewString(b.String())), nil
}

// fnAnalyzeString splits $arg into fn:match/fn:non-match elements
// wrapped in an fn:analyze-string-result root, per fn:analyze-string's
// result shape. Capture-group sub-elements (fn:group) are a documented
// scope reduction, the same "common subset, not the full grammar" shape
// as format-number's picture handling.
func fnAnalyzeString(ev *Evaluator, args []Sequence) (Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError(FORX0002, "invalid regular expression %q: %v", pattern, err)
	}
	matchName := ExpandedName{URI: fnNS, Local: "match"}
	nonMatchName := ExpandedName{URI: fnNS, Local: "non-match"}
	resultName := ExpandedName{URI: fnNS, Local: "analyze-string-result"}

	var children []*Node
	last := 0
	for _, m := range re.FindAllStringIndex(s, -1) {
		if m[0] > last {
			children = append(children, newSyntheticElement(nonMatchName, "fn", newSyntheticText(s[last:m[0]])))
		}
		children = append(children, newSyntheticElement(matchName, "fn", newSyntheticText(s[m[0]:m[1]])))
		last = m[1]
	}
	if last < len(s) {
		children = append(children, newSyntheticElement(nonMatchName, "fn", newSyntheticText(s[last:])))
	}
	root := newSyntheticElement(resultName, "fn", children...)
	doc := &Node{NodeKind: DocumentNode, Children: []*Node{root}}
	root.Parent = doc
	assignDocumentOrder(doc)
	return Singleton(root), nil
}

func newSyntheticText(s string) *Node {
	return &Node{NodeKind: TextNode, text: s}
}

func newSyntheticElement(name ExpandedName, prefix string, children ...*Node) *Node {
	el := &Node{NodeKind: ElementNode, Name: name, Prefix: prefix, Children: children}
	for _, c := range children {
		c.Parent = el
	}
	return el
}

func runeIndexOf(rs []rune, target rune) int {
	for i, r := range rs {
		if r == target {
			return i
		}
	}
	return -1
}

func fnMatches(ev *Evaluator, args []Sequence) (Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError(FORX0002, "invalid regular expression %q: %v", pattern, err)
	}
	return Singleton(NewBoolean(re.MatchString(s))), nil
}

func fnReplace(ev *Evaluator, args []Sequence) (Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	repl, err := argString(args[2])
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError(FORX0002, "invalid regular expression %q: %v", pattern, err)
	}
	goRepl := regexp.MustCompile(`\$(\d)`).ReplaceAllString(repl, "$$${1}")
	return Singleton(NewString(re.ReplaceAllString(s, goRepl))), nil
}

func fnTokenize(ev *Evaluator, args []Sequence) (Sequence, error) {
	s, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	pattern, err := argString(args[1])
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, newError(FORX0002, "invalid regular expression %q: %v", pattern, err)
	}
	if s == "" {
		return Empty, nil
	}
	parts := re.Split(s, -1)
	out := make(Sequence, len(parts))
	for i, part := range parts {
		out[i] = NewString(part)
	}
	return out, nil
}
