package xpath

import (
	"fmt"
	"strings"
)

// init populates the node-accessor family: name, local-name,
// namespace-uri, root, lang, has-children, base-uri, data. name,
// local-name, namespace-uri, base-uri, root and data accept an optional
// node argument, defaulting to the context item, mirroring the
// teacher's `localName` in symbol.go which reads off the current step's
// node when no argument is supplied; has-children and lang take no node
// argument and always read the context item.
func init() {
	registerNodeStringAccessor("name", func(n *Node) string {
		if n.Prefix != "" {
			return n.Prefix + ":" + n.Name.Local
		}
		return n.Name.Local
	})
	registerNodeStringAccessor("local-name", func(n *Node) string { return n.Name.Local })
	registerNodeStringAccessor("namespace-uri", func(n *Node) string { return n.Name.URI })
	registerNodeStringAccessor("base-uri", func(n *Node) string { return n.BaseURI() })

	RegisterFunction(fnName("root"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional}, fnRoot)
	RegisterFunction(fnName("root"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional}, fnRoot)

	RegisterFunction(fnName("has-children"), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			n, err := contextNode(ev)
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(n.HasChildren())), nil
		})

	RegisterFunction(fnName("lang"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			testLang, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			n, err := contextNode(ev)
			if err != nil {
				return nil, err
			}
			return Singleton(NewBoolean(langMatches(n.Lang(), testLang))), nil
		})

	RegisterFunction(fnName("data"), 1, []SequenceType{AnyItemZeroOrMore},
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) { return Atomize(args[0]) })
	RegisterFunction(fnName("data"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			it, err := ev.DC.ContextItem()
			if err != nil {
				return nil, err
			}
			return Atomize(Singleton(it))
		})

	RegisterFunction(fnName("document-uri"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional}, fnDocumentURI)
	RegisterFunction(fnName("document-uri"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional}, fnDocumentURI)

	RegisterFunction(fnName("node-name"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}, Occurrence: OccurrenceOptional}, fnNodeName)
	RegisterFunction(fnName("node-name"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}, Occurrence: OccurrenceOptional}, fnNodeName)

	RegisterFunction(fnName("id"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, NodeKind: ElementNode}, Occurrence: OccurrenceZeroOrMore}, fnID)
	RegisterFunction(fnName("id"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, NodeKind: ElementNode}, Occurrence: OccurrenceZeroOrMore}, fnID)

	RegisterFunction(fnName("idref"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnIDRef)
	RegisterFunction(fnName("idref"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnIDRef)

	RegisterFunction(fnName("innermost"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnInnermost)
	RegisterFunction(fnName("outermost"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnOutermost)

	RegisterFunction(fnName("path"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}, fnPath)
	RegisterFunction(fnName("path"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}, fnPath)
}

func fnDocumentURI(ev *Evaluator, args []Sequence) (Sequence, error) {
	var n *Node
	if len(args) == 1 {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		nn, ok := args[0][0].(*Node)
		if !ok {
			return nil, newError(XPTY0004, "document-uri() requires a node argument")
		}
		n = nn
	} else {
		cn, err := contextNode(ev)
		if err != nil {
			return nil, err
		}
		n = cn
	}
	if n.NodeKind != DocumentNode || n.BaseURI() == "" {
		return Empty, nil
	}
	return Singleton(NewAnyURI(n.BaseURI())), nil
}

func fnNodeName(ev *Evaluator, args []Sequence) (Sequence, error) {
	var n *Node
	if len(args) == 1 {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		nn, ok := args[0][0].(*Node)
		if !ok {
			return nil, newError(XPTY0004, "node-name() requires a node argument")
		}
		n = nn
	} else {
		cn, err := contextNode(ev)
		if err != nil {
			return nil, err
		}
		n = cn
	}
	switch n.NodeKind {
	case ElementNode, AttributeNode, ProcessingInstructionNode, NamespaceNode:
		return Singleton(NewQName(QName{Prefix: n.Prefix, URI: n.Name.URI, Local: n.Name.Local})), nil
	default:
		return Empty, nil
	}
}

// idAttrName is the attribute this engine treats as carrying an element's
// unique identifier: a locally-named, unprefixed "id" attribute. Schema-
// or DTD-driven ID typing (PSVI) is out of scope (node.go's TypedValue
// doc comment), so fn:id/fn:idref use this fixed convention instead.
var idAttrName = ExpandedName{Local: "id"}

func fnID(ev *Evaluator, args []Sequence) (Sequence, error) {
	ids, err := stringTokenSet(args[0])
	if err != nil {
		return nil, err
	}
	root, err := idSearchRoot(ev, args, 1)
	if err != nil {
		return nil, err
	}
	var out Sequence
	walkDescendants(root, func(n *Node) {
		if n.NodeKind != ElementNode {
			return
		}
		if a := n.Attr(idAttrName); a != nil && ids[a.StringValue()] {
			out = append(out, n)
		}
	})
	return out, nil
}

func fnIDRef(ev *Evaluator, args []Sequence) (Sequence, error) {
	ids, err := stringTokenSet(args[0])
	if err != nil {
		return nil, err
	}
	root, err := idSearchRoot(ev, args, 1)
	if err != nil {
		return nil, err
	}
	var out Sequence
	walkDescendants(root, func(n *Node) {
		if n.NodeKind != ElementNode {
			return
		}
		for _, a := range n.Attributes {
			if a.Name == idAttrName {
				continue
			}
			for _, tok := range strings.Fields(a.StringValue()) {
				if ids[tok] {
					out = append(out, n)
					return
				}
			}
		}
	})
	return out, nil
}

func stringTokenSet(seq Sequence) (map[string]bool, error) {
	set := map[string]bool{}
	for _, it := range seq {
		a, ok := it.(Atomic)
		if !ok {
			continue
		}
		for _, tok := range strings.Fields(a.StringValue()) {
			set[tok] = true
		}
	}
	return set, nil
}

func idSearchRoot(ev *Evaluator, args []Sequence, nodeArgIdx int) (*Node, error) {
	if len(args) > nodeArgIdx {
		n, ok := args[nodeArgIdx][0].(*Node)
		if !ok {
			return nil, newError(XPTY0004, "id()/idref() node argument must be a node")
		}
		return n.Root(), nil
	}
	n, err := contextNode(ev)
	if err != nil {
		return nil, err
	}
	return n.Root(), nil
}

func walkDescendants(n *Node, visit func(*Node)) {
	visit(n)
	for _, c := range n.Children {
		walkDescendants(c, visit)
	}
}

func fnInnermost(ev *Evaluator, args []Sequence) (Sequence, error) {
	nodes, err := sequenceNodes(args[0])
	if err != nil {
		return nil, err
	}
	var out Sequence
	for _, n := range nodes {
		keep := true
		for _, other := range nodes {
			if other != n && isAncestorOf(n, other) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, n)
		}
	}
	return out, nil
}

func fnOutermost(ev *Evaluator, args []Sequence) (Sequence, error) {
	nodes, err := sequenceNodes(args[0])
	if err != nil {
		return nil, err
	}
	var out Sequence
	for _, n := range nodes {
		keep := true
		for _, other := range nodes {
			if other != n && isAncestorOf(other, n) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, n)
		}
	}
	return out, nil
}

func sequenceNodes(seq Sequence) ([]*Node, error) {
	out := make([]*Node, 0, len(seq))
	for _, it := range seq {
		n, ok := it.(*Node)
		if !ok {
			return nil, newError(XPTY0004, "expected a sequence of nodes")
		}
		out = append(out, n)
	}
	return out, nil
}

// isAncestorOf reports whether a is a proper ancestor of b.
func isAncestorOf(a, b *Node) bool {
	for cur := b.Parent; cur != nil; cur = cur.Parent {
		if cur == a {
			return true
		}
	}
	return false
}

// fnPath renders a simplified node path: each step names the node's kind,
// for elements and attributes its expanded QName, and for every kind but
// attributes its 1-based sibling position, separated by "/" from the root
// down — a documented scope reduction from the full Q{uri}local[n]
// grammar the XDM function library specifies.
func fnPath(ev *Evaluator, args []Sequence) (Sequence, error) {
	var n *Node
	if len(args) == 1 {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		nn, ok := args[0][0].(*Node)
		if !ok {
			return nil, newError(XPTY0004, "path() requires a node argument")
		}
		n = nn
	} else {
		cn, err := contextNode(ev)
		if err != nil {
			return nil, err
		}
		n = cn
	}
	var steps []string
	for cur := n; cur != nil; cur = cur.Parent {
		steps = append([]string{pathStep(cur)}, steps...)
	}
	return Singleton(NewString(strings.Join(steps, "/"))), nil
}

func pathStep(n *Node) string {
	switch n.NodeKind {
	case DocumentNode:
		return ""
	case ElementNode:
		return fmt.Sprintf("element(%s)[%d]", expandedNameString(n.Name), siblingPosition(n))
	case AttributeNode:
		return fmt.Sprintf("attribute(%s)", expandedNameString(n.Name))
	case TextNode:
		return fmt.Sprintf("text()[%d]", siblingPosition(n))
	case CommentNode:
		return fmt.Sprintf("comment()[%d]", siblingPosition(n))
	case ProcessingInstructionNode:
		return fmt.Sprintf("processing-instruction()[%d]", siblingPosition(n))
	default:
		return n.NodeKind.String()
	}
}

func expandedNameString(n ExpandedName) string {
	if n.URI == "" {
		return n.Local
	}
	return "Q{" + n.URI + "}" + n.Local
}

func siblingPosition(n *Node) int {
	if n.Parent == nil {
		return 1
	}
	pos := 0
	for _, c := range n.Parent.Children {
		if c.Name == n.Name && c.NodeKind == n.NodeKind {
			pos++
			if c == n {
				return pos
			}
		}
	}
	return 1
}

func registerNodeStringAccessor(local string, extract func(n *Node) string) {
	RegisterFunction(fnName(local), 0, nil, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			n, err := contextNode(ev)
			if err != nil {
				return nil, err
			}
			return Singleton(NewString(extract(n))), nil
		})
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Singleton(NewString("")), nil
			}
			n, ok := args[0][0].(*Node)
			if !ok {
				return nil, newError(XPTY0004, "%s() requires a node argument", local)
			}
			return Singleton(NewString(extract(n))), nil
		})
}

func contextNode(ev *Evaluator) (*Node, error) {
	it, err := ev.DC.ContextItem()
	if err != nil {
		return nil, err
	}
	n, ok := it.(*Node)
	if !ok {
		return nil, newError(XPTY0004, "context item is not a node")
	}
	return n, nil
}

func fnRoot(ev *Evaluator, args []Sequence) (Sequence, error) {
	var n *Node
	if len(args) == 1 {
		if len(args[0]) == 0 {
			return Empty, nil
		}
		nn, ok := args[0][0].(*Node)
		if !ok {
			return nil, newError(XPTY0004, "root() requires a node argument")
		}
		n = nn
	} else {
		cn, err := contextNode(ev)
		if err != nil {
			return nil, err
		}
		n = cn
	}
	return Singleton(n.Root()), nil
}

// langMatches implements fn:lang's case-insensitive, subtag-prefix match
// (e.g. testlang "en" matches nodeLang "en-US").
func langMatches(nodeLang, testLang string) bool {
	if nodeLang == "" {
		return false
	}
	nl, tl := toLowerASCII(nodeLang), toLowerASCII(testLang)
	if nl == tl {
		return true
	}
	return len(nl) > len(tl) && nl[:len(tl)] == tl && nl[len(tl)] == '-'
}

func toLowerASCII(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
