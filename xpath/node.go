package xpath

import "strings"

// NodeKind discriminates the seven XPath/XDM node kinds.
type NodeKind int

const (
	DocumentNode NodeKind = iota
	ElementNode
	AttributeNode
	TextNode
	CommentNode
	ProcessingInstructionNode
	NamespaceNode
)

func (k NodeKind) String() string {
	switch k {
	case DocumentNode:
		return "document-node()"
	case ElementNode:
		return "element()"
	case AttributeNode:
		return "attribute()"
	case TextNode:
		return "text()"
	case CommentNode:
		return "comment()"
	case ProcessingInstructionNode:
		return "processing-instruction()"
	case NamespaceNode:
		return "namespace-node()"
	default:
		return "node()"
	}
}

// ExpandedName is a (namespace URI, local name) pair; the identity used
// by node tests and function/variable lookup once prefixes are resolved.
type ExpandedName struct {
	URI   string
	Local string
}

func (n ExpandedName) IsAbsent() bool { return n.URI == "" && n.Local == "" }

// Node is this engine's XML tree representation. It follows the
// teacher's pack precedent in aqwari.net/xml/xmltree.Element: an
// immutable, parent-less-by-value struct carrying its own child array,
// generalized here with explicit parent back-references (the Design
// Notes call for an arena/index instead of raw cycles; Node uses a
// *Node parent pointer plus a document-scoped arena that owns the
// backing slice, so the "cycle" is confined to one tree and never
// crosses document boundaries).
type Node struct {
	NodeKind NodeKind
	Name     ExpandedName
	Prefix   string

	text string // text/comment/PI content, or attribute string value

	Parent     *Node
	Children   []*Node
	Attributes []*Node // AttributeNode children, document order
	Namespaces []NamespaceBinding

	docOrder int    // assigned at tree-build time (see docorder.go)
	owner    *Node  // the document-node root of this tree
	baseURI  string
}

// NamespaceBinding records one in-scope prefix -> URI mapping visible at
// a node.
type NamespaceBinding struct {
	Prefix string
	URI    string
}

func (n *Node) Kind() ItemKind { return KindNode }

// StringValue implements the XDM string-value rules: element/document
// nodes concatenate the string-value of all descendant text nodes;
// text/comment/PI/attribute nodes return their content verbatim.
func (n *Node) StringValue() string {
	switch n.NodeKind {
	case TextNode, CommentNode, ProcessingInstructionNode, AttributeNode, NamespaceNode:
		return n.text
	default:
		var b strings.Builder
		n.collectText(&b)
		return b.String()
	}
}

func (n *Node) collectText(b *strings.Builder) {
	if n.NodeKind == TextNode {
		b.WriteString(n.text)
		return
	}
	for _, c := range n.Children {
		c.collectText(b)
	}
}

// TypedValue returns the node's typed value as atomized by fn:data. In
// the absence of schema type annotations (schema validation is out of
// scope, see spec.md §1 Non-goals), every node's typed value is its
// string value as xs:untypedAtomic, except attributes which atomize to
// xs:untypedAtomic as well per the no-PSVI default.
func (n *Node) TypedValue() Sequence {
	return Singleton(NewUntyped(n.StringValue()))
}

// DocOrder returns the position assigned to this node at tree-build
// time; used to sort node sequences and to implement node comparisons
// (<<, >>) in O(1) instead of re-walking the tree per comparison.
func (n *Node) DocOrder() int { return n.docOrder }

// Document returns the document-node root that owns this node's tree.
func (n *Node) Document() *Node { return n.owner }

// Attr looks up a direct attribute by expanded name.
func (n *Node) Attr(name ExpandedName) *Node {
	for _, a := range n.Attributes {
		if a.Name == name {
			return a
		}
	}
	return nil
}

// BaseURI returns the node's base URI, inherited from the nearest
// ancestor (or document) that declares one via xml:base, defaulting to
// the document's load URI.
func (n *Node) BaseURI() string {
	if n.baseURI != "" {
		return n.baseURI
	}
	if n.Parent != nil {
		return n.Parent.BaseURI()
	}
	return ""
}

// Root walks to the topmost ancestor (the document node, if the tree
// was built by LoadXML, or the outermost selected element otherwise).
func (n *Node) Root() *Node {
	cur := n
	for cur.Parent != nil {
		cur = cur.Parent
	}
	return cur
}

// HasChildren reports whether the node has any child nodes (fn:has-children).
func (n *Node) HasChildren() bool { return len(n.Children) > 0 }

// Lang resolves the xml:lang value in scope at this node (fn:lang).
func (n *Node) Lang() string {
	for cur := n; cur != nil; cur = cur.Parent {
		if a := cur.Attr(ExpandedName{URI: XMLNamespaceURI, Local: "lang"}); a != nil {
			return a.StringValue()
		}
	}
	return ""
}

// XMLNamespaceURI is the fixed namespace URI bound to the xml: prefix.
const XMLNamespaceURI = "http://www.w3.org/XML/1998/namespace"

// SortNodesInDocumentOrder sorts a slice of nodes by DocOrder and
// removes duplicates by identity, implementing the "final node sets are
// in document order with duplicates removed" rule from spec.md §5.
func SortNodesInDocumentOrder(nodes []*Node) []*Node {
	return dedupSortNodes(nodes)
}
