package xpath

import (
	"encoding/xml"
	"io"
	"strings"
)

// LoadOption configures LoadXML, mirroring the teacher's functional
// Option pattern (xml.Option / xml.ForceArray / xml.EnableLegacyCharsets)
// generalized from the OrderedMap mapper to the Node tree builder.
type LoadOption func(*loadConfig)

type loadConfig struct {
	lenient          bool
	useCharsetReader bool
	baseURI          string
}

// Lenient enables tolerant parsing of not-quite-well-formed markup,
// equivalent to the teacher's lenient/Soup mode but scoped to relaxing
// the decoder's strictness, not HTML tag-soup repair (out of scope: the
// core consumes XML-shaped data, see spec.md §1).
func Lenient() LoadOption {
	return func(c *loadConfig) { c.lenient = true }
}

// WithLegacyCharsetReader enables the Windows-1252/ISO-8859-1 fallback
// decoder reused from the teacher's charset table (see charset.go),
// needed by hosts feeding fn:unparsed-text documents in legacy encodings.
func WithLegacyCharsetReader() LoadOption {
	return func(c *loadConfig) { c.useCharsetReader = true }
}

// WithBaseURI sets the document's static base URI (xs:anyURI returned
// by fn:base-uri/fn:document-uri absent an xml:base override).
func WithBaseURI(uri string) LoadOption {
	return func(c *loadConfig) { c.baseURI = uri }
}

// LoadXML parses r into a Node tree rooted at a DocumentNode, assigning
// document order as it goes. It is the engine's own built-in node
// adapter (spec.md §6.2); hosts may instead implement their own tree
// and hand it directly to a DynamicContext, since the evaluator only
// depends on *Node, never on how it was constructed.
func LoadXML(r io.Reader, opts ...LoadOption) (*Node, error) {
	cfg := &loadConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	dec := xml.NewDecoder(r)
	if cfg.lenient {
		dec.Strict = false
	}
	if cfg.useCharsetReader {
		dec.CharsetReader = legacyCharsetReader
	}

	doc := &Node{NodeKind: DocumentNode, baseURI: cfg.baseURI}
	doc.owner = doc
	stack := []*Node{doc}
	var nsStack [][]NamespaceBinding

	for {
		tok, err := dec.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, wrapError(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			parent := stack[len(stack)-1]
			var scope []NamespaceBinding
			if len(nsStack) > 0 {
				scope = append(scope, nsStack[len(nsStack)-1]...)
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					scope = append(scope, NamespaceBinding{Prefix: a.Name.Local, URI: a.Value})
				} else if a.Name.Local == "xmlns" && a.Name.Space == "" {
					scope = append(scope, NamespaceBinding{Prefix: "", URI: a.Value})
				}
			}
			nsStack = append(nsStack, scope)

			el := &Node{
				NodeKind:   ElementNode,
				Name:       ExpandedName{URI: t.Name.Space, Local: t.Name.Local},
				Prefix:     prefixOf(t.Name),
				Parent:     parent,
				owner:      doc,
				Namespaces: scope,
			}
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" || (a.Name.Local == "xmlns" && a.Name.Space == "") {
					continue
				}
				attr := &Node{
					NodeKind: AttributeNode,
					Name:     ExpandedName{URI: a.Name.Space, Local: a.Name.Local},
					Prefix:   prefixOf(a.Name),
					text:     a.Value,
					Parent:   el,
					owner:    doc,
				}
				el.Attributes = append(el.Attributes, attr)
			}
			parent.Children = append(parent.Children, el)
			stack = append(stack, el)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			if len(nsStack) > 0 {
				nsStack = nsStack[:len(nsStack)-1]
			}

		case xml.CharData:
			s := string(t)
			if strings.TrimSpace(s) == "" && strings.TrimRight(s, " \t\r\n") == "" && strings.Trim(s, " \t\r\n") == "" {
				// still record whitespace-only text nodes: XPath's
				// data model keeps them (callers use normalize-space
				// or boundary-whitespace stripping upstream if unwanted).
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{
				NodeKind: TextNode,
				text:     s,
				Parent:   parent,
				owner:    doc,
			})

		case xml.Comment:
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{
				NodeKind: CommentNode,
				text:     string(t),
				Parent:   parent,
				owner:    doc,
			})

		case xml.ProcInst:
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{
				NodeKind: ProcessingInstructionNode,
				Name:     ExpandedName{Local: t.Target},
				text:     string(t.Inst),
				Parent:   parent,
				owner:    doc,
			})
		}
	}

	assignDocumentOrder(doc)
	return doc, nil
}

func prefixOf(n xml.Name) string {
	// encoding/xml resolves the URI itself and discards the literal
	// prefix; we don't attempt to recover it here since axis/node-test
	// matching only ever needs the expanded name.
	return ""
}
