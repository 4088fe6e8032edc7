package xpath

import (
	"net/url"
	"strings"
)

// init populates the QName family: QName construction, component
// accessors, and resolve-QName (which needs the in-scope namespaces of
// the static context to resolve a lexical prefix).
func init() {
	RegisterFunction(fnName("QName"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			uri, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			lexical, err := argString(args[1])
			if err != nil {
				return nil, err
			}
			prefix, local := splitQName(lexical)
			return Singleton(NewQName(QName{Prefix: prefix, URI: uri, Local: local})), nil
		})

	RegisterFunction(fnName("resolve-QName"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			lexical, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			prefix, local := splitQName(lexical)
			uri, ok := ev.DC.Static.ResolveNamespace(prefix)
			if !ok {
				return nil, newError(FONS0004, "no namespace bound to prefix %q", prefix)
			}
			return Singleton(NewQName(QName{Prefix: prefix, URI: uri, Local: local})), nil
		})

	registerQNameAccessor("local-name-from-QName", func(q QName) Atomic { return NewUntyped(q.Local) })
	registerQNameAccessor("prefix-from-QName", func(q QName) Atomic {
		if q.Prefix == "" {
			return zeroLengthString
		}
		return NewUntyped(q.Prefix)
	})
	registerQNameAccessor("namespace-uri-from-QName", func(q QName) Atomic { return NewAnyURI(q.URI) })

	RegisterFunction(fnName("namespace-uri-for-prefix"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			prefix, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			uri, ok := ev.DC.Static.ResolveNamespace(prefix)
			if !ok {
				return Empty, nil
			}
			return Singleton(NewAnyURI(uri)), nil
		})

	RegisterFunction(fnName("resolve-uri"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional}, fnResolveURI)
	RegisterFunction(fnName("resolve-uri"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeAnyURI}, Occurrence: OccurrenceOptional}, fnResolveURI)

	registerURIEscape("encode-for-uri", uriUnreservedRFC3986)
	registerURIEscape("iri-to-uri", uriUnreservedIRI)
	registerURIEscape("escape-html-uri", uriUnreservedHTML)
}

// fnResolveURI implements fn:resolve-uri, resolving $relative against an
// explicit base (2-arg form) or the static base URI (1-arg form), using
// net/url the way Go programs ordinarily do relative-reference
// resolution (RFC 3986 §5) rather than hand-rolling it.
func fnResolveURI(ev *Evaluator, args []Sequence) (Sequence, error) {
	if len(args[0]) == 0 {
		return Empty, nil
	}
	rel, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	base := ev.DC.Static.BaseURI
	if len(args) == 2 {
		base, err = argString(args[1])
		if err != nil {
			return nil, err
		}
	}
	if base == "" {
		u, err := url.Parse(rel)
		if err != nil {
			return nil, newError(FORG0009, "invalid relative URI %q: %v", rel, err)
		}
		return Singleton(NewAnyURI(u.String())), nil
	}
	baseU, err := url.Parse(base)
	if err != nil {
		return nil, newError(FORG0009, "invalid base URI %q: %v", base, err)
	}
	relU, err := url.Parse(rel)
	if err != nil {
		return nil, newError(FORG0009, "invalid relative URI %q: %v", rel, err)
	}
	return Singleton(NewAnyURI(baseU.ResolveReference(relU).String())), nil
}

// uriUnreservedRFC3986 is RFC 3986's unreserved set (letters, digits and
// "-_.~"), which fn:encode-for-uri leaves untouched: every octet outside it
// is percent-encoded, including "/" (unlike encodeURIComponent's looser
// cousins).
func uriUnreservedRFC3986(b byte) bool {
	return b >= 'A' && b <= 'Z' || b >= 'a' && b <= 'z' || b >= '0' && b <= '9' ||
		strings.IndexByte("-_.~", b) >= 0
}

// uriUnreservedIRI additionally leaves the generic URI delimiters and
// non-ASCII octets alone, matching fn:iri-to-uri's narrower "only encode
// what XML forbids in a URI" behavior.
func uriUnreservedIRI(b byte) bool {
	return b >= 0x21 && b != '"' && b != '<' && b != '>' && b != '\\' && b != '^' && b != '`' && b != '{' && b != '|' && b != '}'
}

// uriUnreservedHTML matches fn:escape-html-uri's HTML4-compatible rule:
// ASCII control characters, space, DEL, non-ASCII bytes and a handful of
// reserved marks are escaped; everything else (including "/") is passed
// through verbatim.
func uriUnreservedHTML(b byte) bool {
	return b > 0x20 && b < 0x7F && strings.IndexByte(`"<>\^`+"`"+`{|}`, b) < 0
}

func registerURIEscape(local string, keep func(byte) bool) {
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			s, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(NewString(percentEncode(s, keep))), nil
		})
}

func percentEncode(s string, keep func(byte) bool) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if keep(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0xF])
	}
	return b.String()
}

var zeroLengthString = NewUntyped("")

func splitQName(lexical string) (prefix, local string) {
	if i := strings.IndexByte(lexical, ':'); i >= 0 {
		return lexical[:i], lexical[i+1:]
	}
	return "", lexical
}

func registerQNameAccessor(local string, extract func(QName) Atomic) {
	RegisterFunction(fnName(local), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeQName}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			a, err := AtomizeOne(args[0])
			if err != nil {
				return nil, err
			}
			return Singleton(extract(a.QNameValue())), nil
		})
}
