package xpath

import (
	"os"
	"strings"
)

// init populates fn:doc/fn:doc-available/fn:collection, the engine's
// only I/O surface, routed entirely through DynamicContext.DocLoader so
// a host embedding this engine controls what URIs resolve to (spec.md
// §6.2 "hosts supply document access"; the zero-value DocLoader raises
// FODC0002 for every URI, matching the teacher's fail-closed network
// defaults).
func init() {
	RegisterFunction(fnName("doc"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Empty, nil
			}
			uri, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			n, err := loadDoc(ev, uri)
			if err != nil {
				return nil, err
			}
			return Singleton(n), nil
		})

	RegisterFunction(fnName("doc-available"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			if len(args[0]) == 0 {
				return Singleton(NewBoolean(false)), nil
			}
			uri, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			_, loadErr := loadDoc(ev, uri)
			return Singleton(NewBoolean(loadErr == nil)), nil
		})

	RegisterFunction(fnName("collection"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnCollection)
	RegisterFunction(fnName("collection"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeNodeKind, AnyNodeKind: true}, Occurrence: OccurrenceZeroOrMore}, fnCollection)

	RegisterFunction(fnName("unparsed-text"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}, fnUnparsedText)
	RegisterFunction(fnName("unparsed-text"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional}, fnUnparsedText)

	RegisterFunction(fnName("unparsed-text-lines"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore}, fnUnparsedTextLines)
	RegisterFunction(fnName("unparsed-text-lines"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore}, fnUnparsedTextLines)

	RegisterFunction(fnName("unparsed-text-available"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}}, fnUnparsedTextAvailable)
	RegisterFunction(fnName("unparsed-text-available"), 2, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeBoolean}}, fnUnparsedTextAvailable)

	// environment-variable/available-environment-variables read the host
	// process's environment directly via os.LookupEnv/os.Environ: no example
	// repo in the retrieval pack offers an environment-access library, so
	// this is a deliberate stdlib-necessity exception (documented in
	// DESIGN.md alongside the math:* exception).
	RegisterFunction(fnName("environment-variable"), 1, []SequenceType{
		{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}},
	}, SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceOptional},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			name, err := argString(args[0])
			if err != nil {
				return nil, err
			}
			v, ok := os.LookupEnv(name)
			if !ok {
				return Empty, nil
			}
			return Singleton(NewString(v)), nil
		})

	RegisterFunction(fnName("available-environment-variables"), 0, nil,
		SequenceType{Item: ItemType{Kind: ItemTypeAtomic, AtomicType: TypeString}, Occurrence: OccurrenceZeroOrMore},
		func(ev *Evaluator, args []Sequence) (Sequence, error) {
			env := os.Environ()
			out := make(Sequence, len(env))
			for i, kv := range env {
				name := kv
				if idx := strings.IndexByte(kv, '='); idx >= 0 {
					name = kv[:idx]
				}
				out[i] = NewString(name)
			}
			return out, nil
		})
}

// loadText resolves and decodes $uri via DynamicContext.TextLoader,
// mirroring loadDoc's fail-closed default (FOUT1170 instead of
// FODC0002, fn:unparsed-text's own "no loader" error per spec.md §4.4).
func loadText(ev *Evaluator, uri, encoding string) (string, error) {
	if ev.DC.TextLoader == nil {
		return "", newError(FOUT1170, "no text loader configured; cannot resolve %q", uri)
	}
	resolved := uri
	if ev.DC.Resolver != nil {
		r, err := ev.DC.Resolver(ev.DC.Static.BaseURI, uri)
		if err != nil {
			return "", newError(FODC0005, "invalid URI %q: %v", uri, err)
		}
		resolved = r
	}
	if err := ev.checkCancel(); err != nil {
		return "", err
	}
	data, err := ev.DC.TextLoader(ev.Ctx, resolved, encoding)
	if err != nil {
		return "", newError(FOUT1170, "cannot read %q: %v", uri, err)
	}
	if encoding == "" {
		return string(data), nil
	}
	return decodeWithCharset(data, encoding)
}

func fnUnparsedText(ev *Evaluator, args []Sequence) (Sequence, error) {
	if len(args[0]) == 0 {
		return Empty, nil
	}
	uri, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	encoding := ""
	if len(args) == 2 {
		encoding, err = argString(args[1])
		if err != nil {
			return nil, err
		}
	}
	text, err := loadText(ev, uri, encoding)
	if err != nil {
		return nil, err
	}
	return Singleton(NewString(text)), nil
}

func fnUnparsedTextLines(ev *Evaluator, args []Sequence) (Sequence, error) {
	text, err := fnUnparsedText(ev, args)
	if err != nil {
		return nil, err
	}
	if len(text) == 0 {
		return Empty, nil
	}
	s := text[0].(Atomic).StringValue()
	s = strings.TrimSuffix(strings.TrimSuffix(s, "\n"), "\r")
	if s == "" {
		return Empty, nil
	}
	lines := strings.Split(s, "\n")
	out := make(Sequence, len(lines))
	for i, l := range lines {
		out[i] = NewString(strings.TrimSuffix(l, "\r"))
	}
	return out, nil
}

func fnUnparsedTextAvailable(ev *Evaluator, args []Sequence) (Sequence, error) {
	if len(args[0]) == 0 {
		return Singleton(NewBoolean(false)), nil
	}
	uri, err := argString(args[0])
	if err != nil {
		return nil, err
	}
	encoding := ""
	if len(args) == 2 {
		encoding, err = argString(args[1])
		if err != nil {
			return nil, err
		}
	}
	_, loadErr := loadText(ev, uri, encoding)
	return Singleton(NewBoolean(loadErr == nil)), nil
}

func loadDoc(ev *Evaluator, uri string) (*Node, error) {
	if ev.DC.DocLoader == nil {
		return nil, newError(FODC0002, "no document loader configured; cannot resolve %q", uri)
	}
	resolved := uri
	if ev.DC.Resolver != nil {
		r, err := ev.DC.Resolver(ev.DC.Static.BaseURI, uri)
		if err != nil {
			return nil, newError(FODC0005, "invalid URI %q: %v", uri, err)
		}
		resolved = r
	}
	if err := ev.checkCancel(); err != nil {
		return nil, err
	}
	return ev.DC.DocLoader(ev.Ctx, resolved)
}

// fnCollection has no default collection URI resolver wired in; a host
// that wants fn:collection() support supplies one via DocLoader under a
// reserved "collection:" scheme, following spec.md §6.2's loader hook.
func fnCollection(ev *Evaluator, args []Sequence) (Sequence, error) {
	uri := ""
	if len(args) == 1 && len(args[0]) > 0 {
		var err error
		uri, err = argString(args[0])
		if err != nil {
			return nil, err
		}
	}
	n, err := loadDoc(ev, "collection:"+uri)
	if err != nil {
		return nil, newError(FODC0002, "no collection available for %q", uri)
	}
	return Singleton(n), nil
}
