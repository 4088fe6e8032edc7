package xpath

import "sort"

// dedupSortNodes re-sorts a node slice into document order and removes
// duplicate identities, the operation every multi-step path result and
// every union/intersect/except expression must apply before returning.
//
// Grounded on the teacher's c14n.go canonicalization walk, which always
// normalizes attribute order with sort.Strings/sort.Slice before
// serializing; here the same "normalize via a stable sort" idea targets
// node identity/document order instead of attribute names.
func dedupSortNodes(nodes []*Node) []*Node {
	if len(nodes) < 2 {
		return nodes
	}
	sort.SliceStable(nodes, func(i, j int) bool {
		return nodes[i].docOrder < nodes[j].docOrder
	})
	out := nodes[:1]
	for _, n := range nodes[1:] {
		if n != out[len(out)-1] {
			out = append(out, n)
		}
	}
	return out
}

// CompareDocumentOrder implements the `<<`/`>>` node comparison
// operators: a << b iff a precedes b in document order.
func CompareDocumentOrder(a, b *Node) CompareResult {
	switch {
	case a == b:
		return CmpEqual
	case a.docOrder < b.docOrder:
		return CmpLess
	default:
		return CmpGreater
	}
}

// assignDocumentOrder walks a freshly parsed tree in document order
// (document, then each element with its attributes immediately after
// the element, per spec.md §3.3's "attributes...ordered after their
// element", then children, depth first) and stamps docOrder fields.
// Exported for adapters that build trees outside LoadXML.
func assignDocumentOrder(root *Node) {
	counter := 0
	var walk func(n *Node)
	walk = func(n *Node) {
		n.docOrder = counter
		counter++
		for _, a := range n.Attributes {
			a.docOrder = counter
			counter++
		}
		for _, ns := range n.Namespaces {
			_ = ns // namespace nodes are synthesized on demand, not stored with doc order
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(root)
}
