package xpath

// UnionExpr is `lhs | lhs union rhs`: the node-sequence union of two
// operands, deduplicated and sorted into document order.
type UnionExpr struct{ Left, Right Expr }

func (n *UnionExpr) Eval(ev *Evaluator) (Sequence, error) {
	l, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}
	return dedupSortItems(append(append(Sequence{}, l...), r...)), nil
}

// IntersectExceptExpr is `lhs intersect rhs` / `lhs except rhs`.
type IntersectExceptExpr struct {
	Except      bool
	Left, Right Expr
}

func (n *IntersectExceptExpr) Eval(ev *Evaluator) (Sequence, error) {
	l, err := n.Left.Eval(ev)
	if err != nil {
		return nil, err
	}
	r, err := n.Right.Eval(ev)
	if err != nil {
		return nil, err
	}
	inRight := map[*Node]bool{}
	for _, it := range r {
		if n2, ok := it.(*Node); ok {
			inRight[n2] = true
		}
	}
	var out Sequence
	for _, it := range l {
		n2, ok := it.(*Node)
		if !ok {
			continue
		}
		if inRight[n2] == !n.Except {
			out = append(out, n2)
		}
	}
	return dedupSortItems(out), nil
}

// Axis enumerates the thirteen XPath axes (spec.md §3.3).
type Axis int

const (
	AxisChild Axis = iota
	AxisDescendant
	AxisDescendantOrSelf
	AxisParent
	AxisAncestor
	AxisAncestorOrSelf
	AxisFollowingSibling
	AxisPrecedingSibling
	AxisFollowing
	AxisPreceding
	AxisSelf
	AxisAttribute
	AxisNamespace
)

// NodeTest filters the nodes an axis step visits before predicates run.
type NodeTest struct {
	Wildcard bool // `*`
	Name     *ExpandedName
	Kind     *NodeKind // non-nil for a kind test (node()/text()/comment()/...)
	AnyKind  bool      // node() - always matches regardless of Kind
}

func (t NodeTest) matches(n *Node) bool {
	if t.AnyKind {
		return true
	}
	if t.Kind != nil && n.NodeKind != *t.Kind {
		return false
	}
	if t.Name != nil && n.Name != *t.Name {
		return false
	}
	return true
}

// StepExpr is one `axis::nodetest[predicate]*` step of a path.
type StepExpr struct {
	Axis       Axis
	Test       NodeTest
	Predicates []Expr
}

// Eval applies the step to the context item alone.
func (s *StepExpr) Eval(ev *Evaluator) (Sequence, error) {
	it, err := ev.DC.ContextItem()
	if err != nil {
		return nil, err
	}
	return evalStepOverSequence(ev, s, Singleton(it))
}

// PathExpr is a `/`-separated chain of steps, optionally rooted at the
// document (Absolute) rather than at the current focus.
type PathExpr struct {
	Absolute bool
	Steps    []Expr // each element is either *StepExpr or another Expr (e.g. a filter)
}

func (p *PathExpr) Eval(ev *Evaluator) (Sequence, error) {
	var current Sequence
	if p.Absolute {
		it, err := ev.DC.ContextItem()
		if err != nil {
			return nil, err
		}
		n, ok := it.(*Node)
		if !ok {
			return nil, newError(XPTY0020, "/ requires a node context item")
		}
		current = Singleton(n.Document())
	} else {
		it, err := ev.DC.ContextItem()
		if err != nil {
			return nil, err
		}
		current = Singleton(it)
	}
	for _, step := range p.Steps {
		next, err := evalStepOverSequence(ev, step, current)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return current, nil
}

// evalStepOverSequence evaluates one path step for every item in
// current, unions and sorts the node results into document order with
// duplicates removed (the path-expression node-sequence rule). A step
// that is itself a non-axis expression (e.g. a function call) may yield
// only atomic values, which are passed through as-is; a result that
// mixes nodes and non-nodes raises XPTY0018.
func evalStepOverSequence(ev *Evaluator, step Expr, current Sequence) (Sequence, error) {
	se, isAxisStep := step.(*StepExpr)
	var collected Sequence
	var nodesOnly = true
	var anyNode = false
	size := len(current)
	for i, it := range current {
		subDC := ev.DC.withFocus(FocusFrame{Item: it, Position: i + 1, Size: size})
		subEv := ev.With(subDC)
		if isAxisStep {
			n, ok := it.(*Node)
			if !ok {
				return nil, newError(XPTY0020, "axis step requires a node context item")
			}
			axisNodes := axisNodes(n, se.Axis)
			filtered := make(Sequence, 0, len(axisNodes))
			for _, cand := range axisNodes {
				if se.Test.matches(cand) {
					filtered = append(filtered, cand)
				}
			}
			for _, pred := range se.Predicates {
				var err error
				filtered, err = applyPredicate(subEv, filtered, pred)
				if err != nil {
					return nil, err
				}
			}
			collected = append(collected, filtered...)
		} else {
			v, err := step.Eval(subEv)
			if err != nil {
				return nil, err
			}
			for _, item := range v {
				if _, ok := item.(*Node); !ok {
					nodesOnly = false
				} else {
					anyNode = true
				}
			}
			collected = append(collected, v...)
		}
	}
	if !nodesOnly && anyNode {
		return nil, newError(XPTY0018, "path result mixes nodes and non-node items")
	}
	if isAxisStep || nodesOnly {
		return dedupSortItems(collected), nil
	}
	return collected, nil
}

func dedupSortItems(seq Sequence) Sequence {
	nodes := make([]*Node, 0, len(seq))
	for _, it := range seq {
		n, ok := it.(*Node)
		if !ok {
			return seq
		}
		nodes = append(nodes, n)
	}
	sorted := dedupSortNodes(nodes)
	out := make(Sequence, len(sorted))
	for i, n := range sorted {
		out[i] = n
	}
	return out
}

// axisNodes enumerates the candidate nodes an axis reaches from n,
// before node-test filtering. Grounded on the teacher's
// findAllRecursively/QueryAll segment walker: gather candidates first,
// filter second, same two-phase shape generalized from map keys to real
// parent/sibling/attribute pointers.
func axisNodes(n *Node, axis Axis) []*Node {
	switch axis {
	case AxisSelf:
		return []*Node{n}
	case AxisChild:
		return append([]*Node{}, n.Children...)
	case AxisAttribute:
		return append([]*Node{}, n.Attributes...)
	case AxisParent:
		if n.Parent != nil {
			return []*Node{n.Parent}
		}
		return nil
	case AxisDescendant:
		return collectDescendants(n, false)
	case AxisDescendantOrSelf:
		return collectDescendants(n, true)
	case AxisAncestor:
		return collectAncestors(n, false)
	case AxisAncestorOrSelf:
		return collectAncestors(n, true)
	case AxisFollowingSibling:
		return siblings(n, true)
	case AxisPrecedingSibling:
		return siblings(n, false)
	case AxisFollowing:
		return collectFollowingOrPreceding(n, true)
	case AxisPreceding:
		return collectFollowingOrPreceding(n, false)
	case AxisNamespace:
		return nil
	}
	return nil
}

func collectDescendants(n *Node, includeSelf bool) []*Node {
	var out []*Node
	if includeSelf {
		out = append(out, n)
	}
	var walk func(*Node)
	walk = func(cur *Node) {
		for _, c := range cur.Children {
			out = append(out, c)
			walk(c)
		}
	}
	walk(n)
	return out
}

func collectAncestors(n *Node, includeSelf bool) []*Node {
	var out []*Node
	if includeSelf {
		out = append(out, n)
	}
	for cur := n.Parent; cur != nil; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

func siblings(n *Node, following bool) []*Node {
	if n.Parent == nil {
		return nil
	}
	idx := -1
	for i, c := range n.Parent.Children {
		if c == n {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	var out []*Node
	if following {
		out = append(out, n.Parent.Children[idx+1:]...)
	} else {
		for i := idx - 1; i >= 0; i-- {
			out = append(out, n.Parent.Children[i])
		}
	}
	return out
}

func collectFollowingOrPreceding(n *Node, following bool) []*Node {
	root := n.Root()
	all := collectDescendants(root, true)
	var out []*Node
	ancestorsAndSelf := map[*Node]bool{}
	for _, a := range collectAncestors(n, true) {
		ancestorsAndSelf[a] = true
	}
	for _, cand := range all {
		if ancestorsAndSelf[cand] {
			continue
		}
		if following && cand.DocOrder() > n.DocOrder() {
			out = append(out, cand)
		}
		if !following && cand.DocOrder() < n.DocOrder() {
			out = append(out, cand)
		}
	}
	return out
}
