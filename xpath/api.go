package xpath

import "context"

// Evaluate compiles and runs expr against dc in one step, the common
// case spec.md §6.1 names as `evaluate(tree, dynamic_context)` collapsed
// with parsing for callers that do not need to reuse a parsed tree.
func Evaluate(ctx context.Context, expr string, dc *DynamicContext) (Sequence, error) {
	tree, err := Parse(expr, dc.Static)
	if err != nil {
		return nil, err
	}
	return NewEvaluator(ctx, dc).Eval(tree)
}

// Select is the lazy-sequence convenience form spec.md §6.1 names; this
// engine's evaluator already builds full in-memory Sequences rather
// than a generator pipeline (spec.md's Non-goals exclude streaming
// evaluation), so Select is Evaluate under another name, kept as its
// own entry point for call sites that want to read "iterate a result"
// rather than "get or error a value" at the call site.
func Select(ctx context.Context, expr string, dc *DynamicContext) (Sequence, error) {
	return Evaluate(ctx, expr, dc)
}

// MustParse is a test/REPL convenience that panics on a parse error,
// mirroring the teacher's MustCompile-style helpers for constant
// expressions known at compile time.
func MustParse(expr string, sc *StaticContext) Expr {
	tree, err := Parse(expr, sc)
	if err != nil {
		panic(err)
	}
	return tree
}
