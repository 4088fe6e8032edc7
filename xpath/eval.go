package xpath

import "context"

// Evaluator is the single mutable piece of state threaded through a
// tree walk: the dynamic context in effect plus a cancellation Context
// so a long-running query (an unbounded `//` scan of a huge tree) can be
// aborted from outside, matching the teacher's own preference for
// stdlib context over a bespoke cancellation channel.
type Evaluator struct {
	DC  *DynamicContext
	Ctx context.Context
}

// NewEvaluator builds an Evaluator ready to walk an expression tree.
func NewEvaluator(ctx context.Context, dc *DynamicContext) *Evaluator {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Evaluator{DC: dc, Ctx: ctx}
}

// checkCancel surfaces context cancellation as a FOER0000 dynamic error
// rather than letting the caller see a silently truncated result.
func (ev *Evaluator) checkCancel() error {
	select {
	case <-ev.Ctx.Done():
		return newError(FOER0000, "evaluation cancelled: %v", ev.Ctx.Err())
	default:
		return nil
	}
}

// Eval walks expr under the evaluator's current dynamic context. Every
// Expr implementation ultimately funnels through this so a future
// instrumentation hook (step counting, a recursion-depth guard) has one
// choke point; for now it just forwards to expr.Eval after a
// cancellation check, keeping each expression type free of that
// boilerplate.
func (ev *Evaluator) Eval(expr Expr) (Sequence, error) {
	if err := ev.checkCancel(); err != nil {
		return nil, err
	}
	return expr.Eval(ev)
}

// With returns a shallow copy of ev over a different DynamicContext,
// used whenever a sub-evaluation needs its own focus (a path step, a
// predicate, a FLWOR clause body) without disturbing the caller's.
func (ev *Evaluator) With(dc *DynamicContext) *Evaluator {
	return &Evaluator{DC: dc, Ctx: ev.Ctx}
}
