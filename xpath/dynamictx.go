package xpath

import (
	"context"
	"time"
)

// FocusFrame is one level of the focus stack: the context item plus its
// position and size within the sequence currently being stepped over
// (spec.md §4.1 "the focus" — `.`, `position()`, `last()`).
type FocusFrame struct {
	Item     Item
	Position int
	Size     int
}

// DynamicContext carries the per-evaluation state: the focus stack,
// variable bindings, and the caller-supplied clock/resolver
// collaborators. Unlike StaticContext it is mutated (pushed/popped) as
// evaluation steps through path expressions and FLWOR clauses.
type DynamicContext struct {
	Static           *StaticContext
	Focus            []FocusFrame
	Variables        map[ExpandedName]Sequence
	Now              func() Atomic
	ImplicitTimezone func() Duration
	DocLoader        func(ctx context.Context, uri string) (*Node, error)
	TextLoader       func(ctx context.Context, uri, encoding string) ([]byte, error)
	Resolver         func(base, relative string) (string, error)
}

// DynamicOption configures a DynamicContext.
type DynamicOption func(*DynamicContext)

// NewDynamicContext builds a DynamicContext over a static context, with
// a dateTime() clock defaulting to real time() unless overridden (tests
// override it with WithFixedNow for reproducibility).
func NewDynamicContext(sc *StaticContext, opts ...DynamicOption) *DynamicContext {
	dc := &DynamicContext{
		Static:           sc,
		Variables:        map[ExpandedName]Sequence{},
		Now:              realNow,
		ImplicitTimezone: realImplicitTimezone,
	}
	for _, opt := range opts {
		opt(dc)
	}
	return dc
}

// WithContextItem establishes the initial focus (the `.` a top-level
// path expression steps from), with position and size both 1.
func WithContextItem(it Item) DynamicOption {
	return func(dc *DynamicContext) {
		dc.Focus = []FocusFrame{{Item: it, Position: 1, Size: 1}}
	}
}

// WithVariableValue binds an in-scope variable's value.
func WithVariableValue(name ExpandedName, v Sequence) DynamicOption {
	return func(dc *DynamicContext) { dc.Variables[name] = v }
}

// WithFixedNow overrides the clock fn:current-dateTime() and friends
// consult, so that two evaluations of the same query are byte-identical.
func WithFixedNow(now Atomic) DynamicOption {
	return func(dc *DynamicContext) { dc.Now = func() Atomic { return now } }
}

// WithDocLoader overrides fn:doc()'s URI resolution; the default raises
// FODC0002 for every URI, since this engine has no I/O of its own
// wired in by default.
func WithDocLoader(loader func(ctx context.Context, uri string) (*Node, error)) DynamicOption {
	return func(dc *DynamicContext) { dc.DocLoader = loader }
}

// WithTextLoader overrides fn:unparsed-text()'s URI resolution; the
// default raises FOUT1170 for every URI, mirroring WithDocLoader's
// fail-closed default. encoding is the caller-requested character
// encoding, or "" when the function was called without one.
func WithTextLoader(loader func(ctx context.Context, uri, encoding string) ([]byte, error)) DynamicOption {
	return func(dc *DynamicContext) { dc.TextLoader = loader }
}

// WithImplicitTimezone overrides the timezone fn:implicit-timezone() and
// the timezone-defaulting rules of the date/time constructors consult,
// independently of WithFixedNow.
func WithImplicitTimezone(tz Duration) DynamicOption {
	return func(dc *DynamicContext) { dc.ImplicitTimezone = func() Duration { return tz } }
}

// PushFocus enters a new focus frame (e.g. a path step's node sequence).
func (dc *DynamicContext) PushFocus(it Item, pos, size int) {
	dc.Focus = append(dc.Focus, FocusFrame{Item: it, Position: pos, Size: size})
}

// PopFocus leaves the innermost focus frame.
func (dc *DynamicContext) PopFocus() {
	dc.Focus = dc.Focus[:len(dc.Focus)-1]
}

// CurrentFocus returns the innermost focus frame, or false if there is
// no context item (XPDY0002 at the call site).
func (dc *DynamicContext) CurrentFocus() (FocusFrame, bool) {
	if len(dc.Focus) == 0 {
		return FocusFrame{}, false
	}
	return dc.Focus[len(dc.Focus)-1], true
}

// ContextItem returns the current `.`, or XPDY0002 if there is none.
func (dc *DynamicContext) ContextItem() (Item, error) {
	f, ok := dc.CurrentFocus()
	if !ok {
		return nil, newError(XPDY0002, "no context item is set")
	}
	return f.Item, nil
}

// WithVariable returns a shallow copy of dc with one more (or replaced)
// variable binding, used by `let`/`for` clauses and function calls to
// extend scope without mutating the caller's context.
func (dc *DynamicContext) WithVariable(name ExpandedName, v Sequence) *DynamicContext {
	next := *dc
	next.Variables = make(map[ExpandedName]Sequence, len(dc.Variables)+1)
	for k, val := range dc.Variables {
		next.Variables[k] = val
	}
	next.Variables[name] = v
	return &next
}

// withFocus returns a shallow copy of dc with one more focus frame
// pushed, leaving the receiver's focus stack untouched.
func (dc *DynamicContext) withFocus(f FocusFrame) *DynamicContext {
	next := *dc
	next.Focus = append(append([]FocusFrame{}, dc.Focus...), f)
	return &next
}

func realNow() Atomic {
	return NewDateTime(time.Now(), true)
}

// realImplicitTimezone reports the host's local UTC offset at the
// moment it is called, matching realNow's use of wall-clock time.
func realImplicitTimezone() Duration {
	_, offset := time.Now().Zone()
	return Duration{Seconds: float64(offset)}
}
