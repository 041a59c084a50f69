package barb

import (
	"context"
	"fmt"
	"reflect"
	"strings"
)

// resolveSingle implements the Single-Node Resolver: rewrites that depend
// only on one node (plus the environment), never on a neighbor. It
// reports changed=false when the node's shape has nothing left for this
// resolver to do, so the walker falls through to Pairwise, Triple, and
// finally Shift.
func (rc *reduceCtx) resolveSingle(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	switch n.Kind {
	case KindReturned:
		return rc.resolveReturned(ctx, n)

	case KindUnknown:
		return rc.resolveUnknown(ctx, env, n)

	case KindSubExpression:
		return rc.resolveComposite(ctx, env, n)

	case KindTuple:
		return rc.resolveComposite(ctx, env, n)

	case KindIndexArgs:
		return rc.resolveComposite(ctx, env, n)

	case KindArrayBuilder:
		return rc.resolveArrayBuilder(ctx, env, n, false)

	case KindSetBuilder:
		return rc.resolveArrayBuilder(ctx, env, n, true)

	case KindAppliedProperty:
		return rc.resolvePropertyRead(ctx, n)

	case KindAppliedMultiProperty:
		return rc.resolveMultiPropertyRead(ctx, n)

	case KindLambda:
		if len(n.Params) == 0 {
			return rc.resolveLambdaCall(ctx, env, n)
		}
		return n, false, nil

	case KindIfThenElse:
		return rc.resolveIfThenElse(ctx, env, n)

	case KindGenerator:
		return rc.resolveGenerator(ctx, env, n)

	case KindAnd:
		return rc.resolveShortCircuit(ctx, env, n, true)

	case KindOr:
		return rc.resolveShortCircuit(ctx, env, n, false)

	default:
		return n, false, nil
	}
}

// resolveReturned normalizes a freshly-returned host value (spec.md
// §4.3's return-normalization) into the canonical node for its shape,
// e.g. mapping a host null to the universal nil Obj.
func (rc *reduceCtx) resolveReturned(ctx context.Context, n Node) (Node, bool, error) {
	if rc.host == nil {
		return Obj(n.Offset, n.Length, n.Value), true, nil
	}
	out := rc.host.ResolveResultType(ctx, n.Value)
	out.Offset, out.Length = n.Offset, n.Length
	return out, true, nil
}

// resolveUnknown looks an identifier up in env. Final reduction raises
// unbound-name for a name with no binding at all, and unknown-name for a
// name whose binding is only a ComingLater promise, since that name was
// declared but never supplied. A name with no local binding but
// a qualified `type:member` shape (the `$type:member` static-reference
// front-end sugar) is tried against Host.CachedResolveStatic before it is
// given up as unbound, matching the same static-member rule the Unknown/
// AppliedInvoke pairwise case uses for `TypeName.member` dot-access.
func (rc *reduceCtx) resolveUnknown(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	comingLater, factory, ok := env.Lookup(n.Name)
	switch {
	case !ok:
		if typeName, member, qualified := splitQualifiedName(n.Name); qualified && (rc.final || rc.settings.BindGlobalsWhenReducing) {
			nodes, err := rc.host.CachedResolveStatic(ctx, rc.settings.Namespaces, typeName, member)
			if err != nil {
				return Node{}, false, newExecError(ErrKindAmbiguousStaticResolution, n.Offset, n.Length, traceNode(n), "%v", err)
			}
			if len(nodes) == 1 {
				out := nodes[0]
				out.Offset, out.Length = n.Offset, n.Length
				return out, true, nil
			}
		}
		if rc.final {
			return Node{}, false, newExecError(ErrKindUnboundName, n.Offset, n.Length, traceNode(n), "unbound name %q", n.Name)
		}
		out := n
		out.Unresolved = true
		return out, true, nil

	case comingLater:
		if rc.final {
			return Node{}, false, newExecError(ErrKindUnknownName, n.Offset, n.Length, traceNode(n), "name %q promised but never bound", n.Name)
		}
		out := n
		out.Unresolved = true
		return out, true, nil

	default:
		return factory(n.Offset, n.Length), true, nil
	}
}

// splitQualifiedName splits a `type:member` Unknown name produced by the
// `$type:member` static-reference syntax. Plain identifiers have no
// colon and report ok=false.
func splitQualifiedName(name string) (typeName, member string, ok bool) {
	i := strings.IndexByte(name, ':')
	if i < 0 {
		return "", "", false
	}
	return name[:i], name[i+1:], true
}

// resolveComposite reduces a SubExpression/Tuple/IndexArgs node's
// children and folds the shape back down. A SubExpression's Items are a
// flat, unassociated operand/operator sequence (see syntax.wrapFlat) —
// they are run back through the same LIFO-left/FIFO-right walk the
// caller is already in, so Pairwise/Triple can fold across them,
// converging to one node whenever enough of the chain has resolved.
// Tuple and IndexArgs items are independent sibling expressions instead
// (a comma list, not an operator chain) and each reduces on its own,
// keeping its arity.
func (rc *reduceCtx) resolveComposite(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	if n.Kind == KindSubExpression {
		items, err := rc.reduceNodes(ctx, env, n.Items)
		if err != nil {
			return Node{}, false, err
		}
		if len(items) == 1 {
			return items[0], true, nil
		}
		if sameNodes(items, n.Items) {
			return n, false, nil
		}
		out := n
		out.Items = items
		out.Unresolved = true
		return out, true, nil
	}

	items, changed, err := rc.reduceItems(ctx, env, n.Items)
	if err != nil {
		return Node{}, false, err
	}
	if !changed && allResolved(items) == !n.Unresolved {
		return n, false, nil
	}
	out := n
	out.Items = items
	out.Unresolved = !allResolved(items)
	return out, true, nil
}

func sameNodes(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !reflect.DeepEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// reduceItems fully reduces each item independently (each is its own
// root, not a chain the pairwise/triple rules should splice across item
// boundaries) and reports whether any item's value actually changed.
func (rc *reduceCtx) reduceItems(ctx context.Context, env *Bindings, items []Node) ([]Node, bool, error) {
	out := make([]Node, len(items))
	changed := false
	for i, it := range items {
		r, err := rc.reduceToSingle(ctx, env, it)
		if err != nil {
			return nil, false, err
		}
		if !reflect.DeepEqual(r, it) {
			changed = true
		}
		out[i] = r
	}
	return out, changed, nil
}

func allResolved(items []Node) bool {
	for _, it := range items {
		if it.Unresolved || !isObj(it) {
			return false
		}
	}
	return true
}

// resolveArrayBuilder reduces every element and, once every element is a
// plain value, materializes a concrete Go slice: a homogeneously-typed
// slice when every element shares a Go type (built via reflect, so a
// []int stays []int rather than decaying to []any), or []any otherwise.
// set dedups by its elements' fmt representation, preserving first-seen
// order, per the SetBuilder supplement (no stdlib hashable-any set
// exists short of reflection, and the examples don't carry one either).
func (rc *reduceCtx) resolveArrayBuilder(ctx context.Context, env *Bindings, n Node, set bool) (Node, bool, error) {
	items, changed, err := rc.reduceItems(ctx, env, n.Items)
	if err != nil {
		return Node{}, false, err
	}
	if !allResolved(items) {
		if !changed && n.Unresolved {
			return n, false, nil
		}
		out := n
		out.Items = items
		out.Unresolved = true
		return out, true, nil
	}

	values := make([]any, 0, len(items))
	if set {
		seen := map[string]bool{}
		for _, it := range items {
			key := fmtKey(it.Value)
			if seen[key] {
				continue
			}
			seen[key] = true
			values = append(values, it.Value)
		}
	} else {
		for _, it := range items {
			values = append(values, it.Value)
		}
	}

	return Obj(n.Offset, n.Length, buildTypedSlice(values)), true, nil
}

// buildTypedSlice returns a []any as-is when elements don't share a
// single Go type, or a concrete T-slice built via reflection when they
// do — mirroring how a statically-typed array literal in the host
// language would materialize.
func buildTypedSlice(values []any) any {
	if len(values) == 0 {
		return []any{}
	}
	elemType := reflect.TypeOf(values[0])
	if elemType == nil {
		return values
	}
	for _, v := range values[1:] {
		if reflect.TypeOf(v) != elemType {
			return values
		}
	}
	out := reflect.MakeSlice(reflect.SliceOf(elemType), len(values), len(values))
	for i, v := range values {
		out.Index(i).Set(reflect.ValueOf(v))
	}
	return out.Interface()
}

func fmtKey(v any) string {
	return reflect.TypeOf(v).String() + ":" + toKeyString(v)
}

func toKeyString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	default:
		return fmt.Sprint(v)
	}
}

// resolvePropertyRead turns a resolved AppliedProperty handle into the
// value behind it — the step that makes `.name` usable without any
// further call syntax.
func (rc *reduceCtx) resolvePropertyRead(ctx context.Context, n Node) (Node, bool, error) {
	if len(n.Targets) != 1 {
		return Node{}, false, newExecError(ErrKindUnexpectedCase, n.Offset, n.Length, traceNode(n), "property handle has %d targets, want 1", len(n.Targets))
	}
	t := n.Targets[0]
	if len(t.Members) != 1 {
		return Node{}, false, newExecError(ErrKindAmbiguousStaticResolution, n.Offset, n.Length, traceNode(n), "property handle resolved to %d members", len(t.Members))
	}
	v, err := rc.host.ExecuteProperty(ctx, t.Obj, t.Members[0])
	if err != nil {
		return Node{}, false, wrapHostErr(err, n.Offset, n.Length, traceNode(n))
	}
	return Obj(n.Offset, n.Length, v), true, nil
}

// resolveMultiPropertyRead reads a property across every broadcast
// target reached via a depth>0 AppliedInvoke descent and collects the
// results positionally.
func (rc *reduceCtx) resolveMultiPropertyRead(ctx context.Context, n Node) (Node, bool, error) {
	out := make([]any, len(n.Targets))
	for i, t := range n.Targets {
		if len(t.Members) != 1 {
			return Node{}, false, newExecError(ErrKindAmbiguousStaticResolution, n.Offset, n.Length, traceNode(n), "property handle resolved to %d members", len(t.Members))
		}
		v, err := rc.host.ExecuteProperty(ctx, t.Obj, t.Members[0])
		if err != nil {
			return Node{}, false, wrapHostErr(err, n.Offset, n.Length, traceNode(n))
		}
		out[i] = v
	}
	return Obj(n.Offset, n.Length, out), true, nil
}

// wrapHostErr propagates a host-authored BarbExecutionError unchanged
// (e.g. ErrMixedPropertyMethodNested raised by a Host implementation
// that detected the conflict itself) and otherwise wraps a plain error
// as host-invocation-failed, attributed to the call site's span.
func wrapHostErr(err error, offset, length uint32, trace string) error {
	if be, ok := err.(*BarbExecutionError); ok && be != nil {
		return be
	}
	return wrapHostError(err, offset, length, trace)
}

// resolveLambdaCall executes a fully-applied lambda's body under its own
// captured bindings overlaid on the calling environment — lambda
// bindings win on conflict, matching spec.md §4.2's Lambda rule.
func (rc *reduceCtx) resolveLambdaCall(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	merged := env.Merge(lambdaBindings(n))
	out, err := rc.reduceToSingle(ctx, merged, *n.Body)
	if err != nil {
		return Node{}, false, err
	}
	out.Offset, out.Length = n.Offset, n.Length
	return out, true, nil
}

// resolveIfThenElse reduces Cond; once it is a definite bool it selects
// and fully reduces the chosen branch. Non-final reduction with an
// unresolved condition still reduces both branches as far as possible
// and re-emits the full IfThenElse residual (spec.md's "non-final
// full-children emission"), so a later final pass only has to re-walk
// the branch it actually needs.
func (rc *reduceCtx) resolveIfThenElse(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	cond, err := rc.reduceToSingle(ctx, env, *n.Cond)
	if err != nil {
		return Node{}, false, err
	}

	if b, ok := asBool(cond); ok {
		branch := n.Else
		if b {
			branch = n.Then
		}
		if branch == nil {
			return Unit(n.Offset, n.Length), true, nil
		}
		out, err := rc.reduceToSingle(ctx, env, *branch)
		if err != nil {
			return Node{}, false, err
		}
		out.Offset, out.Length = n.Offset, n.Length
		return out, true, nil
	}

	if isObj(cond) {
		if rc.final {
			return Node{}, false, newExecError(ErrKindCondNotBool, cond.Offset, cond.Length, traceNode(cond), "if-condition is not a bool")
		}
	}
	if rc.final {
		return Node{}, false, newExecError(ErrKindCondNotBool, cond.Offset, cond.Length, traceNode(cond), "if-condition did not resolve")
	}

	then, err := rc.reduceToSingle(ctx, env, *n.Then)
	if err != nil {
		return Node{}, false, err
	}
	els, err := rc.reduceToSingle(ctx, env, *n.Else)
	if err != nil {
		return Node{}, false, err
	}

	if reflect.DeepEqual(cond, *n.Cond) && reflect.DeepEqual(then, *n.Then) && reflect.DeepEqual(els, *n.Else) && n.Unresolved {
		return n, false, nil
	}
	out := n
	out.Cond, out.Then, out.Else = &cond, &then, &els
	out.Unresolved = true
	return out, true, nil
}

// resolveGenerator materializes `{start..step..end}` eagerly: the syntax
// is always bounded, so there is no need for a lazy iterator type, just
// a concrete numeric slice once all three bounds are known and share a
// numeric kind.
func (rc *reduceCtx) resolveGenerator(ctx context.Context, env *Bindings, n Node) (Node, bool, error) {
	start, err := rc.reduceToSingle(ctx, env, *n.Start)
	if err != nil {
		return Node{}, false, err
	}
	step, err := rc.reduceToSingle(ctx, env, *n.Step)
	if err != nil {
		return Node{}, false, err
	}
	end, err := rc.reduceToSingle(ctx, env, *n.End)
	if err != nil {
		return Node{}, false, err
	}

	if !isObj(start) || !isObj(step) || !isObj(end) {
		if rc.final {
			return Node{}, false, newExecError(ErrKindGeneratorArgUnresolved, n.Offset, n.Length, traceNode(n), "generator bound did not resolve")
		}
		out := n
		out.Start, out.Step, out.End = &start, &step, &end
		out.Unresolved = true
		return out, true, nil
	}

	seq, err := buildGeneratorSequence(start.Value, step.Value, end.Value)
	if err != nil {
		return Node{}, false, newExecError(ErrKindBadGeneratorTypes, n.Offset, n.Length, traceNode(n), "%v", err)
	}
	return Obj(n.Offset, n.Length, seq), true, nil
}

// resolveShortCircuit implements And (isAnd) / Or short-circuit
// evaluation with null propagation: a null operand makes the whole
// expression null before the other side is even inspected.
func (rc *reduceCtx) resolveShortCircuit(ctx context.Context, env *Bindings, n Node, isAnd bool) (Node, bool, error) {
	left, err := rc.reduceToSingle(ctx, env, *n.Left)
	if err != nil {
		return Node{}, false, err
	}

	if isObj(left) && isNull(left.Value) {
		return Obj(n.Offset, n.Length, nil), true, nil
	}

	if b, ok := asBool(left); ok {
		if b == isAnd {
			right, err := rc.reduceToSingle(ctx, env, *n.Right)
			if err != nil {
				return Node{}, false, err
			}
			if isObj(right) && isNull(right.Value) {
				return Obj(n.Offset, n.Length, nil), true, nil
			}
			if rb, ok := asBool(right); ok {
				return Obj(n.Offset, n.Length, rb), true, nil
			}
			if rc.final {
				kind := ErrKindAndLHSNotBool
				if !isAnd {
					kind = ErrKindOrLHSNotBool
				}
				return Node{}, false, newExecError(kind, right.Offset, right.Length, traceNode(right), "operand is not a bool")
			}
			out := n
			out.Left, out.Right = &left, &right
			out.Unresolved = true
			return out, true, nil
		}
		return Obj(n.Offset, n.Length, b), true, nil
	}

	if isObj(left) {
		if rc.final {
			kind := ErrKindAndLHSNotBool
			if !isAnd {
				kind = ErrKindOrLHSNotBool
			}
			return Node{}, false, newExecError(kind, left.Offset, left.Length, traceNode(left), "operand is not a bool")
		}
	}

	if rc.final {
		kind := ErrKindAndLHSNotBool
		if !isAnd {
			kind = ErrKindOrLHSNotBool
		}
		return Node{}, false, newExecError(kind, left.Offset, left.Length, traceNode(left), "operand did not resolve")
	}

	if reflect.DeepEqual(left, *n.Left) {
		return n, false, nil
	}
	out := n
	out.Left = &left
	out.Unresolved = true
	return out, true, nil
}
