package barb

import "context"

// resolvePair implements the Pairwise Reducer: rewrites that combine the
// top of the left stack with the head of the right queue into a single
// node. It reports ok=false when the pair doesn't match any rule, so the
// walker falls through to Triple and then Shift.
func (rc *reduceCtx) resolvePair(ctx context.Context, left, right Node) (Node, bool, error) {
	switch {
	case left.Kind == KindLambda && len(left.Params) > 0 && isObj(right):
		return withParamBound(left, right), true, nil

	case left.Kind == KindPrefix && isObj(right):
		return rc.applyUnary(left, right)

	case right.Kind == KindPostfix && isObj(left):
		return rc.applyUnary(right, left)

	case isObj(left) && right.Kind == KindAppliedInvoke:
		return rc.resolveMemberAccess(ctx, left, right)

	case left.Kind == KindAppliedIndexedProperty && isArgsNode(right):
		return rc.applyIndexedProperty(ctx, left, right)

	case left.Kind == KindInvokable && isArgsNode(right):
		return rc.applyInvokable(ctx, left, right)

	case left.Kind == KindInvokable && isObj(right):
		return rc.applyInvokable(ctx, left, right)

	case left.Kind == KindNew && isArgsNode(right):
		return rc.applyConstructor(ctx, left, right)

	case isObj(left) && right.Kind == KindIndexArgs:
		return rc.applyRawIndex(ctx, left, right)

	default:
		return Node{}, false, nil
	}
}

// applyUnary runs a Prefix/Postfix operator's host function against the
// adjacent operand, whichever side it sits on.
func (rc *reduceCtx) applyUnary(op, operand Node) (Node, bool, error) {
	offset, length := mergeSpan(op, operand)
	v, err := op.UnaryFn(operand.Value)
	if err != nil {
		return Node{}, false, wrapHostErr(err, offset, length, traceNode(op))
	}
	return Obj(offset, length, v), true, nil
}

// resolveMemberAccess turns `obj.name` into a handle: a depth-0 access
// asks the host to resolve directly against obj; a depth>0 access
// descends that many collection levels and resolves name against every
// element found there, producing a broadcast handle. That broadcast
// handle is always an AppliedMultiProperty, read as a property on every
// target; a method reached by a depth>0 access is not called, and the
// host's property read of it fails.
func (rc *reduceCtx) resolveMemberAccess(ctx context.Context, obj, invoke Node) (Node, bool, error) {
	offset, length := mergeSpan(obj, invoke)
	if obj.Value == nil {
		return Obj(offset, length, nil), true, nil
	}
	if invoke.Depth == 0 {
		handle, ok := rc.host.ResolveInvokeByInstance(ctx, obj.Value, invoke.Name)
		if !ok {
			if rc.final {
				return Node{}, false, newExecError(ErrKindUnknownName, offset, length, traceNode(invoke), "no member %q on resolved value", invoke.Name)
			}
			handle = invoke
			handle.Unresolved = true
		}
		handle.Offset, handle.Length = offset, length
		return handle, true, nil
	}

	targets, ok, err := rc.host.ResolveInvokeAtDepth(ctx, invoke.Depth, obj.Value, invoke.Name)
	if err != nil {
		return Node{}, false, wrapHostErr(err, offset, length, traceNode(invoke))
	}
	if !ok {
		if rc.final {
			return Node{}, false, newExecError(ErrKindUnknownName, offset, length, traceNode(invoke), "no member %q at depth %d", invoke.Name, invoke.Depth)
		}
		out := invoke
		out.Unresolved = true
		return out, true, nil
	}
	return Node{Offset: offset, Length: length, Kind: KindAppliedMultiProperty, Targets: targets, Multi: true}, true, nil
}

// applyIndexedProperty reads `obj.name[args]` across every broadcast
// target the handle carries.
func (rc *reduceCtx) applyIndexedProperty(ctx context.Context, handle, args Node) (Node, bool, error) {
	offset, length := mergeSpan(handle, args)
	argVals, ok := argValues(args)
	if !ok {
		if rc.final {
			return Node{}, false, newExecError(ErrKindBadTupleIndex, offset, length, traceNode(args), "index arguments did not resolve")
		}
		return Node{}, false, nil
	}

	if len(handle.Targets) == 1 {
		v, err := rc.host.ExecuteIndexer(ctx, handle.Targets[0].Obj, memberList(handle.Targets[0]), argVals)
		if err != nil {
			return Node{}, false, wrapHostErr(err, offset, length, traceNode(handle))
		}
		return Obj(offset, length, v), true, nil
	}

	out := make([]any, len(handle.Targets))
	for i, t := range handle.Targets {
		v, err := rc.host.ExecuteIndexer(ctx, t.Obj, memberList(t), argVals)
		if err != nil {
			return Node{}, false, wrapHostErr(err, offset, length, traceNode(handle))
		}
		out[i] = v
	}
	return Obj(offset, length, out), true, nil
}

// applyInvokable calls a resolved method handle with Unit (zero-arg) or
// resolved IndexArgs/Tuple arguments, once per target the handle
// carries.
func (rc *reduceCtx) applyInvokable(ctx context.Context, handle, args Node) (Node, bool, error) {
	offset, length := mergeSpan(handle, args)

	call := func(obj any, members []HostMember) (any, error) {
		if args.Kind == KindUnit {
			return rc.host.ExecuteUnitMethod(ctx, obj, members)
		}
		argVals, ok := invokeArgValues(args)
		if !ok {
			return nil, nil
		}
		return rc.host.ExecuteParameterizedMethod(ctx, obj, members, argVals)
	}

	if args.Kind != KindUnit {
		if _, ok := invokeArgValues(args); !ok {
			if rc.final {
				return Node{}, false, newExecError(ErrKindBadTupleIndex, offset, length, traceNode(args), "call arguments did not resolve")
			}
			return Node{}, false, nil
		}
	}

	if len(handle.Targets) == 1 {
		v, err := call(handle.Targets[0].Obj, memberList(handle.Targets[0]))
		if err != nil {
			return Node{}, false, wrapHostErr(err, offset, length, traceNode(handle))
		}
		return Obj(offset, length, v), true, nil
	}

	out := make([]any, len(handle.Targets))
	for i, t := range handle.Targets {
		v, err := call(t.Obj, memberList(t))
		if err != nil {
			return Node{}, false, wrapHostErr(err, offset, length, traceNode(handle))
		}
		out[i] = v
	}
	return Obj(offset, length, out), true, nil
}

// applyConstructor calls `new Name(args)` against the host's registered
// constructors for the active namespaces.
func (rc *reduceCtx) applyConstructor(ctx context.Context, n, args Node) (Node, bool, error) {
	offset, length := mergeSpan(n, args)
	var argVals []any
	if args.Kind != KindUnit {
		vals, ok := argValues(args)
		if !ok {
			if rc.final {
				return Node{}, false, newExecError(ErrKindBadTupleIndex, offset, length, traceNode(args), "constructor arguments did not resolve")
			}
			return Node{}, false, nil
		}
		argVals = vals
	}

	v, ok, err := rc.host.ExecuteConstructor(ctx, rc.settings.Namespaces, n.Name, argVals)
	if err != nil {
		return Node{}, false, wrapHostErr(err, offset, length, traceNode(n))
	}
	if !ok {
		return Node{}, false, newExecError(ErrKindUnknownName, offset, length, traceNode(n), "no constructor %q for %d argument(s)", n.Name, len(argVals))
	}
	return Obj(offset, length, v), true, nil
}

// applyRawIndex indexes a plain value (array/slice/map Obj) that never
// went through member resolution, e.g. `xs[i]`.
func (rc *reduceCtx) applyRawIndex(ctx context.Context, obj, args Node) (Node, bool, error) {
	offset, length := mergeSpan(obj, args)
	argVals, ok := argValues(args)
	if !ok {
		if rc.final {
			return Node{}, false, newExecError(ErrKindBadTupleIndex, offset, length, traceNode(args), "index arguments did not resolve")
		}
		return Node{}, false, nil
	}
	v, err := rc.host.CallIndexedProperty(ctx, obj.Value, argVals)
	if err != nil {
		return Node{}, false, wrapHostErr(err, offset, length, traceNode(obj))
	}
	return Obj(offset, length, v), true, nil
}

// resolveStaticMember implements spec.md §4.5's static-member rule:
// `Unknown(ns), AppliedInvoke(0, name) -> CachedResolveStatic`, tried
// (when final or bind_globals_when_reducing) before ns is given a
// chance to fail as an unbound local name. handled=false leaves both
// nodes untouched: ns didn't match any registered static, so it falls
// through to ordinary Unknown/instance-member resolution instead (ns
// may simply be a local binding whose value hasn't arrived yet).
func (rc *reduceCtx) resolveStaticMember(ctx context.Context, ns, invoke Node) ([]Node, bool, error) {
	if !rc.final && !rc.settings.BindGlobalsWhenReducing {
		return nil, false, nil
	}
	offset, length := mergeSpan(ns, invoke)
	if invoke.Depth > 0 {
		return nil, true, newExecError(ErrKindStaticDepthUnsupported, offset, length, traceNode(invoke), "static member resolution does not support depth > 0")
	}
	nodes, err := rc.host.CachedResolveStatic(ctx, rc.settings.Namespaces, ns.Name, invoke.Name)
	if err != nil {
		return nil, true, newExecError(ErrKindAmbiguousStaticResolution, offset, length, traceNode(invoke), "%v", err)
	}
	if len(nodes) == 0 {
		return nil, false, nil
	}
	out := make([]Node, len(nodes))
	for i, n := range nodes {
		n.Offset, n.Length = offset, length
		out[i] = n
	}
	return out, true, nil
}

func isArgsNode(n Node) bool {
	return n.Kind == KindIndexArgs || n.Kind == KindTuple || n.Kind == KindUnit
}

// invokeArgValues extracts argument values for an InvokableExpr call,
// accepting a bare resolved Obj as the single-value argument form the
// glossary's InvokableExpr definition allows alongside IndexArgs/Tuple/Unit.
func invokeArgValues(n Node) ([]any, bool) {
	if isObj(n) {
		return []any{n.Value}, true
	}
	return argValues(n)
}

// argValues extracts the resolved values of an IndexArgs/Tuple node's
// items, reporting ok=false if any item hasn't resolved to Obj yet.
func argValues(n Node) ([]any, bool) {
	if n.Kind == KindUnit {
		return nil, true
	}
	out := make([]any, len(n.Items))
	for i, it := range n.Items {
		if !isObj(it) {
			return nil, false
		}
		out[i] = it.Value
	}
	return out, true
}

func memberList(t MemberTarget) []HostMember { return t.Members }
