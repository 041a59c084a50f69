package barb

import "context"

// reduceCtx carries the collaborators and mode shared by every step of a
// single Reduce call.
type reduceCtx struct {
	host     Host
	settings Settings
	final    bool
	arena    *LambdaArena
	multi    *MultiError // non-nil only when !settings.FailOnCatchAll during a final pass
}

// Reduce rewrites roots toward a single value (final) or a residual tree
// (non-final), per spec.md §6's external interface:
//
//	(root_nodes, env, settings, final) -> (root_nodes, env)
//
// The returned Bindings is the same environment passed in: binding is
// lexical, so nothing a reduction does to its own let-scopes escapes to
// the caller. err is a *BarbExecutionError (final mode, FailOnCatchAll)
// or a *MultiError (final mode, !FailOnCatchAll, one entry per node that
// failed independently) or nil.
func Reduce(ctx context.Context, roots []Node, env *Bindings, settings Settings, host Host) ([]Node, *Bindings, error) {
	return reduceMode(ctx, roots, env, settings, host, true)
}

// ReduceNonFinal runs a non-final pass: unresolved references and
// sub-expressions become residual Unresolved nodes instead of errors.
func ReduceNonFinal(ctx context.Context, roots []Node, env *Bindings, settings Settings, host Host) ([]Node, *Bindings, error) {
	return reduceMode(ctx, roots, env, settings, host, false)
}

func reduceMode(ctx context.Context, roots []Node, env *Bindings, settings Settings, host Host, final bool) ([]Node, *Bindings, error) {
	rc := &reduceCtx{host: host, settings: settings, final: final, arena: NewLambdaArena()}
	if final && !settings.FailOnCatchAll {
		rc.multi = &MultiError{}
	}
	out, err := rc.reduceNodes(ctx, env, roots)
	if err != nil {
		return out, env, err
	}
	if rc.multi != nil {
		return out, env, rc.multi.asError()
	}
	return out, env, nil
}

// reduceNodes drives the LIFO-left/FIFO-right walk to exhaustion. This is
// the single entry point every recursive reduction (let-values, let-
// scopes, SubExpression children, lambda bodies) funnels through, so the
// Single -> Pairwise -> Triple -> Shift discipline is never bypassed.
func (rc *reduceCtx) reduceNodes(ctx context.Context, env *Bindings, right []Node) ([]Node, error) {
	var left []Node
	right = append([]Node(nil), right...)

	for len(right) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// 1. Flatten trivial SubExpression([x]) wrappers at either end.
		if n := right[0]; n.Kind == KindSubExpression && len(n.Items) == 1 {
			right[0] = n.Items[0]
			continue
		}
		if len(left) > 0 {
			if n := left[len(left)-1]; n.Kind == KindSubExpression && len(n.Items) == 1 {
				left[len(left)-1] = n.Items[0]
				continue
			}
		}

		// 2. Lift: an already-unresolved head of right becomes a plain
		// candidate on the left for re-reduction from that side.
		if right[0].Unresolved {
			n := right[0]
			n.Unresolved = false
			left = append(left, n)
			right = right[1:]
			continue
		}

		// 3. Binding.
		if right[0].Kind == KindBVar {
			nodes, err := rc.reduceBVar(ctx, env, right[0])
			if err != nil {
				return nil, err
			}
			right = append(nodes, right[1:]...)
			continue
		}

		// 3.5 Static member resolution: `Unknown(ns), AppliedInvoke(0,
		// name) -> CachedResolveStatic` takes priority over treating ns
		// as an unbound local name, so namespace-qualified static
		// references aren't mistaken for unbound-name errors before
		// they ever get a chance to pair. depth>0 is unsupported.
		if right[0].Kind == KindUnknown && len(right) >= 2 && right[1].Kind == KindAppliedInvoke {
			nodes, handled, err := rc.resolveStaticMember(ctx, right[0], right[1])
			if err != nil {
				if !rc.recordOrFail(err) {
					return nil, err
				}
			} else if handled {
				right = append(nodes, right[2:]...)
				continue
			}
		}

		// 4. Single-node resolve.
		if out, changed, err := rc.resolveSingle(ctx, env, right[0]); err != nil {
			if !rc.recordOrFail(err) {
				return nil, err
			}
			left = append(left, right[0])
			right = right[1:]
			continue
		} else if changed {
			right[0] = out
			continue
		}

		// 5. Pairwise resolve.
		if len(left) > 0 {
			out, ok, err := rc.resolvePair(ctx, left[len(left)-1], right[0])
			if err != nil {
				if !rc.recordOrFail(err) {
					return nil, err
				}
			} else if ok {
				left = left[:len(left)-1]
				right[0] = out
				continue
			}
		}

		// 6. Triple resolve (final reduction only).
		if rc.final && len(left) >= 2 {
			var right1 *Node
			if len(right) >= 2 {
				right1 = &right[1]
			}
			out, ok, err := rc.resolveTriple(left[len(left)-2], left[len(left)-1], right[0], right1)
			if err != nil {
				if !rc.recordOrFail(err) {
					return nil, err
				}
			} else if ok {
				left = left[:len(left)-2]
				right[0] = out
				continue
			}
		}

		// 7. Shift. If nothing matched and we're out of options, this is
		// the walker's terminal "unexpected case" — see the Open
		// Question note in spec.md §9.
		if len(right) == 1 && len(left) == 0 && isTerminalStuck(right[0]) {
			if err := rc.catchAll(right[0]); err != nil {
				return nil, err
			}
		}
		left = append(left, right[0])
		right = right[1:]
	}

	// Reverse left back into source order.
	out := make([]Node, len(left))
	for i, n := range left {
		out[len(left)-1-i] = n
	}
	return out, nil
}

// isTerminalStuck reports whether n is a shape the walker has no rule
// for progressing further on its own (no adjacent left/right partner can
// ever help) — i.e. a genuinely malformed or catch-all residual, not
// just "waiting for a partner."
func isTerminalStuck(n Node) bool {
	switch n.Kind {
	case KindInvoke, KindNew, KindPrefix, KindPostfix, KindInfix:
		return true
	default:
		return false
	}
}

func (rc *reduceCtx) catchAll(n Node) error {
	err := newExecError(ErrKindUnexpectedCase, n.Offset, n.Length, traceNode(n), "no rule applies to residual %s", n.Kind)
	if !rc.final {
		return nil
	}
	if !rc.recordOrFail(err) {
		return err
	}
	return nil
}

// recordOrFail reports whether processing may continue after err: in
// final mode with FailOnCatchAll, it returns false (caller must
// propagate). Otherwise it appends to the running MultiError (final,
// !FailOnCatchAll) or silently tolerates it (non-final) and returns
// true.
func (rc *reduceCtx) recordOrFail(err error) bool {
	be, ok := err.(*BarbExecutionError)
	if !ok || be == nil {
		return false
	}
	if !rc.final {
		return true
	}
	if rc.settings.FailOnCatchAll {
		return false
	}
	rc.multi.add(be)
	return true
}

// reduceBVar implements spec.md §4.1 step 3.
func (rc *reduceCtx) reduceBVar(ctx context.Context, env *Bindings, bvar Node) ([]Node, error) {
	rv, err := rc.reduceToSingle(ctx, env, *bvar.BindValue)
	if err != nil {
		return nil, err
	}

	if rv.Kind == KindLambda && !rc.final {
		rvPrime, err := recursiveBind(ctx, rc, bvar.BindName, rv, env)
		if err != nil {
			return nil, err
		}
		scopeEnv := env.WithValue(bvar.BindName, rvPrime)
		return rc.reduceNodes(ctx, scopeEnv, []Node{*bvar.BindScope})
	}

	scopeEnv := env.WithValue(bvar.BindName, rv)
	return rc.reduceNodes(ctx, scopeEnv, []Node{*bvar.BindScope})
}

// reduceToSingle reduces n to exhaustion and collapses the result to one
// node, matching the SubExpression rule (spec.md §4.2): if reduction
// yields a single node, return it; otherwise wrap the residue back into
// an Unresolved SubExpression spanning the input.
func (rc *reduceCtx) reduceToSingle(ctx context.Context, env *Bindings, n Node) (Node, error) {
	items, err := rc.reduceNodes(ctx, env, []Node{n})
	if err != nil {
		return Node{}, err
	}
	if len(items) == 1 {
		return items[0], nil
	}
	return Node{Offset: n.Offset, Length: n.Length, Kind: KindSubExpression, Items: items, Unresolved: true}, nil
}

func traceNode(n Node) string {
	return "kind=" + n.Kind.String()
}
