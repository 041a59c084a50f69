package barb

// ExtractResult implements spec.md §4.7's final-result extraction: a
// completed final reduction's root list collapses to either a single
// value or a sequence, and anything else is the caller's error to
// surface, not the reducer's to guess at.
//
//   - a single Obj root returns its value directly.
//   - a single Tuple root whose items are all Obj returns the values as
//     a sequence, positionally.
//   - anything else — multiple roots, an unresolved residual, a bare
//     Unit — is ErrUnexpectedResult.
func ExtractResult(roots []Node) (any, error) {
	if len(roots) != 1 {
		return nil, newExecError(ErrKindUnexpectedResult, 0, 0, "", "expected exactly one root node, got %d", len(roots))
	}
	n := roots[0]

	switch {
	case isObj(n):
		return n.Value, nil

	case n.Kind == KindTuple && !n.Unresolved:
		out := make([]any, len(n.Items))
		for i, it := range n.Items {
			if !isObj(it) {
				return nil, newExecError(ErrKindUnexpectedResult, n.Offset, n.Length, traceNode(n), "tuple element %d is not a resolved value", i)
			}
			out[i] = it.Value
		}
		return out, nil

	default:
		return nil, newExecError(ErrKindUnexpectedResult, n.Offset, n.Length, traceNode(n), "result node %s is not a final value", n.Kind)
	}
}
