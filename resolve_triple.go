package barb

// resolveTriple implements the Precedence Triple Reducer: the only rule
// that looks one token past the immediate pair, and only during final
// reduction. left2/left1 are the two top-of-left-stack nodes (operand,
// then infix operator); right0 is the head of the right queue (the
// other operand); right1, if present, is the queue's next element — the
// next infix operator, if the expression continues.
//
// Reducing `a op b` immediately is only safe once it's known nothing to
// b's right binds tighter than op. Left-associativity means equal
// precedence also reduces now, folding leftward.
func (rc *reduceCtx) resolveTriple(left2, left1, right0 Node, right1 *Node) (Node, bool, error) {
	if left1.Kind != KindInfix || !isObj(left2) || !isObj(right0) {
		return Node{}, false, nil
	}
	if right1 != nil && right1.Kind == KindInfix && right1.Prec > left1.Prec {
		return Node{}, false, nil
	}

	offset, length := mergeSpan(left2, right0)
	v, err := left1.BinaryFn(left2.Value, right0.Value)
	if err != nil {
		return Node{}, false, wrapHostErr(err, offset, length, traceNode(left1))
	}
	return Obj(offset, length, v), true, nil
}
