package barb

import (
	"context"
	"fmt"
)

// fakeHost is a minimal, hand-rolled Host for exercising the reducer
// without pulling in the reflect-based reference implementation. It
// understands exactly one type, "point", with fields X/Y and a method
// Sum(), plus a "Point" constructor — just enough surface for the
// single/pairwise/triple resolver tests.
type fakeHost struct {
	constructed []string
}

type point struct{ X, Y int64 }

func (h *fakeHost) ResolveInvokeByInstance(ctx context.Context, obj any, name string) (Node, bool) {
	p, ok := obj.(point)
	if !ok {
		return Node{}, false
	}
	switch name {
	case "X", "Y":
		return Node{Kind: KindAppliedProperty, Targets: []MemberTarget{{Obj: p, Members: []HostMember{name}}}}, true
	case "Sum":
		return Node{Kind: KindInvokable, Targets: []MemberTarget{{Obj: p, Members: []HostMember{name}}}}, true
	default:
		return Node{}, false
	}
}

func (h *fakeHost) ResolveInvokeAtDepth(ctx context.Context, depth int, obj any, name string) ([]MemberTarget, bool, error) {
	return nil, false, nil
}

func (h *fakeHost) CachedResolveStatic(ctx context.Context, namespaces []string, typeName, member string) ([]Node, error) {
	if typeName == "Point" && member == "Origin" {
		return []Node{Obj(0, 0, point{})}, nil
	}
	return nil, nil
}

func (h *fakeHost) ExecuteUnitMethod(ctx context.Context, obj any, members []HostMember) (any, error) {
	p := obj.(point)
	if members[0] == "Sum" {
		return p.X + p.Y, nil
	}
	return nil, fmt.Errorf("no method %v", members)
}

func (h *fakeHost) ExecuteParameterizedMethod(ctx context.Context, obj any, members []HostMember, args []any) (any, error) {
	return nil, fmt.Errorf("no parameterized method %v", members)
}

func (h *fakeHost) ExecuteConstructor(ctx context.Context, namespaces []string, typeName string, args []any) (any, bool, error) {
	if typeName != "Point" || len(args) != 2 {
		return nil, false, nil
	}
	x, ok1 := args[0].(int64)
	y, ok2 := args[1].(int64)
	if !ok1 || !ok2 {
		return nil, false, nil
	}
	h.constructed = append(h.constructed, typeName)
	return point{X: x, Y: y}, true, nil
}

func (h *fakeHost) ExecuteProperty(ctx context.Context, obj any, member HostMember) (any, error) {
	p := obj.(point)
	switch member {
	case "X":
		return p.X, nil
	case "Y":
		return p.Y, nil
	default:
		return nil, fmt.Errorf("no property %v", member)
	}
}

func (h *fakeHost) ExecuteIndexer(ctx context.Context, obj any, members []HostMember, args []any) (any, error) {
	return nil, fmt.Errorf("no indexer")
}

func (h *fakeHost) CallIndexedProperty(ctx context.Context, obj any, args []any) (any, error) {
	arr, ok := obj.([]any)
	if !ok {
		return nil, fmt.Errorf("not indexable: %T", obj)
	}
	i, ok := args[0].(int64)
	if !ok || int(i) < 0 || int(i) >= len(arr) {
		return nil, fmt.Errorf("index out of range")
	}
	return arr[i], nil
}

func (h *fakeHost) ResolveResultType(ctx context.Context, value any) Node {
	if value == nil {
		return Obj(0, 0, nil)
	}
	return Obj(0, 0, value)
}

func addFn(a, b any) (any, error) {
	x, ok1 := a.(int64)
	y, ok2 := b.(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("add: not an int64 pair")
	}
	return x + y, nil
}

func mulFn(a, b any) (any, error) {
	x, ok1 := a.(int64)
	y, ok2 := b.(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("mul: not an int64 pair")
	}
	return x * y, nil
}

func negFn(x any) (any, error) {
	v, ok := x.(int64)
	if !ok {
		return nil, fmt.Errorf("neg: not an int64")
	}
	return -v, nil
}

func subFn(a, b any) (any, error) {
	x, ok1 := a.(int64)
	y, ok2 := b.(int64)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("sub: not an int64 pair")
	}
	return x - y, nil
}

func eqFn(a, b any) (any, error) {
	return a == b, nil
}

// singleArgHost wraps fakeHost to echo back a single parameterized-method
// argument, for exercising the InvokableExpr/Obj(x) single-value pairwise
// rule without needing a real method on point.
type singleArgHost struct {
	*fakeHost
}

func (h *singleArgHost) ExecuteParameterizedMethod(ctx context.Context, obj any, members []HostMember, args []any) (any, error) {
	return args[0], nil
}

func infixNode(offset, length uint32, prec int, fn BinaryFunc) Node {
	return Node{Offset: offset, Length: length, Kind: KindInfix, Prec: prec, BinaryFn: fn}
}
