package barb

import (
	"context"
	"testing"
)

func newRC(final bool) *reduceCtx {
	return &reduceCtx{host: &fakeHost{}, settings: DefaultSettings(), final: final, arena: NewLambdaArena()}
}

func TestResolvePairLambdaPartialApplication(t *testing.T) {
	rc := newRC(true)
	arena := rc.arena
	body := Obj(0, 1, int64(9))
	lambda := NewLambda(0, 1, arena, []string{"n"}, body)

	out, ok, err := rc.resolvePair(context.Background(), lambda, Obj(2, 1, int64(5)))
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Kind != KindLambda || len(out.Params) != 0 {
		t.Fatalf("expected a fully-applied lambda, got %+v", out)
	}
}

func TestResolvePairPrefixUnary(t *testing.T) {
	rc := newRC(true)
	prefix := Node{Kind: KindPrefix, UnaryFn: negFn}
	out, ok, err := rc.resolvePair(context.Background(), prefix, Obj(0, 1, int64(5)))
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Value != int64(-5) {
		t.Fatalf("expected -5, got %v", out.Value)
	}
}

func TestResolvePairMemberAccessProperty(t *testing.T) {
	rc := newRC(true)
	obj := Obj(0, 1, point{X: 3, Y: 4})
	invoke := Node{Kind: KindAppliedInvoke, Name: "X"}
	out, ok, err := rc.resolvePair(context.Background(), obj, invoke)
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Kind != KindAppliedProperty {
		t.Fatalf("expected a property handle, got %v", out.Kind)
	}
}

func TestResolvePairMemberAccessUnknownFinalErrors(t *testing.T) {
	rc := newRC(true)
	obj := Obj(0, 1, point{X: 3, Y: 4})
	invoke := Node{Kind: KindAppliedInvoke, Name: "Nope"}
	_, _, err := rc.resolvePair(context.Background(), obj, invoke)
	if err == nil {
		t.Fatalf("expected an error for an unknown member in final reduction")
	}
}

func TestResolvePairMemberAccessNullPropagates(t *testing.T) {
	rc := newRC(true)
	obj := Obj(0, 1, nil)
	invoke := Node{Kind: KindAppliedInvoke, Name: "anything"}
	out, ok, err := rc.resolvePair(context.Background(), obj, invoke)
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Kind != KindObj || out.Value != nil {
		t.Fatalf("expected Obj(null), got %+v", out)
	}
}

func TestResolvePairInvokableSingleValueCall(t *testing.T) {
	rc := newRC(true)
	handle := Node{Kind: KindInvokable, Targets: []MemberTarget{{Obj: point{X: 1, Y: 2}, Members: []HostMember{"Total"}}}}
	rc.host = &singleArgHost{fakeHost: &fakeHost{}}
	out, ok, err := rc.resolvePair(context.Background(), handle, Obj(0, 1, int64(5)))
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Value != int64(5) {
		t.Fatalf("expected the single argument echoed back, got %v", out.Value)
	}
}

func TestResolvePairInvokableUnitCall(t *testing.T) {
	rc := newRC(true)
	handle := Node{Kind: KindInvokable, Targets: []MemberTarget{{Obj: point{X: 1, Y: 2}, Members: []HostMember{"Sum"}}}}
	out, ok, err := rc.resolvePair(context.Background(), handle, Unit(0, 0))
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Value != int64(3) {
		t.Fatalf("expected 3, got %v", out.Value)
	}
}

func TestResolvePairConstructor(t *testing.T) {
	host := &fakeHost{}
	rc := &reduceCtx{host: host, settings: DefaultSettings(), final: true, arena: NewLambdaArena()}
	newNode := Node{Kind: KindNew, Name: "Point"}
	args := Node{Kind: KindIndexArgs, Items: []Node{Obj(0, 1, int64(1)), Obj(0, 1, int64(2))}}

	out, ok, err := rc.resolvePair(context.Background(), newNode, args)
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	p, ok := out.Value.(point)
	if !ok || p.X != 1 || p.Y != 2 {
		t.Fatalf("expected point{1,2}, got %+v", out.Value)
	}
	if len(host.constructed) != 1 {
		t.Fatalf("expected the constructor to have been invoked once")
	}
}

func TestResolvePairConstructorUnknownErrors(t *testing.T) {
	rc := newRC(true)
	newNode := Node{Kind: KindNew, Name: "NoSuchType"}
	args := Node{Kind: KindIndexArgs, Items: []Node{Obj(0, 1, int64(1))}}
	_, _, err := rc.resolvePair(context.Background(), newNode, args)
	if err == nil {
		t.Fatalf("expected an error for an unregistered constructor")
	}
}

func TestResolvePairRawIndex(t *testing.T) {
	rc := newRC(true)
	arr := Obj(0, 3, []any{int64(10), int64(20), int64(30)})
	args := Node{Kind: KindIndexArgs, Items: []Node{Obj(0, 1, int64(1))}}
	out, ok, err := rc.resolvePair(context.Background(), arr, args)
	if err != nil || !ok {
		t.Fatalf("expected a match, got ok=%v err=%v", ok, err)
	}
	if out.Value != int64(20) {
		t.Fatalf("expected 20, got %v", out.Value)
	}
}

func TestResolvePairNoMatch(t *testing.T) {
	rc := newRC(true)
	_, ok, err := rc.resolvePair(context.Background(), Obj(0, 1, int64(1)), Obj(1, 1, int64(2)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no pairwise rule to match two adjacent Obj nodes")
	}
}
