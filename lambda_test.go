package barb

import (
	"context"
	"testing"
)

func TestLambdaArenaGetSet(t *testing.T) {
	arena := NewLambdaArena()
	key := arena.New(NewBindings())
	if got := arena.Get(key); got == nil {
		t.Fatalf("expected a bindings cell for a freshly allocated key")
	}
	arena.Set(key, NewBindings().WithValue("x", Obj(0, 0, 1)))
	if _, _, ok := arena.Get(key).Lookup("x"); !ok {
		t.Fatalf("expected Set to replace the cell's contents")
	}
}

func TestWithParamBoundConsumesHeadParam(t *testing.T) {
	arena := NewLambdaArena()
	body := Unknown(0, 1, "n")
	lambda := NewLambda(0, 1, arena, []string{"n", "m"}, body)

	bound := withParamBound(lambda, Obj(0, 0, int64(5)))
	if len(bound.Params) != 1 || bound.Params[0] != "m" {
		t.Fatalf("expected only m left unapplied, got %v", bound.Params)
	}
	_, factory, ok := lambdaBindings(bound).Lookup("n")
	if !ok || factory(0, 0).Value != int64(5) {
		t.Fatalf("expected n bound to 5 in the new cell")
	}
	// The original lambda's own cell is untouched.
	if _, _, ok := lambdaBindings(lambda).Lookup("n"); ok {
		t.Fatalf("expected the original lambda's cell to be unaffected")
	}
}

func TestRecursiveBindTiesSelfReference(t *testing.T) {
	arena := NewLambdaArena()
	// body: 0 (placeholder; recursiveBind only needs to reduce it once)
	body := Obj(0, 0, int64(0))
	lambda := NewLambda(0, 1, arena, nil, body)

	rc := &reduceCtx{settings: DefaultSettings(), arena: arena}
	bound, err := recursiveBind(context.Background(), rc, "fact", lambda, NewBindings())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_, factory, ok := lambdaBindings(bound).Lookup("fact")
	if !ok {
		t.Fatalf("expected the lambda's own cell to bind its own name")
	}
	self := factory(0, 0)
	if self.Kind != KindLambda {
		t.Fatalf("expected the self-binding to be the lambda itself, got %v", self.Kind)
	}
}
