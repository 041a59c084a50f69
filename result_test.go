package barb

import (
	"reflect"
	"testing"
)

func TestExtractResultSingleObj(t *testing.T) {
	v, err := ExtractResult([]Node{Obj(0, 0, int64(42))})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(42) {
		t.Fatalf("expected 42, got %v", v)
	}
}

func TestExtractResultTuple(t *testing.T) {
	tup := Node{Kind: KindTuple, Items: []Node{Obj(0, 0, int64(1)), Obj(0, 0, "two")}}
	v, err := ExtractResult([]Node{tup})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{int64(1), "two"}
	if !reflect.DeepEqual(v, want) {
		t.Fatalf("expected %v, got %v", want, v)
	}
}

func TestExtractResultWrongRootCount(t *testing.T) {
	_, err := ExtractResult([]Node{Obj(0, 0, 1), Obj(0, 0, 2)})
	if err == nil {
		t.Fatalf("expected an error for multiple roots")
	}
}

func TestExtractResultUnresolvedResidual(t *testing.T) {
	_, err := ExtractResult([]Node{Unknown(0, 1, "x")})
	if err == nil {
		t.Fatalf("expected an error for a residual node")
	}
}

func TestExtractResultTupleWithUnresolvedElement(t *testing.T) {
	tup := Node{Kind: KindTuple, Items: []Node{Obj(0, 0, int64(1)), Unknown(0, 1, "y")}}
	_, err := ExtractResult([]Node{tup})
	if err == nil {
		t.Fatalf("expected an error when a tuple element hasn't resolved")
	}
}
