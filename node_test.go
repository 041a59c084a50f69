package barb

import "testing"

func TestMergeSpanCoversBothInputs(t *testing.T) {
	a := Obj(10, 5, nil) // [10,15)
	b := Obj(2, 3, nil)  // [2,5)
	offset, length := mergeSpan(a, b)
	if offset != 2 || length != 13 {
		t.Fatalf("expected [2,15), got offset=%d length=%d", offset, length)
	}
}

func TestIsObj(t *testing.T) {
	if !isObj(Obj(0, 0, 1)) {
		t.Fatalf("expected Obj node to report isObj")
	}
	if isObj(Unknown(0, 0, "x")) {
		t.Fatalf("expected Unknown node not to report isObj")
	}
}

func TestAsBool(t *testing.T) {
	b, ok := asBool(Obj(0, 0, true))
	if !ok || !b {
		t.Fatalf("expected (true, true), got (%v, %v)", b, ok)
	}
	if _, ok := asBool(Obj(0, 0, 1)); ok {
		t.Fatalf("expected a non-bool Obj to report ok=false")
	}
	if _, ok := asBool(Unknown(0, 0, "x")); ok {
		t.Fatalf("expected a non-Obj node to report ok=false")
	}
}

func TestKindString(t *testing.T) {
	if KindObj.String() != "Obj" {
		t.Fatalf("expected Obj, got %q", KindObj.String())
	}
	if got := Kind(999).String(); got != "Kind(999)" {
		t.Fatalf("expected fallback format, got %q", got)
	}
}
