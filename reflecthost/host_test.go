package reflecthost

import (
	"context"
	"errors"
	"testing"

	"github.com/user/barb"
)

type widget struct {
	Name  string
	Price int64
	tags  []string
}

func (w widget) Total(qty int64) int64 { return w.Price * qty }
func (w widget) Describe() (string, error) {
	if w.Name == "" {
		return "", errors.New("widget has no name")
	}
	return w.Name, nil
}

func newWidgetHost() *Host {
	h := New()
	h.RegisterConstructor("", "Widget", func(args []any) (any, error) {
		if len(args) != 2 {
			return nil, errors.New("Widget takes (name, price)")
		}
		name, ok1 := args[0].(string)
		price, ok2 := args[1].(int64)
		if !ok1 || !ok2 {
			return nil, errors.New("Widget(name string, price int64)")
		}
		return widget{Name: name, Price: price}, nil
	})
	h.RegisterStatic("", "Widget", "Default", widget{Name: "default", Price: 1})
	return h
}

func TestHostResolveInvokeByInstanceField(t *testing.T) {
	h := newWidgetHost()
	n, ok := h.ResolveInvokeByInstance(context.Background(), widget{Name: "bolt", Price: 5}, "name")
	if !ok {
		t.Fatalf("expected the Name field to resolve")
	}
	if n.Kind != barb.KindAppliedProperty {
		t.Fatalf("expected a property handle, got %v", n.Kind)
	}
}

func TestHostResolveInvokeByInstanceMethod(t *testing.T) {
	h := newWidgetHost()
	n, ok := h.ResolveInvokeByInstance(context.Background(), widget{Name: "bolt", Price: 5}, "Total")
	if !ok {
		t.Fatalf("expected the Total method to resolve")
	}
	if n.Kind != barb.KindInvokable {
		t.Fatalf("expected an invokable handle, got %v", n.Kind)
	}
}

func TestHostResolveInvokeByInstanceUnknownMember(t *testing.T) {
	h := newWidgetHost()
	_, ok := h.ResolveInvokeByInstance(context.Background(), widget{}, "NoSuchMember")
	if ok {
		t.Fatalf("expected no match for an unknown member")
	}
}

func TestHostExecuteProperty(t *testing.T) {
	h := newWidgetHost()
	n, _ := h.ResolveInvokeByInstance(context.Background(), widget{Name: "bolt", Price: 5}, "price")
	v, err := h.ExecuteProperty(context.Background(), n.Targets[0].Obj, n.Targets[0].Members[0])
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(5) {
		t.Fatalf("expected 5, got %v", v)
	}
}

func TestHostExecuteParameterizedMethod(t *testing.T) {
	h := newWidgetHost()
	n, _ := h.ResolveInvokeByInstance(context.Background(), widget{Name: "bolt", Price: 5}, "Total")
	v, err := h.ExecuteParameterizedMethod(context.Background(), n.Targets[0].Obj, n.Targets[0].Members, []any{int64(3)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(15) {
		t.Fatalf("expected 15, got %v", v)
	}
}

func TestHostExecuteUnitMethodReturningError(t *testing.T) {
	h := newWidgetHost()
	n, _ := h.ResolveInvokeByInstance(context.Background(), widget{}, "Describe")
	_, err := h.ExecuteUnitMethod(context.Background(), n.Targets[0].Obj, n.Targets[0].Members)
	if err == nil {
		t.Fatalf("expected Describe to surface its own error for an unnamed widget")
	}
}

func TestHostExecuteConstructor(t *testing.T) {
	h := newWidgetHost()
	v, ok, err := h.ExecuteConstructor(context.Background(), []string{""}, "Widget", []any{"bolt", int64(5)})
	if err != nil || !ok {
		t.Fatalf("expected the constructor to match, got ok=%v err=%v", ok, err)
	}
	w, ok := v.(widget)
	if !ok || w.Name != "bolt" || w.Price != 5 {
		t.Fatalf("expected widget{bolt,5}, got %+v", v)
	}
}

func TestHostExecuteConstructorNoMatch(t *testing.T) {
	h := newWidgetHost()
	_, ok, err := h.ExecuteConstructor(context.Background(), []string{""}, "Gadget", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected no constructor match for an unregistered type")
	}
}

func TestHostCachedResolveStatic(t *testing.T) {
	h := newWidgetHost()
	nodes, err := h.CachedResolveStatic(context.Background(), []string{""}, "Widget", "Default")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(nodes) != 1 {
		t.Fatalf("expected exactly one match, got %d", len(nodes))
	}
}

func TestHostCachedResolveStaticAmbiguous(t *testing.T) {
	h := newWidgetHost()
	h.RegisterStatic("Other", "Widget", "Default", widget{Name: "other"})
	_, err := h.CachedResolveStatic(context.Background(), []string{"", "Other"}, "Widget", "Default")
	if err == nil {
		t.Fatalf("expected an ambiguity error across two namespaces")
	}
}

func TestHostCallIndexedPropertySlice(t *testing.T) {
	h := New()
	v, err := h.CallIndexedProperty(context.Background(), []any{int64(10), int64(20), int64(30)}, []any{int64(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(20) {
		t.Fatalf("expected 20, got %v", v)
	}
}

func TestHostCallIndexedPropertyMap(t *testing.T) {
	h := New()
	v, err := h.CallIndexedProperty(context.Background(), map[string]any{"a": int64(1)}, []any{"a"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != int64(1) {
		t.Fatalf("expected 1, got %v", v)
	}
}

func TestHostCallIndexedPropertyOutOfRange(t *testing.T) {
	h := New()
	_, err := h.CallIndexedProperty(context.Background(), []any{int64(1)}, []any{int64(5)})
	if err == nil {
		t.Fatalf("expected an out-of-range error")
	}
}

func TestHostResolveInvokeAtDepthBroadcastsFields(t *testing.T) {
	h := newWidgetHost()
	widgets := []any{widget{Name: "a", Price: 1}, widget{Name: "b", Price: 2}}
	targets, ok, err := h.ResolveInvokeAtDepth(context.Background(), 1, widgets, "price")
	if err != nil || !ok {
		t.Fatalf("expected a broadcast match, got ok=%v err=%v", ok, err)
	}
	if len(targets) != 2 {
		t.Fatalf("expected 2 targets, got %d", len(targets))
	}
}

func TestHostResolveInvokeAtDepthNonCollectionErrors(t *testing.T) {
	h := newWidgetHost()
	_, _, err := h.ResolveInvokeAtDepth(context.Background(), 1, widget{Name: "a"}, "price")
	if err == nil {
		t.Fatalf("expected an error descending into a non-collection value")
	}
}

func TestHostResolveResultTypePassesThrough(t *testing.T) {
	h := New()
	n := h.ResolveResultType(context.Background(), int64(42))
	if n.Value != int64(42) {
		t.Fatalf("expected 42, got %v", n.Value)
	}
}
