package reflecthost

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/user/barb"
)

// memberHandle is the concrete type behind barb.HostMember for this
// implementation: a resolved Go struct field or method, found once and
// cached by name so repeated resolution against the same type is a map
// lookup, not a fresh reflect.Type walk.
type memberHandle struct {
	field  bool
	index  []int
	method string
}

// Host implements barb.Host over plain Go values via the standard
// reflect package — the seam spec'd out of the reducer itself. Static
// lookups and constructors are served from small explicit registries
// rather than conjured from reflection, since Go has no runtime notion
// of "every type in namespace X."
type Host struct {
	cache        *barb.MemberCache
	statics      map[string]any
	constructors map[string]func([]any) (any, error)
}

// New returns a Host with empty static/constructor registries.
func New() *Host {
	return &Host{
		cache:        barb.NewMemberCache(),
		statics:      map[string]any{},
		constructors: map[string]func([]any) (any, error){},
	}
}

// RegisterStatic installs a value reachable via `$typeName:member` or
// `typeName.member` static references while namespace is one of the
// reduction's Settings.Namespaces.
func (h *Host) RegisterStatic(namespace, typeName, member string, value any) {
	h.statics[staticKey(namespace, typeName, member)] = value
}

// RegisterConstructor installs a constructor reachable via
// `new typeName(args)` within namespace.
func (h *Host) RegisterConstructor(namespace, typeName string, fn func([]any) (any, error)) {
	h.constructors[namespace+":"+typeName] = fn
}

func staticKey(namespace, typeName, member string) string {
	return namespace + ":" + typeName + "." + member
}

func exportedName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// resolveMember finds name as an exported field or method on t, using
// and populating the cache.
func (h *Host) resolveMember(t reflect.Type, name string) (memberHandle, bool) {
	exported := exportedName(name)
	if m, ok := h.cache.Get(t.String(), exported); ok {
		return m.(memberHandle), true
	}

	base := t
	for base.Kind() == reflect.Ptr {
		base = base.Elem()
	}
	if base.Kind() == reflect.Struct {
		if f, ok := base.FieldByName(exported); ok && f.PkgPath == "" {
			m := memberHandle{field: true, index: f.Index}
			h.cache.Put(t.String(), exported, m)
			return m, true
		}
	}
	if _, ok := t.MethodByName(exported); ok {
		m := memberHandle{method: exported}
		h.cache.Put(t.String(), exported, m)
		return m, true
	}
	return memberHandle{}, false
}

func (h *Host) resolveOne(obj any, name string) (barb.Node, bool) {
	if obj == nil {
		return barb.Node{}, false
	}
	v := reflect.ValueOf(obj)
	m, ok := h.resolveMember(v.Type(), name)
	if !ok {
		return barb.Node{}, false
	}
	target := barb.MemberTarget{Obj: obj, Members: []barb.HostMember{m}}
	if m.field {
		return barb.Node{Kind: barb.KindAppliedProperty, Targets: []barb.MemberTarget{target}}, true
	}
	return barb.Node{Kind: barb.KindInvokable, Targets: []barb.MemberTarget{target}}, true
}

// ResolveInvokeByInstance implements barb.Host.
func (h *Host) ResolveInvokeByInstance(ctx context.Context, obj any, name string) (barb.Node, bool) {
	return h.resolveOne(obj, name)
}

// ResolveInvokeAtDepth implements barb.Host, descending depth collection
// levels from obj before resolving name on every element found there.
func (h *Host) ResolveInvokeAtDepth(ctx context.Context, depth int, obj any, name string) ([]barb.MemberTarget, bool, error) {
	elements, err := descend(obj, depth)
	if err != nil {
		return nil, false, err
	}

	targets := make([]barb.MemberTarget, 0, len(elements))
	sawField, sawMethod := false, false
	for _, el := range elements {
		if el == nil {
			continue
		}
		v := reflect.ValueOf(el)
		m, ok := h.resolveMember(v.Type(), name)
		if !ok {
			return nil, false, nil
		}
		if m.field {
			sawField = true
		} else {
			sawMethod = true
		}
		targets = append(targets, barb.MemberTarget{Obj: el, Members: []barb.HostMember{m}})
	}
	if sawField && sawMethod {
		return nil, false, fmt.Errorf("member %q resolves to both a field and a method across descended elements", name)
	}
	return targets, true, nil
}

func descend(obj any, depth int) ([]any, error) {
	level := []any{obj}
	for d := 0; d < depth; d++ {
		var next []any
		for _, el := range level {
			v := reflect.ValueOf(el)
			for v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface {
				v = v.Elem()
			}
			if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
				return nil, fmt.Errorf("cannot descend into non-collection value %T at depth %d", el, d)
			}
			for i := 0; i < v.Len(); i++ {
				next = append(next, v.Index(i).Interface())
			}
		}
		level = next
	}
	return level, nil
}

// CachedResolveStatic implements barb.Host.
func (h *Host) CachedResolveStatic(ctx context.Context, namespaces []string, typeName, member string) ([]barb.Node, error) {
	var matches []barb.Node
	for _, ns := range namespaces {
		if v, ok := h.statics[staticKey(ns, typeName, member)]; ok {
			matches = append(matches, barb.Obj(0, 0, v))
		}
	}
	if len(matches) > 1 {
		return nil, fmt.Errorf("static reference %s.%s is ambiguous across %d namespaces", typeName, member, len(matches))
	}
	return matches, nil
}

// ExecuteUnitMethod implements barb.Host.
func (h *Host) ExecuteUnitMethod(ctx context.Context, obj any, members []barb.HostMember) (any, error) {
	return h.callMethod(obj, members, nil)
}

// ExecuteParameterizedMethod implements barb.Host.
func (h *Host) ExecuteParameterizedMethod(ctx context.Context, obj any, members []barb.HostMember, args []any) (any, error) {
	return h.callMethod(obj, members, args)
}

func (h *Host) callMethod(obj any, members []barb.HostMember, args []any) (any, error) {
	if len(members) != 1 {
		return nil, fmt.Errorf("expected exactly one method handle, got %d", len(members))
	}
	m, ok := members[0].(memberHandle)
	if !ok || m.method == "" {
		return nil, fmt.Errorf("handle does not address a method")
	}
	fn := reflect.ValueOf(obj).MethodByName(m.method)
	if !fn.IsValid() {
		return nil, fmt.Errorf("method %q not found on %T", m.method, obj)
	}
	in, err := convertArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}
	return callAndUnwrap(fn, in)
}

// ExecuteConstructor implements barb.Host.
func (h *Host) ExecuteConstructor(ctx context.Context, namespaces []string, typeName string, args []any) (any, bool, error) {
	for _, ns := range namespaces {
		if fn, ok := h.constructors[ns+":"+typeName]; ok {
			v, err := fn(args)
			return v, true, err
		}
	}
	return nil, false, nil
}

// ExecuteProperty implements barb.Host.
func (h *Host) ExecuteProperty(ctx context.Context, obj any, member barb.HostMember) (any, error) {
	m, ok := member.(memberHandle)
	if !ok || !m.field {
		return nil, fmt.Errorf("handle does not address a field")
	}
	v := reflect.ValueOf(obj)
	for v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	return v.FieldByIndex(m.index).Interface(), nil
}

// ExecuteIndexer implements barb.Host: reads a resolved field/method and
// then indexes its value by args.
func (h *Host) ExecuteIndexer(ctx context.Context, obj any, members []barb.HostMember, args []any) (any, error) {
	if len(members) != 1 {
		return nil, fmt.Errorf("expected exactly one handle, got %d", len(members))
	}
	m, ok := members[0].(memberHandle)
	if !ok {
		return nil, fmt.Errorf("invalid member handle")
	}
	var v any
	var err error
	if m.field {
		v, err = h.ExecuteProperty(ctx, obj, m)
	} else {
		v, err = h.callMethod(obj, []barb.HostMember{m}, nil)
	}
	if err != nil {
		return nil, err
	}
	return h.CallIndexedProperty(ctx, v, args)
}

// CallIndexedProperty implements barb.Host: indexes a slice, array, or
// map by a single argument.
func (h *Host) CallIndexedProperty(ctx context.Context, obj any, args []any) (any, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("indexing takes exactly one argument, got %d", len(args))
	}
	v := reflect.ValueOf(obj)
	switch v.Kind() {
	case reflect.Slice, reflect.Array:
		i, ok := toInt(args[0])
		if !ok {
			return nil, fmt.Errorf("cannot index %T with %T", obj, args[0])
		}
		if i < 0 || i >= int64(v.Len()) {
			return nil, fmt.Errorf("index %d out of range [0,%d)", i, v.Len())
		}
		return v.Index(int(i)).Interface(), nil
	case reflect.Map:
		key := reflect.ValueOf(args[0])
		val := v.MapIndex(key)
		if !val.IsValid() {
			return nil, nil
		}
		return val.Interface(), nil
	default:
		return nil, fmt.Errorf("cannot index value of type %T", obj)
	}
}

// ResolveResultType implements barb.Host: host values pass through
// untouched except for the normalization the reducer's own Obj model
// needs — there is no host-side "null" distinct from Go's nil.
func (h *Host) ResolveResultType(ctx context.Context, value any) barb.Node {
	return barb.Obj(0, 0, value)
}

func toInt(v any) (int64, bool) {
	switch x := v.(type) {
	case int64:
		return x, true
	case int:
		return int64(x), true
	case float64:
		return int64(x), true
	default:
		return 0, false
	}
}

func convertArgs(fnType reflect.Type, args []any) ([]reflect.Value, error) {
	if fnType.NumIn() != len(args) {
		return nil, fmt.Errorf("method takes %d argument(s), got %d", fnType.NumIn(), len(args))
	}
	out := make([]reflect.Value, len(args))
	for i, a := range args {
		want := fnType.In(i)
		v := reflect.ValueOf(a)
		if a == nil {
			out[i] = reflect.Zero(want)
			continue
		}
		if !v.Type().AssignableTo(want) && v.Type().ConvertibleTo(want) {
			v = v.Convert(want)
		}
		out[i] = v
	}
	return out, nil
}

func callAndUnwrap(fn reflect.Value, args []reflect.Value) (any, error) {
	results := fn.Call(args)
	if len(results) == 0 {
		return nil, nil
	}
	last := results[len(results)-1]
	if last.Type().Implements(errType) {
		var err error
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		if len(results) == 1 {
			return nil, err
		}
		return results[0].Interface(), err
	}
	if len(results) == 1 {
		return results[0].Interface(), nil
	}
	vals := make([]any, len(results))
	for i, r := range results {
		vals[i] = r.Interface()
	}
	return vals, nil
}

var errType = reflect.TypeOf((*error)(nil)).Elem()
