package barb

// BindingFactory reconstructs a node carrying a bound expression, given
// the offset/length of the use site, so diagnostics point at the
// reference rather than the definition (spec.md §3).
type BindingFactory func(offset, length uint32) Node

// binding is either ComingLater (promised but not yet supplied) or
// Existing (backed by a factory).
type binding struct {
	comingLater bool
	factory     BindingFactory
}

// Bindings is an ordered name -> binding environment. It is immutable
// from the caller's point of view: every With* method returns a new
// Bindings holding its own copy of the names and map, so a compiled expression's
// captured environment stays safely shareable across goroutines (spec.md
// §5) while per-invocation reduction extends its own copy.
type Bindings struct {
	names []string
	vals  map[string]binding
}

// NewBindings returns an empty environment.
func NewBindings() *Bindings {
	return &Bindings{vals: map[string]binding{}}
}

// Lookup reports the binding for name, if any.
func (b *Bindings) Lookup(name string) (comingLater bool, factory BindingFactory, ok bool) {
	if b == nil {
		return false, nil, false
	}
	v, ok := b.vals[name]
	if !ok {
		return false, nil, false
	}
	return v.comingLater, v.factory, true
}

// clone makes a shallow structural copy safe to extend independently.
func (b *Bindings) clone() *Bindings {
	out := &Bindings{vals: make(map[string]binding, len(b.vals)+1)}
	if b != nil {
		out.names = append(out.names, b.names...)
		for k, v := range b.vals {
			out.vals[k] = v
		}
	}
	return out
}

// WithComingLater returns an environment extended with a promise that
// name will be supplied on a later pass.
func (b *Bindings) WithComingLater(name string) *Bindings {
	out := b.clone()
	if _, exists := out.vals[name]; !exists {
		out.names = append(out.names, name)
	}
	out.vals[name] = binding{comingLater: true}
	return out
}

// WithFactory returns an environment extended with name bound to the
// result of factory, reconstructed at each use site.
func (b *Bindings) WithFactory(name string, factory BindingFactory) *Bindings {
	out := b.clone()
	if _, exists := out.vals[name]; !exists {
		out.names = append(out.names, name)
	}
	out.vals[name] = binding{factory: factory}
	return out
}

// WithValue returns an environment extended with name bound to a fixed
// node value, regardless of the offset/length of the use site.
func (b *Bindings) WithValue(name string, n Node) *Bindings {
	return b.WithFactory(name, func(offset, length uint32) Node {
		n.Offset, n.Length = offset, length
		return n
	})
}

// Without returns an environment with the given names removed — used by
// the param-shadow-strip step of recursive lambda binding (spec.md §4.4).
func (b *Bindings) Without(names ...string) *Bindings {
	if b == nil || len(names) == 0 {
		return b
	}
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}
	out := &Bindings{vals: make(map[string]binding, len(b.vals))}
	for _, name := range b.names {
		if drop[name] {
			continue
		}
		out.names = append(out.names, name)
		out.vals[name] = b.vals[name]
	}
	return out
}

// Merge returns an environment containing every binding from b, then
// overlaid with every binding from other; other wins on conflict. This
// implements "initial_env ∪ lambda.bindings" where lambda bindings win
// (spec.md §4.2, Lambda fully-applied rule).
func (b *Bindings) Merge(other *Bindings) *Bindings {
	out := b.clone()
	if other == nil {
		return out
	}
	for _, name := range other.names {
		if _, exists := out.vals[name]; !exists {
			out.names = append(out.names, name)
		}
		out.vals[name] = other.vals[name]
	}
	return out
}

// Names returns the binding names in insertion order (for diagnostics).
func (b *Bindings) Names() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.names))
	copy(out, b.names)
	return out
}
