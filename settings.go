package barb

// Settings configures a reduction pass (spec.md §6).
type Settings struct {
	// BindGlobalsWhenReducing allows static namespace lookups during
	// non-final passes, enabling constant folding of host constants.
	BindGlobalsWhenReducing bool

	// FailOnCatchAll, if true, makes the walker's terminal "unexpected
	// case" raise an error; if false, it returns residual nodes instead
	// (see the Open Question in spec.md §9 and MultiError in errors.go).
	FailOnCatchAll bool

	// Namespaces lists the namespaces searched for static lookups and
	// constructors. Defaults include the empty/null namespace.
	Namespaces []string

	// AdditionalBindings seeds the environment with values, injected as
	// Existing bindings before reduction begins.
	AdditionalBindings map[string]any
}

// DefaultSettings returns the spec.md §6 defaults: globals bound during
// reduction, strict catch-all, and the empty namespace plus a short
// host-standard list.
func DefaultSettings() Settings {
	return Settings{
		BindGlobalsWhenReducing: true,
		FailOnCatchAll:          true,
		Namespaces:              []string{"", "Std"},
	}
}

// Env builds the Bindings an initial reduction pass should start from,
// seeding AdditionalBindings as Existing entries.
func (s Settings) Env() *Bindings {
	b := NewBindings()
	for name, v := range s.AdditionalBindings {
		value := v
		b = b.WithValue(name, Obj(0, 0, value))
	}
	return b
}
