package barb

import "context"

// HostMember is an opaque, host-supplied handle identifying a resolved
// property or method on a host type (spec.md's pinfo/minfo). The
// reducer never inspects its contents; it only threads it back to Host.
type HostMember any

// MemberTarget pairs a host object with the member handle(s) resolved
// against it. A single-target lookup has exactly one MemberTarget; a
// depth>0 AppliedInvoke descent produces one per collection element.
// AppliedIndexedProperty carries every overload's pinfo in one target's
// Members.
type MemberTarget struct {
	Obj     any
	Members []HostMember
}

// Host is the reflection/dispatch collaborator the reducer calls into.
// How a property or method is actually located on a host value is
// deliberately out of scope for the reducer (spec.md §1); Host is the
// seam. barb/reflecthost provides a reference implementation over Go
// values via the standard reflect package.
type Host interface {
	// ResolveInvokeByInstance resolves a single .name access against obj
	// and reports whether name resolves on obj's type at all. The
	// returned node is what the Obj+AppliedInvoke pairwise rule splices
	// in: an already-read KindObj, a KindInvokable awaiting a call, or an
	// AppliedProperty/AppliedIndexedProperty handle awaiting a read.
	ResolveInvokeByInstance(ctx context.Context, obj any, name string) (Node, bool)

	// ResolveInvokeAtDepth descends depth collection levels from obj and
	// resolves name on every element found at that depth. The reducer
	// does not itself check the targets for a mix of properties and
	// methods; an implementation that rejects such a mix returns an
	// error, which the reducer passes on unchanged when it is a
	// *BarbExecutionError and otherwise wraps as host-invocation-failed.
	ResolveInvokeAtDepth(ctx context.Context, depth int, obj any, name string) ([]MemberTarget, bool, error)

	// CachedResolveStatic resolves a static member across namespaces.
	// Exactly one match is expected.
	CachedResolveStatic(ctx context.Context, namespaces []string, typeName, member string) ([]Node, error)

	// ExecuteUnitMethod calls a zero-argument method handle.
	ExecuteUnitMethod(ctx context.Context, obj any, members []HostMember) (any, error)

	// ExecuteParameterizedMethod calls a method handle with args.
	ExecuteParameterizedMethod(ctx context.Context, obj any, members []HostMember, args []any) (any, error)

	// ExecuteConstructor calls a constructor for typeName with args. ok
	// is false if no constructor by that name/arity exists.
	ExecuteConstructor(ctx context.Context, namespaces []string, typeName string, args []any) (any, bool, error)

	// ExecuteProperty reads the value behind a resolved property handle
	// (the step that turns an AppliedProperty into a value).
	ExecuteProperty(ctx context.Context, obj any, member HostMember) (any, error)

	// ExecuteIndexer reads an indexed/overloaded property with args.
	ExecuteIndexer(ctx context.Context, obj any, members []HostMember, args []any) (any, error)

	// CallIndexedProperty indexes a plain value (array/slice/map) that
	// never went through member resolution, e.g. `Obj(x)[args]`.
	CallIndexedProperty(ctx context.Context, obj any, args []any) (any, error)

	// ResolveResultType normalizes a freshly-returned host value into
	// the node substituted for Returned(v) (return-normalization,
	// spec.md §4.3) — e.g. mapping a host null to the canonical nil.
	ResolveResultType(ctx context.Context, value any) Node
}
