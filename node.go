package barb

import "fmt"

// Kind discriminates the shape of an expression node. The data model in
// spec form is a closed sum of variants with two wrapper tags (Resolved/
// Unresolved) and nested InvokableExpr variants; per the flattening
// redesign note, both collapse onto the Node struct itself instead of
// nested wrapper kinds: Unresolved becomes a bool flag, and Invokable
// unifies AppliedMethod/AppliedMultiMethod behind a Multi flag.
type Kind int

const (
	// Leaves
	KindUnit Kind = iota
	KindObj
	KindUnknown
	KindReturned

	// Operator/dispatch markers
	KindInvoke
	KindNew
	KindAppliedInvoke
	KindPrefix
	KindPostfix
	KindInfix
	KindIndexArgs

	// Host-member handles
	KindAppliedProperty
	KindAppliedMultiProperty
	KindAppliedIndexedProperty
	KindInvokable

	// Composites
	KindSubExpression
	KindTuple
	KindArrayBuilder
	KindSetBuilder
	KindBVar
	KindLambda
	KindIfThenElse
	KindGenerator
	KindAnd
	KindOr
)

func (k Kind) String() string {
	switch k {
	case KindUnit:
		return "Unit"
	case KindObj:
		return "Obj"
	case KindUnknown:
		return "Unknown"
	case KindReturned:
		return "Returned"
	case KindInvoke:
		return "Invoke"
	case KindNew:
		return "New"
	case KindAppliedInvoke:
		return "AppliedInvoke"
	case KindPrefix:
		return "Prefix"
	case KindPostfix:
		return "Postfix"
	case KindInfix:
		return "Infix"
	case KindIndexArgs:
		return "IndexArgs"
	case KindAppliedProperty:
		return "AppliedProperty"
	case KindAppliedMultiProperty:
		return "AppliedMultiProperty"
	case KindAppliedIndexedProperty:
		return "AppliedIndexedProperty"
	case KindInvokable:
		return "Invokable"
	case KindSubExpression:
		return "SubExpression"
	case KindTuple:
		return "Tuple"
	case KindArrayBuilder:
		return "ArrayBuilder"
	case KindSetBuilder:
		return "SetBuilder"
	case KindBVar:
		return "BVar"
	case KindLambda:
		return "Lambda"
	case KindIfThenElse:
		return "IfThenElse"
	case KindGenerator:
		return "Generator"
	case KindAnd:
		return "And"
	case KindOr:
		return "Or"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// UnaryFunc is a host-supplied prefix/postfix operator function.
type UnaryFunc func(x any) (any, error)

// BinaryFunc is a host-supplied infix operator function.
type BinaryFunc func(a, b any) (any, error)

// Node is one element of the expression tree. Offset/Length locate it in
// the original source for diagnostics and are preserved across rewrites;
// merging two nodes into one spans from the earlier offset through the
// later end (see mergeSpan).
//
// Only the fields relevant to Kind are populated; this mirrors a tagged
// union without literal wrapper types, per spec.md §9's flattening note.
type Node struct {
	Offset uint32
	Length uint32
	Kind   Kind

	// Unresolved marks a container/composite whose transitive contents
	// still depend on unresolved inputs. A node with Unresolved == false
	// honors the invariant that, if it is a container, every contained
	// node's Kind is KindObj.
	Unresolved bool

	// KindObj / KindReturned: the opaque host payload.
	Value any

	// KindUnknown: the unresolved identifier name.
	// KindAppliedInvoke: the .name suffix.
	// KindInfix/KindPrefix/KindPostfix: unused (see Fn).
	Name string

	// KindAppliedInvoke: nesting depth for collection descent.
	Depth int

	// KindInfix: operator precedence (also read by the triple reducer).
	Prec int

	// KindPrefix/KindPostfix/KindInfix: the host-supplied operator
	// function, exactly one of which is non-nil depending on Kind.
	UnaryFn  UnaryFunc
	BinaryFn BinaryFunc

	// KindAppliedProperty/KindAppliedMultiProperty/
	// KindAppliedIndexedProperty/KindInvokable: resolved member handles.
	// Multi marks AppliedMultiProperty / a multi-target Invokable.
	Targets []MemberTarget
	Multi   bool

	// KindSubExpression/KindTuple/KindArrayBuilder/KindSetBuilder/
	// KindIndexArgs: child nodes.
	Items []Node

	// KindBVar: `let BindName = BindValue in BindScope`.
	BindName  string
	BindValue *Node
	BindScope *Node

	// KindLambda: params still awaiting arguments, the binding
	// environment carrying already-applied params and (for recursive
	// lambdas) a self-reference, and the function body. BindingsKey
	// addresses the mutable cell in the owning LambdaArena (see
	// lambda.go) rather than holding a raw pointer, so recursive self-
	// reference is installed as an index, not identity.
	Params      []string
	BindingsKey lambdaKey
	Arena       *LambdaArena
	Body        *Node

	// KindIfThenElse
	Cond *Node
	Then *Node
	Else *Node

	// KindGenerator: `{start .. step .. end}`
	Start *Node
	Step  *Node
	End   *Node

	// KindAnd/KindOr
	Left  *Node
	Right *Node
}

// mergeSpan computes the offset/length of a node produced by rewriting
// two adjacent nodes into one: it must cover both inputs' spans.
func mergeSpan(a, b Node) (offset, length uint32) {
	start := a.Offset
	end := a.Offset + a.Length
	if bEnd := b.Offset + b.Length; bEnd > end {
		end = bEnd
	}
	if b.Offset < start {
		start = b.Offset
	}
	return start, end - start
}

// Obj constructs a fully-resolved leaf carrying a host value.
func Obj(offset, length uint32, v any) Node {
	return Node{Offset: offset, Length: length, Kind: KindObj, Value: v}
}

// Unit constructs the empty-argument marker used for zero-arg calls.
func Unit(offset, length uint32) Node {
	return Node{Offset: offset, Length: length, Kind: KindUnit}
}

// Unknown constructs an identifier not yet resolved from the environment.
func Unknown(offset, length uint32, name string) Node {
	return Node{Offset: offset, Length: length, Kind: KindUnknown, Name: name}
}

// isObj reports whether n is a fully-resolved value leaf.
func isObj(n Node) bool { return n.Kind == KindObj }

// asBool extracts a bool from an Obj node; its second result is false
// when n is not an Obj or the payload isn't a bool.
func asBool(n Node) (bool, bool) {
	if n.Kind != KindObj {
		return false, false
	}
	b, ok := n.Value.(bool)
	return b, ok
}

func isNull(v any) bool { return v == nil }
