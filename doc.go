// Package barb implements a partial-evaluation reducer for a small
// embedded expression language: method/property/constructor invocation
// against a host object model, arithmetic and logical operators with
// precedence, short-circuiting boolean connectives, conditional
// expressions, numeric generator sequences, lambda abstraction and
// partial application with recursion, let-bindings with lexical
// scoping, tuple/array construction, and indexed access.
//
// The package consumes an already-parsed expression tree (a []Node) and
// a binding environment, and rewrites the tree toward a single value (or
// a residual tree when some inputs are still "coming later"). Lexing and
// parsing to the tree, and the concrete reflection glue that locates a
// property or method on a host value, are not this package's concern —
// see the Host interface and the barb/reflecthost and barb/syntax
// packages for reference collaborators.
package barb
