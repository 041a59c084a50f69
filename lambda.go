package barb

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// lambdaKey addresses a mutable binding cell in a LambdaArena.
type lambdaKey = uuid.UUID

// LambdaArena owns the mutable binding-set for every lambda created
// during a reduction. Recursive self-reference ("let f = fun n -> ... f
// ... in ...") needs a lambda's bindings to eventually include itself;
// rather than a raw self-pointer, each Lambda node carries an arena key,
// and the arena cell is installed after the lambda value is built (spec
// .md §9: "represent lambdas by index into an arena and install the
// self-binding as an index rather than a direct pointer"). Reads and
// writes are mutex-guarded so an arena can be shared if a host chooses
// to reduce independent invocations concurrently against one compiled
// template.
type LambdaArena struct {
	mu    sync.Mutex
	cells map[lambdaKey]*Bindings
}

// NewLambdaArena returns an empty arena.
func NewLambdaArena() *LambdaArena {
	return &LambdaArena{cells: map[lambdaKey]*Bindings{}}
}

// New allocates a fresh cell holding b and returns its key.
func (a *LambdaArena) New(b *Bindings) lambdaKey {
	key := uuid.New()
	a.mu.Lock()
	a.cells[key] = b
	a.mu.Unlock()
	return key
}

// Get returns the bindings currently installed at key.
func (a *LambdaArena) Get(key lambdaKey) *Bindings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.cells[key]
}

// Set replaces the bindings installed at key — the mutation step that
// ties a recursive lambda's knot.
func (a *LambdaArena) Set(key lambdaKey, b *Bindings) {
	a.mu.Lock()
	a.cells[key] = b
	a.mu.Unlock()
}

// newLambda builds a Lambda node whose bindings live in arena at a fresh
// key, for a non-recursive (or not-yet-recursive) lambda value.
func newLambda(offset, length uint32, arena *LambdaArena, params []string, bindings *Bindings, body Node) Node {
	key := arena.New(bindings)
	return Node{
		Offset: offset, Length: length, Kind: KindLambda,
		Params: params, BindingsKey: key, Arena: arena, Body: &body,
	}
}

// NewLambda builds a Lambda literal with no params yet applied, for use
// by a front end translating source syntax into a Node tree.
func NewLambda(offset, length uint32, arena *LambdaArena, params []string, body Node) Node {
	return newLambda(offset, length, arena, params, NewBindings(), body)
}

// lambdaBindings returns the live bindings for a Lambda node.
func lambdaBindings(n Node) *Bindings {
	if n.Arena == nil {
		return NewBindings()
	}
	return n.Arena.Get(n.BindingsKey)
}

// withParamBound returns a new Lambda node with head(Params) removed and
// bound to x in a fresh arena cell seeded from the current bindings —
// this is partial application (spec.md §4.4): L' = Lambda{params:
// tail(L.params), bindings: L.bindings ∪ {head(L.params) -> x}}.
func withParamBound(n Node, x Node) Node {
	bindings := lambdaBindings(n).WithValue(n.Params[0], x)
	key := n.Arena.New(bindings)
	out := n
	out.Params = n.Params[1:]
	out.BindingsKey = key
	return out
}

// recursiveBind ties the knot for `let n = lambda in scope` when lambda
// reduces to a Lambda value during non-final reduction (spec.md §4.4):
//  1. strip env of any name shadowed by a lambda param,
//  2. reduce lambda.body once under that stripped env merged with the
//     lambda's own bindings, producing body',
//  3. build L' with body = body',
//  4. install n -> L' into L''s own arena cell so references to n inside
//     body' resolve back to L' itself,
//  5. the caller reduces scope under env extended with n -> L'.
func recursiveBind(ctx context.Context, rc *reduceCtx, name string, lambda Node, env *Bindings) (Node, error) {
	stripped := env.Without(lambda.Params...)
	merged := stripped.Merge(lambdaBindings(lambda))

	body := *lambda.Body
	bodyPrime, err := rc.reduceToSingle(ctx, merged, body)
	if err != nil {
		return Node{}, err
	}

	lambdaPrime := lambda
	lambdaPrime.Body = &bodyPrime

	bindings := lambdaBindings(lambda)
	lambdaPrime.Arena.Set(lambdaPrime.BindingsKey, bindings.WithValue(name, lambdaPrime))

	return lambdaPrime, nil
}
