package syntax

import (
	"fmt"
	"strconv"

	"github.com/user/barb"
)

type parser struct {
	tokens []token
	pos    int
	diags  []Diagnostic
	arena  *barb.LambdaArena
}

// Parse lexes and parses input into a single root Node plus any
// diagnostics. A nil Node with no diagnostics never happens; a non-nil
// slice of diagnostics always means the Node (if any) is best-effort.
func Parse(input string) (*barb.Node, []Diagnostic) {
	p := &parser{arena: barb.NewLambdaArena()}
	if err := p.lexAll(input); err != nil {
		p.errorf(0, 0, "LEX_ERROR", "%v", err)
		return nil, p.diags
	}

	n := p.parseExpr()
	if p.current().typ != tokEOF {
		t := p.current()
		p.errorf(t.offset, t.length, "PARSE_ERROR", "unexpected trailing token %q", t.lit)
	}
	return n, p.diags
}

func (p *parser) lexAll(input string) error {
	lex := newLexer(input)
	for {
		tok, err := lex.nextToken()
		if err != nil {
			return err
		}
		p.tokens = append(p.tokens, tok)
		if tok.typ == tokEOF {
			return nil
		}
	}
}

func (p *parser) current() token {
	if p.pos >= len(p.tokens) {
		return token{typ: tokEOF}
	}
	return p.tokens[p.pos]
}

func (p *parser) peek(n int) token {
	if p.pos+n >= len(p.tokens) {
		return token{typ: tokEOF}
	}
	return p.tokens[p.pos+n]
}

func (p *parser) advance() token {
	t := p.current()
	if p.pos < len(p.tokens) {
		p.pos++
	}
	return t
}

func (p *parser) expect(tt tokenType, what string) token {
	t := p.current()
	if t.typ != tt {
		p.errorf(t.offset, t.length, "PARSE_ERROR", "expected %s, got %q", what, t.lit)
		return t
	}
	return p.advance()
}

func (p *parser) errorf(offset, length uint32, code, format string, args ...any) {
	p.diags = append(p.diags, Diagnostic{Level: DiagError, Offset: offset, Length: length, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (p *parser) isKeyword(lit string) bool {
	return p.current().typ == tokIdentifier && p.current().lit == lit
}

// parseExpr := orExpr
func (p *parser) parseExpr() *barb.Node {
	return p.parseOr()
}

func (p *parser) parseOr() *barb.Node {
	left := p.parseAnd()
	for p.current().typ == tokOp && p.current().lit == "||" {
		op := p.advance()
		right := p.parseAnd()
		offset, length := spanUnion(left.Offset, left.Length, op.offset, right.Offset+right.Length)
		left = &barb.Node{Offset: offset, Length: length, Kind: barb.KindOr, Left: left, Right: right}
	}
	return left
}

func (p *parser) parseAnd() *barb.Node {
	left := p.parseFlatInfix()
	for p.current().typ == tokOp && p.current().lit == "&&" {
		op := p.advance()
		right := p.parseFlatInfix()
		offset, length := spanUnion(left.Offset, left.Length, op.offset, right.Offset+right.Length)
		left = &barb.Node{Offset: offset, Length: length, Kind: barb.KindAnd, Left: left, Right: right}
	}
	return left
}

// parseFlatInfix collects a flat, unassociated `unary (op unary)*`
// sequence and a `start..step..end` generator form, handing both to the
// reducer instead of building a precedence tree itself.
func (p *parser) parseFlatInfix() *barb.Node {
	items := p.parseInfixChain()

	if p.current().typ == tokDotDot {
		return p.parseGenerator(items)
	}

	return wrapFlat(items)
}

// parseInfixChain collects the flat `unary (op unary)*` items without
// checking for a trailing generator — used both by parseFlatInfix's own
// start-sequence and by parseGenerator's step/end parses, where a second
// `..` closes the generator rather than opening a nested one.
func (p *parser) parseInfixChain() []barb.Node {
	items := p.parseUnaryTerm()
	for p.current().typ == tokOp {
		if op, ok := operators[p.current().lit]; ok {
			opTok := p.advance()
			fn := op.fn
			items = append(items, barb.Node{Offset: opTok.offset, Length: opTok.length, Kind: barb.KindInfix, Prec: op.prec, BinaryFn: fn})
			items = append(items, p.parseUnaryTerm()...)
			continue
		}
		break
	}
	return items
}

func (p *parser) parseGenerator(start []barb.Node) *barb.Node {
	startNode := wrapFlat(start)
	p.advance() // ..
	stepNode := wrapFlat(p.parseInfixChain())
	p.expect(tokDotDot, "'..'")
	endNode := wrapFlat(p.parseInfixChain())
	offset, length := spanUnion(startNode.Offset, startNode.Length, startNode.Offset, endNode.Offset+endNode.Length)
	return &barb.Node{Offset: offset, Length: length, Kind: barb.KindGenerator, Start: startNode, Step: stepNode, End: endNode}
}

// parseUnaryTerm returns a flat slice: zero or more Prefix markers
// followed by a primary and its postfix chain, all left adjacent so the
// reducer's pairwise rules fold them from the inside out.
func (p *parser) parseUnaryTerm() []barb.Node {
	if p.current().typ == tokOp && (p.current().lit == "-" || p.current().lit == "!") {
		op := p.advance()
		rest := p.parseUnaryTerm()
		prefix := barb.Node{Offset: op.offset, Length: op.length, Kind: barb.KindPrefix, UnaryFn: unaryOperators[op.lit]}
		return append([]barb.Node{prefix}, rest...)
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() []barb.Node {
	items := []barb.Node{*p.parsePrimary()}
	for {
		switch p.current().typ {
		case tokDot:
			p.advance()
			id := p.expect(tokIdentifier, "member name")
			items = append(items, barb.Node{Offset: id.offset, Length: id.length, Kind: barb.KindAppliedInvoke, Name: id.lit})
		case tokLParen:
			args, offset, length := p.parseArgList(tokLParen, tokRParen)
			// A call trailing `.name` (a host member) or `new Type` (a
			// constructor) needs every argument delivered at once, so it
			// stays a grouped IndexArgs node for the pairwise rules that
			// expect that shape. A call trailing anything else is lambda
			// application: the language applies one argument at a time
			// (partial application, spec.md §4.4), so each argument is
			// spliced into the flat sequence as its own adjacent operand
			// and the reducer's existing (Lambda, Obj) pairwise rule binds
			// them left to right.
			if last := items[len(items)-1]; last.Kind == barb.KindAppliedInvoke || last.Kind == barb.KindNew {
				items = append(items, argsNode(args, offset, length))
			} else {
				items = append(items, args...)
			}
		case tokLBracket:
			args, offset, length := p.parseArgList(tokLBracket, tokRBracket)
			items = append(items, argsNode(args, offset, length))
		default:
			return items
		}
	}
}

func argsNode(args []barb.Node, offset, length uint32) barb.Node {
	if len(args) == 0 {
		return barb.Unit(offset, length)
	}
	return barb.Node{Offset: offset, Length: length, Kind: barb.KindIndexArgs, Items: args}
}

func (p *parser) parseArgList(open, close tokenType) ([]barb.Node, uint32, uint32) {
	startTok := p.expect(open, "(")
	var args []barb.Node
	if p.current().typ != close {
		args = append(args, *p.parseExpr())
		for p.current().typ == tokComma {
			p.advance()
			args = append(args, *p.parseExpr())
		}
	}
	endTok := p.expect(close, ")")
	return args, startTok.offset, (endTok.offset + endTok.length) - startTok.offset
}

func (p *parser) parsePrimary() *barb.Node {
	t := p.current()

	switch {
	case t.typ == tokNumber:
		p.advance()
		return numberNode(t)

	case t.typ == tokString:
		p.advance()
		return &barb.Node{Offset: t.offset, Length: t.length, Kind: barb.KindObj, Value: t.lit}

	case p.isKeyword("true"), p.isKeyword("false"):
		p.advance()
		return &barb.Node{Offset: t.offset, Length: t.length, Kind: barb.KindObj, Value: t.lit == "true"}

	case p.isKeyword("null"):
		p.advance()
		return &barb.Node{Offset: t.offset, Length: t.length, Kind: barb.KindObj, Value: nil}

	case p.isKeyword("let"):
		return p.parseLet()

	case p.isKeyword("if"):
		return p.parseIf()

	case p.isKeyword("fun"):
		return p.parseFun()

	case p.isKeyword("new"):
		p.advance()
		name := p.expect(tokIdentifier, "type name")
		return &barb.Node{Offset: t.offset, Length: name.offset + name.length - t.offset, Kind: barb.KindNew, Name: name.lit}

	case t.typ == tokDollar:
		return p.parseStaticRef()

	case t.typ == tokIdentifier:
		p.advance()
		return barbPtr(barb.Unknown(t.offset, t.length, t.lit))

	case t.typ == tokLParen:
		return p.parseParenGroup()

	case t.typ == tokLBracket:
		args, offset, length := p.parseArgList(tokLBracket, tokRBracket)
		return &barb.Node{Offset: offset, Length: length, Kind: barb.KindArrayBuilder, Items: args}

	case t.typ == tokLBrace:
		args, offset, length := p.parseArgList(tokLBrace, tokRBrace)
		return &barb.Node{Offset: offset, Length: length, Kind: barb.KindSetBuilder, Items: args}

	default:
		p.errorf(t.offset, t.length, "PARSE_ERROR", "unexpected token %q", t.lit)
		p.advance()
		return barbPtr(barb.Unit(t.offset, t.length))
	}
}

func (p *parser) parseLet() *barb.Node {
	start := p.advance() // let
	name := p.expect(tokIdentifier, "binding name")
	p.expect(tokEquals, "'='")
	value := p.parseExpr()
	p.expectKeyword("in")
	scope := p.parseExpr()
	offset, length := spanUnion(start.offset, start.length, start.offset, scope.Offset+scope.Length)
	return &barb.Node{Offset: offset, Length: length, Kind: barb.KindBVar, BindName: name.lit, BindValue: value, BindScope: scope}
}

func (p *parser) parseIf() *barb.Node {
	start := p.advance() // if
	cond := p.parseExpr()
	p.expectKeyword("then")
	then := p.parseExpr()
	p.expectKeyword("else")
	els := p.parseExpr()
	offset, length := spanUnion(start.offset, start.length, start.offset, els.Offset+els.Length)
	return &barb.Node{Offset: offset, Length: length, Kind: barb.KindIfThenElse, Cond: cond, Then: then, Else: els}
}

func (p *parser) parseFun() *barb.Node {
	start := p.advance() // fun
	var params []string
	for p.current().typ == tokIdentifier {
		params = append(params, p.advance().lit)
	}
	if len(params) == 0 {
		p.errorf(p.current().offset, p.current().length, "PARSE_ERROR", "fun requires at least one parameter")
	}
	p.expect(tokArrow, "'->'")
	body := p.parseExpr()
	offset, length := spanUnion(start.offset, start.length, start.offset, body.Offset+body.Length)
	n := barb.NewLambda(offset, length, p.arena, params, *body)
	return &n
}

func (p *parser) parseStaticRef() *barb.Node {
	start := p.advance() // $
	ns := p.expect(tokIdentifier, "namespace")
	p.expect(tokColon, "':'")
	name := p.expect(tokIdentifier, "name")
	// A static reference resolves through the same Unknown lookup path as
	// any other identifier; the namespace qualifier is folded into the
	// bound name so host-provided static bindings can key on it.
	qualified := ns.lit + ":" + name.lit
	offset, length := spanUnion(start.offset, start.length, start.offset, name.offset+name.length)
	return barbPtr(barb.Unknown(offset, length, qualified))
}

func (p *parser) parseParenGroup() *barb.Node {
	start := p.expect(tokLParen, "(")
	if p.current().typ == tokRParen {
		end := p.advance()
		return barbPtr(barb.Unit(start.offset, end.offset+end.length-start.offset))
	}
	items := []barb.Node{*p.parseExpr()}
	isTuple := false
	for p.current().typ == tokComma {
		isTuple = true
		p.advance()
		items = append(items, *p.parseExpr())
	}
	end := p.expect(tokRParen, ")")
	offset, length := start.offset, end.offset+end.length-start.offset
	if isTuple {
		return &barb.Node{Offset: offset, Length: length, Kind: barb.KindTuple, Items: items}
	}
	return &barb.Node{Offset: offset, Length: length, Kind: barb.KindSubExpression, Items: items}
}

func (p *parser) expectKeyword(kw string) {
	if !p.isKeyword(kw) {
		t := p.current()
		p.errorf(t.offset, t.length, "PARSE_ERROR", "expected %q, got %q", kw, t.lit)
		return
	}
	p.advance()
}

func numberNode(t token) *barb.Node {
	if i, err := strconv.ParseInt(t.lit, 10, 64); err == nil {
		return &barb.Node{Offset: t.offset, Length: t.length, Kind: barb.KindObj, Value: i}
	}
	f, _ := strconv.ParseFloat(t.lit, 64)
	return &barb.Node{Offset: t.offset, Length: t.length, Kind: barb.KindObj, Value: f}
}

// wrapFlat collapses a one-element flat sequence to that element
// directly; a longer sequence becomes a SubExpression for the reducer's
// walker to fold via Pairwise/Triple. Unresolved stays false here — that
// flag marks a node the walker has already tried and failed to collapse
// (spec.md §4.1 step 2's Lift rule), not fresh, not-yet-attempted input;
// setting it up front would make the walker skip straight past this
// node's own resolution instead of attempting it.
func wrapFlat(items []barb.Node) *barb.Node {
	if len(items) == 1 {
		return &items[0]
	}
	offset, length := items[0].Offset, items[len(items)-1].Offset+items[len(items)-1].Length-items[0].Offset
	return &barb.Node{Offset: offset, Length: length, Kind: barb.KindSubExpression, Items: items}
}

func spanUnion(aOff, aLen, bOff, bEnd uint32) (uint32, uint32) {
	start := aOff
	if bOff < start {
		start = bOff
	}
	end := aOff + aLen
	if bEnd > end {
		end = bEnd
	}
	return start, end - start
}

func barbPtr(n barb.Node) *barb.Node { return &n }
