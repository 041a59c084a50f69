package syntax

import (
	"fmt"

	"github.com/user/barb"
)

// operator describes one built-in infix operator's precedence and the
// function spliced into the barb.Node the reducer's Triple rule reads
// Prec from.
type operator struct {
	prec int
	fn   barb.BinaryFunc
}

// precedence follows the usual arithmetic-before-comparison convention;
// && and || aren't here because the parser builds them as a tree
// (barb.KindAnd/KindOr), not as flat Infix nodes.
var operators = map[string]operator{
	"*": {prec: 5, fn: arith(func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b })},
	"/": {prec: 5, fn: divide},
	"%": {prec: 5, fn: modulo},

	"+": {prec: 4, fn: add},
	"-": {prec: 4, fn: arith(func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b })},

	"==": {prec: 3, fn: cmp(func(c int) bool { return c == 0 })},
	"!=": {prec: 3, fn: cmp(func(c int) bool { return c != 0 })},
	"<":  {prec: 3, fn: cmp(func(c int) bool { return c < 0 })},
	"<=": {prec: 3, fn: cmp(func(c int) bool { return c <= 0 })},
	">":  {prec: 3, fn: cmp(func(c int) bool { return c > 0 })},
	">=": {prec: 3, fn: cmp(func(c int) bool { return c >= 0 })},
}

var unaryOperators = map[string]barb.UnaryFunc{
	"-": func(x any) (any, error) {
		switch v := x.(type) {
		case int64:
			return -v, nil
		case float64:
			return -v, nil
		default:
			return nil, fmt.Errorf("unary - on non-numeric value %T", x)
		}
	},
	"!": func(x any) (any, error) {
		b, ok := x.(bool)
		if !ok {
			return nil, fmt.Errorf("unary ! on non-bool value %T", x)
		}
		return !b, nil
	},
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func bothInt(a, b any) (int64, int64, bool) {
	x, ok1 := a.(int64)
	y, ok2 := b.(int64)
	return x, y, ok1 && ok2
}

func arith(ffn func(a, b float64) float64, ifn func(a, b int64) int64) barb.BinaryFunc {
	return func(a, b any) (any, error) {
		if x, y, ok := bothInt(a, b); ok {
			return ifn(x, y), nil
		}
		x, ok1 := toFloat(a)
		y, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("arithmetic on non-numeric operands %T, %T", a, b)
		}
		return ffn(x, y), nil
	}
}

func add(a, b any) (any, error) {
	if sa, ok := a.(string); ok {
		if sb, ok := b.(string); ok {
			return sa + sb, nil
		}
	}
	return arith(func(a, b float64) float64 { return a + b }, func(a, b int64) int64 { return a + b })(a, b)
}

func divide(a, b any) (any, error) {
	x, ok1 := toFloat(a)
	y, ok2 := toFloat(b)
	if !ok1 || !ok2 {
		return nil, fmt.Errorf("division on non-numeric operands %T, %T", a, b)
	}
	if y == 0 {
		return nil, fmt.Errorf("division by zero")
	}
	return x / y, nil
}

func modulo(a, b any) (any, error) {
	x, y, ok := bothInt(a, b)
	if !ok {
		return nil, fmt.Errorf("%% requires int64 operands, got %T, %T", a, b)
	}
	if y == 0 {
		return nil, fmt.Errorf("modulo by zero")
	}
	return x % y, nil
}

func cmp(accept func(int) bool) barb.BinaryFunc {
	return func(a, b any) (any, error) {
		if sa, ok := a.(string); ok {
			sb, ok := b.(string)
			if !ok {
				return nil, fmt.Errorf("cannot compare string with %T", b)
			}
			return accept(stringCompare(sa, sb)), nil
		}
		x, ok1 := toFloat(a)
		y, ok2 := toFloat(b)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("cannot compare %T with %T", a, b)
		}
		switch {
		case x < y:
			return accept(-1), nil
		case x > y:
			return accept(1), nil
		default:
			return accept(0), nil
		}
	}
}

func stringCompare(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
