package ast

import "github.com/pkg/errors"

// insertConcat inserts an explicit tokConcat between any two adjacent
// tokens that denote juxtaposed operands: atom/`)`/`*`/`+`/`?` followed
// by atom/`(`. Mirrors addConcatenationSymbol from the shunting-yard
// reference: concatenation has no surface glyph, so the parser must make
// it explicit before precedence climbing can see it as an operator.
func insertConcat(toks []token) []token {
	endsOperand := func(t token) bool {
		return t.kind == tokAtom || t.kind == tokRParen || t.kind == tokStar || t.kind == tokPlus || t.kind == tokQuestion
	}
	startsOperand := func(t token) bool {
		return t.kind == tokAtom || t.kind == tokLParen
	}
	var out []token
	for i, t := range toks {
		if i > 0 && endsOperand(toks[i-1]) && startsOperand(t) {
			out = append(out, token{kind: tokConcat})
		}
		out = append(out, t)
	}
	return out
}

// precedence ranks binary/postfix operators: `* + ?` (3) > concat (2) >
// `|` (1). `(` is the precedence-0 stack marker.
func precedence(k tokKind) int {
	switch k {
	case tokStar, tokPlus, tokQuestion:
		return 3
	case tokConcat:
		return 2
	case tokAlt:
		return 1
	default:
		return 0
	}
}

func isOperator(k tokKind) bool {
	switch k {
	case tokAlt, tokConcat, tokStar, tokPlus, tokQuestion:
		return true
	default:
		return false
	}
}

// shuntingYard converts an infix token stream (with concatenation already
// made explicit) into postfix (RPN) order.
func shuntingYard(toks []token) ([]token, error) {
	var output, opStack []token
	for _, t := range toks {
		switch {
		case t.kind == tokAtom:
			output = append(output, t)
		case t.kind == tokLParen:
			opStack = append(opStack, t)
		case t.kind == tokRParen:
			found := false
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				opStack = opStack[:len(opStack)-1]
				if top.kind == tokLParen {
					found = true
					break
				}
				output = append(output, top)
			}
			if !found {
				return nil, ErrUnmatchedRParen
			}
		case isOperator(t.kind):
			for len(opStack) > 0 {
				top := opStack[len(opStack)-1]
				if top.kind == tokLParen || precedence(top.kind) < precedence(t.kind) {
					break
				}
				output = append(output, top)
				opStack = opStack[:len(opStack)-1]
			}
			opStack = append(opStack, t)
		default:
			return nil, errors.Errorf("unexpected token kind %d", t.kind)
		}
	}
	for len(opStack) > 0 {
		top := opStack[len(opStack)-1]
		opStack = opStack[:len(opStack)-1]
		if top.kind == tokLParen {
			return nil, ErrUnmatchedLParen
		}
		output = append(output, top)
	}
	return output, nil
}

// evalRPN folds a postfix token stream into an AST by running a small
// operand stack machine.
func evalRPN(rpn []token) (*Node, error) {
	var stack []*Node
	pop := func() (*Node, error) {
		if len(stack) == 0 {
			return nil, ErrBareClosure
		}
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return n, nil
	}
	for _, t := range rpn {
		switch t.kind {
		case tokAtom:
			stack = append(stack, t.atom)
		case tokStar:
			x, err := pop()
			if err != nil {
				return nil, err
			}
			stack = append(stack, Rep(x))
		case tokPlus:
			x, err := pop()
			if err != nil {
				return nil, err
			}
			stack = append(stack, Rep1(x))
		case tokQuestion:
			x, err := pop()
			if err != nil {
				return nil, err
			}
			stack = append(stack, Opt(x))
		case tokConcat:
			b, err := pop()
			if err != nil {
				return nil, err
			}
			a, err := pop()
			if err != nil {
				return nil, err
			}
			stack = append(stack, Cat(a, b))
		case tokAlt:
			b, err := pop()
			if err != nil {
				return nil, err
			}
			a, err := pop()
			if err != nil {
				return nil, err
			}
			stack = append(stack, Alt(a, b))
		default:
			return nil, errors.Errorf("unexpected token kind %d in RPN", t.kind)
		}
	}
	if len(stack) == 0 {
		return nil, nil
	}
	if len(stack) > 1 {
		return nil, errors.New("leftover operands after evaluating expression")
	}
	return stack[0], nil
}
