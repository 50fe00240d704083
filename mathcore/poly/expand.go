package poly

import (
	"fmt"
	"strings"

	"mathstep/mathcore/expr"
)

// DefaultMaxExpandIterations bounds the rewriting passes Expand performs.
const DefaultMaxExpandIterations = 32

// Expander multiplies out bracketed products one nesting level per pass.
type Expander struct {
	MaxIterations int
}

func (x Expander) maxIterations() int {
	if x.MaxIterations <= 0 {
		return DefaultMaxExpandIterations
	}
	return x.MaxIterations
}

// ExpandExpr rewrites the innermost products and powers of sums into sums of
// monomials until none remain. It reports the number of passes that changed the tree.
func (x Expander) ExpandExpr(e expr.Expr, variable string) (expr.Expr, int, error) {
	passes := 0
	for {
		out, changed, err := expandStep(e, variable)
		if err != nil {
			return nil, passes, err
		}
		if !changed {
			return e, passes, nil
		}
		passes++
		if passes > x.maxIterations() {
			return nil, passes, fmt.Errorf("%w: more than %d rewriting passes", ErrExpansionTooComplex, x.maxIterations())
		}
		e = out
	}
}

// expandStep rewrites every expandable node none of whose descendants changed in
// this pass.
func expandStep(e expr.Expr, variable string) (expr.Expr, bool, error) {
	switch n := e.(type) {
	case expr.Binary:
		l, lc, err := expandStep(n.Left, variable)
		if err != nil {
			return nil, false, err
		}
		r, rc, err := expandStep(n.Right, variable)
		if err != nil {
			return nil, false, err
		}
		if lc || rc {
			return expr.Binary{Op: n.Op, Left: l, Right: r}, true, nil
		}
		if !expandable(n, variable) {
			return n, false, nil
		}
		p, err := FromExpr(n, variable)
		if err != nil {
			return nil, false, err
		}
		return ToExpr(p, variable), true, nil
	case expr.Root:
		inner, changed, err := expandStep(n.Radicand, variable)
		return expr.Root{Radicand: inner, Index: n.Index}, changed, err
	case expr.Func:
		inner, changed, err := expandStep(n.Arg, variable)
		return expr.Func{Fn: n.Fn, Arg: inner}, changed, err
	case expr.Percent:
		inner, changed, err := expandStep(n.Inner, variable)
		return expr.Percent{Inner: inner}, changed, err
	}
	return e, false, nil
}

// expandable matches products, quotients and powers with a sum operand in variable.
func expandable(b expr.Binary, variable string) bool {
	if !expr.HasVariable(b, variable) {
		return false
	}
	switch b.Op {
	case expr.OpMul:
		return isSum(b.Left, variable) || isSum(b.Right, variable)
	case expr.OpDiv, expr.OpPow:
		return isSum(b.Left, variable)
	}
	return false
}

func isSum(e expr.Expr, variable string) bool {
	b, ok := e.(expr.Binary)
	if !ok || (b.Op != expr.OpAdd && b.Op != expr.OpSub) {
		return false
	}
	return expr.HasVariable(b, variable)
}

// Expand multiplies out brackets in text. An equation comes back in the standard
// form "ax^2+bx+c=0"; an expression comes back as a polynomial such as "x^2+2x-3".
func (x Expander) Expand(text, variable string) (string, error) {
	text = strings.ReplaceAll(text, " ", "")
	switch strings.Count(text, "=") {
	case 0:
		e, err := x.expandSide(text, variable)
		if err != nil {
			return "", err
		}
		p, err := FromExpr(e, variable)
		if err != nil {
			return "", err
		}
		return Format(p, variable), nil
	case 1:
		lhs, rhs, err := SplitEquation(text)
		if err != nil {
			return "", err
		}
		l, err := x.expandSide(lhs, variable)
		if err != nil {
			return "", err
		}
		r, err := x.expandSide(rhs, variable)
		if err != nil {
			return "", err
		}
		lp, err := FromExpr(l, variable)
		if err != nil {
			return "", err
		}
		rp, err := FromExpr(r, variable)
		if err != nil {
			return "", err
		}
		return Format(lp.Sub(rp), variable) + "=0", nil
	}
	return "", fmt.Errorf("%w: expected at most one '='", ErrPolynomialFormat)
}

func (x Expander) expandSide(side, variable string) (expr.Expr, error) {
	e, err := expr.Parse(side)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolynomialFormat, err)
	}
	out, _, err := x.ExpandExpr(e, variable)
	return out, err
}

// Expand uses an Expander with the default iteration bound.
func Expand(text, variable string) (string, error) {
	return Expander{}.Expand(text, variable)
}
