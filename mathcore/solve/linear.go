package solve

import (
	"fmt"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
	"mathstep/mathcore/poly"
)

// LinearEquationParts holds a·x + b = c·x + d.
type LinearEquationParts struct {
	A, B, C, D exact.Number
}

// Float64s returns the coefficients as float64 in a, b, c, d order.
func (p LinearEquationParts) Float64s() (a, b, c, d float64) {
	return p.A.Float64(), p.B.Float64(), p.C.Float64(), p.D.Float64()
}

// linearParts reads both sides as first-degree polynomials. If the sides only
// become linear after cancelling higher powers, everything moves to the left.
func linearParts(left, right poly.Poly) LinearEquationParts {
	if left.Degree() > 1 || right.Degree() > 1 {
		p := left.Sub(right)
		return LinearEquationParts{A: p.Coeff(1), B: p.Coeff(0), C: exact.Int(0), D: exact.Int(0)}
	}
	return LinearEquationParts{A: left.Coeff(1), B: left.Coeff(0), C: right.Coeff(1), D: right.Coeff(0)}
}

func (s *Solver) solveLinear(eq equation) (CalculationResult, error) {
	v := eq.variable
	parts := linearParts(eq.left, eq.right)

	var b stepBuilder
	b.add(TitleOriginal, "写出原方程", sidesLaTeX(eq.lhs, eq.rhs))
	if eq.expanded {
		b.add(TitleExpand, "去括号", sidesLaTeX(poly.ToExpr(s.rounded(eq.left), v), poly.ToExpr(s.rounded(eq.right), v)))
	}

	// a·x - c·x = d - b
	var moved expr.Expr = term(parts.A, v)
	switch {
	case parts.C.IsZero():
	case parts.A.IsZero():
		moved = term(parts.C.Neg(), v)
	default:
		moved = expr.Sub(moved, term(parts.C, v))
	}
	if parts.A.IsZero() && parts.C.IsZero() {
		moved = expr.Integer{}
	}
	var constants expr.Expr = expr.FromNumber(parts.D)
	switch {
	case parts.B.IsZero():
	case parts.D.IsZero():
		constants = expr.FromNumber(parts.B.Neg())
	default:
		constants = expr.Sub(constants, expr.FromNumber(parts.B))
	}
	b.add(TitleMoveTerms, fmt.Sprintf("把含 %s 的项移到等号左边，常数项移到等号右边", v), sidesLaTeX(moved, constants))

	coef := parts.A.Sub(parts.C)
	rhs := parts.D.Sub(parts.B)
	combined := term(coef, v)
	if coef.IsZero() {
		combined = expr.Integer{}
	}
	b.add(TitleCombine, "合并同类项", combined.LaTeX()+" = "+s.num(rhs))

	if coef.IsZero() {
		if rhs.IsZero() {
			b.add(TitleResult, fmt.Sprintf("等式对任意 %s 恒成立", v), "0 = 0")
			return b.result(latexText("方程有无穷多解")), nil
		}
		b.add(TitleResult, "等式不可能成立", "0 = "+s.num(rhs))
		return b.result(latexText("方程无解")), nil
	}

	x, err := rhs.Div(coef)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	if !coef.IsOne() {
		b.add(TitleNormalize, fmt.Sprintf("方程两边同时除以 %s", s.num(coef)),
			fmt.Sprintf(`%s = \frac{%s}{%s}`, v, s.num(rhs), s.num(coef)))
	}
	answer := fmt.Sprintf("%s = %s", v, s.num(x))
	if x.IsRat() && !isInteger(x) {
		answer += ` \approx ` + s.decimal(x.Float64())
	}
	b.add(TitleResult, "得到方程的解", answer)
	return b.result(answer), nil
}

func isInteger(n exact.Number) bool {
	r, ok := n.Rat()
	return ok && r.IsInt()
}
