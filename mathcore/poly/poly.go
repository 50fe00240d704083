// Package poly extracts univariate polynomials from expression trees and expands
// bracketed products into standard form.
package poly

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
)

var (
	ErrPolynomialFormat    = errors.New("invalid polynomial")
	ErrExpansionTooComplex = errors.New("expression too complex to expand")
)

// MaxDegree bounds the degree of any polynomial built by this package.
const MaxDegree = 64

// Poly is a univariate polynomial with exact-or-float coefficients:
// p(x) = c0 + c1*x + c2*x^2 + ...
type Poly struct {
	coeffs []exact.Number
}

// New builds a polynomial from coefficients in ascending power order.
func New(coeffs ...exact.Number) Poly {
	out := make([]exact.Number, len(coeffs))
	copy(out, coeffs)
	return Poly{coeffs: out}.trim()
}

func (p Poly) trim() Poly {
	i := len(p.coeffs)
	for i > 0 && p.coeffs[i-1].IsZero() {
		i--
	}
	return Poly{coeffs: p.coeffs[:i]}
}

// Degree returns -1 for the zero polynomial.
func (p Poly) Degree() int { return len(p.coeffs) - 1 }

func (p Poly) IsZero() bool { return len(p.coeffs) == 0 }

// Coeff returns the coefficient of x^k, exact zero when absent.
func (p Poly) Coeff(k int) exact.Number {
	if k < 0 || k >= len(p.coeffs) {
		return exact.Int(0)
	}
	return p.coeffs[k]
}

// IsExact reports whether every coefficient is rational.
func (p Poly) IsExact() bool {
	for _, c := range p.coeffs {
		if !c.IsRat() {
			return false
		}
	}
	return true
}

// Float64s maps each power with a nonzero coefficient to its value.
func (p Poly) Float64s() map[int]float64 {
	out := make(map[int]float64, len(p.coeffs))
	for k, c := range p.coeffs {
		if !c.IsZero() {
			out[k] = c.Float64()
		}
	}
	return out
}

func (p Poly) Eval(x float64) float64 {
	// Horner.
	v := 0.0
	for i := len(p.coeffs) - 1; i >= 0; i-- {
		v = v*x + p.coeffs[i].Float64()
	}
	return v
}

func (p Poly) Add(q Poly) Poly {
	n := len(p.coeffs)
	if len(q.coeffs) > n {
		n = len(q.coeffs)
	}
	out := make([]exact.Number, n)
	for i := range out {
		out[i] = p.Coeff(i).Add(q.Coeff(i))
	}
	return Poly{coeffs: out}.trim()
}

func (p Poly) Neg() Poly { return p.Scale(exact.Int(-1)) }

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Neg()) }

func (p Poly) Scale(c exact.Number) Poly {
	out := make([]exact.Number, len(p.coeffs))
	for i, v := range p.coeffs {
		out[i] = v.Mul(c)
	}
	return Poly{coeffs: out}.trim()
}

func (p Poly) Mul(q Poly) (Poly, error) {
	if p.IsZero() || q.IsZero() {
		return Poly{}, nil
	}
	if p.Degree()+q.Degree() > MaxDegree {
		return Poly{}, fmt.Errorf("%w: degree exceeds %d", ErrExpansionTooComplex, MaxDegree)
	}
	out := make([]exact.Number, len(p.coeffs)+len(q.coeffs)-1)
	for i := range out {
		out[i] = exact.Int(0)
	}
	for i, a := range p.coeffs {
		for j, b := range q.coeffs {
			out[i+j] = out[i+j].Add(a.Mul(b))
		}
	}
	return Poly{coeffs: out}.trim(), nil
}

func (p Poly) Pow(k int) (Poly, error) {
	if k < 0 {
		return Poly{}, fmt.Errorf("%w: negative exponent %d", ErrPolynomialFormat, k)
	}
	if p.Degree()*k > MaxDegree {
		return Poly{}, fmt.Errorf("%w: degree exceeds %d", ErrExpansionTooComplex, MaxDegree)
	}
	out := New(exact.Int(1))
	for i := 0; i < k; i++ {
		var err error
		out, err = out.Mul(p)
		if err != nil {
			return Poly{}, err
		}
	}
	return out, nil
}

// FromExpr reads e as a polynomial in variable. Variable-free subtrees become
// coefficients; they stay exact unless they evaluate to an irrational value.
func FromExpr(e expr.Expr, variable string) (Poly, error) {
	if !expr.HasVariable(e, variable) {
		c, err := constant(e)
		if err != nil {
			return Poly{}, err
		}
		return New(c), nil
	}

	switch n := e.(type) {
	case expr.Variable:
		return New(exact.Int(0), exact.Int(1)), nil
	case expr.Percent:
		p, err := FromExpr(n.Inner, variable)
		if err != nil {
			return Poly{}, err
		}
		return p.Scale(exact.RatNumber(exact.MustRat(1, 100))), nil
	case expr.Binary:
		return fromBinary(n, variable)
	}
	return Poly{}, fmt.Errorf("%w: %s is not polynomial in %s", ErrPolynomialFormat, e.LaTeX(), variable)
}

func fromBinary(n expr.Binary, variable string) (Poly, error) {
	a, err := FromExpr(n.Left, variable)
	if err != nil {
		return Poly{}, err
	}
	switch n.Op {
	case expr.OpPow:
		k, err := exponent(n.Right, variable)
		if err != nil {
			return Poly{}, err
		}
		return a.Pow(k)
	case expr.OpDiv:
		if expr.HasVariable(n.Right, variable) {
			return Poly{}, fmt.Errorf("%w: division by %s", ErrPolynomialFormat, n.Right.LaTeX())
		}
		c, err := constant(n.Right)
		if err != nil {
			return Poly{}, err
		}
		inv, err := exact.Int(1).Div(c)
		if err != nil {
			return Poly{}, fmt.Errorf("%w: division by zero", ErrPolynomialFormat)
		}
		return a.Scale(inv), nil
	}

	b, err := FromExpr(n.Right, variable)
	if err != nil {
		return Poly{}, err
	}
	switch n.Op {
	case expr.OpAdd:
		return a.Add(b), nil
	case expr.OpSub:
		return a.Sub(b), nil
	case expr.OpMul:
		return a.Mul(b)
	}
	return Poly{}, fmt.Errorf("%w: unknown operator %q", ErrPolynomialFormat, n.Op)
}

func exponent(e expr.Expr, variable string) (int, error) {
	if expr.HasVariable(e, variable) {
		return 0, fmt.Errorf("%w: variable exponent", ErrPolynomialFormat)
	}
	c, err := constant(e)
	if err != nil {
		return 0, err
	}
	r, ok := c.Rat()
	if !ok || !r.IsInt() || r.Sign() < 0 {
		return 0, fmt.Errorf("%w: exponent %s is not a non-negative integer", ErrPolynomialFormat, c)
	}
	if r.Num() > MaxDegree {
		return 0, fmt.Errorf("%w: exponent %d exceeds %d", ErrExpansionTooComplex, r.Num(), MaxDegree)
	}
	return int(r.Num()), nil
}

// constant evaluates a variable-free subtree to a coefficient.
func constant(e expr.Expr) (exact.Number, error) {
	if vars := expr.Variables(e); len(vars) > 0 {
		return exact.Number{}, fmt.Errorf("%w: unexpected variable %s", ErrPolynomialFormat, vars[0])
	}
	v := e.Evaluate()
	if n, ok := expr.NumberOf(v); ok && !math.IsNaN(n.Float64()) && !math.IsInf(n.Float64(), 0) {
		return n, nil
	}
	f, ok := expr.Float64(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return exact.Number{}, fmt.Errorf("%w: %s is not a finite number", ErrPolynomialFormat, e.LaTeX())
	}
	return exact.Float(f), nil
}

// Parse reads one side of an equation, such as "3x^2-5x+2", into power to
// coefficient pairs. Zero coefficients are omitted.
func Parse(side, variable string) (map[int]float64, error) {
	if strings.TrimSpace(side) == "" {
		return nil, fmt.Errorf("%w: empty side", ErrPolynomialFormat)
	}
	e, err := expr.Parse(side)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPolynomialFormat, err)
	}
	p, err := FromExpr(e, variable)
	if err != nil {
		return nil, err
	}
	return p.Float64s(), nil
}

// SplitEquation splits "lhs=rhs" and rejects anything but exactly one '='.
func SplitEquation(text string) (lhs, rhs string, err error) {
	if n := strings.Count(text, "="); n != 1 {
		return "", "", fmt.Errorf("%w: expected exactly one '=', found %d", ErrPolynomialFormat, n)
	}
	lhs, rhs, _ = strings.Cut(text, "=")
	if strings.TrimSpace(lhs) == "" || strings.TrimSpace(rhs) == "" {
		return "", "", fmt.Errorf("%w: empty side", ErrPolynomialFormat)
	}
	return lhs, rhs, nil
}

// FromEquation parses "lhs=rhs" and returns lhs - rhs.
func FromEquation(text, variable string) (Poly, error) {
	lhs, rhs, err := SplitEquation(text)
	if err != nil {
		return Poly{}, err
	}
	l, err := expr.Parse(lhs)
	if err != nil {
		return Poly{}, fmt.Errorf("%w: %w", ErrPolynomialFormat, err)
	}
	r, err := expr.Parse(rhs)
	if err != nil {
		return Poly{}, fmt.Errorf("%w: %w", ErrPolynomialFormat, err)
	}
	lp, err := FromExpr(l, variable)
	if err != nil {
		return Poly{}, err
	}
	rp, err := FromExpr(r, variable)
	if err != nil {
		return Poly{}, err
	}
	return lp.Sub(rp), nil
}

// Format renders p in descending powers without spaces, e.g. "x^2+2x-3".
func Format(p Poly, variable string) string {
	if p.IsZero() {
		return "0"
	}
	var b strings.Builder
	for k := p.Degree(); k >= 0; k-- {
		c := p.coeffs[k]
		if c.IsZero() {
			continue
		}
		switch {
		case c.Sign() < 0:
			b.WriteByte('-')
		case b.Len() > 0:
			b.WriteByte('+')
		}
		abs := c.Abs()
		if k == 0 || !abs.IsOne() {
			b.WriteString(coeffText(abs, k > 0))
		}
		if k > 0 {
			b.WriteString(variable)
		}
		if k > 1 {
			b.WriteString("^" + strconv.Itoa(k))
		}
	}
	return b.String()
}

func coeffText(c exact.Number, beforeVar bool) string {
	if r, ok := c.Rat(); ok && !r.IsInt() && beforeVar {
		return "(" + r.String() + ")"
	}
	return c.String()
}

// FormatMap renders a power to coefficient map the way Format renders a Poly.
func FormatMap(coeffs map[int]float64, variable string) string {
	powers := maps.Keys(coeffs)
	slices.Sort(powers)
	if len(powers) == 0 || powers[0] < 0 {
		return "0"
	}
	cs := make([]exact.Number, powers[len(powers)-1]+1)
	for i := range cs {
		cs[i] = exact.Int(0)
	}
	for _, k := range powers {
		cs[k] = exact.Float(coeffs[k])
	}
	return Format(New(cs...), variable)
}

// ToExpr rebuilds p as an expression tree in descending powers, suitable for LaTeX.
func ToExpr(p Poly, variable string) expr.Expr {
	var out expr.Expr
	for k := p.Degree(); k >= 0; k-- {
		c := p.coeffs[k]
		if c.IsZero() {
			continue
		}
		if out == nil {
			out = monomial(c, k, variable)
			continue
		}
		if c.Sign() < 0 {
			out = expr.Sub(out, monomial(c.Neg(), k, variable))
		} else {
			out = expr.Add(out, monomial(c, k, variable))
		}
	}
	if out == nil {
		return expr.Integer{}
	}
	return out
}

func monomial(c exact.Number, k int, variable string) expr.Expr {
	coef := expr.FromNumber(c)
	if k == 0 {
		return coef
	}
	var x expr.Expr = expr.Variable{Name: variable}
	if k > 1 {
		x = expr.Pow(x, expr.Integer{Value: int64(k)})
	}
	switch {
	case c.IsOne():
		return x
	case c.Sign() < 0 && c.Abs().IsOne():
		return expr.Neg(x)
	}
	return expr.Mul(coef, x)
}

// LaTeX renders p as "x^{2} - 5x + 6".
func LaTeX(p Poly, variable string) string {
	return ToExpr(p, variable).LaTeX()
}
