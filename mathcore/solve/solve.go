// Package solve classifies a textual math input and produces a worked solution:
// linear and quadratic equations in one variable, 2x2 linear systems, and plain
// arithmetic or trigonometric expressions.
//
// A Solver holds only its Config and may be used from many goroutines at once.
package solve

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/samber/lo"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
	"mathstep/mathcore/poly"
)

var (
	ErrSolve              = errors.New("cannot solve")
	ErrUnrecognizedFormat = errors.New("format not recognized")
)

type Solver struct {
	cfg      Config
	expander poly.Expander
}

func New(cfg Config) *Solver {
	cfg = cfg.withDefaults()
	return &Solver{
		cfg:      cfg,
		expander: poly.Expander{MaxIterations: cfg.MaxExpandIterations},
	}
}

func (s *Solver) Config() Config { return s.cfg }

var defaultSolver = New(DefaultConfig())

// Solve runs the default Solver.
func Solve(input string) (CalculationResult, error) {
	return defaultSolver.Solve(input)
}

// Normalize lowercases the input, maps unicode math symbols to ASCII and drops whitespace.
func Normalize(input string) string {
	s := expr.Normalize(strings.ToLower(input))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

func (s *Solver) Solve(input string) (CalculationResult, error) {
	text := Normalize(input)
	switch {
	case text == "":
		return CalculationResult{}, fmt.Errorf("%w: empty input", ErrUnrecognizedFormat)
	case strings.Contains(text, ";"):
		return s.solveSystem(text)
	case strings.Contains(text, "="):
		return s.solveEquation(text)
	}
	res, err := s.solveExpression(text)
	if err != nil && !errors.Is(err, ErrUnrecognizedFormat) {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrUnrecognizedFormat, err)
	}
	return res, err
}

// equation is a parsed single-variable equation ready for an algorithm.
type equation struct {
	text     string
	variable string
	lhs, rhs expr.Expr
	left     poly.Poly
	right    poly.Poly
	// expanded is set when the input had brackets that were multiplied out.
	expanded bool
}

func (s *Solver) solveEquation(text string) (CalculationResult, error) {
	eq, err := s.parseEquation(text)
	if err != nil {
		return CalculationResult{}, err
	}
	p := eq.left.Sub(eq.right)
	switch deg := p.Degree(); {
	case deg == 2:
		return s.solveQuadratic(eq)
	case deg <= 1:
		return s.solveLinear(eq)
	default:
		return CalculationResult{}, fmt.Errorf("%w: degree %d equations are not supported", ErrSolve, deg)
	}
}

func (s *Solver) parseEquation(text string) (equation, error) {
	lhsText, rhsText, err := poly.SplitEquation(text)
	if err != nil {
		return equation{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	lhs, err := expr.Parse(lhsText)
	if err != nil {
		return equation{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	rhs, err := expr.Parse(rhsText)
	if err != nil {
		return equation{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}

	vars := lo.Uniq(append(expr.Variables(lhs), expr.Variables(rhs)...))
	switch len(vars) {
	case 0:
		return equation{}, fmt.Errorf("%w: equation has no unknown", ErrSolve)
	case 1:
	default:
		return equation{}, fmt.Errorf("%w: more than one unknown (%s); separate a system with ';'", ErrSolve, strings.Join(vars, ", "))
	}
	v := vars[0]

	eq := equation{text: text, variable: v, lhs: lhs, rhs: rhs}
	if strings.Contains(text, "(") {
		l, passes, err := s.expander.ExpandExpr(lhs, v)
		if err != nil {
			return equation{}, fmt.Errorf("%w: %w", ErrSolve, err)
		}
		r, passes2, err := s.expander.ExpandExpr(rhs, v)
		if err != nil {
			return equation{}, fmt.Errorf("%w: %w", ErrSolve, err)
		}
		eq.expanded = passes+passes2 > 0
		lhs, rhs = l, r
	}
	if eq.left, err = s.extract(lhs, v); err != nil {
		return equation{}, err
	}
	if eq.right, err = s.extract(rhs, v); err != nil {
		return equation{}, err
	}
	return eq, nil
}

// extract reads a side as a polynomial and converts decimal literals to fractions.
func (s *Solver) extract(side expr.Expr, v string) (poly.Poly, error) {
	p, err := poly.FromExpr(side, v)
	if err != nil {
		return poly.Poly{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	cs := make([]exact.Number, p.Degree()+1)
	for k := range cs {
		cs[k] = s.exactCoeff(p.Coeff(k))
	}
	return poly.New(cs...), nil
}

// exactCoeff turns a float coefficient into a fraction when its decimal expansion
// is short enough to be represented without loss, e.g. 0.1 → 1/10.
func (s *Solver) exactCoeff(n exact.Number) exact.Number {
	if n.IsRat() {
		return n
	}
	f := n.Float64()
	r, err := exact.RationalFromFloat(f, s.cfg.MaxPrecision)
	if err != nil || r.Float64() != f {
		return n
	}
	return exact.RatNumber(r)
}

// sidesLaTeX renders "lhs = rhs".
func sidesLaTeX(l, r expr.Expr) string {
	return l.LaTeX() + " = " + r.LaTeX()
}

// term builds the expression n·v with the coefficient folded for ±1.
func term(n exact.Number, v string) expr.Expr {
	x := expr.Variable{Name: v}
	switch {
	case n.IsOne():
		return x
	case n.Sign() < 0 && n.Abs().IsOne():
		return expr.Neg(x)
	}
	return expr.Mul(expr.FromNumber(n), x)
}

// num renders a coefficient; floats use the configured number of decimals.
func (s *Solver) num(n exact.Number) string {
	if n.IsRat() {
		return n.LaTeX()
	}
	return exact.FormatDecimal(n.Float64(), s.cfg.DecimalPlaces)
}

// rounded cuts float coefficients of p to the configured number of decimals so
// polynomial steps print at the same precision as the coefficient steps.
func (s *Solver) rounded(p poly.Poly) poly.Poly {
	cs := make([]exact.Number, p.Degree()+1)
	for k := range cs {
		c := p.Coeff(k)
		if !c.IsRat() {
			if f, err := strconv.ParseFloat(s.decimal(c.Float64()), 64); err == nil {
				c = exact.Float(f)
			}
		}
		cs[k] = c
	}
	return poly.New(cs...)
}

// paren wraps negative numbers for display inside products and powers.
func (s *Solver) paren(n exact.Number) string {
	if n.Sign() < 0 {
		return `\left(` + s.num(n) + `\right)`
	}
	return s.num(n)
}

func (s *Solver) decimal(f float64) string {
	return exact.FormatDecimal(f, s.cfg.DecimalPlaces)
}

// approx renders "= d" when d is the exact value of f and "\approx d" otherwise.
func (s *Solver) approx(f float64) string {
	d := s.decimal(f)
	if d == strconv.FormatFloat(f, 'f', -1, 64) {
		return "= " + d
	}
	return `\approx ` + d
}
