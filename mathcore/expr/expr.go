package expr

import (
	"math"

	"mathstep/mathcore/exact"
)

// Expr is an immutable expression tree. The set of implementations is closed:
// Integer, Float, Fraction, Variable, Constant, Binary, Root, Func and Percent.
//
// All variants are comparable values, so two trees are structurally equal when == holds.
type Expr interface {
	// Simplify folds exact constants and applies algebraic identities.
	Simplify() Expr
	// Evaluate is Simplify plus numeric evaluation of functions, percents and
	// float arithmetic.
	Evaluate() Expr
	// Substitute replaces every Variable with the given name.
	Substitute(name string, value Expr) Expr
	// String is parenthesised LaTeX-ish text with a literal '*'.
	String() string
	// LaTeX renders the tree for a math typesetting widget.
	LaTeX() string

	isExpr()
}

type Integer struct{ Value int64 }

type Float struct{ Value float64 }

// Fraction is an exact ratio. A zero denominator is allowed and simplifies to
// a signed infinity or NaN.
type Fraction struct {
	Num int64
	Den int64
}

// Variable is a single-letter unknown.
type Variable struct{ Name string }

// Constant is a named irrational constant (π or e).
type Constant struct{ Name string }

const (
	ConstPi = "pi"
	ConstE  = "e"
)

type Op byte

const (
	OpAdd Op = '+'
	OpSub Op = '-'
	OpMul Op = '*'
	OpDiv Op = '/'
	OpPow Op = '^'
)

// Binary is one of Add, Sub, Mul, Div or Power depending on Op.
type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

// Root is the Index-th root of Radicand; Index 0 is read as 2.
type Root struct {
	Radicand Expr
	Index    int
}

type Fn uint8

const (
	FnSin Fn = iota + 1
	FnCos
	FnTan
	FnAsin
	FnAcos
	FnAtan
	FnLog
	FnLn
	FnExp
	FnAbs
)

var fnNames = map[Fn]string{
	FnSin:  "sin",
	FnCos:  "cos",
	FnTan:  "tan",
	FnAsin: "asin",
	FnAcos: "acos",
	FnAtan: "atan",
	FnLog:  "log",
	FnLn:   "ln",
	FnExp:  "exp",
	FnAbs:  "abs",
}

func (f Fn) String() string {
	if s, ok := fnNames[f]; ok {
		return s
	}
	return "?"
}

// IsTrig reports whether f takes an angle argument.
func (f Fn) IsTrig() bool { return f == FnSin || f == FnCos || f == FnTan }

func (f Fn) IsInverseTrig() bool { return f == FnAsin || f == FnAcos || f == FnAtan }

type Func struct {
	Fn  Fn
	Arg Expr
}

// Percent is Inner / 100.
type Percent struct{ Inner Expr }

func (Integer) isExpr()  {}
func (Float) isExpr()    {}
func (Fraction) isExpr() {}
func (Variable) isExpr() {}
func (Constant) isExpr() {}
func (Binary) isExpr()   {}
func (Root) isExpr()     {}
func (Func) isExpr()     {}
func (Percent) isExpr()  {}

func Add(l, r Expr) Expr { return Binary{Op: OpAdd, Left: l, Right: r} }
func Sub(l, r Expr) Expr { return Binary{Op: OpSub, Left: l, Right: r} }
func Mul(l, r Expr) Expr { return Binary{Op: OpMul, Left: l, Right: r} }
func Div(l, r Expr) Expr { return Binary{Op: OpDiv, Left: l, Right: r} }
func Pow(l, r Expr) Expr { return Binary{Op: OpPow, Left: l, Right: r} }

// Neg builds 0 - x, the tree shape of a unary minus.
func Neg(x Expr) Expr { return Binary{Op: OpSub, Left: Integer{}, Right: x} }

func Sqrt(x Expr) Expr { return Root{Radicand: x, Index: 2} }

// FromRat converts an exact rational into an Integer or a reduced Fraction.
func FromRat(r exact.Rat) Expr {
	if r.IsInt() {
		return Integer{Value: r.Num()}
	}
	return Fraction{Num: r.Num(), Den: r.Den()}
}

// FromNumber converts a Number into an exact node when possible, otherwise a Float.
func FromNumber(n exact.Number) Expr {
	if r, ok := n.Rat(); ok {
		return FromRat(r)
	}
	return Float{Value: n.Float64()}
}

// Equal reports structural equality.
func Equal(a, b Expr) bool { return a == b }

// ratOf returns the exact value of Integer and finite Fraction nodes.
func ratOf(e Expr) (exact.Rat, bool) {
	switch v := e.(type) {
	case Integer:
		return exact.RatInt(v.Value), true
	case Fraction:
		if v.Den == 0 {
			return exact.Rat{}, false
		}
		r, err := exact.NewRat(v.Num, v.Den)
		if err != nil {
			return exact.Rat{}, false
		}
		return r, true
	}
	return exact.Rat{}, false
}

// NumberOf returns the value of a numeric leaf (Integer, Fraction, Float).
func NumberOf(e Expr) (exact.Number, bool) {
	if r, ok := ratOf(e); ok {
		return exact.RatNumber(r), true
	}
	if f, ok := e.(Float); ok {
		return exact.Float(f.Value), true
	}
	return exact.Number{}, false
}

func constantValue(name string) float64 {
	switch name {
	case ConstPi:
		return math.Pi
	case ConstE:
		return math.E
	}
	return math.NaN()
}

func isZero(e Expr) bool {
	r, ok := ratOf(e)
	return ok && r.IsZero()
}

func isOne(e Expr) bool {
	r, ok := ratOf(e)
	return ok && r.IsOne()
}

func isNegOne(e Expr) bool {
	r, ok := ratOf(e)
	return ok && r.Num() == -1 && r.IsInt()
}

// negated matches the 0 - x shape.
func negated(e Expr) (Expr, bool) {
	b, ok := e.(Binary)
	if !ok || b.Op != OpSub || !isZero(b.Left) {
		return nil, false
	}
	return b.Right, true
}
