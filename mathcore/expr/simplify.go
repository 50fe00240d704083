package expr

import (
	"math"

	"mathstep/mathcore/exact"
)

func (n Integer) Simplify() Expr { return n }

func (n Float) Simplify() Expr { return n }

func (f Fraction) Simplify() Expr {
	if f.Den == 0 {
		switch {
		case f.Num > 0:
			return Float{Value: math.Inf(1)}
		case f.Num < 0:
			return Float{Value: math.Inf(-1)}
		default:
			return Float{Value: math.NaN()}
		}
	}
	r, err := exact.NewRat(f.Num, f.Den)
	if err != nil {
		return Float{Value: float64(f.Num) / float64(f.Den)}
	}
	return FromRat(r)
}

func (v Variable) Simplify() Expr { return v }

func (c Constant) Simplify() Expr { return c }

func (b Binary) Simplify() Expr {
	return simplifyBinary(b.Op, b.Left.Simplify(), b.Right.Simplify())
}

// simplifyBinary combines two already simplified operands.
func simplifyBinary(op Op, left, right Expr) Expr {
	lr, lok := ratOf(left)
	rr, rok := ratOf(right)
	if lok && rok {
		if out, ok := foldRat(op, lr, rr); ok {
			return out
		}
	}

	switch op {
	case OpAdd:
		if isZero(left) {
			return right
		}
		if isZero(right) {
			return left
		}
		if out, ok := combineRadicals(left, right, false); ok {
			return out
		}
	case OpSub:
		if isZero(right) {
			return left
		}
		if isZero(left) {
			return negate(right)
		}
		if _, isFloat := left.(Float); !isFloat && left == right {
			return Integer{}
		}
		if out, ok := combineRadicals(left, right, true); ok {
			return out
		}
	case OpMul:
		if isZero(left) || isZero(right) {
			return Integer{}
		}
		if isOne(left) {
			return right
		}
		if isOne(right) {
			return left
		}
		if lok {
			if c, root, ok := radicalTerm(right); ok {
				if k, err := lr.Mul(c); err == nil {
					return makeRadicalTerm(k, root)
				}
			}
		}
		if rok {
			if c, root, ok := radicalTerm(left); ok {
				if k, err := rr.Mul(c); err == nil {
					return makeRadicalTerm(k, root)
				}
			}
		}
		if isNegOne(left) {
			return negate(right)
		}
		if isNegOne(right) {
			return negate(left)
		}
		if out, ok := multiplyRoots(left, right); ok {
			return out
		}
		if rok && !lok {
			// Keep numeric coefficients on the left.
			return Binary{Op: OpMul, Left: right, Right: left}
		}
	case OpDiv:
		if isZero(left) && !isZero(right) {
			return Integer{}
		}
		if isOne(right) {
			return left
		}
		if isNegOne(right) {
			return negate(left)
		}
		if rok && !rr.IsZero() {
			if c, root, ok := radicalTerm(left); ok {
				if k, err := c.Div(rr); err == nil {
					return makeRadicalTerm(k, root)
				}
			}
		}
		if lok {
			if out, ok := rationalizeDenominator(lr, right); ok {
				return out
			}
		}
	case OpPow:
		if isZero(right) {
			return Integer{Value: 1}
		}
		if isOne(right) {
			return left
		}
		if isOne(left) {
			return Integer{Value: 1}
		}
		if lok && !rok {
			break
		}
		if lok {
			if out, ok := rationalPower(lr, right); ok {
				return out
			}
		}
	}
	return Binary{Op: op, Left: left, Right: right}
}

// foldRat evaluates op on two exact operands. Overflow degrades to float; division
// by zero yields the infinity/NaN produced by a zero-denominator Fraction.
func foldRat(op Op, a, b exact.Rat) (Expr, bool) {
	var (
		r   exact.Rat
		err error
	)
	switch op {
	case OpAdd:
		r, err = a.Add(b)
	case OpSub:
		r, err = a.Sub(b)
	case OpMul:
		r, err = a.Mul(b)
	case OpDiv:
		if b.IsZero() {
			return Fraction{Num: int64(a.Sign()), Den: 0}.Simplify(), true
		}
		r, err = a.Div(b)
	case OpPow:
		if !b.IsInt() {
			return nil, false
		}
		if a.IsZero() && b.Sign() < 0 {
			return Float{Value: math.Inf(1)}, true
		}
		r, err = a.PowInt(b.Num())
		if err != nil {
			return Float{Value: math.Pow(a.Float64(), b.Float64())}, true
		}
		return FromRat(r), true
	default:
		return nil, false
	}
	if err != nil {
		return Float{Value: applyFloat(op, a.Float64(), b.Float64())}, true
	}
	return FromRat(r), true
}

func applyFloat(op Op, a, b float64) float64 {
	switch op {
	case OpAdd:
		return a + b
	case OpSub:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		return a / b
	case OpPow:
		return math.Pow(a, b)
	}
	return math.NaN()
}

// rationalPower handles a^(p/q) for a rational base: it becomes the q-th root of a^p.
func rationalPower(base exact.Rat, exp Expr) (Expr, bool) {
	e, ok := ratOf(exp)
	if !ok || e.IsInt() || base.Sign() < 0 {
		return nil, false
	}
	p, err := base.PowInt(e.Num())
	if err != nil || e.Den() > 64 {
		return nil, false
	}
	if p.IsInt() {
		return Root{Radicand: Integer{Value: p.Num()}, Index: int(e.Den())}.Simplify(), true
	}
	return Root{Radicand: FromRat(p), Index: int(e.Den())}.Simplify(), true
}

func negate(x Expr) Expr {
	if r, ok := ratOf(x); ok {
		return FromRat(r.Neg())
	}
	if f, ok := x.(Float); ok {
		return Float{Value: -f.Value}
	}
	if inner, ok := negated(x); ok {
		return inner
	}
	if c, root, ok := radicalTerm(x); ok {
		return makeRadicalTerm(c.Neg(), root)
	}
	return Binary{Op: OpSub, Left: Integer{}, Right: x}
}

// radicalTerm matches c·root, root, and -(c·root) with an exact coefficient c.
func radicalTerm(e Expr) (exact.Rat, Root, bool) {
	switch v := e.(type) {
	case Root:
		return exact.RatInt(1), v, true
	case Binary:
		switch v.Op {
		case OpMul:
			if c, ok := ratOf(v.Left); ok {
				if root, ok := v.Right.(Root); ok {
					return c, root, true
				}
			}
			if c, ok := ratOf(v.Right); ok {
				if root, ok := v.Left.(Root); ok {
					return c, root, true
				}
			}
		case OpSub:
			if isZero(v.Left) {
				if c, root, ok := radicalTerm(v.Right); ok {
					return c.Neg(), root, true
				}
			}
		}
	}
	return exact.Rat{}, Root{}, false
}

func makeRadicalTerm(c exact.Rat, root Root) Expr {
	switch {
	case c.IsZero():
		return Integer{}
	case c.IsOne():
		return root
	case c.IsInt() && c.Num() == -1:
		return Binary{Op: OpSub, Left: Integer{}, Right: root}
	}
	return Binary{Op: OpMul, Left: FromRat(c), Right: root}
}

func sameRoot(a, b Root) bool {
	return a.index() == b.index() && a.Radicand == b.Radicand
}

// combineRadicals folds a·√x ± b·√x into (a±b)·√x.
func combineRadicals(left, right Expr, subtract bool) (Expr, bool) {
	a, ra, ok := radicalTerm(left)
	if !ok {
		return nil, false
	}
	b, rb, ok := radicalTerm(right)
	if !ok || !sameRoot(ra, rb) {
		return nil, false
	}
	var (
		c   exact.Rat
		err error
	)
	if subtract {
		c, err = a.Sub(b)
	} else {
		c, err = a.Add(b)
	}
	if err != nil {
		return nil, false
	}
	return makeRadicalTerm(c, ra), true
}

// multiplyRoots folds (a·√m)(b·√n) into ab·√(mn) for integer radicands.
func multiplyRoots(left, right Expr) (Expr, bool) {
	a, ra, ok := radicalTerm(left)
	if !ok {
		return nil, false
	}
	b, rb, ok := radicalTerm(right)
	if !ok || ra.index() != rb.index() {
		return nil, false
	}
	m, ok := ra.Radicand.(Integer)
	if !ok {
		return nil, false
	}
	n, ok := rb.Radicand.(Integer)
	if !ok {
		return nil, false
	}
	c, err := a.Mul(b)
	if err != nil {
		return nil, false
	}
	mn, err := exact.RatInt(m.Value).Mul(exact.RatInt(n.Value))
	if err != nil {
		return nil, false
	}
	root := Root{Radicand: Integer{Value: mn.Num()}, Index: ra.index()}.Simplify()
	return simplifyBinary(OpMul, FromRat(c), root), true
}

// rationalizeDenominator rewrites a / (c·√m) as (a/(c·m))·√m for square roots.
func rationalizeDenominator(a exact.Rat, den Expr) (Expr, bool) {
	c, root, ok := radicalTerm(den)
	if !ok || root.index() != 2 {
		return nil, false
	}
	m, ok := root.Radicand.(Integer)
	if !ok || m.Value <= 0 {
		return nil, false
	}
	cm, err := c.Mul(exact.RatInt(m.Value))
	if err != nil || cm.IsZero() {
		return nil, false
	}
	k, err := a.Div(cm)
	if err != nil {
		return nil, false
	}
	return makeRadicalTerm(k, root), true
}

func (r Root) index() int {
	if r.Index == 0 {
		return 2
	}
	return r.Index
}

func (r Root) Simplify() Expr {
	return simplifyRoot(r.Radicand.Simplify(), r.index())
}

func simplifyRoot(rad Expr, idx int) Expr {
	if idx == 1 {
		return rad
	}
	switch v := rad.(type) {
	case Integer:
		if v.Value < 0 && idx%2 == 0 {
			break
		}
		outer, inner := exact.ExtractRoot(v.Value, idx)
		switch {
		case inner == 1:
			return Integer{Value: outer}
		case outer == 1:
			return Root{Radicand: Integer{Value: inner}, Index: idx}
		default:
			return Binary{Op: OpMul, Left: Integer{Value: outer}, Right: Root{Radicand: Integer{Value: inner}, Index: idx}}
		}
	case Fraction:
		if v.Num < 0 && idx%2 == 0 {
			break
		}
		num, okNum := exact.IntRoot(absInt(v.Num), idx)
		den, okDen := exact.IntRoot(v.Den, idx)
		if okNum && okDen {
			if v.Num < 0 {
				num = -num
			}
			return Fraction{Num: num, Den: den}.Simplify()
		}
		if idx == 2 && v.Num > 0 {
			// √(p/q) = √(pq)/q
			pq, err := exact.RatInt(v.Num).Mul(exact.RatInt(v.Den))
			if err == nil {
				inv, _ := exact.NewRat(1, v.Den)
				return simplifyBinary(OpMul, FromRat(inv), simplifyRoot(Integer{Value: pq.Num()}, 2))
			}
		}
	}
	return Root{Radicand: rad, Index: idx}
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func (f Func) Simplify() Expr {
	return simplifyFunc(f.Fn, f.Arg.Simplify())
}

func simplifyFunc(fn Fn, arg Expr) Expr {
	if r, ok := ratOf(arg); ok {
		switch fn {
		case FnAbs:
			return FromRat(r.Abs())
		case FnSin, FnTan, FnAsin, FnAtan:
			if r.IsZero() {
				return Integer{}
			}
		case FnCos, FnExp:
			if r.IsZero() {
				return Integer{Value: 1}
			}
		case FnLog, FnLn:
			if r.IsOne() {
				return Integer{}
			}
		}
	}
	if inner, ok := arg.(Func); ok && fn == FnAbs && inner.Fn == FnAbs {
		return inner
	}
	return Func{Fn: fn, Arg: arg}
}

func (p Percent) Simplify() Expr { return Percent{Inner: p.Inner.Simplify()} }
