package expr

import (
	"math"

	"github.com/samber/lo"
	"golang.org/x/exp/slices"
)

func (n Integer) Evaluate() Expr  { return n }
func (n Float) Evaluate() Expr    { return n }
func (f Fraction) Evaluate() Expr { return f.Simplify() }
func (v Variable) Evaluate() Expr { return v }

func (c Constant) Evaluate() Expr { return Float{Value: constantValue(c.Name)} }

func (b Binary) Evaluate() Expr {
	l := b.Left.Evaluate()
	r := b.Right.Evaluate()
	_, lf := l.(Float)
	_, rf := r.(Float)
	if lf || rf {
		x, okx := Float64(l)
		y, oky := Float64(r)
		if okx && oky {
			return Float{Value: applyFloat(b.Op, x, y)}
		}
	}
	if b.Op == OpPow {
		// Non-integer powers of exact numbers have no exact form left after Simplify.
		if out := simplifyBinary(b.Op, l, r); isNumericFloatable(out) {
			return out
		}
		if x, okx := Float64(l); okx {
			if y, oky := Float64(r); oky {
				return Float{Value: math.Pow(x, y)}
			}
		}
	}
	return simplifyBinary(b.Op, l, r)
}

// isNumericFloatable reports whether e is already a fully exact leaf or radical form.
func isNumericFloatable(e Expr) bool {
	switch e.(type) {
	case Integer, Fraction, Float:
		return true
	}
	if _, _, ok := radicalTerm(e); ok {
		return true
	}
	return false
}

func (r Root) Evaluate() Expr {
	rad := r.Radicand.Evaluate()
	if f, ok := rad.(Float); ok {
		return Float{Value: nthRoot(f.Value, r.index())}
	}
	return simplifyRoot(rad, r.index())
}

func nthRoot(v float64, k int) float64 {
	if k == 2 {
		return math.Sqrt(v)
	}
	if v < 0 && k%2 == 1 {
		return -math.Pow(-v, 1/float64(k))
	}
	return math.Pow(v, 1/float64(k))
}

func (f Func) Evaluate() Expr {
	arg := f.Arg.Evaluate()
	if s := simplifyFunc(f.Fn, arg); s != (Func{Fn: f.Fn, Arg: arg}) {
		return s
	}
	v, ok := Float64(arg)
	if !ok {
		return Func{Fn: f.Fn, Arg: arg}
	}
	return Float{Value: applyFn(f.Fn, v)}
}

func applyFn(fn Fn, v float64) float64 {
	switch fn {
	case FnSin:
		return math.Sin(v)
	case FnCos:
		return math.Cos(v)
	case FnTan:
		return math.Tan(v)
	case FnAsin:
		return math.Asin(v)
	case FnAcos:
		return math.Acos(v)
	case FnAtan:
		return math.Atan(v)
	case FnLog:
		return math.Log10(v)
	case FnLn:
		return math.Log(v)
	case FnExp:
		return math.Exp(v)
	case FnAbs:
		return math.Abs(v)
	}
	return math.NaN()
}

func (p Percent) Evaluate() Expr {
	inner := p.Inner.Evaluate()
	if v, ok := Float64(inner); ok {
		return Float{Value: v / 100}
	}
	return Percent{Inner: inner}
}

func (n Integer) Substitute(string, Expr) Expr  { return n }
func (n Float) Substitute(string, Expr) Expr    { return n }
func (f Fraction) Substitute(string, Expr) Expr { return f }
func (c Constant) Substitute(string, Expr) Expr { return c }

func (v Variable) Substitute(name string, value Expr) Expr {
	if v.Name == name {
		return value
	}
	return v
}

func (b Binary) Substitute(name string, value Expr) Expr {
	return Binary{Op: b.Op, Left: b.Left.Substitute(name, value), Right: b.Right.Substitute(name, value)}
}

func (r Root) Substitute(name string, value Expr) Expr {
	return Root{Radicand: r.Radicand.Substitute(name, value), Index: r.Index}
}

func (f Func) Substitute(name string, value Expr) Expr {
	return Func{Fn: f.Fn, Arg: f.Arg.Substitute(name, value)}
}

func (p Percent) Substitute(name string, value Expr) Expr {
	return Percent{Inner: p.Inner.Substitute(name, value)}
}

// Float64 evaluates a variable-free tree numerically.
func Float64(e Expr) (float64, bool) {
	switch v := e.(type) {
	case Integer:
		return float64(v.Value), true
	case Float:
		return v.Value, true
	case Fraction:
		if v.Den == 0 {
			return Float64(v.Simplify())
		}
		return float64(v.Num) / float64(v.Den), true
	case Constant:
		return constantValue(v.Name), true
	case Variable:
		return 0, false
	case Binary:
		x, ok := Float64(v.Left)
		if !ok {
			return 0, false
		}
		y, ok := Float64(v.Right)
		if !ok {
			return 0, false
		}
		return applyFloat(v.Op, x, y), true
	case Root:
		x, ok := Float64(v.Radicand)
		if !ok {
			return 0, false
		}
		return nthRoot(x, v.index()), true
	case Func:
		x, ok := Float64(v.Arg)
		if !ok {
			return 0, false
		}
		return applyFn(v.Fn, x), true
	case Percent:
		x, ok := Float64(v.Inner)
		if !ok {
			return 0, false
		}
		return x / 100, true
	}
	return 0, false
}

// Walk calls fn for e and every descendant in prefix order.
func Walk(e Expr, fn func(Expr)) {
	fn(e)
	switch v := e.(type) {
	case Binary:
		Walk(v.Left, fn)
		Walk(v.Right, fn)
	case Root:
		Walk(v.Radicand, fn)
	case Func:
		Walk(v.Arg, fn)
	case Percent:
		Walk(v.Inner, fn)
	}
}

// Variables returns the sorted distinct variable names used in e.
func Variables(e Expr) []string {
	var names []string
	Walk(e, func(n Expr) {
		if v, ok := n.(Variable); ok {
			names = append(names, v.Name)
		}
	})
	names = lo.Uniq(names)
	slices.Sort(names)
	return names
}

func HasVariable(e Expr, name string) bool {
	return lo.Contains(Variables(e), name)
}

func ContainsConstant(e Expr, name string) bool {
	found := false
	Walk(e, func(n Expr) {
		if c, ok := n.(Constant); ok && c.Name == name {
			found = true
		}
	})
	return found
}

// ContainsFunc reports whether any node of e applies fn.
func ContainsFunc(e Expr, fn Fn) bool {
	found := false
	Walk(e, func(n Expr) {
		if f, ok := n.(Func); ok && f.Fn == fn {
			found = true
		}
	})
	return found
}

// Transform rebuilds e bottom-up, replacing every node with fn(node).
func Transform(e Expr, fn func(Expr) Expr) Expr {
	switch v := e.(type) {
	case Binary:
		e = Binary{Op: v.Op, Left: Transform(v.Left, fn), Right: Transform(v.Right, fn)}
	case Root:
		e = Root{Radicand: Transform(v.Radicand, fn), Index: v.Index}
	case Func:
		e = Func{Fn: v.Fn, Arg: Transform(v.Arg, fn)}
	case Percent:
		e = Percent{Inner: Transform(v.Inner, fn)}
	}
	return fn(e)
}

// IsExact reports whether e is built only from integers, fractions, roots and
// arithmetic, so its printed form carries no rounding.
func IsExact(e Expr) bool {
	ok := true
	Walk(e, func(n Expr) {
		switch v := n.(type) {
		case Integer, Binary:
		case Fraction:
			ok = ok && v.Den != 0
		case Root:
		default:
			ok = false
		}
	})
	return ok
}

// HasRoot reports whether a radical survives in e.
func HasRoot(e Expr) bool {
	found := false
	Walk(e, func(n Expr) {
		if _, ok := n.(Root); ok {
			found = true
		}
	})
	return found
}
