package expr

import (
	"fmt"
	"strconv"
	"strings"

	"mathstep/mathcore/exact"
)

func (n Integer) String() string  { return strconv.FormatInt(n.Value, 10) }
func (n Float) String() string    { return exact.FormatDecimal(n.Value, 10) }
func (f Fraction) String() string { return fmt.Sprintf("%d/%d", f.Num, f.Den) }
func (v Variable) String() string { return v.Name }

func (c Constant) String() string {
	if c.Name == ConstPi {
		return `\pi`
	}
	return c.Name
}

func (b Binary) String() string {
	if inner, ok := negated(b); ok {
		if abs, neg := negativeLiteral(inner); neg {
			return abs.String()
		}
		return "(-" + inner.String() + ")"
	}
	if b.Op == OpPow {
		return atomString(b.Left) + "^{" + b.Right.String() + "}"
	}
	return fmt.Sprintf("(%s %c %s)", b.Left.String(), b.Op, b.Right.String())
}

// atomString wraps anything that is not a single token in parentheses.
func atomString(e Expr) string {
	switch v := e.(type) {
	case Integer:
		if v.Value >= 0 {
			return v.String()
		}
	case Float:
		if v.Value >= 0 {
			return v.String()
		}
	case Variable, Constant, Root, Func:
		return e.String()
	case Binary:
		if _, neg := negated(v); !neg {
			// Binary strings already carry their own parentheses.
			if v.Op != OpPow {
				return v.String()
			}
		}
	}
	return "(" + e.String() + ")"
}

func (r Root) String() string {
	if r.index() == 2 {
		return `\sqrt{` + r.Radicand.String() + "}"
	}
	return fmt.Sprintf(`\sqrt[%d]{%s}`, r.index(), r.Radicand.String())
}

func (f Func) String() string { return f.Fn.String() + "(" + f.Arg.String() + ")" }

func (p Percent) String() string { return atomString(p.Inner) + "%" }

const (
	precSum = iota + 1
	precProduct
	precPower
	precAtom
)

func (n Integer) LaTeX() string  { return n.String() }
func (n Float) LaTeX() string    { return n.String() }
func (f Fraction) LaTeX() string { return latexPrec(f, 0) }
func (v Variable) LaTeX() string { return v.Name }
func (c Constant) LaTeX() string { return c.String() }
func (b Binary) LaTeX() string   { return latexPrec(b, 0) }
func (r Root) LaTeX() string     { return latexPrec(r, 0) }
func (f Func) LaTeX() string     { return latexPrec(f, 0) }
func (p Percent) LaTeX() string  { return latexPrec(p, 0) }

func latexPrec(e Expr, parentPrec int) string {
	s, prec := latexNode(e)
	if prec < parentPrec {
		return `\left(` + s + `\right)`
	}
	return s
}

// latexNode renders e and reports the binding strength of its outermost operator.
func latexNode(e Expr) (string, int) {
	switch v := e.(type) {
	case Integer:
		if v.Value < 0 {
			return v.String(), precProduct
		}
		return v.String(), precAtom
	case Float:
		if v.Value < 0 {
			return v.String(), precProduct
		}
		return v.String(), precAtom
	case Fraction:
		if v.Den == 0 {
			return latexNode(v.Simplify())
		}
		r, err := exact.NewRat(v.Num, v.Den)
		if err != nil {
			return fmt.Sprintf(`\frac{%d}{%d}`, v.Num, v.Den), precAtom
		}
		if r.Sign() < 0 {
			return r.LaTeX(), precProduct
		}
		return r.LaTeX(), precAtom
	case Variable:
		return v.Name, precAtom
	case Constant:
		return v.String(), precAtom
	case Root:
		if v.index() == 2 {
			return `\sqrt{` + latexPrec(v.Radicand, 0) + "}", precAtom
		}
		return fmt.Sprintf(`\sqrt[%d]{%s}`, v.index(), latexPrec(v.Radicand, 0)), precAtom
	case Func:
		return funcLaTeX(v), precAtom
	case Percent:
		return latexPrec(v.Inner, precAtom) + `\%`, precAtom
	case Binary:
		return binaryLaTeX(v)
	}
	return "?", precAtom
}

func binaryLaTeX(b Binary) (string, int) {
	if inner, ok := negated(b); ok {
		if abs, neg := negativePart(inner); neg {
			return latexNode(abs)
		}
		return "-" + latexPrec(inner, precProduct), precProduct
	}
	switch b.Op {
	case OpAdd:
		left := latexPrec(b.Left, precSum)
		if abs, ok := negativePart(b.Right); ok {
			return left + " - " + latexPrec(abs, precProduct), precSum
		}
		return left + " + " + latexPrec(b.Right, precSum), precSum
	case OpSub:
		left := latexPrec(b.Left, precSum)
		if abs, ok := negativePart(b.Right); ok {
			return left + " + " + latexPrec(abs, precSum), precSum
		}
		return left + " - " + latexPrec(b.Right, precProduct), precSum
	case OpMul:
		return productLaTeX(b.Left, b.Right), precProduct
	case OpDiv:
		return `\frac{` + latexPrec(b.Left, 0) + "}{" + latexPrec(b.Right, 0) + "}", precAtom
	case OpPow:
		if c, ok := b.Left.(Constant); ok && c.Name == ConstE {
			return "e^{" + latexPrec(b.Right, 0) + "}", precPower
		}
		return latexPrec(b.Left, precAtom) + "^{" + latexPrec(b.Right, 0) + "}", precPower
	}
	return "?", precAtom
}

// negativeLiteral returns |e| when e is a negative Integer, Fraction or Float.
func negativeLiteral(e Expr) (Expr, bool) {
	if r, ok := ratOf(e); ok && r.Sign() < 0 {
		return FromRat(r.Neg()), true
	}
	if f, ok := e.(Float); ok && f.Value < 0 {
		return Float{Value: -f.Value}, true
	}
	return nil, false
}

// negativePart returns |e| when e is a negative number or a 0 - x node whose
// x is not itself negative.
func negativePart(e Expr) (Expr, bool) {
	if inner, ok := negated(e); ok {
		if _, neg := negativePart(inner); neg {
			return nil, false
		}
		return inner, true
	}
	if abs, ok := negativeLiteral(e); ok {
		return abs, true
	}
	if b, ok := e.(Binary); ok && b.Op == OpMul {
		if r, ok := ratOf(b.Left); ok && r.Sign() < 0 {
			return Binary{Op: OpMul, Left: FromRat(r.Neg()), Right: b.Right}, true
		}
	}
	return nil, false
}

func productLaTeX(left, right Expr) string {
	if f, ok := left.(Fraction); ok && f.Den != 0 {
		if root, ok := right.(Root); ok {
			if r, err := exact.NewRat(f.Num, f.Den); err == nil && !r.IsInt() {
				num := r.Num()
				sign := ""
				if num < 0 {
					sign = "-"
					num = -num
				}
				coef := ""
				if num != 1 {
					coef = strconv.FormatInt(num, 10)
				}
				return fmt.Sprintf(`%s\frac{%s%s}{%d}`, sign, coef, root.LaTeX(), r.Den())
			}
		}
	}
	l := latexPrec(left, precProduct)
	r := latexPrec(right, precPower)
	if juxtaposes(left, right) {
		return l + r
	}
	return l + ` \cdot ` + r
}

// juxtaposes reports whether left·right reads unambiguously without a \cdot.
func juxtaposes(left, right Expr) bool {
	switch left.(type) {
	case Integer, Float, Fraction, Variable, Constant:
	default:
		return false
	}
	switch v := right.(type) {
	case Variable, Constant, Root, Func:
		return true
	case Binary:
		if v.Op == OpPow {
			switch v.Left.(type) {
			case Variable, Constant:
				return true
			}
		}
	}
	return false
}

var fnLaTeX = map[Fn]string{
	FnSin:  `\sin`,
	FnCos:  `\cos`,
	FnTan:  `\tan`,
	FnAsin: `\arcsin`,
	FnAcos: `\arccos`,
	FnAtan: `\arctan`,
	FnLog:  `\log`,
	FnLn:   `\ln`,
}

func funcLaTeX(f Func) string {
	arg := latexPrec(f.Arg, 0)
	switch f.Fn {
	case FnExp:
		return "e^{" + arg + "}"
	case FnAbs:
		return `\left|` + arg + `\right|`
	}
	name, ok := fnLaTeX[f.Fn]
	if !ok {
		name = `\operatorname{` + f.Fn.String() + "}"
	}
	return name + "(" + arg + ")"
}

// Compact strips the spaces String inserts around operators.
func Compact(e Expr) string {
	return strings.ReplaceAll(e.String(), " ", "")
}
