package exact

import (
	"math"
	"strconv"
)

type NumberKind uint8

const (
	NumberFloat NumberKind = iota
	NumberRat
)

// Number is either an exact rational or a float64. Arithmetic stays exact while both
// operands are rational and the int64 range is not exceeded; otherwise it degrades to float.
type Number struct {
	kind NumberKind
	f    float64
	r    Rat
}

func Float(f float64) Number { return Number{kind: NumberFloat, f: f} }

func RatNumber(r Rat) Number { return Number{kind: NumberRat, r: r} }

func Int(n int64) Number { return RatNumber(RatInt(n)) }

func (n Number) Kind() NumberKind { return n.kind }

func (n Number) IsRat() bool { return n.kind == NumberRat }

func (n Number) IsFloat() bool { return n.kind == NumberFloat }

// Rat returns the exact value; ok is false for float numbers.
func (n Number) Rat() (Rat, bool) {
	if n.kind == NumberRat {
		return n.r, true
	}
	return Rat{}, false
}

func (n Number) Float64() float64 {
	if n.kind == NumberRat {
		return n.r.Float64()
	}
	return n.f
}

func (n Number) IsZero() bool {
	if n.kind == NumberRat {
		return n.r.IsZero()
	}
	return n.f == 0
}

func (n Number) IsOne() bool {
	if n.kind == NumberRat {
		return n.r.IsOne()
	}
	return n.f == 1
}

func (n Number) Sign() int {
	if n.kind == NumberRat {
		return n.r.Sign()
	}
	switch {
	case n.f > 0:
		return 1
	case n.f < 0:
		return -1
	default:
		return 0
	}
}

func (n Number) Neg() Number {
	if n.kind == NumberRat {
		return RatNumber(n.r.Neg())
	}
	return Float(-n.f)
}

func (n Number) Abs() Number {
	if n.Sign() < 0 {
		return n.Neg()
	}
	return n
}

func (n Number) Add(b Number) Number {
	if n.kind == NumberRat && b.kind == NumberRat {
		if r, err := n.r.Add(b.r); err == nil {
			return RatNumber(r)
		}
	}
	return Float(n.Float64() + b.Float64())
}

func (n Number) Sub(b Number) Number { return n.Add(b.Neg()) }

func (n Number) Mul(b Number) Number {
	if n.kind == NumberRat && b.kind == NumberRat {
		if r, err := n.r.Mul(b.r); err == nil {
			return RatNumber(r)
		}
	}
	return Float(n.Float64() * b.Float64())
}

func (n Number) Div(b Number) (Number, error) {
	if b.IsZero() {
		return Number{}, ErrDivisionByZero
	}
	if n.kind == NumberRat && b.kind == NumberRat {
		if r, err := n.r.Div(b.r); err == nil {
			return RatNumber(r), nil
		}
	}
	return Float(n.Float64() / b.Float64()), nil
}

// String renders the number for plain text: "3", "-1/2" or a trimmed decimal.
func (n Number) String() string {
	if n.kind == NumberRat {
		return n.r.String()
	}
	return FormatDecimal(n.f, 10)
}

func (n Number) LaTeX() string {
	if n.kind == NumberRat {
		return n.r.LaTeX()
	}
	return FormatDecimal(n.f, 10)
}

// FormatDecimal formats f with at most places fractional digits and no trailing zeros.
func FormatDecimal(f float64, places int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "\\infty"
	case math.IsInf(f, -1):
		return "-\\infty"
	}
	if places < 0 {
		places = 0
	}
	s := strconv.FormatFloat(f, 'f', places, 64)
	if places > 0 {
		i := len(s)
		for i > 0 && s[i-1] == '0' {
			i--
		}
		if i > 0 && s[i-1] == '.' {
			i--
		}
		s = s[:i]
	}
	if s == "-0" {
		return "0"
	}
	return s
}
