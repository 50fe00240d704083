package exact

import (
	"errors"
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

var (
	ErrOverflow       = errors.New("overflow")
	ErrDivisionByZero = errors.New("division by zero")
)

// Rat is an exact rational with int64 numerator and denominator.
// Values built by RatInt or NewRat are always reduced with den > 0.
type Rat struct {
	num int64
	den int64
}

func RatInt(n int64) Rat { return Rat{num: n, den: 1} }

func NewRat(num, den int64) (Rat, error) {
	if den == 0 {
		return Rat{}, ErrDivisionByZero
	}
	if den < 0 {
		if num == math.MinInt64 || den == math.MinInt64 {
			return Rat{}, ErrOverflow
		}
		num = -num
		den = -den
	}
	g := Gcd(abs64(num), den)
	return Rat{num: num / g, den: den / g}, nil
}

// MustRat is NewRat for constants known to be valid.
func MustRat(num, den int64) Rat {
	r, err := NewRat(num, den)
	if err != nil {
		panic(fmt.Sprintf("exact: MustRat(%d, %d): %v", num, den, err))
	}
	return r
}

func (r Rat) Num() int64 { return r.num }

func (r Rat) Den() int64 {
	if r.den == 0 {
		return 1
	}
	return r.den
}

func (r Rat) IsInt() bool  { return r.Den() == 1 }
func (r Rat) IsZero() bool { return r.num == 0 }
func (r Rat) IsOne() bool  { return r.num == 1 && r.Den() == 1 }

func (r Rat) Sign() int {
	switch {
	case r.num > 0:
		return 1
	case r.num < 0:
		return -1
	default:
		return 0
	}
}

func (r Rat) Float64() float64 { return float64(r.num) / float64(r.Den()) }

func (r Rat) Neg() Rat { return Rat{num: -r.num, den: r.Den()} }

func (r Rat) Abs() Rat {
	if r.num < 0 {
		return r.Neg()
	}
	return Rat{num: r.num, den: r.Den()}
}

func (r Rat) Cmp(b Rat) int {
	d, err := r.Sub(b)
	if err != nil {
		x, y := r.Float64(), b.Float64()
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	return d.Sign()
}

func (r Rat) String() string {
	if r.IsInt() {
		return fmt.Sprintf("%d", r.num)
	}
	return fmt.Sprintf("%d/%d", r.num, r.den)
}

// LaTeX renders r as an integer or a signed \frac.
func (r Rat) LaTeX() string {
	if r.IsInt() {
		return fmt.Sprintf("%d", r.num)
	}
	if r.num < 0 {
		return fmt.Sprintf("-\\frac{%d}{%d}", -r.num, r.den)
	}
	return fmt.Sprintf("\\frac{%d}{%d}", r.num, r.den)
}

func (r Rat) Add(b Rat) (Rat, error) {
	n1, err := mulChecked(r.num, b.Den())
	if err != nil {
		return Rat{}, err
	}
	n2, err := mulChecked(b.num, r.Den())
	if err != nil {
		return Rat{}, err
	}
	n, err := addChecked(n1, n2)
	if err != nil {
		return Rat{}, err
	}
	d, err := mulChecked(r.Den(), b.Den())
	if err != nil {
		return Rat{}, err
	}
	return NewRat(n, d)
}

func (r Rat) Sub(b Rat) (Rat, error) {
	if b.num == math.MinInt64 {
		return Rat{}, ErrOverflow
	}
	return r.Add(b.Neg())
}

func (r Rat) Mul(b Rat) (Rat, error) {
	// Cross-reduce first so products stay small.
	g1 := Gcd(abs64(r.num), b.Den())
	g2 := Gcd(abs64(b.num), r.Den())
	n, err := mulChecked(r.num/g1, b.num/g2)
	if err != nil {
		return Rat{}, err
	}
	d, err := mulChecked(r.Den()/g2, b.Den()/g1)
	if err != nil {
		return Rat{}, err
	}
	return NewRat(n, d)
}

func (r Rat) Div(b Rat) (Rat, error) {
	if b.num == 0 {
		return Rat{}, ErrDivisionByZero
	}
	inv, err := NewRat(b.Den(), b.num)
	if err != nil {
		return Rat{}, err
	}
	return r.Mul(inv)
}

func (r Rat) PowInt(exp int64) (Rat, error) {
	if exp == 0 {
		return RatInt(1), nil
	}
	if exp < 0 {
		if r.num == 0 {
			return Rat{}, ErrDivisionByZero
		}
		inv, err := NewRat(r.Den(), r.num)
		if err != nil {
			return Rat{}, err
		}
		return inv.PowInt(-exp)
	}

	base := r
	out := RatInt(1)
	for exp > 0 {
		if exp&1 == 1 {
			var err error
			out, err = out.Mul(base)
			if err != nil {
				return Rat{}, err
			}
		}
		exp >>= 1
		if exp == 0 {
			break
		}
		var err error
		base, err = base.Mul(base)
		if err != nil {
			return Rat{}, err
		}
	}
	return out, nil
}

// Gcd returns the non-negative greatest common divisor, or 1 when both are zero.
func Gcd[T constraints.Integer](a, b T) T {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	if a == 0 {
		return 1
	}
	return a
}

// Lcm returns the least common multiple of a and b, checked for overflow.
func Lcm(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	return mulChecked(abs64(a)/Gcd(a, b), abs64(b))
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

func addChecked(a, b int64) (int64, error) {
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, ErrOverflow
	}
	return a + b, nil
}

func mulChecked(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a == math.MinInt64 || b == math.MinInt64 {
		return 0, ErrOverflow
	}
	if abs64(a) > math.MaxInt64/abs64(b) {
		return 0, ErrOverflow
	}
	return a * b, nil
}
