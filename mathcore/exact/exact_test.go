package exact

import (
	"errors"
	"math"
	"testing"
)

func TestNewRatNormalizes(t *testing.T) {
	tests := []struct {
		num, den int64
		want     string
	}{
		{4, 8, "1/2"},
		{-2, -4, "1/2"},
		{3, -9, "-1/3"},
		{0, 5, "0"},
		{10, 5, "2"},
	}
	for _, tt := range tests {
		r, err := NewRat(tt.num, tt.den)
		if err != nil {
			t.Fatalf("NewRat(%d, %d) error: %v", tt.num, tt.den, err)
		}
		if r.String() != tt.want {
			t.Fatalf("NewRat(%d, %d)=%s want=%s", tt.num, tt.den, r.String(), tt.want)
		}
	}

	if _, err := NewRat(1, 0); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("NewRat(1, 0) err=%v", err)
	}
}

func TestRatArithmeticOverflow(t *testing.T) {
	big := RatInt(math.MaxInt64 / 2)
	if _, err := big.Mul(RatInt(3)); !errors.Is(err, ErrOverflow) {
		t.Fatalf("mul err=%v, want overflow", err)
	}

	a := MustRat(1, 6)
	b := MustRat(1, 3)
	s, err := a.Add(b)
	if err != nil || s.String() != "1/2" {
		t.Fatalf("1/6+1/3=%v err=%v", s, err)
	}
	p, err := MustRat(2, 3).PowInt(-2)
	if err != nil || p.String() != "9/4" {
		t.Fatalf("(2/3)^-2=%v err=%v", p, err)
	}
	if MustRat(-3, 4).LaTeX() != `-\frac{3}{4}` {
		t.Fatalf("latex=%s", MustRat(-3, 4).LaTeX())
	}
}

func TestNumberFallsBackToFloat(t *testing.T) {
	n := RatNumber(RatInt(math.MaxInt64 / 2)).Mul(Int(4))
	if n.IsRat() {
		t.Fatalf("expected float fallback, got %v", n)
	}
	q, err := Int(1).Div(Int(4))
	if err != nil || !q.IsRat() || q.String() != "1/4" {
		t.Fatalf("1/4=%v err=%v", q, err)
	}
	if _, err := Int(1).Div(Float(0)); !errors.Is(err, ErrDivisionByZero) {
		t.Fatalf("div zero err=%v", err)
	}
}

func TestRationalFromFloat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0.1 + 0.2, "3/10"},
		{2.5, "5/2"},
		{-0.125, "-1/8"},
		{7, "7"},
	}
	for _, tt := range tests {
		r, err := RationalFromFloat(tt.in, DefaultMaxPrecision)
		if err != nil {
			t.Fatalf("RationalFromFloat(%v) error: %v", tt.in, err)
		}
		if r.String() != tt.want {
			t.Fatalf("RationalFromFloat(%v)=%s want=%s", tt.in, r, tt.want)
		}
	}
	if _, err := RationalFromFloat(math.Inf(1), DefaultMaxPrecision); err == nil {
		t.Fatalf("expected error for +Inf")
	}
}

func TestSqrtRational(t *testing.T) {
	r, ok := SqrtRational(MustRat(9, 4))
	if !ok || r.String() != "3/2" {
		t.Fatalf("sqrt(9/4)=%v ok=%v", r, ok)
	}
	if _, ok := SqrtRational(RatInt(2)); ok {
		t.Fatalf("sqrt(2) should not be rational")
	}
	if _, ok := SqrtRational(RatInt(-4)); ok {
		t.Fatalf("sqrt(-4) should not be rational")
	}
}

func TestSymbolicSquareRoot(t *testing.T) {
	tests := []struct {
		in   float64
		want string
		ok   bool
	}{
		{8, `2\sqrt{2}`, true},
		{16, "4", true},
		{7, `\sqrt{7}`, true},
		{72.0000000001, `6\sqrt{2}`, true},
		{2.5, "", false},
		{-4, "", false},
	}
	for _, tt := range tests {
		got, ok := SymbolicSquareRoot(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("SymbolicSquareRoot(%v)=%q,%v want=%q,%v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestExtractRoot(t *testing.T) {
	tests := []struct {
		n            int64
		k            int
		outer, inner int64
	}{
		{8, 2, 2, 2},
		{12, 2, 2, 3},
		{49, 2, 7, 1},
		{54, 3, 3, 2},
		{13, 2, 1, 13},
		{-16, 3, -2, 2},
		{0, 2, 0, 1},
		{0, 3, 0, 1},
		{1, 2, 1, 1},
	}
	for _, tt := range tests {
		o, i := ExtractRoot(tt.n, tt.k)
		if o != tt.outer || i != tt.inner {
			t.Fatalf("ExtractRoot(%d,%d)=%d,%d want=%d,%d", tt.n, tt.k, o, i, tt.outer, tt.inner)
		}
	}
}

func TestSymbolicSquareRootOfZero(t *testing.T) {
	if got, ok := SymbolicSquareRoot(0); !ok || got != "0" {
		t.Fatalf("SymbolicSquareRoot(0)=%q,%v", got, ok)
	}
}

func TestFormatDecimal(t *testing.T) {
	if got := FormatDecimal(2.41421356, 4); got != "2.4142" {
		t.Fatalf("FormatDecimal=%s", got)
	}
	if got := FormatDecimal(0.5, 10); got != "0.5" {
		t.Fatalf("FormatDecimal=%s", got)
	}
	if got := FormatDecimal(-0.00001, 2); got != "0" {
		t.Fatalf("FormatDecimal=%s", got)
	}
}
