package exact

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultMaxPrecision is the number of fractional decimal digits RationalFromFloat keeps.
const DefaultMaxPrecision = 12

// trialDivisionLimit bounds the factor search in ExtractRoot; larger prime factors stay
// under the radical.
const trialDivisionLimit = 1_000_000

// RationalFromFloat converts v into an exact rational by truncating its shortest decimal
// representation to maxPrecision fractional digits, so binary noise such as
// 0.30000000000000004 never reaches a displayed fraction.
func RationalFromFloat(v float64, maxPrecision int) (Rat, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Rat{}, fmt.Errorf("%w: %v is not finite", ErrOverflow, v)
	}
	if maxPrecision < 0 {
		maxPrecision = 0
	}
	if maxPrecision > 18 {
		maxPrecision = 18
	}
	s := strconv.FormatFloat(v, 'f', -1, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, fracPart, _ := strings.Cut(s, ".")
	if len(fracPart) > maxPrecision {
		fracPart = fracPart[:maxPrecision]
	}
	fracPart = strings.TrimRight(fracPart, "0")

	num, err := strconv.ParseInt(intPart+fracPart, 10, 64)
	if err != nil {
		return Rat{}, fmt.Errorf("%w: %s", ErrOverflow, s)
	}
	den := int64(1)
	for range fracPart {
		den *= 10
	}
	if neg {
		num = -num
	}
	return NewRat(num, den)
}

// SqrtRational returns the exact square root of r when both reduced numerator and
// denominator are perfect squares.
func SqrtRational(r Rat) (Rat, bool) {
	if r.Sign() < 0 {
		return Rat{}, false
	}
	n, ok := IntRoot(r.Num(), 2)
	if !ok {
		return Rat{}, false
	}
	d, ok := IntRoot(r.Den(), 2)
	if !ok {
		return Rat{}, false
	}
	out, err := NewRat(n, d)
	if err != nil {
		return Rat{}, false
	}
	return out, true
}

// SymbolicSquareRoot renders √v as "k\sqrt{m}" (or "k", or "\sqrt{m}") when v is a
// non-negative integer up to float tolerance.
func SymbolicSquareRoot(v float64) (string, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 || v > 1e15 {
		return "", false
	}
	n := math.Round(v)
	if math.Abs(v-n) > 1e-9*math.Max(1, math.Abs(v)) {
		return "", false
	}
	outer, inner := ExtractRoot(int64(n), 2)
	switch {
	case inner == 1:
		return strconv.FormatInt(outer, 10), true
	case outer == 1:
		return fmt.Sprintf("\\sqrt{%d}", inner), true
	default:
		return fmt.Sprintf("%d\\sqrt{%d}", outer, inner), true
	}
}

// ExtractRoot splits a non-negative n into outer^k * inner with outer maximal, so that
// the k-th root of n equals outer times the k-th root of inner.
func ExtractRoot(n int64, k int) (outer, inner int64) {
	if n < 0 {
		o, i := ExtractRoot(-n, k)
		if k%2 == 1 {
			return -o, i
		}
		return o, -i
	}
	if n == 0 {
		return 0, 1
	}
	if n == 1 || k < 2 {
		return 1, n
	}
	outer, inner = 1, 1
	rest := n
	for p := int64(2); p <= trialDivisionLimit && p*p <= rest; p++ {
		if rest%p != 0 {
			continue
		}
		e := 0
		for rest%p == 0 {
			rest /= p
			e++
		}
		for i := 0; i < e/k; i++ {
			outer *= p
		}
		for i := 0; i < e%k; i++ {
			inner *= p
		}
	}
	if r, ok := IntRoot(rest, k); ok {
		outer *= r
	} else {
		inner *= rest
	}
	return outer, inner
}

// IntRoot returns the integer k-th root of a non-negative n and whether it is exact.
func IntRoot(n int64, k int) (int64, bool) {
	if n < 0 || k < 1 {
		return 0, false
	}
	if n < 2 || k == 1 {
		return n, true
	}
	guess := int64(math.Round(math.Pow(float64(n), 1/float64(k))))
	for _, c := range []int64{guess - 1, guess, guess + 1} {
		if c < 0 {
			continue
		}
		p, err := RatInt(c).PowInt(int64(k))
		if err == nil && p.Num() == n {
			return c, true
		}
	}
	return guess, false
}

// IsPerfectSquare reports whether n is the square of an integer.
func IsPerfectSquare(n int64) bool {
	_, ok := IntRoot(n, 2)
	return ok
}
