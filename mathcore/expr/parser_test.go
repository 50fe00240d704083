package expr

import (
	"errors"
	"testing"

	"github.com/alecthomas/repr"
)

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		in   string
		want Expr
	}{
		{in: "2+3*4", want: Integer{Value: 14}},
		{in: "(2+3)*4", want: Integer{Value: 20}},
		{in: "2^3^2", want: Integer{Value: 512}},
		{in: "-2^2", want: Integer{Value: -4}},
		{in: "2*-3", want: Integer{Value: -6}},
		{in: "10-4-3", want: Integer{Value: 3}},
		{in: "12/4/3", want: Integer{Value: 1}},
		{in: "2^-1", want: Fraction{Num: 1, Den: 2}},
		{in: "[1+2]*{3}", want: Integer{Value: 9}},
		{in: "2×3÷4", want: Fraction{Num: 3, Den: 2}},
	}
	for _, tt := range tests {
		ex, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if got := ex.Evaluate(); got != tt.want {
			t.Fatalf("Parse(%q).Evaluate()=%s want=%s", tt.in, repr.String(got), repr.String(tt.want))
		}
	}
}

func TestParseTreeShape(t *testing.T) {
	x := Variable{Name: "x"}
	tests := []struct {
		in   string
		want Expr
	}{
		{in: "2x", want: Mul(Integer{Value: 2}, x)},
		{in: "-x^2", want: Neg(Pow(x, Integer{Value: 2}))},
		{in: "x(x+1)", want: Mul(x, Add(x, Integer{Value: 1}))},
		{in: "(x+1)(x-1)", want: Mul(Add(x, Integer{Value: 1}), Sub(x, Integer{Value: 1}))},
		{in: "3sqrt(2)", want: Mul(Integer{Value: 3}, Sqrt(Integer{Value: 2}))},
		{in: "sin30", want: Func{Fn: FnSin, Arg: Integer{Value: 30}}},
		{in: "root(3, x)", want: Root{Radicand: x, Index: 3}},
		{in: "|x-1|", want: Func{Fn: FnAbs, Arg: Sub(x, Integer{Value: 1})}},
		{in: "2pi", want: Mul(Integer{Value: 2}, Constant{Name: ConstPi})},
		{in: "x²", want: Pow(x, Integer{Value: 2})},
		{in: "1.5", want: Float{Value: 1.5}},
		{in: "50%", want: Percent{Inner: Integer{Value: 50}}},
		{in: "99999999999999999999", want: Float{Value: 1e20}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if !Equal(got, tt.want) {
			t.Fatalf("Parse(%q)=%s want=%s", tt.in, repr.String(got), repr.String(tt.want))
		}
	}
}

func TestParseErrors(t *testing.T) {
	for _, in := range []string{
		"",
		"(2+3",
		"2+3)",
		"2+",
		"2 $ 3",
		"root(1, 5)",
		"root(x, 5)",
		"|x",
		"sin()",
		"3 ^",
		"x=2",
		"1.2.3",
		"2..5",
		"3.x.",
	} {
		if _, err := Parse(in); !errors.Is(err, ErrParse) {
			t.Fatalf("Parse(%q) err=%v, want ErrParse", in, err)
		}
	}
}

func TestPercent(t *testing.T) {
	ex := MustParse("50%")
	if got := ex.Evaluate().String(); got != "0.5" {
		t.Fatalf("50%% evaluates to %q want=%q", got, "0.5")
	}
	v, ok := Float64(MustParse("200*15%"))
	if !ok || v != 30 {
		t.Fatalf("200*15%%=%v ok=%v", v, ok)
	}
}
