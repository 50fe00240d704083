package poly

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/alecthomas/repr"

	"mathstep/mathcore/expr"
)

func TestParseCoefficients(t *testing.T) {
	tests := []struct {
		in   string
		want map[int]float64
	}{
		{in: "3x^2-5x+2", want: map[int]float64{2: 3, 1: -5, 0: 2}},
		{in: "-x", want: map[int]float64{1: -1}},
		{in: "x^2+x^2-4", want: map[int]float64{2: 2, 0: -4}},
		{in: "sqrt(4)x", want: map[int]float64{1: 2}},
		{in: "0.5x+7", want: map[int]float64{1: 0.5, 0: 7}},
		{in: "x/4", want: map[int]float64{1: 0.25}},
		{in: "12", want: map[int]float64{0: 12}},
		{in: "x-x", want: map[int]float64{}},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in, "x")
		if err != nil {
			t.Fatalf("Parse(%q) error: %v", tt.in, err)
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("Parse(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}

	got, err := Parse("sqrt(2)x", "x")
	if err != nil || math.Abs(got[1]-math.Sqrt2) > 1e-12 {
		t.Fatalf("Parse(sqrt(2)x)=%v err=%v", got, err)
	}
}

func TestParseRejectsNonPolynomials(t *testing.T) {
	for _, in := range []string{"", "2y+1", "sin(x)", "1/x", "x^x", "x^-1", "x^0.5", "(2+"} {
		if _, err := Parse(in, "x"); !errors.Is(err, ErrPolynomialFormat) {
			t.Fatalf("Parse(%q) err=%v, want ErrPolynomialFormat", in, err)
		}
	}
	if _, err := Parse("(2+", "x"); !errors.Is(err, expr.ErrParse) {
		t.Fatalf("parse failures should keep ErrParse in the chain, got %v", err)
	}
	if _, err := Parse("x^100", "x"); !errors.Is(err, ErrExpansionTooComplex) {
		t.Fatalf("x^100 err=%v", err)
	}
}

func TestFromExprStaysExact(t *testing.T) {
	p, err := FromExpr(expr.MustParse("(x+1/2)^2"), "x")
	if err != nil {
		t.Fatalf("FromExpr error: %v", err)
	}
	if !p.IsExact() || p.Degree() != 2 {
		t.Fatalf("p=%s exact=%v", repr.String(p.Float64s()), p.IsExact())
	}
	if got := p.Coeff(0).String(); got != "1/4" {
		t.Fatalf("constant=%s want=1/4", got)
	}
	if got := Format(p, "x"); got != "x^2+x+1/4" {
		t.Fatalf("Format=%q", got)
	}
	if got := p.Eval(2); got != 6.25 {
		t.Fatalf("p(2)=%v want=6.25", got)
	}
}

func TestFromEquation(t *testing.T) {
	p, err := FromEquation("2x+3=7", "x")
	if err != nil {
		t.Fatalf("FromEquation error: %v", err)
	}
	if got := Format(p, "x"); got != "2x-4" {
		t.Fatalf("Format=%q want=2x-4", got)
	}
	for _, in := range []string{"2x+3", "x=1=2", "=3", "x="} {
		if _, err := FromEquation(in, "x"); !errors.Is(err, ErrPolynomialFormat) {
			t.Fatalf("FromEquation(%q) err=%v", in, err)
		}
	}
}

func TestExpand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "(x-1)(x+3)", want: "x^2+2x-3"},
		{in: "(x+1)^2", want: "x^2+2x+1"},
		{in: "2(x+1)^2", want: "2x^2+4x+2"},
		{in: "(2x-3)(x+5)", want: "2x^2+7x-15"},
		{in: "-(x-2)(x+2)", want: "-x^2+4"},
		{in: "x/2+1/3", want: "(1/2)x+1/3"},
		{in: "(x+8)(x+1)=-12", want: "x^2+9x+20=0"},
		{in: "x(55-3x+2)=300", want: "-3x^2+57x-300=0"},
		{in: "(x + 1) (x - 1) = 0", want: "x^2-1=0"},
	}
	for _, tt := range tests {
		got, err := Expand(tt.in, "x")
		if err != nil {
			t.Fatalf("Expand(%q) error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("Expand(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestExpandIterationBound(t *testing.T) {
	in := "((x+1)(x+2)+1)(x+3)"
	if _, err := (Expander{MaxIterations: 1}).Expand(in, "x"); !errors.Is(err, ErrExpansionTooComplex) {
		t.Fatalf("err=%v, want ErrExpansionTooComplex", err)
	}
	got, err := (Expander{MaxIterations: 2}).Expand(in, "x")
	if err != nil || got != "x^3+6x^2+12x+9" {
		t.Fatalf("Expand=%q err=%v", got, err)
	}

	_, passes, err := Expander{}.ExpandExpr(expr.MustParse("2(x+1)^2"), "x")
	if err != nil || passes != 2 {
		t.Fatalf("passes=%d err=%v want 2", passes, err)
	}
}

func TestLaTeX(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "x^2-5x+6", want: "x^{2} - 5x + 6"},
		{in: "1-x^2", want: "-x^{2} + 1"},
		{in: "x/2", want: `\frac{1}{2}x`},
		{in: "0", want: "0"},
	}
	for _, tt := range tests {
		p, err := FromExpr(expr.MustParse(tt.in), "x")
		if err != nil {
			t.Fatalf("FromExpr(%q) error: %v", tt.in, err)
		}
		if got := LaTeX(p, "x"); got != tt.want {
			t.Fatalf("LaTeX(%q)=%q want=%q", tt.in, got, tt.want)
		}
	}
}

func TestFormatMap(t *testing.T) {
	if got := FormatMap(map[int]float64{2: 1, 0: -4}, "x"); got != "x^2-4" {
		t.Fatalf("FormatMap=%q", got)
	}
	if got := FormatMap(nil, "x"); got != "0" {
		t.Fatalf("FormatMap(nil)=%q", got)
	}
}
