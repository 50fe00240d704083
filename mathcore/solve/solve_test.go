package solve

import (
	"errors"
	"strings"
	"testing"

	"github.com/alecthomas/repr"

	"mathstep/mathcore/exact"
)

func mustSolve(t *testing.T, input string) CalculationResult {
	t.Helper()
	res, err := Solve(input)
	if err != nil {
		t.Fatalf("Solve(%q): %v", input, err)
	}
	if len(res.Steps) == 0 {
		t.Fatalf("Solve(%q): no steps", input)
	}
	for i, st := range res.Steps {
		if st.StepNumber != i+1 {
			t.Fatalf("Solve(%q): step %d numbered %d", input, i, st.StepNumber)
		}
		if !strings.HasPrefix(st.Formula, "$$") || !strings.HasSuffix(st.Formula, "$$") {
			t.Fatalf("Solve(%q): step %q formula not delimited: %q", input, st.Title, st.Formula)
		}
	}
	return res
}

func wantAnswer(t *testing.T, res CalculationResult, parts ...string) {
	t.Helper()
	for _, p := range parts {
		if !strings.Contains(res.FinalAnswer, p) {
			t.Fatalf("answer=%q missing %q\n%s", res.FinalAnswer, p, repr.String(res.Titles()))
		}
	}
}

func stepFormula(t *testing.T, res CalculationResult, title string) string {
	t.Helper()
	for _, st := range res.Steps {
		if st.Title == title {
			return st.Formula
		}
	}
	t.Fatalf("no %q step in %v", title, res.Titles())
	return ""
}

func TestLinear(t *testing.T) {
	res := mustSolve(t, "2x+3=7")
	wantAnswer(t, res, "x = 2")
	for _, title := range []string{TitleOriginal, TitleMoveTerms, TitleCombine, TitleNormalize, TitleResult} {
		if !res.HasStep(title) {
			t.Fatalf("missing step %q in %v", title, res.Titles())
		}
	}

	res = mustSolve(t, "3x = 1")
	wantAnswer(t, res, `x = \frac{1}{3}`, `\approx 0.3333`)

	res = mustSolve(t, "0.5x + 1 = 2")
	wantAnswer(t, res, "x = 2")
}

func TestMoveTermsFormula(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2x-4=0", "$$2x = 4$$"},
		{"x-5=0", "$$x = 5$$"},
		{"x^2+x=x^2+2", "$$x = 2$$"},
		{"2x+3=7", "$$2x = 7 - 3$$"},
		{"2x=3x-4", "$$2x - 3x = -4$$"},
		{"5=x+1", "$$-x = 1 - 5$$"},
	}
	for _, tt := range tests {
		res := mustSolve(t, tt.in)
		if got := stepFormula(t, res, TitleMoveTerms); got != tt.want {
			t.Fatalf("%s: move-terms formula=%q want=%q", tt.in, got, tt.want)
		}
		for _, st := range res.Steps {
			if strings.Contains(st.Formula, "--") {
				t.Fatalf("%s: step %q has a double minus: %q", tt.in, st.Title, st.Formula)
			}
		}
	}
}

func TestLinearDegenerate(t *testing.T) {
	res := mustSolve(t, "x+1=x+2")
	wantAnswer(t, res, "方程无解")

	res = mustSolve(t, "2x+2=2(x+1)")
	wantAnswer(t, res, "方程有无穷多解")
	if !res.HasStep(TitleExpand) {
		t.Fatalf("expected %q step, got %v", TitleExpand, res.Titles())
	}
}

func TestQuadraticFactoring(t *testing.T) {
	res := mustSolve(t, "x^2-5x+6=0")
	wantAnswer(t, res, "x_1 = 2", "x_2 = 3")
	if !res.HasStep(TitleFactor) {
		t.Fatalf("expected factoring, got %v", res.Titles())
	}

	res = mustSolve(t, "x^2-4x+4=0")
	wantAnswer(t, res, "x_1 = x_2 = 2")

	res = mustSolve(t, "2x^2-x-1=0")
	wantAnswer(t, res, `x_1 = -\frac{1}{2}`, "x_2 = 1")

	res = mustSolve(t, "x^2=3x")
	wantAnswer(t, res, "x_1 = 0", "x_2 = 3")
}

func TestQuadraticExpandsBrackets(t *testing.T) {
	res := mustSolve(t, "(x+8)(x+1)=-12")
	if !res.HasStep(TitleRearrange) || !res.HasStep(TitleExpand) {
		t.Fatalf("titles=%v", res.Titles())
	}
	wantAnswer(t, res, "-5", "-4")
}

func TestQuadraticIrrational(t *testing.T) {
	res := mustSolve(t, "x^2-2x-1=0")
	wantAnswer(t, res, `1 + \sqrt{2}`, "2.414")
	if !res.HasStep(TitleCompleteSquare) {
		t.Fatalf("expected completing the square, got %v", res.Titles())
	}

	res = mustSolve(t, "x^2+3x+1=0")
	if !res.HasStep(TitleDiscriminant) || !res.HasStep(TitleQuadraticFormula) {
		t.Fatalf("titles=%v", res.Titles())
	}
	wantAnswer(t, res, `\sqrt{5}`, `\approx`)
}

func TestCompletingSquareWithoutLinearTerm(t *testing.T) {
	res := mustSolve(t, "x^2-2=0")
	wantAnswer(t, res, `x_1 = \sqrt{2}`, `x_2 = -\sqrt{2}`)
	squares := 0
	for _, st := range res.Steps {
		if st.Title == TitleCompleteSquare {
			squares++
		}
		if strings.Contains(st.Formula, "+ 0") || strings.Contains(st.Formula, "(x)") {
			t.Fatalf("step %q formula=%q", st.Title, st.Formula)
		}
	}
	if squares != 1 {
		t.Fatalf("got %d completing-the-square steps, titles=%v", squares, res.Titles())
	}
	if got := stepFormula(t, res, TitleSquareRoot); got != `$$x = \pm \sqrt{2}$$` {
		t.Fatalf("square root formula=%q", got)
	}
}

func TestRearrangeUsesDecimalPlaces(t *testing.T) {
	res := mustSolve(t, "sqrt(2)x^2-2=0")
	got := stepFormula(t, res, TitleRearrange)
	if !strings.Contains(got, "1.4142x^{2}") || strings.Contains(got, "1.41421") {
		t.Fatalf("rearrange formula=%q", got)
	}
	if coeffs := stepFormula(t, res, TitleCoefficients); !strings.Contains(coeffs, "a = 1.4142") {
		t.Fatalf("coefficients formula=%q", coeffs)
	}
}

func TestQuadraticComplex(t *testing.T) {
	res := mustSolve(t, "x(55-3x+2)=300")
	wantAnswer(t, res, "i")
	if !res.HasStep(TitleDiscriminant) {
		t.Fatalf("titles=%v", res.Titles())
	}

	res = mustSolve(t, "x^2+1=0")
	wantAnswer(t, res, "x_1 = i", "x_2 = -i")
}

func TestQuadraticDecimalCoefficients(t *testing.T) {
	res := mustSolve(t, "0.5x^2 - 2 = 0")
	wantAnswer(t, res, "x_1 = -2", "x_2 = 2")
}

func TestSystem(t *testing.T) {
	res := mustSolve(t, "2x+3y=7; x-y=1")
	wantAnswer(t, res, `\begin{cases}`, "x = 2", "y = 1")
	for _, title := range []string{TitleSystem, TitleSystemStandard, TitleEliminate, TitleBackSubstitute, TitleResult} {
		if !res.HasStep(title) {
			t.Fatalf("missing step %q in %v", title, res.Titles())
		}
	}

	res = mustSolve(t, "0.5x + y = 2; x = y - 2")
	wantAnswer(t, res, `x = 0`, `y = 2`)
}

func TestSystemDegenerate(t *testing.T) {
	res := mustSolve(t, "x+y=1;2x+2y=2")
	wantAnswer(t, res, "无穷多解")

	res = mustSolve(t, "x+y=1;x+y=2")
	wantAnswer(t, res, "无解")
}

func TestSystemErrors(t *testing.T) {
	for _, in := range []string{"x+y=1;y+z=2", "x+y=1;x-y=2;x=1", "x*y=1;x=2", "x+=1;y=2", "x=1;"} {
		if _, err := Solve(in); !errors.Is(err, ErrSolve) {
			t.Fatalf("Solve(%q) err=%v want ErrSolve", in, err)
		}
	}
}

func TestSpecialAngles(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"sin(30)", `\frac{1}{2}`},
		{"cos(60)", `\frac{1}{2}`},
		{"sin(45)", `\frac{\sqrt{2}}{2}`},
		{"cos(30)", `\frac{\sqrt{3}}{2}`},
		{"tan(45)", "1"},
		{"tan(60)", `\sqrt{3}`},
		{"sin(-30)", `-\frac{1}{2}`},
		{"cos(180)", "-1"},
		{"sin(pi/6)", `\frac{1}{2}`},
		{"tan(90)", "无意义"},
	}
	for _, tt := range tests {
		res := mustSolve(t, tt.in)
		if !res.HasStep(TitleSpecialAngle) {
			t.Fatalf("%s: titles=%v", tt.in, res.Titles())
		}
		wantAnswer(t, res, tt.want)
	}
}

func TestExpressions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1+2*3", "7"},
		{"2^10", "1024"},
		{"1/3+1/6", `\frac{1}{2}`},
		{"sqrt(8)", `2\sqrt{2}`},
		{"50%", `\frac{1}{2}`},
		{"2sin(30)+1", "2"},
		{"sin(10)", "0.1736"},
		{"pi", "3.1416"},
	}
	for _, tt := range tests {
		res := mustSolve(t, tt.in)
		if res.Steps[0].Title != TitleExpression {
			t.Fatalf("%s: first step %q", tt.in, res.Steps[0].Title)
		}
		wantAnswer(t, res, tt.want)
	}
}

func TestSquareRootOfZero(t *testing.T) {
	for _, in := range []string{"sqrt(0)", "root(3, 0)"} {
		res := mustSolve(t, in)
		if res.FinalAnswer != "$$0$$" {
			t.Fatalf("%s: answer=%q", in, res.FinalAnswer)
		}
	}
}

func TestInverseTrigInDegrees(t *testing.T) {
	res := mustSolve(t, "asin(0.5)")
	wantAnswer(t, res, `30^\circ`)
	var conv CalculationStep
	for _, st := range res.Steps {
		if st.Title == TitleAngleConversion {
			conv = st
		}
	}
	if !strings.Contains(conv.Explanation, "换算成角度") || strings.Contains(conv.Explanation, "换算成弧度") {
		t.Fatalf("conversion step=%+v", conv)
	}

	res = mustSolve(t, "sin(10)")
	if strings.Contains(res.FinalAnswer, `\circ`) {
		t.Fatalf("sin answer=%q carries a degree mark", res.FinalAnswer)
	}

	s := New(Config{AngleUnit: Radians})
	res, err := s.Solve("asin(1)")
	if err != nil {
		t.Fatal(err)
	}
	wantAnswer(t, res, "1.5708")
	if strings.Contains(res.FinalAnswer, `\circ`) || res.HasStep(TitleAngleConversion) {
		t.Fatalf("radian mode answer=%q titles=%v", res.FinalAnswer, res.Titles())
	}
}

func TestRadianMode(t *testing.T) {
	s := New(Config{AngleUnit: Radians})
	res, err := s.Solve("sin(1)")
	if err != nil {
		t.Fatal(err)
	}
	wantAnswer(t, res, "0.8415")

	res, err = Solve("sin(1rad)")
	if err != nil {
		t.Fatal(err)
	}
	wantAnswer(t, res, "0.8415")
}

func TestDecimalPlaces(t *testing.T) {
	s := New(Config{DecimalPlaces: 2})
	res, err := s.Solve("x^2-2x-1=0")
	if err != nil {
		t.Fatal(err)
	}
	wantAnswer(t, res, "2.41")
	if strings.Contains(res.FinalAnswer, "2.414") {
		t.Fatalf("answer=%q has too many decimals", res.FinalAnswer)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		in   string
		want error
	}{
		{"", ErrUnrecognizedFormat},
		{"   ", ErrUnrecognizedFormat},
		{"x+1", ErrUnrecognizedFormat},
		{"2+*3", ErrUnrecognizedFormat},
		{"1/0", exact.ErrDivisionByZero},
		{"1/0", ErrUnrecognizedFormat},
		{"x^3=8", ErrSolve},
		{"x+y=2", ErrSolve},
		{"3=3", ErrSolve},
		{"x=1=2", ErrSolve},
	}
	for _, tt := range tests {
		_, err := Solve(tt.in)
		if !errors.Is(err, tt.want) {
			t.Fatalf("Solve(%q) err=%v want %v", tt.in, err, tt.want)
		}
	}
}

func TestGraphable(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"y=x^2", true},
		{"f(x)=sin(x)", true},
		{"x^2+1", true},
		{"y=1/x", true},
		{"x^2=4", false},
		{"y=t^2", false},
		{"y=3", false},
		{"y=sqrt(-1-x^2)", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsGraphableExpression(tt.in); got != tt.want {
			t.Fatalf("IsGraphableExpression(%q)=%v want=%v", tt.in, got, tt.want)
		}
	}
}

func TestPrepareFunctionForGraphing(t *testing.T) {
	tests := map[string]string{
		"y=(x-1)(x+3)": "x^2+2x-3",
		"f(x)=x(x+1)":  "x^2+x",
		"y=sin(x)":     "sin(x)",
		"y = x^2":      "x^2",
	}
	for in, want := range tests {
		if got := PrepareFunctionForGraphing(in); got != want {
			t.Fatalf("PrepareFunctionForGraphing(%q)=%q want=%q", in, got, want)
		}
	}
}

func TestParseAngleUnit(t *testing.T) {
	for in, want := range map[string]AngleUnit{"": Degrees, "deg": Degrees, "RAD": Radians, "radians": Radians} {
		got, err := ParseAngleUnit(in)
		if err != nil || got != want {
			t.Fatalf("ParseAngleUnit(%q)=%v,%v", in, got, err)
		}
	}
	if _, err := ParseAngleUnit("grad"); err == nil {
		t.Fatal("expected error")
	}
}
