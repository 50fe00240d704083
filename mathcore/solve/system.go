package solve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
)

// linearEquation is one line of a system, e.g. "2x+3y=7" or "x=1-y".
type linearEquation struct {
	Left  *linearSide `@@`
	Right *linearSide `"=" @@`
}

type linearSide struct {
	Head *linearTerm   `@@`
	Tail []*signedTerm `@@*`
}

type linearTerm struct {
	Sign  string     `@("+" | "-")?`
	Value *termValue `@@`
}

type signedTerm struct {
	Sign  string     `@("+" | "-")`
	Value *termValue `@@`
}

type termValue struct {
	Num *string `( @Number`
	Den *string `  ( "/" @Number )? "*"?`
	Var *string `  @Ident?`
	// A bare variable such as "x" or "-y".
	Bare *string `| @Ident )`
}

var systemLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Number", Pattern: `\d+(?:\.\d+)?|\.\d+`},
	{Name: "Ident", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[-+*/=]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var systemParser = participle.MustBuild[linearEquation](
	participle.Lexer(systemLexer),
	participle.Elide("Whitespace"),
)

// parseLinearEquation reads one line of a system with the participle grammar.
func parseLinearEquation(text string) (*linearEquation, error) {
	eq, err := systemParser.ParseString("", text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSolve, err)
	}
	return eq, nil
}

// linearRow is Σ coeffs[v]·v = rhs.
type linearRow struct {
	coeffs map[string]exact.Rat
	rhs    exact.Rat
}

func (s *Solver) termRat(v *termValue) (exact.Rat, string, error) {
	if v.Bare != nil {
		return exact.RatInt(1), *v.Bare, nil
	}
	num, err := s.parseRat(*v.Num)
	if err != nil {
		return exact.Rat{}, "", err
	}
	if v.Den != nil {
		den, err := s.parseRat(*v.Den)
		if err != nil {
			return exact.Rat{}, "", err
		}
		if num, err = num.Div(den); err != nil {
			return exact.Rat{}, "", err
		}
	}
	name := ""
	if v.Var != nil {
		name = *v.Var
	}
	return num, name, nil
}

func (s *Solver) parseRat(txt string) (exact.Rat, error) {
	if n, err := strconv.ParseInt(txt, 10, 64); err == nil {
		return exact.RatInt(n), nil
	}
	f, err := strconv.ParseFloat(txt, 64)
	if err != nil {
		return exact.Rat{}, err
	}
	return exact.RationalFromFloat(f, s.cfg.MaxPrecision)
}

// row moves variable terms left and constants right.
func (s *Solver) row(eq *linearEquation) (linearRow, error) {
	r := linearRow{coeffs: map[string]exact.Rat{}, rhs: exact.RatInt(0)}
	add := func(sign string, v *termValue, side int) error {
		c, name, err := s.termRat(v)
		if err != nil {
			return err
		}
		if (sign == "-") != (side < 0) {
			c = c.Neg()
		}
		if name == "" {
			// constants move to the right-hand side
			r.rhs, err = r.rhs.Sub(c)
			return err
		}
		prev, ok := r.coeffs[name]
		if !ok {
			prev = exact.RatInt(0)
		}
		r.coeffs[name], err = prev.Add(c)
		return err
	}
	sides := []struct {
		side *linearSide
		sign int
	}{{eq.Left, 1}, {eq.Right, -1}}
	for _, sd := range sides {
		if err := add(sd.side.Head.Sign, sd.side.Head.Value, sd.sign); err != nil {
			return linearRow{}, err
		}
		for _, t := range sd.side.Tail {
			if err := add(t.Sign, t.Value, sd.sign); err != nil {
				return linearRow{}, err
			}
		}
	}
	return r, nil
}

func (s *Solver) solveSystem(text string) (CalculationResult, error) {
	lines := lo.Filter(strings.Split(text, ";"), func(l string, _ int) bool { return l != "" })
	if len(lines) != 2 {
		return CalculationResult{}, fmt.Errorf("%w: a system needs exactly two equations, got %d", ErrSolve, len(lines))
	}

	rows := make([]linearRow, len(lines))
	originals := make([]string, len(lines))
	for i, line := range lines {
		eq, err := parseLinearEquation(line)
		if err != nil {
			return CalculationResult{}, err
		}
		if rows[i], err = s.row(eq); err != nil {
			return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
		}
		originals[i] = equationLaTeX(line)
	}

	vars := lo.Uniq(append(maps.Keys(rows[0].coeffs), maps.Keys(rows[1].coeffs)...))
	slices.Sort(vars)
	if len(vars) != 2 {
		return CalculationResult{}, fmt.Errorf("%w: a system needs exactly two unknowns, got %d", ErrSolve, len(vars))
	}
	x, y := vars[0], vars[1]
	a1, b1, c1 := rows[0].get(x), rows[0].get(y), rows[0].rhs
	a2, b2, c2 := rows[1].get(x), rows[1].get(y), rows[1].rhs

	var b stepBuilder
	b.add(TitleSystem, "写出原方程组", cases(originals...))
	b.add(TitleSystemStandard, "把每个方程整理成 ax+by=c 的形式",
		cases(standardRow(a1, b1, c1, x, y), standardRow(a2, b2, c2, x, y)))

	det, err := cross(a1, b2, a2, b1)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	numX, err := cross(c1, b2, c2, b1)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	numY, err := cross(a1, c2, a2, c1)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}

	eliminated := "0"
	if !det.IsZero() {
		eliminated = term(exact.RatNumber(det), x).LaTeX()
	}
	b.add(TitleEliminate,
		fmt.Sprintf("第一个方程乘以 %s，第二个方程乘以 %s，两式相减消去 %s", paren(b2), paren(b1), y),
		eliminated+" = "+numX.LaTeX())

	if det.IsZero() {
		if numX.IsZero() && numY.IsZero() {
			b.add(TitleResult, "两个方程等价", "0 = 0")
			return b.result(latexText("方程组有无穷多解")), nil
		}
		b.add(TitleResult, "两个方程矛盾", "0 = "+numX.LaTeX())
		return b.result(latexText("方程组无解")), nil
	}

	xv, err := numX.Div(det)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	yv, err := numY.Div(det)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrSolve, err)
	}
	b.add(TitleNormalize, fmt.Sprintf("两边同时除以 %s", det.LaTeX()), x+" = "+xv.LaTeX())

	// Substitute back into whichever equation actually contains y.
	by, cy, ay := b1, c1, a1
	if by.IsZero() {
		by, cy, ay = b2, c2, a2
	}
	b.add(TitleBackSubstitute, fmt.Sprintf("把 %s = %s 代入方程，求出 %s", x, xv.LaTeX(), y),
		fmt.Sprintf(`%s \cdot %s = %s - %s \cdot %s \Rightarrow %s = %s`,
			by.LaTeX(), y, cy.LaTeX(), paren(ay), paren(xv), y, yv.LaTeX()))

	answer := cases(x+" = "+xv.LaTeX(), y+" = "+yv.LaTeX())
	b.add(TitleResult, "得到方程组的解", answer)
	return b.result(answer), nil
}

func (r linearRow) get(name string) exact.Rat {
	if c, ok := r.coeffs[name]; ok {
		return c
	}
	return exact.RatInt(0)
}

// cross returns a·b − c·d.
func cross(a, b, c, d exact.Rat) (exact.Rat, error) {
	ab, err := a.Mul(b)
	if err != nil {
		return exact.Rat{}, err
	}
	cd, err := c.Mul(d)
	if err != nil {
		return exact.Rat{}, err
	}
	return ab.Sub(cd)
}

func paren(r exact.Rat) string {
	if r.Sign() < 0 {
		return `\left(` + r.LaTeX() + `\right)`
	}
	return r.LaTeX()
}

func cases(rows ...string) string {
	return `\begin{cases} ` + strings.Join(rows, ` \\ `) + ` \end{cases}`
}

func standardRow(a, b, c exact.Rat, x, y string) string {
	var left expr.Expr
	switch {
	case a.IsZero() && b.IsZero():
		left = expr.Integer{}
	case a.IsZero():
		left = term(exact.RatNumber(b), y)
	case b.IsZero():
		left = term(exact.RatNumber(a), x)
	case b.Sign() < 0:
		left = expr.Sub(term(exact.RatNumber(a), x), term(exact.RatNumber(b.Neg()), y))
	default:
		left = expr.Add(term(exact.RatNumber(a), x), term(exact.RatNumber(b), y))
	}
	return left.LaTeX() + " = " + c.LaTeX()
}

// equationLaTeX renders one line of the input, falling back to the raw text.
func equationLaTeX(line string) string {
	l, r, ok := strings.Cut(line, "=")
	if !ok {
		return line
	}
	le, err := expr.Parse(l)
	if err != nil {
		return line
	}
	re, err := expr.Parse(r)
	if err != nil {
		return line
	}
	return sidesLaTeX(le, re)
}
