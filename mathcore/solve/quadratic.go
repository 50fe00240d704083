package solve

import (
	"fmt"
	"math"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
	"mathstep/mathcore/poly"
)

// factorSearchLimit bounds |c| for the cross-multiplication search.
const factorSearchLimit = 1_000_000_000_000

func (s *Solver) solveQuadratic(eq equation) (CalculationResult, error) {
	v := eq.variable
	p := eq.left.Sub(eq.right)

	var b stepBuilder
	b.add(TitleOriginal, "写出原方程", sidesLaTeX(eq.lhs, eq.rhs))
	if eq.expanded {
		b.add(TitleExpand, "去括号，把乘积展开", sidesLaTeX(poly.ToExpr(s.rounded(eq.left), v), poly.ToExpr(s.rounded(eq.right), v)))
	}

	explain := fmt.Sprintf("移项，把方程化为一般形式 a%s^2+b%s+c=0", v, v)
	if p.Coeff(2).Sign() < 0 {
		p = p.Neg()
		explain += "，两边同时乘以 -1 使二次项系数为正"
	}
	if q, factor, ok := primitive(p); ok && !factor.IsOne() {
		p = q
		if r, _ := factor.Rat(); r.IsInt() {
			explain += fmt.Sprintf("，两边同时除以 %s", s.num(factor))
		} else {
			explain += fmt.Sprintf("，两边同时乘以 %s 化为整数系数", exact.RatNumber(mustInv(r)).LaTeX())
		}
	}
	b.add(TitleRearrange, explain, poly.LaTeX(s.rounded(p), v)+" = 0")

	a, bb, c := p.Coeff(2), p.Coeff(1), p.Coeff(0)
	b.add(TitleCoefficients, "写出二次项系数、一次项系数和常数项",
		joinQuad("a = "+s.num(a), "b = "+s.num(bb), "c = "+s.num(c)))

	if ai, bi, ci, ok := intCoeffs(p); ok {
		if f, ok := factorQuadratic(ai, bi, ci); ok {
			return s.byFactoring(&b, v, f), nil
		}
		if ai == 1 && bi%2 == 0 {
			if res, ok := s.byCompletingSquare(&b, v, bi, ci); ok {
				return res, nil
			}
		}
		if res, ok := s.byExactFormula(&b, v, ai, bi, ci); ok {
			return res, nil
		}
	}
	return s.byNumericFormula(&b, v, a.Float64(), bb.Float64(), c.Float64()), nil
}

func mustInv(r exact.Rat) exact.Rat {
	inv, err := exact.RatInt(1).Div(r)
	if err != nil {
		return r
	}
	return inv
}

// primitive scales an exact polynomial to coprime integer coefficients and
// returns the factor that was divided out.
func primitive(p poly.Poly) (poly.Poly, exact.Number, bool) {
	if !p.IsExact() || p.IsZero() {
		return p, exact.Int(1), false
	}
	den := int64(1)
	for k := 0; k <= p.Degree(); k++ {
		r, _ := p.Coeff(k).Rat()
		l, err := exact.Lcm(den, r.Den())
		if err != nil {
			return p, exact.Int(1), false
		}
		den = l
	}
	g := int64(0)
	for k := 0; k <= p.Degree(); k++ {
		r, _ := p.Coeff(k).Rat()
		n, err := r.Mul(exact.RatInt(den))
		if err != nil {
			return p, exact.Int(1), false
		}
		if g == 0 {
			g = n.Num()
		} else {
			g = exact.Gcd(g, n.Num())
		}
	}
	factor, err := exact.NewRat(absInt(g), den)
	if err != nil {
		return p, exact.Int(1), false
	}
	inv, err := exact.RatInt(1).Div(factor)
	if err != nil {
		return p, exact.Int(1), false
	}
	return p.Scale(exact.RatNumber(inv)), exact.RatNumber(factor), true
}

func intCoeffs(p poly.Poly) (a, b, c int64, ok bool) {
	var out [3]int64
	for k := range out {
		r, isRat := p.Coeff(k).Rat()
		if !isRat || !r.IsInt() {
			return 0, 0, 0, false
		}
		out[k] = r.Num()
	}
	return out[2], out[1], out[0], true
}

// factorization is (a1·x + m)(a2·x + n).
type factorization struct {
	a1, m, a2, n int64
}

func (f factorization) roots() (exact.Rat, exact.Rat) {
	r1 := exact.MustRat(-f.m, f.a1)
	r2 := exact.MustRat(-f.n, f.a2)
	if r1.Cmp(r2) > 0 {
		r1, r2 = r2, r1
	}
	return r1, r2
}

// factorQuadratic searches a1·a2 = a, m·n = c with a1·n + a2·m = b. a must be positive.
func factorQuadratic(a, b, c int64) (factorization, bool) {
	if a <= 0 {
		return factorization{}, false
	}
	if c == 0 {
		// x(ax + b)
		return factorization{a1: 1, m: 0, a2: a, n: b}, true
	}
	if absInt(c) > factorSearchLimit || a > 1_000_000 {
		return factorization{}, false
	}
	divs := divisors(absInt(c))
	for _, a1 := range divisors(a) {
		a2 := a / a1
		for _, d := range divs {
			for _, m := range []int64{d, -d} {
				n := c / m
				if a1*n+a2*m == b {
					return factorization{a1: a1, m: m, a2: a2, n: n}, true
				}
			}
		}
	}
	return factorization{}, false
}

func divisors(n int64) []int64 {
	var small, large []int64
	for d := int64(1); d*d <= n; d++ {
		if n%d != 0 {
			continue
		}
		small = append(small, d)
		if d*d != n {
			large = append(large, n/d)
		}
	}
	for i := len(large) - 1; i >= 0; i-- {
		small = append(small, large[i])
	}
	return small
}

func absInt(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

// linearLaTeX renders a·x + m.
func linearLaTeX(a, m int64, v string) string {
	return poly.LaTeX(poly.New(exact.Int(m), exact.Int(a)), v)
}

func factorLaTeX(a, m int64, v string) string {
	if m == 0 && a == 1 {
		return v
	}
	return "(" + linearLaTeX(a, m, v) + ")"
}

func (s *Solver) byFactoring(b *stepBuilder, v string, f factorization) CalculationResult {
	first := factorLaTeX(f.a1, f.m, v)
	second := factorLaTeX(f.a2, f.n, v)
	same := f.a1 == f.a2 && f.m == f.n
	product := first + second
	if same {
		product = first + "^{2}"
	}
	b.add(TitleFactor, "用十字相乘法分解因式：找到 a_1a_2 = a，mn = c，且 a_1n + a_2m = b", product+" = 0")

	if same {
		b.add(TitleSolveFactors, "因式等于 0", linearLaTeX(f.a1, f.m, v)+" = 0")
	} else {
		b.add(TitleSolveFactors, "两个因式中至少有一个等于 0",
			linearLaTeX(f.a1, f.m, v)+` = 0 \quad `+latexText("或")+` \quad `+linearLaTeX(f.a2, f.n, v)+" = 0")
	}

	r1, r2 := f.roots()
	var answer string
	if r1.Cmp(r2) == 0 {
		answer = fmt.Sprintf("%s_1 = %s_2 = %s", v, v, r1.LaTeX())
	} else {
		answer = joinQuad(fmt.Sprintf("%s_1 = %s", v, r1.LaTeX()), fmt.Sprintf("%s_2 = %s", v, r2.LaTeX()))
	}
	b.add(TitleResult, "得到方程的解", answer)
	return b.result(answer)
}

// byCompletingSquare handles x² + bx + c = 0 with even b, where the square is integral.
func (s *Solver) byCompletingSquare(b *stepBuilder, v string, bi, ci int64) (CalculationResult, bool) {
	h := bi / 2
	hh, err := exact.RatInt(h).Mul(exact.RatInt(h))
	if err != nil {
		return CalculationResult{}, false
	}
	k, err := hh.Sub(exact.RatInt(ci))
	if err != nil {
		return CalculationResult{}, false
	}

	lhs := poly.LaTeX(poly.New(exact.Int(0), exact.Int(bi), exact.Int(1)), v)
	b.add(TitleCompleteSquare, "把常数项移到方程右边", lhs+" = "+exact.Int(-ci).LaTeX())
	if h != 0 {
		b.add(TitleCompleteSquare, fmt.Sprintf("两边同时加上一次项系数一半的平方 %s", s.paren(exact.Int(h))+"^{2}"),
			fmt.Sprintf("%s + %s = %s", lhs, hh.LaTeX(), k.LaTeX()))
		square := "(" + linearLaTeX(1, h, v) + ")^{2}"
		b.add(TitleCompleteSquare, "左边写成完全平方", square+" = "+k.LaTeX())
	}

	center := exact.RatInt(-h)
	if k.Sign() < 0 {
		part := sqrtPart(-k.Num(), exact.RatInt(1))
		b.add(TitleSquareRoot, "右边为负数，方程没有实数根，开平方得到虚数根",
			fmt.Sprintf(`%s = \pm %si`, linearLaTeX(1, h, v), imagCoef(part)))
		answer := s.complexAnswer(v, center, part)
		b.add(TitleResult, "得到方程的一对共轭复数根", answer)
		return b.result(answer), true
	}
	part := sqrtPart(k.Num(), exact.RatInt(1))
	b.add(TitleSquareRoot, "两边开平方", fmt.Sprintf(`%s = \pm %s`, linearLaTeX(1, h, v), part.LaTeX()))
	answer := s.realAnswer(v, center, part)
	b.add(TitleResult, "得到方程的解", answer)
	return b.result(answer), true
}

// sqrtPart returns scale·√n simplified.
func sqrtPart(n int64, scale exact.Rat) expr.Expr {
	return expr.Mul(expr.FromRat(scale), expr.Sqrt(expr.Integer{Value: n})).Simplify()
}

func (s *Solver) byExactFormula(b *stepBuilder, v string, ai, bi, ci int64) (CalculationResult, bool) {
	bb, err := exact.RatInt(bi).Mul(exact.RatInt(bi))
	if err != nil {
		return CalculationResult{}, false
	}
	ac4, err := exact.RatInt(4).Mul(exact.RatInt(ai))
	if err != nil {
		return CalculationResult{}, false
	}
	if ac4, err = ac4.Mul(exact.RatInt(ci)); err != nil {
		return CalculationResult{}, false
	}
	disc, err := bb.Sub(ac4)
	if err != nil {
		return CalculationResult{}, false
	}
	twoA, err := exact.RatInt(2).Mul(exact.RatInt(ai))
	if err != nil {
		return CalculationResult{}, false
	}
	center, err := exact.RatInt(-bi).Div(twoA)
	if err != nil {
		return CalculationResult{}, false
	}
	inv, _ := exact.RatInt(1).Div(twoA)

	formula := fmt.Sprintf(`\Delta = b^{2} - 4ac = %s^{2} - 4 \cdot %s \cdot %s = %s`,
		s.paren(exact.Int(bi)), s.paren(exact.Int(ai)), s.paren(exact.Int(ci)), disc.LaTeX())
	switch disc.Sign() {
	case 1:
		b.add(TitleDiscriminant, `\Delta > 0，方程有两个不相等的实数根`, formula)
	case 0:
		b.add(TitleDiscriminant, `\Delta = 0，方程有两个相等的实数根`, formula)
	default:
		b.add(TitleDiscriminant, `\Delta < 0，方程没有实数根，有一对共轭复数根`, formula)
	}

	if disc.IsZero() {
		b.add(TitleQuadraticFormula, "代入求根公式",
			fmt.Sprintf(`%s = -\frac{b}{2a} = %s`, v, center.LaTeX()))
		answer := fmt.Sprintf("%s_1 = %s_2 = %s", v, v, center.LaTeX())
		b.add(TitleResult, "得到方程的解", answer)
		return b.result(answer), true
	}

	absDisc := disc.Abs().Num()
	root := sqrtPart(absDisc, exact.RatInt(1)).LaTeX()
	if disc.Sign() < 0 {
		root = imagCoef(sqrtPart(absDisc, exact.RatInt(1))) + "i"
	}
	b.add(TitleQuadraticFormula, "代入求根公式",
		fmt.Sprintf(`%s = \frac{-b \pm \sqrt{\Delta}}{2a} = \frac{%s \pm %s}{%s}`, v, exact.Int(-bi).LaTeX(), root, twoA.LaTeX()))

	part := sqrtPart(absDisc, inv)
	var answer string
	if disc.Sign() < 0 {
		answer = s.complexAnswer(v, center, part)
		b.add(TitleResult, "得到方程的一对共轭复数根", answer)
	} else {
		answer = s.realAnswer(v, center, part)
		b.add(TitleResult, "得到方程的解", answer)
	}
	return b.result(answer), true
}

// realAnswer renders x₁ = center + part, x₂ = center − part.
func (s *Solver) realAnswer(v string, center exact.Rat, part expr.Expr) string {
	pv, _ := expr.Float64(part)
	x1 := conjugate(center, part, 1)
	x2 := conjugate(center, part, -1)
	if _, isRat := expr.NumberOf(part); isRat {
		r1, _ := expr.NumberOf(expr.Add(expr.FromRat(center), part).Simplify())
		r2, _ := expr.NumberOf(expr.Sub(expr.FromRat(center), part).Simplify())
		if r1.Float64() > r2.Float64() {
			r1, r2 = r2, r1
		}
		return joinQuad(fmt.Sprintf("%s_1 = %s", v, r1.LaTeX()), fmt.Sprintf("%s_2 = %s", v, r2.LaTeX()))
	}
	c := center.Float64()
	return joinQuad(
		fmt.Sprintf(`%s_1 = %s \approx %s`, v, x1, s.decimal(c+pv)),
		fmt.Sprintf(`%s_2 = %s \approx %s`, v, x2, s.decimal(c-pv)),
	)
}

// conjugate renders center ± part.
func conjugate(center exact.Rat, part expr.Expr, sign int) string {
	if center.IsZero() {
		if sign < 0 {
			return expr.Neg(part).Simplify().LaTeX()
		}
		return part.LaTeX()
	}
	op := " + "
	if sign < 0 {
		op = " - "
	}
	return center.LaTeX() + op + part.LaTeX()
}

// imagCoef renders the coefficient of i, dropping a unit factor.
func imagCoef(part expr.Expr) string {
	if n, ok := expr.NumberOf(part); ok && n.IsOne() {
		return ""
	}
	return part.LaTeX()
}

func (s *Solver) complexAnswer(v string, center exact.Rat, part expr.Expr) string {
	im := imagCoef(part) + "i"
	if center.IsZero() {
		return joinQuad(fmt.Sprintf("%s_1 = %s", v, im), fmt.Sprintf("%s_2 = -%s", v, im))
	}
	c := center.LaTeX()
	return joinQuad(fmt.Sprintf("%s_1 = %s + %s", v, c, im), fmt.Sprintf("%s_2 = %s - %s", v, c, im))
}

// byNumericFormula solves with float coefficients.
func (s *Solver) byNumericFormula(b *stepBuilder, v string, a, bb, c float64) CalculationResult {
	disc := bb*bb - 4*a*c
	if math.Abs(disc) < 1e-12*math.Max(1, bb*bb) {
		disc = 0
	}
	formula := fmt.Sprintf(`\Delta = b^{2} - 4ac = %s`, s.decimal(disc))
	switch {
	case disc > 0:
		b.add(TitleDiscriminant, `\Delta > 0，方程有两个不相等的实数根`, formula)
	case disc == 0:
		b.add(TitleDiscriminant, `\Delta = 0，方程有两个相等的实数根`, formula)
	default:
		b.add(TitleDiscriminant, `\Delta < 0，方程没有实数根，有一对共轭复数根`, formula)
	}

	center := -bb / (2 * a)
	var answer string
	switch {
	case disc == 0:
		answer = fmt.Sprintf("%s_1 = %s_2 %s", v, v, s.approx(center))
	case disc > 0:
		d := math.Sqrt(disc) / (2 * a)
		answer = joinQuad(
			fmt.Sprintf("%s_1 %s", v, s.approx(center+d)),
			fmt.Sprintf("%s_2 %s", v, s.approx(center-d)),
		)
	default:
		d := math.Sqrt(-disc) / (2 * math.Abs(a))
		re, im := s.decimal(center), s.decimal(d)
		answer = joinQuad(
			fmt.Sprintf(`%s_1 \approx %s + %si`, v, re, im),
			fmt.Sprintf(`%s_2 \approx %s - %si`, v, re, im),
		)
	}
	b.add(TitleQuadraticFormula, `代入求根公式 \frac{-b \pm \sqrt{\Delta}}{2a}`, answer)
	b.add(TitleResult, "得到方程的近似解", answer)
	return b.result(answer)
}
