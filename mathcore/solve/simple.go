package solve

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"mathstep/mathcore/exact"
	"mathstep/mathcore/expr"
)

var errUndefined = errors.New("undefined")

func half(n int64) expr.Expr { return expr.Fraction{Num: 1, Den: n} }

func radical(c expr.Expr, n int64) expr.Expr {
	return expr.Mul(c, expr.Sqrt(expr.Integer{Value: n}))
}

// sinTable holds sin(15°·k) for k = 0..6.
var sinTable = [7]expr.Expr{
	expr.Integer{},
	expr.Sub(radical(half(4), 6), radical(half(4), 2)),
	half(2),
	radical(half(2), 2),
	radical(half(2), 3),
	expr.Add(radical(half(4), 6), radical(half(4), 2)),
	expr.Integer{Value: 1},
}

// tanTable holds tan(15°·k) for k = 0..5; k = 6 is undefined.
var tanTable = [6]expr.Expr{
	expr.Integer{},
	expr.Sub(expr.Integer{Value: 2}, expr.Sqrt(expr.Integer{Value: 3})),
	radical(half(3), 3),
	expr.Integer{Value: 1},
	expr.Sqrt(expr.Integer{Value: 3}),
	expr.Add(expr.Integer{Value: 2}, expr.Sqrt(expr.Integer{Value: 3})),
}

// specialSin returns sin(15°·k) exactly.
func specialSin(k int) expr.Expr {
	k = ((k % 24) + 24) % 24
	switch {
	case k <= 6:
		return sinTable[k].Simplify()
	case k <= 12:
		return sinTable[12-k].Simplify()
	}
	return expr.Neg(specialSin(k - 12)).Simplify()
}

func specialTan(k int) (expr.Expr, error) {
	k = ((k % 12) + 12) % 12
	switch {
	case k == 6:
		return nil, errUndefined
	case k < 6:
		return tanTable[k].Simplify(), nil
	}
	return expr.Neg(tanTable[12-k]).Simplify(), nil
}

// specialValue evaluates fn at 15°·k.
func specialValue(fn expr.Fn, k int) (expr.Expr, error) {
	switch fn {
	case expr.FnSin:
		return specialSin(k), nil
	case expr.FnCos:
		return specialSin(k + 6), nil
	case expr.FnTan:
		return specialTan(k)
	}
	return nil, fmt.Errorf("%s is not a trigonometric function", fn)
}

// angleDegrees reads a trig argument as degrees. An argument mentioning π, or any
// argument in radian mode, is converted from radians.
func angleDegrees(arg expr.Expr, radians bool) (float64, bool) {
	v, ok := expr.Float64(arg)
	if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	if radians || expr.ContainsConstant(arg, expr.ConstPi) {
		v = v * 180 / math.Pi
	}
	return v, true
}

// specialMultiple reports k when deg is 15°·k up to rounding noise.
func specialMultiple(deg float64) (int, bool) {
	k := math.Round(deg / 15)
	if math.Abs(deg-15*k) > 1e-9 || math.Abs(k) > 1e9 {
		return 0, false
	}
	return int(k), true
}

func degreesLaTeX(deg float64) string {
	return strconv.FormatFloat(deg, 'f', -1, 64) + `^\circ`
}

func (s *Solver) solveExpression(text string) (CalculationResult, error) {
	radians := s.cfg.AngleUnit == Radians
	if strings.Contains(text, "rad") {
		radians = true
		text = strings.ReplaceAll(text, "rad", "")
	}
	e, err := expr.Parse(text)
	if err != nil {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrUnrecognizedFormat, err)
	}
	if vars := expr.Variables(e); len(vars) > 0 {
		return CalculationResult{}, fmt.Errorf("%w: expression contains unknown %s", ErrUnrecognizedFormat, strings.Join(vars, ", "))
	}

	var b stepBuilder
	b.add(TitleExpression, "写出原式", e.LaTeX())

	if f, ok := e.(expr.Func); ok && f.Fn.IsTrig() {
		if res, ok, err := s.specialAngle(&b, f, radians); ok || err != nil {
			return res, err
		}
	}

	prepared, conv, err := s.prepare(e, radians)
	if err != nil {
		return s.undefined(&b, e, err)
	}
	switch {
	case conv&toRadians != 0:
		b.add(TitleAngleConversion, "把角度换算成弧度，1° = π/180", prepared.LaTeX())
	case conv&toDegrees != 0:
		b.add(TitleAngleConversion, "把反三角函数的弧度结果换算成角度，1 rad = 180°/π", prepared.LaTeX())
	}
	// A lone inverse trig call answers with an angle in degrees.
	unit := ""
	if f, ok := e.(expr.Func); ok && f.Fn.IsInverseTrig() && conv&toDegrees != 0 {
		unit = `^\circ`
	}

	simplified := prepared.Simplify()
	if simplified != prepared && simplified != e {
		b.add(TitleSimplify, "化简", simplified.LaTeX())
	}

	v, ok := expr.Float64(simplified)
	switch {
	case !ok:
		return CalculationResult{}, fmt.Errorf("%w: cannot evaluate %s", ErrUnrecognizedFormat, expr.Compact(e))
	case math.IsInf(v, 0):
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrUnrecognizedFormat, exact.ErrDivisionByZero)
	case math.IsNaN(v):
		return s.undefined(&b, e, errUndefined)
	}

	if expr.IsExact(simplified) {
		answer := simplified.LaTeX() + unit
		if expr.HasRoot(simplified) {
			answer += ` \approx ` + s.decimal(v) + unit
		}
		b.add(TitleCalculate, "得到结果", e.LaTeX()+" = "+answer)
		return b.result(answer), nil
	}

	if root, ok := e.(expr.Root); ok && (root.Index == 0 || root.Index == 2) {
		if rv, ok := expr.Float64(root.Radicand); ok {
			if sym, ok := exact.SymbolicSquareRoot(rv); ok {
				answer := sym
				if strings.Contains(sym, `\sqrt`) {
					answer += ` \approx ` + s.decimal(v)
				}
				b.add(TitleCalculate, "化简根式", e.LaTeX()+" = "+answer)
				return b.result(answer), nil
			}
		}
	}

	d := s.decimal(v) + unit
	b.add(TitleCalculate, "计算数值", e.LaTeX()+" "+s.approx(v)+unit)
	return b.result(d), nil
}

// specialAngle answers sin, cos or tan of a multiple of 15° from the exact table.
func (s *Solver) specialAngle(b *stepBuilder, f expr.Func, radians bool) (CalculationResult, bool, error) {
	deg, ok := angleDegrees(f.Arg, radians)
	if !ok {
		return CalculationResult{}, false, nil
	}
	k, ok := specialMultiple(deg)
	if !ok {
		return CalculationResult{}, false, nil
	}
	deg = float64(15 * k)
	name := strings.TrimSuffix(f.LaTeX(), "("+f.Arg.LaTeX()+")")
	angle := fmt.Sprintf(`%s(%s)`, name, degreesLaTeX(deg))
	if radians || expr.ContainsConstant(f.Arg, expr.ConstPi) {
		b.add(TitleAngleConversion, "把弧度换算成角度", fmt.Sprintf(`%s = %s`, f.Arg.LaTeX(), degreesLaTeX(deg)))
	}
	val, err := specialValue(f.Fn, k)
	if errors.Is(err, errUndefined) {
		b.add(TitleSpecialAngle, "该角的正切不存在", angle+` \text{ 无意义}`)
		return b.result(latexText("无意义")), true, nil
	}
	if err != nil {
		return CalculationResult{}, true, fmt.Errorf("%w: %w", ErrUnrecognizedFormat, err)
	}
	answer := val.LaTeX()
	if expr.HasRoot(val) {
		v, _ := expr.Float64(val)
		answer += ` \approx ` + s.decimal(v)
	}
	b.add(TitleSpecialAngle, "利用特殊角的三角函数值", angle+" = "+answer)
	return b.result(answer), true, nil
}

type angleConversion uint8

const (
	toRadians angleConversion = 1 << iota
	toDegrees
)

// prepare rewrites percentages as fractions, replaces special-angle trig calls
// with their exact values, converts degree arguments to radians and inverse trig
// results to degrees. It reports which conversions it applied.
func (s *Solver) prepare(e expr.Expr, radians bool) (expr.Expr, angleConversion, error) {
	var conv angleConversion
	var failed error
	out := expr.Transform(e, func(n expr.Expr) expr.Expr {
		switch v := n.(type) {
		case expr.Percent:
			return expr.Div(v.Inner, expr.Integer{Value: 100})
		case expr.Func:
			switch {
			case v.Fn.IsTrig():
				if deg, ok := angleDegrees(v.Arg, radians); ok {
					if k, ok := specialMultiple(deg); ok {
						val, err := specialValue(v.Fn, k)
						if err != nil {
							failed = err
							return n
						}
						return val
					}
				}
				if radians || expr.ContainsConstant(v.Arg, expr.ConstPi) {
					return n
				}
				conv |= toRadians
				return expr.Func{Fn: v.Fn, Arg: expr.Mul(v.Arg, expr.Div(expr.Constant{Name: expr.ConstPi}, expr.Integer{Value: 180}))}
			case !radians && v.Fn.IsInverseTrig():
				conv |= toDegrees
				return expr.Mul(n, expr.Div(expr.Integer{Value: 180}, expr.Constant{Name: expr.ConstPi}))
			}
		}
		return n
	})
	return out, conv, failed
}

func (s *Solver) undefined(b *stepBuilder, e expr.Expr, err error) (CalculationResult, error) {
	if !errors.Is(err, errUndefined) {
		return CalculationResult{}, fmt.Errorf("%w: %w", ErrUnrecognizedFormat, err)
	}
	b.add(TitleCalculate, "表达式在该点没有定义", e.LaTeX()+` \text{ 无意义}`)
	return b.result(latexText("无意义")), nil
}
