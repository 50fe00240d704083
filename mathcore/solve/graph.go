package solve

import (
	"math"
	"strings"

	"github.com/samber/lo"

	"mathstep/mathcore/expr"
	"mathstep/mathcore/poly"
)

var graphPrefixes = []string{"y=", "f(x)="}

func stripGraphPrefix(text string) (string, bool) {
	for _, p := range graphPrefixes {
		if rest, ok := strings.CutPrefix(text, p); ok {
			return rest, true
		}
	}
	return text, false
}

// IsGraphableExpression reports whether input is a function of x that can be
// plotted: "y=…", "f(x)=…" or a bare expression in x with no other '='.
func IsGraphableExpression(input string) bool {
	text, _ := stripGraphPrefix(Normalize(input))
	if text == "" || strings.Contains(text, "=") || strings.Contains(text, ";") {
		return false
	}
	e, err := expr.Parse(text)
	if err != nil {
		return false
	}
	vars := expr.Variables(e)
	if len(vars) != 1 || vars[0] != "x" {
		return false
	}
	// Reject expressions undefined around the origin, such as sqrt(-1-x^2).
	return lo.ContainsBy([]int64{-1, 0, 1}, func(x int64) bool {
		v, ok := expr.Float64(e.Substitute("x", expr.Integer{Value: x}))
		return ok && !math.IsNaN(v) && !math.IsInf(v, 0)
	})
}

// PrepareFunctionForGraphing strips the "y=" or "f(x)=" prefix and multiplies out
// brackets when the result is a polynomial, e.g. "y=(x-1)(x+3)" → "x^2+2x-3".
func PrepareFunctionForGraphing(input string) string {
	text, _ := stripGraphPrefix(Normalize(input))
	if strings.Contains(text, "(") {
		if out, err := poly.Expand(text, "x"); err == nil {
			return out
		}
	}
	return text
}
