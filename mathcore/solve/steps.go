package solve

import (
	"strings"

	"github.com/samber/lo"
)

// CalculationStep is one displayed stage of a worked solution. Formula is a LaTeX
// fragment delimited by "$$".
type CalculationStep struct {
	StepNumber  int    `json:"step_number"`
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	Formula     string `json:"formula"`
}

// CalculationResult is the outcome of one Solve call.
type CalculationResult struct {
	Steps       []CalculationStep `json:"steps"`
	FinalAnswer string            `json:"final_answer"`
}

// Titles returns the step titles in order.
func (r CalculationResult) Titles() []string {
	return lo.Map(r.Steps, func(s CalculationStep, _ int) string { return s.Title })
}

// HasStep reports whether a step with the given title exists.
func (r CalculationResult) HasStep(title string) bool {
	return lo.Contains(r.Titles(), title)
}

// Step titles shown by the UI.
const (
	TitleOriginal         = "原方程"
	TitleExpand           = "展开括号"
	TitleRearrange        = "整理方程"
	TitleCoefficients     = "确定系数"
	TitleMoveTerms        = "移项"
	TitleCombine          = "合并同类项"
	TitleNormalize        = "系数化为1"
	TitleResult           = "求解结果"
	TitleFactor           = "因式分解"
	TitleSolveFactors     = "求解"
	TitleCompleteSquare   = "配方"
	TitleSquareRoot       = "开平方"
	TitleDiscriminant     = "计算判别式"
	TitleQuadraticFormula = "求根公式"
	TitleSystem           = "原方程组"
	TitleSystemStandard   = "整理方程组"
	TitleEliminate        = "消元"
	TitleBackSubstitute   = "回代求解"
	TitleExpression       = "原式"
	TitleSpecialAngle     = "特殊角"
	TitleAngleConversion  = "角度转换"
	TitleSimplify         = "化简"
	TitleCalculate        = "计算结果"
)

type stepBuilder struct {
	steps []CalculationStep
}

// add appends a step; formula is wrapped in $$ delimiters.
func (b *stepBuilder) add(title, explanation, formula string) {
	b.steps = append(b.steps, CalculationStep{
		StepNumber:  len(b.steps) + 1,
		Title:       title,
		Explanation: explanation,
		Formula:     display(formula),
	})
}

func (b *stepBuilder) result(answer string) CalculationResult {
	return CalculationResult{Steps: b.steps, FinalAnswer: display(answer)}
}

func display(latex string) string {
	if latex == "" {
		return ""
	}
	return "$$" + latex + "$$"
}

// joinQuad separates LaTeX items with a \quad gap.
func joinQuad(items ...string) string {
	return strings.Join(items, `, \quad `)
}

func latexText(s string) string { return `\text{` + s + `}` }
