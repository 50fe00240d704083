package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"mathstep/mathcore/solve"
)

type jsonResult struct {
	Input  string                   `json:"input"`
	Result *solve.CalculationResult `json:"result,omitempty"`
	Error  string                   `json:"error,omitempty"`
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

func (a *app) printResult(input string, res solve.CalculationResult) error {
	if a.format == "json" {
		return a.printJSON(jsonResult{Input: input, Result: &res})
	}
	_, err := fmt.Fprint(a.out, formatText(input, res))
	return err
}

func formatText(input string, res solve.CalculationResult) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n", input)
	for _, st := range res.Steps {
		fmt.Fprintf(&sb, "%2d. %s: %s\n    %s\n", st.StepNumber, st.Title, st.Explanation, st.Formula)
	}
	fmt.Fprintf(&sb, "=> %s\n", res.FinalAnswer)
	return sb.String()
}
