// Package expr implements the expression tree used by the solver: a closed set of
// value types with exact rational and radical simplification, numeric evaluation,
// substitution, LaTeX rendering and a recursive-descent parser.
//
// Trees are immutable. Simplify, Evaluate and Substitute always return new trees,
// so expressions may be shared freely between goroutines.
package expr
