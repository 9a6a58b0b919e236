// Package exprfilter implements collex.Expr against a govaluate boolean
// expression string, letting filter criteria be authored as text
// ("status == \"open\" && priority > 2") instead of composed in Go.
package exprfilter

import (
	"fmt"

	"github.com/Knetic/govaluate"

	"github.com/wayneeseguin/collex"
)

// Expr compiles expression once and, for each item, resolves its named
// variables via fields before evaluating. The expression must evaluate to a
// boolean; a non-boolean result is treated as false.
type Expr[T any] struct {
	compiled *govaluate.EvaluableExpression
	fields   func(item T) map[string]interface{}
}

// New compiles expression and pairs it with fields, the per-item variable
// resolver. An error is returned if expression fails to parse.
func New[T any](expression string, fields func(item T) map[string]interface{}) (*Expr[T], error) {
	compiled, err := govaluate.NewEvaluableExpression(expression)
	if err != nil {
		return nil, fmt.Errorf("exprfilter: parsing expression %q: %s", expression, err)
	}
	return &Expr[T]{compiled: compiled, fields: fields}, nil
}

// Vars returns the expression's referenced variable names, for validating
// that fields will supply every one of them.
func (e *Expr[T]) Vars() []string { return e.compiled.Vars() }

// Eval implements collex.Expr[T]: it evaluates the compiled expression
// against item's fields, treating a parse/type error or a non-boolean
// result as false rather than panicking.
func (e *Expr[T]) Eval(item T) bool {
	result, err := e.compiled.Evaluate(e.fields(item))
	if err != nil {
		return false
	}
	b, ok := result.(bool)
	return ok && b
}

var _ collex.Expr[struct{}] = (*Expr[struct{}])(nil)
