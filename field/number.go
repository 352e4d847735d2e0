package field

import (
	"golang.org/x/exp/constraints"

	"github.com/arllen133/userstore/clause"
)

// Number is an integer or floating point column.
type Number[T constraints.Integer | constraints.Float] struct {
	col
}

var _ clause.Columnar = Number[int]{}

// WithColumn returns a copy bound to the named column.
func (n Number[T]) WithColumn(name string) Number[T] { return Number[T]{n.named(name)} }

// WithTable returns a copy qualified by table.
func (n Number[T]) WithTable(name string) Number[T] { return Number[T]{n.qualified(name)} }

func (n Number[T]) Eq(value T) clause.Expression  { return clause.Eq{Column: n.column, Value: value} }
func (n Number[T]) Neq(value T) clause.Expression { return clause.Neq{Column: n.column, Value: value} }
func (n Number[T]) Gt(value T) clause.Expression  { return clause.Gt{Column: n.column, Value: value} }
func (n Number[T]) Gte(value T) clause.Expression { return clause.Gte{Column: n.column, Value: value} }
func (n Number[T]) Lt(value T) clause.Expression  { return clause.Lt{Column: n.column, Value: value} }
func (n Number[T]) Lte(value T) clause.Expression { return clause.Lte{Column: n.column, Value: value} }

// Between is inclusive on both ends.
func (n Number[T]) Between(lo, hi T) clause.Expression {
	return clause.Between{Column: n.column, Min: lo, Max: hi}
}

func (n Number[T]) In(values ...T) clause.Expression {
	return clause.IN{Column: n.column, Values: toAny(values)}
}

func (n Number[T]) NotIn(values ...T) clause.Expression {
	return clause.Not{Expr: clause.IN{Column: n.column, Values: toAny(values)}}
}

// Set builds the UPDATE assignment column = value.
func (n Number[T]) Set(value T) clause.Assignment {
	return clause.Assignment{Column: n.column, Value: value}
}

// Cmp builds a predicate from an operator chosen at runtime.
func (n Number[T]) Cmp(op clause.Operator, value T) clause.Predicate {
	return clause.Predicate{Column: n.column, Op: op, Value: value}
}
