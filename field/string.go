package field

import "github.com/arllen133/userstore/clause"

// String is a text column.
type String struct {
	col
}

var _ clause.Columnar = String{}

// WithColumn returns a copy bound to the named column.
func (s String) WithColumn(name string) String { return String{s.named(name)} }

// WithTable returns a copy qualified by table.
func (s String) WithTable(name string) String { return String{s.qualified(name)} }

func (s String) Eq(value string) clause.Expression {
	return clause.Eq{Column: s.column, Value: value}
}

func (s String) Neq(value string) clause.Expression {
	return clause.Neq{Column: s.column, Value: value}
}

// Like matches a LIKE pattern; % and _ are the caller's responsibility.
func (s String) Like(pattern string) clause.Expression {
	return clause.Like{Column: s.column, Value: pattern}
}

func (s String) NotLike(pattern string) clause.Expression {
	return clause.NotLike{Column: s.column, Value: pattern}
}

func (s String) In(values ...string) clause.Expression {
	return clause.IN{Column: s.column, Values: toAny(values)}
}

func (s String) NotIn(values ...string) clause.Expression {
	return clause.Not{Expr: clause.IN{Column: s.column, Values: toAny(values)}}
}

// Set builds the UPDATE assignment column = value.
func (s String) Set(value string) clause.Assignment {
	return clause.Assignment{Column: s.column, Value: value}
}

// Cmp builds a predicate from an operator chosen at runtime.
func (s String) Cmp(op clause.Operator, value string) clause.Predicate {
	return clause.Predicate{Column: s.column, Op: op, Value: value}
}
