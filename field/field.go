// Package field provides typed column handles. A handle knows its column and
// only produces parameterized clause expressions for values of its Go type.
package field

import "github.com/arllen133/userstore/clause"

// col is embedded by every handle.
type col struct {
	column clause.Column
}

// Column returns the underlying column.
func (c col) Column() clause.Column { return c.column }

// ColumnName implements clause.Columnar.
func (c col) ColumnName() string { return c.column.ColumnName() }

func (c col) named(name string) col {
	c.column.Name = name
	return c
}

func (c col) qualified(table string) col {
	c.column.Table = table
	return c
}

func (c col) IsNull() clause.Expression    { return clause.IsNull{Column: c.column} }
func (c col) IsNotNull() clause.Expression { return clause.IsNotNull{Column: c.column} }

// Asc orders by the column ascending.
func (c col) Asc() clause.OrderByColumn { return clause.OrderByColumn{Column: c.column} }

// Desc orders by the column descending.
func (c col) Desc() clause.OrderByColumn { return clause.OrderByColumn{Column: c.column, Desc: true} }

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
