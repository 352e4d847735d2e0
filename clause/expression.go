// Package clause holds the structured, parameterized building blocks for
// WHERE, SET and ORDER BY clauses.
//
// Every expression renders to SQL text with `?` placeholders plus a slice of
// bound arguments. Caller-supplied values only ever travel as arguments;
// column identifiers are checked before they are written into SQL text. There
// is intentionally no raw-SQL expression type.
package clause

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrInvalidColumn is returned by Build when a column identifier is not a
// plain SQL identifier.
var ErrInvalidColumn = errors.New("clause: invalid column identifier")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Columnar is implemented by anything that names a column.
type Columnar interface {
	ColumnName() string
}

// Column is a column reference with an optional table qualifier.
type Column struct {
	Table string
	Name  string
}

func (c Column) Column() Column { return c }

// ColumnName returns the qualified name, e.g. "users.email".
func (c Column) ColumnName() string {
	if c.Table != "" {
		return c.Table + "." + c.Name
	}
	return c.Name
}

// Validate reports whether the table and column names are safe identifiers.
func (c Column) Validate() error {
	if !identRe.MatchString(c.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, c.Name)
	}
	if c.Table != "" && !identRe.MatchString(c.Table) {
		return fmt.Errorf("%w: %q", ErrInvalidColumn, c.Table)
	}
	return nil
}

var _ Columnar = Column{}

// Expression is the base interface for all SQL expressions.
type Expression interface {
	Build() (sql string, args []any, err error)
}

// binary renders "<column> <op> ?".
func binary(c Column, op string, v any) (string, []any, error) {
	if err := c.Validate(); err != nil {
		return "", nil, err
	}
	return c.ColumnName() + " " + op + " ?", []any{v}, nil
}

// Eq is column = value.
type Eq struct {
	Column Column
	Value  any
}

func (e Eq) Build() (string, []any, error) { return binary(e.Column, "=", e.Value) }

// Neq is column <> value.
type Neq struct {
	Column Column
	Value  any
}

func (n Neq) Build() (string, []any, error) { return binary(n.Column, "<>", n.Value) }

// Gt is column > value.
type Gt struct {
	Column Column
	Value  any
}

func (g Gt) Build() (string, []any, error) { return binary(g.Column, ">", g.Value) }

// Gte is column >= value.
type Gte struct {
	Column Column
	Value  any
}

func (g Gte) Build() (string, []any, error) { return binary(g.Column, ">=", g.Value) }

// Lt is column < value.
type Lt struct {
	Column Column
	Value  any
}

func (l Lt) Build() (string, []any, error) { return binary(l.Column, "<", l.Value) }

// Lte is column <= value.
type Lte struct {
	Column Column
	Value  any
}

func (l Lte) Build() (string, []any, error) { return binary(l.Column, "<=", l.Value) }

// Like is column LIKE pattern.
type Like struct {
	Column Column
	Value  string
}

func (l Like) Build() (string, []any, error) { return binary(l.Column, "LIKE", l.Value) }

// NotLike is column NOT LIKE pattern.
type NotLike struct {
	Column Column
	Value  string
}

func (n NotLike) Build() (string, []any, error) { return binary(n.Column, "NOT LIKE", n.Value) }

// IsNull is column IS NULL.
type IsNull struct {
	Column Column
}

func (i IsNull) Build() (string, []any, error) {
	if err := i.Column.Validate(); err != nil {
		return "", nil, err
	}
	return i.Column.ColumnName() + " IS NULL", nil, nil
}

// IsNotNull is column IS NOT NULL.
type IsNotNull struct {
	Column Column
}

func (i IsNotNull) Build() (string, []any, error) {
	if err := i.Column.Validate(); err != nil {
		return "", nil, err
	}
	return i.Column.ColumnName() + " IS NOT NULL", nil, nil
}

// IN is column IN (values...). An empty list matches nothing.
type IN struct {
	Column Column
	Values []any
}

func (i IN) Build() (string, []any, error) {
	if err := i.Column.Validate(); err != nil {
		return "", nil, err
	}
	switch len(i.Values) {
	case 0:
		return "1 = 0", nil, nil
	case 1:
		return i.Column.ColumnName() + " = ?", []any{i.Values[0]}, nil
	}
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(i.Values)), ", ")
	return fmt.Sprintf("%s IN (%s)", i.Column.ColumnName(), marks), i.Values, nil
}

// Between is column BETWEEN min AND max.
type Between struct {
	Column Column
	Min    any
	Max    any
}

func (b Between) Build() (string, []any, error) {
	if err := b.Column.Validate(); err != nil {
		return "", nil, err
	}
	return b.Column.ColumnName() + " BETWEEN ? AND ?", []any{b.Min, b.Max}, nil
}

// And joins expressions with AND. An empty And is always true.
type And []Expression

func (a And) Build() (string, []any, error) { return join(a, " AND ", "1 = 1") }

// Or joins expressions with OR. An empty Or is always false.
type Or []Expression

func (o Or) Build() (string, []any, error) { return join(o, " OR ", "1 = 0") }

func join(exprs []Expression, sep, empty string) (string, []any, error) {
	if len(exprs) == 0 {
		return empty, nil, nil
	}
	parts := make([]string, 0, len(exprs))
	var args []any
	for _, expr := range exprs {
		if expr == nil {
			return "", nil, errors.New("clause: nil expression")
		}
		sql, exprArgs, err := expr.Build()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, "("+sql+")")
		args = append(args, exprArgs...)
	}
	return strings.Join(parts, sep), args, nil
}

// Not negates an expression.
type Not struct {
	Expr Expression
}

func (n Not) Build() (string, []any, error) {
	if n.Expr == nil {
		return "", nil, errors.New("clause: nil expression")
	}
	sql, args, err := n.Expr.Build()
	if err != nil {
		return "", nil, err
	}
	return "NOT (" + sql + ")", args, nil
}

// Assignment is a SET column = value pair for UPDATE statements.
type Assignment struct {
	Column Column
	Value  any
}

func (a Assignment) Build() (string, []any, error) { return binary(a.Column, "=", a.Value) }

// OrderByColumn is a single ORDER BY term.
type OrderByColumn struct {
	Column Column
	Desc   bool
}

func (o OrderByColumn) Build() (string, []any, error) {
	if err := o.Column.Validate(); err != nil {
		return "", nil, err
	}
	sql := o.Column.ColumnName()
	if o.Desc {
		sql += " DESC"
	}
	return sql, nil, nil
}
