package clause

import (
	"fmt"
	"strings"
)

// Operator is a comparison operator usable in a Predicate.
type Operator string

const (
	OpEq   Operator = "="
	OpNeq  Operator = "<>"
	OpGt   Operator = ">"
	OpGte  Operator = ">="
	OpLt   Operator = "<"
	OpLte  Operator = "<="
	OpLike Operator = "LIKE"
)

// ParseOperator accepts the spellings a person would type at a prompt.
func ParseOperator(s string) (Operator, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "=", "==", "eq":
		return OpEq, nil
	case "!=", "<>", "ne", "neq":
		return OpNeq, nil
	case ">", "gt":
		return OpGt, nil
	case ">=", "gte":
		return OpGte, nil
	case "<", "lt":
		return OpLt, nil
	case "<=", "lte":
		return OpLte, nil
	case "like":
		return OpLike, nil
	}
	return "", fmt.Errorf("clause: unknown operator %q", s)
}

// Predicate is a field/operator/value triple. It compiles to the matching
// comparison expression, so the value is always bound as an argument.
type Predicate struct {
	Column Column
	Op     Operator
	Value  any
}

// Expr returns the comparison expression for p.
func (p Predicate) Expr() (Expression, error) {
	switch p.Op {
	case OpEq:
		return Eq{Column: p.Column, Value: p.Value}, nil
	case OpNeq:
		return Neq{Column: p.Column, Value: p.Value}, nil
	case OpGt:
		return Gt{Column: p.Column, Value: p.Value}, nil
	case OpGte:
		return Gte{Column: p.Column, Value: p.Value}, nil
	case OpLt:
		return Lt{Column: p.Column, Value: p.Value}, nil
	case OpLte:
		return Lte{Column: p.Column, Value: p.Value}, nil
	case OpLike:
		s, ok := p.Value.(string)
		if !ok {
			return nil, fmt.Errorf("clause: LIKE needs a string value, got %T", p.Value)
		}
		return Like{Column: p.Column, Value: s}, nil
	}
	return nil, fmt.Errorf("clause: unknown operator %q", p.Op)
}

func (p Predicate) Build() (string, []any, error) {
	expr, err := p.Expr()
	if err != nil {
		return "", nil, err
	}
	return expr.Build()
}
