package userstore

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/arllen133/userstore/clause"
)

// UserQuery builds a SELECT over the users table. Conditions added with
// Where are ANDed. The first build error sticks and is returned by the
// terminal method.
//
//	users, err := store.Query().
//	    Where(userstore.Users.Age.Gt(20)).
//	    OrderBy(userstore.Users.Name.Asc()).
//	    Limit(10).
//	    Find(ctx)
type UserQuery struct {
	session *Session
	builder sq.SelectBuilder
	err     error
}

// Query starts a new query.
func (s *Store) Query() *UserQuery {
	return &UserQuery{
		session: s.session,
		builder: sq.Select().
			From(Users.TableName()).
			PlaceholderFormat(s.session.dialect.PlaceholderFormat()),
	}
}

func (q *UserQuery) Where(exprs ...clause.Expression) *UserQuery {
	for _, expr := range exprs {
		if q.err != nil {
			return q
		}
		if expr == nil {
			q.err = errors.New("userstore: nil filter")
			return q
		}
		where, err := toSqlizer(expr)
		if err != nil {
			q.err = err
			return q
		}
		q.builder = q.builder.Where(where)
	}
	return q
}

func (q *UserQuery) OrderBy(orders ...clause.OrderByColumn) *UserQuery {
	for _, order := range orders {
		if q.err != nil {
			return q
		}
		term, _, err := order.Build()
		if err != nil {
			q.err = err
			return q
		}
		q.builder = q.builder.OrderBy(term)
	}
	return q
}

func (q *UserQuery) Limit(n uint64) *UserQuery {
	q.builder = q.builder.Limit(n)
	return q
}

func (q *UserQuery) Offset(n uint64) *UserQuery {
	q.builder = q.builder.Offset(n)
	return q
}

// ToSQL returns the SELECT statement and its arguments without running it.
func (q *UserQuery) ToSQL() (string, []any, error) {
	if q.err != nil {
		return "", nil, q.err
	}
	return q.builder.Columns(Users.SelectColumns()...).ToSql()
}

// Find runs the query and returns every matching user.
func (q *UserQuery) Find(ctx context.Context) ([]*User, error) {
	query, args, err := q.ToSQL()
	if err != nil {
		return nil, fmt.Errorf("userstore: failed to build sql: %w", err)
	}
	users := []*User{}
	if err := q.session.Select(ctx, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

// First returns the first matching user or ErrNotFound.
func (q *UserQuery) First(ctx context.Context) (*User, error) {
	users, err := q.Limit(1).Find(ctx)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, ErrNotFound
	}
	return users[0], nil
}

// Count returns the number of matching users, ignoring Limit and Offset.
func (q *UserQuery) Count(ctx context.Context) (int64, error) {
	if q.err != nil {
		return 0, fmt.Errorf("userstore: failed to build sql: %w", q.err)
	}
	query, args, err := q.builder.Columns("COUNT(*)").RemoveLimit().RemoveOffset().ToSql()
	if err != nil {
		return 0, fmt.Errorf("userstore: failed to build count sql: %w", err)
	}
	var n int64
	if err := q.session.Get(ctx, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
