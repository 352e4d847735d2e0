// Package userstore is a small data-access layer over a single SQLite users
// table.
//
// Every write runs in its own scoped transaction: it either commits as a
// whole or is rolled back before the error is returned. Reads take structured
// clause expressions, never raw SQL fragments.
//
// Usage example:
//
//	store, err := userstore.Open(ctx, "data.db", userstore.SQLite)
//	if err != nil {
//	    return err
//	}
//	defer store.Close()
//
//	if err := store.EnsureSchema(ctx); err != nil {
//	    return err
//	}
//	u := userstore.NewUser("Alice", 30, "alice@x.com")
//	if err := store.Insert(ctx, u); errors.Is(err, userstore.ErrConstraint) {
//	    // duplicate email
//	}
//	adults, err := store.FetchAll(ctx, userstore.Users.Age.Gte(18))
package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/arllen133/userstore/clause"
)

// Store exposes the users operations over one connection.
type Store struct {
	session *Session
	path    string
}

// Open opens, creating it if needed, the database file at path. The handle is
// limited to one connection so that ":memory:" databases behave like files.
func Open(ctx context.Context, path string, dialect Dialect, opts ...SessionOption) (*Store, error) {
	if path == "" {
		return nil, &Error{Op: "open", Kind: ErrConnection, Err: errors.New("empty database path")}
	}
	if dialect == nil {
		dialect = SQLite
	}
	db, err := sql.Open(dialect.DriverName(), path)
	if err != nil {
		return nil, &Error{Op: "open", Kind: ErrConnection, Err: err}
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, &Error{Op: "open", Kind: ErrConnection, Err: fmt.Errorf("%s: %w", path, err)}
	}
	return &Store{session: NewSession(db, dialect, opts...), path: path}, nil
}

// NewStore wraps an existing session.
func NewStore(session *Session) *Store {
	return &Store{session: session}
}

// Path returns the location the store was opened with.
func (s *Store) Path() string { return s.path }

// Session returns the underlying session.
func (s *Store) Session() *Session { return s.session }

// Close releases the connection. It is safe to call more than once.
func (s *Store) Close() error {
	return s.session.Close()
}

// EnsureSchema creates the users table when absent and checks that an
// existing table has the expected columns.
func (s *Store) EnsureSchema(ctx context.Context) error {
	err := s.session.Transaction(ctx, func(tx *Session) error {
		if _, err := tx.Exec(ctx, usersDDL); err != nil {
			return err
		}
		var info []tableInfo
		if err := tx.Select(ctx, &info, "PRAGMA table_info("+Users.TableName()+")"); err != nil {
			return err
		}
		return Users.checkColumns(info)
	})
	return opError("ensure schema", ErrSchema, err)
}

// Insert adds one user and sets u.ID to the identifier assigned by the
// engine. A duplicate email or an empty name fails with ErrConstraint.
func (s *Store) Insert(ctx context.Context, u *User) error {
	if u == nil {
		return errNilUser("insert")
	}
	var id int64
	err := s.session.Transaction(ctx, func(tx *Session) error {
		var err error
		id, err = insertRow(ctx, tx, u)
		return err
	})
	if err != nil {
		return opError("insert", nil, err)
	}
	u.ID = id
	return nil
}

// InsertMany adds all users or none of them. An empty slice is a no-op that
// reports zero rows. On success each user's ID is set, in input order.
func (s *Store) InsertMany(ctx context.Context, users []*User) (int, error) {
	if len(users) == 0 {
		return 0, nil
	}
	for _, u := range users {
		if u == nil {
			return 0, errNilUser("insert many")
		}
	}
	ids := make([]int64, len(users))
	err := s.session.Transaction(ctx, func(tx *Session) error {
		for i, u := range users {
			id, err := insertRow(ctx, tx, u)
			if err != nil {
				return fmt.Errorf("row %d (%s): %w", i+1, u.Email, err)
			}
			ids[i] = id
		}
		return nil
	})
	if err != nil {
		return 0, opError("insert many", nil, err)
	}
	for i, u := range users {
		u.ID = ids[i]
	}
	return len(users), nil
}

func insertRow(ctx context.Context, tx *Session, u *User) (int64, error) {
	cols, vals := Users.InsertRow(u)
	query, args, err := sq.Insert(Users.TableName()).
		Columns(cols...).
		Values(vals...).
		PlaceholderFormat(tx.dialect.PlaceholderFormat()).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := tx.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// FetchAll returns the users matching every filter, ordered by id. With no
// filters it returns all users.
func (s *Store) FetchAll(ctx context.Context, filters ...clause.Expression) ([]*User, error) {
	users, err := s.Query().Where(filters...).OrderBy(Users.ID.Asc()).Find(ctx)
	if err != nil {
		return nil, opError("fetch all", nil, err)
	}
	return users, nil
}

// FetchByID returns the user with the given id, or ErrNotFound.
func (s *Store) FetchByID(ctx context.Context, id int64) (*User, error) {
	u, err := s.Query().Where(Users.ID.Eq(id)).First(ctx)
	if err != nil {
		return nil, opError("fetch by id", nil, err)
	}
	return u, nil
}

// Count returns how many users match every filter.
func (s *Store) Count(ctx context.Context, filters ...clause.Expression) (int64, error) {
	n, err := s.Query().Where(filters...).Count(ctx)
	if err != nil {
		return 0, opError("count", nil, err)
	}
	return n, nil
}

// UpdateEmail sets the email of one user. An unknown id is a no-op; an email
// already used by another user fails with ErrConstraint.
func (s *Store) UpdateEmail(ctx context.Context, id int64, email string) error {
	err := s.session.Transaction(ctx, func(tx *Session) error {
		where, err := toSqlizer(Users.ID.Eq(id))
		if err != nil {
			return err
		}
		set := Users.Email.Set(email)
		query, args, err := sq.Update(Users.TableName()).
			Set(set.Column.ColumnName(), set.Value).
			Where(where).
			PlaceholderFormat(tx.dialect.PlaceholderFormat()).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, query, args...)
		return err
	})
	return opError("update email", nil, err)
}

// Delete removes one user. An unknown id is a no-op.
func (s *Store) Delete(ctx context.Context, id int64) error {
	err := s.session.Transaction(ctx, func(tx *Session) error {
		where, err := toSqlizer(Users.ID.Eq(id))
		if err != nil {
			return err
		}
		query, args, err := sq.Delete(Users.TableName()).
			Where(where).
			PlaceholderFormat(tx.dialect.PlaceholderFormat()).
			ToSql()
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, query, args...)
		return err
	})
	return opError("delete", nil, err)
}

// toSqlizer renders a clause expression for squirrel. Combinators are
// parenthesized since squirrel joins WHERE parts with a bare AND.
func toSqlizer(expr clause.Expression) (sq.Sqlizer, error) {
	text, args, err := expr.Build()
	if err != nil {
		return nil, err
	}
	switch expr.(type) {
	case clause.And, clause.Or:
		text = "(" + text + ")"
	}
	return sq.Expr(text, args...), nil
}
