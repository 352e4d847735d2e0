package userstore

import (
	"context"
	"database/sql"
	"sync/atomic"

	"github.com/jmoiron/sqlx"
)

// Executor is the part of sqlx shared by *sqlx.DB and *sqlx.Tx.
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

// Session owns the database handle and the current executor, which is either
// the handle itself or an open transaction.
type Session struct {
	db       *sqlx.DB
	executor Executor
	dialect  Dialect
	obs      *ObservabilityConfig
	closed   *atomic.Bool // shared with transaction sessions
}

func NewSession(db *sql.DB, dialect Dialect, opts ...SessionOption) *Session {
	xdb := sqlx.NewDb(db, dialect.Name())
	s := &Session{
		db:       xdb,
		executor: xdb,
		dialect:  dialect,
		obs:      defaultObservabilityConfig(),
		closed:   new(atomic.Bool),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dialect returns the session's dialect.
func (s *Session) Dialect() Dialect { return s.dialect }

// Closed reports whether Close has been called.
func (s *Session) Closed() bool { return s.closed.Load() }

func (s *Session) Exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := s.instrument(ctx, "exec", query, func(ctx context.Context) error {
		var err error
		res, err = s.executor.ExecContext(ctx, query, args...)
		return err
	})
	return res, err
}

func (s *Session) Select(ctx context.Context, dest any, query string, args ...any) error {
	return s.instrument(ctx, "select", query, func(ctx context.Context) error {
		return s.executor.SelectContext(ctx, dest, query, args...)
	})
}

func (s *Session) Get(ctx context.Context, dest any, query string, args ...any) error {
	return s.instrument(ctx, "get", query, func(ctx context.Context) error {
		return s.executor.GetContext(ctx, dest, query, args...)
	})
}

// InTransaction reports whether the executor is a transaction.
func (s *Session) InTransaction() bool {
	_, ok := s.executor.(*sqlx.Tx)
	return ok
}

func (s *Session) Begin(ctx context.Context) (*Session, error) {
	if s.closed.Load() {
		return nil, ErrClosed
	}
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	txSession := *s
	txSession.executor = tx
	return &txSession, nil
}

func (s *Session) Commit() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Commit()
	}
	return sql.ErrTxDone
}

func (s *Session) Rollback() error {
	if tx, ok := s.executor.(*sqlx.Tx); ok {
		return tx.Rollback()
	}
	return sql.ErrTxDone
}

// Transaction runs fn in a transaction. The transaction commits when fn
// returns nil and rolls back when fn fails or panics. Calls made from inside
// fn with the transaction session join the outer transaction.
func (s *Session) Transaction(ctx context.Context, fn func(txSession *Session) error) (err error) {
	if s.InTransaction() {
		return fn(s)
	}

	txSession, err := s.Begin(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = txSession.Rollback()
			panic(p)
		} else if err != nil {
			if rbErr := txSession.Rollback(); rbErr != nil {
				s.logRollbackFailure(ctx, rbErr)
			}
		}
	}()

	if err = fn(txSession); err != nil {
		return err
	}
	return txSession.Commit()
}

// Close releases the handle. Further calls are no-ops.
func (s *Session) Close() error {
	if s.closed.Swap(true) {
		return nil
	}
	return s.db.Close()
}
