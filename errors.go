package userstore

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-sqlite3"
	"modernc.org/sqlite"
	sqlitelib "modernc.org/sqlite/lib"
)

// Error kinds. Test with errors.Is.
var (
	// ErrConnection means the backing file could not be opened.
	ErrConnection = errors.New("userstore: connection failed")
	// ErrSchema means the users table could not be created or does not
	// have the expected shape.
	ErrSchema = errors.New("userstore: schema error")
	// ErrConstraint is a UNIQUE or NOT NULL violation.
	ErrConstraint = errors.New("userstore: constraint violation")
	// ErrClosed is returned by every operation after Close.
	ErrClosed = errors.New("userstore: store is closed")
	// ErrNotFound indicates that no record was found.
	ErrNotFound = errors.New("userstore: record not found")
)

// Error is the error returned by Store operations. Kind is one of the
// sentinels above (or nil for plain driver/I/O failures) and Err is the cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("userstore: ")
	b.WriteString(e.Op)
	if e.Kind != nil {
		b.WriteString(": ")
		b.WriteString(strings.TrimPrefix(e.Kind.Error(), "userstore: "))
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// opError attaches op to err. A closed session, a missing row and a
// constraint violation take precedence over the caller's default kind.
func opError(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, ErrClosed):
		return &Error{Op: op, Kind: ErrClosed}
	case errors.Is(err, ErrNotFound):
		return &Error{Op: op, Kind: ErrNotFound}
	case isConstraintViolation(err):
		kind = ErrConstraint
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// isConstraintViolation understands the native errors of both drivers.
func isConstraintViolation(err error) bool {
	var cgoErr sqlite3.Error
	if errors.As(err, &cgoErr) {
		return cgoErr.Code == sqlite3.ErrConstraint
	}
	var pureErr *sqlite.Error
	if errors.As(err, &pureErr) {
		return pureErr.Code()&0xff == sqlitelib.SQLITE_CONSTRAINT
	}
	return false
}

func errNilUser(op string) error {
	return &Error{Op: op, Err: fmt.Errorf("nil user")}
}
