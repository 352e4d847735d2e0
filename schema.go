package userstore

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arllen133/userstore/clause"
	"github.com/arllen133/userstore/field"
)

const usersDDL = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	age INTEGER,
	email TEXT UNIQUE
)`

// User is the single entity held by the store.
type User struct {
	ID    int64  `db:"id"`
	Name  string `db:"name"`
	Age   *int   `db:"age"` // nil when unknown
	Email string `db:"email"`
}

// NewUser returns a User with a known age.
func NewUser(name string, age int, email string) *User {
	return &User{Name: name, Age: &age, Email: email}
}

// UsersTable describes the users table and carries its column handles.
type UsersTable struct {
	ID    field.Number[int64]
	Name  field.String
	Age   field.Number[int]
	Email field.String
}

// Users is the users table.
var Users = UsersTable{
	ID:    field.Number[int64]{}.WithColumn("id"),
	Name:  field.String{}.WithColumn("name"),
	Age:   field.Number[int]{}.WithColumn("age"),
	Email: field.String{}.WithColumn("email"),
}

func (UsersTable) TableName() string { return "users" }

func (t UsersTable) SelectColumns() []string {
	return []string{t.ID.ColumnName(), t.Name.ColumnName(), t.Age.ColumnName(), t.Email.ColumnName()}
}

// InsertRow returns the columns and bound values for an INSERT. The id is
// left to the engine. An empty name is bound as NULL so the NOT NULL
// constraint rejects it.
func (t UsersTable) InsertRow(u *User) ([]string, []any) {
	var name, age any
	if u.Name != "" {
		name = u.Name
	}
	if u.Age != nil {
		age = int64(*u.Age)
	}
	return []string{t.Name.ColumnName(), t.Age.ColumnName(), t.Email.ColumnName()},
		[]any{name, age, u.Email}
}

// Predicate turns text typed by a person (field name, operator, value) into
// a parameterized predicate. Only the users columns are accepted and the value
// is coerced to the column's type.
func (t UsersTable) Predicate(column, op, value string) (clause.Predicate, error) {
	operator, err := clause.ParseOperator(op)
	if err != nil {
		return clause.Predicate{}, err
	}
	value = strings.TrimSpace(value)
	switch strings.ToLower(strings.TrimSpace(column)) {
	case "id":
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return clause.Predicate{}, fmt.Errorf("userstore: id must be an integer: %w", err)
		}
		return t.ID.Cmp(operator, n), nil
	case "age":
		n, err := strconv.Atoi(value)
		if err != nil {
			return clause.Predicate{}, fmt.Errorf("userstore: age must be an integer: %w", err)
		}
		return t.Age.Cmp(operator, n), nil
	case "name":
		return t.Name.Cmp(operator, value), nil
	case "email":
		return t.Email.Cmp(operator, value), nil
	}
	return clause.Predicate{}, fmt.Errorf("userstore: unknown column %q", column)
}

// tableInfo is one row of PRAGMA table_info.
type tableInfo struct {
	CID     int     `db:"cid"`
	Name    string  `db:"name"`
	Type    string  `db:"type"`
	NotNull int     `db:"notnull"`
	Default *string `db:"dflt_value"`
	PK      int     `db:"pk"`
}

// checkColumns verifies an existing users table has every column the store
// reads and writes.
func (t UsersTable) checkColumns(info []tableInfo) error {
	if len(info) == 0 {
		return fmt.Errorf("table %s does not exist", t.TableName())
	}
	have := make(map[string]bool, len(info))
	for _, c := range info {
		have[strings.ToLower(c.Name)] = true
	}
	var missing []string
	for _, c := range t.SelectColumns() {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("table %s is missing columns: %s", t.TableName(), strings.Join(missing, ", "))
	}
	return nil
}
