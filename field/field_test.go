package field_test

import (
	"testing"

	"github.com/arllen133/userstore/clause"
	"github.com/arllen133/userstore/field"
)

func TestStringField(t *testing.T) {
	email := field.String{}.WithColumn("email")

	sql, args, err := email.Eq("alice@x.com").Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sql != "email = ?" {
		t.Errorf("Expected 'email = ?', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != "alice@x.com" {
		t.Errorf("Expected args ['alice@x.com'], got %v", args)
	}

	sql, _, _ = email.Like("%@x.com").Build()
	if sql != "email LIKE ?" {
		t.Errorf("Expected 'email LIKE ?', got '%s'", sql)
	}

	sql, args, _ = email.In("a@x.com", "b@x.com").Build()
	if sql != "email IN (?, ?)" {
		t.Errorf("Expected 'email IN (?, ?)', got '%s'", sql)
	}
	if len(args) != 2 {
		t.Errorf("Expected 2 args, got %d", len(args))
	}

	sql, _, _ = email.NotIn("a@x.com", "b@x.com").Build()
	if sql != "NOT (email IN (?, ?))" {
		t.Errorf("Expected 'NOT (email IN (?, ?))', got '%s'", sql)
	}
}

func TestNumberField(t *testing.T) {
	age := field.Number[int]{}.WithColumn("age")

	sql, args, _ := age.Gt(18).Build()
	if sql != "age > ?" {
		t.Errorf("Expected 'age > ?', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != 18 {
		t.Errorf("Expected args [18], got %v", args)
	}

	sql, args, _ = age.Between(18, 65).Build()
	if sql != "age BETWEEN ? AND ?" {
		t.Errorf("Expected 'age BETWEEN ? AND ?', got '%s'", sql)
	}
	if len(args) != 2 || args[0] != 18 || args[1] != 65 {
		t.Errorf("Expected args [18, 65], got %v", args)
	}

	sql, _, _ = age.IsNull().Build()
	if sql != "age IS NULL" {
		t.Errorf("Expected 'age IS NULL', got '%s'", sql)
	}
}

func TestFieldWithTable(t *testing.T) {
	email := field.String{}.WithTable("users").WithColumn("email")

	sql, _, _ := email.Eq("test@example.com").Build()
	if sql != "users.email = ?" {
		t.Errorf("Expected 'users.email = ?', got '%s'", sql)
	}
	if email.ColumnName() != "users.email" {
		t.Errorf("Expected ColumnName 'users.email', got '%s'", email.ColumnName())
	}
}

func TestComplexExpression(t *testing.T) {
	age := field.Number[int]{}.WithColumn("age")
	name := field.String{}.WithColumn("name")
	email := field.String{}.WithColumn("email")

	// (age > 18 AND name = 'alice') OR email LIKE '%@admin'
	expr := clause.Or{
		clause.And{
			age.Gt(18),
			name.Eq("alice"),
		},
		email.Like("%@admin"),
	}

	sql, args, err := expr.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	expected := "((age > ?) AND (name = ?)) OR (email LIKE ?)"
	if sql != expected {
		t.Errorf("Expected '%s', got '%s'", expected, sql)
	}
	if len(args) != 3 || args[0] != 18 || args[1] != "alice" || args[2] != "%@admin" {
		t.Errorf("Args mismatch, got %v", args)
	}
}

func TestOrderByAndAssignment(t *testing.T) {
	id := field.Number[int64]{}.WithColumn("id")
	if sql, _, _ := id.Asc().Build(); sql != "id" {
		t.Errorf("Expected 'id', got '%s'", sql)
	}
	if sql, _, _ := id.Desc().Build(); sql != "id DESC" {
		t.Errorf("Expected 'id DESC', got '%s'", sql)
	}

	email := field.String{}.WithColumn("email")
	sql, args, _ := email.Set("new@example.com").Build()
	if sql != "email = ?" {
		t.Errorf("Expected 'email = ?', got '%s'", sql)
	}
	if len(args) != 1 || args[0] != "new@example.com" {
		t.Errorf("Expected args ['new@example.com'], got %v", args)
	}
}

func TestCmp(t *testing.T) {
	age := field.Number[int]{}.WithColumn("age")
	sql, args, err := age.Cmp(clause.OpLte, 40).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if sql != "age <= ?" || len(args) != 1 || args[0] != 40 {
		t.Errorf("Unexpected %q %v", sql, args)
	}

	name := field.String{}.WithColumn("name")
	sql, _, _ = name.Cmp(clause.OpLike, "A%").Build()
	if sql != "name LIKE ?" {
		t.Errorf("Expected 'name LIKE ?', got '%s'", sql)
	}
}
