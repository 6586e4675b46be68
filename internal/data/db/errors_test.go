package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

func TestIsUniqueViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"gorm duplicated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pg unique", fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}), true},
		{"pg fk", &pgconn.PgError{Code: "23503"}, false},
	}
	for _, tc := range cases {
		if got := IsUniqueViolation(tc.err); got != tc.want {
			t.Fatalf("%s: got=%v want=%v", tc.name, got, tc.want)
		}
	}
}

func TestResolveDSN(t *testing.T) {
	o := Options{Driver: DriverPostgres, Host: "h", Port: "5432", User: "u", Password: "p", Name: "n"}
	if got, want := o.ResolveDSN(), "postgres://u:p@h:5432/n?sslmode=disable"; got != want {
		t.Fatalf("ResolveDSN: got=%q want=%q", got, want)
	}
	o.DSN = "postgres://override"
	if got := o.ResolveDSN(); got != "postgres://override" {
		t.Fatalf("explicit dsn ignored: %q", got)
	}
}
