package querier

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type stubQuerier struct{ name string }

func (s *stubQuerier) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (s *stubQuerier) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, nil
}

func (s *stubQuerier) QueryRow(context.Context, string, ...any) pgx.Row {
	return nil
}

func TestFromPrefersBoundTransaction(t *testing.T) {
	pool := &stubQuerier{name: "pool"}
	tx := &stubQuerier{name: "tx"}

	if got := From(context.Background(), pool); got != pool {
		t.Fatal("expected fallback without bound transaction")
	}
	if InTransaction(context.Background()) {
		t.Fatal("background context should not report a transaction")
	}

	ctx := WithTx(context.Background(), tx)
	if got := From(ctx, pool); got != tx {
		t.Fatal("expected bound transaction")
	}
	if !InTransaction(ctx) {
		t.Fatal("expected transaction to be reported")
	}
}

func TestViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: UniqueViolation, ConstraintName: "employees_email_key"})
	code, constraint := Violation(err)
	if code != UniqueViolation || constraint != "employees_email_key" {
		t.Fatalf("unexpected violation %q %q", code, constraint)
	}
	if IsCode(errors.New("plain"), UniqueViolation) {
		t.Fatal("plain errors carry no code")
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	cases := map[string]string{
		"ada":     `%ada%`,
		"%":       `%\%%`,
		"a_b":     `%a\_b%`,
		`c:\tmp`:  `%c:\\tmp%`,
		`50%_off`: `%50\%\_off%`,
	}
	for term, want := range cases {
		if got := LikePattern(term); got != want {
			t.Errorf("LikePattern(%q) = %q, want %q", term, got, want)
		}
	}
}
