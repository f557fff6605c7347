package querier

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type ctxKey struct{}

// WithTx binds q to ctx so stores called inside a transaction use it.
func WithTx(ctx context.Context, q Querier) context.Context {
	return context.WithValue(ctx, ctxKey{}, q)
}

// From returns the transaction bound to ctx, or fallback.
func From(ctx context.Context, fallback Querier) Querier {
	if q, ok := ctx.Value(ctxKey{}).(Querier); ok && q != nil {
		return q
	}
	return fallback
}

// InTransaction reports whether ctx already carries a transaction.
func InTransaction(ctx context.Context) bool {
	_, ok := ctx.Value(ctxKey{}).(Querier)
	return ok
}
