package attendance

import (
	"context"
	"time"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Record, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Record, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Create(ctx context.Context, fields Fields) (Record, error)
	Update(ctx context.Context, id string, fields Fields) (Record, error)
	Delete(ctx context.Context, id string) error
	Upsert(ctx context.Context, fields Fields) (Record, bool, error)
	CountByStatus(ctx context.Context, day time.Time) (map[string]int, error)
	WindowTotals(ctx context.Context, employeeID string, from, to time.Time) (WindowTotals, error)
	Recent(ctx context.Context, employeeID string, from time.Time, limit int) ([]Record, error)
}

type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

var _ StoreAPI = (*Store)(nil)
