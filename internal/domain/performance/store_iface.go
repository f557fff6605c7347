package performance

import "context"

type StoreAPI interface {
	Get(ctx context.Context, id string) (Review, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Review, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Create(ctx context.Context, fields Fields) (Review, error)
	Update(ctx context.Context, id string, fields Fields) (Review, error)
	Delete(ctx context.Context, id string) error
	TopPerformers(ctx context.Context, limit int) ([]TopPerformer, error)
}

type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

var _ StoreAPI = (*Store)(nil)
