package performance

import (
	"context"
	"fmt"
	"strings"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/platform/numeric"
)

type Service struct {
	Store StoreAPI
	Tx    TxRunner
	Audit Auditor
}

func NewService(store StoreAPI, tx TxRunner, auditor Auditor) *Service {
	return &Service{Store: store, Tx: tx, Audit: auditor}
}

// Validate checks the invariants the database also enforces, so callers get
// a domain error before any write.
func Validate(f Fields) error {
	if f.ReviewPeriodEnd.Before(f.ReviewPeriodStart) {
		return ErrInvalidPeriod
	}
	if f.Rating < MinRating || f.Rating > MaxRating {
		return ErrRatingRange
	}
	return nil
}

func normalize(f Fields) Fields {
	f.ReviewerName = strings.TrimSpace(f.ReviewerName)
	return f
}

func (s *Service) Get(ctx context.Context, id string) (Review, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Review, int, error) {
	total, err := s.Store.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}
	items, err := s.Store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	return items, total, nil
}

func (s *Service) Create(ctx context.Context, fields Fields) (Review, error) {
	fields = normalize(fields)
	if err := Validate(fields); err != nil {
		return Review{}, err
	}
	var out Review
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		rev, err := s.Store.Create(ctx, fields)
		if err != nil {
			return err
		}
		out = rev
		return s.Audit.Record(ctx, audit.ActionCreate, EntityType, rev.ID, nil, rev)
	})
	return out, err
}

func (s *Service) Update(ctx context.Context, id string, fields Fields) (Review, error) {
	return s.update(ctx, id, func(Fields) Fields { return fields })
}

func (s *Service) Patch(ctx context.Context, id string, patch Patch) (Review, error) {
	return s.update(ctx, id, patch.Apply)
}

func (s *Service) update(ctx context.Context, id string, change func(Fields) Fields) (Review, error) {
	var out Review
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		before, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		fields := normalize(change(before.Fields()))
		if err := Validate(fields); err != nil {
			return err
		}
		after, err := s.Store.Update(ctx, id, fields)
		if err != nil {
			return err
		}
		out = after
		return s.Audit.Record(ctx, audit.ActionUpdate, EntityType, id, before, after)
	})
	return out, err
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.Tx.InTx(ctx, func(ctx context.Context) error {
		before, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		if err := s.Store.Delete(ctx, id); err != nil {
			return err
		}
		return s.Audit.Record(ctx, audit.ActionDelete, EntityType, id, before, nil)
	})
}

// ClampTopLimit bounds a requested top-performer count to 1..50.
func ClampTopLimit(limit int) int {
	return min(max(limit, 1), MaxTopPerformers)
}

func (s *Service) TopPerformers(ctx context.Context, limit int) ([]TopPerformer, error) {
	items, err := s.Store.TopPerformers(ctx, ClampTopLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("top performers: %w", err)
	}
	for i := range items {
		items[i].AverageRating = numeric.Round(items[i].AverageRating, 2)
	}
	return items, nil
}
