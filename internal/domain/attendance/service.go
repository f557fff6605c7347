package attendance

import (
	"context"
	"fmt"
	"strings"
	"time"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/platform/clock"
)

type Service struct {
	Store StoreAPI
	Tx    TxRunner
	Audit Auditor
	Loc   *time.Location
	Now   func() time.Time
}

func NewService(store StoreAPI, tx TxRunner, auditor Auditor, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{Store: store, Tx: tx, Audit: auditor, Loc: loc, Now: time.Now}
}

// Today is the current calendar date in the service time zone.
func (s *Service) Today() time.Time {
	return clock.TodayFrom(s.Now, s.Loc)
}

func (s *Service) Get(ctx context.Context, id string) (Record, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Record, int, error) {
	total, err := s.Store.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count attendance: %w", err)
	}
	items, err := s.Store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list attendance: %w", err)
	}
	return items, total, nil
}

func (s *Service) Create(ctx context.Context, fields Fields) (Record, error) {
	var out Record
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		rec, err := s.Store.Create(ctx, fields)
		if err != nil {
			return err
		}
		out = rec
		return s.Audit.Record(ctx, audit.ActionCreate, EntityType, rec.ID, nil, rec)
	})
	return out, err
}

func (s *Service) Update(ctx context.Context, id string, fields Fields) (Record, error) {
	return s.update(ctx, id, func(Fields) Fields { return fields })
}

func (s *Service) Patch(ctx context.Context, id string, patch Patch) (Record, error) {
	return s.update(ctx, id, patch.Apply)
}

func (s *Service) update(ctx context.Context, id string, change func(Fields) Fields) (Record, error) {
	var out Record
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		before, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		after, err := s.Store.Update(ctx, id, change(before.Fields()))
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

// Mark records today's status for an employee, replacing any earlier entry
// for the same day. Absence statuses need a non-blank reason in notes;
// nothing is written when it is missing.
func (s *Service) Mark(ctx context.Context, employeeID string, fields Fields) (UpsertResult, error) {
	fields.EmployeeID = employeeID
	fields.Date = s.Today()
	fields.Notes = strings.TrimSpace(fields.Notes)
	if RequiresReason(fields.Status) && fields.Notes == "" {
		return UpsertResult{}, ErrReasonRequired
	}

	var out UpsertResult
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		rec, created, err := s.Store.Upsert(ctx, fields)
		if err != nil {
			return err
		}
		out = UpsertResult{Record: rec, Created: created}
		return s.Audit.Record(ctx, audit.ActionUpsert, EntityType, rec.ID, nil, rec)
	})
	return out, err
}

// DailySummary counts records per status for day, or for today when day is nil.
func (s *Service) DailySummary(ctx context.Context, day *time.Time) (DailySummary, error) {
	target := s.Today()
	if day != nil {
		target = *day
	}
	counts, err := s.Store.CountByStatus(ctx, target)
	if err != nil {
		return DailySummary{}, fmt.Errorf("daily summary: %w", err)
	}
	return DailySummary{Date: target, Summary: counts}, nil
}

func (s *Service) WindowTotals(ctx context.Context, employeeID string, from, to time.Time) (WindowTotals, error) {
	return s.Store.WindowTotals(ctx, employeeID, from, to)
}

func (s *Service) Recent(ctx context.Context, employeeID string, from time.Time, limit int) ([]Record, error) {
	return s.Store.Recent(ctx, employeeID, from, limit)
}
