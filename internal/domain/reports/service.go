package reports

import (
	"context"
	"fmt"
	"time"

	"hrrecords/internal/platform/clock"
	"hrrecords/internal/platform/numeric"
)

const (
	StatusPresent = "present"

	// MaxWindowDays keeps the window start inside the DATE range.
	MaxWindowDays = 3650

	rateDecimals   = 3
	ratingDecimals = 2
)

type Service struct {
	Store      StoreAPI
	Tx         TxRunner
	WindowDays int
	Threshold  float64
	Loc        *time.Location
	Now        func() time.Time
}

func NewService(store StoreAPI, tx TxRunner, windowDays int, threshold float64, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{
		Store:      store,
		Tx:         tx,
		WindowDays: windowDays,
		Threshold:  threshold,
		Loc:        loc,
		Now:        time.Now,
	}
}

// Window resolves the trailing window ending today. days <= 0 selects the
// configured default. Windows longer than MaxWindowDays are rejected.
func (s *Service) Window(days int) (Window, error) {
	if days <= 0 {
		days = s.WindowDays
	}
	if days <= 0 || days > MaxWindowDays {
		return Window{}, ErrInvalidWindow
	}
	end := clock.TodayFrom(s.Now, s.Loc)
	return Window{Start: end.AddDate(0, 0, -days), End: end}, nil
}

func (s *Service) Headcount(ctx context.Context) (Headcount, error) {
	var out Headcount
	err := s.Tx.InReadTx(ctx, func(ctx context.Context) error {
		totals, err := s.Store.HeadcountTotals(ctx)
		if err != nil {
			return fmt.Errorf("headcount totals: %w", err)
		}
		depts, err := s.Store.HeadcountByDepartment(ctx)
		if err != nil {
			return fmt.Errorf("headcount by department: %w", err)
		}
		out = Headcount{Totals: totals, ByDepartment: depts}
		return nil
	})
	return out, err
}

func (s *Service) AttendanceSummary(ctx context.Context, days int) (AttendanceSummary, error) {
	window, err := s.Window(days)
	if err != nil {
		return AttendanceSummary{}, err
	}

	var totals map[string]int
	err = s.Tx.InReadTx(ctx, func(ctx context.Context) error {
		totals, err = s.Store.AttendanceByStatus(ctx, window)
		return err
	})
	if err != nil {
		return AttendanceSummary{}, fmt.Errorf("attendance by status: %w", err)
	}
	if totals == nil {
		totals = map[string]int{}
	}

	all := 0
	for _, count := range totals {
		all += count
	}
	return AttendanceSummary{
		PeriodStart:    formatDay(window.Start),
		PeriodEnd:      formatDay(window.End),
		Totals:         totals,
		AttendanceRate: numeric.Round(numeric.Ratio(totals[StatusPresent], all), rateDecimals),
	}, nil
}

func (s *Service) PerformanceSummary(ctx context.Context, days int) (PerformanceSummary, error) {
	window, err := s.Window(days)
	if err != nil {
		return PerformanceSummary{}, err
	}

	var agg RatingAggregate
	var top []Performer
	err = s.Tx.InReadTx(ctx, func(ctx context.Context) error {
		var err error
		if agg, err = s.Store.ReviewAggregate(ctx, window); err != nil {
			return fmt.Errorf("review aggregate: %w", err)
		}
		if top, err = s.Store.TopPerformers(ctx, window, s.Threshold); err != nil {
			return fmt.Errorf("top performers: %w", err)
		}
		return nil
	})
	if err != nil {
		return PerformanceSummary{}, err
	}

	performers := make([]Performer, 0, len(top))
	for _, p := range top {
		p.AverageRating = numeric.Round(p.AverageRating, ratingDecimals)
		performers = append(performers, p)
	}
	return PerformanceSummary{
		PeriodStart:   formatDay(window.Start),
		PeriodEnd:     formatDay(window.End),
		AverageRating: numeric.RoundPtr(agg.Average, ratingDecimals),
		ReviewCount:   agg.Count,
		TopPerformers: performers,
	}, nil
}

func (s *Service) EmployeeSnapshot(ctx context.Context, employeeID string) (EmployeeSnapshot, error) {
	var out EmployeeSnapshot
	err := s.Tx.InReadTx(ctx, func(ctx context.Context) error {
		emp, err := s.Store.SnapshotEmployee(ctx, employeeID)
		if err != nil {
			return err
		}
		att, err := s.Store.SnapshotAttendance(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("snapshot attendance: %w", err)
		}
		perf, err := s.Store.SnapshotPerformance(ctx, employeeID)
		if err != nil {
			return fmt.Errorf("snapshot performance: %w", err)
		}
		perf.AverageRating = numeric.RoundPtr(perf.AverageRating, ratingDecimals)
		out = EmployeeSnapshot{Employee: emp, Attendance: att, Performance: perf}
		return nil
	})
	return out, err
}
