package reports

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const statusCountColumns = `COUNT(1),
           COUNT(1) FILTER (WHERE status = 'active'),
           COUNT(1) FILTER (WHERE status = 'on_leave'),
           COUNT(1) FILTER (WHERE status = 'terminated')`

func (s *Store) HeadcountTotals(ctx context.Context) (StatusCounts, error) {
	var out StatusCounts
	err := querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+statusCountColumns+" FROM employees").
		Scan(&out.Total, &out.Active, &out.OnLeave, &out.Terminated)
	return out, err
}

func (s *Store) HeadcountByDepartment(ctx context.Context) ([]DepartmentHeadcount, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, `
    SELECT department, `+statusCountColumns+`
    FROM employees
    GROUP BY department
    ORDER BY department
  `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []DepartmentHeadcount{}
	for rows.Next() {
		var dept DepartmentHeadcount
		if err := rows.Scan(&dept.Department, &dept.Total, &dept.Active, &dept.OnLeave, &dept.Terminated); err != nil {
			return nil, err
		}
		out = append(out, dept)
	}
	return out, rows.Err()
}

func (s *Store) AttendanceByStatus(ctx context.Context, window Window) (map[string]int, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, `
    SELECT status, COUNT(1)
    FROM attendance_records
    WHERE date BETWEEN $1 AND $2
    GROUP BY status
  `, window.Start, window.End)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		out[status] = count
	}
	return out, rows.Err()
}

func (s *Store) ReviewAggregate(ctx context.Context, window Window) (RatingAggregate, error) {
	var out RatingAggregate
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT AVG(rating)::float8, COUNT(1)
    FROM performance_reviews
    WHERE review_period_end BETWEEN $1 AND $2
  `, window.Start, window.End).Scan(&out.Average, &out.Count)
	return out, err
}

func (s *Store) TopPerformers(ctx context.Context, window Window, threshold float64) ([]Performer, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, `
    SELECT e.id, e.first_name || ' ' || e.last_name, AVG(r.rating)::float8 AS avg_rating, COUNT(r.id) AS review_count
    FROM performance_reviews r
    JOIN employees e ON e.id = r.employee_id
    WHERE r.review_period_end BETWEEN $1 AND $2
    GROUP BY e.id, e.first_name, e.last_name
    HAVING AVG(r.rating) >= $3
    ORDER BY avg_rating DESC, review_count DESC, e.last_name, e.id
  `, window.Start, window.End, threshold)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Performer{}
	for rows.Next() {
		var p Performer
		if err := rows.Scan(&p.EmployeeID, &p.EmployeeName, &p.AverageRating, &p.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) SnapshotEmployee(ctx context.Context, employeeID string) (SnapshotEmployee, error) {
	var out SnapshotEmployee
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT id, first_name || ' ' || last_name, department, position, status
    FROM employees
    WHERE id = $1
  `, employeeID).Scan(&out.ID, &out.Name, &out.Department, &out.Position, &out.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return SnapshotEmployee{}, ErrEmployeeNotFound
	}
	return out, err
}

func (s *Store) SnapshotAttendance(ctx context.Context, employeeID string) (SnapshotAttendance, error) {
	var out SnapshotAttendance
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'present'),
           COUNT(1) FILTER (WHERE status = 'absent')
    FROM attendance_records
    WHERE employee_id = $1
  `, employeeID).Scan(&out.TotalDays, &out.PresentDays, &out.AbsentDays)
	return out, err
}

func (s *Store) SnapshotPerformance(ctx context.Context, employeeID string) (SnapshotPerformance, error) {
	var out SnapshotPerformance
	var lastEnd *time.Time
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT AVG(rating)::float8, COUNT(1), MAX(review_period_end)
    FROM performance_reviews
    WHERE employee_id = $1
  `, employeeID).Scan(&out.AverageRating, &out.ReviewCount, &lastEnd)
	if err != nil {
		return SnapshotPerformance{}, err
	}
	if lastEnd != nil {
		day := formatDay(*lastEnd)
		out.LastReviewEnd = &day
	}
	return out, nil
}
