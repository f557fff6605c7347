package attendance

import (
	"context"
	"errors"
	"fmt"
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

const recordColumns = `a.id, a.employee_id, e.first_name || ' ' || e.last_name, a.date, a.status,
           to_char(a.check_in_time, 'HH24:MI:SS'), to_char(a.check_out_time, 'HH24:MI:SS'),
           a.notes, a.created_at, a.updated_at`

const recordFrom = " FROM attendance_records a JOIN employees e ON e.id = a.employee_id"

var orderColumns = map[string]string{
	"date":                "a.date",
	"status":              "a.status",
	"employee__last_name": "e.last_name",
}

const defaultOrder = "a.date DESC, e.last_name ASC"

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(&rec.ID, &rec.EmployeeID, &rec.EmployeeName, &rec.Date, &rec.Status,
		&rec.CheckInTime, &rec.CheckOutTime, &rec.Notes, &rec.CreatedAt, &rec.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Record{}, ErrNotFound
	}
	return rec, err
}

func mapWriteError(err error) error {
	switch code, _ := querier.Violation(err); code {
	case querier.UniqueViolation:
		return ErrDuplicateDay
	case querier.ForeignKeyViolation:
		return ErrUnknownEmployee
	}
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	return scanRecord(querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+recordColumns+recordFrom+" WHERE a.id = $1", id))
}

func buildFilterQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + recordFrom + " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND a.employee_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND a.status = $%d", len(args))
	}
	if filter.DateAfter != nil {
		args = append(args, *filter.DateAfter)
		query += fmt.Sprintf(" AND a.date >= $%d", len(args))
	}
	if filter.DateBefore != nil {
		args = append(args, *filter.DateBefore)
		query += fmt.Sprintf(" AND a.date <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, querier.LikePattern(filter.Search))
		query += fmt.Sprintf(` AND (e.first_name ILIKE $%[1]d ESCAPE '\' OR e.last_name ILIKE $%[1]d ESCAPE '\'
      OR e.email ILIKE $%[1]d ESCAPE '\' OR a.notes ILIKE $%[1]d ESCAPE '\')`, len(args))
	}
	return query, args
}

// List returns every matching record when limit is not positive.
func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Record, error) {
	query, args := buildFilterQuery("SELECT "+recordColumns, filter)
	query += " ORDER BY " + querier.OrderBy(filter.Ordering, orderColumns, defaultOrder) + ", a.id"
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
		args = append(args, limit, offset)
	}
	return s.collect(ctx, query, args...)
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildFilterQuery("SELECT COUNT(1)", filter)
	var total int
	if err := querier.From(ctx, s.DB).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) collect(ctx context.Context, query string, args ...any) ([]Record, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, f Fields) (Record, error) {
	var id string
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, date, status, check_in_time, check_out_time, notes)
    VALUES ($1,$2,$3,$4::text::time,$5::text::time,$6)
    RETURNING id
  `, f.EmployeeID, f.Date, f.Status, f.CheckInTime, f.CheckOutTime, f.Notes).Scan(&id)
	if err != nil {
		return Record{}, mapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id string, f Fields) (Record, error) {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, `
    UPDATE attendance_records
    SET employee_id = $2, date = $3, status = $4, check_in_time = $5::text::time, check_out_time = $6::text::time,
        notes = $7, updated_at = now()
    WHERE id = $1
  `, id, f.EmployeeID, f.Date, f.Status, f.CheckInTime, f.CheckOutTime, f.Notes)
	if err != nil {
		return Record{}, mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Record{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, "DELETE FROM attendance_records WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Upsert inserts or replaces the record for (employee, date) atomically.
// created is true when a new row was inserted.
func (s *Store) Upsert(ctx context.Context, f Fields) (Record, bool, error) {
	var (
		id      string
		created bool
	)
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    INSERT INTO attendance_records (employee_id, date, status, check_in_time, check_out_time, notes)
    VALUES ($1,$2,$3,$4::text::time,$5::text::time,$6)
    ON CONFLICT (employee_id, date) DO UPDATE
    SET status = EXCLUDED.status,
        check_in_time = EXCLUDED.check_in_time,
        check_out_time = EXCLUDED.check_out_time,
        notes = EXCLUDED.notes,
        updated_at = now()
    RETURNING id, (xmax = 0)
  `, f.EmployeeID, f.Date, f.Status, f.CheckInTime, f.CheckOutTime, f.Notes).Scan(&id, &created)
	if err != nil {
		return Record{}, false, mapWriteError(err)
	}
	rec, err := s.Get(ctx, id)
	return rec, created, err
}

func (s *Store) CountByStatus(ctx context.Context, day time.Time) (map[string]int, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, `
    SELECT status, COUNT(1)
    FROM attendance_records
    WHERE date = $1
    GROUP BY status
    ORDER BY status
  `, day)
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

func (s *Store) WindowTotals(ctx context.Context, employeeID string, from, to time.Time) (WindowTotals, error) {
	var out WindowTotals
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status IN ('present', 'remote')),
           COUNT(1) FILTER (WHERE status = 'absent')
    FROM attendance_records
    WHERE employee_id = $1 AND date BETWEEN $2 AND $3
  `, employeeID, from, to).Scan(&out.TotalDays, &out.PresentDays, &out.AbsentDays)
	return out, err
}

func (s *Store) Recent(ctx context.Context, employeeID string, from time.Time, limit int) ([]Record, error) {
	return s.collect(ctx, "SELECT "+recordColumns+recordFrom+`
    WHERE a.employee_id = $1 AND a.date >= $2
    ORDER BY a.date DESC
    LIMIT $3`, employeeID, from, limit)
}
