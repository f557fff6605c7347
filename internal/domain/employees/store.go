package employees

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"hrrecords/internal/platform/querier"
)

type Store struct {
	DB querier.Querier
}

func NewStore(db querier.Querier) *Store {
	return &Store{DB: db}
}

const employeeColumns = `e.id, e.user_id::text, e.first_name, e.last_name, e.email, e.position, e.department,
           e.date_hired, e.status, e.is_active, e.created_at, e.updated_at`

var orderColumns = map[string]string{
	"first_name": "e.first_name",
	"last_name":  "e.last_name",
	"date_hired": "e.date_hired",
	"department": "e.department",
}

const defaultOrder = "e.last_name ASC, e.first_name ASC"

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	err := row.Scan(
		&emp.ID, &emp.UserID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Position, &emp.Department,
		&emp.DateHired, &emp.Status, &emp.IsActive, &emp.CreatedAt, &emp.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func mapWriteError(err error) error {
	if code, constraint := querier.Violation(err); code == querier.UniqueViolation && constraint == "employees_email_key" {
		return ErrEmailTaken
	}
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Employee, error) {
	return scanEmployee(querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees e WHERE e.id = $1", id))
}

func (s *Store) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	return scanEmployee(querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+employeeColumns+" FROM employees e WHERE e.user_id = $1", userID))
}

func buildFilterQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + " FROM employees e WHERE 1=1"
	var args []any
	if filter.Department != "" {
		args = append(args, filter.Department)
		query += fmt.Sprintf(" AND e.department = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND e.status = $%d", len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += fmt.Sprintf(" AND e.is_active = $%d", len(args))
	}
	if filter.HiredFrom != nil {
		args = append(args, *filter.HiredFrom)
		query += fmt.Sprintf(" AND e.date_hired >= $%d", len(args))
	}
	if filter.HiredTo != nil {
		args = append(args, *filter.HiredTo)
		query += fmt.Sprintf(" AND e.date_hired <= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, querier.LikePattern(filter.Search))
		pos := len(args)
		query += fmt.Sprintf(` AND (e.first_name ILIKE $%[1]d ESCAPE '\' OR e.last_name ILIKE $%[1]d ESCAPE '\'
      OR e.email ILIKE $%[1]d ESCAPE '\' OR e.department ILIKE $%[1]d ESCAPE '\' OR e.position ILIKE $%[1]d ESCAPE '\')`, pos)
	}
	return query, args
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Employee, error) {
	query, args := buildFilterQuery("SELECT "+employeeColumns, filter)
	query += " ORDER BY " + querier.OrderBy(filter.Ordering, orderColumns, defaultOrder) + ", e.id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)
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

func (s *Store) Search(ctx context.Context, term string, limit int) ([]Employee, error) {
	return s.collect(ctx, `
    SELECT `+employeeColumns+`
    FROM employees e
    WHERE e.first_name ILIKE $1 ESCAPE '\' OR e.last_name ILIKE $1 ESCAPE '\' OR e.email ILIKE $1 ESCAPE '\'
       OR e.department ILIKE $1 ESCAPE '\'
    ORDER BY `+defaultOrder+`, e.id
    LIMIT $2
  `, querier.LikePattern(term), limit)
}

func (s *Store) collect(ctx context.Context, query string, args ...any) ([]Employee, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Employee{}
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) Create(ctx context.Context, f Fields) (Employee, error) {
	emp, err := scanEmployee(querier.From(ctx, s.DB).QueryRow(ctx, `
    INSERT INTO employees AS e (first_name, last_name, email, position, department, date_hired, status, is_active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
    RETURNING `+employeeColumns,
		f.FirstName, f.LastName, f.Email, f.Position, f.Department, f.DateHired, f.Status, f.IsActive))
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return emp, nil
}

// Update writes every field except the credential link, which only LinkUser
// touches.
func (s *Store) Update(ctx context.Context, id string, f Fields) (Employee, error) {
	emp, err := scanEmployee(querier.From(ctx, s.DB).QueryRow(ctx, `
    UPDATE employees AS e
    SET first_name = $2, last_name = $3, email = $4, position = $5, department = $6,
        date_hired = $7, status = $8, is_active = $9, updated_at = now()
    WHERE e.id = $1
    RETURNING `+employeeColumns,
		id, f.FirstName, f.LastName, f.Email, f.Position, f.Department, f.DateHired, f.Status, f.IsActive))
	if err != nil {
		return Employee{}, mapWriteError(err)
	}
	return emp, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, "DELETE FROM employees WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) LinkUser(ctx context.Context, employeeID, userID string) error {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, "UPDATE employees SET user_id = $2 WHERE id = $1", employeeID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) AttendanceTotals(ctx context.Context, employeeID string) (AttendanceTotals, error) {
	var out AttendanceTotals
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT COUNT(1),
           COUNT(1) FILTER (WHERE status = 'present'),
           COUNT(1) FILTER (WHERE status = 'absent')
    FROM attendance_records
    WHERE employee_id = $1
  `, employeeID).Scan(&out.TotalDays, &out.PresentDays, &out.AbsentDays)
	return out, err
}

// PerformanceTotals leaves AverageRating nil when the employee has no reviews.
func (s *Store) PerformanceTotals(ctx context.Context, employeeID string) (PerformanceTotals, error) {
	var out PerformanceTotals
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    SELECT AVG(rating)::float8, COUNT(1)
    FROM performance_reviews
    WHERE employee_id = $1
  `, employeeID).Scan(&out.AverageRating, &out.ReviewCount)
	return out, err
}
