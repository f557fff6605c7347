package performance

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

const reviewColumns = `r.id, r.employee_id, e.first_name || ' ' || e.last_name, r.review_period_start, r.review_period_end,
           r.reviewer_name, r.rating::float8, r.strengths, r.improvements, r.goals, r.overall_summary,
           r.created_at, r.updated_at`

const reviewFrom = " FROM performance_reviews r JOIN employees e ON e.id = r.employee_id"

var orderColumns = map[string]string{
	"review_period_start": "r.review_period_start",
	"review_period_end":   "r.review_period_end",
	"rating":              "r.rating",
	"employee__last_name": "e.last_name",
}

const defaultOrder = "r.review_period_end DESC, e.last_name ASC"

func scanReview(row pgx.Row) (Review, error) {
	var rev Review
	err := row.Scan(&rev.ID, &rev.EmployeeID, &rev.EmployeeName, &rev.ReviewPeriodStart, &rev.ReviewPeriodEnd,
		&rev.ReviewerName, &rev.Rating, &rev.Strengths, &rev.Improvements, &rev.Goals, &rev.OverallSummary,
		&rev.CreatedAt, &rev.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Review{}, ErrNotFound
	}
	return rev, err
}

func mapWriteError(err error) error {
	code, constraint := querier.Violation(err)
	switch {
	case code == querier.ForeignKeyViolation:
		return ErrUnknownEmployee
	case code == querier.CheckViolation && constraint == "performance_reviews_period_check":
		return ErrInvalidPeriod
	case code == querier.CheckViolation:
		return ErrRatingRange
	}
	return err
}

func (s *Store) Get(ctx context.Context, id string) (Review, error) {
	return scanReview(querier.From(ctx, s.DB).QueryRow(ctx, "SELECT "+reviewColumns+reviewFrom+" WHERE r.id = $1", id))
}

func buildFilterQuery(prefix string, filter Filter) (string, []any) {
	query := prefix + reviewFrom + " WHERE 1=1"
	var args []any
	if filter.EmployeeID != "" {
		args = append(args, filter.EmployeeID)
		query += fmt.Sprintf(" AND r.employee_id = $%d", len(args))
	}
	if filter.ReviewerName != "" {
		args = append(args, querier.LikePattern(filter.ReviewerName))
		query += fmt.Sprintf(` AND r.reviewer_name ILIKE $%d ESCAPE '\'`, len(args))
	}
	if filter.PeriodStartAfter != nil {
		args = append(args, *filter.PeriodStartAfter)
		query += fmt.Sprintf(" AND r.review_period_start >= $%d", len(args))
	}
	if filter.PeriodEndBefore != nil {
		args = append(args, *filter.PeriodEndBefore)
		query += fmt.Sprintf(" AND r.review_period_end <= $%d", len(args))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		query += fmt.Sprintf(" AND r.rating >= $%d", len(args))
	}
	if filter.Search != "" {
		args = append(args, querier.LikePattern(filter.Search))
		query += fmt.Sprintf(` AND (e.first_name ILIKE $%[1]d ESCAPE '\' OR e.last_name ILIKE $%[1]d ESCAPE '\'
      OR r.reviewer_name ILIKE $%[1]d ESCAPE '\' OR r.overall_summary ILIKE $%[1]d ESCAPE '\')`, len(args))
	}
	return query, args
}

func (s *Store) List(ctx context.Context, filter Filter, limit, offset int) ([]Review, error) {
	query, args := buildFilterQuery("SELECT "+reviewColumns, filter)
	query += " ORDER BY " + querier.OrderBy(filter.Ordering, orderColumns, defaultOrder) + ", r.id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := querier.From(ctx, s.DB).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Review{}
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rev)
	}
	return out, rows.Err()
}

func (s *Store) Count(ctx context.Context, filter Filter) (int, error) {
	query, args := buildFilterQuery("SELECT COUNT(1)", filter)
	var total int
	if err := querier.From(ctx, s.DB).QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (s *Store) Create(ctx context.Context, f Fields) (Review, error) {
	var id string
	err := querier.From(ctx, s.DB).QueryRow(ctx, `
    INSERT INTO performance_reviews (employee_id, review_period_start, review_period_end, reviewer_name, rating,
                                     strengths, improvements, goals, overall_summary)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
    RETURNING id
  `, f.EmployeeID, f.ReviewPeriodStart, f.ReviewPeriodEnd, f.ReviewerName, f.Rating,
		f.Strengths, f.Improvements, f.Goals, f.OverallSummary).Scan(&id)
	if err != nil {
		return Review{}, mapWriteError(err)
	}
	return s.Get(ctx, id)
}

func (s *Store) Update(ctx context.Context, id string, f Fields) (Review, error) {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, `
    UPDATE performance_reviews
    SET employee_id = $2, review_period_start = $3, review_period_end = $4, reviewer_name = $5, rating = $6,
        strengths = $7, improvements = $8, goals = $9, overall_summary = $10, updated_at = now()
    WHERE id = $1
  `, id, f.EmployeeID, f.ReviewPeriodStart, f.ReviewPeriodEnd, f.ReviewerName, f.Rating,
		f.Strengths, f.Improvements, f.Goals, f.OverallSummary)
	if err != nil {
		return Review{}, mapWriteError(err)
	}
	if tag.RowsAffected() == 0 {
		return Review{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *Store) Delete(ctx context.Context, id string) error {
	tag, err := querier.From(ctx, s.DB).Exec(ctx, "DELETE FROM performance_reviews WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// TopPerformers ranks employees by unrounded all-time average rating, ties
// broken by review count.
func (s *Store) TopPerformers(ctx context.Context, limit int) ([]TopPerformer, error) {
	rows, err := querier.From(ctx, s.DB).Query(ctx, `
    SELECT e.id, e.first_name || ' ' || e.last_name, AVG(r.rating)::float8 AS avg_rating, COUNT(r.id) AS review_count
    FROM performance_reviews r
    JOIN employees e ON e.id = r.employee_id
    GROUP BY e.id, e.first_name, e.last_name
    ORDER BY avg_rating DESC, review_count DESC, e.last_name, e.id
    LIMIT $1
  `, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []TopPerformer{}
	for rows.Next() {
		var tp TopPerformer
		if err := rows.Scan(&tp.EmployeeID, &tp.EmployeeName, &tp.AverageRating, &tp.ReviewCount); err != nil {
			return nil, err
		}
		out = append(out, tp)
	}
	return out, rows.Err()
}
