package reports

import "context"

// StoreAPI exposes the raw read models. Averages come back unrounded.
type StoreAPI interface {
	HeadcountTotals(ctx context.Context) (StatusCounts, error)
	HeadcountByDepartment(ctx context.Context) ([]DepartmentHeadcount, error)
	AttendanceByStatus(ctx context.Context, window Window) (map[string]int, error)
	ReviewAggregate(ctx context.Context, window Window) (RatingAggregate, error)
	TopPerformers(ctx context.Context, window Window, threshold float64) ([]Performer, error)
	SnapshotEmployee(ctx context.Context, employeeID string) (SnapshotEmployee, error)
	SnapshotAttendance(ctx context.Context, employeeID string) (SnapshotAttendance, error)
	SnapshotPerformance(ctx context.Context, employeeID string) (SnapshotPerformance, error)
}

type TxRunner interface {
	InReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

var _ StoreAPI = (*Store)(nil)
