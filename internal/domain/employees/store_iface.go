package employees

import (
	"context"

	"hrrecords/internal/domain/auth"
)

type StoreAPI interface {
	Get(ctx context.Context, id string) (Employee, error)
	GetByUserID(ctx context.Context, userID string) (Employee, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Employee, error)
	Count(ctx context.Context, filter Filter) (int, error)
	Search(ctx context.Context, term string, limit int) ([]Employee, error)
	Create(ctx context.Context, fields Fields) (Employee, error)
	Update(ctx context.Context, id string, fields Fields) (Employee, error)
	Delete(ctx context.Context, id string) error
	LinkUser(ctx context.Context, employeeID, userID string) error
	AttendanceTotals(ctx context.Context, employeeID string) (AttendanceTotals, error)
	PerformanceTotals(ctx context.Context, employeeID string) (PerformanceTotals, error)
}

type TxRunner interface {
	InTx(ctx context.Context, fn func(ctx context.Context) error) error
	InReadTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type Provisioner interface {
	ProvisionForEmployee(ctx context.Context, target auth.ProvisionTarget) (auth.ProvisionResult, error)
}

type Mailer interface {
	Send(ctx context.Context, from, to, subject, body string) error
}

type Auditor interface {
	Record(ctx context.Context, action, entityType, entityID string, before, after any) error
}

var _ StoreAPI = (*Store)(nil)
var _ auth.EmployeeLinker = (*Store)(nil)
