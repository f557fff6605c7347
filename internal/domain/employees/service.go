package employees

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"hrrecords/internal/domain/audit"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/platform/numeric"
)

type Service struct {
	Store       StoreAPI
	Tx          TxRunner
	Provisioner Provisioner
	Audit       Auditor
	Mailer      Mailer
	MailFrom    string
}

func NewService(store StoreAPI, tx TxRunner, provisioner Provisioner, auditor Auditor) *Service {
	return &Service{Store: store, Tx: tx, Provisioner: provisioner, Audit: auditor}
}

func normalize(f Fields) Fields {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.Email = strings.TrimSpace(f.Email)
	f.Position = strings.TrimSpace(f.Position)
	f.Department = strings.TrimSpace(f.Department)
	if f.Status == "" {
		f.Status = StatusActive
	}
	return f
}

func (s *Service) Get(ctx context.Context, id string) (Employee, error) {
	return s.Store.Get(ctx, id)
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (Employee, error) {
	return s.Store.GetByUserID(ctx, userID)
}

func (s *Service) List(ctx context.Context, filter Filter, limit, offset int) ([]Employee, int, error) {
	total, err := s.Store.Count(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("count employees: %w", err)
	}
	items, err := s.Store.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list employees: %w", err)
	}
	return items, total, nil
}

func (s *Service) Search(ctx context.Context, term string) ([]Employee, error) {
	return s.Store.Search(ctx, strings.TrimSpace(term), SearchLimit)
}

// Create inserts the employee and provisions its login credential in one
// transaction. A provisioning failure rolls the employee back.
func (s *Service) Create(ctx context.Context, fields Fields) (CreateResult, error) {
	var out CreateResult
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		emp, err := s.Store.Create(ctx, normalize(fields))
		if err != nil {
			return err
		}

		res, err := s.Provisioner.ProvisionForEmployee(ctx, auth.ProvisionTarget{
			EmployeeID: emp.ID,
			Email:      emp.Email,
			FirstName:  emp.FirstName,
			LastName:   emp.LastName,
			UserID:     emp.UserID,
		})
		if err != nil {
			return fmt.Errorf("provision credential: %w", err)
		}
		if res.Outcome == auth.ProvisionCreated {
			emp.UserID = &res.UserID
			out.Username = res.Username
		}
		out.Employee = emp

		return s.Audit.Record(ctx, audit.ActionCreate, EntityType, emp.ID, nil, emp)
	})
	if err != nil {
		return CreateResult{}, err
	}
	if out.Username != "" {
		slog.InfoContext(ctx, "provisioned employee credential", "employee_id", out.Employee.ID, "username", out.Username)
		s.sendCredentialNotice(ctx, out)
	}
	return out, nil
}

// sendCredentialNotice tells a newly provisioned employee their portal
// username. Delivery failures are logged; the employee already exists.
func (s *Service) sendCredentialNotice(ctx context.Context, res CreateResult) {
	if s.Mailer == nil {
		return
	}
	body := fmt.Sprintf("Hello %s,\n\nAn HR portal account has been created for you.\n\nUsername: %s\n\nSign in with the initial password issued by HR.\n",
		res.Employee.FirstName, res.Username)
	if err := s.Mailer.Send(ctx, s.MailFrom, res.Employee.Email, CredentialNoticeSubject, body); err != nil {
		slog.WarnContext(ctx, "credential notice failed", "employee_id", res.Employee.ID, "err", err)
	}
}

func (s *Service) Update(ctx context.Context, id string, fields Fields) (Employee, error) {
	return s.update(ctx, id, func(Fields) Fields { return fields })
}

func (s *Service) Patch(ctx context.Context, id string, patch Patch) (Employee, error) {
	return s.update(ctx, id, patch.Apply)
}

func (s *Service) update(ctx context.Context, id string, change func(Fields) Fields) (Employee, error) {
	var out Employee
	err := s.Tx.InTx(ctx, func(ctx context.Context) error {
		before, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		after, err := s.Store.Update(ctx, id, normalize(change(before.Fields())))
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

func (s *Service) Insights(ctx context.Context, id string) (Insights, error) {
	var out Insights
	err := s.Tx.InReadTx(ctx, func(ctx context.Context) error {
		emp, err := s.Store.Get(ctx, id)
		if err != nil {
			return err
		}
		attendance, err := s.Store.AttendanceTotals(ctx, id)
		if err != nil {
			return fmt.Errorf("attendance totals: %w", err)
		}
		performance, err := s.Store.PerformanceTotals(ctx, id)
		if err != nil {
			return fmt.Errorf("performance totals: %w", err)
		}
		performance.AverageRating = numeric.RoundPtr(performance.AverageRating, 2)
		out = Insights{Employee: emp, Attendance: attendance, Performance: performance}
		return nil
	})
	return out, err
}
