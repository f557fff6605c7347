package portal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/employees"
	"hrrecords/internal/platform/numeric"
)

type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (auth.User, error)
	StartSession(ctx context.Context, userID string) (string, time.Time, error)
	ResolveSession(ctx context.Context, token string) (auth.User, error)
	EndSession(ctx context.Context, token string) error
}

type Directory interface {
	GetByUserID(ctx context.Context, userID string) (employees.Employee, error)
}

type AttendanceBook interface {
	Today() time.Time
	Mark(ctx context.Context, employeeID string, fields attendance.Fields) (attendance.UpsertResult, error)
	WindowTotals(ctx context.Context, employeeID string, from, to time.Time) (attendance.WindowTotals, error)
	Recent(ctx context.Context, employeeID string, from time.Time, limit int) ([]attendance.Record, error)
}

type Service struct {
	Auth       Authenticator
	Employees  Directory
	Attendance AttendanceBook
}

func NewService(authn Authenticator, dir Directory, book AttendanceBook) *Service {
	return &Service{Auth: authn, Employees: dir, Attendance: book}
}

// Login verifies the credential and requires it to map to an active
// employee before any session row is written.
func (s *Service) Login(ctx context.Context, username, password string) (Session, error) {
	user, err := s.Auth.Authenticate(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	emp, err := s.profile(ctx, user.ID)
	if err != nil {
		return Session{}, err
	}
	token, expires, err := s.Auth.StartSession(ctx, user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("start session: %w", err)
	}
	return Session{Token: token, ExpiresAt: expires, User: user, Employee: emp}, nil
}

// Logout revokes the session when token is set. Unknown tokens are ignored.
func (s *Service) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.Auth.EndSession(ctx, token)
}

// Employee resolves the active employee linked to userID.
func (s *Service) Employee(ctx context.Context, userID string) (employees.Employee, error) {
	return s.profile(ctx, userID)
}

func (s *Service) profile(ctx context.Context, userID string) (employees.Employee, error) {
	emp, err := s.Employees.GetByUserID(ctx, userID)
	if errors.Is(err, employees.ErrNotFound) {
		return employees.Employee{}, ErrNoEmployeeProfile
	}
	if err != nil {
		return employees.Employee{}, err
	}
	if !emp.IsActive {
		return employees.Employee{}, ErrInactiveEmployee
	}
	return emp, nil
}

func (s *Service) Dashboard(ctx context.Context, userID string) (Dashboard, error) {
	emp, err := s.profile(ctx, userID)
	if err != nil {
		return Dashboard{}, err
	}

	end := s.Attendance.Today()
	start := end.AddDate(0, 0, -DashboardWindowDays)
	totals, err := s.Attendance.WindowTotals(ctx, emp.ID, start, end)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard totals: %w", err)
	}
	recent, err := s.Attendance.Recent(ctx, emp.ID, start, RecentRecordsLimit)
	if err != nil {
		return Dashboard{}, fmt.Errorf("dashboard records: %w", err)
	}

	return Dashboard{
		Employee:    emp,
		PeriodStart: start,
		PeriodEnd:   end,
		Stats: Stats{
			TotalDays:      totals.TotalDays,
			PresentDays:    totals.PresentDays,
			AbsentDays:     totals.AbsentDays,
			AttendanceRate: numeric.Round(numeric.Ratio(totals.PresentDays, totals.TotalDays)*100, 1),
		},
		RecentRecords: recent,
	}, nil
}

// MarkAttendance upserts today's record for the employee linked to userID.
func (s *Service) MarkAttendance(ctx context.Context, userID string, fields attendance.Fields) (attendance.UpsertResult, error) {
	emp, err := s.profile(ctx, userID)
	if err != nil {
		return attendance.UpsertResult{}, err
	}
	return s.Attendance.Mark(ctx, emp.ID, fields)
}
