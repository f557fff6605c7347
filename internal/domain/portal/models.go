package portal

import (
	"time"

	"hrrecords/internal/domain/attendance"
	"hrrecords/internal/domain/auth"
	"hrrecords/internal/domain/employees"
)

const (
	DashboardWindowDays = 30
	RecentRecordsLimit  = 15
)

// Session is the result of a successful portal login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      auth.User
	Employee  employees.Employee
}

type Stats struct {
	TotalDays      int     `json:"total_days"`
	PresentDays    int     `json:"present_days"`
	AbsentDays     int     `json:"absent_days"`
	AttendanceRate float64 `json:"attendance_rate"`
}

type Dashboard struct {
	Employee      employees.Employee
	PeriodStart   time.Time
	PeriodEnd     time.Time
	Stats         Stats
	RecentRecords []attendance.Record
}
