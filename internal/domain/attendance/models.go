package attendance

import "time"

type Record struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName string    `json:"employee_name"`
	Date         time.Time `json:"date"`
	Status       string    `json:"status"`
	CheckInTime  *string   `json:"check_in_time"`
	CheckOutTime *string   `json:"check_out_time"`
	Notes        string    `json:"notes"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Fields are the writable columns. Times are HH:MM:SS strings.
type Fields struct {
	EmployeeID   string
	Date         time.Time
	Status       string
	CheckInTime  *string
	CheckOutTime *string
	Notes        string
}

func (r Record) Fields() Fields {
	return Fields{
		EmployeeID:   r.EmployeeID,
		Date:         r.Date,
		Status:       r.Status,
		CheckInTime:  r.CheckInTime,
		CheckOutTime: r.CheckOutTime,
		Notes:        r.Notes,
	}
}

// Patch carries a partial update. ClearCheckIn/ClearCheckOut null the times.
type Patch struct {
	EmployeeID    *string
	Date          *time.Time
	Status        *string
	CheckInTime   *string
	CheckOutTime  *string
	Notes         *string
	ClearCheckIn  bool
	ClearCheckOut bool
}

func (p Patch) Apply(f Fields) Fields {
	if p.EmployeeID != nil {
		f.EmployeeID = *p.EmployeeID
	}
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.CheckInTime != nil {
		f.CheckInTime = p.CheckInTime
	}
	if p.ClearCheckIn {
		f.CheckInTime = nil
	}
	if p.CheckOutTime != nil {
		f.CheckOutTime = p.CheckOutTime
	}
	if p.ClearCheckOut {
		f.CheckOutTime = nil
	}
	if p.Notes != nil {
		f.Notes = *p.Notes
	}
	return f
}

type Filter struct {
	EmployeeID string
	Status     string
	DateAfter  *time.Time
	DateBefore *time.Time
	Search     string
	Ordering   string
}

type DailySummary struct {
	Date    time.Time      `json:"date"`
	Summary map[string]int `json:"summary"`
}

type UpsertResult struct {
	Record  Record
	Created bool
}

// WindowTotals counts one employee's records between two dates inclusive.
// Present includes remote days.
type WindowTotals struct {
	TotalDays   int
	PresentDays int
	AbsentDays  int
}
