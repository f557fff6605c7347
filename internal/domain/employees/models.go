package employees

import "time"

type Employee struct {
	ID         string    `json:"id"`
	UserID     *string   `json:"user_id"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Email      string    `json:"email"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	DateHired  time.Time `json:"date_hired"`
	Status     string    `json:"status"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

// Fields are the writable columns of an employee.
type Fields struct {
	FirstName  string
	LastName   string
	Email      string
	Position   string
	Department string
	DateHired  time.Time
	Status     string
	IsActive   bool
}

// Patch carries a partial update; nil members are left unchanged.
type Patch struct {
	FirstName  *string
	LastName   *string
	Email      *string
	Position   *string
	Department *string
	DateHired  *time.Time
	Status     *string
	IsActive   *bool
}

func (p Patch) Apply(f Fields) Fields {
	if p.FirstName != nil {
		f.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		f.LastName = *p.LastName
	}
	if p.Email != nil {
		f.Email = *p.Email
	}
	if p.Position != nil {
		f.Position = *p.Position
	}
	if p.Department != nil {
		f.Department = *p.Department
	}
	if p.DateHired != nil {
		f.DateHired = *p.DateHired
	}
	if p.Status != nil {
		f.Status = *p.Status
	}
	if p.IsActive != nil {
		f.IsActive = *p.IsActive
	}
	return f
}

func (e Employee) Fields() Fields {
	return Fields{
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Position:   e.Position,
		Department: e.Department,
		DateHired:  e.DateHired,
		Status:     e.Status,
		IsActive:   e.IsActive,
	}
}

type Filter struct {
	Department string
	Status     string
	IsActive   *bool
	HiredFrom  *time.Time
	HiredTo    *time.Time
	Search     string
	Ordering   string
}

type AttendanceTotals struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
}

type PerformanceTotals struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
}

type Insights struct {
	Employee    Employee
	Attendance  AttendanceTotals
	Performance PerformanceTotals
}

type CreateResult struct {
	Employee Employee
	Username string
}
