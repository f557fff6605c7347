package reports

import "time"

type StatusCounts struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	OnLeave    int `json:"on_leave"`
	Terminated int `json:"terminated"`
}

type DepartmentHeadcount struct {
	Department string `json:"department"`
	StatusCounts
}

type Headcount struct {
	Totals       StatusCounts          `json:"totals"`
	ByDepartment []DepartmentHeadcount `json:"by_department"`
}

const dayLayout = "2006-01-02"

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

func formatDay(t time.Time) string {
	return t.Format(dayLayout)
}

type AttendanceSummary struct {
	PeriodStart    string         `json:"period_start"`
	PeriodEnd      string         `json:"period_end"`
	Totals         map[string]int `json:"totals"`
	AttendanceRate float64        `json:"attendance_rate"`
}

// RatingAggregate is an unrounded average over a set of reviews.
type RatingAggregate struct {
	Average *float64
	Count   int
}

type Performer struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}

type PerformanceSummary struct {
	PeriodStart   string      `json:"period_start"`
	PeriodEnd     string      `json:"period_end"`
	AverageRating *float64    `json:"average_rating"`
	ReviewCount   int         `json:"review_count"`
	TopPerformers []Performer `json:"top_performers"`
}

type SnapshotEmployee struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Position   string `json:"position"`
	Status     string `json:"status"`
}

type SnapshotAttendance struct {
	TotalDays   int `json:"total_days"`
	PresentDays int `json:"present_days"`
	AbsentDays  int `json:"absent_days"`
}

type SnapshotPerformance struct {
	AverageRating *float64 `json:"average_rating"`
	ReviewCount   int      `json:"review_count"`
	LastReviewEnd *string  `json:"last_review_end"`
}

type EmployeeSnapshot struct {
	Employee    SnapshotEmployee    `json:"employee"`
	Attendance  SnapshotAttendance  `json:"attendance"`
	Performance SnapshotPerformance `json:"performance"`
}
