package performance

import "time"

type Review struct {
	ID                string    `json:"id"`
	EmployeeID        string    `json:"employee_id"`
	EmployeeName      string    `json:"employee_name"`
	ReviewPeriodStart time.Time `json:"review_period_start"`
	ReviewPeriodEnd   time.Time `json:"review_period_end"`
	ReviewerName      string    `json:"reviewer_name"`
	Rating            float64   `json:"rating"`
	Strengths         string    `json:"strengths"`
	Improvements      string    `json:"improvements"`
	Goals             string    `json:"goals"`
	OverallSummary    string    `json:"overall_summary"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

type Fields struct {
	EmployeeID        string
	ReviewPeriodStart time.Time
	ReviewPeriodEnd   time.Time
	ReviewerName      string
	Rating            float64
	Strengths         string
	Improvements      string
	Goals             string
	OverallSummary    string
}

func (r Review) Fields() Fields {
	return Fields{
		EmployeeID:        r.EmployeeID,
		ReviewPeriodStart: r.ReviewPeriodStart,
		ReviewPeriodEnd:   r.ReviewPeriodEnd,
		ReviewerName:      r.ReviewerName,
		Rating:            r.Rating,
		Strengths:         r.Strengths,
		Improvements:      r.Improvements,
		Goals:             r.Goals,
		OverallSummary:    r.OverallSummary,
	}
}

type Patch struct {
	EmployeeID        *string
	ReviewPeriodStart *time.Time
	ReviewPeriodEnd   *time.Time
	ReviewerName      *string
	Rating            *float64
	Strengths         *string
	Improvements      *string
	Goals             *string
	OverallSummary    *string
}

func (p Patch) Apply(f Fields) Fields {
	if p.EmployeeID != nil {
		f.EmployeeID = *p.EmployeeID
	}
	if p.ReviewPeriodStart != nil {
		f.ReviewPeriodStart = *p.ReviewPeriodStart
	}
	if p.ReviewPeriodEnd != nil {
		f.ReviewPeriodEnd = *p.ReviewPeriodEnd
	}
	if p.ReviewerName != nil {
		f.ReviewerName = *p.ReviewerName
	}
	if p.Rating != nil {
		f.Rating = *p.Rating
	}
	if p.Strengths != nil {
		f.Strengths = *p.Strengths
	}
	if p.Improvements != nil {
		f.Improvements = *p.Improvements
	}
	if p.Goals != nil {
		f.Goals = *p.Goals
	}
	if p.OverallSummary != nil {
		f.OverallSummary = *p.OverallSummary
	}
	return f
}

type Filter struct {
	EmployeeID       string
	ReviewerName     string
	PeriodStartAfter *time.Time
	PeriodEndBefore  *time.Time
	MinRating        *float64
	Search           string
	Ordering         string
}

type TopPerformer struct {
	EmployeeID    string  `json:"employee_id"`
	EmployeeName  string  `json:"employee_name"`
	AverageRating float64 `json:"average_rating"`
	ReviewCount   int     `json:"review_count"`
}
