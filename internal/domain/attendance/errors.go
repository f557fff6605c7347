package attendance

import "errors"

var (
	ErrNotFound        = errors.New("attendance record not found")
	ErrDuplicateDay    = errors.New("attendance already recorded for this employee and date")
	ErrUnknownEmployee = errors.New("employee does not exist")
	ErrReasonRequired  = errors.New("a reason is required for absences")
)
