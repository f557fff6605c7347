package reports

import "errors"

var (
	ErrEmployeeNotFound = errors.New("employee not found")
	ErrInvalidWindow    = errors.New("report window must be between 1 and 3650 days")
)
