package portal

import "errors"

var (
	ErrNoEmployeeProfile = errors.New("no employee profile found for this account")
	ErrInactiveEmployee  = errors.New("employee account is inactive")
)
