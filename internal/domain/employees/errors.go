package employees

import "errors"

var (
	ErrNotFound   = errors.New("employee not found")
	ErrEmailTaken = errors.New("an employee with this email already exists")
)
