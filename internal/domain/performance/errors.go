package performance

import "errors"

var (
	ErrNotFound        = errors.New("performance review not found")
	ErrInvalidPeriod   = errors.New("review period end must be on or after its start")
	ErrRatingRange     = errors.New("rating must be between 0 and 5")
	ErrUnknownEmployee = errors.New("employee does not exist")
)
