package shared

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Query reads optional list filters, collecting malformed values as issues.
type Query struct {
	values    map[string][]string
	Validator *Validator
}

func NewQuery(r *http.Request) *Query {
	return &Query{values: r.URL.Query(), Validator: NewValidator()}
}

func (q *Query) String(key string) string {
	if vals, ok := q.values[key]; ok && len(vals) > 0 {
		return strings.TrimSpace(vals[0])
	}
	return ""
}

func (q *Query) Day(key string) *time.Time {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	parsed, ok := q.Validator.Date(key, raw)
	if !ok {
		return nil
	}
	return &parsed
}

func (q *Query) Bool(key string) *bool {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		q.Validator.Add(key, "must be true or false")
		return nil
	}
	return &parsed
}

func (q *Query) Float(key string) *float64 {
	raw := q.String(key)
	if raw == "" {
		return nil
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		q.Validator.Add(key, "must be a number")
		return nil
	}
	return &parsed
}

func (q *Query) Enum(key string, allowed []string) string {
	raw := q.String(key)
	q.Validator.Enum(key, raw, allowed, "must be one of: "+strings.Join(allowed, ", "))
	return strings.ToLower(raw)
}

// ID reads a UUID filter value.
func (q *Query) ID(key string) string {
	raw := q.String(key)
	if raw == "" {
		return ""
	}
	if err := uuid.Validate(raw); err != nil {
		q.Validator.Add(key, "must be a valid id")
		return ""
	}
	return raw
}
