package shared

import (
	"strings"
	"time"
)

const DayLayout = "2006-01-02"

// ParseDay accepts YYYY-MM-DD only. An empty value yields the zero time.
func ParseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(DayLayout, value)
}

// ParseClock accepts HH:MM or HH:MM:SS and normalises to HH:MM:SS.
func ParseClock(value string) (string, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.Format("15:04:05"), nil
		}
	}
	_, err := time.Parse("15:04:05", value)
	return "", err
}

func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}
