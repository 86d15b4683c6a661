package utils

import (
	"log"
	"time"
)

// DateLayout is the sortable calendar date format used for closed dates.
const DateLayout = "2006-01-02"

// LoadLocation resolves a time zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("Failed to load location %q, using UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// PrettyDate renders t for human readable messages.
func PrettyDate(t time.Time) string {
	return t.Format("02 Jan 2006 15:04 MST")
}
