package handler

import (
	"strings"
	"time"
)

// Layouts accepted for flight timestamps: RFC3339, the HTML datetime-local
// format used by the dashboard, and MySQL's DATETIME text form.  Values
// without a zone are read as UTC.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

const dateLayout = "2006-01-02"

func parseTimestamp(field, s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, validationError("Fecha inválida: " + field)
}

func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.UTC)
	if err != nil {
		return nil, validationError("Fecha inválida: date (YYYY-MM-DD)")
	}
	return &t, nil
}
