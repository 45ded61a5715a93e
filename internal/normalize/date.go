package normalize

import (
	"strings"
	"time"
)

// DateLayout is the canonical calendar-date form used everywhere downstream.
const DateLayout = "2006-01-02"

// Years below this are treated as two-digit-year misparses and rejected.
const minYear = 1900

// Ordered explicit layouts; day-first variants come before month-first so
// ambiguous inputs like 03-04-2020 resolve to day-month-year.
var explicitLayouts = []string{
	"02-01-2006",
	"02/01/2006",
	"2006-01-02",
	"01/02/2006",
	"1-2-2006",
	"1/2/2006",
}

// Fallbacks for ISO timestamps and written month names.
var fallbackLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2 Jan 2006",
}

// NormalizeDate parses free-form date text into canonical yyyy-MM-dd form.
// Empty or unparseable input returns "", never a partial value.
func NormalizeDate(raw string) string {
	input := strings.TrimSpace(raw)
	if input == "" {
		return ""
	}

	for _, layout := range explicitLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return canonicalDate(t)
		}
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, input); err == nil {
			return canonicalDate(t)
		}
	}
	return ""
}

func canonicalDate(t time.Time) string {
	if t.Year() < minYear {
		return ""
	}
	return t.Format(DateLayout)
}
