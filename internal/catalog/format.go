package catalog

import (
	"strings"
	"time"
)

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

// ParseDate parses the date formats the backend emits.
func ParseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}

	return time.Time{}, false
}

// FormatDate renders a date like "Sat, Feb 15". Unparseable input is returned as is.
func FormatDate(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return s
	}

	return t.Format("Mon, Jan 2")
}

// FormatTime renders a time like "9:00 PM". It accepts ISO datetimes and
// bare "15:04" or "15:04:05" times.
func FormatTime(s string) string {
	if strings.Contains(s, "T") {
		if t, ok := ParseDate(s); ok {
			return t.Format("3:04 PM")
		}

		return s
	}

	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("3:04 PM")
		}
	}

	return s
}

// DatePart returns the YYYY-MM-DD prefix of an ISO timestamp.
func DatePart(s string) string {
	if idx := strings.IndexByte(s, 'T'); idx != -1 {
		return s[:idx]
	}

	return s
}
