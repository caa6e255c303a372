package service

import (
	"time"

	"clinicbook/internal/errors"
)

const dateLayout = "2006-01-02"

// Accepted clock formats; clients send either 24h or 12h styles.
var timeLayouts = []string{"15:04:05", "15:04", "3:04 PM", "3:04PM", "03:04 PM"}

// parseDate parses an ISO-8601 calendar date.
func parseDate(s string) (time.Time, error) {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, errors.BadRequest("invalid date, expected YYYY-MM-DD")
	}
	return d, nil
}

// normalizeTimeOfDay canonicalizes a time-of-day string to HH:MM:SS so slot
// comparisons are exact string matches.
func normalizeTimeOfDay(s string) (string, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("15:04:05"), nil
		}
	}
	return "", errors.BadRequest("invalid time, expected HH:MM, HH:MM:SS or h:mm AM/PM")
}
