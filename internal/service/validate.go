package service

import (
	"regexp"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

var timePattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

// parseSlot validates a YYYY-MM-DD date and an HH:MM time and returns the
// instant they name in loc.
func parseSlot(date, at string, loc *time.Location) (time.Time, error) {
	date, at = strings.TrimSpace(date), strings.TrimSpace(at)
	if date == "" || at == "" {
		return time.Time{}, invalidf("date and time are required")
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, invalidf("invalid date %q, expected YYYY-MM-DD", date)
	}
	if !timePattern.MatchString(at) {
		return time.Time{}, invalidf("invalid time %q, expected HH:MM (24-hour)", at)
	}
	clock, _ := time.Parse("15:04", at)
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, loc), nil
}

// parseFutureSlot is parseSlot plus a check that the slot lies strictly
// after now.
func parseFutureSlot(date, at string, loc *time.Location, now time.Time) (time.Time, error) {
	slot, err := parseSlot(date, at, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !slot.After(now) {
		return time.Time{}, invalidf("requested date and time must be in the future")
	}
	return slot, nil
}

func validDate(date string) bool {
	_, err := time.Parse(dateLayout, date)
	return err == nil
}

func validTime(at string) bool { return timePattern.MatchString(at) }

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func orUTC(loc *time.Location) *time.Location {
	if loc == nil {
		return time.UTC
	}
	return loc
}
