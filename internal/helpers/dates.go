package helpers

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	DateLayout = "02/01/06"
	TimeLayout = "15:04"
)

// TruncateToDay strips the time of day, keeping t's location.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// IsFutureDate reports whether t falls on now's day or later. Only the
// calendar date in now's location is compared.
func IsFutureDate(t, now time.Time) bool {
	day := TruncateToDay(t.In(now.Location()))
	return !day.Before(TruncateToDay(now))
}

// IsFutureDateText parses a dd/mm/yy date and applies IsFutureDate.
func IsFutureDateText(text string, now time.Time) bool {
	d, err := ParseDate(text, now.Location())
	if err != nil {
		return false
	}
	return IsFutureDate(d, now)
}

// ParseDate reads dd/mm/yy as midnight of year 2000+yy in loc. Day and
// month overflow roll into the following month or year.
func ParseDate(text string, loc *time.Location) (time.Time, error) {
	if !ValidateDate(text) {
		return time.Time{}, fmt.Errorf("invalid date %q", text)
	}
	parts := strings.Split(text, "/")
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	year, _ := strconv.Atoi(parts[2])
	return time.Date(2000+year, time.Month(month), day, 0, 0, 0, 0, loc), nil
}

// ComposeDateTime joins a dd/mm/yy date and an hh:mm time into one
// timestamp in loc.
func ComposeDateTime(dateText, timeText string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	d, err := ParseDate(dateText, loc)
	if err != nil {
		return time.Time{}, err
	}
	if !ValidateTime(timeText) {
		return time.Time{}, fmt.Errorf("invalid time %q", timeText)
	}
	digits := strings.ReplaceAll(timeText, ":", "")
	hour, _ := strconv.Atoi(digits[:2])
	minute, _ := strconv.Atoi(digits[2:])
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, loc), nil
}

// SplitDateTime formats t back into the dd/mm/yy and hh:mm form inputs.
func SplitDateTime(t time.Time) (string, string) {
	return t.Format(DateLayout), t.Format(TimeLayout)
}
