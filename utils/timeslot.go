package utils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the wire and storage format of appointment dates
const DateLayout = "2006-01-02"

// clockPattern accepts H:MM and HH:MM in 24-hour form
var clockPattern = regexp.MustCompile(`^([0-1]?[0-9]|2[0-3]):([0-5][0-9])$`)

// TimeFormatError reports a malformed date, time or weekday value
type TimeFormatError struct {
	Field   string
	Message string
}

func (e *TimeFormatError) Error() string {
	return e.Message
}

// ParseDate parses a strict YYYY-MM-DD calendar date
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, &TimeFormatError{Field: "appointment_date", Message: fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", s)}
	}
	return d, nil
}

// ParseClock parses an H:MM or HH:MM time of day and returns minutes after midnight
func ParseClock(s string) (int, error) {
	m := clockPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, &TimeFormatError{Field: "appointment_time", Message: fmt.Sprintf("invalid time %q, expected HH:MM", s)}
	}
	hours, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	return hours*60 + minutes, nil
}

// FormatClock renders minutes after midnight as zero-padded HH:MM
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// NormalizeClock parses s and re-renders it zero-padded, so "9:00" becomes "09:00"
func NormalizeClock(s string) (string, error) {
	m, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return FormatClock(m), nil
}

// Slots enumerates slot start times from start (inclusive), stepping by step
// minutes, keeping only slots whose full duration ends by end.
func Slots(start, end, step, duration int) []string {
	slots := []string{}
	if step <= 0 {
		return slots
	}
	for t := start; t+duration <= end; t += step {
		slots = append(slots, FormatClock(t))
	}
	return slots
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// NormalizeWeekdays validates a comma separated list of English weekday names
// and returns it in canonical form, e.g. "monday, tuesday" -> "Monday,Tuesday".
func NormalizeWeekdays(list string) (string, error) {
	seen := map[time.Weekday]bool{}
	var names []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		wd, ok := weekdays[strings.ToLower(part)]
		if !ok {
			return "", &TimeFormatError{Field: "available_days", Message: fmt.Sprintf("unknown weekday %q", part)}
		}
		if !seen[wd] {
			seen[wd] = true
			names = append(names, wd.String())
		}
	}
	if len(names) == 0 {
		return "", &TimeFormatError{Field: "available_days", Message: "at least one weekday is required"}
	}
	return strings.Join(names, ","), nil
}
