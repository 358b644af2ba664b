// Package schedule holds the client-side half of the booking calendar:
// which dates a business can even be booked on, how a day partitions
// into slots, and how availability responses are applied. Everything
// authoritative about conflicts stays with the backend.
package schedule

import (
	"strings"
	"time"
)

var weekdayNames = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdaySet is the set of weekdays a business is open.
type WeekdaySet map[time.Weekday]struct{}

// EligibleWeekdays derives the open-weekday set from the business's
// declared day names, matched case-insensitively against the seven
// canonical names. Unrecognized names contribute nothing; they are
// returned so the caller can log them.
func EligibleWeekdays(days []string) (WeekdaySet, []string) {
	set := make(WeekdaySet, len(days))
	var unrecognized []string
	for _, name := range days {
		wd, ok := weekdayNames[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			unrecognized = append(unrecognized, name)
			continue
		}
		set[wd] = struct{}{}
	}
	return set, unrecognized
}

// Contains reports whether the weekday is in the set.
func (s WeekdaySet) Contains(d time.Weekday) bool {
	_, ok := s[d]
	return ok
}

// IsDateSelectable reports whether a date can be offered for booking:
// it must be today or later, and fall on an open weekday. Today stays
// selectable even after closing time; the availability procedure is the
// one that marks passed slots busy.
func IsDateSelectable(date time.Time, open WeekdaySet, now time.Time) bool {
	if dateOnly(date).Before(dateOnly(now)) {
		return false
	}
	return open.Contains(date.Weekday())
}

// NextSelectableDate returns the earliest selectable date at or after
// from, or false if the set is empty.
func NextSelectableDate(from time.Time, open WeekdaySet) (time.Time, bool) {
	if len(open) == 0 {
		return time.Time{}, false
	}
	d := dateOnly(from)
	for i := 0; i < 7; i++ {
		if open.Contains(d.Weekday()) {
			return d, true
		}
		d = d.AddDate(0, 0, 1)
	}
	return time.Time{}, false
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
