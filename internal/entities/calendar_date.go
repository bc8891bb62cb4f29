package entities

import (
	"fmt"
	"time"
)

const calendarDateLayout = "2006-01-02"

// CalendarDate is a calendar day in canonical "YYYY-MM-DD" form. Lexical
// ordering of the canonical form matches chronological ordering, so dates
// are compared as plain strings throughout.
type CalendarDate string

// ParseCalendarDate validates s against the canonical layout.
func ParseCalendarDate(s string) (CalendarDate, error) {
	t, err := time.Parse(calendarDateLayout, s)
	if err != nil {
		return "", fmt.Errorf("invalid calendar date %q: %w", s, err)
	}
	return DateOf(t), nil
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) CalendarDate {
	return CalendarDate(t.Format(calendarDateLayout))
}

// Today derives the current day from the local clock.
func Today() CalendarDate {
	return DateOf(time.Now())
}

func (d CalendarDate) String() string { return string(d) }

func (d CalendarDate) Before(other CalendarDate) bool { return d < other }

func (d CalendarDate) After(other CalendarDate) bool { return d > other }

// Time returns midnight local time on the day.
func (d CalendarDate) Time() time.Time {
	t, _ := time.ParseInLocation(calendarDateLayout, string(d), time.Local)
	return t
}

// Next returns the following calendar day.
func (d CalendarDate) Next() CalendarDate {
	return DateOf(d.Time().AddDate(0, 0, 1))
}
