package entities

import (
	"time"

	apperrors "datefinder/internal/errors"
)

// DateWindow is the inclusive range of days eligible for selection in one
// event. It is fixed at event creation and never resized.
type DateWindow struct {
	Start CalendarDate `json:"start"`
	End   CalendarDate `json:"end"`
}

// NewDateWindow validates the bounds. Start after end is ErrInvalidRange.
func NewDateWindow(start, end CalendarDate) (DateWindow, error) {
	if start.After(end) {
		return DateWindow{}, apperrors.ErrInvalidRange
	}
	return DateWindow{Start: start, End: end}, nil
}

// MonthWindow derives the window for legacy events that only carry a month
// and a year: the first through the last day of that month.
func MonthWindow(year int, month time.Month) DateWindow {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	last := first.AddDate(0, 1, -1)
	return DateWindow{Start: DateOf(first), End: DateOf(last)}
}

// Contains is inclusive on both bounds.
func (w DateWindow) Contains(d CalendarDate) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Days enumerates every day in the window in order. The slice is built
// fresh on each call.
func (w DateWindow) Days() []CalendarDate {
	var days []CalendarDate
	for d := w.Start; !d.After(w.End); d = d.Next() {
		days = append(days, d)
	}
	return days
}
