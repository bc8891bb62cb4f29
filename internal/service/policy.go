package service

import (
	"datefinder/internal/entities"
)

// Selectability classifies a calendar day against an event's window.
type Selectability string

const (
	Selectable    Selectability = "selectable"
	PastDate      Selectability = "past"
	OutsideWindow Selectability = "outside_window"
)

// Classify applies the selection rules in precedence order: a day strictly
// before today is past even when it sits inside the window; a day on or
// after today must fall inside [window.Start, window.End]. Today itself is
// selectable when the window contains it.
func Classify(d entities.CalendarDate, window entities.DateWindow, today entities.CalendarDate) Selectability {
	if d.Before(today) {
		return PastDate
	}
	if !window.Contains(d) {
		return OutsideWindow
	}
	return Selectable
}
