package entities

import "time"

// Participant is one voter: a display name plus the set of days that work
// for them. The participant id is the key in Event.Participants; the name
// may change over time, the id never does.
type Participant struct {
	Name  string         `json:"name"`
	Dates []CalendarDate `json:"dates"`
}

// HasDate reports whether d is in the participant's set.
func (p Participant) HasDate(d CalendarDate) bool {
	for _, x := range p.Dates {
		if x == d {
			return true
		}
	}
	return false
}

// WithToggled returns the date set with d removed if present, added
// otherwise. The receiver's slice is not modified.
func (p Participant) WithToggled(d CalendarDate) []CalendarDate {
	if p.HasDate(d) {
		out := make([]CalendarDate, 0, len(p.Dates))
		for _, x := range p.Dates {
			if x != d {
				out = append(out, x)
			}
		}
		return out
	}
	out := make([]CalendarDate, 0, len(p.Dates)+1)
	out = append(out, p.Dates...)
	return append(out, d)
}

// Event is the aggregate root: one date-coordination poll. Participant ids
// are unique within the map, and the creator exists from the moment the
// event is created.
type Event struct {
	Code         string                 `json:"code"`
	Name         string                 `json:"name"`
	Window       DateWindow             `json:"window"`
	Participants map[string]Participant `json:"participants"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Clone returns a deep copy, so snapshots handed to subscribers cannot be
// mutated by later writes.
func (e *Event) Clone() *Event {
	if e == nil {
		return nil
	}
	out := *e
	out.Participants = make(map[string]Participant, len(e.Participants))
	for id, p := range e.Participants {
		cp := p
		cp.Dates = append([]CalendarDate(nil), p.Dates...)
		out.Participants[id] = cp
	}
	return &out
}
