package entities

import "testing"

func TestParticipantWithToggled(t *testing.T) {
	p := Participant{Name: "Ana", Dates: []CalendarDate{"2026-03-05", "2026-03-07"}}

	added := p.WithToggled("2026-03-09")
	if len(added) != 3 || added[2] != "2026-03-09" {
		t.Fatalf("toggle-on result: %v", added)
	}

	removed := p.WithToggled("2026-03-05")
	if len(removed) != 1 || removed[0] != "2026-03-07" {
		t.Fatalf("toggle-off result: %v", removed)
	}

	// receiver untouched
	if len(p.Dates) != 2 {
		t.Fatalf("receiver mutated: %v", p.Dates)
	}
}

func TestEventClone(t *testing.T) {
	e := &Event{
		Code:   "abc123",
		Name:   "trip",
		Window: DateWindow{Start: "2026-03-01", End: "2026-03-31"},
		Participants: map[string]Participant{
			"p1": {Name: "Ana", Dates: []CalendarDate{"2026-03-05"}},
		},
	}

	clone := e.Clone()
	clone.Participants["p2"] = Participant{Name: "Bruno"}
	p := clone.Participants["p1"]
	p.Dates[0] = "2026-03-10"

	if len(e.Participants) != 1 {
		t.Fatalf("clone leaked new participant into original")
	}
	if e.Participants["p1"].Dates[0] != "2026-03-05" {
		t.Fatalf("clone shares date slice with original")
	}

	var nilEvent *Event
	if nilEvent.Clone() != nil {
		t.Fatalf("nil clone should stay nil")
	}
}
