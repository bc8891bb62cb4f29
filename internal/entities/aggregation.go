package entities

// DateTally is the derived per-date aggregation result. It is recomputed
// on every read and never persisted.
type DateTally struct {
	Date        CalendarDate `json:"date"`
	Count       int          `json:"count"`
	VoterNames  []string     `json:"voter_names"`
	AbsentNames []string     `json:"absent_names"`
}

// HeatLevel buckets a date's share of votes for rendering.
type HeatLevel string

const (
	HeatNone   HeatLevel = "none"
	HeatLow    HeatLevel = "low"
	HeatMedium HeatLevel = "medium"
	HeatHigh   HeatLevel = "high"
)
