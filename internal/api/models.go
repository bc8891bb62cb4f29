package api

import (
	"datefinder/internal/entities"
	"datefinder/internal/service"
)

// Event creation
type CreateEventRequest struct {
	Name string `json:"name"`

	// Either an explicit window...
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`
	// ...or the legacy month form (month 1-12 plus year).
	Month int `json:"month,omitempty"`
	Year  int `json:"year,omitempty"`

	CreatorName string `json:"creator_name"`
	CreatorID   string `json:"creator_id,omitempty"`
}

type CreateEventResponse struct {
	Code      string              `json:"code"`
	CreatorID string              `json:"creator_id"`
	Window    entities.DateWindow `json:"window"`
}

// Date mutation
type ToggleDateRequest struct {
	Date string `json:"date"`
	Name string `json:"name,omitempty"`
}

type ReplaceDatesRequest struct {
	Name  string   `json:"name"`
	Dates []string `json:"dates"`
}

// Identity reconciliation
type ProposeNameRequest struct {
	Name     string `json:"name"`
	CallerID string `json:"caller_id,omitempty"`
}

type NameOutcomeResponse struct {
	Status      string `json:"status"` // "accepted" | "needs_confirmation"
	ID          string `json:"id,omitempty"`
	Name        string `json:"name,omitempty"`
	MatchedID   string `json:"matched_id,omitempty"`
	MatchedName string `json:"matched_name,omitempty"`
}

type ConfirmNameRequest struct {
	ParticipantID string `json:"participant_id"`
}

// Read models
type CalendarResponse struct {
	Month int                   `json:"month"`
	Year  int                   `json:"year"`
	Days  []service.CalendarDay `json:"days"`
}

type ParticipantSummary struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Dates []entities.CalendarDate `json:"dates"`
}

type ResultsResponse struct {
	EventName    string               `json:"event_name"`
	Window       entities.DateWindow  `json:"window"`
	Participants []ParticipantSummary `json:"participants"`
	BestDates    []entities.DateTally `json:"best_dates"`
}

// Invitations
type InviteRequest struct {
	Email    string `json:"email,omitempty"`
	Phone    string `json:"phone,omitempty"`
	FromName string `json:"from_name"`
}
