package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
	"datefinder/internal/realtime"
)

// EventStore is the persistence collaborator. ReplaceParticipantDates is a
// full replacement of one participant's entry, never a partial merge;
// concurrent replacements resolve as last write wins at the storage layer.
type EventStore interface {
	CreateEvent(ctx context.Context, event *entities.Event) error
	// GetEvent returns ErrNotFound when no event has the given code.
	GetEvent(ctx context.Context, code string) (*entities.Event, error)
	ReplaceParticipantDates(ctx context.Context, code, participantID, name string, dates []entities.CalendarDate) error
	// DeleteEventsEndedBefore removes events whose window ended before
	// cutoff and returns the codes of the removed events.
	DeleteEventsEndedBefore(ctx context.Context, cutoff entities.CalendarDate) ([]string, error)
}

// EventService owns event lifecycle and every participant mutation. All
// aggregation it serves is recomputed from the current snapshot; nothing
// derived is ever stored.
type EventService struct {
	Store EventStore
	Hub   *realtime.Hub

	// Now is the reference clock for "today". Tests pin it.
	Now func() time.Time
}

func NewEventService(store EventStore, hub *realtime.Hub) *EventService {
	return &EventService{Store: store, Hub: hub, Now: time.Now}
}

func (s *EventService) today() entities.CalendarDate {
	return entities.DateOf(s.Now())
}

// CreateEvent persists a new event whose only participant is the creator
// with an empty date set, and returns the stored aggregate. The window
// must already be normalized; reversed bounds are rejected before any
// write happens.
func (s *EventService) CreateEvent(ctx context.Context, name string, window entities.DateWindow, creatorName, creatorID string) (*entities.Event, error) {
	name = strings.TrimSpace(name)
	creatorName = strings.TrimSpace(creatorName)
	if name == "" || creatorName == "" {
		return nil, apperrors.ErrInvalidName
	}
	if window.Start.After(window.End) {
		return nil, apperrors.ErrInvalidRange
	}
	if creatorID == "" {
		creatorID = uuid.NewString()
	}

	event := &entities.Event{
		Code:   newEventCode(),
		Name:   name,
		Window: window,
		Participants: map[string]entities.Participant{
			creatorID: {Name: creatorName, Dates: []entities.CalendarDate{}},
		},
		CreatedAt: s.Now().UTC(),
	}

	if err := s.Store.CreateEvent(ctx, event); err != nil {
		return nil, err
	}
	log.Info().Str("event", event.Code).Str("name", name).Msg("event created")
	return event, nil
}

// GetEvent loads the aggregate by its shareable code.
func (s *EventService) GetEvent(ctx context.Context, code string) (*entities.Event, error) {
	return s.Store.GetEvent(ctx, code)
}

// ToggleDate flips one day in the participant's set and writes the whole
// set back. Days that are past or outside the window are rejected with
// ErrInvalidSelection before anything is written.
func (s *EventService) ToggleDate(ctx context.Context, code, participantID, participantName string, date entities.CalendarDate) (*entities.Event, error) {
	event, err := s.Store.GetEvent(ctx, code)
	if err != nil {
		return nil, err
	}
	if Classify(date, event.Window, s.today()) != Selectable {
		return nil, apperrors.ErrInvalidSelection
	}

	p := event.Participants[participantID]
	if n := strings.TrimSpace(participantName); n != "" {
		p.Name = n
	}
	if p.Name == "" {
		return nil, apperrors.ErrInvalidName
	}
	p.Dates = p.WithToggled(date)
	event.Participants[participantID] = p

	if err := s.Store.ReplaceParticipantDates(ctx, code, participantID, p.Name, p.Dates); err != nil {
		return nil, err
	}
	s.publish(event)
	return event, nil
}

// ReplaceDates is the raw collaborator contract: the given set replaces
// whatever was stored for the participant. Every day must be selectable.
func (s *EventService) ReplaceDates(ctx context.Context, code, participantID, participantName string, dates []entities.CalendarDate) (*entities.Event, error) {
	name := strings.TrimSpace(participantName)
	if name == "" {
		return nil, apperrors.ErrInvalidName
	}
	event, err := s.Store.GetEvent(ctx, code)
	if err != nil {
		return nil, err
	}

	today := s.today()
	deduped := make([]entities.CalendarDate, 0, len(dates))
	seen := make(map[entities.CalendarDate]struct{}, len(dates))
	for _, d := range dates {
		if Classify(d, event.Window, today) != Selectable {
			return nil, apperrors.ErrInvalidSelection
		}
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		deduped = append(deduped, d)
	}

	event.Participants[participantID] = entities.Participant{Name: name, Dates: deduped}
	if err := s.Store.ReplaceParticipantDates(ctx, code, participantID, name, deduped); err != nil {
		return nil, err
	}
	s.publish(event)
	return event, nil
}

// ProposeName runs the collision check against the event's current
// participants. When the proposal is accepted outright, the participant is
// created (or renamed) immediately so the aggregate always holds the
// resolved identity.
func (s *EventService) ProposeName(ctx context.Context, code, candidate, callerID string) (Outcome, error) {
	event, err := s.Store.GetEvent(ctx, code)
	if err != nil {
		return Outcome{}, err
	}

	out, err := NewReconciler().Propose(candidate, callerID, event.Participants)
	if err != nil || !out.Resolved {
		return out, err
	}
	return out, s.adoptIdentity(ctx, event, out)
}

// ConfirmName adopts an existing participant's identity after a collision.
// The caller's local binding becomes the matched id and name.
func (s *EventService) ConfirmName(ctx context.Context, code, matchedID string) (Outcome, error) {
	event, err := s.Store.GetEvent(ctx, code)
	if err != nil {
		return Outcome{}, err
	}
	p, ok := event.Participants[matchedID]
	if !ok {
		return Outcome{}, apperrors.ErrUnknownParticipant
	}
	return Outcome{Resolved: true, ID: matchedID, Name: p.Name}, nil
}

func (s *EventService) adoptIdentity(ctx context.Context, event *entities.Event, out Outcome) error {
	p := event.Participants[out.ID]
	p.Name = out.Name
	if p.Dates == nil {
		p.Dates = []entities.CalendarDate{}
	}
	event.Participants[out.ID] = p

	if err := s.Store.ReplaceParticipantDates(ctx, event.Code, out.ID, p.Name, p.Dates); err != nil {
		return err
	}
	s.publish(event)
	return nil
}

// Results computes the ranked best-dates list for the event.
func (s *EventService) Results(ctx context.Context, code string, limit int) (*entities.Event, []entities.DateTally, error) {
	event, err := s.Store.GetEvent(ctx, code)
	if err != nil {
		return nil, nil, err
	}
	return event, RankedDates(event.Participants, limit), nil
}

// CalendarDay is one cell of the month grid served to clients.
type CalendarDay struct {
	Date     entities.CalendarDate `json:"date"`
	Status   Selectability         `json:"status"`
	IsToday  bool                  `json:"is_today"`
	Count    int                   `json:"count"`
	Heat     entities.HeatLevel    `json:"heat"`
	Selected bool                  `json:"selected"`
}

// MonthGrid computes the calendar view for one month of an event:
// selectability, heat bucket and vote count per day, plus whether the
// given participant has the day selected.
func (s *EventService) MonthGrid(event *entities.Event, year int, month time.Month, participantID string) []CalendarDay {
	counts := VoteCounts(event.Participants)
	today := s.today()
	self := event.Participants[participantID]

	days := entities.MonthWindow(year, month).Days()
	grid := make([]CalendarDay, 0, len(days))
	for _, d := range days {
		grid = append(grid, CalendarDay{
			Date:     d,
			Status:   Classify(d, event.Window, today),
			IsToday:  d == today,
			Count:    counts[d],
			Heat:     HeatBucket(counts[d], len(event.Participants)),
			Selected: self.HasDate(d),
		})
	}
	return grid
}

func (s *EventService) publish(event *entities.Event) {
	if s.Hub == nil {
		return
	}
	s.Hub.Publish(event.Code, event)
	log.Debug().Str("event", event.Code).Int("participants", len(event.Participants)).Msg("snapshot published")
}

func newEventCode() string {
	return uuid.NewString()[:8]
}
