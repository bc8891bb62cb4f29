package memory

import (
	"context"
	"fmt"
	"sync"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
)

// Store is an in-memory event store used by tests and by the server when
// no database is configured. All reads hand out deep copies so callers
// can never mutate stored state behind the lock.
type Store struct {
	mu     sync.RWMutex
	events map[string]*entities.Event
}

func NewStore() *Store {
	return &Store{events: make(map[string]*entities.Event)}
}

func (s *Store) CreateEvent(_ context.Context, event *entities.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.events[event.Code]; ok {
		return apperrors.Persistence("create event", fmt.Errorf("event code %q already exists", event.Code))
	}
	s.events[event.Code] = event.Clone()
	return nil
}

func (s *Store) GetEvent(_ context.Context, code string) (*entities.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[code]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return event.Clone(), nil
}

func (s *Store) ReplaceParticipantDates(_ context.Context, code, participantID, name string, dates []entities.CalendarDate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[code]
	if !ok {
		return apperrors.ErrNotFound
	}
	event.Participants[participantID] = entities.Participant{
		Name:  name,
		Dates: append([]entities.CalendarDate(nil), dates...),
	}
	return nil
}

func (s *Store) DeleteEventsEndedBefore(_ context.Context, cutoff entities.CalendarDate) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted []string
	for code, event := range s.events {
		if event.Window.End.Before(cutoff) {
			delete(s.events, code)
			deleted = append(deleted, code)
		}
	}
	return deleted, nil
}
