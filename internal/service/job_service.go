package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"datefinder/internal/entities"
	"datefinder/internal/realtime"
)

// JobService runs periodic maintenance over stored events.
type JobService struct {
	Store EventStore
	Hub   *realtime.Hub
}

func NewJobService(store EventStore, hub *realtime.Hub) *JobService {
	return &JobService{Store: store, Hub: hub}
}

// PurgeEndedEvents deletes events whose date window ended more than
// retentionDays ago. Their polls are long since settled and the shareable
// links are dead weight. Live subscribers of a purged event receive a nil
// snapshot, the signal that the event no longer exists.
func (s *JobService) PurgeEndedEvents(ctx context.Context, retentionDays int) error {
	if retentionDays < 0 {
		retentionDays = 0
	}
	cutoff := entities.DateOf(time.Now().AddDate(0, 0, -retentionDays))

	codes, err := s.Store.DeleteEventsEndedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("purge ended events: %w", err)
	}
	if s.Hub != nil {
		for _, code := range codes {
			s.Hub.Publish(code, nil)
		}
	}
	if len(codes) > 0 {
		log.Info().Int("deleted", len(codes)).Str("cutoff", cutoff.String()).Msg("purged ended events")
	}
	return nil
}
