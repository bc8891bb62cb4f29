package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
	"datefinder/internal/realtime"
	"datefinder/internal/repository/memory"
)

// testNow pins the clock so selectability checks are stable.
var testNow = time.Date(2026, time.March, 10, 12, 0, 0, 0, time.Local)

func newTestService() *EventService {
	svc := NewEventService(memory.NewStore(), realtime.NewHub())
	svc.Now = func() time.Time { return testNow }
	return svc
}

func mustCreateEvent(t *testing.T, svc *EventService) *entities.Event {
	t.Helper()
	window := entities.DateWindow{Start: "2026-03-01", End: "2026-03-31"}
	event, err := svc.CreateEvent(context.Background(), "team offsite", window, "Ana", "")
	require.NoError(t, err)
	return event
}

func creatorID(t *testing.T, event *entities.Event) string {
	t.Helper()
	require.Len(t, event.Participants, 1)
	for id := range event.Participants {
		return id
	}
	return ""
}

func TestCreateEvent(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)

	assert.Len(t, event.Code, 8)
	assert.Equal(t, "team offsite", event.Name)

	id := creatorID(t, event)
	assert.NotEmpty(t, id)
	creator := event.Participants[id]
	assert.Equal(t, "Ana", creator.Name)
	assert.NotNil(t, creator.Dates)
	assert.Empty(t, creator.Dates)

	stored, err := svc.GetEvent(context.Background(), event.Code)
	require.NoError(t, err)
	assert.Equal(t, event.Code, stored.Code)
}

func TestCreateEventValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	window := entities.DateWindow{Start: "2026-03-01", End: "2026-03-31"}

	_, err := svc.CreateEvent(ctx, "  ", window, "Ana", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidName)

	_, err = svc.CreateEvent(ctx, "trip", window, "   ", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidName)

	reversed := entities.DateWindow{Start: "2026-03-31", End: "2026-03-01"}
	_, err = svc.CreateEvent(ctx, "trip", reversed, "Ana", "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidRange)
}

func TestToggleDateRoundTrip(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)
	ctx := context.Background()

	after, err := svc.ToggleDate(ctx, event.Code, id, "Ana", "2026-03-15")
	require.NoError(t, err)
	assert.True(t, after.Participants[id].HasDate("2026-03-15"))

	// toggling the same day again removes it
	after, err = svc.ToggleDate(ctx, event.Code, id, "Ana", "2026-03-15")
	require.NoError(t, err)
	assert.False(t, after.Participants[id].HasDate("2026-03-15"))

	stored, err := svc.GetEvent(ctx, event.Code)
	require.NoError(t, err)
	assert.Empty(t, stored.Participants[id].Dates)
}

func TestToggleDateRejectsUnselectable(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)
	ctx := context.Background()

	// pinned today is 2026-03-10
	_, err := svc.ToggleDate(ctx, event.Code, id, "Ana", "2026-03-09")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSelection)

	_, err = svc.ToggleDate(ctx, event.Code, id, "Ana", "2026-04-01")
	assert.ErrorIs(t, err, apperrors.ErrInvalidSelection)

	_, err = svc.ToggleDate(ctx, "no-such-event", id, "Ana", "2026-03-15")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestReplaceDates(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)
	ctx := context.Background()

	after, err := svc.ReplaceDates(ctx, event.Code, id, "Ana", []entities.CalendarDate{
		"2026-03-15", "2026-03-12", "2026-03-15", // duplicate collapses
	})
	require.NoError(t, err)
	assert.Equal(t, []entities.CalendarDate{"2026-03-15", "2026-03-12"}, after.Participants[id].Dates)

	// replacement is a full overwrite, not a merge
	after, err = svc.ReplaceDates(ctx, event.Code, id, "Ana", []entities.CalendarDate{"2026-03-20"})
	require.NoError(t, err)
	assert.Equal(t, []entities.CalendarDate{"2026-03-20"}, after.Participants[id].Dates)

	// one bad day rejects the whole set
	_, err = svc.ReplaceDates(ctx, event.Code, id, "Ana", []entities.CalendarDate{"2026-03-20", "2026-03-01"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidSelection)

	_, err = svc.ReplaceDates(ctx, event.Code, id, "  ", []entities.CalendarDate{"2026-03-20"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidName)
}

func TestProposeNameFlow(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	ctx := context.Background()

	// a fresh name is bound immediately
	out, err := svc.ProposeName(ctx, event.Code, "Bruno", "")
	require.NoError(t, err)
	require.True(t, out.Resolved)

	stored, err := svc.GetEvent(ctx, event.Code)
	require.NoError(t, err)
	require.Len(t, stored.Participants, 2)
	assert.Equal(t, "Bruno", stored.Participants[out.ID].Name)

	// proposing the creator's name collides
	out, err = svc.ProposeName(ctx, event.Code, "ana", "")
	require.NoError(t, err)
	assert.False(t, out.Resolved)
	assert.Equal(t, "Ana", out.MatchedName)

	confirmed, err := svc.ConfirmName(ctx, event.Code, out.MatchedID)
	require.NoError(t, err)
	assert.True(t, confirmed.Resolved)
	assert.Equal(t, "Ana", confirmed.Name)

	// the collision left no extra participant behind
	stored, err = svc.GetEvent(ctx, event.Code)
	require.NoError(t, err)
	assert.Len(t, stored.Participants, 2)
}

func TestConfirmNameUnknownParticipant(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)

	_, err := svc.ConfirmName(context.Background(), event.Code, "no-such-id")
	assert.ErrorIs(t, err, apperrors.ErrUnknownParticipant)
}

func TestResults(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)
	ctx := context.Background()

	out, err := svc.ProposeName(ctx, event.Code, "Bruno", "")
	require.NoError(t, err)

	_, err = svc.ReplaceDates(ctx, event.Code, id, "Ana", []entities.CalendarDate{"2026-03-15", "2026-03-12"})
	require.NoError(t, err)
	_, err = svc.ReplaceDates(ctx, event.Code, out.ID, "Bruno", []entities.CalendarDate{"2026-03-15"})
	require.NoError(t, err)

	_, tallies, err := svc.Results(ctx, event.Code, 10)
	require.NoError(t, err)
	require.Len(t, tallies, 2)
	assert.Equal(t, entities.CalendarDate("2026-03-15"), tallies[0].Date)
	assert.Equal(t, 2, tallies[0].Count)
	assert.Equal(t, []string{"Bruno"}, tallies[1].AbsentNames)
}

func TestMonthGrid(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)
	ctx := context.Background()

	_, err := svc.ToggleDate(ctx, event.Code, id, "Ana", "2026-03-15")
	require.NoError(t, err)
	stored, err := svc.GetEvent(ctx, event.Code)
	require.NoError(t, err)

	grid := svc.MonthGrid(stored, 2026, time.March, id)
	require.Len(t, grid, 31)

	byDate := make(map[entities.CalendarDate]CalendarDay, len(grid))
	for _, day := range grid {
		byDate[day.Date] = day
	}

	assert.Equal(t, PastDate, byDate["2026-03-09"].Status)
	assert.True(t, byDate["2026-03-10"].IsToday)
	assert.Equal(t, Selectable, byDate["2026-03-10"].Status)

	selected := byDate["2026-03-15"]
	assert.True(t, selected.Selected)
	assert.Equal(t, 1, selected.Count)
	assert.Equal(t, entities.HeatHigh, selected.Heat, "1 of 1 participants")
	assert.Equal(t, entities.HeatNone, byDate["2026-03-16"].Heat)
}

func TestToggleDatePublishesSnapshot(t *testing.T) {
	svc := newTestService()
	event := mustCreateEvent(t, svc)
	id := creatorID(t, event)

	ch, cancel := svc.Hub.Subscribe(event.Code)
	defer cancel()

	_, err := svc.ToggleDate(context.Background(), event.Code, id, "Ana", "2026-03-15")
	require.NoError(t, err)

	select {
	case snapshot := <-ch:
		require.NotNil(t, snapshot)
		assert.True(t, snapshot.Participants[id].HasDate("2026-03-15"))
	case <-time.After(time.Second):
		t.Fatal("no snapshot published")
	}
}

func TestPurgeEndedEvents(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	old := &entities.Event{
		Code:         "old00001",
		Name:         "long gone",
		Window:       entities.DateWindow{Start: "2020-01-01", End: "2020-01-31"},
		Participants: map[string]entities.Participant{},
	}
	require.NoError(t, store.CreateEvent(ctx, old))

	current := &entities.Event{
		Code:         "live0001",
		Name:         "still open",
		Window:       entities.DateWindow{Start: entities.Today(), End: entities.Today().Next()},
		Participants: map[string]entities.Participant{},
	}
	require.NoError(t, store.CreateEvent(ctx, current))

	jobs := NewJobService(store, realtime.NewHub())
	require.NoError(t, jobs.PurgeEndedEvents(ctx, 30))

	_, err := store.GetEvent(ctx, "old00001")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	_, err = store.GetEvent(ctx, "live0001")
	assert.NoError(t, err)
}

func TestPurgeNotifiesSubscribers(t *testing.T) {
	store := memory.NewStore()
	hub := realtime.NewHub()
	ctx := context.Background()

	old := &entities.Event{
		Code:         "old00001",
		Name:         "long gone",
		Window:       entities.DateWindow{Start: "2020-01-01", End: "2020-01-31"},
		Participants: map[string]entities.Participant{},
	}
	require.NoError(t, store.CreateEvent(ctx, old))

	ch, cancel := hub.Subscribe("old00001")
	defer cancel()

	jobs := NewJobService(store, hub)
	require.NoError(t, jobs.PurgeEndedEvents(ctx, 30))

	// a nil snapshot tells live subscribers the event is gone
	select {
	case snapshot := <-ch:
		assert.Nil(t, snapshot)
	case <-time.After(time.Second):
		t.Fatal("no nil snapshot delivered to live subscriber after purge")
	}
}
