package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
)

// EventRepository stores event aggregates in Postgres. Participant date
// sets are kept as text[] of canonical "YYYY-MM-DD" strings, so values
// round-trip without any format conversion.
type EventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{DB: db}
}

func (r *EventRepository) CreateEvent(ctx context.Context, event *entities.Event) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Persistence("begin create event", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO events (code, name, start_date, end_date, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		event.Code, event.Name, event.Window.Start.String(), event.Window.End.String(), event.CreatedAt,
	)
	if err != nil {
		return apperrors.Persistence("insert event", err)
	}

	for id, p := range event.Participants {
		if err := upsertParticipant(ctx, tx, event.Code, id, p.Name, p.Dates); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Persistence("commit create event", err)
	}
	return nil
}

func (r *EventRepository) GetEvent(ctx context.Context, code string) (*entities.Event, error) {
	event := &entities.Event{Code: code, Participants: map[string]entities.Participant{}}

	var start, end string
	err := r.DB.QueryRowContext(ctx, `
		SELECT name, start_date, end_date, created_at
		FROM events WHERE code = $1`, code,
	).Scan(&event.Name, &start, &end, &event.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.Persistence("query event", err)
	}
	event.Window = entities.DateWindow{Start: entities.CalendarDate(start), End: entities.CalendarDate(end)}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT participant_id, name, dates
		FROM event_participants WHERE event_code = $1`, code)
	if err != nil {
		return nil, apperrors.Persistence("query participants", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, name string
		var raw []string
		if err := rows.Scan(&id, &name, pq.Array(&raw)); err != nil {
			return nil, apperrors.Persistence("scan participant", err)
		}
		dates := make([]entities.CalendarDate, 0, len(raw))
		for _, d := range raw {
			dates = append(dates, entities.CalendarDate(d))
		}
		event.Participants[id] = entities.Participant{Name: name, Dates: dates}
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("iterate participants", err)
	}

	return event, nil
}

func (r *EventRepository) ReplaceParticipantDates(ctx context.Context, code, participantID, name string, dates []entities.CalendarDate) error {
	var exists bool
	err := r.DB.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM events WHERE code = $1)`, code).Scan(&exists)
	if err != nil {
		return apperrors.Persistence("check event", err)
	}
	if !exists {
		return apperrors.ErrNotFound
	}
	return upsertParticipant(ctx, r.DB, code, participantID, name, dates)
}

func (r *EventRepository) DeleteEventsEndedBefore(ctx context.Context, cutoff entities.CalendarDate) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx, `DELETE FROM events WHERE end_date < $1 RETURNING code`, cutoff.String())
	if err != nil {
		return nil, apperrors.Persistence("delete ended events", err)
	}
	defer rows.Close()

	var deleted []string
	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return nil, apperrors.Persistence("scan deleted event", err)
		}
		deleted = append(deleted, code)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Persistence("iterate deleted events", err)
	}
	return deleted, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// upsertParticipant writes the participant row as a whole: a full
// replacement of name and date set, last write wins.
func upsertParticipant(ctx context.Context, db execer, code, participantID, name string, dates []entities.CalendarDate) error {
	raw := make([]string, 0, len(dates))
	for _, d := range dates {
		raw = append(raw, d.String())
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO event_participants (event_code, participant_id, name, dates)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_code, participant_id)
		DO UPDATE SET name = EXCLUDED.name, dates = EXCLUDED.dates`,
		code, participantID, name, pq.Array(raw),
	)
	if err != nil {
		return apperrors.Persistence(fmt.Sprintf("upsert participant %s", participantID), err)
	}
	return nil
}
