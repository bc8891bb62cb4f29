package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
	"datefinder/internal/realtime"
	"datefinder/internal/service"
)

type EventHandler struct {
	Service     *service.EventService
	Hub         *realtime.Hub
	RankedLimit int
}

func NewEventHandler(svc *service.EventService, hub *realtime.Hub, rankedLimit int) *EventHandler {
	if rankedLimit <= 0 {
		rankedLimit = service.DefaultRankedLimit
	}
	return &EventHandler{Service: svc, Hub: hub, RankedLimit: rankedLimit}
}

func (h *EventHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	window, err := windowFromRequest(req)
	if err != nil {
		if errors.Is(err, apperrors.ErrInvalidRange) {
			writeError(w, err)
		} else {
			writeBadRequest(w, err.Error())
		}
		return
	}

	event, err := h.Service.CreateEvent(r.Context(), req.Name, window, req.CreatorName, req.CreatorID)
	if err != nil {
		writeError(w, err)
		return
	}

	var creatorID string
	for id := range event.Participants {
		creatorID = id
	}
	writeJSON(w, http.StatusCreated, CreateEventResponse{
		Code:      event.Code,
		CreatorID: creatorID,
		Window:    event.Window,
	})
}

func (h *EventHandler) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetEvent(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// GetCalendar serves the month grid the calendar view renders: one entry
// per day with selectability, heat bucket and the caller's own selection.
func (h *EventHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	event, err := h.Service.GetEvent(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	// Default to the window's first month when not asked for one.
	start := event.Window.Start.Time()
	year, month := start.Year(), start.Month()
	if y := r.URL.Query().Get("year"); y != "" {
		parsed, err := strconv.Atoi(y)
		if err != nil {
			writeBadRequest(w, "year must be a number")
			return
		}
		year = parsed
	}
	if m := r.URL.Query().Get("month"); m != "" {
		parsed, err := strconv.Atoi(m)
		if err != nil || parsed < 1 || parsed > 12 {
			writeBadRequest(w, "month must be between 1 and 12")
			return
		}
		month = time.Month(parsed)
	}

	days := h.Service.MonthGrid(event, year, month, r.URL.Query().Get("participant_id"))
	writeJSON(w, http.StatusOK, CalendarResponse{Month: int(month), Year: year, Days: days})
}

func (h *EventHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	limit := h.RankedLimit
	if l := r.URL.Query().Get("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	event, best, err := h.Service.Results(r.Context(), mux.Vars(r)["code"], limit)
	if err != nil {
		writeError(w, err)
		return
	}

	participants := make([]ParticipantSummary, 0, len(event.Participants))
	for id, p := range event.Participants {
		participants = append(participants, ParticipantSummary{ID: id, Name: p.Name, Dates: p.Dates})
	}
	sort.Slice(participants, func(i, j int) bool { return participants[i].ID < participants[j].ID })

	writeJSON(w, http.StatusOK, ResultsResponse{
		EventName:    event.Name,
		Window:       event.Window,
		Participants: participants,
		BestDates:    best,
	})
}

func (h *EventHandler) ToggleDate(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req ToggleDateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	date, err := entities.ParseCalendarDate(req.Date)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	event, err := h.Service.ToggleDate(r.Context(), vars["code"], vars["participantID"], req.Name, date)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

func (h *EventHandler) ReplaceDates(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	var req ReplaceDatesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	dates := make([]entities.CalendarDate, 0, len(req.Dates))
	for _, raw := range req.Dates {
		d, err := entities.ParseCalendarDate(raw)
		if err != nil {
			writeBadRequest(w, err.Error())
			return
		}
		dates = append(dates, d)
	}

	event, err := h.Service.ReplaceDates(r.Context(), vars["code"], vars["participantID"], req.Name, dates)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, event)
}

// windowFromRequest accepts either explicit start/end bounds or the legacy
// month+year form.
func windowFromRequest(req CreateEventRequest) (entities.DateWindow, error) {
	if req.Start == "" && req.End == "" && req.Year != 0 {
		if req.Month < 1 || req.Month > 12 {
			return entities.DateWindow{}, fmt.Errorf("month must be between 1 and 12, got %d", req.Month)
		}
		return entities.MonthWindow(req.Year, time.Month(req.Month)), nil
	}

	start, err := entities.ParseCalendarDate(req.Start)
	if err != nil {
		return entities.DateWindow{}, err
	}
	end, err := entities.ParseCalendarDate(req.End)
	if err != nil {
		return entities.DateWindow{}, err
	}
	return entities.NewDateWindow(start, end)
}
