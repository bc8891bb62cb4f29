package api

import (
	"fmt"
	"net/http"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/gorilla/mux"

	"datefinder/internal/entities"
)

// DownloadICS serves one candidate date as an all-day iCalendar event, so
// the winning date can be dropped straight into a calendar app.
func (h *EventHandler) DownloadICS(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	event, err := h.Service.GetEvent(r.Context(), vars["code"])
	if err != nil {
		writeError(w, err)
		return
	}
	date, err := entities.ParseCalendarDate(vars["date"])
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//datefinder//EN")

	vevent := cal.AddEvent(fmt.Sprintf("%s-%s@datefinder", event.Code, date))
	vevent.SetDtStampTime(time.Now().UTC())
	vevent.SetAllDayStartAt(date.Time())
	vevent.SetAllDayEndAt(date.Next().Time())
	vevent.SetSummary(event.Name)
	vevent.SetDescription(fmt.Sprintf("Date picked with DateFinder (%d participants)", len(event.Participants)))

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-%s.ics", event.Code, date))
	fmt.Fprint(w, cal.Serialize())
}
