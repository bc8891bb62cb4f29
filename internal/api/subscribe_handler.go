package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
)

// Stream is the realtime subscription endpoint: a server-sent-event feed
// that delivers the current snapshot immediately, then a full replacement
// snapshot after every change. A "null" payload means the event does not
// exist (or was deleted); the subscription is released when the client
// disconnects.
func (h *EventHandler) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	code := mux.Vars(r)["code"]

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := h.Hub.Subscribe(code)
	defer cancel()

	event, err := h.Service.GetEvent(r.Context(), code)
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		// Terminal: tell the client the event is gone and stop.
		writeSSE(w, nil)
		flusher.Flush()
		return
	case err != nil:
		// Stream headers are already out; frame the error as an SSE
		// event instead of switching to a JSON response.
		writeSSEError(w, err)
		flusher.Flush()
		return
	}
	writeSSE(w, event)
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			return
		case snapshot, open := <-ch:
			if !open {
				return
			}
			writeSSE(w, snapshot)
			flusher.Flush()
		}
	}
}

func writeSSE(w http.ResponseWriter, event *entities.Event) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal snapshot")
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
}

func writeSSEError(w http.ResponseWriter, err error) {
	httpErr := apperrors.FromError(err)
	if httpErr.Code >= http.StatusInternalServerError {
		log.Error().Err(err).Msg("stream request failed")
	}
	data, merr := json.Marshal(errorResponse{Error: httpErr.Message, Code: httpErr.Code})
	if merr != nil {
		log.Error().Err(merr).Msg("failed to marshal stream error")
		return
	}
	fmt.Fprintf(w, "event: error\ndata: %s\n\n", data)
}
