package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"datefinder/internal/service"
)

type InviteHandler struct {
	Service *service.EventService
	Sender  *service.SenderService
}

func NewInviteHandler(svc *service.EventService, sender *service.SenderService) *InviteHandler {
	return &InviteHandler{Service: svc, Sender: sender}
}

// SendInvite shares the event link by email and/or SMS. Delivery is
// fire-and-forget: the response only confirms the invite was queued.
func (h *InviteHandler) SendInvite(w http.ResponseWriter, r *http.Request) {
	var req InviteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.Email == "" && req.Phone == "" {
		writeBadRequest(w, "email or phone is required")
		return
	}
	if req.FromName == "" {
		req.FromName = "A friend"
	}

	event, err := h.Service.GetEvent(r.Context(), mux.Vars(r)["code"])
	if err != nil {
		writeError(w, err)
		return
	}

	if req.Email != "" {
		h.Sender.SendInviteEmail(event, req.Email, req.FromName)
	}
	if req.Phone != "" {
		h.Sender.SendInviteSMS(event, req.Phone, req.FromName)
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"message": "invite queued",
		"url":     h.Sender.EventURL(event),
	})
}
