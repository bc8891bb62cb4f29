package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"datefinder/internal/service"
)

type IdentityHandler struct {
	Service *service.EventService
}

func NewIdentityHandler(svc *service.EventService) *IdentityHandler {
	return &IdentityHandler{Service: svc}
}

// ProposeName runs the name-collision check. Accepted proposals are bound
// immediately; collisions come back as needs_confirmation with the
// matched identity, and the caller follows up with ConfirmName or simply
// proposes a different name.
func (h *IdentityHandler) ProposeName(w http.ResponseWriter, r *http.Request) {
	var req ProposeNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	out, err := h.Service.ProposeName(r.Context(), mux.Vars(r)["code"], req.Name, req.CallerID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(out))
}

// ConfirmName adopts the matched participant's identity after a collision.
func (h *IdentityHandler) ConfirmName(w http.ResponseWriter, r *http.Request) {
	var req ConfirmNameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}
	if req.ParticipantID == "" {
		writeBadRequest(w, "participant_id is required")
		return
	}

	out, err := h.Service.ConfirmName(r.Context(), mux.Vars(r)["code"], req.ParticipantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcomeResponse(out))
}

func outcomeResponse(out service.Outcome) NameOutcomeResponse {
	if out.Resolved {
		return NameOutcomeResponse{Status: "accepted", ID: out.ID, Name: out.Name}
	}
	return NameOutcomeResponse{
		Status:      "needs_confirmation",
		MatchedID:   out.MatchedID,
		MatchedName: out.MatchedName,
	}
}
