package service

import (
	"sort"
	"strings"

	"github.com/google/uuid"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
)

// ReconcileState tracks where a caller is in the join flow.
type ReconcileState int

const (
	StateInput ReconcileState = iota
	StateConfirm
	StateResolved
)

// Outcome is the result of a name proposal or confirmation. When Resolved
// is false the caller must confirm or deny the matched identity.
type Outcome struct {
	Resolved bool   `json:"resolved"`
	ID       string `json:"id,omitempty"`
	Name     string `json:"name,omitempty"`

	MatchedID   string `json:"matched_id,omitempty"`
	MatchedName string `json:"matched_name,omitempty"`
}

// Reconciler decides whether a proposed display name collides with an
// existing participant and drives the confirm/deny exchange that settles
// whose identity the caller ends up with.
type Reconciler struct {
	state       ReconcileState
	matchedID   string
	matchedName string
}

func NewReconciler() *Reconciler {
	return &Reconciler{state: StateInput}
}

func (r *Reconciler) State() ReconcileState { return r.state }

// Propose checks candidate against the event's current participants. The
// entry keyed by callerID is skipped, so a caller reaffirming their own
// name is never flagged against themselves. An empty or whitespace-only
// candidate is ErrInvalidName and leaves the state untouched. While a
// collision awaits Confirm or Deny, further proposals are rejected.
func (r *Reconciler) Propose(candidate, callerID string, participants map[string]entities.Participant) (Outcome, error) {
	if r.state == StateConfirm {
		return Outcome{}, apperrors.ErrConfirmationPending
	}

	name := strings.TrimSpace(candidate)
	if name == "" {
		return Outcome{}, apperrors.ErrInvalidName
	}

	if id, existing, ok := MatchName(name, callerID, participants); ok {
		r.state = StateConfirm
		r.matchedID = id
		r.matchedName = existing
		return Outcome{MatchedID: id, MatchedName: existing}, nil
	}

	id := callerID
	if id == "" {
		id = uuid.NewString()
	}
	r.state = StateResolved
	return Outcome{Resolved: true, ID: id, Name: name}, nil
}

// Confirm adopts the matched identity after a collision.
func (r *Reconciler) Confirm() (Outcome, error) {
	if r.state != StateConfirm {
		return Outcome{}, apperrors.ErrNoPendingConfirmation
	}
	r.state = StateResolved
	return Outcome{Resolved: true, ID: r.matchedID, Name: r.matchedName}, nil
}

// Deny rejects the matched identity and returns to name input. No identity
// change occurs; the caller must propose a different name.
func (r *Reconciler) Deny() error {
	if r.state != StateConfirm {
		return apperrors.ErrNoPendingConfirmation
	}
	r.state = StateInput
	r.matchedID = ""
	r.matchedName = ""
	return nil
}

// MatchName is the collision rule on its own: trimmed, case-insensitive
// comparison against every participant except the one keyed by callerID.
// Participants are scanned in sorted-id order so the matched entry is the
// same on every call.
func MatchName(name, callerID string, participants map[string]entities.Participant) (matchedID, matchedName string, ok bool) {
	ids := make([]string, 0, len(participants))
	for id := range participants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	trimmed := strings.TrimSpace(name)
	for _, id := range ids {
		if id == callerID {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(participants[id].Name), trimmed) {
			return id, participants[id].Name, true
		}
	}
	return "", "", false
}
