package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"datefinder/internal/entities"
	apperrors "datefinder/internal/errors"
)

func reconcilerParticipants() map[string]entities.Participant {
	return map[string]entities.Participant{
		"id-ana":   {Name: "Ana"},
		"id-bruno": {Name: "Bruno"},
	}
}

func TestProposeAcceptsFreshName(t *testing.T) {
	r := NewReconciler()
	out, err := r.Propose("Carla", "", reconcilerParticipants())
	require.NoError(t, err)

	assert.True(t, out.Resolved)
	assert.Equal(t, "Carla", out.Name)
	assert.NotEmpty(t, out.ID, "fresh caller gets a generated id")
	assert.Equal(t, StateResolved, r.State())
}

func TestProposeKeepsCallerID(t *testing.T) {
	r := NewReconciler()
	out, err := r.Propose("Carla", "my-device-id", reconcilerParticipants())
	require.NoError(t, err)
	assert.Equal(t, "my-device-id", out.ID)
}

func TestProposeRejectsEmptyName(t *testing.T) {
	r := NewReconciler()
	for _, bad := range []string{"", "   ", "\t\n"} {
		_, err := r.Propose(bad, "", reconcilerParticipants())
		assert.ErrorIs(t, err, apperrors.ErrInvalidName)
		assert.Equal(t, StateInput, r.State(), "invalid name leaves state untouched")
	}
}

func TestProposeCollision(t *testing.T) {
	r := NewReconciler()

	// trimmed, case-insensitive match
	out, err := r.Propose("  ana  ", "", reconcilerParticipants())
	require.NoError(t, err)

	assert.False(t, out.Resolved)
	assert.Equal(t, "id-ana", out.MatchedID)
	assert.Equal(t, "Ana", out.MatchedName)
	assert.Equal(t, StateConfirm, r.State())
}

func TestProposeSkipsCaller(t *testing.T) {
	// Reaffirming your own name is never a collision.
	r := NewReconciler()
	out, err := r.Propose("Ana", "id-ana", reconcilerParticipants())
	require.NoError(t, err)

	assert.True(t, out.Resolved)
	assert.Equal(t, "id-ana", out.ID)
}

func TestConfirmAdoptsMatchedIdentity(t *testing.T) {
	r := NewReconciler()
	_, err := r.Propose("bruno", "", reconcilerParticipants())
	require.NoError(t, err)

	out, err := r.Confirm()
	require.NoError(t, err)
	assert.True(t, out.Resolved)
	assert.Equal(t, "id-bruno", out.ID)
	assert.Equal(t, "Bruno", out.Name)
	assert.Equal(t, StateResolved, r.State())
}

func TestDenyReturnsToInput(t *testing.T) {
	r := NewReconciler()
	_, err := r.Propose("bruno", "", reconcilerParticipants())
	require.NoError(t, err)

	require.NoError(t, r.Deny())
	assert.Equal(t, StateInput, r.State())

	// a fresh proposal works after denying
	out, err := r.Propose("Benedito", "", reconcilerParticipants())
	require.NoError(t, err)
	assert.True(t, out.Resolved)
}

func TestProposeBlockedWhilePending(t *testing.T) {
	r := NewReconciler()
	_, err := r.Propose("ana", "", reconcilerParticipants())
	require.NoError(t, err)
	require.Equal(t, StateConfirm, r.State())

	// the pending match must be confirmed or denied first
	_, err = r.Propose("Carla", "", reconcilerParticipants())
	assert.ErrorIs(t, err, apperrors.ErrConfirmationPending)
	assert.Equal(t, StateConfirm, r.State())

	require.NoError(t, r.Deny())
	_, err = r.Propose("Carla", "", reconcilerParticipants())
	assert.NoError(t, err)
}

func TestConfirmDenyWithoutPendingMatch(t *testing.T) {
	r := NewReconciler()

	_, err := r.Confirm()
	assert.ErrorIs(t, err, apperrors.ErrNoPendingConfirmation)
	assert.ErrorIs(t, r.Deny(), apperrors.ErrNoPendingConfirmation)

	// resolved reconcilers reject further transitions too
	_, err = r.Propose("Carla", "", reconcilerParticipants())
	require.NoError(t, err)
	_, err = r.Confirm()
	assert.ErrorIs(t, err, apperrors.ErrNoPendingConfirmation)
}

func TestMatchNameDeterministic(t *testing.T) {
	// two participants with the same display name: the lowest id wins
	participants := map[string]entities.Participant{
		"id-z": {Name: "Ana"},
		"id-a": {Name: "ana"},
	}
	for i := 0; i < 50; i++ {
		id, _, ok := MatchName("ANA", "", participants)
		require.True(t, ok)
		assert.Equal(t, "id-a", id)
	}
}
