package workorder

import (
	"testing"

	"github.com/google/uuid"
	"github.com/isp/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T) *WorkRequest {
	t.Helper()
	r, err := NewWorkRequest(RequestDetails{
		CustomerID: uuid.New(),
		PlanID:     uuid.New(),
		WorkType:   " alta ",
	}, 2, "op1")
	require.NoError(t, err)
	return r
}

func TestNewWorkRequest(t *testing.T) {
	r := newTestRequest(t)

	assert.Equal(t, StatusRegistered, r.Status)
	assert.Equal(t, "ALTA", r.WorkType)
	assert.Equal(t, 2, r.Coverage)
	require.Len(t, r.FollowUps, 1)
	assert.Equal(t, 1, r.FollowUps[0].Sequence)
	assert.True(t, r.FollowUps[0].IsOpen())
	assert.Equal(t, "op1", r.FollowUps[0].StartedBy)

	_, err := NewWorkRequest(RequestDetails{PlanID: uuid.New(), WorkType: "ALTA"}, 0, "op1")
	assert.Error(t, err)
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusRegistered.CanTransitionTo(StatusInReview))
	assert.False(t, StatusRegistered.CanTransitionTo(StatusApproved))
	assert.True(t, StatusApproved.CanTransitionTo(StatusVoided))
	assert.False(t, StatusFinished.CanTransitionTo(StatusVoided))
	assert.False(t, StatusVoided.CanTransitionTo(StatusRegistered))
}

func TestFollowUpChaining(t *testing.T) {
	r := newTestRequest(t)

	for _, s := range []Status{StatusInReview, StatusApproved, StatusInInstallation, StatusFinished} {
		_, err := r.ChangeStatus(s, "op2")
		require.NoError(t, err)
	}

	require.Len(t, r.FollowUps, 5)
	open := 0
	for i, f := range r.FollowUps {
		assert.Equal(t, i+1, f.Sequence)
		if f.IsOpen() {
			open++
		} else {
			assert.Equal(t, "op2", f.EndedBy)
		}
	}
	assert.Equal(t, 1, open)
	assert.Equal(t, StatusFinished, r.OpenFollowUp().Status)

	_, err := r.ChangeStatus(StatusVoided, "op2")
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestVoidSetsCancelledOn(t *testing.T) {
	r := newTestRequest(t)

	f, err := r.ChangeStatus(StatusVoided, "op3")

	require.NoError(t, err)
	assert.Equal(t, StatusVoided, f.Status)
	assert.NotNil(t, r.CancelledOn)
	assert.Error(t, r.Update(r.RequestDetails))
}

func TestNewContract(t *testing.T) {
	r := newTestRequest(t)

	_, err := NewContract(r, "user", false)
	assert.ErrorIs(t, err, shared.ErrInvalidState)

	for _, s := range []Status{StatusInReview, StatusApproved, StatusInInstallation, StatusFinished} {
		_, err := r.ChangeStatus(s, "op")
		require.NoError(t, err)
	}
	c, err := NewContract(r, "", true)

	require.NoError(t, err)
	assert.Equal(t, r.ID, c.RequestID)
	assert.Equal(t, r.PlanID, c.PlanID)
	assert.True(t, c.Modem)
	assert.NotEmpty(t, c.Username)
	assert.Equal(t, ContractStatusActive, c.ContractStatus)
}
