package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

func newTestProtocol(t *testing.T) *Protocol {
	t.Helper()
	p, err := NewProtocol(
		id.ProtocolID(uuid.New()),
		id.TenantID(uuid.New()),
		id.CitizenID(uuid.New()),
		id.ServiceID(uuid.New()),
		"2026/000001",
		"Medical exam request",
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return p
}

func TestNewProtocol(t *testing.T) {
	p := newTestProtocol(t)
	assert.Equal(t, StatusCreated, p.Status)
	assert.True(t, p.Linkage.IsZero())

	_, err := NewProtocol(id.ProtocolID{}, id.TenantID(uuid.New()), id.CitizenID{}, id.ServiceID(uuid.New()), "2026/000001", "", time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))

	_, err = NewProtocol(id.ProtocolID(uuid.New()), id.TenantID(uuid.New()), id.CitizenID{}, id.ServiceID(uuid.New()), "", "", time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusCreated.CanTransition(StatusLinked))
	assert.True(t, StatusCreated.CanTransition(StatusCancelled))
	assert.True(t, StatusLinked.CanTransition(StatusInProgress))
	assert.True(t, StatusInProgress.CanTransition(StatusResolved))
	assert.True(t, StatusInProgress.CanTransition(StatusRejected))

	assert.False(t, StatusCreated.CanTransition(StatusResolved))
	assert.False(t, StatusLinked.CanTransition(StatusCreated))
	assert.False(t, StatusResolved.CanTransition(StatusCancelled))
	assert.False(t, StatusCancelled.CanTransition(StatusLinked))

	assert.True(t, StatusResolved.Terminal())
	assert.True(t, StatusRejected.Terminal())
	assert.True(t, StatusCancelled.Terminal())
	assert.False(t, StatusLinked.Terminal())
}

func TestCanLink(t *testing.T) {
	p := newTestProtocol(t)
	require.NoError(t, p.CanLink())

	p.ApplyLinkage(Linkage{ModuleEntity: "MedicalExam", RecordID: id.RecordID(uuid.New())}, time.Now())
	assert.Equal(t, StatusLinked, p.Status)
	assert.False(t, p.Linkage.IsZero())

	err := p.CanLink()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))

	// A cancelled protocol can never be linked, even without a linkage.
	cancelled := newTestProtocol(t)
	cancelled.Status = StatusCancelled
	err = cancelled.CanLink()
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}
