// Package security holds the municipal guard's dispatch modules.
package security

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"atende/internal/dispatch"
	"atende/internal/modules/input"
	id "atende/pkg/domain"
	"atende/pkg/requestcontext"
)

// ModuleTypePatrol is the module type bound to the patrol handler.
const ModuleTypePatrol id.ModuleType = "security.patrolRequest"

// PatrolStatus is the patrol request's local lifecycle vocabulary.
type PatrolStatus string

const (
	PatrolStatusPending   PatrolStatus = "pending"
	PatrolStatusScheduled PatrolStatus = "scheduled"
	PatrolStatusDone      PatrolStatus = "done"
)

var patrolTriStates = map[PatrolStatus]id.TriState{
	PatrolStatusPending:   id.TriStateOpen,
	PatrolStatusScheduled: id.TriStateInReview,
	PatrolStatusDone:      id.TriStateClosed,
}

// PatrolRequest is the domain record for a neighborhood patrol request.
type PatrolRequest struct {
	ID        id.RecordID
	TenantID  id.TenantID
	Protocol  id.ProtocolNumber
	ServiceID id.ServiceID
	Source    dispatch.Source
	Status    PatrolStatus
	Location  string
	Reason    string
	CreatedBy id.CitizenID
	CreatedAt time.Time
}

type patrolInput struct {
	Location string `mapstructure:"location" validate:"required"`
	Reason   string `mapstructure:"reason"`
}

// PatrolStore persists patrol requests.
type PatrolStore interface {
	Create(ctx context.Context, patrol *PatrolRequest) error
	FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*PatrolRequest, error)
}

// PatrolHandler materializes PatrolRequest records.
type PatrolHandler struct {
	store PatrolStore
}

func NewPatrolHandler(store PatrolStore) *PatrolHandler {
	return &PatrolHandler{store: store}
}

func (h *PatrolHandler) EntityName() string { return "PatrolRequest" }

func (h *PatrolHandler) Execute(ctx context.Context, action dispatch.ModuleAction) (dispatch.Result, error) {
	var in patrolInput
	if err := input.Decode(action.Data, &in); err != nil {
		return dispatch.Result{}, err
	}

	patrol := &PatrolRequest{
		ID:        id.RecordID(uuid.New()),
		TenantID:  action.TenantID,
		Protocol:  action.ProtocolNumber,
		ServiceID: action.ServiceID,
		Source:    action.Source,
		Status:    PatrolStatusPending,
		Location:  in.Location,
		Reason:    in.Reason,
		CreatedBy: action.CitizenID,
		CreatedAt: requestcontext.Now(ctx),
	}
	if err := h.store.Create(ctx, patrol); err != nil {
		return dispatch.Result{}, err
	}
	return patrolResult(patrol), nil
}

func (h *PatrolHandler) FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (dispatch.Result, error) {
	patrol, err := h.store.FindByProtocol(ctx, tenantID, number)
	if err != nil {
		return dispatch.Result{}, err
	}
	return patrolResult(patrol), nil
}

func (h *PatrolHandler) TriStateOf(localStatus string) (id.TriState, error) {
	tri, ok := patrolTriStates[PatrolStatus(localStatus)]
	if !ok {
		return "", fmt.Errorf("unknown patrol status %q", localStatus)
	}
	return tri, nil
}

func patrolResult(patrol *PatrolRequest) dispatch.Result {
	return dispatch.Result{
		RecordID:       patrol.ID,
		DisplayMessage: fmt.Sprintf("patrol request %s registered for %s", patrol.Protocol, patrol.Location),
		LocalStatus:    string(patrol.Status),
	}
}
