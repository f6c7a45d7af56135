package health

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

// ModuleTypeHomeCare is the module type bound to the home care handler.
const ModuleTypeHomeCare id.ModuleType = "health.homeCare"

// HomeCareStatus is the visit's local lifecycle vocabulary.
type HomeCareStatus string

const (
	HomeCareStatusRequested HomeCareStatus = "requested"
	HomeCareStatusScheduled HomeCareStatus = "scheduled"
	HomeCareStatusActive    HomeCareStatus = "active"
	HomeCareStatusEnded     HomeCareStatus = "ended"
)

var homeCareTriStates = map[HomeCareStatus]id.TriState{
	HomeCareStatusRequested: id.TriStateOpen,
	HomeCareStatusScheduled: id.TriStateInReview,
	HomeCareStatusActive:    id.TriStateInReview,
	HomeCareStatusEnded:     id.TriStateClosed,
}

// HomeCareVisit is the domain record for a home care request. Citizens often
// resubmit these with corrected details, so the handler upserts by protocol
// number instead of failing on the second submission.
type HomeCareVisit struct {
	ID          id.RecordID
	TenantID    id.TenantID
	Protocol    id.ProtocolNumber
	ServiceID   id.ServiceID
	Source      dispatch.Source
	Status      HomeCareStatus
	PatientName string
	Address     string
	CareType    string
	CreatedBy   id.CitizenID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type homeCareInput struct {
	PatientName string `mapstructure:"patientName" validate:"required"`
	Address     string `mapstructure:"address" validate:"required"`
	CareType    string `mapstructure:"careType" validate:"required"`
}

// HomeCareStore persists home care visits. Upsert keys on (tenant,
// protocol): a resubmission updates the submitted fields in place and keeps
// the original record id and status.
type HomeCareStore interface {
	Upsert(ctx context.Context, visit *HomeCareVisit) (*HomeCareVisit, error)
	FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*HomeCareVisit, error)
}

// HomeCareHandler materializes HomeCareVisit records.
type HomeCareHandler struct {
	store HomeCareStore
}

func NewHomeCareHandler(store HomeCareStore) *HomeCareHandler {
	return &HomeCareHandler{store: store}
}

func (h *HomeCareHandler) EntityName() string { return "HomeCareVisit" }

func (h *HomeCareHandler) Execute(ctx context.Context, action dispatch.ModuleAction) (dispatch.Result, error) {
	var in homeCareInput
	if err := input.Decode(action.Data, &in); err != nil {
		return dispatch.Result{}, err
	}

	now := requestcontext.Now(ctx)
	visit := &HomeCareVisit{
		ID:          id.RecordID(uuid.New()),
		TenantID:    action.TenantID,
		Protocol:    action.ProtocolNumber,
		ServiceID:   action.ServiceID,
		Source:      action.Source,
		Status:      HomeCareStatusRequested,
		PatientName: in.PatientName,
		Address:     in.Address,
		CareType:    in.CareType,
		CreatedBy:   action.CitizenID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	stored, err := h.store.Upsert(ctx, visit)
	if err != nil {
		return dispatch.Result{}, err
	}
	return homeCareResult(stored), nil
}

func (h *HomeCareHandler) FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (dispatch.Result, error) {
	visit, err := h.store.FindByProtocol(ctx, tenantID, number)
	if err != nil {
		return dispatch.Result{}, err
	}
	return homeCareResult(visit), nil
}

func (h *HomeCareHandler) TriStateOf(localStatus string) (id.TriState, error) {
	tri, ok := homeCareTriStates[HomeCareStatus(localStatus)]
	if !ok {
		return "", fmt.Errorf("unknown home care status %q", localStatus)
	}
	return tri, nil
}

func homeCareResult(visit *HomeCareVisit) dispatch.Result {
	return dispatch.Result{
		RecordID:       visit.ID,
		DisplayMessage: fmt.Sprintf("home care visit %s registered at %s", visit.Protocol, visit.Address),
		LocalStatus:    string(visit.Status),
	}
}
