// Package works holds the public works department's dispatch modules.
package works

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"atende/internal/dispatch"
	"atende/internal/modules/input"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
	"atende/pkg/requestcontext"
)

// ModuleTypePermit is the module type bound to the permit handler.
const ModuleTypePermit id.ModuleType = "works.buildingPermit"

// Permits above this floor area require a responsible engineer on record.
const engineerRequiredAboveSqm = 150.0

// PermitStatus is the permit's local lifecycle vocabulary.
type PermitStatus string

const (
	PermitStatusPending     PermitStatus = "pending"
	PermitStatusUnderReview PermitStatus = "under_review"
	PermitStatusApproved    PermitStatus = "approved"
	PermitStatusDenied      PermitStatus = "denied"
)

var permitTriStates = map[PermitStatus]id.TriState{
	PermitStatusPending:     id.TriStateOpen,
	PermitStatusUnderReview: id.TriStateInReview,
	PermitStatusApproved:    id.TriStateClosed,
	PermitStatusDenied:      id.TriStateClosed,
}

// BuildingPermit is the domain record for a construction permit request.
type BuildingPermit struct {
	ID            id.RecordID
	TenantID      id.TenantID
	Protocol      id.ProtocolNumber
	ServiceID     id.ServiceID
	Source        dispatch.Source
	Status        PermitStatus
	ApplicantName string
	ParcelNumber  string
	FloorAreaSqm  float64
	EngineerName  string
	CreatedBy     id.CitizenID
	CreatedAt     time.Time
}

type permitInput struct {
	ApplicantName string  `mapstructure:"applicantName" validate:"required"`
	ParcelNumber  string  `mapstructure:"parcelNumber" validate:"required"`
	FloorAreaSqm  float64 `mapstructure:"floorAreaSqm" validate:"required,gt=0"`
	EngineerName  string  `mapstructure:"engineerName"`
}

// PermitStore persists building permits.
type PermitStore interface {
	Create(ctx context.Context, permit *BuildingPermit) error
	FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*BuildingPermit, error)
}

// PermitHandler materializes BuildingPermit records.
type PermitHandler struct {
	store PermitStore
}

func NewPermitHandler(store PermitStore) *PermitHandler {
	return &PermitHandler{store: store}
}

func (h *PermitHandler) EntityName() string { return "BuildingPermit" }

func (h *PermitHandler) Execute(ctx context.Context, action dispatch.ModuleAction) (dispatch.Result, error) {
	var in permitInput
	if err := input.Decode(action.Data, &in); err != nil {
		return dispatch.Result{}, err
	}
	// Cross-field rule the tag validator cannot express.
	if in.FloorAreaSqm > engineerRequiredAboveSqm && in.EngineerName == "" {
		msg := fmt.Sprintf("permits above %.0f m2 require a responsible engineer", engineerRequiredAboveSqm)
		return dispatch.Result{}, dErrors.New(dErrors.CodeValidation, msg).WithFields("engineerName")
	}

	permit := &BuildingPermit{
		ID:            id.RecordID(uuid.New()),
		TenantID:      action.TenantID,
		Protocol:      action.ProtocolNumber,
		ServiceID:     action.ServiceID,
		Source:        action.Source,
		Status:        PermitStatusPending,
		ApplicantName: in.ApplicantName,
		ParcelNumber:  in.ParcelNumber,
		FloorAreaSqm:  in.FloorAreaSqm,
		EngineerName:  in.EngineerName,
		CreatedBy:     action.CitizenID,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := h.store.Create(ctx, permit); err != nil {
		return dispatch.Result{}, err
	}
	return permitResult(permit), nil
}

func (h *PermitHandler) FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (dispatch.Result, error) {
	permit, err := h.store.FindByProtocol(ctx, tenantID, number)
	if err != nil {
		return dispatch.Result{}, err
	}
	return permitResult(permit), nil
}

func (h *PermitHandler) TriStateOf(localStatus string) (id.TriState, error) {
	tri, ok := permitTriStates[PermitStatus(localStatus)]
	if !ok {
		return "", fmt.Errorf("unknown permit status %q", localStatus)
	}
	return tri, nil
}

func permitResult(permit *BuildingPermit) dispatch.Result {
	return dispatch.Result{
		RecordID:       permit.ID,
		DisplayMessage: fmt.Sprintf("permit request %s registered for parcel %s", permit.Protocol, permit.ParcelNumber),
		LocalStatus:    string(permit.Status),
	}
}
