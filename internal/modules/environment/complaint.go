// Package environment holds the environmental department's dispatch modules.
package environment

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

// ModuleTypeComplaint is the module type bound to the complaint handler.
const ModuleTypeComplaint id.ModuleType = "environment.complaint"

// ComplaintStatus is the complaint's local lifecycle vocabulary.
type ComplaintStatus string

const (
	ComplaintStatusOpen          ComplaintStatus = "open"
	ComplaintStatusInvestigating ComplaintStatus = "investigating"
	ComplaintStatusResolved      ComplaintStatus = "resolved"
	ComplaintStatusDismissed     ComplaintStatus = "dismissed"
)

var complaintTriStates = map[ComplaintStatus]id.TriState{
	ComplaintStatusOpen:          id.TriStateOpen,
	ComplaintStatusInvestigating: id.TriStateInReview,
	ComplaintStatusResolved:      id.TriStateClosed,
	ComplaintStatusDismissed:     id.TriStateClosed,
}

// Complaint is the domain record for an environmental complaint. Optional
// fields absent from the submission persist empty, never inferred.
type Complaint struct {
	ID            id.RecordID
	TenantID      id.TenantID
	Protocol      id.ProtocolNumber
	ServiceID     id.ServiceID
	Source        dispatch.Source
	Status        ComplaintStatus
	Location      string
	ComplaintType string
	Description   string
	CreatedBy     id.CitizenID
	CreatedAt     time.Time
}

type complaintInput struct {
	Location      string `mapstructure:"location" validate:"required"`
	ComplaintType string `mapstructure:"complaintType" validate:"required"`
	Description   string `mapstructure:"description"`
}

// ComplaintStore persists complaints.
type ComplaintStore interface {
	Create(ctx context.Context, complaint *Complaint) error
	FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*Complaint, error)
}

// ComplaintHandler materializes Complaint records.
type ComplaintHandler struct {
	store ComplaintStore
}

func NewComplaintHandler(store ComplaintStore) *ComplaintHandler {
	return &ComplaintHandler{store: store}
}

func (h *ComplaintHandler) EntityName() string { return "EnvironmentalComplaint" }

func (h *ComplaintHandler) Execute(ctx context.Context, action dispatch.ModuleAction) (dispatch.Result, error) {
	var in complaintInput
	if err := input.Decode(action.Data, &in); err != nil {
		return dispatch.Result{}, err
	}

	complaint := &Complaint{
		ID:            id.RecordID(uuid.New()),
		TenantID:      action.TenantID,
		Protocol:      action.ProtocolNumber,
		ServiceID:     action.ServiceID,
		Source:        action.Source,
		Status:        ComplaintStatusOpen,
		Location:      in.Location,
		ComplaintType: in.ComplaintType,
		Description:   in.Description,
		CreatedBy:     action.CitizenID,
		CreatedAt:     requestcontext.Now(ctx),
	}
	if err := h.store.Create(ctx, complaint); err != nil {
		return dispatch.Result{}, err
	}
	return complaintResult(complaint), nil
}

func (h *ComplaintHandler) FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (dispatch.Result, error) {
	complaint, err := h.store.FindByProtocol(ctx, tenantID, number)
	if err != nil {
		return dispatch.Result{}, err
	}
	return complaintResult(complaint), nil
}

func (h *ComplaintHandler) TriStateOf(localStatus string) (id.TriState, error) {
	tri, ok := complaintTriStates[ComplaintStatus(localStatus)]
	if !ok {
		return "", fmt.Errorf("unknown complaint status %q", localStatus)
	}
	return tri, nil
}

func complaintResult(complaint *Complaint) dispatch.Result {
	return dispatch.Result{
		RecordID:       complaint.ID,
		DisplayMessage: fmt.Sprintf("complaint %s registered at %s", complaint.Protocol, complaint.Location),
		LocalStatus:    string(complaint.Status),
	}
}
