// Package health holds the health department's dispatch modules: medical
// exams and home care visits.
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

// ModuleTypeExam is the module type bound to the exam handler at bootstrap.
const ModuleTypeExam id.ModuleType = "health.medicalExam"

// ExamStatus is the exam's local lifecycle vocabulary.
type ExamStatus string

const (
	ExamStatusPending   ExamStatus = "pending"
	ExamStatusScheduled ExamStatus = "scheduled"
	ExamStatusCompleted ExamStatus = "completed"
	ExamStatusCancelled ExamStatus = "cancelled"
)

var examTriStates = map[ExamStatus]id.TriState{
	ExamStatusPending:   id.TriStateOpen,
	ExamStatusScheduled: id.TriStateInReview,
	ExamStatusCompleted: id.TriStateClosed,
	ExamStatusCancelled: id.TriStateClosed,
}

// MedicalExam is the domain record a health exam request materializes into.
type MedicalExam struct {
	ID          id.RecordID
	TenantID    id.TenantID
	Protocol    id.ProtocolNumber
	ServiceID   id.ServiceID
	Source      dispatch.Source
	Status      ExamStatus
	PatientName string
	ExamType    string
	Notes       string
	CreatedBy   id.CitizenID
	CreatedAt   time.Time
}

// examInput is the statically declared schema of an exam submission.
type examInput struct {
	PatientName string `mapstructure:"patientName" validate:"required"`
	ExamType    string `mapstructure:"examType" validate:"required"`
	Notes       string `mapstructure:"notes"`
}

// ExamStore persists medical exams. Create must reject a second exam for the
// same (tenant, protocol) with sentinel.ErrConflict.
type ExamStore interface {
	Create(ctx context.Context, exam *MedicalExam) error
	FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*MedicalExam, error)
}

// ExamHandler materializes MedicalExam records.
type ExamHandler struct {
	store ExamStore
}

func NewExamHandler(store ExamStore) *ExamHandler {
	return &ExamHandler{store: store}
}

func (h *ExamHandler) EntityName() string { return "MedicalExam" }

func (h *ExamHandler) Execute(ctx context.Context, action dispatch.ModuleAction) (dispatch.Result, error) {
	var in examInput
	if err := input.Decode(action.Data, &in); err != nil {
		return dispatch.Result{}, err
	}

	exam := &MedicalExam{
		ID:          id.RecordID(uuid.New()),
		TenantID:    action.TenantID,
		Protocol:    action.ProtocolNumber,
		ServiceID:   action.ServiceID,
		Source:      action.Source,
		Status:      ExamStatusPending,
		PatientName: in.PatientName,
		ExamType:    in.ExamType,
		Notes:       in.Notes,
		CreatedBy:   action.CitizenID,
		CreatedAt:   requestcontext.Now(ctx),
	}
	if err := h.store.Create(ctx, exam); err != nil {
		return dispatch.Result{}, err
	}
	return examResult(exam), nil
}

func (h *ExamHandler) FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (dispatch.Result, error) {
	exam, err := h.store.FindByProtocol(ctx, tenantID, number)
	if err != nil {
		return dispatch.Result{}, err
	}
	return examResult(exam), nil
}

func (h *ExamHandler) TriStateOf(localStatus string) (id.TriState, error) {
	tri, ok := examTriStates[ExamStatus(localStatus)]
	if !ok {
		return "", fmt.Errorf("unknown exam status %q", localStatus)
	}
	return tri, nil
}

func examResult(exam *MedicalExam) dispatch.Result {
	return dispatch.Result{
		RecordID:       exam.ID,
		DisplayMessage: fmt.Sprintf("exam request %s registered for %s", exam.Protocol, exam.PatientName),
		LocalStatus:    string(exam.Status),
	}
}
