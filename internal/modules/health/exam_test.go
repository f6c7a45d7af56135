package health

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"atende/internal/dispatch"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
	"atende/pkg/platform/sentinel"
)

type ExamHandlerSuite struct {
	suite.Suite
	store   *InMemoryExamStore
	handler *ExamHandler
	ctx     context.Context
}

func (s *ExamHandlerSuite) SetupTest() {
	s.store = NewInMemoryExamStore()
	s.handler = NewExamHandler(s.store)
	s.ctx = context.Background()
}

func TestExamHandlerSuite(t *testing.T) {
	suite.Run(t, new(ExamHandlerSuite))
}

func (s *ExamHandlerSuite) newAction(number string, data map[string]any) dispatch.ModuleAction {
	return dispatch.ModuleAction{
		TenantID:       id.TenantID(uuid.New()),
		CitizenID:      id.CitizenID(uuid.New()),
		ServiceID:      id.ServiceID(uuid.New()),
		ProtocolNumber: id.ProtocolNumber(number),
		Source:         dispatch.SourceService,
		Data:           data,
	}
}

func (s *ExamHandlerSuite) TestExecute() {
	s.Run("materializes an exam from submitted data", func() {
		action := s.newAction("2026/000010", map[string]any{
			"patientName": "Ana Souza",
			"examType":    "blood_panel",
		})
		result, err := s.handler.Execute(s.ctx, action)
		s.Require().NoError(err)
		s.False(result.RecordID.IsNil())
		s.Equal(string(ExamStatusPending), result.LocalStatus)
		s.NotEmpty(result.DisplayMessage)

		exam, err := s.store.FindByProtocol(s.ctx, action.TenantID, action.ProtocolNumber)
		s.Require().NoError(err)
		s.Equal("Ana Souza", exam.PatientName)
		s.Equal("blood_panel", exam.ExamType)
	})

	s.Run("rejects submissions missing required fields", func() {
		action := s.newAction("2026/000011", map[string]any{"patientName": "Ana Souza"})
		_, err := s.handler.Execute(s.ctx, action)
		s.Require().Error(err)
		s.True(dErrors.HasCode(err, dErrors.CodeValidation))
		s.Contains(dErrors.FieldsOf(err), "examType")

		// Nothing persisted for the failed submission.
		_, err = s.store.FindByProtocol(s.ctx, action.TenantID, action.ProtocolNumber)
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("second exam for the same protocol conflicts", func() {
		action := s.newAction("2026/000012", map[string]any{
			"patientName": "Ana Souza",
			"examType":    "x_ray",
		})
		_, err := s.handler.Execute(s.ctx, action)
		s.Require().NoError(err)

		_, err = s.handler.Execute(s.ctx, action)
		s.Require().ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *ExamHandlerSuite) TestFindExisting() {
	action := s.newAction("2026/000013", map[string]any{
		"patientName": "Bruno Lima",
		"examType":    "mri",
	})
	created, err := s.handler.Execute(s.ctx, action)
	s.Require().NoError(err)

	found, err := s.handler.FindExisting(s.ctx, action.TenantID, action.ProtocolNumber)
	s.Require().NoError(err)
	s.Equal(created.RecordID, found.RecordID)

	_, err = s.handler.FindExisting(s.ctx, id.TenantID(uuid.New()), action.ProtocolNumber)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ExamHandlerSuite) TestTriStateOf() {
	for status, want := range map[ExamStatus]id.TriState{
		ExamStatusPending:   id.TriStateOpen,
		ExamStatusScheduled: id.TriStateInReview,
		ExamStatusCompleted: id.TriStateClosed,
		ExamStatusCancelled: id.TriStateClosed,
	} {
		tri, err := s.handler.TriStateOf(string(status))
		s.Require().NoError(err)
		s.Equal(want, tri)
	}

	_, err := s.handler.TriStateOf("archived")
	s.Require().Error(err)
}
