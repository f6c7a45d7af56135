//go:build integration

package health_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"atende/internal/modules/health"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
	"atende/pkg/platform/tx"
	"atende/pkg/testutil/containers"
)

type ExamStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *health.PostgresExamStore
	ctx      context.Context
}

func TestExamStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ExamStoreSuite))
}

func (s *ExamStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = health.NewPostgresExamStore(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *ExamStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "medical_exams"))
}

func (s *ExamStoreSuite) newExam(tenantID id.TenantID, number string) *health.MedicalExam {
	return &health.MedicalExam{
		ID:          id.RecordID(uuid.New()),
		TenantID:    tenantID,
		Protocol:    id.ProtocolNumber(number),
		ServiceID:   id.ServiceID(uuid.New()),
		Source:      "service",
		Status:      health.ExamStatusPending,
		PatientName: "Ana Souza",
		ExamType:    "blood_panel",
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
}

func (s *ExamStoreSuite) TestUniquenessPerProtocol() {
	tenantID := id.TenantID(uuid.New())
	s.Require().NoError(s.store.Create(s.ctx, s.newExam(tenantID, "2026/000010")))

	// The constraint, not application logic, guards the race.
	err := s.store.Create(s.ctx, s.newExam(tenantID, "2026/000010"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	found, err := s.store.FindByProtocol(s.ctx, tenantID, "2026/000010")
	s.Require().NoError(err)
	s.Equal("Ana Souza", found.PatientName)
}

func (s *ExamStoreSuite) TestWritesFollowTransactionContext() {
	tenantID := id.TenantID(uuid.New())

	dbTx, err := s.postgres.DB.BeginTx(s.ctx, nil)
	s.Require().NoError(err)
	txCtx := tx.WithTx(s.ctx, dbTx)

	s.Require().NoError(s.store.Create(txCtx, s.newExam(tenantID, "2026/000011")))
	s.Require().NoError(dbTx.Rollback())

	// The rolled back write never became visible.
	_, err = s.store.FindByProtocol(s.ctx, tenantID, "2026/000011")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
