//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"atende/internal/protocol/models"
	"atende/internal/protocol/store"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
	"atende/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
	ctx      context.Context
}

func TestPostgresStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.postgres = containers.GetManager().GetPostgres(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
	s.ctx = context.Background()
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(s.ctx, "protocols"))
}

func (s *PostgresStoreSuite) newProtocol(tenantID id.TenantID, number string) *models.Protocol {
	p, err := models.NewProtocol(
		id.ProtocolID(uuid.New()),
		tenantID,
		id.CitizenID(uuid.New()),
		id.ServiceID(uuid.New()),
		id.ProtocolNumber(number),
		"Medical exam request",
		time.Now().UTC().Truncate(time.Microsecond),
	)
	s.Require().NoError(err)
	p.FormData = map[string]any{"patientName": "Ana Souza", "examType": "blood_panel"}
	return p
}

func (s *PostgresStoreSuite) TestCreateAndFind() {
	tenantID := id.TenantID(uuid.New())
	p := s.newProtocol(tenantID, "2026/000001")
	s.Require().NoError(s.store.Create(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(p.Number, found.Number)
	s.Equal(models.StatusCreated, found.Status)
	s.Equal("Ana Souza", found.FormData["patientName"])
	s.True(found.Linkage.IsZero())

	_, err = s.store.FindByID(s.ctx, id.ProtocolID(uuid.New()))
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *PostgresStoreSuite) TestNumberUniquePerTenant() {
	tenantID := id.TenantID(uuid.New())
	s.Require().NoError(s.store.Create(s.ctx, s.newProtocol(tenantID, "2026/000002")))

	err := s.store.Create(s.ctx, s.newProtocol(tenantID, "2026/000002"))
	s.Require().ErrorIs(err, sentinel.ErrConflict)

	// A different tenant may reuse the number.
	s.Require().NoError(s.store.Create(s.ctx, s.newProtocol(id.TenantID(uuid.New()), "2026/000002")))
}

func (s *PostgresStoreSuite) TestAttachLinkage() {
	tenantID := id.TenantID(uuid.New())
	p := s.newProtocol(tenantID, "2026/000003")
	s.Require().NoError(s.store.Create(s.ctx, p))

	p.ApplyLinkage(models.Linkage{
		ModuleEntity: "MedicalExam",
		RecordID:     id.RecordID(uuid.New()),
	}, time.Now().UTC().Truncate(time.Microsecond))
	s.Require().NoError(s.store.AttachLinkage(s.ctx, p))

	found, err := s.store.FindByID(s.ctx, p.ID)
	s.Require().NoError(err)
	s.Equal(models.StatusLinked, found.Status)
	s.Equal(p.Linkage, found.Linkage)

	missing := s.newProtocol(tenantID, "2026/000004")
	s.Require().ErrorIs(s.store.AttachLinkage(s.ctx, missing), sentinel.ErrNotFound)
}
