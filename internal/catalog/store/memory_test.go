package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"atende/internal/catalog/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type CatalogStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *CatalogStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestCatalogStoreSuite(t *testing.T) {
	suite.Run(t, new(CatalogStoreSuite))
}

func (s *CatalogStoreSuite) newService(tenantID id.TenantID) *models.ServiceDefinition {
	now := time.Now()
	return &models.ServiceDefinition{
		ID:             id.ServiceID(uuid.New()),
		TenantID:       tenantID,
		Name:           "Medical exam",
		Department:     "health",
		ModuleType:     "health.medicalExam",
		Classification: models.ClassificationDataBearing,
		Active:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

func (s *CatalogStoreSuite) TestCreationAndLookups() {
	tenantID := id.TenantID(uuid.New())

	s.Run("creates and finds a service", func() {
		svc := s.newService(tenantID)
		s.Require().NoError(s.store.Create(s.ctx, svc))

		found, err := s.store.FindByID(s.ctx, tenantID, svc.ID)
		s.Require().NoError(err)
		s.Equal(svc.Name, found.Name)
		s.Equal(svc.ModuleType, found.ModuleType)
	})

	s.Run("rejects duplicate service id", func() {
		svc := s.newService(tenantID)
		s.Require().NoError(s.store.Create(s.ctx, svc))
		s.Require().ErrorIs(s.store.Create(s.ctx, svc), sentinel.ErrConflict)
	})

	s.Run("rejects invalid definitions", func() {
		svc := s.newService(tenantID)
		svc.ModuleType = ""
		s.Require().Error(s.store.Create(s.ctx, svc))
	})
}

func (s *CatalogStoreSuite) TestTenantIsolation() {
	tenantID := id.TenantID(uuid.New())
	svc := s.newService(tenantID)
	s.Require().NoError(s.store.Create(s.ctx, svc))

	// Another tenant cannot see the service even with the right id.
	_, err := s.store.FindByID(s.ctx, id.TenantID(uuid.New()), svc.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
