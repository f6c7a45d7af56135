package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"atende/internal/protocol/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type ProtocolStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *ProtocolStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestProtocolStoreSuite(t *testing.T) {
	suite.Run(t, new(ProtocolStoreSuite))
}

func (s *ProtocolStoreSuite) newProtocol(number string) *models.Protocol {
	p, err := models.NewProtocol(
		id.ProtocolID(uuid.New()),
		id.TenantID(uuid.New()),
		id.CitizenID(uuid.New()),
		id.ServiceID(uuid.New()),
		id.ProtocolNumber(number),
		"Sidewalk repair",
		time.Now(),
	)
	s.Require().NoError(err)
	return p
}

func (s *ProtocolStoreSuite) TestCreationAndLookups() {
	s.Run("creates and finds protocol by id", func() {
		p := s.newProtocol("2026/000001")
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(p.Number, found.Number)
		s.Equal(models.StatusCreated, found.Status)
	})

	s.Run("returns ErrNotFound for unknown id", func() {
		_, err := s.store.FindByID(s.ctx, id.ProtocolID(uuid.New()))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("rejects duplicate id", func() {
		p := s.newProtocol("2026/000002")
		s.Require().NoError(s.store.Create(s.ctx, p))
		s.Require().ErrorIs(s.store.Create(s.ctx, p), sentinel.ErrConflict)
	})
}

func (s *ProtocolStoreSuite) TestAttachLinkage() {
	s.Run("persists only linkage, status and update time", func() {
		p := s.newProtocol("2026/000003")
		s.Require().NoError(s.store.Create(s.ctx, p))

		updated := *p
		updated.Title = "should not be persisted"
		updated.ApplyLinkage(models.Linkage{ModuleEntity: "MedicalExam", RecordID: id.RecordID(uuid.New())}, time.Now())
		s.Require().NoError(s.store.AttachLinkage(s.ctx, &updated))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusLinked, found.Status)
		s.Equal(updated.Linkage, found.Linkage)
		s.Equal("Sidewalk repair", found.Title)
	})

	s.Run("returns ErrNotFound for unknown protocol", func() {
		p := s.newProtocol("2026/000004")
		s.Require().ErrorIs(s.store.AttachLinkage(s.ctx, p), sentinel.ErrNotFound)
	})

	s.Run("mutating the returned copy does not affect the store", func() {
		p := s.newProtocol("2026/000005")
		s.Require().NoError(s.store.Create(s.ctx, p))

		found, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		found.Status = models.StatusCancelled

		again, err := s.store.FindByID(s.ctx, p.ID)
		s.Require().NoError(err)
		s.Equal(models.StatusCreated, again.Status)
	})
}
