// Package service owns protocol intake: number issuance and persistence.
// Dispatching the created protocol to its domain module is the dispatch
// orchestrator's job; callers chain the two.
package service

import (
	"context"

	"github.com/google/uuid"

	"atende/internal/protocol/models"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
	"atende/pkg/platform/sentinel"
	"atende/pkg/requestcontext"
)

// Store is the protocol persistence surface the service needs.
type Store interface {
	Create(ctx context.Context, p *models.Protocol) error
	FindByID(ctx context.Context, protocolID id.ProtocolID) (*models.Protocol, error)
}

// SubmitRequest carries a citizen's service request.
type SubmitRequest struct {
	TenantID    id.TenantID
	CitizenID   id.CitizenID
	ServiceID   id.ServiceID
	Title       string
	Description string
	FormData    map[string]any
}

// Service issues protocol numbers and persists protocols.
type Service struct {
	store Store
	seq   *id.NumberSequence
}

func NewService(store Store, seq *id.NumberSequence) *Service {
	if seq == nil {
		seq = id.NewNumberSequence()
	}
	return &Service{store: store, seq: seq}
}

// Submit persists a new protocol in CREATED state with a freshly issued
// number.
func (s *Service) Submit(ctx context.Context, req SubmitRequest) (*models.Protocol, error) {
	now := requestcontext.Now(ctx)
	p, err := models.NewProtocol(
		id.ProtocolID(uuid.New()),
		req.TenantID, req.CitizenID, req.ServiceID,
		s.seq.Next(now),
		req.Title,
		now,
	)
	if err != nil {
		return nil, err
	}
	p.Description = req.Description
	p.FormData = req.FormData

	if err := s.store.Create(ctx, p); err != nil {
		if dErrors.Is(err, sentinel.ErrConflict) {
			return nil, dErrors.New(dErrors.CodeConflict, "protocol number already issued")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "persist protocol")
	}
	return p, nil
}

// Get returns a protocol by id.
func (s *Service) Get(ctx context.Context, protocolID id.ProtocolID) (*models.Protocol, error) {
	p, err := s.store.FindByID(ctx, protocolID)
	if err != nil {
		if dErrors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "protocol %s not found", protocolID)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "load protocol")
	}
	return p, nil
}
