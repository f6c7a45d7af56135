package store

import (
	"context"
	"sync"

	"atende/internal/protocol/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

// InMemory keeps protocols in a mutex-guarded map. The dispatch write
// surface is limited to status and linkage, matching the Postgres store.
type InMemory struct {
	mu        sync.RWMutex
	protocols map[id.ProtocolID]*models.Protocol
}

func NewInMemory() *InMemory {
	return &InMemory{protocols: make(map[id.ProtocolID]*models.Protocol)}
}

// Create persists a new protocol.
func (s *InMemory) Create(_ context.Context, p *models.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.protocols[p.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *p
	s.protocols[p.ID] = &clone
	return nil
}

// FindByID returns a protocol by id.
func (s *InMemory) FindByID(_ context.Context, protocolID id.ProtocolID) (*models.Protocol, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.protocols[protocolID]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

// AttachLinkage writes the linkage and status produced by a dispatch. Only
// these two fields plus the update timestamp are mutated.
func (s *InMemory) AttachLinkage(_ context.Context, p *models.Protocol) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.protocols[p.ID]
	if !ok {
		return sentinel.ErrNotFound
	}
	stored.Linkage = p.Linkage
	stored.Status = p.Status
	stored.UpdatedAt = p.UpdatedAt
	return nil
}
