package works

import (
	"context"
	"sync"

	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type permitKey struct {
	tenant id.TenantID
	number id.ProtocolNumber
}

// InMemoryPermitStore enforces (tenant, protocol) uniqueness like the
// Postgres constraint does.
type InMemoryPermitStore struct {
	mu      sync.RWMutex
	permits map[permitKey]*BuildingPermit
}

func NewInMemoryPermitStore() *InMemoryPermitStore {
	return &InMemoryPermitStore{permits: make(map[permitKey]*BuildingPermit)}
}

func (s *InMemoryPermitStore) Create(_ context.Context, permit *BuildingPermit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := permitKey{tenant: permit.TenantID, number: permit.Protocol}
	if _, exists := s.permits[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *permit
	s.permits[key] = &clone
	return nil
}

func (s *InMemoryPermitStore) FindByProtocol(_ context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*BuildingPermit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	permit, ok := s.permits[permitKey{tenant: tenantID, number: number}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *permit
	return &clone, nil
}
