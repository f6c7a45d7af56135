package security

import (
	"context"
	"sync"

	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type patrolKey struct {
	tenant id.TenantID
	number id.ProtocolNumber
}

// InMemoryPatrolStore enforces (tenant, protocol) uniqueness like the
// Postgres constraint does.
type InMemoryPatrolStore struct {
	mu      sync.RWMutex
	patrols map[patrolKey]*PatrolRequest
}

func NewInMemoryPatrolStore() *InMemoryPatrolStore {
	return &InMemoryPatrolStore{patrols: make(map[patrolKey]*PatrolRequest)}
}

func (s *InMemoryPatrolStore) Create(_ context.Context, patrol *PatrolRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := patrolKey{tenant: patrol.TenantID, number: patrol.Protocol}
	if _, exists := s.patrols[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *patrol
	s.patrols[key] = &clone
	return nil
}

func (s *InMemoryPatrolStore) FindByProtocol(_ context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*PatrolRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	patrol, ok := s.patrols[patrolKey{tenant: tenantID, number: number}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *patrol
	return &clone, nil
}
