package audit

import (
	"context"
	"sync"

	id "atende/pkg/domain"
)

// InMemoryStore collects audit events per tenant.
type InMemoryStore struct {
	mu     sync.RWMutex
	events map[id.TenantID][]Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{events: make(map[id.TenantID][]Event)}
}

func (s *InMemoryStore) Append(_ context.Context, event Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[event.TenantID] = append(s.events[event.TenantID], event)
	return nil
}

// ListByTenant returns a copy of the events recorded for a tenant.
func (s *InMemoryStore) ListByTenant(_ context.Context, tenantID id.TenantID) ([]Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]Event{}, s.events[tenantID]...), nil
}
