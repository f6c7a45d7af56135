package store

import (
	"context"
	"sync"

	"atende/internal/catalog/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

// InMemory keeps service definitions in a mutex-guarded map. Used in tests
// and single-instance deployments without a database.
type InMemory struct {
	mu       sync.RWMutex
	services map[id.ServiceID]*models.ServiceDefinition
}

func NewInMemory() *InMemory {
	return &InMemory{services: make(map[id.ServiceID]*models.ServiceDefinition)}
}

// Create adds a service definition after validating its invariants.
func (s *InMemory) Create(_ context.Context, svc *models.ServiceDefinition) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.services[svc.ID]; exists {
		return sentinel.ErrConflict
	}
	clone := *svc
	s.services[svc.ID] = &clone
	return nil
}

// FindByID returns the service definition for a tenant-scoped lookup.
func (s *InMemory) FindByID(_ context.Context, tenantID id.TenantID, serviceID id.ServiceID) (*models.ServiceDefinition, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	svc, ok := s.services[serviceID]
	if !ok || svc.TenantID != tenantID {
		return nil, sentinel.ErrNotFound
	}
	clone := *svc
	return &clone, nil
}
