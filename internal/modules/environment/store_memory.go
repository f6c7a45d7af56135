package environment

import (
	"context"
	"sync"

	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type complaintKey struct {
	tenant id.TenantID
	number id.ProtocolNumber
}

// InMemoryComplaintStore enforces (tenant, protocol) uniqueness like the
// Postgres constraint does.
type InMemoryComplaintStore struct {
	mu         sync.RWMutex
	complaints map[complaintKey]*Complaint
}

func NewInMemoryComplaintStore() *InMemoryComplaintStore {
	return &InMemoryComplaintStore{complaints: make(map[complaintKey]*Complaint)}
}

func (s *InMemoryComplaintStore) Create(_ context.Context, complaint *Complaint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := complaintKey{tenant: complaint.TenantID, number: complaint.Protocol}
	if _, exists := s.complaints[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *complaint
	s.complaints[key] = &clone
	return nil
}

func (s *InMemoryComplaintStore) FindByProtocol(_ context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*Complaint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	complaint, ok := s.complaints[complaintKey{tenant: tenantID, number: number}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *complaint
	return &clone, nil
}
