package health

import (
	"context"
	"sync"

	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
)

type examKey struct {
	tenant id.TenantID
	number id.ProtocolNumber
}

// InMemoryExamStore enforces the (tenant, protocol) uniqueness the Postgres
// schema guarantees with a constraint.
type InMemoryExamStore struct {
	mu    sync.RWMutex
	exams map[examKey]*MedicalExam
}

func NewInMemoryExamStore() *InMemoryExamStore {
	return &InMemoryExamStore{exams: make(map[examKey]*MedicalExam)}
}

func (s *InMemoryExamStore) Create(_ context.Context, exam *MedicalExam) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := examKey{tenant: exam.TenantID, number: exam.Protocol}
	if _, exists := s.exams[key]; exists {
		return sentinel.ErrConflict
	}
	clone := *exam
	s.exams[key] = &clone
	return nil
}

func (s *InMemoryExamStore) FindByProtocol(_ context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*MedicalExam, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	exam, ok := s.exams[examKey{tenant: tenantID, number: number}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *exam
	return &clone, nil
}

// InMemoryHomeCareStore upserts visits keyed by (tenant, protocol).
type InMemoryHomeCareStore struct {
	mu     sync.RWMutex
	visits map[examKey]*HomeCareVisit
}

func NewInMemoryHomeCareStore() *InMemoryHomeCareStore {
	return &InMemoryHomeCareStore{visits: make(map[examKey]*HomeCareVisit)}
}

func (s *InMemoryHomeCareStore) Upsert(_ context.Context, visit *HomeCareVisit) (*HomeCareVisit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := examKey{tenant: visit.TenantID, number: visit.Protocol}
	if existing, ok := s.visits[key]; ok {
		existing.PatientName = visit.PatientName
		existing.Address = visit.Address
		existing.CareType = visit.CareType
		existing.UpdatedAt = visit.UpdatedAt
		clone := *existing
		return &clone, nil
	}
	clone := *visit
	s.visits[key] = &clone
	result := clone
	return &result, nil
}

func (s *InMemoryHomeCareStore) FindByProtocol(_ context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*HomeCareVisit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	visit, ok := s.visits[examKey{tenant: tenantID, number: number}]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	clone := *visit
	return &clone, nil
}
