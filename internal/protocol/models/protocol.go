package models

import (
	"fmt"
	"time"

	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

// Status is the protocol lifecycle state. The dispatch orchestrator drives
// only CREATED -> LINKED; later transitions belong to administrative
// workflows. CANCELLED is reachable from any non-terminal state.
type Status string

const (
	StatusCreated    Status = "CREATED"
	StatusLinked     Status = "LINKED"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
	StatusRejected   Status = "REJECTED"
	StatusCancelled  Status = "CANCELLED"
)

// ParseStatus validates a protocol status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusCreated, StatusLinked, StatusInProgress, StatusResolved, StatusRejected, StatusCancelled:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown protocol status %q", s)
}

func (s Status) String() string { return string(s) }

// Terminal reports whether no further transitions are allowed.
func (s Status) Terminal() bool {
	return s == StatusResolved || s == StatusRejected || s == StatusCancelled
}

// transitions enumerates the legal protocol state machine.
var transitions = map[Status][]Status{
	StatusCreated:    {StatusLinked, StatusCancelled},
	StatusLinked:     {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusResolved, StatusRejected, StatusCancelled},
}

// CanTransition reports whether moving from s to next is legal.
func (s Status) CanTransition(next Status) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Linkage is the back-reference stored on a protocol pointing at the domain
// record a dispatch created. Department UIs use it to fetch the record
// directly without going through dispatch again.
type Linkage struct {
	ModuleEntity string
	RecordID     id.RecordID
}

// IsZero reports whether no domain record has been attached.
func (l Linkage) IsZero() bool {
	return l.ModuleEntity == "" && l.RecordID.IsNil()
}

// Protocol is a citizen's generic service request. FormData holds the raw
// submitted fields; its shape varies by the service's module type and only
// the owning domain handler interprets it.
type Protocol struct {
	ID          id.ProtocolID
	TenantID    id.TenantID
	CitizenID   id.CitizenID
	ServiceID   id.ServiceID
	Number      id.ProtocolNumber
	Title       string
	Description string
	FormData    map[string]any
	Status      Status
	Linkage     Linkage
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProtocol constructs a protocol in its initial state.
func NewProtocol(protocolID id.ProtocolID, tenantID id.TenantID, citizenID id.CitizenID, serviceID id.ServiceID, number id.ProtocolNumber, title string, now time.Time) (*Protocol, error) {
	if protocolID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "protocol id is required")
	}
	if tenantID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "tenant id is required")
	}
	if serviceID.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "service id is required")
	}
	if number.IsNil() {
		return nil, dErrors.New(dErrors.CodeBadRequest, "protocol number is required")
	}
	return &Protocol{
		ID:        protocolID,
		TenantID:  tenantID,
		CitizenID: citizenID,
		ServiceID: serviceID,
		Number:    number,
		Title:     title,
		Status:    StatusCreated,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// CanLink checks the invariant guarding the dispatch transition: only a
// CREATED protocol without an attached record may be linked.
func (p *Protocol) CanLink() error {
	if p.Status != StatusCreated {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "protocol %s is %s, expected %s", p.Number, p.Status, StatusCreated)
	}
	if !p.Linkage.IsZero() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "protocol %s already has a linkage", p.Number)
	}
	return nil
}

// ApplyLinkage attaches a domain record and advances the status.
func (p *Protocol) ApplyLinkage(linkage Linkage, now time.Time) {
	p.Linkage = linkage
	p.Status = StatusLinked
	p.UpdatedAt = now
}
