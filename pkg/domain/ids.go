package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// Typed identifiers for the core entities. Wrapping uuid.UUID keeps the
// compiler from letting a citizen id slip into a tenant parameter; construct
// via the Parse helpers at trust boundaries.
type (
	TenantID   uuid.UUID
	CitizenID  uuid.UUID
	ServiceID  uuid.UUID
	ProtocolID uuid.UUID
	RecordID   uuid.UUID
)

func (id TenantID) String() string   { return uuid.UUID(id).String() }
func (id CitizenID) String() string  { return uuid.UUID(id).String() }
func (id ServiceID) String() string  { return uuid.UUID(id).String() }
func (id ProtocolID) String() string { return uuid.UUID(id).String() }
func (id RecordID) String() string   { return uuid.UUID(id).String() }

func (id TenantID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id CitizenID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ServiceID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id ProtocolID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id RecordID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// ParseTenantID validates and converts a string into a TenantID.
func ParseTenantID(s string) (TenantID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return TenantID{}, fmt.Errorf("invalid tenant id %q: %w", s, err)
	}
	return TenantID(u), nil
}

// ParseProtocolID validates and converts a string into a ProtocolID.
func ParseProtocolID(s string) (ProtocolID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ProtocolID{}, fmt.Errorf("invalid protocol id %q: %w", s, err)
	}
	return ProtocolID(u), nil
}

// ParseServiceID validates and converts a string into a ServiceID.
func ParseServiceID(s string) (ServiceID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return ServiceID{}, fmt.Errorf("invalid service id %q: %w", s, err)
	}
	return ServiceID(u), nil
}

// ParseCitizenID validates and converts a string into a CitizenID.
func ParseCitizenID(s string) (CitizenID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CitizenID{}, fmt.Errorf("invalid citizen id %q: %w", s, err)
	}
	return CitizenID(u), nil
}
