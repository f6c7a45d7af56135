// Package dispatch routes citizen protocol submissions to the domain module
// that owns their data. It holds the handler contract, the startup-sealed
// registry and the orchestrator that keeps protocol state and domain records
// consistent under one transaction.
package dispatch

import (
	"fmt"

	id "atende/pkg/domain"
)

// Source identifies the channel a submission arrived through. Domain records
// stamp it so departments can distinguish self-service requests from
// staff-entered or bulk-imported ones.
type Source string

const (
	SourceService Source = "service"
	SourceManual  Source = "manual"
	SourceImport  Source = "import"
)

// ParseSource validates a source value.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceService, SourceManual, SourceImport:
		return Source(s), nil
	}
	return "", fmt.Errorf("unknown source %q", s)
}

func (s Source) String() string { return string(s) }

// ModuleAction is the normalized input handed to a domain handler. It is
// immutable once constructed and carries no ambient state: tenant, protocol
// and submission data all arrive explicitly.
type ModuleAction struct {
	TenantID       id.TenantID
	CitizenID      id.CitizenID
	ServiceID      id.ServiceID
	ProtocolNumber id.ProtocolNumber
	Source         Source
	Data           map[string]any
}
