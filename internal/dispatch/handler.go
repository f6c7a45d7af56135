package dispatch

import (
	"context"

	id "atende/pkg/domain"
)

// Result is what a domain handler reports back after materializing (or
// finding) its record. LocalStatus uses the module's own vocabulary; the
// orchestrator never interprets it beyond the TriStateOf mapping.
type Result struct {
	RecordID       id.RecordID
	DisplayMessage string
	LocalStatus    string
}

// Handler is the uniform contract every domain module implements.
//
// Execute must perform exactly one create (or, for resubmission-tolerant
// modules, one upsert keyed by protocol number) against the module's own
// schema, using only the transaction carried in ctx. It must never mutate
// the protocol entity and must reject missing required fields with a
// validation error so the orchestrator can roll the transaction back.
//
// FindExisting is the idempotency probe: it returns the result of a previous
// Execute for the same (tenant, protocol number), or sentinel.ErrNotFound.
type Handler interface {
	EntityName() string
	Execute(ctx context.Context, action ModuleAction) (Result, error)
	FindExisting(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (Result, error)

	// TriStateOf maps one of the module's local statuses onto the shared
	// reporting vocabulary. Unknown statuses must error rather than guess.
	TriStateOf(localStatus string) (id.TriState, error)
}
