// Package audit records dispatch outcomes for operational traceability.
// Events stay in-process: a publisher fans them out to a store, synchronously
// or through a buffered worker.
package audit

import (
	"time"

	id "atende/pkg/domain"
)

// Action names the dispatch outcomes worth auditing.
type Action string

const (
	ActionProtocolDispatched Action = "protocol_dispatched"
	ActionDispatchFailed     Action = "dispatch_failed"
	ActionConflictRecovered  Action = "dispatch_conflict_recovered"
)

// Event is emitted from the orchestrator to capture a dispatch outcome.
// Keep it transport-agnostic so stores and sinks can fan out.
type Event struct {
	Action         Action
	Timestamp      time.Time
	TenantID       id.TenantID
	ProtocolID     id.ProtocolID
	ProtocolNumber id.ProtocolNumber
	ModuleType     id.ModuleType
	ModuleEntity   string
	RecordID       id.RecordID
	Reason         string
	RequestID      string
}
