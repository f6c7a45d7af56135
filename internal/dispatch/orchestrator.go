package dispatch

import (
	"context"
	"errors"
	"log"
	"time"

	"atende/internal/audit"
	catalogmodels "atende/internal/catalog/models"
	"atende/internal/dispatch/metrics"
	protocolmodels "atende/internal/protocol/models"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
	"atende/pkg/platform/sentinel"
	"atende/pkg/requestcontext"
)

// ProtocolStore is the slice of the protocol store the orchestrator needs:
// read by id, write limited to status and linkage.
type ProtocolStore interface {
	FindByID(ctx context.Context, protocolID id.ProtocolID) (*protocolmodels.Protocol, error)
	AttachLinkage(ctx context.Context, p *protocolmodels.Protocol) error
}

// ServiceCatalog resolves a protocol's service definition.
type ServiceCatalog interface {
	FindByID(ctx context.Context, tenantID id.TenantID, serviceID id.ServiceID) (*catalogmodels.ServiceDefinition, error)
}

// Mapping is the module mapping table lookup surface.
type Mapping interface {
	EntityName(moduleType id.ModuleType) (string, error)
	IsInformative(moduleType id.ModuleType) (bool, error)
}

// AuditSink receives dispatch outcome events.
type AuditSink interface {
	Emit(ctx context.Context, event audit.Event) error
}

// DispatchResult reports what a dispatch attempt did.
type DispatchResult struct {
	ProtocolID     id.ProtocolID
	ProtocolNumber id.ProtocolNumber
	Informational  bool
	AlreadyLinked  bool
	Linkage        protocolmodels.Linkage
	DisplayMessage string
}

// Orchestrator is the single entry point that keeps a protocol's lifecycle
// state consistent with its domain record. It owns the protocol's status
// field during dispatch; handlers own only their record's creation.
type Orchestrator struct {
	protocols ProtocolStore
	services  ServiceCatalog
	mapping   Mapping
	registry  *Registry
	tx        StoreTx
	metrics   *metrics.Metrics
	auditor   AuditSink
	logger    *log.Logger
	timeout   time.Duration
}

const defaultDispatchTimeout = 5 * time.Second

// OrchestratorOption configures optional collaborators.
type OrchestratorOption func(*Orchestrator)

func WithMetrics(m *metrics.Metrics) OrchestratorOption {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithAuditSink(sink AuditSink) OrchestratorOption {
	return func(o *Orchestrator) { o.auditor = sink }
}

func WithLogger(logger *log.Logger) OrchestratorOption {
	return func(o *Orchestrator) { o.logger = logger }
}

func WithTimeout(timeout time.Duration) OrchestratorOption {
	return func(o *Orchestrator) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

func NewOrchestrator(protocols ProtocolStore, services ServiceCatalog, mapping Mapping, registry *Registry, storeTx StoreTx, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		protocols: protocols,
		services:  services,
		mapping:   mapping,
		registry:  registry,
		tx:        storeTx,
		timeout:   defaultDispatchTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Dispatch routes a freshly created (or resubmitted) protocol to its domain
// module. Informational services return immediately; data-bearing ones run
// the handler inside one transaction together with the linkage write, so
// protocol state and domain record can never diverge. Calling Dispatch twice
// for the same protocol is a no-op returning the original linkage.
func (o *Orchestrator) Dispatch(ctx context.Context, protocolID id.ProtocolID) (DispatchResult, error) {
	start := time.Now()

	p, err := o.protocols.FindByID(ctx, protocolID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return DispatchResult{}, dErrors.Newf(dErrors.CodeNotFound, "protocol %s not found", protocolID)
		}
		return DispatchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "load protocol")
	}

	svc, err := o.services.FindByID(ctx, p.TenantID, p.ServiceID)
	if err != nil {
		// Unknown service id means the catalog and the protocol disagree.
		// Never silently degrade to informational.
		if errors.Is(err, sentinel.ErrNotFound) {
			return DispatchResult{}, dErrors.Newf(dErrors.CodeUnknownModule, "service %s not in catalog", p.ServiceID)
		}
		return DispatchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "load service definition")
	}

	if svc.Classification == catalogmodels.ClassificationInformational {
		// No transaction, no handler, no status change: the protocol is
		// complete with respect to this subsystem.
		if o.metrics != nil {
			o.metrics.Informational.Inc()
		}
		return DispatchResult{
			ProtocolID:     p.ID,
			ProtocolNumber: p.Number,
			Informational:  true,
		}, nil
	}

	result, err := o.dispatchDataBearing(ctx, p, svc)
	if o.metrics != nil {
		o.metrics.ObserveDispatch(start)
	}
	if err != nil {
		if o.metrics != nil {
			o.metrics.DispatchFailures.Inc()
		}
		o.emit(ctx, audit.Event{
			Action:         audit.ActionDispatchFailed,
			Timestamp:      requestcontext.Now(ctx),
			TenantID:       p.TenantID,
			ProtocolID:     p.ID,
			ProtocolNumber: p.Number,
			ModuleType:     svc.ModuleType,
			Reason:         err.Error(),
			RequestID:      requestcontext.RequestID(ctx),
		})
		return DispatchResult{}, err
	}
	return result, nil
}

func (o *Orchestrator) dispatchDataBearing(ctx context.Context, p *protocolmodels.Protocol, svc *catalogmodels.ServiceDefinition) (DispatchResult, error) {
	moduleType := svc.ModuleType

	entityName, err := o.mapping.EntityName(moduleType)
	if err != nil {
		return DispatchResult{}, err
	}
	informative, err := o.mapping.IsInformative(moduleType)
	if err != nil {
		return DispatchResult{}, err
	}
	if informative {
		// Catalog says data-bearing, mapping says informational: a catalog
		// mismatch, not a user error.
		return DispatchResult{}, dErrors.Newf(dErrors.CodeUnknownModule, "module type %s mapped informational but service %s is data-bearing", moduleType, svc.ID)
	}

	handler, err := o.registry.Resolve(moduleType)
	if err != nil {
		return DispatchResult{}, err
	}

	// Idempotency: a record already materialized for this protocol means a
	// previous dispatch won; return its linkage unchanged.
	if existing, err := handler.FindExisting(ctx, p.TenantID, p.Number); err == nil {
		return o.linkedResult(p, entityName, existing, true), nil
	} else if !errors.Is(err, sentinel.ErrNotFound) {
		return DispatchResult{}, dErrors.Wrap(err, dErrors.CodeInternal, "idempotency check")
	}

	if err := p.CanLink(); err != nil {
		return DispatchResult{}, err
	}

	action := ModuleAction{
		TenantID:       p.TenantID,
		CitizenID:      p.CitizenID,
		ServiceID:      p.ServiceID,
		ProtocolNumber: p.Number,
		Source:         SourceService,
		Data:           p.FormData,
	}

	txCtx := ctx
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		txCtx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	var execResult Result
	err = o.tx.RunInTx(txCtx, func(txCtx context.Context) error {
		res, err := handler.Execute(txCtx, action)
		if err != nil {
			return err
		}
		now := requestcontext.Now(txCtx)
		p.ApplyLinkage(protocolmodels.Linkage{ModuleEntity: entityName, RecordID: res.RecordID}, now)
		if err := o.protocols.AttachLinkage(txCtx, p); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "attach linkage")
		}
		execResult = res
		return nil
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent dispatch won the uniqueness race. Re-read the
			// winner's record and report its linkage instead of failing.
			return o.recoverConflict(ctx, p, handler, entityName)
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return DispatchResult{}, dErrors.Wrap(err, dErrors.CodeTimeout, "dispatch transaction timed out")
		}
		return DispatchResult{}, err
	}

	o.emit(ctx, audit.Event{
		Action:         audit.ActionProtocolDispatched,
		Timestamp:      requestcontext.Now(ctx),
		TenantID:       p.TenantID,
		ProtocolID:     p.ID,
		ProtocolNumber: p.Number,
		ModuleType:     moduleType,
		ModuleEntity:   entityName,
		RecordID:       execResult.RecordID,
		RequestID:      requestcontext.RequestID(ctx),
	})
	if o.metrics != nil {
		o.metrics.ProtocolsLinked.Inc()
	}
	return o.linkedResult(p, entityName, execResult, false), nil
}

func (o *Orchestrator) recoverConflict(ctx context.Context, p *protocolmodels.Protocol, handler Handler, entityName string) (DispatchResult, error) {
	existing, err := handler.FindExisting(ctx, p.TenantID, p.Number)
	if err != nil {
		return DispatchResult{}, dErrors.Wrap(err, dErrors.CodeConflict, "concurrent dispatch conflict, winner not readable")
	}
	if o.metrics != nil {
		o.metrics.ConflictsRecovered.Inc()
	}
	o.emit(ctx, audit.Event{
		Action:         audit.ActionConflictRecovered,
		Timestamp:      requestcontext.Now(ctx),
		TenantID:       p.TenantID,
		ProtocolID:     p.ID,
		ProtocolNumber: p.Number,
		ModuleEntity:   entityName,
		RecordID:       existing.RecordID,
		RequestID:      requestcontext.RequestID(ctx),
	})
	if o.logger != nil {
		o.logger.Printf("dispatch conflict recovered for protocol %s", p.Number)
	}
	return o.linkedResult(p, entityName, existing, true), nil
}

func (o *Orchestrator) linkedResult(p *protocolmodels.Protocol, entityName string, res Result, alreadyLinked bool) DispatchResult {
	return DispatchResult{
		ProtocolID:     p.ID,
		ProtocolNumber: p.Number,
		AlreadyLinked:  alreadyLinked,
		Linkage:        protocolmodels.Linkage{ModuleEntity: entityName, RecordID: res.RecordID},
		DisplayMessage: res.DisplayMessage,
	}
}

// WorkloadStatus resolves a linked protocol's domain-local status onto the
// shared tri-state so cross-department reporting can compare workloads.
func (o *Orchestrator) WorkloadStatus(ctx context.Context, protocolID id.ProtocolID) (id.TriState, error) {
	p, err := o.protocols.FindByID(ctx, protocolID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return "", dErrors.Newf(dErrors.CodeNotFound, "protocol %s not found", protocolID)
		}
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load protocol")
	}
	if p.Linkage.IsZero() {
		return "", dErrors.Newf(dErrors.CodeInvariantViolation, "protocol %s has no domain record", p.Number)
	}
	svc, err := o.services.FindByID(ctx, p.TenantID, p.ServiceID)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load service definition")
	}
	handler, err := o.registry.Resolve(svc.ModuleType)
	if err != nil {
		return "", err
	}
	record, err := handler.FindExisting(ctx, p.TenantID, p.Number)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "load domain record")
	}
	return handler.TriStateOf(record.LocalStatus)
}

func (o *Orchestrator) emit(ctx context.Context, event audit.Event) {
	if o.auditor == nil {
		return
	}
	if err := o.auditor.Emit(ctx, event); err != nil && o.logger != nil {
		o.logger.Printf("audit emit failed: %v", err)
	}
}
