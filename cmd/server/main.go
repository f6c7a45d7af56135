package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"atende/internal/audit"
	"atende/internal/catalog"
	cataloghandler "atende/internal/catalog/handler"
	catalogstore "atende/internal/catalog/store"
	"atende/internal/dispatch"
	dispatchhandler "atende/internal/dispatch/handler"
	dispatchmetrics "atende/internal/dispatch/metrics"
	"atende/internal/modules/environment"
	"atende/internal/modules/health"
	"atende/internal/modules/security"
	"atende/internal/modules/works"
	"atende/internal/platform/config"
	"atende/internal/platform/httpserver"
	"atende/internal/platform/logger"
	protocolservice "atende/internal/protocol/service"
	protocolstore "atende/internal/protocol/store"
	id "atende/pkg/domain"
	"atende/pkg/platform/middleware/requestid"
	"atende/pkg/platform/middleware/requesttime"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in the internal packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	mapping, err := catalog.LoadMapping(cfg.MappingPath)
	if err != nil {
		log.Fatalf("module mapping: %v", err)
	}

	deps, cleanup, err := buildStores(cfg)
	if err != nil {
		log.Fatalf("stores: %v", err)
	}
	defer cleanup()

	registry, err := buildRegistry(deps)
	if err != nil {
		log.Fatalf("handler registry: %v", err)
	}
	log.Printf("registered %d module handlers, %d mapped module types", registry.Len(), mapping.Len())

	publisher := audit.NewPublisher(audit.NewInMemoryStore(), audit.WithAsyncBuffer(cfg.AuditBuffer))
	defer publisher.Close()

	orchestrator := dispatch.NewOrchestrator(
		deps.protocols, deps.services, mapping, registry, deps.tx,
		dispatch.WithMetrics(dispatchmetrics.New()),
		dispatch.WithAuditSink(publisher),
		dispatch.WithLogger(log),
		dispatch.WithTimeout(cfg.DispatchTimeout),
	)
	protocols := protocolservice.NewService(deps.protocols, id.NewNumberSequence())

	router := chi.NewRouter()
	router.Use(requestid.Middleware, requesttime.Middleware)
	dispatchhandler.New(protocols, orchestrator).Routes(router)
	cataloghandler.New(deps.services).Routes(router)
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	log.Printf("starting atende on %s", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("graceful shutdown failed: %v", err)
	}
}

// protocolStore is the full protocol persistence surface main wires: intake
// writes plus the orchestrator's linkage update.
type protocolStore interface {
	protocolservice.Store
	dispatch.ProtocolStore
}

type stores struct {
	protocols  protocolStore
	services   cataloghandler.Store
	exams      health.ExamStore
	homecare   health.HomeCareStore
	permits    works.PermitStore
	complaints environment.ComplaintStore
	patrols    security.PatrolStore
	tx         dispatch.StoreTx
}

// buildStores selects Postgres stores when DATABASE_URL is set and in-memory
// stores otherwise. The in-memory variant serves local development and tests;
// a real deployment always runs against Postgres.
func buildStores(cfg config.Server) (stores, func(), error) {
	if cfg.DatabaseURL == "" {
		return stores{
			protocols:  protocolstore.NewInMemory(),
			services:   catalogstore.NewInMemory(),
			exams:      health.NewInMemoryExamStore(),
			homecare:   health.NewInMemoryHomeCareStore(),
			permits:    works.NewInMemoryPermitStore(),
			complaints: environment.NewInMemoryComplaintStore(),
			patrols:    security.NewInMemoryPatrolStore(),
			tx:         dispatch.NewInMemoryStoreTx(),
		}, func() {}, nil
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return stores{}, nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return stores{}, nil, err
	}
	return stores{
		protocols:  protocolstore.NewPostgres(db),
		services:   catalogstore.NewPostgres(db),
		exams:      health.NewPostgresExamStore(db),
		homecare:   health.NewPostgresHomeCareStore(db),
		permits:    works.NewPostgresPermitStore(db),
		complaints: environment.NewPostgresComplaintStore(db),
		patrols:    security.NewPostgresPatrolStore(db),
		tx:         newDispatchPostgresTx(db),
	}, func() { _ = db.Close() }, nil
}

// buildRegistry binds every module handler to its module type. Registration
// order is fixed so a duplicate binding fails the same way on every start.
func buildRegistry(deps stores) (*dispatch.Registry, error) {
	registry := dispatch.NewRegistry()
	bindings := []struct {
		moduleType id.ModuleType
		handler    dispatch.Handler
	}{
		{health.ModuleTypeExam, health.NewExamHandler(deps.exams)},
		{health.ModuleTypeHomeCare, health.NewHomeCareHandler(deps.homecare)},
		{works.ModuleTypePermit, works.NewPermitHandler(deps.permits)},
		{environment.ModuleTypeComplaint, environment.NewComplaintHandler(deps.complaints)},
		{security.ModuleTypePatrol, security.NewPatrolHandler(deps.patrols)},
	}
	for _, b := range bindings {
		if err := registry.Register(b.moduleType, b.handler); err != nil {
			return nil, err
		}
	}
	return registry, nil
}
