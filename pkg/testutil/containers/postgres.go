//go:build integration

// Package containers manages shared test containers for integration tests.
// Containers are started once per test binary and reused across suites; Ryuk
// terminates them when the process exits.
package containers

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema creates every table the stores expect. Kept in one place so
// integration suites and local development agree on the layout.
const schema = `
CREATE TABLE IF NOT EXISTS services (
    id             UUID PRIMARY KEY,
    tenant_id      UUID NOT NULL,
    name           TEXT NOT NULL,
    department     TEXT NOT NULL DEFAULT '',
    module_type    TEXT NOT NULL DEFAULT '',
    classification TEXT NOT NULL,
    active         BOOLEAN NOT NULL DEFAULT TRUE,
    created_at     TIMESTAMPTZ NOT NULL,
    updated_at     TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS protocols (
    id            UUID PRIMARY KEY,
    tenant_id     UUID NOT NULL,
    citizen_id    UUID,
    service_id    UUID NOT NULL,
    number        TEXT NOT NULL,
    title         TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    form_data     JSONB NOT NULL DEFAULT '{}',
    status        TEXT NOT NULL,
    module_entity TEXT NOT NULL DEFAULT '',
    record_id     UUID,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, number)
);

CREATE TABLE IF NOT EXISTS medical_exams (
    id           UUID PRIMARY KEY,
    tenant_id    UUID NOT NULL,
    protocol     TEXT NOT NULL,
    service_id   UUID NOT NULL,
    source       TEXT NOT NULL,
    status       TEXT NOT NULL,
    patient_name TEXT NOT NULL,
    exam_type    TEXT NOT NULL,
    notes        TEXT NOT NULL DEFAULT '',
    created_by   UUID,
    created_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, protocol)
);

CREATE TABLE IF NOT EXISTS home_care_visits (
    id           UUID PRIMARY KEY,
    tenant_id    UUID NOT NULL,
    protocol     TEXT NOT NULL,
    service_id   UUID NOT NULL,
    source       TEXT NOT NULL,
    status       TEXT NOT NULL,
    patient_name TEXT NOT NULL,
    address      TEXT NOT NULL,
    care_type    TEXT NOT NULL,
    created_by   UUID,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, protocol)
);

CREATE TABLE IF NOT EXISTS building_permits (
    id             UUID PRIMARY KEY,
    tenant_id      UUID NOT NULL,
    protocol       TEXT NOT NULL,
    service_id     UUID NOT NULL,
    source         TEXT NOT NULL,
    status         TEXT NOT NULL,
    applicant_name TEXT NOT NULL,
    parcel_number  TEXT NOT NULL,
    floor_area_sqm DOUBLE PRECISION NOT NULL,
    engineer_name  TEXT NOT NULL DEFAULT '',
    created_by     UUID,
    created_at     TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, protocol)
);

CREATE TABLE IF NOT EXISTS environmental_complaints (
    id             UUID PRIMARY KEY,
    tenant_id      UUID NOT NULL,
    protocol       TEXT NOT NULL,
    service_id     UUID NOT NULL,
    source         TEXT NOT NULL,
    status         TEXT NOT NULL,
    location       TEXT NOT NULL,
    complaint_type TEXT NOT NULL,
    description    TEXT NOT NULL DEFAULT '',
    created_by     UUID,
    created_at     TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, protocol)
);

CREATE TABLE IF NOT EXISTS patrol_requests (
    id         UUID PRIMARY KEY,
    tenant_id  UUID NOT NULL,
    protocol   TEXT NOT NULL,
    service_id UUID NOT NULL,
    source     TEXT NOT NULL,
    status     TEXT NOT NULL,
    location   TEXT NOT NULL,
    reason     TEXT NOT NULL DEFAULT '',
    created_by UUID,
    created_at TIMESTAMPTZ NOT NULL,
    UNIQUE (tenant_id, protocol)
);
`

// PostgresContainer wraps a testcontainers Postgres instance with the schema
// already applied.
type PostgresContainer struct {
	Container testcontainers.Container
	DSN       string
	DB        *sql.DB
}

// Manager shares containers across suites within one test binary.
type Manager struct {
	mu       sync.Mutex
	postgres *PostgresContainer
}

var manager = &Manager{}

// GetManager returns the process-wide container manager.
func GetManager() *Manager {
	return manager
}

// GetPostgres returns the shared Postgres container, starting it on first
// use.
func (m *Manager) GetPostgres(t *testing.T) *PostgresContainer {
	t.Helper()
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.postgres == nil {
		m.postgres = newPostgresContainer(t)
	}
	return m.postgres
}

func newPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("atende_test"),
		tcpostgres.WithUsername("atende"),
		tcpostgres.WithPassword("atende"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	return &PostgresContainer{Container: container, DSN: dsn, DB: db}
}

// TruncateTables empties the given tables. Use between tests for isolation.
func (p *PostgresContainer) TruncateTables(ctx context.Context, tables ...string) error {
	if len(tables) == 0 {
		return nil
	}
	stmt := fmt.Sprintf("TRUNCATE TABLE %s CASCADE", strings.Join(tables, ", "))
	_, err := p.DB.ExecContext(ctx, stmt)
	return err
}
