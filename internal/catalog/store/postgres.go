package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"atende/internal/catalog/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
	"atende/pkg/platform/tx"
)

// Postgres persists service definitions.
//
// Schema:
//
//	CREATE TABLE services (
//	    id             UUID PRIMARY KEY,
//	    tenant_id      UUID NOT NULL,
//	    name           TEXT NOT NULL,
//	    department     TEXT NOT NULL DEFAULT '',
//	    module_type    TEXT NOT NULL DEFAULT '',
//	    classification TEXT NOT NULL,
//	    active         BOOLEAN NOT NULL DEFAULT TRUE,
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    updated_at     TIMESTAMPTZ NOT NULL
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

// querier lets store methods run against either the pool or a transaction
// carried in context.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *Postgres) q(ctx context.Context) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return s.db
}

func (s *Postgres) Create(ctx context.Context, svc *models.ServiceDefinition) error {
	if err := svc.Validate(); err != nil {
		return err
	}
	const query = `
		INSERT INTO services (id, tenant_id, name, department, module_type, classification, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(svc.ID), uuid.UUID(svc.TenantID), svc.Name, svc.Department,
		svc.ModuleType.String(), svc.Classification.String(), svc.Active,
		svc.CreatedAt, svc.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create service: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, tenantID id.TenantID, serviceID id.ServiceID) (*models.ServiceDefinition, error) {
	const query = `
		SELECT id, tenant_id, name, department, module_type, classification, active, created_at, updated_at
		FROM services
		WHERE id = $1 AND tenant_id = $2
	`
	var (
		svc            models.ServiceDefinition
		rawID, rawTid  uuid.UUID
		moduleType     string
		classification string
	)
	err := s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(serviceID), uuid.UUID(tenantID)).Scan(
		&rawID, &rawTid, &svc.Name, &svc.Department, &moduleType,
		&classification, &svc.Active, &svc.CreatedAt, &svc.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find service: %w", err)
	}
	svc.ID = id.ServiceID(rawID)
	svc.TenantID = id.TenantID(rawTid)
	svc.ModuleType = id.ModuleType(moduleType)
	svc.Classification = models.Classification(classification)
	return &svc, nil
}
