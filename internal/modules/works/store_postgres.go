package works

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"atende/internal/dispatch"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
	"atende/pkg/platform/tx"
)

// PostgresPermitStore persists building permits.
//
// Schema:
//
//	CREATE TABLE building_permits (
//	    id             UUID PRIMARY KEY,
//	    tenant_id      UUID NOT NULL,
//	    protocol       TEXT NOT NULL,
//	    service_id     UUID NOT NULL,
//	    source         TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    applicant_name TEXT NOT NULL,
//	    parcel_number  TEXT NOT NULL,
//	    floor_area_sqm DOUBLE PRECISION NOT NULL,
//	    engineer_name  TEXT NOT NULL DEFAULT '',
//	    created_by     UUID,
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, protocol)
//	);
type PostgresPermitStore struct {
	db *sql.DB
}

func NewPostgresPermitStore(db *sql.DB) *PostgresPermitStore {
	return &PostgresPermitStore{db: db}
}

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func dbOrTx(ctx context.Context, db *sql.DB) querier {
	if t, ok := tx.From(ctx); ok {
		return t
	}
	return db
}

func (s *PostgresPermitStore) Create(ctx context.Context, permit *BuildingPermit) error {
	const query = `
		INSERT INTO building_permits (id, tenant_id, protocol, service_id, source, status, applicant_name, parcel_number, floor_area_sqm, engineer_name, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := dbOrTx(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(permit.ID), uuid.UUID(permit.TenantID), permit.Protocol.String(),
		uuid.UUID(permit.ServiceID), permit.Source.String(), string(permit.Status),
		permit.ApplicantName, permit.ParcelNumber, permit.FloorAreaSqm, permit.EngineerName,
		uuid.NullUUID{UUID: uuid.UUID(permit.CreatedBy), Valid: uuid.UUID(permit.CreatedBy) != uuid.Nil},
		permit.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create building permit: %w", err)
	}
	return nil
}

func (s *PostgresPermitStore) FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*BuildingPermit, error) {
	const query = `
		SELECT id, tenant_id, protocol, service_id, source, status, applicant_name, parcel_number, floor_area_sqm, engineer_name, created_by, created_at
		FROM building_permits
		WHERE tenant_id = $1 AND protocol = $2
	`
	var (
		permit           BuildingPermit
		rawID, rawTenant uuid.UUID
		rawService       uuid.UUID
		rawCreator       uuid.NullUUID
		protocol         string
		source, status   string
	)
	err := dbOrTx(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), number.String()).Scan(
		&rawID, &rawTenant, &protocol, &rawService, &source, &status,
		&permit.ApplicantName, &permit.ParcelNumber, &permit.FloorAreaSqm,
		&permit.EngineerName, &rawCreator, &permit.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find building permit: %w", err)
	}
	permit.ID = id.RecordID(rawID)
	permit.TenantID = id.TenantID(rawTenant)
	permit.Protocol = id.ProtocolNumber(protocol)
	permit.ServiceID = id.ServiceID(rawService)
	permit.Source = dispatch.Source(source)
	permit.Status = PermitStatus(status)
	permit.CreatedBy = id.CitizenID(rawCreator.UUID)
	return &permit, nil
}
