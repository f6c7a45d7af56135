package security

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

// PostgresPatrolStore persists patrol requests.
//
// Schema:
//
//	CREATE TABLE patrol_requests (
//	    id         UUID PRIMARY KEY,
//	    tenant_id  UUID NOT NULL,
//	    protocol   TEXT NOT NULL,
//	    service_id UUID NOT NULL,
//	    source     TEXT NOT NULL,
//	    status     TEXT NOT NULL,
//	    location   TEXT NOT NULL,
//	    reason     TEXT NOT NULL DEFAULT '',
//	    created_by UUID,
//	    created_at TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, protocol)
//	);
type PostgresPatrolStore struct {
	db *sql.DB
}

func NewPostgresPatrolStore(db *sql.DB) *PostgresPatrolStore {
	return &PostgresPatrolStore{db: db}
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

func (s *PostgresPatrolStore) Create(ctx context.Context, patrol *PatrolRequest) error {
	const query = `
		INSERT INTO patrol_requests (id, tenant_id, protocol, service_id, source, status, location, reason, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := dbOrTx(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(patrol.ID), uuid.UUID(patrol.TenantID), patrol.Protocol.String(),
		uuid.UUID(patrol.ServiceID), patrol.Source.String(), string(patrol.Status),
		patrol.Location, patrol.Reason,
		uuid.NullUUID{UUID: uuid.UUID(patrol.CreatedBy), Valid: uuid.UUID(patrol.CreatedBy) != uuid.Nil},
		patrol.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create patrol request: %w", err)
	}
	return nil
}

func (s *PostgresPatrolStore) FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*PatrolRequest, error) {
	const query = `
		SELECT id, tenant_id, protocol, service_id, source, status, location, reason, created_by, created_at
		FROM patrol_requests
		WHERE tenant_id = $1 AND protocol = $2
	`
	var (
		patrol           PatrolRequest
		rawID, rawTenant uuid.UUID
		rawService       uuid.UUID
		rawCreator       uuid.NullUUID
		protocol         string
		source, status   string
	)
	err := dbOrTx(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), number.String()).Scan(
		&rawID, &rawTenant, &protocol, &rawService, &source, &status,
		&patrol.Location, &patrol.Reason, &rawCreator, &patrol.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find patrol request: %w", err)
	}
	patrol.ID = id.RecordID(rawID)
	patrol.TenantID = id.TenantID(rawTenant)
	patrol.Protocol = id.ProtocolNumber(protocol)
	patrol.ServiceID = id.ServiceID(rawService)
	patrol.Source = dispatch.Source(source)
	patrol.Status = PatrolStatus(status)
	patrol.CreatedBy = id.CitizenID(rawCreator.UUID)
	return &patrol, nil
}
