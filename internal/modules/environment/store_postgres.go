package environment

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

// PostgresComplaintStore persists environmental complaints.
//
// Schema:
//
//	CREATE TABLE environmental_complaints (
//	    id             UUID PRIMARY KEY,
//	    tenant_id      UUID NOT NULL,
//	    protocol       TEXT NOT NULL,
//	    service_id     UUID NOT NULL,
//	    source         TEXT NOT NULL,
//	    status         TEXT NOT NULL,
//	    location       TEXT NOT NULL,
//	    complaint_type TEXT NOT NULL,
//	    description    TEXT NOT NULL DEFAULT '',
//	    created_by     UUID,
//	    created_at     TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, protocol)
//	);
type PostgresComplaintStore struct {
	db *sql.DB
}

func NewPostgresComplaintStore(db *sql.DB) *PostgresComplaintStore {
	return &PostgresComplaintStore{db: db}
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

func (s *PostgresComplaintStore) Create(ctx context.Context, complaint *Complaint) error {
	const query = `
		INSERT INTO environmental_complaints (id, tenant_id, protocol, service_id, source, status, location, complaint_type, description, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := dbOrTx(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(complaint.ID), uuid.UUID(complaint.TenantID), complaint.Protocol.String(),
		uuid.UUID(complaint.ServiceID), complaint.Source.String(), string(complaint.Status),
		complaint.Location, complaint.ComplaintType, complaint.Description,
		uuid.NullUUID{UUID: uuid.UUID(complaint.CreatedBy), Valid: uuid.UUID(complaint.CreatedBy) != uuid.Nil},
		complaint.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create complaint: %w", err)
	}
	return nil
}

func (s *PostgresComplaintStore) FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*Complaint, error) {
	const query = `
		SELECT id, tenant_id, protocol, service_id, source, status, location, complaint_type, description, created_by, created_at
		FROM environmental_complaints
		WHERE tenant_id = $1 AND protocol = $2
	`
	var (
		complaint        Complaint
		rawID, rawTenant uuid.UUID
		rawService       uuid.UUID
		rawCreator       uuid.NullUUID
		protocol         string
		source, status   string
	)
	err := dbOrTx(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), number.String()).Scan(
		&rawID, &rawTenant, &protocol, &rawService, &source, &status,
		&complaint.Location, &complaint.ComplaintType, &complaint.Description,
		&rawCreator, &complaint.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find complaint: %w", err)
	}
	complaint.ID = id.RecordID(rawID)
	complaint.TenantID = id.TenantID(rawTenant)
	complaint.Protocol = id.ProtocolNumber(protocol)
	complaint.ServiceID = id.ServiceID(rawService)
	complaint.Source = dispatch.Source(source)
	complaint.Status = ComplaintStatus(status)
	complaint.CreatedBy = id.CitizenID(rawCreator.UUID)
	return &complaint, nil
}
