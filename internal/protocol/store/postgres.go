package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"atende/internal/protocol/models"
	id "atende/pkg/domain"
	"atende/pkg/platform/sentinel"
	"atende/pkg/platform/tx"
)

// Postgres persists protocols.
//
// Schema:
//
//	CREATE TABLE protocols (
//	    id            UUID PRIMARY KEY,
//	    tenant_id     UUID NOT NULL,
//	    citizen_id    UUID,
//	    service_id    UUID NOT NULL,
//	    number        TEXT NOT NULL,
//	    title         TEXT NOT NULL DEFAULT '',
//	    description   TEXT NOT NULL DEFAULT '',
//	    form_data     JSONB NOT NULL DEFAULT '{}',
//	    status        TEXT NOT NULL,
//	    module_entity TEXT NOT NULL DEFAULT '',
//	    record_id     UUID,
//	    created_at    TIMESTAMPTZ NOT NULL,
//	    updated_at    TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, number)
//	);
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

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

func (s *Postgres) Create(ctx context.Context, p *models.Protocol) error {
	formData, err := json.Marshal(p.FormData)
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	const query = `
		INSERT INTO protocols (id, tenant_id, citizen_id, service_id, number, title, description, form_data, status, module_entity, record_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err = s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID), uuid.UUID(p.TenantID), nullableUUID(uuid.UUID(p.CitizenID)),
		uuid.UUID(p.ServiceID), p.Number.String(), p.Title, p.Description, formData,
		p.Status.String(), p.Linkage.ModuleEntity, nullableUUID(uuid.UUID(p.Linkage.RecordID)),
		p.CreatedAt, p.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create protocol: %w", err)
	}
	return nil
}

func (s *Postgres) FindByID(ctx context.Context, protocolID id.ProtocolID) (*models.Protocol, error) {
	const query = `
		SELECT id, tenant_id, citizen_id, service_id, number, title, description, form_data, status, module_entity, record_id, created_at, updated_at
		FROM protocols
		WHERE id = $1
	`
	var (
		p              models.Protocol
		rawID, rawTid  uuid.UUID
		rawCid, rawRid uuid.NullUUID
		rawSid         uuid.UUID
		number, status string
		formData       []byte
	)
	err := s.q(ctx).QueryRowContext(ctx, query, uuid.UUID(protocolID)).Scan(
		&rawID, &rawTid, &rawCid, &rawSid, &number, &p.Title, &p.Description,
		&formData, &status, &p.Linkage.ModuleEntity, &rawRid, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find protocol: %w", err)
	}
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &p.FormData); err != nil {
			return nil, fmt.Errorf("decode form data: %w", err)
		}
	}
	p.ID = id.ProtocolID(rawID)
	p.TenantID = id.TenantID(rawTid)
	p.CitizenID = id.CitizenID(rawCid.UUID)
	p.ServiceID = id.ServiceID(rawSid)
	p.Number = id.ProtocolNumber(number)
	p.Status = models.Status(status)
	p.Linkage.RecordID = id.RecordID(rawRid.UUID)
	return &p, nil
}

// AttachLinkage updates exactly the dispatch-owned fields: status, linkage
// and the update timestamp.
func (s *Postgres) AttachLinkage(ctx context.Context, p *models.Protocol) error {
	const query = `
		UPDATE protocols
		SET status = $2, module_entity = $3, record_id = $4, updated_at = $5
		WHERE id = $1
	`
	res, err := s.q(ctx).ExecContext(ctx, query,
		uuid.UUID(p.ID), p.Status.String(), p.Linkage.ModuleEntity,
		nullableUUID(uuid.UUID(p.Linkage.RecordID)), p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("attach linkage: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("attach linkage: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func nullableUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
