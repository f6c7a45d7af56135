package health

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

// PostgresExamStore persists medical exams.
//
// Schema:
//
//	CREATE TABLE medical_exams (
//	    id           UUID PRIMARY KEY,
//	    tenant_id    UUID NOT NULL,
//	    protocol     TEXT NOT NULL,
//	    service_id   UUID NOT NULL,
//	    source       TEXT NOT NULL,
//	    status       TEXT NOT NULL,
//	    patient_name TEXT NOT NULL,
//	    exam_type    TEXT NOT NULL,
//	    notes        TEXT NOT NULL DEFAULT '',
//	    created_by   UUID,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, protocol)
//	);
type PostgresExamStore struct {
	db *sql.DB
}

func NewPostgresExamStore(db *sql.DB) *PostgresExamStore {
	return &PostgresExamStore{db: db}
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

func (s *PostgresExamStore) Create(ctx context.Context, exam *MedicalExam) error {
	const query = `
		INSERT INTO medical_exams (id, tenant_id, protocol, service_id, source, status, patient_name, exam_type, notes, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := dbOrTx(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(exam.ID), uuid.UUID(exam.TenantID), exam.Protocol.String(),
		uuid.UUID(exam.ServiceID), exam.Source.String(), string(exam.Status),
		exam.PatientName, exam.ExamType, exam.Notes,
		nullableUUID(uuid.UUID(exam.CreatedBy)), exam.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create medical exam: %w", err)
	}
	return nil
}

func (s *PostgresExamStore) FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*MedicalExam, error) {
	const query = `
		SELECT id, tenant_id, protocol, service_id, source, status, patient_name, exam_type, notes, created_by, created_at
		FROM medical_exams
		WHERE tenant_id = $1 AND protocol = $2
	`
	var (
		exam             MedicalExam
		rawID, rawTenant uuid.UUID
		rawService       uuid.UUID
		rawCreator       uuid.NullUUID
		protocol         string
		source, status   string
	)
	err := dbOrTx(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), number.String()).Scan(
		&rawID, &rawTenant, &protocol, &rawService, &source, &status,
		&exam.PatientName, &exam.ExamType, &exam.Notes, &rawCreator, &exam.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find medical exam: %w", err)
	}
	exam.ID = id.RecordID(rawID)
	exam.TenantID = id.TenantID(rawTenant)
	exam.Protocol = id.ProtocolNumber(protocol)
	exam.ServiceID = id.ServiceID(rawService)
	exam.Source = dispatch.Source(source)
	exam.Status = ExamStatus(status)
	exam.CreatedBy = id.CitizenID(rawCreator.UUID)
	return &exam, nil
}

// PostgresHomeCareStore persists home care visits.
//
// Schema:
//
//	CREATE TABLE home_care_visits (
//	    id           UUID PRIMARY KEY,
//	    tenant_id    UUID NOT NULL,
//	    protocol     TEXT NOT NULL,
//	    service_id   UUID NOT NULL,
//	    source       TEXT NOT NULL,
//	    status       TEXT NOT NULL,
//	    patient_name TEXT NOT NULL,
//	    address      TEXT NOT NULL,
//	    care_type    TEXT NOT NULL,
//	    created_by   UUID,
//	    created_at   TIMESTAMPTZ NOT NULL,
//	    updated_at   TIMESTAMPTZ NOT NULL,
//	    UNIQUE (tenant_id, protocol)
//	);
type PostgresHomeCareStore struct {
	db *sql.DB
}

func NewPostgresHomeCareStore(db *sql.DB) *PostgresHomeCareStore {
	return &PostgresHomeCareStore{db: db}
}

// Upsert inserts or, on resubmission, refreshes the submitted fields while
// keeping the original id and status.
func (s *PostgresHomeCareStore) Upsert(ctx context.Context, visit *HomeCareVisit) (*HomeCareVisit, error) {
	const query = `
		INSERT INTO home_care_visits (id, tenant_id, protocol, service_id, source, status, patient_name, address, care_type, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (tenant_id, protocol) DO UPDATE SET
			patient_name = EXCLUDED.patient_name,
			address = EXCLUDED.address,
			care_type = EXCLUDED.care_type,
			updated_at = EXCLUDED.updated_at
	`
	_, err := dbOrTx(ctx, s.db).ExecContext(ctx, query,
		uuid.UUID(visit.ID), uuid.UUID(visit.TenantID), visit.Protocol.String(),
		uuid.UUID(visit.ServiceID), visit.Source.String(), string(visit.Status),
		visit.PatientName, visit.Address, visit.CareType,
		nullableUUID(uuid.UUID(visit.CreatedBy)), visit.CreatedAt, visit.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("upsert home care visit: %w", err)
	}
	return s.FindByProtocol(ctx, visit.TenantID, visit.Protocol)
}

func (s *PostgresHomeCareStore) FindByProtocol(ctx context.Context, tenantID id.TenantID, number id.ProtocolNumber) (*HomeCareVisit, error) {
	const query = `
		SELECT id, tenant_id, protocol, service_id, source, status, patient_name, address, care_type, created_by, created_at, updated_at
		FROM home_care_visits
		WHERE tenant_id = $1 AND protocol = $2
	`
	var (
		visit            HomeCareVisit
		rawID, rawTenant uuid.UUID
		rawService       uuid.UUID
		rawCreator       uuid.NullUUID
		protocol         string
		source, status   string
	)
	err := dbOrTx(ctx, s.db).QueryRowContext(ctx, query, uuid.UUID(tenantID), number.String()).Scan(
		&rawID, &rawTenant, &protocol, &rawService, &source, &status,
		&visit.PatientName, &visit.Address, &visit.CareType, &rawCreator,
		&visit.CreatedAt, &visit.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find home care visit: %w", err)
	}
	visit.ID = id.RecordID(rawID)
	visit.TenantID = id.TenantID(rawTenant)
	visit.Protocol = id.ProtocolNumber(protocol)
	visit.ServiceID = id.ServiceID(rawService)
	visit.Source = dispatch.Source(source)
	visit.Status = HomeCareStatus(status)
	visit.CreatedBy = id.CitizenID(rawCreator.UUID)
	return &visit, nil
}

func nullableUUID(u uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: u, Valid: u != uuid.Nil}
}
