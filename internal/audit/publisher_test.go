package audit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "atende/pkg/domain"
)

func newEvent(tenantID id.TenantID) Event {
	return Event{
		Action:         ActionProtocolDispatched,
		Timestamp:      time.Now(),
		TenantID:       tenantID,
		ProtocolID:     id.ProtocolID(uuid.New()),
		ProtocolNumber: "2026/000001",
		ModuleType:     "health.medicalExam",
		ModuleEntity:   "MedicalExam",
		RecordID:       id.RecordID(uuid.New()),
	}
}

func TestPublisherSync(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store)
	tenantID := id.TenantID(uuid.New())

	require.NoError(t, publisher.Emit(context.Background(), newEvent(tenantID)))

	events, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestPublisherAsyncDrainsOnClose(t *testing.T) {
	store := NewInMemoryStore()
	publisher := NewPublisher(store, WithAsyncBuffer(16))
	tenantID := id.TenantID(uuid.New())

	for range 10 {
		require.NoError(t, publisher.Emit(context.Background(), newEvent(tenantID)))
	}
	publisher.Close()

	events, err := store.ListByTenant(context.Background(), tenantID)
	require.NoError(t, err)
	assert.Len(t, events, 10)

	// Close is idempotent.
	publisher.Close()
}
