package environment

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atende/internal/dispatch"
	id "atende/pkg/domain"
)

func TestComplaintOptionalDescription(t *testing.T) {
	store := NewInMemoryComplaintStore()
	handler := NewComplaintHandler(store)
	ctx := context.Background()

	action := dispatch.ModuleAction{
		TenantID:       id.TenantID(uuid.New()),
		CitizenID:      id.CitizenID(uuid.New()),
		ServiceID:      id.ServiceID(uuid.New()),
		ProtocolNumber: "2026/000040",
		Source:         dispatch.SourceService,
		Data: map[string]any{
			"location":      "Av. Central 300",
			"complaintType": "noise",
		},
	}
	_, err := handler.Execute(ctx, action)
	require.NoError(t, err)

	complaint, err := store.FindByProtocol(ctx, action.TenantID, action.ProtocolNumber)
	require.NoError(t, err)
	assert.Equal(t, ComplaintStatusOpen, complaint.Status)
	assert.Empty(t, complaint.Description)
}
