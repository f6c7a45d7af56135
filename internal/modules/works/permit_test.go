package works

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atende/internal/dispatch"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

func newPermitAction(number string, data map[string]any) dispatch.ModuleAction {
	return dispatch.ModuleAction{
		TenantID:       id.TenantID(uuid.New()),
		CitizenID:      id.CitizenID(uuid.New()),
		ServiceID:      id.ServiceID(uuid.New()),
		ProtocolNumber: id.ProtocolNumber(number),
		Source:         dispatch.SourceService,
		Data:           data,
	}
}

func TestPermitEngineerRule(t *testing.T) {
	handler := NewPermitHandler(NewInMemoryPermitStore())
	ctx := context.Background()

	t.Run("small structures need no engineer", func(t *testing.T) {
		action := newPermitAction("2026/000030", map[string]any{
			"applicantName": "Diego Santos",
			"parcelNumber":  "044.221.009",
			"floorAreaSqm":  90,
		})
		result, err := handler.Execute(ctx, action)
		require.NoError(t, err)
		assert.Equal(t, string(PermitStatusPending), result.LocalStatus)
	})

	t.Run("large structures require a responsible engineer", func(t *testing.T) {
		action := newPermitAction("2026/000031", map[string]any{
			"applicantName": "Diego Santos",
			"parcelNumber":  "044.221.010",
			"floorAreaSqm":  200,
		})
		_, err := handler.Execute(ctx, action)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, dErrors.FieldsOf(err), "engineerName")

		action.Data["engineerName"] = "Eng. Paula Reis"
		result, err := handler.Execute(ctx, action)
		require.NoError(t, err)
		assert.False(t, result.RecordID.IsNil())
	})

	t.Run("zero floor area is rejected by the schema", func(t *testing.T) {
		action := newPermitAction("2026/000032", map[string]any{
			"applicantName": "Diego Santos",
			"parcelNumber":  "044.221.011",
			"floorAreaSqm":  0,
		})
		_, err := handler.Execute(ctx, action)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
