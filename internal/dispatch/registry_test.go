package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

type noopHandler struct{}

func (noopHandler) EntityName() string { return "Noop" }
func (noopHandler) Execute(context.Context, ModuleAction) (Result, error) {
	return Result{}, nil
}
func (noopHandler) FindExisting(context.Context, id.TenantID, id.ProtocolNumber) (Result, error) {
	return Result{}, nil
}
func (noopHandler) TriStateOf(string) (id.TriState, error) {
	return id.TriStateOpen, nil
}

func TestRegistry(t *testing.T) {
	t.Run("registers and resolves", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register("health.medicalExam", noopHandler{}))
		assert.Equal(t, 1, registry.Len())

		handler, err := registry.Resolve("health.medicalExam")
		require.NoError(t, err)
		assert.Equal(t, "Noop", handler.EntityName())
	})

	t.Run("duplicate registration fails startup", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register("health.medicalExam", noopHandler{}))

		err := registry.Register("health.medicalExam", noopHandler{})
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateRegistration))
	})

	t.Run("rejects empty module type and nil handler", func(t *testing.T) {
		registry := NewRegistry()
		assert.Error(t, registry.Register("", noopHandler{}))
		assert.Error(t, registry.Register("health.medicalExam", nil))
	})

	t.Run("unknown module type resolves to typed error", func(t *testing.T) {
		registry := NewRegistry()
		_, err := registry.Resolve("health.medicalExam")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownModule))
	})
}
