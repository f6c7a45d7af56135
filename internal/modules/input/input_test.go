package input

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "atende/pkg/domain-errors"
)

type sampleInput struct {
	Name  string  `mapstructure:"name" validate:"required"`
	Area  float64 `mapstructure:"area" validate:"required,gt=0"`
	Notes string  `mapstructure:"notes"`
}

func TestDecode(t *testing.T) {
	t.Run("maps and validates submitted data", func(t *testing.T) {
		var in sampleInput
		err := Decode(map[string]any{"name": "Ana Souza", "area": 42.5}, &in)
		require.NoError(t, err)
		assert.Equal(t, "Ana Souza", in.Name)
		assert.Equal(t, 42.5, in.Area)
		assert.Empty(t, in.Notes)
	})

	t.Run("coerces weakly typed values", func(t *testing.T) {
		// Web forms submit everything as strings.
		var in sampleInput
		err := Decode(map[string]any{"name": "Ana", "area": "12.5"}, &in)
		require.NoError(t, err)
		assert.Equal(t, 12.5, in.Area)
	})

	t.Run("missing required fields report submitted names", func(t *testing.T) {
		var in sampleInput
		err := Decode(map[string]any{"notes": "hello"}, &in)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.ElementsMatch(t, []string{"name", "area"}, dErrors.FieldsOf(err))
	})

	t.Run("constraint violations are validation errors", func(t *testing.T) {
		var in sampleInput
		err := Decode(map[string]any{"name": "Ana", "area": -3}, &in)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
		assert.Contains(t, dErrors.FieldsOf(err), "area")
	})

	t.Run("nil data fails required validation", func(t *testing.T) {
		var in sampleInput
		err := Decode(nil, &in)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
