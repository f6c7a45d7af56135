package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"atende/internal/catalog/models"
	dErrors "atende/pkg/domain-errors"
)

func TestNewModuleMapping(t *testing.T) {
	t.Run("accepts valid entries", func(t *testing.T) {
		m, err := NewModuleMapping([]MappingEntry{
			{ModuleType: "health.medicalExam", ModuleEntity: "MedicalExam", Classification: models.ClassificationDataBearing},
			{ModuleType: "general.information", Classification: models.ClassificationInformational},
		})
		require.NoError(t, err)
		assert.Equal(t, 2, m.Len())

		entity, err := m.EntityName("health.medicalExam")
		require.NoError(t, err)
		assert.Equal(t, "MedicalExam", entity)

		informative, err := m.IsInformative("general.information")
		require.NoError(t, err)
		assert.True(t, informative)
	})

	t.Run("rejects duplicate module types", func(t *testing.T) {
		_, err := NewModuleMapping([]MappingEntry{
			{ModuleType: "works.buildingPermit", ModuleEntity: "BuildingPermit", Classification: models.ClassificationDataBearing},
			{ModuleType: "works.buildingPermit", ModuleEntity: "BuildingPermit", Classification: models.ClassificationDataBearing},
		})
		assert.Error(t, err)
	})

	t.Run("rejects data-bearing entry without entity name", func(t *testing.T) {
		_, err := NewModuleMapping([]MappingEntry{
			{ModuleType: "works.buildingPermit", Classification: models.ClassificationDataBearing},
		})
		assert.Error(t, err)
	})

	t.Run("unmapped module type carries the unknown-module code", func(t *testing.T) {
		m, err := NewModuleMapping(nil)
		require.NoError(t, err)

		_, err = m.EntityName("health.medicalExam")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownModule))

		_, err = m.IsInformative("health.medicalExam")
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownModule))
	})
}

func TestLoadMapping(t *testing.T) {
	writeMapping := func(t *testing.T, content string) string {
		t.Helper()
		path := filepath.Join(t.TempDir(), "module_mapping.yaml")
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		return path
	}

	t.Run("loads a valid mapping file", func(t *testing.T) {
		path := writeMapping(t, `
modules:
  - moduleType: health.medicalExam
    moduleEntity: MedicalExam
    classification: DATA_BEARING
  - moduleType: general.information
    moduleEntity: ""
    classification: INFORMATIVO
`)
		m, err := LoadMapping(path)
		require.NoError(t, err)
		assert.Equal(t, 2, m.Len())

		// Legacy classification spellings normalize on load.
		informative, err := m.IsInformative("general.information")
		require.NoError(t, err)
		assert.True(t, informative)
	})

	t.Run("rejects malformed module types", func(t *testing.T) {
		path := writeMapping(t, `
modules:
  - moduleType: ""
    moduleEntity: MedicalExam
    classification: DATA_BEARING
`)
		_, err := LoadMapping(path)
		assert.Error(t, err)
	})

	t.Run("missing file is an error", func(t *testing.T) {
		_, err := LoadMapping(filepath.Join(t.TempDir(), "absent.yaml"))
		assert.Error(t, err)
	})
}
