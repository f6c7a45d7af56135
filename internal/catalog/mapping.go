// Package catalog owns the service catalog and the module mapping table.
// The mapping table is static configuration: loaded once at startup,
// validated eagerly, and read-only afterwards, so lookups need no locking.
package catalog

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"atende/internal/catalog/models"
	id "atende/pkg/domain"
	dErrors "atende/pkg/domain-errors"
)

// MappingEntry describes one module type's routing facts.
type MappingEntry struct {
	ModuleType     id.ModuleType
	ModuleEntity   string
	Classification models.Classification
}

// ModuleMapping resolves a module type to its entity name and classification.
// Absence of a module type is an error condition, never a silent default.
type ModuleMapping struct {
	entries map[id.ModuleType]MappingEntry
}

// mappingFile mirrors the YAML shape of the mapping configuration.
type mappingFile struct {
	Modules []struct {
		ModuleType     string `mapstructure:"moduleType"`
		ModuleEntity   string `mapstructure:"moduleEntity"`
		Classification string `mapstructure:"classification"`
	} `mapstructure:"modules"`
}

// LoadMapping reads the module mapping table from a YAML file.
func LoadMapping(path string) (*ModuleMapping, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read module mapping %s: %w", path, err)
	}

	var file mappingFile
	if err := v.Unmarshal(&file); err != nil {
		return nil, fmt.Errorf("decode module mapping %s: %w", path, err)
	}

	entries := make([]MappingEntry, 0, len(file.Modules))
	for _, m := range file.Modules {
		moduleType, err := id.ParseModuleType(m.ModuleType)
		if err != nil {
			return nil, fmt.Errorf("module mapping %s: %w", path, err)
		}
		classification, err := models.ParseClassification(m.Classification)
		if err != nil {
			return nil, fmt.Errorf("module mapping %s: entry %s: %w", path, moduleType, err)
		}
		entries = append(entries, MappingEntry{
			ModuleType:     moduleType,
			ModuleEntity:   strings.TrimSpace(m.ModuleEntity),
			Classification: classification,
		})
	}
	return NewModuleMapping(entries)
}

// NewModuleMapping builds and validates a mapping table from entries.
// Data-bearing entries must carry an entity name; duplicates are rejected.
func NewModuleMapping(entries []MappingEntry) (*ModuleMapping, error) {
	table := make(map[id.ModuleType]MappingEntry, len(entries))
	for _, e := range entries {
		if e.ModuleType.IsNil() {
			return nil, fmt.Errorf("module mapping entry with empty module type")
		}
		if _, dup := table[e.ModuleType]; dup {
			return nil, fmt.Errorf("module mapping entry %s declared twice", e.ModuleType)
		}
		if e.Classification == models.ClassificationDataBearing && e.ModuleEntity == "" {
			return nil, fmt.Errorf("data-bearing module %s has no entity name", e.ModuleType)
		}
		table[e.ModuleType] = e
	}
	return &ModuleMapping{entries: table}, nil
}

// EntityName returns the domain entity name bound to a module type.
func (m *ModuleMapping) EntityName(moduleType id.ModuleType) (string, error) {
	entry, ok := m.entries[moduleType]
	if !ok {
		return "", dErrors.Newf(dErrors.CodeUnknownModule, "module type %s is not mapped", moduleType)
	}
	return entry.ModuleEntity, nil
}

// IsInformative reports whether a module type is purely informational.
func (m *ModuleMapping) IsInformative(moduleType id.ModuleType) (bool, error) {
	entry, ok := m.entries[moduleType]
	if !ok {
		return false, dErrors.Newf(dErrors.CodeUnknownModule, "module type %s is not mapped", moduleType)
	}
	return entry.Classification == models.ClassificationInformational, nil
}

// Len returns the number of mapped module types.
func (m *ModuleMapping) Len() int { return len(m.entries) }
