package domain

import (
	"fmt"
	"strings"
)

// ModuleType selects which domain handler owns a service's data. Values are
// dotted identifiers like "health.medicalExam".
//
// Usage: construct via ParseModuleType at trust boundaries to enforce shape;
// whether a type is actually mapped/registered is checked by the catalog and
// the dispatch registry, not here.
type ModuleType string

// ParseModuleType validates the lexical shape of a module type.
func ParseModuleType(s string) (ModuleType, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("module type is empty")
	}
	for _, part := range strings.Split(s, ".") {
		if part == "" {
			return "", fmt.Errorf("malformed module type %q", s)
		}
	}
	return ModuleType(s), nil
}

func (t ModuleType) String() string { return string(t) }

func (t ModuleType) IsNil() bool { return t == "" }
