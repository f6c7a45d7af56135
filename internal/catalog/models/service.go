package models

import (
	"fmt"
	"time"

	id "atende/pkg/domain"
)

// Classification states whether requesting a service produces a domain
// record at all. Legacy catalogs used COM_DADOS / INFORMATIVO; both spellings
// parse.
type Classification string

const (
	ClassificationDataBearing   Classification = "DATA_BEARING"
	ClassificationInformational Classification = "INFORMATIONAL"
)

// ParseClassification validates a classification value, accepting the legacy
// Portuguese spellings still present in older catalog exports.
func ParseClassification(s string) (Classification, error) {
	switch s {
	case string(ClassificationDataBearing), "COM_DADOS":
		return ClassificationDataBearing, nil
	case string(ClassificationInformational), "INFORMATIVO":
		return ClassificationInformational, nil
	}
	return "", fmt.Errorf("unknown classification %q", s)
}

func (c Classification) String() string { return string(c) }

// ServiceDefinition is a catalog entry citizens request against. It decides
// which module type owns the submitted data and whether a domain record is
// materialized at all.
type ServiceDefinition struct {
	ID             id.ServiceID
	TenantID       id.TenantID
	Name           string
	Department     string
	ModuleType     id.ModuleType
	Classification Classification
	Active         bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks the invariants a catalog entry must hold before it is
// served: data-bearing services must name a module type.
func (s *ServiceDefinition) Validate() error {
	if s.ID.IsNil() {
		return fmt.Errorf("service id is required")
	}
	if s.TenantID.IsNil() {
		return fmt.Errorf("tenant id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("service name is required")
	}
	if _, err := ParseClassification(string(s.Classification)); err != nil {
		return err
	}
	if s.Classification == ClassificationDataBearing && s.ModuleType.IsNil() {
		return fmt.Errorf("data-bearing service %s has no module type", s.ID)
	}
	return nil
}
