package config

import (
	"os"
	"time"
)

// Server captures process level configuration.
type Server struct {
	Addr            string
	DatabaseURL     string
	MappingPath     string
	DispatchTimeout time.Duration
	AuditBuffer     int
}

const defaultDispatchTimeout = 5 * time.Second

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	addr := os.Getenv("ATENDE_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	mappingPath := os.Getenv("ATENDE_MODULE_MAPPING")
	if mappingPath == "" {
		mappingPath = "config/module_mapping.yaml"
	}

	timeout := defaultDispatchTimeout
	if raw := os.Getenv("ATENDE_DISPATCH_TIMEOUT"); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			timeout = d
		}
	}

	return Server{
		Addr:            addr,
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		MappingPath:     mappingPath,
		DispatchTimeout: timeout,
		AuditBuffer:     64,
	}
}
