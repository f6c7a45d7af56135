package domain

import (
	"fmt"
	"regexp"
	"sync"
	"time"
)

// ProtocolNumber is the human-readable identifier of a protocol, immutable
// once issued. Format: YYYY/NNNNNN (year of issuance plus a zero-padded
// per-year sequence).
type ProtocolNumber string

var protocolNumberPattern = regexp.MustCompile(`^\d{4}/\d{6}$`)

// ParseProtocolNumber validates a protocol number's format.
func ParseProtocolNumber(s string) (ProtocolNumber, error) {
	if !protocolNumberPattern.MatchString(s) {
		return "", fmt.Errorf("malformed protocol number %q", s)
	}
	return ProtocolNumber(s), nil
}

func (n ProtocolNumber) String() string { return string(n) }

func (n ProtocolNumber) IsNil() bool { return n == "" }

// NumberSequence issues protocol numbers sequentially within a year. The
// in-process counter suffices for single-instance deployments; a Postgres
// sequence backs it in production (see the protocol store).
type NumberSequence struct {
	mu   sync.Mutex
	year int
	next int
}

func NewNumberSequence() *NumberSequence {
	return &NumberSequence{}
}

// Next issues the next protocol number for the given issuance time. The
// sequence restarts at 1 when the year rolls over.
func (s *NumberSequence) Next(at time.Time) ProtocolNumber {
	s.mu.Lock()
	defer s.mu.Unlock()
	year := at.Year()
	if year != s.year {
		s.year = year
		s.next = 0
	}
	s.next++
	return ProtocolNumber(fmt.Sprintf("%04d/%06d", year, s.next))
}
