package domain

import "fmt"

// TriState is the shared cross-department reporting vocabulary. Domain
// modules keep their own local status enums (they are genuinely different
// lifecycles); every dispatch handler maps its local statuses onto these
// three buckets so department workloads can be compared.
type TriState string

const (
	TriStateOpen     TriState = "OPEN"
	TriStateInReview TriState = "IN_REVIEW"
	TriStateClosed   TriState = "CLOSED"
)

// ParseTriState validates a tri-state value.
func ParseTriState(s string) (TriState, error) {
	switch TriState(s) {
	case TriStateOpen, TriStateInReview, TriStateClosed:
		return TriState(s), nil
	}
	return "", fmt.Errorf("unknown tri-state %q", s)
}

func (t TriState) String() string { return string(t) }
