package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProtocolNumber(t *testing.T) {
	n, err := ParseProtocolNumber("2026/000042")
	require.NoError(t, err)
	assert.Equal(t, "2026/000042", n.String())

	for _, bad := range []string{"", "2026-000042", "26/000042", "2026/42", "2026/0000421"} {
		_, err := ParseProtocolNumber(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestNumberSequence(t *testing.T) {
	seq := NewNumberSequence()
	dec := time.Date(2025, 12, 31, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, ProtocolNumber("2025/000001"), seq.Next(dec))
	assert.Equal(t, ProtocolNumber("2025/000002"), seq.Next(dec))

	// Sequence restarts when the year rolls over.
	jan := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, ProtocolNumber("2026/000001"), seq.Next(jan))
}

func TestParseModuleType(t *testing.T) {
	moduleType, err := ParseModuleType("health.medicalExam")
	require.NoError(t, err)
	assert.Equal(t, "health.medicalExam", moduleType.String())

	for _, bad := range []string{"", "  ", ".medicalExam", "health.", "health..exam"} {
		_, err := ParseModuleType(bad)
		assert.Error(t, err, "expected %q to be rejected", bad)
	}
}

func TestParseTriState(t *testing.T) {
	tri, err := ParseTriState("IN_REVIEW")
	require.NoError(t, err)
	assert.Equal(t, TriStateInReview, tri)

	_, err = ParseTriState("PENDING")
	assert.Error(t, err)
}
