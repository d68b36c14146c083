package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRemainingDuration(t *testing.T) {
	now := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	assert.Equal(t, "2h 15m remaining", RemainingDuration("2025-05-01T12:15:00Z", now))
	assert.Equal(t, "0h 0m remaining", RemainingDuration("2025-05-01T10:00:00Z", now))
	assert.Equal(t, "26h 0m remaining", RemainingDuration("2025-05-02T12:00:00Z", now))
	assert.Equal(t, "", RemainingDuration("2025-05-01T09:59:00Z", now))
	assert.Equal(t, TimeNotAvailable, RemainingDuration("soon", now))
	assert.Equal(t, NotAvailable, RemainingDuration("", now))
}

func TestElapsedDuration(t *testing.T) {
	assert.Equal(t, "3h 5m", ElapsedDuration("2025-05-01T10:00:00Z", "2025-05-01T13:05:00Z"))
	assert.Equal(t, "0h 45m", ElapsedDuration("2025-05-01T10:00:00Z", "2025-05-01T10:45:59Z"))
	assert.Equal(t, DurationNotAvailable, ElapsedDuration("bad", "2025-05-01T10:00:00Z"))
	assert.Equal(t, DurationNotAvailable, ElapsedDuration("2025-05-01T10:00:00Z", ""))
	assert.Equal(t, DurationNotAvailable, ElapsedDuration("2025-05-01T10:00:00Z", "2025-05-01T09:00:00Z"))
}
