package timeutil

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp_UTC(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"zulu", "2025-03-04T05:06:07Z", "2025-03-04:05:06"},
		{"offset converted to utc", "2025-03-04T01:30:00-05:00", "2025-03-04:06:30"},
		{"fractional seconds", "2025-03-04T05:06:07.123Z", "2025-03-04:05:06"},
		{"no zone read as utc", "2025-03-04T23:59:00", "2025-03-04:23:59"},
		{"empty", "", NotAvailable},
		{"blank", "   ", NotAvailable},
		{"garbage", "not-a-date", TimeNotAvailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatTimestamp(tt.in, FormatUTC, "")
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, FormatTimestamp(tt.in, FormatUTC, "Asia/Tokyo"), "utc output ignores timezone")
		})
	}
}

func TestFormatTimestamp_Local(t *testing.T) {
	// 2025-01-15 is EST (UTC-5).
	assert.Equal(t, "1/15/2025, 7:00:00 AM", FormatTimestamp("2025-01-15T12:00:00Z", FormatLocal, ""))
	assert.Equal(t, "1/15/2025, 9:00:00 PM", FormatTimestamp("2025-01-15T12:00:00Z", FormatLocal, "Asia/Tokyo"))
	assert.Equal(t, "1/15/2025, 7:00:00 AM", FormatTimestamp("2025-01-15T12:00:00Z", FormatLocal, "Mars/Olympus"))
	assert.Equal(t, TimeNotAvailable, FormatTimestamp("yesterday", FormatLocal, "UTC"))
}

func TestParseFormat(t *testing.T) {
	assert.Equal(t, FormatLocal, ParseFormat("LOCAL"))
	assert.Equal(t, FormatUTC, ParseFormat("utc"))
	assert.Equal(t, FormatUTC, ParseFormat(""))
}

func TestDateOnlyAndSameUTCDay(t *testing.T) {
	assert.Equal(t, "2025-06-01", DateOnly("2025-06-01"))
	assert.Equal(t, "2025-06-02", DateOnly("2025-06-01T22:00:00-05:00"))
	assert.Equal(t, "", DateOnly("bad"))

	a, ok := ParseTimestamp("2025-06-01T23:30:00Z")
	require.True(t, ok)
	b := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, SameUTCDay(a, b))
	assert.False(t, SameUTCDay(a, b.AddDate(0, 0, 1)))
}
