// Package timeutil renders flight timestamps and durations for display.
// Every exported function returns a sentinel string instead of failing.
package timeutil

import (
	"strings"
	"time"

	// Embedded zone database so local rendering works on minimal images.
	_ "time/tzdata"
)

// Format selects how timestamps are rendered.
type Format string

const (
	FormatUTC   Format = "utc"
	FormatLocal Format = "local"
)

const (
	NotAvailable         = "Not available"
	TimeNotAvailable     = "Time not available"
	DurationNotAvailable = "Duration not available"

	DefaultTimezone = "America/New_York"

	UTCLayout   = "2006-01-02:15:04"
	LocalLayout = "1/2/2006, 3:04:05 PM"
	DateLayout  = "2006-01-02"
)

var parseLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.000Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	DateLayout,
}

// ParseFormat maps a user supplied value to a Format, defaulting to UTC.
func ParseFormat(value string) Format {
	if strings.EqualFold(strings.TrimSpace(value), string(FormatLocal)) {
		return FormatLocal
	}
	return FormatUTC
}

// ParseTimestamp parses an ISO-8601 style value. Values without a zone are
// taken as UTC.
func ParseTimestamp(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range parseLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatTimestamp renders iso either as a fixed UTC pattern or converted to
// timezone (DefaultTimezone when empty). Empty input yields NotAvailable and
// unparseable input yields TimeNotAvailable.
func FormatTimestamp(iso string, format Format, timezone string) (out string) {
	defer func() {
		if r := recover(); r != nil {
			out = TimeNotAvailable
		}
	}()

	if strings.TrimSpace(iso) == "" {
		return NotAvailable
	}
	t, ok := ParseTimestamp(iso)
	if !ok {
		return TimeNotAvailable
	}
	if format == FormatLocal {
		return t.In(LoadLocation(timezone)).Format(LocalLayout)
	}
	return t.UTC().Format(UTCLayout)
}

// LoadLocation resolves an IANA zone name. Empty or unknown names fall back
// to DefaultTimezone, and to UTC if that is unavailable too.
func LoadLocation(name string) *time.Location {
	name = strings.TrimSpace(name)
	if name != "" {
		if loc, err := time.LoadLocation(name); err == nil {
			return loc
		}
	}
	if loc, err := time.LoadLocation(DefaultTimezone); err == nil {
		return loc
	}
	return time.UTC
}

// DateOnly returns the UTC calendar day of value as YYYY-MM-DD, or "" when
// value cannot be parsed.
func DateOnly(value string) string {
	t, ok := ParseTimestamp(value)
	if !ok {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// SameUTCDay compares the UTC year, month and day of a and b.
func SameUTCDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}
